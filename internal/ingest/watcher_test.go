package ingest_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"reelpost/internal/ingest"
	"reelpost/internal/release"
	"reelpost/internal/telegram"
	"reelpost/internal/testsupport"
)

const sourceChat = -1001

type queued struct {
	key  release.Key
	desc release.FileDescriptor
}

type recordingSink struct {
	mu    sync.Mutex
	items []queued
}

func (s *recordingSink) Enqueue(_ context.Context, key release.Key, desc release.FileDescriptor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, queued{key: key, desc: desc})
	return true
}

type scriptedUpdates struct {
	calls   int
	batches [][]telegram.Update
	offsets []int64
	onEmpty func()
}

func (s *scriptedUpdates) GetUpdates(ctx context.Context, offset int64, _ time.Duration) ([]telegram.Update, error) {
	s.offsets = append(s.offsets, offset)
	s.calls++
	if len(s.batches) == 0 {
		if s.onEmpty != nil {
			s.onEmpty()
		}
		return nil, ctx.Err()
	}
	next := s.batches[0]
	s.batches = s.batches[1:]
	return next, nil
}

func video(updateID int64, chat int64, uniqueID, name, caption string) telegram.Update {
	return telegram.Update{
		UpdateID: updateID,
		ChannelPost: &telegram.Message{
			MessageID: updateID * 10,
			Date:      1_700_000_000,
			Chat:      telegram.Chat{ID: chat, Type: "channel"},
			Caption:   caption,
			Video:     &telegram.File{FileID: "fid-" + uniqueID, FileUniqueID: uniqueID, FileName: name, FileSize: 1 << 20},
		},
	}
}

func TestPollFiltersPersistsAndQueues(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	sink := &recordingSink{}
	updates := &scriptedUpdates{batches: [][]telegram.Update{{
		video(5, sourceChat, "u1", "Some.Movie.2021.1080p.WEB.mkv", "Hindi"),
		video(6, -999, "u2", "Other.Movie.2020.mkv", ""),
		{UpdateID: 7, ChannelPost: &telegram.Message{Chat: telegram.Chat{ID: sourceChat}, Caption: "text only"}},
		video(8, sourceChat, "u1", "Some.Movie.2021.1080p.WEB.mkv", "forwarded again"),
		{UpdateID: 9},
	}}}
	w := ingest.NewWatcher(updates, store, sink, []int64{sourceChat})
	ctx := context.Background()

	next, err := w.Poll(ctx, 0)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if next != 10 {
		t.Fatalf("next offset = %d, want 10", next)
	}
	if stored, _ := store.Offset(ctx); stored != 10 {
		t.Fatalf("stored offset = %d", stored)
	}

	if len(sink.items) != 1 {
		t.Fatalf("expected one queued upload, got %d", len(sink.items))
	}
	got := sink.items[0]
	if got.key != "Some Movie 2021" || got.desc.FileRef != "fid-u1" {
		t.Fatalf("unexpected queued item: %+v", got)
	}
	if len(got.desc.AudioLanguages) != 1 || got.desc.AudioLanguages[0] != "Hindi" {
		t.Fatalf("caption languages not detected: %v", got.desc.AudioLanguages)
	}
	if count, _ := store.CountByKey(ctx, "Some Movie 2021"); count != 1 {
		t.Fatalf("stored count = %d", count)
	}
}

func TestHandleAcceptsDocuments(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	sink := &recordingSink{}
	w := ingest.NewWatcher(&scriptedUpdates{}, store, sink, []int64{sourceChat})

	ok := w.Handle(context.Background(), telegram.Update{
		UpdateID: 1,
		ChannelPost: &telegram.Message{
			Chat:     telegram.Chat{ID: sourceChat},
			Document: &telegram.File{FileID: "doc", FileUniqueID: "d1", FileName: "Show.S01E04.720p.mkv"},
		},
	})
	if !ok || len(sink.items) != 1 {
		t.Fatalf("document not queued: %v %d", ok, len(sink.items))
	}
	if sink.items[0].key != "Show S01" || sink.items[0].desc.Episode != 4 {
		t.Fatalf("unexpected item: %+v", sink.items[0])
	}
}

func TestRunResumesFromStoredOffset(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := store.SetOffset(ctx, 40); err != nil {
		t.Fatalf("SetOffset: %v", err)
	}

	sink := &recordingSink{}
	updates := &scriptedUpdates{
		batches: [][]telegram.Update{{video(40, sourceChat, "r1", "Film.2020.mkv", "")}},
		onEmpty: cancel,
	}
	w := ingest.NewWatcher(updates, store, sink, []int64{sourceChat}, ingest.WithPollTimeout(0))

	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(updates.offsets) != 2 || updates.offsets[0] != 40 || updates.offsets[1] != 41 {
		t.Fatalf("offsets = %v", updates.offsets)
	}
	if len(sink.items) != 1 {
		t.Fatalf("queued %d items", len(sink.items))
	}
}
