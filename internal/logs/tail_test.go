package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"reelpost/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reelpost.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLast(t *testing.T) {
	path := writeLog(t, "a\nb key=1\nc\nd key=1\npartial")

	tests := []struct {
		name  string
		n     int
		match func(string) bool
		want  []string
	}{
		{"fewer than available", 2, nil, []string{"c", "d key=1"}},
		{"more than available", 10, nil, []string{"a", "b key=1", "c", "d key=1"}},
		{"filtered", 5, logs.Contains("key=1"), []string{"b key=1", "d key=1"}},
		{"zero", 0, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, offset, err := logs.Last(path, tt.n, tt.match)
			if err != nil {
				t.Fatalf("Last: %v", err)
			}
			if len(lines) != len(tt.want) || (len(lines) > 0 && !reflect.DeepEqual(lines, tt.want)) {
				t.Fatalf("lines = %#v, want %#v", lines, tt.want)
			}
			if tt.n > 0 && offset != int64(len("a\nb key=1\nc\nd key=1\n")) {
				t.Fatalf("offset = %d, expected to stop before the partial line", offset)
			}
		})
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "nope.log"), 5, nil)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("Last = %v, %d, %v", lines, offset, err)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	_, offset, err := logs.Last(path, 1, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	arrived := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 10*time.Millisecond, logs.Contains("Show"), func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
			arrived <- struct{}{}
		})
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("other\nShow S02 published\n"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	_ = f.Close()

	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("follow did not emit appended line")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Follow: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if !reflect.DeepEqual(got, []string{"Show S02 published"}) {
		t.Fatalf("got %#v", got)
	}
}

func TestFollowRestartsAfterTruncate(t *testing.T) {
	path := writeLog(t, "old line one\nold line two\n")
	_, offset, err := logs.Last(path, 0, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if err := os.WriteFile(path, []byte("new\n"), 0o644); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lines := make(chan string, 4)
	go func() {
		_ = logs.Follow(ctx, path, offset, 10*time.Millisecond, nil, func(line string) { lines <- line })
	}()

	select {
	case line := <-lines:
		if line != "new" {
			t.Fatalf("line = %q", line)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("follow did not restart after truncate")
	}
}
