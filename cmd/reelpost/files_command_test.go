package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reelpost/internal/filestore"
	"reelpost/internal/testsupport"
)

func TestFilesAndStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"files"}, env.configPath)
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	requireContains(t, out, "No files stored")

	store, err := filestore.Open(env.cfg)
	if err != nil {
		t.Fatalf("filestore.Open: %v", err)
	}
	testsupport.SaveFile(t, store, "a1", "Show S02")
	testsupport.SaveFile(t, store, "a2", "Show S02")
	testsupport.SaveFile(t, store, "b1", "Some Movie 2021")
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	out, _, err = runCLI(t, []string{"files", "--limit", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	requireContains(t, out, "b1.mkv")
	requireContains(t, out, "a2.mkv")
	if strings.Contains(out, "a1.mkv") {
		t.Fatalf("limit not applied:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Daemon running")
	requireContains(t, out, "no")
	requireContains(t, out, "3")
	requireContains(t, out, "fallback only")
}

func TestStatusCheck(t *testing.T) {
	bot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"username":"reel_bot"}}`))
	}))
	t.Cleanup(bot.Close)

	env := setupCLITestEnv(t, testsupport.WithTelegramAPI(bot.URL))
	out, _, err := runCLI(t, []string{"status", "--check"}, env.configPath)
	if err != nil {
		t.Fatalf("status --check: %v\n%s", err, out)
	}
	requireContains(t, out, "State directory")
	requireContains(t, out, "authorized as @reel_bot")
}

func TestTestNotify(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"test-notify"}, env.configPath); err == nil {
		t.Fatal("expected error without ntfy topic")
	}

	titles := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		titles <- r.Header.Get("Title")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	env = setupCLITestEnv(t, testsupport.WithNtfy(server.URL))
	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if title := <-titles; title != "reelpost - Test" {
		t.Fatalf("title = %q", title)
	}
}
