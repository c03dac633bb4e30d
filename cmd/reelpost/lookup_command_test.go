package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"reelpost/internal/testsupport"
)

func TestLookupWithoutSourcesUsesFallback(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"lookup", "Some.Movie.2021.1080p"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	requireContains(t, out, "Some Movie 2021")
	requireContains(t, out, "MOVIE")
	requireContains(t, out, "No lookup sources configured")
}

func TestLookupWithTMDB(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/multi":
			_, _ = w.Write([]byte(`{"results":[{"id":42,"title":"Some Movie","media_type":"movie","vote_average":7.4,"poster_path":"/p.jpg"}]}`))
		case "/movie/42":
			_, _ = w.Write([]byte(`{"id":42,"genres":[{"id":1,"name":"Action"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	env := setupCLITestEnv(t, testsupport.WithTMDB(server.URL))

	out, _, err := runCLI(t, []string{"lookup", "Some", "Movie", "2021"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	requireContains(t, out, "Action")
	requireContains(t, out, "7.4")
	requireContains(t, out, "/p.jpg")
	requireContains(t, out, "tmdb")
}
