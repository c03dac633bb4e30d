package main

import (
	"testing"
)

func TestInspectCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "movie",
			args: []string{"inspect", "Some.Movie.2021.1080p.WEB-DL.x264.Hindi.mkv"},
			want: []string{"Some Movie 2021", "MOVIE", "1080p", "WEB", "Hindi", "2021"},
		},
		{
			name: "series episode",
			args: []string{"inspect", "Show.S02E05.720p.mkv"},
			want: []string{"Show S02", "SERIES", "E05", "720p"},
		},
		{
			name: "caption contributes attributes",
			args: []string{"inspect", "Plain Title", "--caption", "Tamil 2160p"},
			want: []string{"Plain Title", "2160p", "Tamil"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, tt.args, "")
			if err != nil {
				t.Fatalf("inspect: %v", err)
			}
			for _, want := range tt.want {
				requireContains(t, out, want)
			}
		})
	}
}

func TestInspectRequiresFilename(t *testing.T) {
	if _, _, err := runCLI(t, []string{"inspect"}, ""); err == nil {
		t.Fatal("expected error without filename")
	}
}
