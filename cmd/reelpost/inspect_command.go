package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reelpost/internal/publish"
	"reelpost/internal/release"
)

func newInspectCommand() *cobra.Command {
	var caption string

	cmd := &cobra.Command{
		Use:         "inspect <filename>",
		Short:       "Show the release key and attributes derived from a filename",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, desc := release.Describe(release.Event{Filename: args[0], Caption: caption})
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, inspectRows(key, desc), nil, shouldColorize(out)))
			return nil
		},
	}
	cmd.Flags().StringVar(&caption, "caption", "", "Caption text sent with the upload")
	return cmd
}

func inspectRows(key release.Key, desc release.FileDescriptor) [][]string {
	parts := key.Parts()
	summary, _ := publish.Aggregate(key, []release.FileDescriptor{desc})

	episode := "-"
	if desc.Episode > 0 {
		episode = fmt.Sprintf("E%02d", desc.Episode)
	}
	year := "-"
	if parts.Year > 0 {
		year = strconv.Itoa(parts.Year)
	}
	season := "-"
	if parts.Season > 0 {
		season = fmt.Sprintf("S%02d", parts.Season)
	}

	return [][]string{
		{"Key", orDash(key.String())},
		{"Title", orDash(parts.Title)},
		{"Year", year},
		{"Season", season},
		{"Category", desc.Category.String()},
		{"Episode", episode},
		{"Qualities", publish.Join(summary.Qualities)},
		{"Formats", publish.Join(summary.Formats)},
		{"Audio", publish.Join(summary.AudioLanguages)},
	}
}
