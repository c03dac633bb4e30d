package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelpost/internal/daemon"
	"reelpost/internal/release"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <name>",
		Short: "Resolve metadata for a release name with the configured sources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.toolLogger(cfg)
			if err != nil {
				return err
			}
			enricher, err := daemon.NewEnricher(cfg, logger)
			if err != nil {
				return err
			}

			key := release.Normalize(strings.Join(args, " "))
			md := enricher.Resolve(cmd.Context(), key)

			rating := "-"
			if md.Rating > 0 {
				rating = strconv.FormatFloat(md.Rating, 'f', 1, 64)
			}
			sources := enricher.Sources()
			rows := [][]string{
				{"Key", orDash(key.String())},
				{"Title", orDash(md.Title)},
				{"Kind", orDash(md.Kind)},
				{"Genres", orDash(strings.Join(md.Genres, ", "))},
				{"Rating", rating},
				{"Poster", orDash(md.PosterURL)},
				{"Sources", orDash(strings.Join(sources, ", "))},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil, shouldColorize(out)))
			if len(sources) == 0 {
				fmt.Fprintln(out, "No lookup sources configured; set tmdb.api_key or enable search_api")
			}
			return nil
		},
	}
}
