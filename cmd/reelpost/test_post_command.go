package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reelpost/internal/daemon"
	"reelpost/internal/notifications"
	"reelpost/internal/release"
)

func newTestPostCommand(ctx *commandContext) *cobra.Command {
	var caption string
	var delay int

	cmd := &cobra.Command{
		Use:   "test-post <filename>...",
		Short: "Run filenames through the pipeline and post to the destination channel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if delay <= 0 {
				return errors.New("--delay must be positive")
			}
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *loaded
			cfg.Coalesce.DelaySeconds = delay
			if err := cfg.ValidateRuntime(); err != nil {
				return err
			}
			logger, err := ctx.toolLogger(&cfg)
			if err != nil {
				return err
			}
			client, err := daemon.NewTelegramClient(&cfg)
			if err != nil {
				return err
			}
			pipe, err := daemon.NewPipeline(&cfg, client, nil, notifications.NewService(&cfg), logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			keys := make(map[release.Key]struct{})
			for _, name := range args {
				key, _ := pipe.Submit(cmd.Context(), release.Event{Filename: name, Caption: caption})
				keys[key] = struct{}{}
				fmt.Fprintf(out, "Queued %s as %q\n", name, key)
			}

			drainCtx, cancel := context.WithTimeout(cmd.Context(), daemon.DrainTimeout(&cfg))
			defer cancel()
			if err := pipe.Drain(drainCtx); err != nil {
				return fmt.Errorf("wait for publish: %w", err)
			}
			fmt.Fprintf(out, "Flushed %d release(s)\n", len(keys))
			return nil
		},
	}
	cmd.Flags().StringVar(&caption, "caption", "", "Caption applied to every file")
	cmd.Flags().IntVar(&delay, "delay", 1, "Coalescing delay in seconds")
	return cmd
}
