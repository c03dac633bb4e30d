package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"reelpost/internal/daemon"
	"reelpost/internal/filestore"
	"reelpost/internal/preflight"
)

func newFilesCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List recently stored uploads",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := filestore.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No files stored")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				added := "-"
				if !rec.CreatedAt.IsZero() {
					added = humanize.Time(rec.CreatedAt)
				}
				rows = append(rows, []string{
					strconv.FormatInt(rec.ID, 10),
					orDash(rec.ReleaseKey.String()),
					orDash(rec.FileName),
					humanize.Bytes(uint64(max(rec.SizeBytes, 0))),
					added,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Key", "File", "Size", "Added"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				shouldColorize(out),
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of files to show")
	return cmd
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and store status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			running, err := daemonRunning(cfg.LockPath())
			if err != nil {
				return err
			}
			store, err := filestore.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			files, keys, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Daemon running", yesNo(running)},
				{"Files stored", strconv.Itoa(files)},
				{"Releases", strconv.Itoa(keys)},
				{"Database", store.Path()},
				{"Lock file", cfg.LockPath()},
				{"Lookup", lookupSummary(cfg.TMDB.APIKey != "", cfg.SearchAPI.Enabled)},
				{"Notifications", yesNo(cfg.Notifications.NtfyTopic != "")},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Item", "Value"}, rows, nil, shouldColorize(out)))
			if !check {
				return nil
			}

			var bot preflight.Bot
			if cfg.Telegram.BotToken != "" {
				client, err := daemon.NewTelegramClient(cfg)
				if err != nil {
					return err
				}
				bot = preflight.TelegramBot(client)
			}
			results := preflight.RunAll(cmd.Context(), cfg, bot)
			checkRows := make([][]string, 0, len(results))
			for _, r := range results {
				state := "ok"
				if !r.Passed {
					state = "FAIL"
				}
				checkRows = append(checkRows, []string{r.Name, state, r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, checkRows, nil, shouldColorize(out)))
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d preflight check(s) failed", len(failed))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Also run readiness checks against configured services")
	return cmd
}

// daemonRunning reports whether another process holds the daemon lock.
func daemonRunning(lockPath string) (bool, error) {
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("probe daemon lock: %w", err)
	}
	if ok {
		_ = lock.Unlock()
		return false, nil
	}
	return true, nil
}

func lookupSummary(tmdb, search bool) string {
	switch {
	case tmdb && search:
		return "tmdb, search_api"
	case tmdb:
		return "tmdb"
	case search:
		return "search_api"
	default:
		return "fallback only"
	}
}
