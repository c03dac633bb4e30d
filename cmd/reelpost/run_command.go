package main

import (
	"context"
	"fmt"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"reelpost/internal/daemon"
	"reelpost/internal/logging"
	"reelpost/internal/preflight"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Watch the source channels and publish announcements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemonProcess(cmd.Context(), ctx)
		},
	}
}

func runDaemonProcess(cmdCtx context.Context, ctx *commandContext) error {
	if cmdCtx == nil {
		cmdCtx = context.Background()
	}
	signalCtx, cancel := signal.NotifyContext(cmdCtx, unix.SIGINT, unix.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if client, err := daemon.NewTelegramClient(cfg); err == nil {
		for _, r := range preflight.Failed(preflight.RunAll(signalCtx, cfg, preflight.TelegramBot(client))) {
			logger.Warn("preflight check failed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.Alert("preflight"),
			)
		}
	}

	d, err := daemon.Assemble(cfg, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Start(signalCtx); err != nil {
		_ = d.Close(0)
		return err
	}

	select {
	case <-signalCtx.Done():
		logger.Info("reelpost shutting down")
	case <-d.Done():
		logger.Warn("watcher stopped", logging.Error(d.Err()))
	}

	runErr := d.Err()
	if err := d.Close(daemon.DrainTimeout(cfg)); err != nil {
		logger.Warn("daemon close", logging.Error(err))
	}
	return runErr
}
