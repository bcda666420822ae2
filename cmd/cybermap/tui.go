package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pynezz/cybermap/internal/alert"
	"github.com/pynezz/cybermap/internal/dashboard"
	"github.com/pynezz/cybermap/internal/logger"
	"github.com/pynezz/cybermap/internal/tui"
	"github.com/pynezz/cybermap/internal/util"
)

func newTuiCmd(o *options) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the dashboard in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.load()
			if err != nil {
				return err
			}
			// The terminal belongs to termui, so logs go to a file.
			log, err := logger.New(logger.ToFile(cfg.Log, logFile))
			if err != nil {
				return err
			}
			defer log.Sync()

			repo, countries, err := catalogue(cfg, log)
			if err != nil {
				return err
			}
			defer repo.Close()

			wd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, "get working directory")
			}
			screen := tui.New(wd, log.Named("tui"))

			// Console output would tear the termui screen.
			util.Out = io.Discard
			defer func() { util.Out = os.Stdout }()
			dash := newDashboard(cfg, countries, screen, alert.Bell{W: os.Stdout}, repo, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error { return dash.Run(ctx) })
			g.Go(func() error { return watchConfig(ctx, o, dash, log) })
			g.Go(func() error {
				// Quitting the terminal ends every other goroutine.
				defer stop()
				if _, err := dash.Submit(ctx, dashboard.NewReload()); err != nil {
					return err
				}
				return screen.Run(ctx, dash)
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			util.PrintSuccess("Bye")
			return nil
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "cybermap.log", "file the terminal dashboard logs to")
	return cmd
}
