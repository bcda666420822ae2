package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pynezz/cybermap/internal/alert"
	"github.com/pynezz/cybermap/internal/api"
	"github.com/pynezz/cybermap/internal/dashboard"
	"github.com/pynezz/cybermap/internal/logger"
	"github.com/pynezz/cybermap/internal/threat"
	"github.com/pynezz/cybermap/internal/util"
	"github.com/pynezz/cybermap/pkg/version"
)

func newServeCmd(o *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard and its API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Network.Address = addr
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer log.Sync()

			util.PrintColorBold(util.Cyan, version.Short())

			repo, countries, err := catalogue(cfg, log)
			if err != nil {
				return err
			}
			defer repo.Close()

			hub := api.NewHub(log.Named("ws"))
			dash := newDashboard(cfg, countries, hub, alert.Multi{hub, alert.PlayerFunc(consoleAlert)}, repo, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error { return dash.Run(ctx) })

			out, err := dash.Submit(ctx, dashboard.NewReload())
			if err != nil {
				stop()
				_ = g.Wait()
				return err
			}
			util.PrintInfo(out.Frame.Status)

			g.Go(func() error { return watchConfig(ctx, o, dash, log) })

			srv := api.NewServer(cfg.Network, dash, hub, api.Meta{
				Types:      threat.Types,
				Severities: threat.Severities,
				Countries:  countries,
				IntervalMs: cfg.Feed.IntervalMs,
				Version:    version.Short(),
			}, log)
			g.Go(func() error { return srv.Serve(ctx, cfg.Network.Address) })

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("server stopped with error", zap.Error(err))
				return err
			}
			util.PrintSuccess("Shut down cleanly")
			return nil
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address, overrides network.address")
	return cmd
}
