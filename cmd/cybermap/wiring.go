package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pynezz/cybermap/internal/alert"
	"github.com/pynezz/cybermap/internal/config"
	"github.com/pynezz/cybermap/internal/dashboard"
	"github.com/pynezz/cybermap/internal/database"
	"github.com/pynezz/cybermap/internal/feed"
	"github.com/pynezz/cybermap/internal/fswatcher"
	"github.com/pynezz/cybermap/internal/render"
	"github.com/pynezz/cybermap/internal/threat"
	"github.com/pynezz/cybermap/internal/util"
	"github.com/pynezz/cybermap/pkg/model"
)

// catalogue opens the database, seeds the country list on first use and
// returns it for the generator.
func catalogue(cfg *model.Config, log *zap.Logger) (*database.Repository, []threat.Country, error) {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	repo, err := database.NewRepository(db, log.Named("db"))
	if err != nil {
		return nil, nil, err
	}
	if err := repo.SeedCountries(threat.DefaultCountries); err != nil {
		repo.Close()
		return nil, nil, err
	}
	countries, err := repo.Countries()
	if err != nil {
		repo.Close()
		return nil, nil, err
	}
	return repo, countries, nil
}

func newDashboard(cfg *model.Config, countries []threat.Country, r render.Renderer, p alert.Player, repo *database.Repository, log *zap.Logger) *dashboard.Dashboard {
	clock := feed.RealClock{}
	gen := threat.NewGenerator(countries, threat.WithClock(clock.Now))
	return dashboard.New(gen, dashboard.Options{
		Clock:     clock,
		Interval:  time.Duration(cfg.Feed.IntervalMs) * time.Millisecond,
		Capacity:  cfg.Feed.MaxRecords,
		ReloadMin: cfg.Feed.ReloadMin,
		ReloadMax: cfg.Feed.ReloadMax,
		FeedSize:  cfg.Feed.FeedSize,
		Sound:     cfg.Sound.Enabled,
		Criteria:  config.Criteria(cfg),
		Renderer:  r,
		Player:    p,
		Auditor:   repo,
		Log:       log.Named("dashboard"),
	})
}

// watchConfig runs the configuration watcher when enabled. It returns when
// ctx is done.
func watchConfig(ctx context.Context, o *options, dash *dashboard.Dashboard, log *zap.Logger) error {
	if !o.watch {
		return nil
	}
	return fswatcher.Watch(ctx, o.configPath, fswatcher.SubmitTo(ctx, dash, log), log.Named("watch"))
}

// consoleAlert echoes alert cues to the server console.
func consoleAlert(severity threat.Severity) error {
	_, err := fmt.Fprintln(util.Out, util.ColorF(util.SeverityColor(string(severity)), "[!] %s threat detected", severity))
	return err
}
