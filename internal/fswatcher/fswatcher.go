// Package fswatcher reloads the configuration file when it changes and feeds
// the live-tunable settings back into the dashboard.
package fswatcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/pynezz/cybermap/internal/config"
	"github.com/pynezz/cybermap/internal/dashboard"
	"github.com/pynezz/cybermap/pkg/model"
)

// settle is how long the file must stay quiet before it is reloaded.
// Editors often save with several writes or a rename.
const settle = 100 * time.Millisecond

// Submitter accepts dashboard commands. *dashboard.Dashboard implements it.
type Submitter interface {
	Submit(ctx context.Context, cmd dashboard.Command) (dashboard.Outcome, error)
}

// Commands returns the commands that bring a running dashboard in line with cfg.
func Commands(cfg *model.Config) []dashboard.Command {
	return []dashboard.Command{
		dashboard.NewSetFilter(config.Criteria(cfg)),
		dashboard.NewSetSound(cfg.Sound.Enabled),
	}
}

// SubmitTo returns a reload handler that submits Commands(cfg) to sub.
func SubmitTo(ctx context.Context, sub Submitter, log *zap.Logger) func(*model.Config) {
	if log == nil {
		log = zap.NewNop()
	}
	return func(cfg *model.Config) {
		for _, cmd := range Commands(cfg) {
			if _, err := sub.Submit(ctx, cmd); err != nil {
				log.Warn("failed to apply reloaded configuration", zap.Stringer("command", cmd.Kind), zap.Error(err))
			}
		}
	}
}

// Watch calls onChange with the reloaded configuration every time file is
// written, until ctx is done. Invalid files are logged and skipped.
func Watch(ctx context.Context, file string, onChange func(*model.Config), log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return errors.Wrapf(err, "resolve %s", file)
	}

	// Create new watcher.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer watcher.Close()

	// The directory is watched so a file replaced by rename is still seen.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}
	log.Info("watching configuration", zap.String("file", abs))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.Debug("configuration modified", zap.Stringer("op", event.Op))
				pending = time.After(settle)
			}

		case <-pending:
			pending = nil
			cfg, err := config.LoadConfig(abs)
			if err != nil {
				log.Warn("ignoring invalid configuration", zap.String("file", abs), zap.Error(err))
				continue
			}
			log.Info("configuration reloaded", zap.String("file", abs))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher error", zap.Error(err))
		}
	}
}
