package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/SchnorcherSepp/storagefs/config"
	impl "github.com/SchnorcherSepp/storagefs/defaultimpl"
	interf "github.com/SchnorcherSepp/storagefs/interfaces"
	"github.com/SchnorcherSepp/storagefs/logging"
	"github.com/SchnorcherSepp/storagefs/metrics"
)

// backend is the value of the metrics label "backend".
const backend = "memory"

// app is the adapter stack of one CLI run.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	adapter interf.Adapter // memory, optionally cached and instrumented
	cached  interf.StatAdapter
	storage *impl.Storage
}

// openApp loads the config and the snapshot and builds the adapter stack.
// A missing snapshot file starts with an empty storage.
func openApp(cmd *cli.Command) (*app, error) {
	cfg := config.NewDefault()
	if err := config.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if s := cmd.String("snapshot"); s != "" {
		cfg.Snapshot.Path = s
	}
	if l := cmd.String("log-level"); l != "" {
		cfg.Log.Level = l
	}

	if err := logging.Init(cfg.Log.Logging()); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	logger := logging.Named("storagefs")

	fileVis, dirVis, err := cfg.Storage.Visibilities()
	if err != nil {
		return nil, err
	}

	// memory adapter
	opts := impl.MemoryOptions{URL: cfg.Storage.URL, Logger: logger}
	adapter, err := impl.LoadSnapshot(cfg.Snapshot.Path, opts)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("no snapshot, starting empty", zap.String("snapshot", cfg.Snapshot.Path))
		adapter, err = impl.NewMemoryAdapter(opts), nil
	}
	if err != nil {
		return nil, err
	}

	// decorators
	var cached interf.StatAdapter
	if cfg.Cache.Enabled {
		cache := impl.NewCache(cfg.Cache.SizeMB)
		cached = impl.NewCachedAdapter(adapter, cache, logger)
		adapter = cached
		if cfg.Metrics.Enabled {
			if err := metrics.RegisterCache(nil, backend, cache); err != nil {
				logger.Warn("cache metrics not registered", zap.Error(err))
			}
		}
	}
	if cfg.Metrics.Enabled {
		adapter = metrics.Instrument(adapter, backend)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		adapter: adapter,
		cached:  cached,
		storage: impl.NewStorage(adapter, impl.StorageOptions{FileVisibility: fileVis, DirectoryVisibility: dirVis}),
	}, nil
}

// save writes the snapshot file.
func (a *app) save(ctx context.Context) error {
	if err := impl.SaveSnapshot(ctx, a.adapter, a.cfg.Snapshot.Path); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	a.logger.Debug("snapshot saved", zap.String("snapshot", a.cfg.Snapshot.Path))
	return nil
}

// withApp opens the app for a command. After a successful mutating command the snapshot is saved.
// With metrics enabled, the metrics textfile is written after every successful command.
func withApp(mutates bool, fn func(ctx context.Context, cmd *cli.Command, a *app) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}

		if err := fn(ctx, cmd, a); err != nil {
			return err
		}
		if a.cached != nil {
			a.logger.Debug("cache stat", zap.Any("stat", a.cached.Stat()))
		}
		if mutates {
			if err := a.save(ctx); err != nil {
				return err
			}
		}
		if a.cfg.Metrics.Enabled {
			if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
		}
		return nil
	}
}

// reporter returns the progress reporter of a bulk operation.
// Progress is always logged at debug level; with --progress it is also printed to stderr.
func (a *app) reporter(cmd *cli.Command, op, path string) interf.Reporter {
	log := impl.LogReporter(a.logger, op, path)
	if !cmd.Bool("progress") {
		return log
	}
	w := cmd.Root().ErrWriter
	return impl.MultiReporter(log, impl.ReporterFunc(func(current, total int) {
		fmt.Fprintf(w, "%s %s: %d/%d\n", op, path, current, total)
	}))
}
