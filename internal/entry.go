// Package internal wires configuration, the filter pipeline and its I/O
// into a single run.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/pacofilter/internal/filter"
	"github.com/starford/pacofilter/internal/storage"
	"github.com/starford/pacofilter/internal/watch"
)

// Run filters the input once and emits the result. With WithWatch it then
// keeps re-filtering on every input change until ctx is cancelled or the
// process receives SIGINT/SIGTERM.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{stdout: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.input == "" {
		return fmt.Errorf("input path is required")
	}

	cfg := app.config

	// Structured JSON logger on stderr; stdout may carry the document.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	sink := storage.NewSink(app.output, app.stdout)

	logger.Info("Configuration loaded",
		slog.String("input", app.input),
		slog.String("output", sink.String()),
		slog.Any("keep_network_instances", cfg.Filter.KeepNetworkInstances),
		slog.Any("usage_markers", cfg.Filter.UsageMarkers),
		slog.String("consolidation", cfg.Filter.Consolidation),
		slog.Any("keep_whole_markers", cfg.Filter.KeepWholeMarkers),
		slog.String("log_level", cfg.App.LogLevel.String()))

	pipeline := filter.New(cfg.Filter.Policy(), logger)

	process := func() error {
		doc, err := storage.Load(app.input)
		if err != nil {
			return err
		}
		report, err := pipeline.Apply(doc)
		if err != nil {
			return fmt.Errorf("filter %s: %w", app.input, err)
		}
		if err := storage.Emit(doc, sink); err != nil {
			return err
		}
		logger.Info("Configuration filtered",
			slog.Int("instances_kept", report.InstancesKept),
			slog.Int("instances_dropped", report.InstancesDropped),
			slog.Int("in_use_interfaces", report.InUse),
			slog.Int("bfd_kept", report.BfdKept),
			slog.Int("interfaces_out", report.InterfacesOut),
			slog.String("output", sink.String()))
		return nil
	}

	if err := process(); err != nil {
		return err
	}
	if !app.watch {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return watch.Run(gCtx, app.input, logger, process)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Watch error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Watch stopped")
	return nil
}
