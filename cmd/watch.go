package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/w2sv/filenavigator/core/classify"
	"github.com/w2sv/filenavigator/core/config"
	"github.com/w2sv/filenavigator/core/history"
	"github.com/w2sv/filenavigator/core/mediastore"
	"github.com/w2sv/filenavigator/core/moving"
	"github.com/w2sv/filenavigator/core/notifications"
	"github.com/w2sv/filenavigator/core/observing"
	"github.com/w2sv/filenavigator/core/pipeline"
	"github.com/w2sv/filenavigator/core/storage"
)

var watchVolumeRoot string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the observation daemon",
	Long: `Watch builds one file observer per active media category, routes
candidate files through the move pipeline, and runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch()
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchVolumeRoot, "volume-root", "", "override the configured volume root")
	rootCmd.AddCommand(watchCmd)
}

func runWatch() error {
	logger := slog.Default()
	dirs := storage.ResolveDirs()

	manager := config.NewManager(dirs, logger)
	if err := manager.Load(); err != nil {
		return err
	}
	cfg := manager.Get()
	if watchVolumeRoot != "" {
		cfg.VolumeRoot = watchVolumeRoot
	}
	if cfg.VolumeRoot == "" {
		return fmt.Errorf("no volume root configured (set volume_root or pass --volume-root)")
	}

	indexConfig, err := cfg.IndexConfig()
	if err != nil {
		return err
	}
	index, err := mediastore.NewFSIndex(indexConfig, logger)
	if err != nil {
		return err
	}

	userTypes, err := cfg.UserFileTypes()
	if err != nil {
		return err
	}
	classifier, err := classify.NewClassifier(userTypes, logger)
	if err != nil {
		return err
	}
	defer classifier.Close()

	enablement, err := config.NewEnablementView(manager, logger)
	if err != nil {
		return err
	}

	historyPath := cfg.History.DatabasePath
	if historyPath == "" {
		historyPath = dirs.DataFile("history.db")
	}
	historyDB, err := history.Open(historyPath)
	if err != nil {
		return err
	}
	defer historyDB.Close()

	notifier := notifications.NewLogNotifier(logger)
	ledger := notifications.NewResourceLedger(1)
	toasts := notifications.NewToastWriter(os.Stdout)

	var dispatcher *pipeline.Dispatcher
	executor := moving.NewExecutor(index,
		func(op moving.Operation, result moving.Result) {
			dispatcher.HandleResult(op, result)
		},
		moving.ExecutorConfig{
			Workers:   cfg.Mover.Workers,
			QueueSize: cfg.Mover.QueueSize,
		},
		logger,
	)

	dispatcher = pipeline.NewDispatcher(
		enablement, executor, notifier, ledger, historyDB, toasts,
		func() string {
			if dests := manager.Get().QuickMoveDestinations; len(dests) > 0 {
				return dests[0]
			}
			return ""
		},
		logger,
	)

	fetcher := mediastore.NewFetcher(index, logger)
	registry := observing.NewRegistry(
		index, fetcher, classifier, enablement,
		dispatcher.HandleCandidate, cfg.ObserverConfig(), logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	executor.Start()
	defer executor.Stop()

	if err := registry.Build(ctx); err != nil {
		return err
	}
	defer registry.Teardown()

	// Rebuild only when the set of categories needing an observer changes;
	// per-pair enablement updates flow through the enablement view.
	manager.Subscribe(func(updated *config.Config) {
		if !sameCategories(registry.ObservedCategories(), observing.ActiveCategories(enablement.Current())) {
			if err := registry.Rebuild(ctx); err != nil {
				logger.Warn("registry rebuild failed", "err", err)
			}
		}
	})

	stopWatch := make(chan struct{})
	defer close(stopWatch)
	if err := manager.Watch(stopWatch); err != nil {
		logger.Warn("config watch unavailable", "err", err)
	}

	logger.Info("watching", "categories", len(registry.ObservedCategories()))
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func sameCategories(a, b []mediastore.Category) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[mediastore.Category]bool, len(a))
	for _, c := range a {
		set[c] = true
	}
	for _, c := range b {
		if !set[c] {
			return false
		}
	}
	return true
}
