package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/josiasmanzur02/sevenminutes/internal"
	"github.com/josiasmanzur02/sevenminutes/internal/api"
	"github.com/josiasmanzur02/sevenminutes/internal/auth"
	"github.com/josiasmanzur02/sevenminutes/internal/config"
	"github.com/josiasmanzur02/sevenminutes/internal/notify"
	"github.com/josiasmanzur02/sevenminutes/internal/scheduler"
	"github.com/josiasmanzur02/sevenminutes/internal/session"
	"github.com/josiasmanzur02/sevenminutes/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	repo, err := storage.NewStateRepository(cfg.StorageBackend, cfg.StateFile, cfg.PostgresDSN, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer repo.Close()

	var notifier notify.Notifier
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.NotifyWebhookURL, logger)
	}
	presenter := notify.NewPresenter(notifier, nil, repo, logger)

	sched := scheduler.New(repo, presenter, logger)
	defer sched.Stop()

	var reporter session.CompletionReporter
	if cfg.CompleteReportURL != "" {
		reporter = session.NewHTTPReporter(cfg.CompleteReportURL, logger)
	}
	sessions := session.NewManager(repo, presenter, reporter, logger)
	defer sessions.Stop()

	var provider auth.Provider
	if cfg.Env == "development" {
		provider = auth.NewLocalAuthProvider(cfg.AuthToken, logger)
	} else {
		provider = auth.NewRemoteAuthProvider(cfg.AuthServiceURL, logger)
	}

	app := &api.Services{Log: logger, Repo: repo, Sched: sched, Sess: sessions}
	router := api.NewRouter(app, cfg, provider)

	// arm the alarm from persisted settings before accepting traffic
	if next, ok, err := sched.Plan(context.Background()); err != nil {
		logger.Errorf("initial alarm plan failed: %v", err)
	} else if ok {
		logger.Infof("next reminder at %s", next)
	}

	go func() {
		logger.Infof("seven-minutes server listening on %s", cfg.ListenAddr)
		if err := router.Run(cfg.ListenAddr); err != nil {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
}
