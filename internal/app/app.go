package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/semmidev/mongos3/internal/adapter/database"
	"github.com/semmidev/mongos3/internal/adapter/notifier"
	"github.com/semmidev/mongos3/internal/adapter/storage"
	"github.com/semmidev/mongos3/internal/config"
	"github.com/semmidev/mongos3/internal/domain"
	"github.com/semmidev/mongos3/internal/infrastructure/logger"
	"github.com/semmidev/mongos3/internal/infrastructure/process"
	"github.com/semmidev/mongos3/internal/usecase"
)

const (
	backupsDir  = "backups"
	restoresDir = "restores"
)

type Database interface {
	domain.Dumper
	domain.Restorer
}

type App struct {
	config   *config.Config
	logger   *logger.Logger
	store    domain.ObjectStore
	db       Database
	notifier domain.Notifier
	out      io.Writer
	workDir  string

	lister *usecase.Lister
	pruner *usecase.Prune
}

type Options struct {
	// Out receives summaries and listings; logs go to the logger.
	Out io.Writer
	// WorkDir holds the backups and restores directories; defaults to the current directory.
	WorkDir string
}

func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log, err := logger.New(logger.Options{Level: cfg.App.LogLevel, File: cfg.App.LogFile})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := storage.NewS3(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3: %w", err)
	}

	db := database.NewMongoDB(cfg, process.NewRunner())

	var notify domain.Notifier
	if cfg.TelegramEnabled() {
		tg, err := notifier.NewTelegram(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID)
		if err != nil {
			log.Warnf("Telegram notifications disabled: %v", err)
		} else {
			notify = tg
			log.Debugf("✓ Telegram notifications enabled")
		}
	}

	if opts.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		opts.WorkDir = wd
	}

	return newApp(cfg, log, store, db, notify, opts), nil
}

func newApp(cfg *config.Config, log *logger.Logger, store domain.ObjectStore, db Database, notify domain.Notifier, opts Options) *App {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	lister := usecase.NewLister(store, cfg.S3.Prefix)

	return &App{
		config:   cfg,
		logger:   log,
		store:    store,
		db:       db,
		notifier: notify,
		out:      out,
		workDir:  opts.WorkDir,
		lister:   lister,
		pruner:   usecase.NewPrune(lister, store, cfg.S3.Prefix, log),
	}
}

func (a *App) Logger() *logger.Logger {
	return a.logger
}

func (a *App) Shutdown() {
	a.logger.Close()
}

func (a *App) workspace(name string) (*storage.LocalStorage, error) {
	ws, err := storage.NewLocal(filepath.Join(a.workDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare %s directory: %w", name, err)
	}
	return ws, nil
}

// notify reports to the configured chat. Delivery problems never fail the command.
func (a *App) notify(ctx context.Context, message string) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.Notify(ctx, message); err != nil {
		a.logger.Warnf("Failed to send notification: %v", err)
	}
}

// Retention is the configured number of backups to keep; 0 keeps all.
func (a *App) Retention() int {
	return a.config.Backup.Retention
}
