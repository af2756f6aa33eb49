package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog_api/internal/config"
	"github.com/Skotchmaster/catalog_api/internal/db"
	"github.com/Skotchmaster/catalog_api/internal/events"
	"github.com/Skotchmaster/catalog_api/internal/repo"
	"github.com/Skotchmaster/catalog_api/internal/search"
	"github.com/Skotchmaster/catalog_api/internal/service"
	"github.com/Skotchmaster/catalog_api/internal/tokens"
	"github.com/Skotchmaster/catalog_api/internal/validation"
)

// App holds the process-wide dependencies shared by the server and the operator CLI.
type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Repo      *repo.GormRepo
	Validator *validation.Validator
	Events    events.Publisher
	Auth      *service.AuthService
	Catalog   *service.CatalogService
}

// New opens the database and, when configured, the Kafka writer and the search index.
// Kafka and Elasticsearch failures are logged and the app runs without them.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	a := &App{
		Config:    cfg,
		DB:        gdb,
		Repo:      repo.New(gdb),
		Validator: validation.New(),
		Events:    events.Noop{},
	}

	if len(cfg.KafkaBrokers) > 0 {
		if err := events.EnsureTopics(ctx, cfg.KafkaBrokers[0], cfg.KafkaTopic); err != nil {
			logger.Warn("kafka_topics_failed", "topic", cfg.KafkaTopic, "error", err)
		}
		p, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.Warn("kafka_disabled", "error", err)
		} else {
			a.Events = p
		}
	}

	var index service.Indexer
	if cfg.ESURL != "" {
		client, err := search.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("search_disabled", "error", err)
		} else {
			ix := search.NewIndex(client, cfg.ESIndex)
			if err := ix.Ensure(ctx); err != nil {
				logger.Warn("search_index_failed", "index", cfg.ESIndex, "error", err)
			}
			index = ix
		}
	}

	a.Auth = &service.AuthService{
		Repo:      a.Repo,
		Tokens:    tokens.NewIssuer(cfg.TokenSecret, cfg.TokenTTL),
		Validator: a.Validator,
		Events:    a.Events,
	}
	a.Catalog = &service.CatalogService{
		Repo:      a.Repo,
		Validator: a.Validator,
		Events:    a.Events,
		Search:    index,
	}
	return a, nil
}

func (a *App) Close() error {
	var errs []error
	if a.Events != nil {
		if err := a.Events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka close: %w", err))
		}
	}
	if a.DB != nil {
		if err := db.Close(a.DB); err != nil {
			errs = append(errs, fmt.Errorf("db close: %w", err))
		}
	}
	return errors.Join(errs...)
}
