package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"vsxregistry/internal/config"
	"vsxregistry/internal/database"
	"vsxregistry/internal/marketplace"
	"vsxregistry/internal/models"
	"vsxregistry/internal/opener"
	"vsxregistry/internal/pluginhost"
	"vsxregistry/internal/preferences"
	"vsxregistry/internal/progress"
	"vsxregistry/internal/registry"
	"vsxregistry/internal/utils"
	"vsxregistry/internal/view"
)

// app holds the components shared by all commands.
type app struct {
	config   config.Config
	logger   *utils.Logger
	db       *database.Database
	api      *marketplace.OpenVSX
	host     *pluginhost.LocalHost
	prefs    *preferences.ViperStore
	progress *progress.Reporter
	registry *registry.Service
}

func newApp() (*app, error) {
	cfg := config.GetConfig()

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}

	db, err := database.New(cfg.DBPath, cfg.AutoMigrate)
	if err != nil {
		return nil, fmt.Errorf("error opening plugin database: %w", err)
	}

	host, err := pluginhost.New(pluginhost.Options{
		Directory: cfg.ExtensionsDir,
		DB:        db,
		Logger:    logger,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing plugin host: %w", err)
	}

	prefs := preferences.NewViperStore(viper.GetViper())
	api := marketplace.NewOpenVSX(cfg.HTTPTimeout)

	svc, err := registry.NewService(registry.Config{
		API:         api,
		Host:        host,
		Server:      host,
		Preferences: prefs,
		Opener:      opener.NewBrowser(prefs),
		GuardStale:  cfg.GuardStale,
		ErrorHandler: func(op string, err error) {
			logger.Warnw("background refresh failed", "operation", op, "error", err)
		},
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		config:   cfg,
		logger:   logger,
		db:       db,
		api:      api,
		host:     host,
		prefs:    prefs,
		progress: progress.NewReporter(logger),
		registry: svc,
	}, nil
}

func (a *app) Close() {
	a.registry.Close()
	if err := a.prefs.Close(); err != nil {
		a.logger.Warnw("error stopping config watcher", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.LogDatabaseOperation("close", err)
	}
	_ = a.logger.Sync()
}

// searchLabel names the registry the search widget queries.
func (a *app) searchLabel() string {
	return fmt.Sprintf("%s (%s)", a.api.GetName(), a.prefs.APIURL())
}

func (a *app) widget(id, label string) *view.ListWidget {
	return view.NewListWidget(view.ListOptions{ID: id, Label: label}, a.registry, a.progress)
}

// lookup resolves publisher.name against the registry.
func (a *app) lookup(ctx context.Context, extensionID string) (*models.ExtensionFull, error) {
	publisher, name, err := parseExtensionID(extensionID)
	if err != nil {
		return nil, err
	}
	detail, err := a.registry.GetExtensionDetail(ctx, a.registry.CreateEndpoint([]string{publisher, name}))
	if err != nil {
		return nil, fmt.Errorf("error getting extension information: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("extension %s not found", extensionID)
	}
	return detail, nil
}

func parseExtensionID(id string) (string, string, error) {
	publisher, name, ok := strings.Cut(id, ".")
	if !ok || publisher == "" || name == "" {
		return "", "", fmt.Errorf("invalid extension ID %q, expected publisher.name", id)
	}
	return publisher, name, nil
}
