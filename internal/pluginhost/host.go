// Package pluginhost tracks deployed extension packages and deploys or
// undeploys them on request.
package pluginhost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"vsxregistry/internal/database"
	"vsxregistry/internal/event"
	"vsxregistry/internal/models"
	"vsxregistry/internal/utils"
)

//go:generate mockgen -destination=mocks/mock_host.go -package=mocks -source=host.go Host,Server

// Host exposes the plugins currently known to the runtime.
type Host interface {
	Plugins() []models.Plugin
	OnDidChangePlugins(fn func()) event.Unsubscribe
}

// Server deploys and undeploys packages.
type Server interface {
	Deploy(ctx context.Context, url string) error
	Undeploy(ctx context.Context, id string) error
}

var ErrPluginNotFound = errors.New("plugin not found")

// LocalHost stores packages in a directory and their metadata in SQLite.
type LocalHost struct {
	directory string
	db        *database.Database
	client    *http.Client
	logger    *utils.Logger
	now       func() time.Time

	mu      sync.RWMutex
	plugins []models.Plugin

	deployMu sync.Mutex
	changed  *event.Signal
}

var (
	_ Host   = (*LocalHost)(nil)
	_ Server = (*LocalHost)(nil)
)

type Options struct {
	Directory string
	DB        *database.Database
	Client    *http.Client
	Logger    *utils.Logger
}

func New(opts Options) (*LocalHost, error) {
	if err := utils.EnsureDirectory(opts.Directory); err != nil {
		return nil, fmt.Errorf("failed to create plugin directory: %w", err)
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 5 * time.Minute}
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	h := &LocalHost{
		directory: opts.Directory,
		db:        opts.DB,
		client:    opts.Client,
		logger:    opts.Logger,
		now:       time.Now,
		changed:   event.NewSignal(),
	}
	if err := h.reload(); err != nil {
		return nil, err
	}
	return h, nil
}

// Plugins returns a snapshot of the deployed plugins.
func (h *LocalHost) Plugins() []models.Plugin {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]models.Plugin, len(h.plugins))
	copy(out, h.plugins)
	return out
}

func (h *LocalHost) OnDidChangePlugins(fn func()) event.Unsubscribe {
	return h.changed.Subscribe(fn)
}

// PluginID is the canonical lower-case publisher.name identifier.
func PluginID(publisher, name string) string {
	return strings.ToLower(publisher) + "." + strings.ToLower(name)
}

// Deploy downloads the package at rawURL (http, https or file), registers it
// and notifies listeners. Deploying an already known ID replaces it.
func (h *LocalHost) Deploy(ctx context.Context, rawURL string) error {
	h.deployMu.Lock()
	defer h.deployMu.Unlock()

	tmp, err := os.CreateTemp(h.directory, "deploy-*"+utils.VSIXExtension)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	written, err := h.fetch(ctx, rawURL, tmp)
	tmp.Close()
	if err != nil {
		return err
	}
	h.logger.Debugf("Downloaded: %s (%d bytes)", rawURL, written)

	manifest, err := ReadManifest(tmpPath)
	if err != nil {
		return err
	}

	id := PluginID(manifest.Publisher, manifest.Name)
	target := utils.SafeFileName(h.directory, fmt.Sprintf("%s-%s%s", id, manifest.Version, utils.VSIXExtension))

	if old, err := h.db.GetPluginByID(id); err == nil && old != nil && old.FilePath != target {
		if err := utils.RemoveFile(old.FilePath); err != nil {
			h.logger.LogFileOperation("remove", old.FilePath, err)
		}
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("failed to move package: %w", err)
	}

	plugin := &models.Plugin{
		ID:          id,
		Publisher:   manifest.Publisher,
		Name:        manifest.Name,
		DisplayName: manifest.DisplayName,
		Version:     manifest.Version,
		EngineType:  manifest.Engines.Type(),
		FilePath:    target,
		SourceURL:   rawURL,
		DeployedAt:  h.now().UTC(),
	}
	err = h.db.UpsertPlugin(database.ToPluginDB(plugin, manifest.Engines))
	h.logger.LogDatabaseOperation("upsert plugin "+id, err)
	if err != nil {
		return fmt.Errorf("failed to save plugin: %w", err)
	}

	h.logger.Infow("plugin deployed", "id", id, "version", plugin.Version, "engine", plugin.EngineType)
	return h.commit()
}

// Undeploy removes the plugin with the given ID and its package file.
func (h *LocalHost) Undeploy(ctx context.Context, id string) error {
	h.deployMu.Lock()
	defer h.deployMu.Unlock()

	p, err := h.db.GetPluginByID(id)
	if err != nil {
		return fmt.Errorf("failed to look up plugin: %w", err)
	}
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPluginNotFound, id)
	}

	if err := utils.RemoveFile(p.FilePath); err != nil {
		return fmt.Errorf("failed to delete package file: %w", err)
	}
	_, err = h.db.DeletePlugin(id)
	h.logger.LogDatabaseOperation("delete plugin "+id, err)
	if err != nil {
		return fmt.Errorf("failed to delete from database: %w", err)
	}

	h.logger.Infow("plugin undeployed", "id", id)
	return h.commit()
}

// Stats counts the deployed packages by kind.
type Stats struct {
	Total  int64
	VSCode int
}

// Stats reads the package counts from the database.
func (h *LocalHost) Stats() (Stats, error) {
	total, err := h.db.CountPlugins()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count plugins: %w", err)
	}
	vscode, err := h.db.GetPluginsByEngineType(models.EngineTypeVSCode)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to list plugins: %w", err)
	}
	return Stats{Total: total, VSCode: len(vscode)}, nil
}

func (h *LocalHost) commit() error {
	if err := h.reload(); err != nil {
		return err
	}
	h.changed.Fire()
	return nil
}

func (h *LocalHost) reload() error {
	rows, err := h.db.GetAllPlugins()
	if err != nil {
		return fmt.Errorf("failed to list plugins: %w", err)
	}
	plugins := database.ToPluginSlice(rows)

	h.mu.Lock()
	h.plugins = plugins
	h.mu.Unlock()
	return nil
}

func (h *LocalHost) fetch(ctx context.Context, rawURL string, dst io.Writer) (int64, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme == "file" {
		if !utils.IsVSIXFile(u.Path) {
			return 0, fmt.Errorf("not a %s package: %s", utils.VSIXExtension, rawURL)
		}
		src, err := os.Open(filepath.FromSlash(u.Path))
		if err != nil {
			return 0, fmt.Errorf("failed to open package: %w", err)
		}
		defer src.Close()
		return io.Copy(dst, src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(utils.UserAgentHeader, utils.UserAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("invalid status code: %d", resp.StatusCode)
	}

	written, err := io.Copy(dst, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	return written, nil
}
