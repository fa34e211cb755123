// Package registry keeps the installed and searched extension lists in sync
// with a remote registry and a plugin host.
package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"vsxregistry/internal/config"
	"vsxregistry/internal/docs"
	"vsxregistry/internal/event"
	"vsxregistry/internal/marketplace"
	"vsxregistry/internal/models"
	"vsxregistry/internal/opener"
	"vsxregistry/internal/pluginhost"
	"vsxregistry/internal/preferences"
)

// DocumentationCompiler renders README markdown into HTML.
type DocumentationCompiler interface {
	Compile(markdown string) (string, error)
}

type Config struct {
	API         marketplace.API
	Host        pluginhost.Host
	Server      pluginhost.Server
	Preferences preferences.Store

	// Optional.
	Opener opener.Opener
	Docs   DocumentationCompiler

	// ErrorHandler receives failures of refreshes started by Init or by
	// change events. Nothing else sees them.
	ErrorHandler func(op string, err error)

	// GuardStale lets only the most recently issued fetch of each result
	// set commit. When false the last fetch to complete wins.
	GuardStale bool
}

type Service struct {
	api        marketplace.API
	host       pluginhost.Host
	server     pluginhost.Server
	prefs      preferences.Store
	opener     opener.Opener
	docs       DocumentationCompiler
	onError    func(op string, err error)
	guardStale bool

	mu           sync.RWMutex
	installed    []models.ExtensionPart
	searchResult []models.ExtensionPart
	searchParam  *models.SearchParam

	searchSeq    atomic.Uint64
	installedSeq atomic.Uint64

	onDidSearch          *event.Signal
	onDidChangeInstalled *event.Signal

	toDispose event.Disposables
	wg        sync.WaitGroup
}

func NewService(cfg Config) (*Service, error) {
	switch {
	case cfg.API == nil:
		return nil, errors.New("registry API is required")
	case cfg.Host == nil:
		return nil, errors.New("plugin host is required")
	case cfg.Server == nil:
		return nil, errors.New("plugin server is required")
	case cfg.Preferences == nil:
		return nil, errors.New("preference store is required")
	}
	if cfg.Opener == nil {
		cfg.Opener = &opener.Recorder{}
	}
	if cfg.Docs == nil {
		cfg.Docs = docs.NewCompiler()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(string, error) {}
	}

	return &Service{
		api:                  cfg.API,
		host:                 cfg.Host,
		server:               cfg.Server,
		prefs:                cfg.Preferences,
		opener:               cfg.Opener,
		docs:                 cfg.Docs,
		onError:              cfg.ErrorHandler,
		guardStale:           cfg.GuardStale,
		installed:            []models.ExtensionPart{},
		searchResult:         []models.ExtensionPart{},
		onDidSearch:          event.NewSignal(),
		onDidChangeInstalled: event.NewSignal(),
	}, nil
}

// Init starts the initial refresh of both result sets and keeps the
// installed set in sync with the API URL preference and the plugin host.
// Refreshes run in the background with ctx.
func (s *Service) Init(ctx context.Context) {
	s.update(ctx)

	s.toDispose.Push(s.prefs.OnPreferenceChanged(func(c preferences.Change) {
		if c.PreferenceName == config.KeyAPIURL {
			s.background(ctx, "updateInstalled", s.UpdateInstalled)
		}
	}))
	s.toDispose.Push(s.host.OnDidChangePlugins(func() {
		s.background(ctx, "updateInstalled", s.UpdateInstalled)
	}))
}

// Wait blocks until every background refresh started so far has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close drops the subscriptions made by Init and waits for running refreshes.
func (s *Service) Close() {
	s.toDispose.Dispose()
	s.wg.Wait()
}

func (s *Service) update(ctx context.Context) {
	param := s.SearchParam()
	s.background(ctx, "find", func(ctx context.Context) error {
		return s.Find(ctx, param)
	})
	s.background(ctx, "updateInstalled", s.UpdateInstalled)
}

func (s *Service) background(ctx context.Context, op string, fn func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(ctx); err != nil {
			s.onError(op, err)
		}
	}()
}

func (s *Service) OnDidSearch(fn func()) event.Unsubscribe {
	return s.onDidSearch.Subscribe(fn)
}

func (s *Service) OnDidChangeInstalled(fn func()) event.Unsubscribe {
	return s.onDidChangeInstalled.Subscribe(fn)
}

// Installed returns the last committed installed set.
func (s *Service) Installed() []models.ExtensionPart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.installed)
}

// SearchResult returns the last committed search result.
func (s *Service) SearchResult() []models.ExtensionPart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.searchResult)
}

// SearchParam returns the parameter of the last Find call.
func (s *Service) SearchParam() *models.SearchParam {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.searchParam == nil {
		return nil
	}
	p := *s.searchParam
	return &p
}

// Find searches the registry and replaces the search result. The
// search-changed event fires on every successful call.
func (s *Service) Find(ctx context.Context, param *models.SearchParam) error {
	seq := s.searchSeq.Add(1)

	var stored *models.SearchParam
	if param != nil {
		p := *param
		stored = &p
	}
	s.mu.Lock()
	s.searchParam = stored
	s.mu.Unlock()

	var queries []Query
	if param != nil && param.Query != "" {
		queries = append(queries, Query{Key: "query", Value: param.Query})
	}
	endpoint := s.CreateEndpoint([]string{"-", "search"}, queries...)

	result, err := s.api.GetExtensions(ctx, endpoint)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.guardStale && seq != s.searchSeq.Load() {
		s.mu.Unlock()
		return nil
	}
	s.searchResult = result
	s.mu.Unlock()

	s.onDidSearch.Fire()
	return nil
}

// UpdateInstalled resolves every vscode plugin of the host against the
// registry and replaces the installed set. Order follows completion.
func (s *Service) UpdateInstalled(ctx context.Context) error {
	seq := s.installedSeq.Add(1)
	plugins := s.host.Plugins()

	var (
		mu        sync.Mutex
		installed = []models.ExtensionPart{}
		g         errgroup.Group
	)
	for _, plugin := range plugins {
		plugin := plugin
		if plugin.EngineType != models.EngineTypeVSCode {
			continue
		}
		g.Go(func() error {
			url := s.CreateEndpoint([]string{plugin.Publisher, plugin.Name})
			ext, err := s.api.GetExtension(ctx, url)
			if err != nil {
				return err
			}
			if ext == nil {
				return nil
			}
			part := ext.ExtensionPart
			part.URL = url

			mu.Lock()
			installed = append(installed, part)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.guardStale && seq != s.installedSeq.Load() {
		s.mu.Unlock()
		return nil
	}
	s.installed = installed
	s.mu.Unlock()

	s.onDidChangeInstalled.Fire()
	return nil
}

// Install asks the plugin host to deploy the extension package. The
// installed set follows through the host's change event.
func (s *Service) Install(ctx context.Context, extension models.ExtensionPart) error {
	return s.server.Deploy(ctx, extension.DownloadURL)
}

func (s *Service) Uninstall(ctx context.Context, extension models.ExtensionPart) error {
	return s.server.Undeploy(ctx, pluginhost.PluginID(extension.Publisher, extension.Name))
}

func (s *Service) GetExtensionDetail(ctx context.Context, extensionURL string) (*models.ExtensionFull, error) {
	return s.api.GetExtension(ctx, extensionURL)
}

func (s *Service) GetExtensionReadMe(ctx context.Context, readMeURL string) (string, error) {
	return s.api.GetExtensionReadMe(ctx, readMeURL)
}

func (s *Service) GetExtensionReviews(ctx context.Context, reviewsURL string) (*models.ReviewList, error) {
	return s.api.GetExtensionReviews(ctx, reviewsURL)
}

func (s *Service) OpenExtensionDetail(ctx context.Context, extension models.ExtensionPart) error {
	return s.opener.Open(ctx, opener.DetailURI(extension.Name), opener.Options{
		Mode: opener.ModeReveal,
		URL:  extension.URL,
	})
}

// CompileDocumentation returns the sanitized HTML of the extension README,
// or "" without any request when the extension has none.
func (s *Service) CompileDocumentation(ctx context.Context, extension models.ExtensionFull) (string, error) {
	if extension.ReadmeURL == "" {
		return "", nil
	}
	readme, err := s.api.GetExtensionReadMe(ctx, extension.ReadmeURL)
	if err != nil {
		return "", err
	}
	return s.docs.Compile(readme)
}

func clone(in []models.ExtensionPart) []models.ExtensionPart {
	out := make([]models.ExtensionPart, len(in))
	copy(out, in)
	return out
}
