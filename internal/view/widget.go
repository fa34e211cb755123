// Package view renders the installed and search result lists of the
// registry service.
package view

import (
	"context"

	"vsxregistry/internal/event"
	"vsxregistry/internal/models"
	"vsxregistry/internal/progress"
)

const (
	IDInstalled = "installed"
	IDSearch    = "search"

	widgetIDPrefix = "vscode-extension-list:"
)

// Service is the part of the registry service a list needs.
type Service interface {
	Installed() []models.ExtensionPart
	SearchResult() []models.ExtensionPart
	OnDidSearch(fn func()) event.Unsubscribe
	OnDidChangeInstalled(fn func()) event.Unsubscribe

	Install(ctx context.Context, extension models.ExtensionPart) error
	Uninstall(ctx context.Context, extension models.ExtensionPart) error
	OpenExtensionDetail(ctx context.Context, extension models.ExtensionPart) error
}

type ListOptions struct {
	ID    string
	Label string
}

// ListWidget shows either the installed set or the search result and
// re-renders whenever that set changes.
type ListWidget struct {
	id       string
	label    string
	options  ListOptions
	service  Service
	progress progress.Service

	updates   *event.Emitter[string]
	toDispose event.Disposables
}

func NewListWidget(opts ListOptions, service Service, progress progress.Service) *ListWidget {
	w := &ListWidget{
		id:       widgetIDPrefix + opts.ID,
		label:    opts.Label,
		options:  opts,
		service:  service,
		progress: progress,
		updates:  event.NewEmitter[string](),
	}

	if opts.ID == IDInstalled {
		w.toDispose.Push(service.OnDidChangeInstalled(w.update))
	} else {
		w.toDispose.Push(service.OnDidSearch(w.update))
	}
	return w
}

func (w *ListWidget) ID() string {
	return w.id
}

func (w *ListWidget) Label() string {
	return w.label
}

// OnUpdate receives the new rendering after every change of the shown set.
func (w *ListWidget) OnUpdate(fn func(rendered string)) event.Unsubscribe {
	return w.updates.Subscribe(fn)
}

// List projects the current set into a list component.
func (w *ListWidget) List() *List {
	var extensions []models.ExtensionPart
	if w.options.ID == IDInstalled {
		extensions = w.service.Installed()
	} else {
		extensions = w.service.SearchResult()
	}
	return &List{
		Title:            w.label,
		Extensions:       extensions,
		ProgressLocation: ProgressLocation,
		Progress:         w.progress,
		Service:          w.service,
	}
}

func (w *ListWidget) Render() string {
	return w.List().Render()
}

func (w *ListWidget) Dispose() {
	w.toDispose.Dispose()
}

func (w *ListWidget) update() {
	w.updates.Fire(w.Render())
}
