// Package opener navigates to an extension detail view.
package opener

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/browser"
)

//go:generate mockgen -destination=mocks/mock_opener.go -package=mocks -source=opener.go Opener

const (
	Scheme     = "vsx-registry"
	ModeReveal = "reveal"
)

// Options are passed along with the URI being opened.
type Options struct {
	Mode string
	URL  string
}

type Opener interface {
	Open(ctx context.Context, uri string, opts Options) error
}

// DetailURI builds the detail view URI of an extension.
func DetailURI(id string) string {
	return Scheme + ":" + id
}

// ParseDetailURI returns the extension part of a detail URI.
func ParseDetailURI(uri string) (string, bool) {
	return strings.CutPrefix(uri, Scheme+":")
}

// URLs supplies the registry endpoints. They are read on every call so a
// changed preference applies to the next Open.
type URLs interface {
	APIURL() string
	WebURL() string
}

// StaticURLs is a fixed URLs pair.
type StaticURLs struct {
	API string
	Web string
}

func (u StaticURLs) APIURL() string { return u.API }
func (u StaticURLs) WebURL() string { return u.Web }

// Browser shows detail views as registry web pages in the system browser.
type Browser struct {
	urls URLs
	open func(string) error
}

// NewBrowser maps listing URLs under the API URL onto the matching page
// under the web URL, e.g. <api>/redhat/java -> <web>/extension/redhat/java.
func NewBrowser(urls URLs) *Browser {
	return &Browser{urls: urls, open: browser.OpenURL}
}

func (b *Browser) Open(_ context.Context, uri string, opts Options) error {
	if _, ok := ParseDetailURI(uri); !ok {
		return fmt.Errorf("unsupported URI: %s", uri)
	}
	page, err := b.PageURL(opts.URL)
	if err != nil {
		return err
	}
	return b.open(page)
}

// PageURL resolves the web page of a listing URL.
func (b *Browser) PageURL(listingURL string) (string, error) {
	apiURL := strings.TrimSuffix(b.urls.APIURL(), "/")
	rest, ok := strings.CutPrefix(listingURL, apiURL+"/")
	if !ok || rest == "" {
		return "", fmt.Errorf("listing URL %q is not served by %s", listingURL, apiURL)
	}
	return strings.TrimSuffix(b.urls.WebURL(), "/") + "/extension/" + rest, nil
}

// Request is one recorded Open call.
type Request struct {
	URI     string
	Options Options
}

// Recorder keeps open requests in memory. Headless front ends poll it.
type Recorder struct {
	mu       sync.Mutex
	requests []Request
}

func (r *Recorder) Open(_ context.Context, uri string, opts Options) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, Request{URI: uri, Options: opts})
	return nil
}

func (r *Recorder) Requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Request, len(r.requests))
	copy(out, r.requests)
	return out
}
