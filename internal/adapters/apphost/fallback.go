package apphost

import (
	"context"
	"net/url"
	"strings"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/ports"
)

// MapsFallback wraps a host so that maps:// URLs the host cannot open are
// sent to the web maps endpoint instead.
type MapsFallback struct {
	inner ports.AppHost
}

// NewMapsFallback decorates inner.
func NewMapsFallback(inner ports.AppHost) *MapsFallback {
	return &MapsFallback{inner: inner}
}

// CanOpen reports whether the URL, or its web rewrite, can be opened.
func (f *MapsFallback) CanOpen(u *url.URL) bool {
	if f.inner.CanOpen(u) {
		return true
	}
	if web, ok := WebMapsURL(u); ok {
		return f.inner.CanOpen(web)
	}
	return false
}

// Open launches the URL, rewriting maps:// when the host has no handler for it.
func (f *MapsFallback) Open(ctx context.Context, u *url.URL, opts ports.OpenOptions) <-chan bool {
	if !f.inner.CanOpen(u) {
		if web, ok := WebMapsURL(u); ok {
			return f.inner.Open(ctx, web, opts)
		}
	}
	return f.inner.Open(ctx, u, opts)
}

// WebMapsURL rewrites a maps:// URL to the equivalent http://maps.apple.com/ URL.
func WebMapsURL(u *url.URL) (*url.URL, bool) {
	if u.Scheme != "maps" {
		return nil, false
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(u.String(), "maps:"), "//")
	rest = strings.TrimPrefix(rest, "/")
	web, err := domain.ParseLaunchURL(domain.NativeMapsWebPrefix + rest)
	if err != nil {
		return nil, false
	}
	return web, true
}
