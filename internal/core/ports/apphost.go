package ports

import (
	"context"
	"net/url"
)

// OpenOptions are passed through to the platform launch primitive.
type OpenOptions struct {
	// UniversalLinksOnly asks the host to refuse the launch unless an app claims the URL.
	UniversalLinksOnly bool
}

// AppHost is the platform capability that checks and launches URLs.
type AppHost interface {
	// CanOpen reports whether some installed app handles the URL.
	CanOpen(u *url.URL) bool
	// Open launches the URL. The returned channel receives exactly one value.
	Open(ctx context.Context, u *url.URL, opts OpenOptions) <-chan bool
}
