package apphost

import (
	"context"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/samirrijal/mapdispatch/internal/core/ports"
)

// probeTimeout bounds a single xdg-mime handler query.
const probeTimeout = 2 * time.Second

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Desktop implements ports.AppHost on a freedesktop system: scheme handlers
// are discovered with xdg-mime and URLs are launched with the configured opener.
type Desktop struct {
	opener  string
	timeout time.Duration
	run     Runner
	logger  *slog.Logger
}

// NewDesktop creates a desktop host. timeout bounds a launch; handler
// queries are capped at a much shorter probe timeout. A nil run uses
// ExecRunner.
func NewDesktop(opener string, timeout time.Duration, run Runner, logger *slog.Logger) *Desktop {
	if run == nil {
		run = ExecRunner
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Desktop{opener: opener, timeout: timeout, run: run, logger: logger}
}

// CanOpen reports whether a handler is registered for the URL's scheme.
// Web URLs always have one.
func (d *Desktop) CanOpen(u *url.URL) bool {
	switch u.Scheme {
	case "http", "https":
		return true
	case "":
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), min(d.timeout, probeTimeout))
	defer cancel()
	out, err := d.run(ctx, "xdg-mime", "query", "default", "x-scheme-handler/"+u.Scheme)
	if err != nil {
		d.logger.Debug("scheme handler query failed", "scheme", u.Scheme, "error", err)
		return false
	}
	return strings.TrimSpace(string(out)) != ""
}

// Open hands the URL to the opener. UniversalLinksOnly has no desktop
// equivalent and is ignored.
func (d *Desktop) Open(ctx context.Context, u *url.URL, opts ports.OpenOptions) <-chan bool {
	out := make(chan bool, 1)
	go func() {
		defer close(out)
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		if _, err := d.run(ctx, d.opener, u.String()); err != nil {
			d.logger.Warn("opener failed", "opener", d.opener, "scheme", u.Scheme, "error", err)
			out <- false
			return
		}
		out <- true
	}()
	return out
}
