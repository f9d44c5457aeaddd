package apphost

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/samirrijal/mapdispatch/internal/core/ports"
)

// Announced answers CanOpen from the URL schemes a remote client reported
// as installed. It cannot launch anything itself.
type Announced struct {
	schemes map[string]bool
}

// NewAnnounced builds a host from scheme names, with or without a trailing
// ":" or "://".
func NewAnnounced(schemes []string) *Announced {
	a := &Announced{schemes: make(map[string]bool, len(schemes))}
	for _, s := range schemes {
		s = strings.ToLower(strings.TrimSpace(s))
		s = strings.TrimSuffix(strings.TrimSuffix(s, "//"), ":")
		if s != "" {
			a.schemes[s] = true
		}
	}
	return a
}

// Schemes returns the announced schemes, sorted.
func (a *Announced) Schemes() []string {
	out := make([]string, 0, len(a.schemes))
	for s := range a.schemes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (a *Announced) CanOpen(u *url.URL) bool {
	return a.schemes[u.Scheme]
}

// Open always reports failure.
func (a *Announced) Open(ctx context.Context, u *url.URL, opts ports.OpenOptions) <-chan bool {
	ch := make(chan bool, 1)
	ch <- false
	close(ch)
	return ch
}
