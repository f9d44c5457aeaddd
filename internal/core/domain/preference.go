package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Fingerprint derives an order-independent identity for a set of apps.
func Fingerprint(apps []NavigationApp) string {
	ids := make([]int, 0, len(apps))
	seen := make(map[AppID]bool, len(apps))
	for _, a := range apps {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		ids = append(ids, int(a.ID))
	}
	sort.Ints(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// RememberedChoice is the single stored preference slot.
type RememberedChoice struct {
	Fingerprint string    `json:"fingerprint"`
	App         AppID     `json:"app"`
	SavedAt     time.Time `json:"saved_at"`
}
