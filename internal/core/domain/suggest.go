package domain

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// SuggestApp returns the known app whose slug or display name is closest to
// name, or false when nothing is reasonably close.
func SuggestApp(name string) (AppID, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return 0, false
	}

	best, bestDist := AppID(0), -1
	for _, id := range AllAppIDs {
		for _, candidate := range []string{id.Slug(), strings.ToLower(id.DisplayName())} {
			d := levenshtein.ComputeDistance(needle, candidate)
			if bestDist < 0 || d < bestDist {
				best, bestDist = id, d
			}
		}
	}
	// More than a third of the input rewritten is not a typo.
	if bestDist > len(needle)/3+1 {
		return 0, false
	}
	return best, true
}
