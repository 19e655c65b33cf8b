package catalog

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/opencode-ai/gh-mcp/internal/ghcli"
)

// Suggest returns the operation name closest to name, or "" when nothing is
// close enough to be a likely typo.
func Suggest(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	maxDist := len(name) / 3
	if maxDist < 2 {
		maxDist = 2
	}

	best, bestDist := "", maxDist+1
	for _, candidate := range ghcli.Names() {
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
