// Package category maps free-form category text onto the canonical
// taxonomy, using an exact alias lookup first and an edit-distance match as
// a fallback.
package category

import (
	"math"
	"strings"

	"spese/internal/core"
)

// MaxDistance is the largest edit distance still accepted as a fuzzy match.
const MaxDistance = 2

// Match describes how a raw string was resolved.
type Match struct {
	Category core.Category
	Alias    string // matched alias key, empty when falling back to Other
	Distance int    // edit distance to Alias, 0 for exact hits
	Exact    bool
}

// Normalizer resolves raw category text. It holds no mutable state and is
// safe for concurrent use.
type Normalizer struct {
	aliases *AliasTable
}

// NewNormalizer returns a normalizer over the given alias table; nil selects
// DefaultAliases.
func NewNormalizer(aliases *AliasTable) *Normalizer {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Normalizer{aliases: aliases}
}

// Normalize returns the canonical category for raw. It never fails: blank or
// unrecognizable input yields core.Other.
func (n *Normalizer) Normalize(raw string) core.Category {
	return n.Match(raw).Category
}

// NormalizeString is Normalize for string-typed category fields.
func (n *Normalizer) NormalizeString(raw string) string {
	return n.Normalize(raw).String()
}

// Match resolves raw and reports which alias decided the result.
func (n *Normalizer) Match(raw string) Match {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return Match{Category: core.Other}
	}

	if c, ok := n.aliases.Lookup(key); ok {
		return Match{Category: c, Alias: key, Exact: true}
	}

	best, bestDistance := "", math.MaxInt
	for _, alias := range n.aliases.keys {
		// strict comparison: the first alias reaching the minimum wins
		if d := Distance(key, alias); d < bestDistance {
			best, bestDistance = alias, d
		}
	}

	if best != "" && bestDistance <= MaxDistance {
		c, _ := n.aliases.Lookup(best)
		return Match{Category: c, Alias: best, Distance: bestDistance}
	}
	return Match{Category: core.Other}
}
