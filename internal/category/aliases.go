package category

import (
	"strings"

	"spese/internal/core"
)

// Alias maps one raw spelling to a canonical category.
type Alias struct {
	Key      string
	Category core.Category
}

// AliasTable is an immutable, ordered alias dictionary. Keys are stored
// lowercased and trimmed; iteration follows insertion order so fuzzy ties
// resolve the same way on every run.
type AliasTable struct {
	keys   []string
	lookup map[string]core.Category
}

// NewAliasTable builds a table from the given aliases. Blank keys are
// dropped and the first occurrence of a duplicate key wins.
func NewAliasTable(aliases ...Alias) *AliasTable {
	t := &AliasTable{lookup: make(map[string]core.Category, len(aliases))}
	for _, a := range aliases {
		key := strings.ToLower(strings.TrimSpace(a.Key))
		if key == "" {
			continue
		}
		if _, ok := t.lookup[key]; ok {
			continue
		}
		t.keys = append(t.keys, key)
		t.lookup[key] = a.Category
	}
	return t
}

// Lookup returns the category for an already normalized key.
func (t *AliasTable) Lookup(key string) (core.Category, bool) {
	c, ok := t.lookup[key]
	return c, ok
}

// Keys returns the alias keys in insertion order.
func (t *AliasTable) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of aliases.
func (t *AliasTable) Len() int {
	return len(t.keys)
}

// DefaultAliases returns the built-in alias table.
func DefaultAliases() *AliasTable {
	return NewAliasTable(
		Alias{"food", core.FoodAndDrinks},
		Alias{"foods", core.FoodAndDrinks},
		Alias{"drink", core.FoodAndDrinks},
		Alias{"drinks", core.FoodAndDrinks},
		Alias{"meal", core.FoodAndDrinks},
		Alias{"food & drinks", core.FoodAndDrinks},
		Alias{"lunch", core.FoodAndDrinks},
		Alias{"dinner", core.FoodAndDrinks},

		Alias{"utilities", core.Utilities},

		Alias{"care", core.PersonalCare},
		Alias{"personal care", core.PersonalCare},

		Alias{"entertainment", core.Entertainment},
		Alias{"movie", core.Entertainment},
		Alias{"cinema", core.Entertainment},

		Alias{"education", core.Education},
		Alias{"school", core.Education},
		Alias{"course", core.Education},

		Alias{"health", core.Health},
		Alias{"helth", core.Health},
		Alias{"medical", core.Health},

		Alias{"transport", core.Transportation},
		Alias{"transportation", core.Transportation},
		Alias{"taxi", core.Transportation},
		Alias{"grab", core.Transportation},

		Alias{"electronic", core.Electronics},
		Alias{"electronics", core.Electronics},
		Alias{"device", core.Electronics},

		Alias{"sport", core.Sports},
		Alias{"sports", core.Sports},
	)
}
