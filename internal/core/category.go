package core

import "strings"

// Category is the closed set of canonical spending categories.
// The zero value is Other, the universal fallback.
type Category int

const (
	Other Category = iota
	FoodAndDrinks
	Utilities
	PersonalCare
	Entertainment
	Education
	Health
	Transportation
	Electronics
	Sports
)

var categoryNames = [...]string{
	Other:          "Other",
	FoodAndDrinks:  "Food & Drinks",
	Utilities:      "Utilities",
	PersonalCare:   "Personal Care",
	Entertainment:  "Entertainment",
	Education:      "Education",
	Health:         "Health",
	Transportation: "Transportation",
	Electronics:    "Electronics",
	Sports:         "Sports",
}

// Categories returns every canonical category, Other last.
func Categories() []Category {
	return []Category{
		FoodAndDrinks, Utilities, PersonalCare, Entertainment, Education,
		Health, Transportation, Electronics, Sports, Other,
	}
}

// String returns the display name of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return categoryNames[Other]
	}
	return categoryNames[c]
}

// ParseCategory maps a display name (case-insensitive) back to a Category.
// Unknown names yield Other and false.
func ParseCategory(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return Category(i), true
		}
	}
	return Other, false
}
