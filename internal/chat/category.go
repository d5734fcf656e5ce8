// internal/chat/category.go
package chat

import "strings"

// CategoryGeneral is the catch-all for produce no rule matches.
const CategoryGeneral = "General"

type categoryRule struct {
	name     string
	keywords []string
}

// Table order is the match priority: first rule containing a keyword of
// the name wins, so extending the table stays deterministic.
var categoryTable = []categoryRule{
	{"vegetables", []string{
		"tomato", "potato", "onion", "carrot", "spinach", "cabbage",
		"cauliflower", "brinjal", "okra", "peas", "pepper", "cucumber",
		"beans", "garlic", "ginger",
	}},
	{"fruits", []string{
		"apple", "banana", "mango", "orange", "grape", "papaya", "guava",
		"pineapple", "watermelon", "strawberry", "pomegranate", "lemon",
	}},
	{"grains", []string{
		"rice", "wheat", "corn", "maize", "barley", "millet", "oats",
		"lentil", "chickpea",
	}},
	{"dairy", []string{
		"milk", "curd", "paneer", "butter", "ghee", "cheese",
	}},
}

// ClassifyCategory maps a normalized product name to a coarse category.
func ClassifyCategory(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, rule := range categoryTable {
		for _, keyword := range rule.keywords {
			if strings.Contains(name, keyword) {
				return rule.name
			}
		}
	}
	return CategoryGeneral
}
