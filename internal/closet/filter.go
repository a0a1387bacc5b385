package closet

import (
	"strings"

	"github.com/weathercloset/weathercloset/internal/datastore"
)

// IsIncompatible reports whether description contains any keyword that vetoes
// label. Labels without a keyword table never veto.
func IsIncompatible(description, label string) bool {
	keywords, ok := IncompatibleKeywords[label]
	if !ok {
		return false
	}
	return containsAny(strings.ToLower(description), keywords)
}

// FilterIncompatible drops items whose description is vetoed by any of labels.
// The input slice is not modified and item order is preserved.
func FilterIncompatible(items []datastore.Item, labels []string) []datastore.Item {
	kept := make([]datastore.Item, 0, len(items))
	for i := range items {
		if !vetoed(items[i].Description, labels) {
			kept = append(kept, items[i])
		}
	}
	return kept
}

func vetoed(description string, labels []string) bool {
	desc := strings.ToLower(description)
	for _, label := range labels {
		if keywords, ok := IncompatibleKeywords[label]; ok && containsAny(desc, keywords) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
