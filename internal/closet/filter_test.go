package closet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weathercloset/weathercloset/internal/datastore"
)

func TestIsIncompatible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		description string
		label       string
		want        bool
	}{
		{"Canvas Sneakers", "Snow", true},
		{"canvas sneakers", "Rain", true},
		{"Heavy Raincoat", "Rain", false},
		{"Heavy Raincoat", "Hot", true},
		{"Linen shirt", "Freezing", true},
		{"Wool scarf", "Warm", false},
		{"Thick wool scarf", "Hot", true},
		{"Tank top", "Windy", false},
		{"Tank top", "Sunny", false},
		{"Tank top", "Unknown", false},
		{"Wool Coat", "Mild", false},
	}

	for _, tt := range tests {
		t.Run(tt.description+"/"+tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIncompatible(tt.description, tt.label))
		})
	}
}

func TestFilterIncompatible(t *testing.T) {
	t.Parallel()

	items := []datastore.Item{
		{ID: 1, Description: "Heavy Raincoat"},
		{ID: 2, Description: "Suede loafers"},
		{ID: 3, Description: "Wellington boots"},
		{ID: 4, Description: "Summer sundress"},
	}

	kept := FilterIncompatible(items, []string{"Rain", "Cold"})
	assert.Equal(t, []uint{1, 3}, ids(kept))
	assert.Len(t, items, 4, "input is not modified")

	again := FilterIncompatible(kept, []string{"Rain", "Cold"})
	assert.Equal(t, kept, again, "filtering is idempotent")

	assert.Equal(t, []uint{1, 2, 3, 4}, ids(FilterIncompatible(items, []string{"Windy", "Sunny"})))
	assert.Equal(t, []uint{1, 2, 3, 4}, ids(FilterIncompatible(items, nil)))
	assert.Empty(t, FilterIncompatible(nil, []string{"Rain"}))
}

func TestKeywordTables(t *testing.T) {
	t.Parallel()

	for _, label := range []string{"Freezing", "Cold", "Snow", "Rain", "Hot", "Warm", "Cool", "Mild", "Stormy"} {
		assert.NotEmpty(t, IncompatibleKeywords[label], label)
	}
	assert.NotContains(t, IncompatibleKeywords, "Windy")
	assert.NotContains(t, IncompatibleKeywords, "Sunny")
	assert.Len(t, CandidateLabels, 11)

	for label, keywords := range IncompatibleKeywords {
		assert.Contains(t, CandidateLabels, label)
		for _, k := range keywords {
			assert.Equal(t, k, strings.ToLower(k), "keywords are stored lower-case: %s/%s", label, k)
		}
	}
}

func ids(items []datastore.Item) []uint {
	out := make([]uint, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
