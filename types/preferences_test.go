package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeUpdatesOnlyProvidedSections(t *testing.T) {
	stored := &Preferences{
		TravelVibe: []string{"chill"},
		Budget:     BudgetPreference{Amount: 50, Style: []string{"mid_range"}},
	}

	merged := stored.Merge(PreferencesUpdate{TravelVibe: []string{"chill", "thrill"}})

	assert.Equal(t, []string{"chill", "thrill"}, merged.TravelVibe)
	assert.Equal(t, 50, merged.Budget.Amount)
	assert.Equal(t, []string{"mid_range"}, merged.Budget.Style)
	// Stored value is untouched; Merge returns a copy.
	assert.Equal(t, []string{"chill"}, stored.TravelVibe)
}

func TestMergeDeduplicatesTags(t *testing.T) {
	merged := DefaultPreferences().Merge(PreferencesUpdate{
		FoodPreferences: []string{"street_food", "vegan", "street_food"},
	})
	assert.Equal(t, []string{"street_food", "vegan"}, merged.FoodPreferences)
}

func TestMergeBudgetSection(t *testing.T) {
	stored := &Preferences{
		TravelVibe: []string{"chill"},
		Budget:     BudgetPreference{Amount: 20, Style: []string{"budget"}},
	}

	merged := stored.Merge(PreferencesUpdate{
		Budget: &BudgetPreference{Amount: 80, Style: []string{"luxury", "luxury"}},
	})

	assert.Equal(t, 80, merged.Budget.Amount)
	assert.Equal(t, []string{"luxury"}, merged.Budget.Style)
	assert.Equal(t, []string{"chill"}, merged.TravelVibe)
}

func TestCloneNilYieldsDefaults(t *testing.T) {
	var p *Preferences
	clone := p.Clone()
	assert.NotNil(t, clone)
	assert.Empty(t, clone.TravelVibe)
	assert.Equal(t, 0, clone.Budget.Amount)
}
