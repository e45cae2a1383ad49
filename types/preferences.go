package types

// BudgetPreference holds the budget section of a user's travel preferences.
// Amount is a 0-100 slider value.
type BudgetPreference struct {
	Amount int      `json:"amount"`
	Style  []string `json:"style"`
}

// Preferences is the per-user travel preference aggregate. It is created
// implicitly with all-empty defaults on first fetch and overwritten wholesale
// on each save.
type Preferences struct {
	TravelVibe      []string         `json:"travelVibe"`
	Companions      []string         `json:"companions"`
	TripPurpose     []string         `json:"tripPurpose"`
	FoodPreferences []string         `json:"foodPreferences"`
	TechComfort     []string         `json:"techComfort"`
	Budget          BudgetPreference `json:"budget"`
}

// DefaultPreferences returns the all-empty preference aggregate.
func DefaultPreferences() *Preferences {
	return &Preferences{
		TravelVibe:      []string{},
		Companions:      []string{},
		TripPurpose:     []string{},
		FoodPreferences: []string{},
		TechComfort:     []string{},
		Budget:          BudgetPreference{Amount: 0, Style: []string{}},
	}
}

// PreferencesUpdate carries a partial preferences edit, one section at a
// time. Nil sections are left unchanged.
type PreferencesUpdate struct {
	TravelVibe      []string          `json:"travelVibe,omitempty"`
	Companions      []string          `json:"companions,omitempty"`
	TripPurpose     []string          `json:"tripPurpose,omitempty"`
	FoodPreferences []string          `json:"foodPreferences,omitempty"`
	TechComfort     []string          `json:"techComfort,omitempty"`
	Budget          *BudgetPreference `json:"budget,omitempty"`
}

// Merge returns a copy of p with the non-nil sections of update applied.
// Tag sets are deduplicated preserving first occurrence order.
func (p *Preferences) Merge(update PreferencesUpdate) *Preferences {
	out := p.Clone()
	if update.TravelVibe != nil {
		out.TravelVibe = dedupeTags(update.TravelVibe)
	}
	if update.Companions != nil {
		out.Companions = dedupeTags(update.Companions)
	}
	if update.TripPurpose != nil {
		out.TripPurpose = dedupeTags(update.TripPurpose)
	}
	if update.FoodPreferences != nil {
		out.FoodPreferences = dedupeTags(update.FoodPreferences)
	}
	if update.TechComfort != nil {
		out.TechComfort = dedupeTags(update.TechComfort)
	}
	if update.Budget != nil {
		out.Budget = BudgetPreference{
			Amount: update.Budget.Amount,
			Style:  dedupeTags(update.Budget.Style),
		}
	}
	return out
}

// Clone returns a deep copy of the preferences.
func (p *Preferences) Clone() *Preferences {
	if p == nil {
		return DefaultPreferences()
	}
	return &Preferences{
		TravelVibe:      append([]string{}, p.TravelVibe...),
		Companions:      append([]string{}, p.Companions...),
		TripPurpose:     append([]string{}, p.TripPurpose...),
		FoodPreferences: append([]string{}, p.FoodPreferences...),
		TechComfort:     append([]string{}, p.TechComfort...),
		Budget: BudgetPreference{
			Amount: p.Budget.Amount,
			Style:  append([]string{}, p.Budget.Style...),
		},
	}
}

func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
