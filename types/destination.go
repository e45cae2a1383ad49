package types

import "strings"

// Destination is a browsable destination card shown in the explore screen.
type Destination struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Tags        []string `json:"tags"`
	Rating      float64  `json:"rating,omitempty"`
}

// MatchesQuery reports whether the lowercased query is a substring of the
// destination's title, location, description or any tag. An empty query
// matches everything.
func (d *Destination) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(d.Title), q) ||
		strings.Contains(strings.ToLower(d.Location), q) ||
		strings.Contains(strings.ToLower(d.Description), q) {
		return true
	}
	for _, tag := range d.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
