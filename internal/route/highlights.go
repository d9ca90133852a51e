package route

import (
	"fmt"
	"math"

	"backend-vibenav/internal/vibe"
)

const maxHighlights = 3

var highlightNames = map[vibe.Dimension][]string{
	vibe.Greenery:  {"Pocket Park", "Tree-Lined Block", "Community Garden"},
	vibe.Quietness: {"Quiet Lane", "Sheltered Courtyard", "Low-Traffic Stretch"},
	vibe.Culture:   {"Mural Corner", "Gallery Row", "Indie Bookshop"},
	vibe.Scenery:   {"Lookout Point", "Waterside Bend", "Skyline Frame"},
}

var highlightBlurbs = map[vibe.Dimension][]string{
	vibe.Greenery:  {"A green pocket to slow down in", "Canopy shade for most of the block"},
	vibe.Quietness: {"Noticeably softer soundscape here", "Side street away from traffic"},
	vibe.Culture:   {"Street art worth a pause", "Cluster of small venues and galleries"},
	vibe.Scenery:   {"Open view along the water", "A wide frame of the skyline"},
}

// GenerateHighlights derives up to three points of interest from the ranked
// plan dimensions, one per dimension at evenly spaced interior points.
// Deterministic given identical weights and point count; no side effects.
func GenerateHighlights(weights vibe.Weights, coords [][2]float64) []Highlight {
	interior := len(coords) - 2
	if interior < 1 {
		return nil
	}

	count := maxHighlights
	if interior < count {
		count = interior
	}

	ranked := weights.Ranked()
	highlights := make([]Highlight, 0, count)
	for i := 0; i < count; i++ {
		dim := ranked[i]
		// Evenly spaced interior index: positions 1..len-2.
		idx := 1 + (i+1)*interior/(count+1)
		if idx > len(coords)-2 {
			idx = len(coords) - 2
		}

		names := highlightNames[dim]
		blurbs := highlightBlurbs[dim]
		pct := int(math.Round(weights.Get(dim) * 100))

		highlights = append(highlights, Highlight{
			ID:          fmt.Sprintf("hl-%s-%d", dim, i),
			Name:        names[i%len(names)],
			Description: fmt.Sprintf("%s (%d%% of your mix)", blurbs[i%len(blurbs)], pct),
			Coordinate:  coords[idx],
			Vibe:        dim,
		})
	}
	return highlights
}
