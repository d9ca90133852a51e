package route

import (
	"fmt"
	"strings"
	"time"

	"backend-vibenav/internal/vibe"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Direction is the simplified maneuver direction.
type Direction string

const (
	DirLeft     Direction = "left"
	DirRight    Direction = "right"
	DirStraight Direction = "straight"
	DirArrive   Direction = "arrive"
)

// Segment is one ordered unit of a route. It is owned by its parent
// Candidate and immutable once scored.
type Segment struct {
	Index        int                  `json:"index"`
	Start        Coordinate           `json:"start"`
	End          Coordinate           `json:"end"`
	DistanceM    float64              `json:"distance"`
	DurationS    float64              `json:"duration"`
	Summary      string               `json:"summary"`
	DominantVibe vibe.Dimension       `json:"dominantVibe"`
	VibeScores   vibe.Weights         `json:"vibeScores"`
	Features     vibe.SegmentFeatures `json:"features,omitempty"`
}

// TurnInstruction is one turn of the turn-by-turn sequence.
type TurnInstruction struct {
	DistanceM  float64    `json:"distance"`
	Direction  Direction  `json:"direction"`
	StreetName string     `json:"street_name,omitempty"`
	Point      Coordinate `json:"point"`
	Bearing    *float64   `json:"bearing,omitempty"`
}

// VibeSummary aggregates a candidate's per-segment vibe profiles.
type VibeSummary struct {
	NormalizedWeights vibe.Weights   `json:"normalizedWeights"`
	SegmentAverages   vibe.Weights   `json:"segmentAverages"`
	WeightedScore     float64        `json:"weightedScore"`
	DominantVibe      vibe.Dimension `json:"dominantVibe"`
}

// Highlight is a derived point of interest along a candidate.
type Highlight struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Coordinate  [2]float64     `json:"coordinate"` // lng, lat
	Vibe        vibe.Dimension `json:"vibe"`
}

// Summary is the serialized route block of a candidate.
type Summary struct {
	Path               string      `json:"path"` // WKT LINESTRING
	TotalDistanceM     float64     `json:"total_distance"`
	EstimatedDurationS float64     `json:"estimated_duration"`
	VibeSummary        VibeSummary `json:"vibe_summary"`
}

// GeoJSONGeometry is a LineString geometry in lng/lat order.
type GeoJSONGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// GeoJSONFeature wraps a geometry for map consumers.
type GeoJSONFeature struct {
	Type       string          `json:"type"`
	Geometry   GeoJSONGeometry `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

// Candidate is one planned route. Created by a synthesizer, scored by the
// aggregator, never mutated after ranking except for the recommended flag.
type Candidate struct {
	ID            string            `json:"id"`
	Label         string            `json:"label"`
	Description   string            `json:"description"`
	VibeWeights   vibe.Weights      `json:"vibe_weights"`
	Route         Summary           `json:"route"`
	Segments      []Segment         `json:"segments"`
	Turns         []TurnInstruction `json:"turns"`
	Highlights    []Highlight       `json:"highlights"`
	GeoJSON       GeoJSONFeature    `json:"geojson"`
	Coordinates   [][2]float64      `json:"coordinates"`
	VibeScore     float64           `json:"vibeScore"`
	Confidence    float64           `json:"confidence"`
	DetourMinutes float64           `json:"-"`
	Recommended   bool              `json:"recommended,omitempty"`
}

// Destination returns the final path coordinate.
func (c *Candidate) Destination() Coordinate {
	if len(c.Coordinates) == 0 {
		return Coordinate{}
	}
	last := c.Coordinates[len(c.Coordinates)-1]
	return Coordinate{Lat: last[1], Lng: last[0]}
}

// StoredRoute mirrors one persisted row of the routes table.
type StoredRoute struct {
	ID                 string       `json:"id"`
	UserID             string       `json:"user_id"`
	VibeWeights        vibe.Weights `json:"vibe_weights"`
	PathWKT            string       `json:"path"`
	TotalDistanceM     float64      `json:"total_distance"`
	EstimatedDurationS float64      `json:"estimated_duration"`
	VibeScore          float64      `json:"vibe_score"`
	CreatedAt          time.Time    `json:"created_at"`
}

// Request is the route generation request body.
type Request struct {
	Start            Coordinate   `json:"start"`
	End              Coordinate   `json:"end"`
	VibeWeights      vibe.Weights `json:"vibeWeights"`
	Alternatives     *int         `json:"alternatives,omitempty"`
	AvoidHighways    bool         `json:"avoidHighways,omitempty"`
	PreferBikeRoutes bool         `json:"preferBikeRoutes,omitempty"`
	Emotion          string       `json:"emotion,omitempty"`
	NightMode        bool         `json:"nightMode,omitempty"`
}

// Response is the route generation response body.
type Response struct {
	StoredRoute        *StoredRoute `json:"storedRoute"`
	Routes             []*Candidate `json:"routes"`
	RecommendedRouteID string       `json:"recommendedRouteId,omitempty"`
}

// LineStringWKT renders lng/lat coordinates as a WKT LINESTRING.
func LineStringWKT(coords [][2]float64) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = fmt.Sprintf("%g %g", c[0], c[1])
	}
	return "LINESTRING(" + strings.Join(parts, ", ") + ")"
}

// NewGeoJSONFeature wraps coordinates in a LineString feature.
func NewGeoJSONFeature(coords [][2]float64, props map[string]any) GeoJSONFeature {
	if props == nil {
		props = map[string]any{}
	}
	return GeoJSONFeature{
		Type:       "Feature",
		Geometry:   GeoJSONGeometry{Type: "LineString", Coordinates: coords},
		Properties: props,
	}
}
