package route

import (
	"fmt"
	"math"
	"strings"

	"backend-vibenav/internal/shared/geo"
	"backend-vibenav/internal/vibe"
)

// Synthetic-mode route generation: a stylized path between two points used
// when no street-network engine is available. The geometry is an
// approximation and carries none of engine-backed mode's accuracy guarantees.
const (
	synthSubSegments = 8

	baseWalkSpeedMps = 1.4

	// Lateral shaping of the interpolated path, in degrees.
	swayAmplitudeDeg  = 0.0025
	driftAmplitudeDeg = 0.0012

	// Per-segment profile blend: archetype share vs plan share.
	archetypeBlend     = 0.55
	planBlend          = 0.45
	variationAmplitude = 0.06

	turnThresholdDeg = 12.0
)

// paceAdjust slows or speeds the base walking pace by the segment's dominant
// dimension (lingering in parks, striding through quiet stretches).
var paceAdjust = map[vibe.Dimension]float64{
	vibe.Greenery:  0.92,
	vibe.Quietness: 1.0,
	vibe.Culture:   0.88,
	vibe.Scenery:   0.9,
}

// archetypes are the four fixed segment profiles cycled by segment index.
var archetypes = [4]vibe.Weights{
	{Greenery: 0.7, Quietness: 0.15, Culture: 0.05, Scenery: 0.1}, // park stretch
	{Greenery: 0.1, Quietness: 0.2, Culture: 0.1, Scenery: 0.6},   // waterfront
	{Greenery: 0.05, Quietness: 0.15, Culture: 0.7, Scenery: 0.1}, // gallery quarter
	{Greenery: 0.15, Quietness: 0.65, Culture: 0.1, Scenery: 0.1}, // quiet lanes
}

var dimPhrases = map[vibe.Dimension]string{
	vibe.Greenery:  "leafy cover",
	vibe.Quietness: "hushed side streets",
	vibe.Culture:   "galleries and murals",
	vibe.Scenery:   "open vistas",
}

// Synthesize generates a full candidate between start and end for one plan.
// Deterministic given identical inputs.
func Synthesize(start, end Coordinate, plan vibe.Plan) *Candidate {
	coords := synthPath(start, end, plan.Weights)

	segments := make([]Segment, 0, len(coords)-1)
	var totalDistance, totalDuration float64
	for i := 0; i < len(coords)-1; i++ {
		a := Coordinate{Lat: coords[i][1], Lng: coords[i][0]}
		b := Coordinate{Lat: coords[i+1][1], Lng: coords[i+1][0]}

		profile := segmentProfile(plan.Weights, i)
		dominant := profile.Dominant()
		distance := geo.HaversineM(a.Lat, a.Lng, b.Lat, b.Lng)
		duration := distance / (baseWalkSpeedMps * paceAdjust[dominant])

		segments = append(segments, Segment{
			Index:        i,
			Start:        a,
			End:          b,
			DistanceM:    distance,
			DurationS:    duration,
			Summary:      segmentSummary(profile),
			DominantVibe: dominant,
			VibeScores:   profile,
		})
		totalDistance += distance
		totalDuration += duration
	}

	return &Candidate{
		ID:          "route-" + plan.ID,
		Label:       plan.Label,
		Description: plan.Description,
		VibeWeights: plan.Weights,
		Route: Summary{
			Path:               LineStringWKT(coords),
			TotalDistanceM:     totalDistance,
			EstimatedDurationS: totalDuration,
		},
		Segments:    segments,
		Turns:       synthTurns(coords, segments),
		GeoJSON:     NewGeoJSONFeature(coords, map[string]any{"plan": plan.ID}),
		Coordinates: coords,
	}
}

// synthPath interpolates sub-segment points along the straight line and
// pushes interior points sideways with a sinusoidal sway (greenery/culture
// differential) and drift (scenery/quietness differential).
func synthPath(start, end Coordinate, w vibe.Weights) [][2]float64 {
	dLat := end.Lat - start.Lat
	dLng := end.Lng - start.Lng
	length := math.Hypot(dLat, dLng)

	var perpLat, perpLng float64
	if length > 0 {
		perpLat = dLng / length
		perpLng = -dLat / length
	}

	sway := w.Greenery - w.Culture
	drift := w.Scenery - w.Quietness

	coords := make([][2]float64, synthSubSegments+1)
	for i := 0; i <= synthSubSegments; i++ {
		frac := float64(i) / synthSubSegments
		lat := start.Lat + dLat*frac
		lng := start.Lng + dLng*frac

		if i > 0 && i < synthSubSegments {
			offset := swayAmplitudeDeg*sway*math.Sin(2*math.Pi*frac) +
				driftAmplitudeDeg*drift*math.Sin(math.Pi*frac)
			lat += offset * perpLat
			lng += offset * perpLng
		}
		coords[i] = [2]float64{lng, lat}
	}
	return coords
}

// segmentProfile blends the cycled archetype with the plan weights and adds a
// small index-dependent variation so consecutive segments differ.
func segmentProfile(plan vibe.Weights, index int) vibe.Weights {
	arch := archetypes[index%len(archetypes)]

	var out vibe.Weights
	for di, d := range vibe.Dimensions {
		v := arch.Get(d)*archetypeBlend + plan.Get(d)*planBlend
		v += variationAmplitude * math.Sin(float64(index)*1.7+float64(di)*0.9)
		out.Set(d, math.Min(1, math.Max(0, v)))
	}
	return out
}

func segmentSummary(profile vibe.Weights) string {
	ranked := profile.Ranked()
	first := dimPhrases[ranked[0]]
	second := dimPhrases[ranked[1]]
	return fmt.Sprintf("%s with %s", strings.ToUpper(first[:1])+first[1:], second)
}

// synthTurns derives turn instructions from bearing changes at interior
// points, ending with an arrive instruction at the destination.
func synthTurns(coords [][2]float64, segments []Segment) []TurnInstruction {
	var turns []TurnInstruction
	for i := 1; i < len(coords)-1; i++ {
		inBearing := geo.BearingDeg(coords[i-1][1], coords[i-1][0], coords[i][1], coords[i][0])
		outBearing := geo.BearingDeg(coords[i][1], coords[i][0], coords[i+1][1], coords[i+1][0])

		delta := math.Mod(outBearing-inBearing+540, 360) - 180
		direction := DirStraight
		if delta > turnThresholdDeg {
			direction = DirRight
		} else if delta < -turnThresholdDeg {
			direction = DirLeft
		}

		bearing := outBearing
		turns = append(turns, TurnInstruction{
			DistanceM: segments[i-1].DistanceM,
			Direction: direction,
			Point:     Coordinate{Lat: coords[i][1], Lng: coords[i][0]},
			Bearing:   &bearing,
		})
	}

	last := len(coords) - 1
	arriveBearing := geo.BearingDeg(coords[last-1][1], coords[last-1][0], coords[last][1], coords[last][0])
	turns = append(turns, TurnInstruction{
		DistanceM: segments[len(segments)-1].DistanceM,
		Direction: DirArrive,
		Point:     Coordinate{Lat: coords[last][1], Lng: coords[last][0]},
		Bearing:   &arriveBearing,
	})
	return turns
}
