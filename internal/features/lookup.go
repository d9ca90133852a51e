// Package features wraps the geospatial feature database collaborator. Given
// a route geometry it returns per-segment vibe feature vectors; consumers
// substitute Defaults() whenever the lookup fails or comes back empty.
package features

import (
	"context"

	"backend-vibenav/internal/db"
	"backend-vibenav/internal/vibe"
)

// Lookup resolves segment feature vectors for a route geometry given as a
// WKT LINESTRING, ordered and aligned to maneuver boundaries.
type Lookup interface {
	PathFeatures(ctx context.Context, lineWKT string) ([]vibe.SegmentFeatures, error)
}

// Defaults is the documented substitute feature vector used when lookup data
// is unavailable for a segment. Mid-range values keep scoring sane while the
// lowered confidence flags the degradation.
func Defaults() vibe.SegmentFeatures {
	return vibe.SegmentFeatures{
		GreenCover:         vibe.Float(0.3),
		WaterProximity:     vibe.Float(0.2),
		TreeCanopy:         vibe.Float(0.25),
		CafeDensity:        vibe.Float(0.1),
		CulturalNodes:      vibe.Float(0.1),
		TrafficVolume:      vibe.Float(0.5),
		NoiseLevel:         vibe.Float(0.5),
		PedestrianFriendly: vibe.Float(0.6),
		Slope:              vibe.Float(0.1),
		LightSafetyNight:   vibe.Float(0.5),
	}
}

// PostgresLookup reads segment features from the PostGIS feature tables.
type PostgresLookup struct {
	db db.Querier
}

func NewPostgresLookup(db db.Querier) *PostgresLookup {
	return &PostgresLookup{db: db}
}

func (l *PostgresLookup) PathFeatures(ctx context.Context, lineWKT string) ([]vibe.SegmentFeatures, error) {
	rows, err := l.db.Query(ctx, `
		SELECT green_cover, water_proximity, tree_canopy, cafe_density, cultural_nodes,
		       traffic_volume, noise_level, pedestrian_friendly, slope, light_safety_night
		FROM segment_features
		WHERE ST_DWithin(geom, ST_GeogFromText($1), 25)
		ORDER BY ST_LineLocatePoint(ST_GeogFromText($1)::geometry, ST_Centroid(geom::geometry))
	`, lineWKT)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []vibe.SegmentFeatures
	for rows.Next() {
		var f vibe.SegmentFeatures
		if err := rows.Scan(&f.GreenCover, &f.WaterProximity, &f.TreeCanopy, &f.CafeDensity,
			&f.CulturalNodes, &f.TrafficVolume, &f.NoiseLevel, &f.PedestrianFriendly,
			&f.Slope, &f.LightSafetyNight); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
