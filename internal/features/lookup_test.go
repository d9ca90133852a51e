package features

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
)

func TestDefaultsComplete(t *testing.T) {
	f := Defaults()
	if f.GreenCover == nil || f.WaterProximity == nil || f.TreeCanopy == nil ||
		f.CafeDensity == nil || f.CulturalNodes == nil || f.TrafficVolume == nil ||
		f.NoiseLevel == nil || f.PedestrianFriendly == nil || f.Slope == nil ||
		f.LightSafetyNight == nil {
		t.Fatalf("defaults must fill every attribute")
	}
	if *f.GreenCover != 0.3 || *f.LightSafetyNight != 0.5 {
		t.Fatalf("unexpected default values %+v", f)
	}
}

func TestPathFeatures(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	wkt := "LINESTRING(13.405 52.52, 13.42 52.53)"
	green := 0.7
	noise := 0.3
	mock.ExpectQuery(`SELECT green_cover, water_proximity, tree_canopy`).
		WithArgs(wkt).
		WillReturnRows(pgxmock.NewRows([]string{
			"green_cover", "water_proximity", "tree_canopy", "cafe_density", "cultural_nodes",
			"traffic_volume", "noise_level", "pedestrian_friendly", "slope", "light_safety_night",
		}).AddRow(&green, nil, nil, nil, nil, nil, &noise, nil, nil, nil))

	lookup := NewPostgresLookup(mock)
	feats, err := lookup.PathFeatures(context.Background(), wkt)
	if err != nil {
		t.Fatalf("path features: %v", err)
	}
	if len(feats) != 1 {
		t.Fatalf("expected one segment vector, got %d", len(feats))
	}
	if feats[0].GreenCover == nil || *feats[0].GreenCover != 0.7 {
		t.Fatalf("expected green cover 0.7, got %+v", feats[0])
	}
	if feats[0].WaterProximity != nil {
		t.Fatalf("expected nil for missing attribute")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPathFeaturesQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT green_cover`).
		WithArgs("LINESTRING(0 0, 1 1)").
		WillReturnError(errors.New("db down"))

	lookup := NewPostgresLookup(mock)
	if _, err := lookup.PathFeatures(context.Background(), "LINESTRING(0 0, 1 1)"); err == nil {
		t.Fatalf("expected error")
	}
}
