// Package valhalla is a thin client for the external turn-by-turn routing
// engine. The engine is consumed as an opaque service: this package only
// shapes requests, decodes responses, and maps maneuver codes.
package valhalla

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/twpayne/go-polyline"
	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 10 * time.Second

// Location is an engine routing waypoint.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RouteRequest is the engine request body.
type RouteRequest struct {
	Locations      []Location                    `json:"locations"`
	Costing        string                        `json:"costing"`
	Alternates     int                           `json:"alternates,omitempty"`
	CostingOptions map[string]map[string]float64 `json:"costing_options,omitempty"`
}

// Maneuver is one engine turn instruction.
type Maneuver struct {
	Instruction     string  `json:"instruction"`
	Type            int     `json:"type"`
	LengthKm        float64 `json:"length"`
	TimeS           float64 `json:"time"`
	BeginShapeIndex int     `json:"begin_shape_index"`
	EndShapeIndex   int     `json:"end_shape_index"`
}

// Leg is one engine route leg with its encoded shape.
type Leg struct {
	Shape   string `json:"shape"`
	Summary struct {
		LengthKm float64 `json:"length"`
		TimeS    float64 `json:"time"`
	} `json:"summary"`
	Maneuvers []Maneuver `json:"maneuvers"`
}

// RouteResponse is the engine response body.
type RouteResponse struct {
	Trip struct {
		Legs []Leg `json:"legs"`
	} `json:"trip"`
}

// Client calls a Valhalla-compatible endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Route requests a single costed route.
func (c *Client) Route(ctx context.Context, req RouteRequest) (RouteResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return RouteResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/route", bytes.NewReader(body))
	if err != nil {
		return RouteResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return RouteResponse{}, fmt.Errorf("routing engine unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RouteResponse{}, fmt.Errorf("routing engine status %d", resp.StatusCode)
	}

	var out RouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return RouteResponse{}, err
	}
	return out, nil
}

// BaseRoutes fans out the three costing strategies (fastest pedestrian,
// safer pedestrian, bicycle) and returns whichever succeed. It errors only
// when no usable route remains.
func (c *Client) BaseRoutes(ctx context.Context, origin, destination Location, preferBike bool) ([]RouteResponse, error) {
	requests := []RouteRequest{
		{
			Locations:  []Location{origin, destination},
			Costing:    "pedestrian",
			Alternates: 1,
		},
		{
			Locations: []Location{origin, destination},
			Costing:   "pedestrian",
			CostingOptions: map[string]map[string]float64{
				"pedestrian": {
					"walkway_factor":  1.5,
					"sidewalk_factor": 1.3,
					"alley_factor":    0.5,
					"use_hills":       0.3,
				},
			},
		},
	}
	if preferBike {
		requests = append(requests, RouteRequest{
			Locations: []Location{origin, destination},
			Costing:   "bicycle",
		})
	}

	results := make([]*RouteResponse, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			resp, err := c.Route(gctx, req)
			if err != nil {
				// Individual strategy failures are tolerated.
				return nil
			}
			results[i] = &resp
			return nil
		})
	}
	_ = g.Wait()

	var responses []RouteResponse
	for _, r := range results {
		if r != nil && len(r.Trip.Legs) > 0 {
			responses = append(responses, *r)
		}
	}
	if len(responses) == 0 {
		return nil, fmt.Errorf("routing engine returned no usable routes")
	}
	return responses, nil
}

var shapeCodec = polyline.Codec{Dim: 2, Scale: 1e6}

// DecodeShape decodes the engine's precision-6 encoded polyline into
// lng/lat coordinate pairs.
func DecodeShape(shape string) ([][2]float64, error) {
	decoded, _, err := shapeCodec.DecodeCoords([]byte(shape))
	if err != nil {
		return nil, fmt.Errorf("decode shape: %w", err)
	}
	coords := make([][2]float64, len(decoded))
	for i, c := range decoded {
		coords[i] = [2]float64{c[1], c[0]} // engine emits lat,lng
	}
	return coords, nil
}

// EncodeShape is the inverse of DecodeShape, used in tests and fixtures.
func EncodeShape(coords [][2]float64) string {
	latLng := make([][]float64, len(coords))
	for i, c := range coords {
		latLng[i] = []float64{c[1], c[0]}
	}
	return string(shapeCodec.EncodeCoords(nil, latLng))
}

// Direction buckets for maneuver type codes.
const (
	maneuverArrive     = 4
	maneuverRightBegin = 7
	maneuverRightEnd   = 9
	maneuverLeftBegin  = 10
	maneuverLeftEnd    = 12
)

// MapManeuverType collapses the engine's maneuver codes into the four
// simplified directions.
func MapManeuverType(t int) string {
	switch {
	case t == maneuverArrive:
		return "arrive"
	case t >= maneuverRightBegin && t <= maneuverRightEnd:
		return "right"
	case t >= maneuverLeftBegin && t <= maneuverLeftEnd:
		return "left"
	default:
		return "straight"
	}
}
