package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"backend-vibenav/internal/auth"
	"backend-vibenav/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, secret, userID string) string {
	t.Helper()
	claims := auth.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestHealthRoute(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestRoutesRequireAuth(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)

	req := httptest.NewRequest("POST", "/routes/", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 status, got %d", resp.StatusCode)
	}
}

func TestRoutesWithoutDatabase(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)

	body := `{"start":{"lat":52.52,"lng":13.405},"end":{"lat":52.53,"lng":13.42},"vibeWeights":{"greenery":0.6,"quietness":0.4}}`
	req := httptest.NewRequest("POST", "/routes/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "secret", "user-1"))

	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 without a database, got %d", resp.StatusCode)
	}

	var out struct {
		StoredRoute        json.RawMessage   `json:"storedRoute"`
		Routes             []json.RawMessage `json:"routes"`
		RecommendedRouteID string            `json:"recommendedRouteId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if string(out.StoredRoute) != "null" {
		t.Fatalf("expected null storedRoute without a database, got %s", out.StoredRoute)
	}
	if len(out.Routes) == 0 || out.RecommendedRouteID == "" {
		t.Fatalf("expected ranked candidates despite missing storage")
	}
}

func TestNavSessionGetRequiresAuth(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)

	req := httptest.NewRequest("GET", "/nav/sessions/some-id", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 status, got %d", resp.StatusCode)
	}
}

func TestEngineWiring(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", ValhallaURL: "http://localhost:8002", EngineTimeoutMs: 1000}, nil, nil)
	if s.App == nil {
		t.Fatalf("expected app")
	}
}
