package ambience

import (
	"errors"
	"testing"

	"backend-vibenav/internal/vibe"
)

func TestSelectFromFeatures(t *testing.T) {
	c := NewController()

	transition, changed, err := c.Select(vibe.SegmentFeatures{WaterProximity: vibe.Float(0.8)}, vibe.Weights{})
	if err != nil || !changed {
		t.Fatalf("expected transition, err=%v changed=%v", err, changed)
	}
	if transition.To != Water || transition.From != None {
		t.Fatalf("unexpected transition %+v", transition)
	}
	if transition.FadeInMs != 2500 {
		t.Fatalf("unexpected water fade-in %d", transition.FadeInMs)
	}

	// Water beats greenery when both clear their thresholds.
	transition, changed, err = c.Select(vibe.SegmentFeatures{
		WaterProximity: vibe.Float(0.7),
		GreenCover:     vibe.Float(0.9),
	}, vibe.Weights{})
	if err != nil || changed {
		t.Fatalf("expected no change while water persists, got %+v", transition)
	}
}

func TestSelectFromDominantDimension(t *testing.T) {
	cases := []struct {
		profile vibe.Weights
		want    Type
	}{
		{vibe.Weights{Greenery: 0.8}, Birds},
		{vibe.Weights{Scenery: 0.8}, Water},
		{vibe.Weights{Culture: 0.8}, Cafe},
		{vibe.Weights{Quietness: 0.8}, Wind},
	}

	for _, tc := range cases {
		c := NewController()
		transition, changed, err := c.Select(vibe.SegmentFeatures{}, tc.profile)
		if err != nil || !changed {
			t.Fatalf("expected transition for %+v", tc.profile)
		}
		if transition.To != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, transition.To)
		}
	}
}

func TestSelectTransitionBookkeeping(t *testing.T) {
	c := NewController()

	if _, changed, _ := c.Select(vibe.SegmentFeatures{GreenCover: vibe.Float(0.9)}, vibe.Weights{}); !changed {
		t.Fatalf("expected initial transition")
	}

	transition, changed, err := c.Select(vibe.SegmentFeatures{CafeDensity: vibe.Float(0.7)}, vibe.Weights{})
	if err != nil || !changed {
		t.Fatalf("expected birds→cafe transition")
	}
	if transition.From != Birds || transition.To != Cafe {
		t.Fatalf("unexpected transition %+v", transition)
	}
	if transition.FadeOutMs != 1500 || transition.FadeInMs != 2000 {
		t.Fatalf("unexpected fades %+v", transition)
	}
	if c.Current() != Cafe {
		t.Fatalf("expected current cafe, got %s", c.Current())
	}
}

func TestSelectDisabled(t *testing.T) {
	c := NewController()
	c.SetEnabled(false)

	_, changed, err := c.Select(vibe.SegmentFeatures{GreenCover: vibe.Float(0.9)}, vibe.Weights{})
	if err != nil || changed {
		t.Fatalf("disabled controller must not transition")
	}
}

func TestDispose(t *testing.T) {
	c := NewController()
	c.Dispose()
	c.Dispose() // idempotent

	if _, _, err := c.Select(vibe.SegmentFeatures{}, vibe.Weights{}); !errors.Is(err, ErrDisposed) {
		t.Fatalf("expected ErrDisposed, got %v", err)
	}
	if c.Current() != None {
		t.Fatalf("disposed controller must report no soundscape")
	}
}
