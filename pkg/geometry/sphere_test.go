package geometry

import (
	"math"
	"strings"
	"testing"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

const tolerance = 1e-9

func TestSphere_GetHits_Miss(t *testing.T) {
	sphere := NewSphere(core.NewLocation(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewLocation(2, 0, 0), core.NewDirection(0, 1, 0))

	hit, isHit := sphere.GetHits(ray)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.Distance)
	}
}

func TestSphere_GetHits_NearestRoot(t *testing.T) {
	tests := []struct {
		name           string
		sphere         *Sphere
		rayOrigin      core.Location
		rayDirection   core.Direction
		expectedT      float64
		expectedNormal core.Direction
	}{
		{
			name:           "aimed at center from outside",
			sphere:         NewSphere(core.NewLocation(0, 0, 0), 1.0),
			rayOrigin:      core.NewLocation(0, 0, 2),
			rayDirection:   core.NewDirection(0, 0, -1),
			expectedT:      1.0,
			expectedNormal: core.NewDirection(0, 0, 1),
		},
		{
			name:           "small sphere of the sample world",
			sphere:         NewSphere(core.NewLocation(1, 0, 0), 0.5),
			rayOrigin:      core.NewLocation(0, 0, 0),
			rayDirection:   core.NewDirection(1, 0, 0),
			expectedT:      0.5,
			expectedNormal: core.NewDirection(-1, 0, 0),
		},
		{
			name:           "off-axis center distance minus radius",
			sphere:         NewSphere(core.NewLocation(3, 4, 0), 2.0),
			rayOrigin:      core.NewLocation(0, 0, 0),
			rayDirection:   core.NewDirection(0.6, 0.8, 0),
			expectedT:      3.0,
			expectedNormal: core.NewDirection(-0.6, -0.8, 0),
		},
		{
			name:           "origin inside returns far root",
			sphere:         NewSphere(core.NewLocation(0, 0, 0), 1.0),
			rayOrigin:      core.NewLocation(0, 0, 0),
			rayDirection:   core.NewDirection(0, 0, 1),
			expectedT:      1.0,
			expectedNormal: core.NewDirection(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := tt.sphere.GetHits(ray)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.Distance-tt.expectedT) > tolerance {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.Distance)
			}

			if hit.Normal.Subtract(tt.expectedNormal).Length() > tolerance {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_GetHits_Tangent(t *testing.T) {
	sphere := NewSphere(core.NewLocation(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewLocation(1, 0, 2), core.NewDirection(0, 0, -1))

	hit, isHit := sphere.GetHits(ray)
	if !isHit {
		t.Fatal("Expected tangent hit, but got miss")
	}

	if math.Abs(hit.Distance-2.0) > tolerance {
		t.Errorf("Expected single root at t=2, got %f", hit.Distance)
	}

	point := ray.At(hit.Distance)
	if point.Subtract(core.NewLocation(1, 0, 0)).Length() > tolerance {
		t.Errorf("Expected hit point (1,0,0), got %v", point)
	}
}

func TestSphere_GetHits_Behind(t *testing.T) {
	sphere := NewSphere(core.NewLocation(0, 0, 0), 1.0)

	tests := []struct {
		name string
		ray  core.Ray
	}{
		{"both roots negative", core.NewRay(core.NewLocation(0, 0, 3), core.NewDirection(0, 0, 1))},
		{"tangent behind", core.NewRay(core.NewLocation(1, 0, -2), core.NewDirection(0, 0, -1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hit, isHit := sphere.GetHits(tt.ray); isHit {
				t.Errorf("Expected miss, got hit at t=%f", hit.Distance)
			}
		})
	}
}

func TestSphere_GetHits_SuppressesSelfIntersection(t *testing.T) {
	sphere := NewSphere(core.NewLocation(0, 0, 0), 1.0)

	// Start exactly on the surface heading outward: near root is 0, far root negative
	ray := core.NewRay(core.NewLocation(0, 0, 1), core.NewDirection(0, 0, 1))
	if hit, isHit := sphere.GetHits(ray); isHit {
		t.Errorf("Expected no hit for outgoing ray on the surface, got t=%f", hit.Distance)
	}

	// Start on the surface heading inward: near root 0 is rejected, far root returned
	ray = core.NewRay(core.NewLocation(0, 0, 1), core.NewDirection(0, 0, -1))
	hit, isHit := sphere.GetHits(ray)
	if !isHit {
		t.Fatal("Expected hit on far side")
	}
	if math.Abs(hit.Distance-2.0) > tolerance {
		t.Errorf("Expected far root t=2, got %f", hit.Distance)
	}
}

func TestSelectRoot(t *testing.T) {
	h := func(d float64) Hit { return Hit{Distance: d} }

	tests := []struct {
		name     string
		h1, h2   Hit
		expected float64
		isHit    bool
	}{
		{"only first valid", h(1), h(-1), 1, true},
		{"only second valid", h(-1), h(2), 2, true},
		{"neither valid", h(-2), h(Epsilon), 0, false},
		{"first nearer", h(1), h(2), 1, true},
		{"second nearer", h(3), h(2), 2, true},
		{"equal roots", h(2), h(2), 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := selectRoot(tt.h1, tt.h2)
			if isHit != tt.isHit {
				t.Fatalf("Expected isHit=%t, got %t", tt.isHit, isHit)
			}
			if isHit && hit.Distance != tt.expected {
				t.Errorf("Expected distance %f, got %f", tt.expected, hit.Distance)
			}
		})
	}
}

func TestSelectRoot_PanicsOnUnorderedRoots(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected panic for NaN roots")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "unable to order roots") {
			t.Errorf("Unexpected panic value %v", r)
		}
	}()

	// NaN compares false everywhere, so no ordering branch applies
	selectRoot(Hit{Distance: 1}, Hit{Distance: math.NaN()})
}

func TestSphere_ImplementsHittable(t *testing.T) {
	var _ Hittable = NewSphere(core.NewLocation(0, 0, 0), 1)
}
