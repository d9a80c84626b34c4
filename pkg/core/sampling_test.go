package core

import (
	"math/rand"
	"testing"
)

// sequenceSampler replays a fixed list of values, cycling when exhausted
type sequenceSampler struct {
	values []float64
	index  int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.index%len(s.values)]
	s.index++
	return v
}

func TestRandomInUnitSphere_InsideBall(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		p := RandomInUnitSphere(sampler)
		if p.Length() > 1.0 {
			t.Fatalf("Expected point inside unit sphere, got %v (length %f)", p, p.Length())
		}
	}
}

func TestRandomInUnitSphere_RejectsCubeCorners(t *testing.T) {
	// First triple maps to (1,1,1)-ish (outside), second to the origin
	sampler := &sequenceSampler{values: []float64{0.99, 0.99, 0.99, 0.5, 0.5, 0.5}}

	p := RandomInUnitSphere(sampler)
	if p != NewDirection(0, 0, 0) {
		t.Errorf("Expected rejected corner followed by origin, got %v", p)
	}
	if sampler.index != 6 {
		t.Errorf("Expected 6 draws, got %d", sampler.index)
	}
}

func TestSeededSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(7)
	b := NewSeededSampler(7)

	for i := 0; i < 10; i++ {
		va, vb := a.Get1D(), b.Get1D()
		if va != vb {
			t.Fatalf("Expected identical sequences, got %f and %f at %d", va, vb, i)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("Expected value in [0,1), got %f", va)
		}
	}
}
