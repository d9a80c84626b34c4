package renderer

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

func TestToChannel(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected uint8
	}{
		{"zero", 0, 0},
		{"quarter is gamma corrected to half", 0.25, 127},
		{"one saturates", 1, 255},
		{"overexposed clamps", 4, 255},
		{"negative clamps", -0.5, 0},
		{"NaN becomes black", math.NaN(), 0},
		{"infinity clamps", math.Inf(1), 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toChannel(tt.value); got != tt.expected {
				t.Errorf("toChannel(%v) = %d, expected %d", tt.value, got, tt.expected)
			}
		})
	}
}

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if ps.GetColor() != core.Black() {
		t.Errorf("Expected black for empty pixel, got %v", ps.GetColor())
	}

	ps.AddSamples(core.NewColor(1, 2, 3), 2)
	ps.AddSamples(core.NewColor(1, 0, 1), 2)

	if ps.SampleCount != 4 {
		t.Errorf("Expected 4 samples, got %d", ps.SampleCount)
	}
	expected := core.NewColor(0.5, 0.5, 1)
	if ps.GetColor() != expected {
		t.Errorf("Expected average %v, got %v", expected, ps.GetColor())
	}
}

func TestRenderStats_String(t *testing.T) {
	stats := RenderStats{
		TotalPixels:        480000,
		TotalSamples:       48000000,
		AverageSamples:     100,
		Workers:            8,
		BackPressureStalls: 1234,
		Duration:           1500 * time.Millisecond,
	}

	s := stats.String()
	for _, want := range []string{"480,000 pixels", "48,000,000 samples", "8 workers", "1.5s", "1,234 back-pressure stalls"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %q in %q", want, s)
		}
	}
}
