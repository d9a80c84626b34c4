package renderer

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels        int           // Total number of pixels rendered
	TotalSamples       int           // Total number of samples taken
	AverageSamples     float64       // Average samples per pixel
	Workers            int           // Number of workers used
	MaxInFlight        int           // Bound on submitted-but-unreported jobs
	BackPressureStalls int           // Times the dispatcher waited for results
	Duration           time.Duration // Wall time of the render
}

// String formats the statistics for humans, e.g. "480,000 pixels, 1,000 samples/pixel ..."
func (s RenderStats) String() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d pixels, %.1f samples/pixel (%d samples) on %d workers in %v, %d back-pressure stalls",
		s.TotalPixels, s.AverageSamples, s.TotalSamples, s.Workers, s.Duration.Round(time.Millisecond), s.BackPressureStalls)
}

// PixelStats accumulates color samples for a single pixel
type PixelStats struct {
	ColorAccum  core.Color // Sum of all sample colors
	SampleCount int        // Number of samples taken
}

// AddSamples adds the sum of n color samples to the pixel
func (ps *PixelStats) AddSamples(color core.Color, n int) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount += n
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Color {
	if ps.SampleCount == 0 {
		return core.Black()
	}
	return ps.ColorAccum.Divide(float64(ps.SampleCount))
}

// colorToRGB8 applies gamma 2 correction and scales to [0, 255]
func colorToRGB8(c core.Color) (r, g, b uint8) {
	return toChannel(c.R), toChannel(c.G), toChannel(c.B)
}

// toChannel maps a linear value to 8 bits. Negative and NaN values become 0.
func toChannel(v float64) uint8 {
	scaled := math.Sqrt(v) * 255.9999
	if !(scaled > 0) {
		return 0
	}
	if scaled >= 255 {
		return 255
	}
	return uint8(scaled)
}
