package renderer

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

var (
	// ErrInvalidConfig is returned for render configurations that cannot be rendered
	ErrInvalidConfig = errors.New("invalid render config")
	// ErrLostResults is returned when jobs finished without reporting a result
	ErrLostResults = errors.New("render results lost")
)

// WorkersEnvVar overrides the worker count when RenderConfig.NumWorkers is 0
const WorkersEnvVar = "RAYTRACER_WORKERS"

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width                int   `json:"width,omitempty"`                // Image width in pixels
	Height               int   `json:"height,omitempty"`               // Image height in pixels
	SamplesPerPixel      int   `json:"samplesPerPixel,omitempty"`      // Anti-aliasing samples per pixel
	MaxDepth             int   `json:"maxDepth,omitempty"`             // Maximum ray bounce depth
	NumWorkers           int   `json:"numWorkers,omitempty"`           // Number of workers (0 = CPU count)
	MaxInFlightPerWorker int   `json:"maxInFlightPerWorker,omitempty"` // Back-pressure bound per worker
	Seed                 int64 `json:"seed,omitempty"`                 // Base seed for all samplers
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:                800,
		Height:               600,
		SamplesPerPixel:      100,
		MaxDepth:             50,
		NumWorkers:           0,
		MaxInFlightPerWorker: 4,
		Seed:                 42,
	}
}

// MergeRenderConfig applies the non-zero fields of override to base
func MergeRenderConfig(base, override RenderConfig) RenderConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.NumWorkers != 0 {
		result.NumWorkers = override.NumWorkers
	}
	if override.MaxInFlightPerWorker != 0 {
		result.MaxInFlightPerWorker = override.MaxInFlightPerWorker
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	return result
}

// Validate checks that the configuration can be rendered
func (c RenderConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: %d samples per pixel", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: %d workers", ErrInvalidConfig, c.NumWorkers)
	case c.MaxInFlightPerWorker <= 0:
		return fmt.Errorf("%w: %d in-flight jobs per worker", ErrInvalidConfig, c.MaxInFlightPerWorker)
	}
	return nil
}

// ResolveWorkers returns the worker count to use: NumWorkers if set, then the
// RAYTRACER_WORKERS environment variable, then the CPU count.
func (c RenderConfig) ResolveWorkers() int {
	if c.NumWorkers > 0 {
		return c.NumWorkers
	}
	if env := os.Getenv(WorkersEnvVar); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// Shader computes the color seen along a ray. Implementations are shared by
// all workers and must be safe for concurrent reads.
type Shader interface {
	GetRayColor(ray core.Ray, depth int, sampler core.Sampler) core.Color
}

// ImageSink receives the final 8-bit pixels
type ImageSink interface {
	SetPixel(x, y int, r, g, b uint8)
	Save(path string) error
}

// pixelResult is reported by a job for one pixel
type pixelResult struct {
	X, Y    int
	Color   core.Color // Sum over Samples rays
	Samples int
}

// Raytracer dispatches per-pixel jobs to a worker pool and accumulates the
// results. Only the goroutine calling Render touches the camera and the
// pixel statistics.
type Raytracer struct {
	world      Shader
	camera     *Camera
	config     RenderConfig
	pixelStats [][]PixelStats
}

// NewRaytracer creates a new raytracer. The camera must match the configured image size.
func NewRaytracer(world Shader, camera *Camera, config RenderConfig) *Raytracer {
	return &Raytracer{
		world:  world,
		camera: camera,
		config: config,
	}
}

// Config returns the render configuration
func (rt *Raytracer) Config() RenderConfig {
	return rt.config
}

// Render renders the whole image into sink
func (rt *Raytracer) Render(sink ImageSink, progress ProgressReporter) (RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return RenderStats{}, err
	}
	if rt.camera.Width() != rt.config.Width || rt.camera.Height() != rt.config.Height {
		return RenderStats{}, fmt.Errorf("%w: camera is %dx%d, image is %dx%d", ErrInvalidConfig,
			rt.camera.Width(), rt.camera.Height(), rt.config.Width, rt.config.Height)
	}
	if progress == nil {
		progress = NopProgress{}
	}

	numWorkers := rt.config.ResolveWorkers()
	pool, err := NewWorkerPool(numWorkers, rt.config.Seed)
	if err != nil {
		return RenderStats{}, err
	}

	logger := core.Logger()
	startTime := time.Now()
	maxInFlight := rt.config.MaxInFlightPerWorker * numWorkers

	logger.Info("render started",
		"width", rt.config.Width, "height", rt.config.Height,
		"samples", rt.config.SamplesPerPixel, "workers", numWorkers)

	rt.pixelStats = make([][]PixelStats, rt.config.Height)
	for y := range rt.pixelStats {
		rt.pixelStats[y] = make([]PixelStats, rt.config.Width)
	}

	// At most maxInFlight results are ever pending, so workers never block on send
	results := make(chan pixelResult, maxInFlight)

	pool.Start()
	stalls, err := rt.dispatch(pool, results, maxInFlight, progress)
	pool.Stop()
	if err != nil {
		return RenderStats{}, err
	}

	rt.drainResults(results)
	if err := pool.Err(); err != nil {
		return RenderStats{}, fmt.Errorf("render aborted: %w", err)
	}

	stats := rt.writeImage(sink)
	stats.Workers = numWorkers
	stats.MaxInFlight = maxInFlight
	stats.BackPressureStalls = stalls
	stats.Duration = time.Since(startTime)

	if stats.TotalSamples != rt.config.Width*rt.config.Height*rt.config.SamplesPerPixel {
		return stats, fmt.Errorf("%w: got %d of %d samples", ErrLostResults,
			stats.TotalSamples, rt.config.Width*rt.config.Height*rt.config.SamplesPerPixel)
	}

	logger.Info("render completed", "duration", stats.Duration, "stalls", stalls)
	return stats, nil
}

// dispatch submits one job per pixel in row-major order, stalling while
// maxInFlight jobs are unreported. Returns the number of stalls.
func (rt *Raytracer) dispatch(pool *WorkerPool, results chan pixelResult, maxInFlight int, progress ProgressReporter) (int, error) {
	world := rt.world
	inFlight := 0
	stalls := 0

	for y := 0; y < rt.config.Height; y++ {
		for x := 0; x < rt.config.Width; x++ {
			// Rays are sampled here since the camera belongs to this goroutine
			rays := make([]core.Ray, rt.config.SamplesPerPixel)
			for s := range rays {
				ray, err := rt.camera.GetRay(x, y)
				if err != nil {
					return stalls, err
				}
				rays[s] = ray
			}

			job := func(sampler core.Sampler) {
				color := core.Black()
				for _, ray := range rays {
					color = color.Add(world.GetRayColor(ray, 0, sampler))
				}
				results <- pixelResult{X: x, Y: y, Color: color, Samples: len(rays)}
			}
			if err := pool.SubmitTask(job); err != nil {
				return stalls, err
			}
			inFlight++

			if inFlight >= maxInFlight {
				stalls++
				core.Logger().Debug("back-pressure stall", "inFlight", inFlight, "x", x, "y", y)
			}
			for inFlight >= maxInFlight {
				inFlight -= rt.drainResults(results)
				if err := pool.Err(); err != nil {
					return stalls, fmt.Errorf("render aborted: %w", err)
				}
				runtime.Gosched()
			}
		}
		progress.Increment()
	}

	return stalls, nil
}

// drainResults accumulates every result available without blocking
func (rt *Raytracer) drainResults(results <-chan pixelResult) int {
	drained := 0
	for {
		select {
		case result := <-results:
			rt.pixelStats[result.Y][result.X].AddSamples(result.Color, result.Samples)
			drained++
		default:
			return drained
		}
	}
}

// writeImage averages the accumulated samples and writes every pixel to sink
func (rt *Raytracer) writeImage(sink ImageSink) RenderStats {
	stats := RenderStats{
		TotalPixels: rt.config.Width * rt.config.Height,
	}

	for y := 0; y < rt.config.Height; y++ {
		for x := 0; x < rt.config.Width; x++ {
			pixel := &rt.pixelStats[y][x]
			r, g, b := colorToRGB8(pixel.GetColor())
			sink.SetPixel(x, y, r, g, b)
			stats.TotalSamples += pixel.SampleCount
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return stats
}

// PixelColor returns the averaged linear color of a pixel from the last render.
// Before the first render every pixel is black.
func (rt *Raytracer) PixelColor(x, y int) core.Color {
	if rt.pixelStats == nil {
		return core.Black()
	}
	return rt.pixelStats[y][x].GetColor()
}
