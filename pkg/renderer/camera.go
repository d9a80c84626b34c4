package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

// ViewportHeight is the height of the virtual image plane in world units.
// It fixes the vertical field of view; the width follows from the aspect ratio.
const ViewportHeight = 2.0

// ErrOutOfViewport is returned when a ray is requested for a pixel outside the image
var ErrOutOfViewport = errors.New("pixel outside viewport")

// CameraConfig contains the parameters for camera construction
type CameraConfig struct {
	Origin      core.Location  `json:"origin"`      // Camera position
	Direction   core.Direction `json:"direction"`   // Direction the camera points to
	FocalLength float64        `json:"focalLength"` // Distance of the viewport from the origin
}

// DefaultCameraConfig returns a camera at the origin looking along +X
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:      core.Origin(),
		Direction:   core.NewDirection(1, 0, 0),
		FocalLength: 1.0,
	}
}

// MergeCameraConfig applies the non-zero fields of override to base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Origin != (core.Location{}) {
		result.Origin = override.Origin
	}
	if override.Direction != (core.Direction{}) {
		result.Direction = override.Direction
	}
	if override.FocalLength != 0 {
		result.FocalLength = override.FocalLength
	}
	return result
}

// Camera generates jittered rays through the pixels of a viewport.
// The camera owns its sampler and must only be used by one goroutine.
type Camera struct {
	origin             core.Location
	direction          core.Direction
	aspectRatio        float64
	width, height      int
	focalLength        float64
	viewportTopLeft    core.Location // relative to the world origin
	viewportHorizontal core.Direction
	viewportVertical   core.Direction
	sampler            core.Sampler
}

// NewCamera creates a camera for an image of width x height pixels
func NewCamera(config CameraConfig, width, height int, sampler core.Sampler) *Camera {
	aspectRatio := float64(width) / float64(height)

	// Horizontal axis: the view direction rotated by -90 degrees in the XY plane
	horizontalAngle := math.Atan2(config.Direction.Y, config.Direction.X) - math.Pi/2
	horizontal := core.NewDirection(math.Cos(horizontalAngle), math.Sin(horizontalAngle), 0)
	vertical := horizontal.Cross(config.Direction).Norm()

	topLeft := core.Origin().
		Add(config.Direction.Norm().Multiply(config.FocalLength)).
		Add(vertical.Multiply(0.5 * ViewportHeight)).
		SubtractDirection(horizontal.Multiply(0.5 * ViewportHeight * aspectRatio))

	return &Camera{
		origin:             config.Origin,
		direction:          config.Direction,
		aspectRatio:        aspectRatio,
		width:              width,
		height:             height,
		focalLength:        config.FocalLength,
		viewportTopLeft:    topLeft,
		viewportHorizontal: horizontal,
		viewportVertical:   vertical,
		sampler:            sampler,
	}
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// GetRay returns a ray through pixel (u, v) with a random sub-pixel offset.
// Both jitter values are drawn before the bounds check, so an out-of-range
// request still advances the sampler.
func (c *Camera) GetRay(u, v int) (core.Ray, error) {
	jitterU := c.sampler.Get1D()
	jitterV := c.sampler.Get1D()

	if u < 0 || v < 0 || u >= c.width || v >= c.height {
		return core.Ray{}, fmt.Errorf("%w: (%d, %d) in %dx%d image", ErrOutOfViewport, u, v, c.width, c.height)
	}

	target := c.viewportTarget(float64(u)+jitterU, float64(v)+jitterV)
	return core.NewRay(c.origin, target.Subtract(core.Origin()).Norm()), nil
}

// viewportTarget maps continuous pixel coordinates onto the viewport plane
func (c *Camera) viewportTarget(u, v float64) core.Location {
	return c.viewportTopLeft.
		Add(c.viewportHorizontal.Multiply(c.aspectRatio / float64(c.width) * u * ViewportHeight)).
		SubtractDirection(c.viewportVertical.Multiply(1.0 / float64(c.height) * v * ViewportHeight))
}
