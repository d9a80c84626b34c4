package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/geometry"
)

const (
	// DefaultMaxDepth is the bounce limit used when none is configured
	DefaultMaxDepth = 50
	// Reflectance is the fraction of light kept at each diffuse bounce
	Reflectance = 0.5
)

// ErrUnknownShading is returned when parsing an unsupported shading mode name
var ErrUnknownShading = errors.New("unknown shading mode")

// ShadingMode selects how surface hits are colored
type ShadingMode int

const (
	// ShadingDiffuse bounces rays off surfaces until they escape to the sky
	ShadingDiffuse ShadingMode = iota
	// ShadingNormals colors each hit by its surface normal without bouncing
	ShadingNormals
)

// ParseShadingMode converts a mode name ("diffuse" or "normals") to a ShadingMode
func ParseShadingMode(name string) (ShadingMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "diffuse":
		return ShadingDiffuse, nil
	case "normals", "normal":
		return ShadingNormals, nil
	}
	return ShadingDiffuse, fmt.Errorf("%w: %q", ErrUnknownShading, name)
}

func (m ShadingMode) String() string {
	switch m {
	case ShadingDiffuse:
		return "diffuse"
	case ShadingNormals:
		return "normals"
	}
	return fmt.Sprintf("ShadingMode(%d)", int(m))
}

// MarshalText encodes the mode by name in scene files
func (m ShadingMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name
func (m *ShadingMode) UnmarshalText(text []byte) error {
	mode, err := ParseShadingMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// World holds the objects of a scene and computes the color seen along rays.
// A World is never modified after construction, so any number of goroutines
// may shade with it at once.
type World struct {
	objects  []geometry.Hittable
	maxDepth int
	shading  ShadingMode
}

// NewWorld creates a diffuse world with the default bounce limit
func NewWorld(objects ...geometry.Hittable) *World {
	return &World{
		objects:  append([]geometry.Hittable(nil), objects...),
		maxDepth: DefaultMaxDepth,
		shading:  ShadingDiffuse,
	}
}

// WithMaxDepth returns a copy of the world with a different bounce limit
func (w *World) WithMaxDepth(maxDepth int) *World {
	c := *w
	c.maxDepth = maxDepth
	return &c
}

// WithShading returns a copy of the world with a different shading mode
func (w *World) WithShading(mode ShadingMode) *World {
	c := *w
	c.shading = mode
	return &c
}

// MaxDepth returns the bounce limit
func (w *World) MaxDepth() int { return w.maxDepth }

// Shading returns the shading mode
func (w *World) Shading() ShadingMode { return w.shading }

// Len returns the number of objects in the world
func (w *World) Len() int { return len(w.objects) }

// GetHit returns the closest hit among all objects
func (w *World) GetHit(ray core.Ray) (geometry.Hit, bool) {
	var closest geometry.Hit
	found := false
	for _, object := range w.objects {
		hit, ok := object.GetHits(ray)
		if ok && (!found || hit.Distance < closest.Distance) {
			closest = hit
			found = true
		}
	}
	return closest, found
}

// GetRayColor follows a ray through up to maxDepth-depth diffuse bounces.
// Each bounce scales the remaining contribution by Reflectance; a ray that
// is still bouncing at the limit contributes black.
func (w *World) GetRayColor(ray core.Ray, depth int, sampler core.Sampler) core.Color {
	attenuation := 1.0

	for ; depth < w.maxDepth; depth++ {
		hit, ok := w.GetHit(ray)
		if !ok {
			return Background(ray).Multiply(attenuation)
		}

		if w.shading == ShadingNormals {
			return NormalColor(hit.Normal).Multiply(attenuation)
		}

		bounce := hit.Normal.Add(core.RandomInUnitSphere(sampler)).Norm()
		ray = core.NewRay(ray.At(hit.Distance), bounce)
		attenuation *= Reflectance
	}

	return core.Black()
}

// Background returns the sky gradient: white looking straight down, sky blue
// looking straight up.
func Background(ray core.Ray) core.Color {
	t := ray.Direction.Norm().Z/2 + 0.5
	return core.White().Multiply(1 - t).Add(core.SkyBlue().Multiply(t))
}

// NormalColor maps a unit normal to a color for debugging renders
func NormalColor(normal core.Direction) core.Color {
	return core.NewColor(-normal.Y/2+0.5, normal.Z/2+0.5, -normal.X/2+0.5)
}
