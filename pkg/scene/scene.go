package scene

import (
	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/geometry"
	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Description  string
	Objects      []geometry.Hittable // Objects in the scene
	CameraConfig renderer.CameraConfig
	RenderConfig renderer.RenderConfig
	Shading      ShadingMode
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Location, radius float64) {
	s.Objects = append(s.Objects, geometry.NewSphere(center, radius))
}

// AddPlane adds an infinite plane to the scene
func (s *Scene) AddPlane(point core.Location, normal core.Direction) {
	s.Objects = append(s.Objects, geometry.NewPlane(point, normal))
}

// World builds the shared read-only world for this scene
func (s *Scene) World() *World {
	return NewWorld(s.Objects...).
		WithMaxDepth(s.RenderConfig.MaxDepth).
		WithShading(s.Shading)
}

// NewCamera creates a camera sized to the scene's image
func (s *Scene) NewCamera(sampler core.Sampler) *renderer.Camera {
	return renderer.NewCamera(s.CameraConfig, s.RenderConfig.Width, s.RenderConfig.Height, sampler)
}

// NewRaytracer wires the scene's world and camera into a raytracer.
// The camera sampler is seeded from the render seed, so ray jitter repeats between
// runs. Bounce sampling does not: workers pick up pixels in scheduling order.
func (s *Scene) NewRaytracer() *renderer.Raytracer {
	camera := s.NewCamera(core.NewSeededSampler(s.RenderConfig.Seed))
	return renderer.NewRaytracer(s.World(), camera, s.RenderConfig)
}

// GetPrimitiveCount returns the number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Objects)
}
