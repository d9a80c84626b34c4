package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned for scene names that are not built in
var ErrUnknownScene = errors.New("unknown scene")

type builtinScene struct {
	name        string
	description string
	create      func(cameraOverrides ...renderer.CameraConfig) *Scene
}

var builtinScenes = []builtinScene{
	{"default", "Small sphere resting on a large ground sphere", NewDefaultScene},
	{"spheregrid", "Grid of small spheres on a large ground sphere", NewSphereGridScene},
}

// BuiltinScenes returns the names of the built-in scenes
func BuiltinScenes() []string {
	names := make([]string, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		names = append(names, b.name)
	}
	return names
}

// Create returns a new instance of the named built-in scene
func Create(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.name == name {
			return b.create(cameraOverrides...), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// NewDefaultScene creates the sample world: a small sphere sitting on a huge
// ground sphere, seen from the origin along +X.
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.DefaultCameraConfig()
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	renderConfig := renderer.DefaultRenderConfig()
	renderConfig.SamplesPerPixel = 1000

	s := &Scene{
		Name:         "default",
		Description:  "Small sphere resting on a large ground sphere",
		CameraConfig: cameraConfig,
		RenderConfig: renderConfig,
		Shading:      ShadingDiffuse,
	}

	s.AddSphere(core.NewLocation(1, 0, 0), 0.5)
	s.AddSphere(core.NewLocation(1, 0, -100.5), 100)

	return s
}

// NewSphereGridScene creates a gridSize x gridSize grid of small spheres on
// the ground sphere, viewed from behind and slightly above.
func NewSphereGridScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := renderer.CameraConfig{
		Origin:      core.NewLocation(-2, 0, 0.6),
		Direction:   core.NewDirection(1, 0, -0.25),
		FocalLength: 1.0,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	renderConfig := renderer.DefaultRenderConfig()
	renderConfig.SamplesPerPixel = 200

	s := &Scene{
		Name:         "spheregrid",
		Description:  "Grid of small spheres on a large ground sphere",
		CameraConfig: cameraConfig,
		RenderConfig: renderConfig,
		Shading:      ShadingDiffuse,
	}

	s.AddSphere(core.NewLocation(1, 0, -100.5), 100)

	const gridSize = 5
	const spacing = 0.6
	const radius = 0.2

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := 1 + float64(i)*spacing
			y := (float64(j) - float64(gridSize-1)/2) * spacing
			s.AddSphere(core.NewLocation(x, y, -0.5+radius), radius)
		}
	}

	return s
}
