package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/geometry"
	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
)

// ErrInvalidSceneFile is returned when a scene file cannot describe a renderable scene
var ErrInvalidSceneFile = errors.New("invalid scene file")

// SphereSpec describes one sphere in a scene file
type SphereSpec struct {
	Center core.Location `json:"center"`
	Radius float64       `json:"radius"`
}

// PlaneSpec describes one infinite plane in a scene file
type PlaneSpec struct {
	Point  core.Location  `json:"point"`
	Normal core.Direction `json:"normal"`
}

// SceneFile is the JSON representation of a scene. Camera and render settings
// are overrides on top of the defaults; omitted fields keep their default.
type SceneFile struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Camera      renderer.CameraConfig `json:"camera"`
	Render      renderer.RenderConfig `json:"render"`
	Shading     ShadingMode           `json:"shading"`
	Spheres     []SphereSpec          `json:"spheres"`
	Planes      []PlaneSpec           `json:"planes,omitempty"`
}

// Load reads a scene file and builds the scene it describes
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var file SceneFile
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSceneFile, path, err)
	}

	if file.Name == "" {
		file.Name = titleCase(trimExt(filepath.Base(path)))
	}

	s, err := file.Scene()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Scene validates the file and builds the scene it describes
func (f *SceneFile) Scene() (*Scene, error) {
	if len(f.Spheres) == 0 && len(f.Planes) == 0 {
		return nil, fmt.Errorf("%w: no objects", ErrInvalidSceneFile)
	}

	s := &Scene{
		Name:         f.Name,
		Description:  f.Description,
		CameraConfig: renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), f.Camera),
		RenderConfig: renderer.MergeRenderConfig(renderer.DefaultRenderConfig(), f.Render),
		Shading:      f.Shading,
	}

	for i, sphere := range f.Spheres {
		if !(sphere.Radius > 0) {
			return nil, fmt.Errorf("%w: sphere %d has radius %v", ErrInvalidSceneFile, i, sphere.Radius)
		}
		s.AddSphere(sphere.Center, sphere.Radius)
	}
	for i, plane := range f.Planes {
		if plane.Normal == (core.Direction{}) {
			return nil, fmt.Errorf("%w: plane %d has no normal", ErrInvalidSceneFile, i)
		}
		s.AddPlane(plane.Point, plane.Normal)
	}

	if err := s.RenderConfig.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSceneFile describes a scene as a file. Only spheres and planes can be written.
func NewSceneFile(s *Scene) (*SceneFile, error) {
	file := &SceneFile{
		Name:        s.Name,
		Description: s.Description,
		Camera:      s.CameraConfig,
		Render:      s.RenderConfig,
		Shading:     s.Shading,
	}
	for i, object := range s.Objects {
		switch o := object.(type) {
		case *geometry.Sphere:
			file.Spheres = append(file.Spheres, SphereSpec{Center: o.Origin, Radius: o.Radius})
		case *geometry.Plane:
			file.Planes = append(file.Planes, PlaneSpec{Point: o.Point, Normal: o.Normal})
		default:
			return nil, fmt.Errorf("%w: object %d is a %T", ErrInvalidSceneFile, i, object)
		}
	}
	return file, nil
}

// Save writes a scene file as indented JSON, creating parent directories
func Save(path string, file *SceneFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scene file: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create scene directory: %w", err)
		}
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
