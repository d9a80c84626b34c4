package geometry

import (
	"math"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point  core.Location  // A point on the plane
	Normal core.Direction // Unit normal
}

// NewPlane creates a new plane. The normal is normalized.
func NewPlane(point core.Location, normal core.Direction) *Plane {
	return &Plane{
		Point:  point,
		Normal: normal.Norm(),
	}
}

// GetHits returns the intersection with the plane if it lies more than
// Epsilon along the ray. The normal faces the side the ray came from.
func (p *Plane) GetHits(ray core.Ray) (Hit, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Parallel rays never hit
	if math.Abs(denominator) < 1e-8 {
		return Hit{}, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !(t > Epsilon) {
		return Hit{}, false
	}

	normal := p.Normal
	if denominator > 0 {
		normal = normal.Invert()
	}
	return Hit{Distance: t, Normal: normal}, true
}
