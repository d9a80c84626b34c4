package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Origin core.Location
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(origin core.Location, radius float64) *Sphere {
	return &Sphere{
		Origin: origin,
		Radius: radius,
	}
}

// GetHits tests if a ray intersects with the sphere.
// The sphere is translated to the origin and the line-sphere equation solved
// in closed form, without normalizing the ray direction.
func (s *Sphere) GetHits(ray core.Ray) (Hit, bool) {
	// Ray origin relative to the sphere center
	oc := ray.Origin.Subtract(s.Origin)
	dir := ray.Direction

	b := -dir.Dot(oc)
	c := oc.LengthSquared() - s.Radius*s.Radius
	discriminant := b*b - c

	switch {
	case discriminant > 0:
		sqrtD := math.Sqrt(discriminant)
		near := s.hitAt(ray, oc, b-sqrtD)
		far := s.hitAt(ray, oc, b+sqrtD)
		return selectRoot(near, far)
	case discriminant < 0:
		return Hit{}, false
	default:
		// Tangent ray, single root
		if b > Epsilon {
			return s.hitAt(ray, oc, b), true
		}
		return Hit{}, false
	}
}

func (s *Sphere) hitAt(ray core.Ray, oc core.Direction, distance float64) Hit {
	return Hit{
		Distance: distance,
		Normal:   ray.Direction.Multiply(distance).Add(oc).Divide(s.Radius),
	}
}

// selectRoot picks the nearest of two roots beyond Epsilon
func selectRoot(h1, h2 Hit) (Hit, bool) {
	d1, d2 := h1.Distance, h2.Distance

	switch {
	case d1 > Epsilon && d2 <= Epsilon:
		return h1, true
	case d2 > Epsilon && d1 <= Epsilon:
		return h2, true
	case d1 <= Epsilon && d2 <= Epsilon:
		return Hit{}, false
	case d1 > d2:
		return h2, true
	case d1 < d2:
		return h1, true
	case d1 == d2:
		// Equal positive roots; same outcome as d1 < d2
		return h1, true
	default:
		panic(fmt.Sprintf("sphere: unable to order roots %+v and %+v", h1, h2))
	}
}
