package geometry

import "github.com/df07/go-diffuse-raytracer/pkg/core"

// Epsilon is the minimum ray parameter accepted as a hit. It suppresses
// self-intersection at the origin of a bounced ray.
const Epsilon = 0.001

// Hit contains information about the nearest valid ray-object intersection
type Hit struct {
	Distance float64        // Ray parameter t of the surface point
	Normal   core.Direction // Outward unit normal at the surface point
}

// Hittable is implemented by every primitive that can be placed in a world
type Hittable interface {
	// GetHits returns the nearest hit with Distance > Epsilon, if any
	GetHits(ray core.Ray) (Hit, bool)
}
