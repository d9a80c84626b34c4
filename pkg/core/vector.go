package core

import "math"

// Direction represents a free vector in world space
type Direction struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewDirection creates a new Direction
func NewDirection(x, y, z float64) Direction {
	return Direction{X: x, Y: y, Z: z}
}

// Add returns the sum of two directions
func (d Direction) Add(other Direction) Direction {
	return Direction{d.X + other.X, d.Y + other.Y, d.Z + other.Z}
}

// Subtract returns the difference of two directions
func (d Direction) Subtract(other Direction) Direction {
	return Direction{d.X - other.X, d.Y - other.Y, d.Z - other.Z}
}

// Multiply returns the direction scaled by a scalar
func (d Direction) Multiply(scalar float64) Direction {
	return Direction{d.X * scalar, d.Y * scalar, d.Z * scalar}
}

// Divide returns the direction divided by a scalar.
// Division by zero yields infinite or NaN components.
func (d Direction) Divide(scalar float64) Direction {
	return Direction{d.X / scalar, d.Y / scalar, d.Z / scalar}
}

// Dot returns the dot product of two directions
func (d Direction) Dot(other Direction) float64 {
	return d.X*other.X + d.Y*other.Y + d.Z*other.Z
}

// Cross returns the right-handed cross product of two directions
func (d Direction) Cross(other Direction) Direction {
	return Direction{
		X: d.Y*other.Z - d.Z*other.Y,
		Y: d.Z*other.X - d.X*other.Z,
		Z: d.X*other.Y - d.Y*other.X,
	}
}

// Length returns the magnitude of the direction
func (d Direction) Length() float64 {
	return math.Sqrt(d.LengthSquared())
}

// LengthSquared returns the squared magnitude of the direction
func (d Direction) LengthSquared() float64 {
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// Norm returns a unit vector in the same direction.
// A zero-length direction produces NaN components.
func (d Direction) Norm() Direction {
	return d.Divide(d.Length())
}

// Invert returns the direction with all components negated
func (d Direction) Invert() Direction {
	return d.Multiply(-1)
}

// Location represents a point in world space
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewLocation creates a new Location
func NewLocation(x, y, z float64) Location {
	return Location{X: x, Y: y, Z: z}
}

// Origin returns the world origin (0, 0, 0)
func Origin() Location {
	return Location{}
}

// Subtract returns the direction pointing from other to l
func (l Location) Subtract(other Location) Direction {
	return Direction{l.X - other.X, l.Y - other.Y, l.Z - other.Z}
}

// Add moves the location along a direction
func (l Location) Add(d Direction) Location {
	return Location{l.X + d.X, l.Y + d.Y, l.Z + d.Z}
}

// SubtractDirection moves the location against a direction
func (l Location) SubtractDirection(d Direction) Location {
	return Location{l.X - d.X, l.Y - d.Y, l.Z - d.Z}
}

// Color represents a linear RGB color. Components are not clamped.
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Black returns (0, 0, 0)
func Black() Color { return Color{} }

// White returns (1, 1, 1)
func White() Color { return Color{1, 1, 1} }

// SkyBlue returns the zenith color of the background gradient
func SkyBlue() Color { return Color{0.5, 0.7, 1.0} }

// Add returns the sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Subtract returns the difference of two colors
func (c Color) Subtract(other Color) Color {
	return Color{c.R - other.R, c.G - other.G, c.B - other.B}
}

// Multiply returns the color scaled by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// Divide returns the color divided by a scalar
func (c Color) Divide(scalar float64) Color {
	return Color{c.R / scalar, c.G / scalar, c.B / scalar}
}

// Ray represents a half-line origin + direction*t.
// The direction is not normalized on construction.
type Ray struct {
	Origin    Location
	Direction Direction
}

// NewRay creates a new ray
func NewRay(origin Location, direction Direction) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Location {
	return r.Origin.Add(r.Direction.Multiply(t))
}
