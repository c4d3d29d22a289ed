package pixel

import "image"

// Point represents a 2D coordinate in screen space.
//
// Used for:
//   - The game origin and every probe derived from it
//   - Click targets
//   - Pointer save/restore around cleanup
type Point struct {
	X int
	Y int
}

// NewPoint creates a new Point
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by offset
func (p Point) Add(offset Point) Point {
	return Point{X: p.X + offset.X, Y: p.Y + offset.Y}
}

// Sub returns p translated by -offset
func (p Point) Sub(offset Point) Point {
	return Point{X: p.X - offset.X, Y: p.Y - offset.Y}
}

// ImagePoint converts to image.Point
func (p Point) ImagePoint() image.Point {
	return image.Point{X: p.X, Y: p.Y}
}

// Bounds represents a rectangular area
type Bounds struct {
	X int // Top-left X coordinate
	Y int // Top-left Y coordinate
	W int // Width
	H int // Height
}

// NewBounds creates a new Bounds
func NewBounds(x, y, w, h int) Bounds {
	return Bounds{X: x, Y: y, W: w, H: h}
}

// Min returns the top-left corner
func (b Bounds) Min() Point {
	return Point{X: b.X, Y: b.Y}
}

// Center returns the center point of the bounds
func (b Bounds) Center() Point {
	return Point{
		X: b.X + b.W/2,
		Y: b.Y + b.H/2,
	}
}

// Size returns the area of the bounds
func (b Bounds) Size() int {
	return b.W * b.H
}

// Empty reports whether the bounds cover no pixels
func (b Bounds) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// Contains checks if a point is within the bounds (half-open)
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X < b.X+b.W &&
		p.Y >= b.Y && p.Y < b.Y+b.H
}

// Offset returns the bounds translated by p
func (b Bounds) Offset(p Point) Bounds {
	return Bounds{X: b.X + p.X, Y: b.Y + p.Y, W: b.W, H: b.H}
}

// Rect converts to image.Rectangle
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// BoundsFromRect converts an image.Rectangle
func BoundsFromRect(r image.Rectangle) Bounds {
	return Bounds{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// BoundsOf returns the smallest bounds containing every point.
// An empty slice yields zero bounds.
func BoundsOf(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY

	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	return Bounds{
		X: minX,
		Y: minY,
		W: maxX - minX + 1,
		H: maxY - minY + 1,
	}
}
