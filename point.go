package termgrid

import "fmt"

// Point is a grid coordinate: X is the column, Y the absolute row in the scroll-back buffer.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InvalidPoint is returned by queries that resolve to no cell.
var InvalidPoint = Point{X: -1, Y: -1}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// IsValid returns true if both coordinates are non-negative.
func (p Point) IsValid() bool {
	return p.X >= 0 && p.Y >= 0
}

// Compare orders points row-major: -1 if p is before q, 1 if after, 0 if equal.
func (p Point) Compare(q Point) int {
	switch {
	case p.Y < q.Y:
		return -1
	case p.Y > q.Y:
		return 1
	case p.X < q.X:
		return -1
	case p.X > q.X:
		return 1
	}
	return 0
}

// Less returns true if p comes before q.
func (p Point) Less(q Point) bool {
	return p.Compare(q) < 0
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Range is a half-open span [Begin, End) of points. Begin never comes after End.
type Range struct {
	Begin Point `json:"begin"`
	End   Point `json:"end"`
}

// EmptyRange covers no points.
var EmptyRange = Range{Begin: InvalidPoint, End: InvalidPoint}

// NewRange returns the range between a and b, swapping them if needed.
func NewRange(a, b Point) Range {
	if b.Less(a) {
		a, b = b, a
	}
	return Range{Begin: a, End: b}
}

// IsEmpty returns true if the range covers no points.
func (r Range) IsEmpty() bool {
	return !r.Begin.IsValid() || r.Begin == r.End
}

// Contains returns true if p >= Begin and p < End.
func (r Range) Contains(p Point) bool {
	if r.IsEmpty() {
		return false
	}
	return p.Compare(r.Begin) >= 0 && p.Less(r.End)
}

// Touches returns true if the ranges overlap or are adjacent.
func (r Range) Touches(o Range) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.Begin.Compare(o.End) <= 0 && o.Begin.Compare(r.End) <= 0
}

// Intersects returns true if the ranges share at least one point.
func (r Range) Intersects(o Range) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.Begin.Less(o.End) && o.Begin.Less(r.End)
}

// Union returns the smallest range covering both r and o.
func (r Range) Union(o Range) Range {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	begin, end := r.Begin, r.End
	if o.Begin.Less(begin) {
		begin = o.Begin
	}
	if end.Less(o.End) {
		end = o.End
	}
	return Range{Begin: begin, End: end}
}

func (r Range) String() string {
	return fmt.Sprintf("[%s,%s)", r.Begin, r.End)
}
