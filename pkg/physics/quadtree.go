// pkg/physics/quadtree.go
package physics

// Body is the minimal view of a circular rigid body the spatial index
// needs: a stable identity and the circle's extent.
type Body interface {
	ID() uint64
	GetPosition() Vector2D
	GetRadius() float64
}

// Rect represents an axis-aligned rectangular area anchored at its
// top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.X && point.X < r.X+r.Width &&
		point.Y >= r.Y && point.Y < r.Y+r.Height
}

// ContainsRect reports whether other fits wholly inside the rectangle.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.X+other.Width <= r.X+r.Width &&
		other.Y >= r.Y && other.Y+other.Height <= r.Y+r.Height
}

// Intersects is the standard AABB overlap test.
func (r Rect) Intersects(other Rect) bool {
	return !(other.X > r.X+r.Width ||
		other.X+other.Width < r.X ||
		other.Y > r.Y+r.Height ||
		other.Y+other.Height < r.Y)
}

// BodyBounds returns the bounding square of a body's circle,
// position ± radius on each axis.
func BodyBounds(b Body) Rect {
	pos := b.GetPosition()
	r := b.GetRadius()
	return Rect{
		X:      pos.X - r,
		Y:      pos.Y - r,
		Width:  r * 2,
		Height: r * 2,
	}
}

// Quadtree is a covering spatial index over axis-aligned bounds. It is
// not a strict partition: a body straddling a split boundary is inserted
// into every child it overlaps, so queries may return the same body more
// than once and callers must deduplicate. The tree is rebuilt from
// scratch each tick; no node survives across ticks.
type Quadtree struct {
	Bounds   Rect
	Capacity int
	MaxDepth int
	Depth    int
	Objects  []Body
	Divided  bool

	NorthWest *Quadtree
	NorthEast *Quadtree
	SouthWest *Quadtree
	SouthEast *Quadtree
}

// NewQuadtree creates a root node over the given bounds. Capacity is the
// number of bodies a leaf holds before splitting; maxDepth bounds
// recursion, with bodies force-retained in nodes at the cap.
func NewQuadtree(bounds Rect, capacity, maxDepth int) *Quadtree {
	return &Quadtree{
		Bounds:   bounds,
		Capacity: capacity,
		MaxDepth: maxDepth,
		Objects:  make([]Body, 0, capacity),
	}
}

func newChild(bounds Rect, parent *Quadtree) *Quadtree {
	return &Quadtree{
		Bounds:   bounds,
		Capacity: parent.Capacity,
		MaxDepth: parent.MaxDepth,
		Depth:    parent.Depth + 1,
		Objects:  make([]Body, 0, parent.Capacity),
	}
}

// Insert adds a body to the subtree. It returns false without mutation
// when the body's AABB does not intersect this node's bounds. A leaf
// with room, or any node at MaxDepth, retains the body directly;
// otherwise the node subdivides and the body goes into every child its
// AABB overlaps.
func (qt *Quadtree) Insert(body Body) bool {
	bounds := BodyBounds(body)
	if !qt.Bounds.Intersects(bounds) {
		return false
	}

	if (!qt.Divided && len(qt.Objects) < qt.Capacity) || qt.Depth >= qt.MaxDepth {
		qt.Objects = append(qt.Objects, body)
		return true
	}

	if !qt.Divided {
		qt.Subdivide()
	}

	inserted := qt.NorthWest.Insert(body)
	inserted = qt.NorthEast.Insert(body) || inserted
	inserted = qt.SouthWest.Insert(body) || inserted
	inserted = qt.SouthEast.Insert(body) || inserted
	return inserted
}

// Subdivide splits the node into four equal quadrants at depth+1 and
// redistributes the held bodies into them. Calling it on an already
// divided node is a programming error.
func (qt *Quadtree) Subdivide() {
	if qt.Divided {
		panic("physics: quadtree node already subdivided")
	}

	x := qt.Bounds.X
	y := qt.Bounds.Y
	w := qt.Bounds.Width / 2
	h := qt.Bounds.Height / 2

	qt.NorthWest = newChild(Rect{X: x, Y: y, Width: w, Height: h}, qt)
	qt.NorthEast = newChild(Rect{X: x + w, Y: y, Width: w, Height: h}, qt)
	qt.SouthWest = newChild(Rect{X: x, Y: y + h, Width: w, Height: h}, qt)
	qt.SouthEast = newChild(Rect{X: x + w, Y: y + h, Width: w, Height: h}, qt)
	qt.Divided = true

	for _, obj := range qt.Objects {
		qt.NorthWest.Insert(obj)
		qt.NorthEast.Insert(obj)
		qt.SouthWest.Insert(obj)
		qt.SouthEast.Insert(obj)
	}
	qt.Objects = qt.Objects[:0]
}

// Query appends to found every stored body, excluding the probe itself,
// held by a node whose bounds intersect the probe's AABB. Duplicates are
// possible for bodies inserted into multiple children; deduplication is
// the caller's concern.
func (qt *Quadtree) Query(body Body, found []Body) []Body {
	if !qt.Bounds.Intersects(BodyBounds(body)) {
		return found
	}

	for _, obj := range qt.Objects {
		if obj.ID() != body.ID() {
			found = append(found, obj)
		}
	}

	if !qt.Divided {
		return found
	}

	found = qt.NorthWest.Query(body, found)
	found = qt.NorthEast.Query(body, found)
	found = qt.SouthWest.Query(body, found)
	found = qt.SouthEast.Query(body, found)
	return found
}

// Clear recursively empties the subtree and resets this node to a fresh
// leaf.
func (qt *Quadtree) Clear() {
	qt.Objects = qt.Objects[:0]
	qt.Divided = false
	qt.NorthWest = nil
	qt.NorthEast = nil
	qt.SouthWest = nil
	qt.SouthEast = nil
}
