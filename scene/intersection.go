package scene

import "sort"

// A ray/shape intersection. Object is the index of the shape in the world
// that produced it.
type Intersection struct {
	T      float64
	Object int
}

// A list of intersections sorted by ascending T. Entries behind the ray
// origin are kept since refraction bookkeeping needs them.
type Intersections []Intersection

// Create a sorted intersection list. Entries with equal T keep their
// relative order.
func NewIntersections(xs ...Intersection) Intersections {
	out := make(Intersections, len(xs))
	copy(out, xs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out
}

// Get the visible hit: the entry with the smallest non-negative T.
func (xs Intersections) Hit() (Intersection, bool) {
	index := xs.HitIndex()
	if index < 0 {
		return Intersection{}, false
	}
	return xs[index], true
}

// Get the index of the visible hit or -1 if there is none.
func (xs Intersections) HitIndex() int {
	for i, x := range xs {
		if x.T >= 0 {
			return i
		}
	}
	return -1
}
