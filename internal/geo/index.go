package geo

// leafSize is the subrange length below which the tree stops splitting
// and queries fall back to a linear scan.
const leafSize = 16

// Index answers radius queries over a fixed set of points using a k-d
// tree on the points' unit-sphere direction vectors. Queries prune with
// the chord-distance bound and verify candidates with the haversine
// distance, so results are exact (no false negatives or positives).
//
// An Index is immutable after construction and safe for concurrent
// queries.
type Index struct {
	points []Point
	// order holds indices into points, arranged so that every tree node's
	// subrange is partitioned around its median element on the node's axis.
	order []int32
}

// NewIndex builds an index over points in O(N log N). The points slice
// is retained and must not be mutated while the index is in use.
func NewIndex(points []Point) *Index {
	ix := &Index{
		points: points,
		order:  make([]int32, len(points)),
	}
	for i := range ix.order {
		ix.order[i] = int32(i)
	}
	ix.build(0, len(ix.order), 0)
	return ix
}

// build recursively partitions order[lo:hi] around the median on the
// axis for this depth. Depth cycles through the x, y, z components.
func (ix *Index) build(lo, hi, depth int) {
	if hi-lo <= leafSize {
		return
	}
	mid := (lo + hi) / 2
	ix.nthElement(lo, hi, mid, depth%3)
	ix.build(lo, mid, depth+1)
	ix.build(mid+1, hi, depth+1)
}

// nthElement partially sorts order[lo:hi] so that the element at position
// n is the one that would be there in a full sort by the given axis
// (quickselect with median-of-three pivots).
func (ix *Index) nthElement(lo, hi, n, axis int) {
	for hi-lo > 1 {
		pivot := ix.coord(ix.order[medianOfThree(ix, lo, hi, axis)], axis)
		i, j := lo, hi-1
		for i <= j {
			for ix.coord(ix.order[i], axis) < pivot {
				i++
			}
			for ix.coord(ix.order[j], axis) > pivot {
				j--
			}
			if i <= j {
				ix.order[i], ix.order[j] = ix.order[j], ix.order[i]
				i++
				j--
			}
		}
		if n <= j {
			hi = j + 1
		} else if n >= i {
			lo = i
		} else {
			return
		}
	}
}

func medianOfThree(ix *Index, lo, hi, axis int) int {
	mid := (lo + hi) / 2
	last := hi - 1
	a, b, c := ix.coord(ix.order[lo], axis), ix.coord(ix.order[mid], axis), ix.coord(ix.order[last], axis)
	if a < b {
		switch {
		case b < c:
			return mid
		case a < c:
			return last
		}
		return lo
	}
	switch {
	case a < c:
		return lo
	case b < c:
		return last
	}
	return mid
}

func (ix *Index) coord(i int32, axis int) float64 {
	p := &ix.points[i]
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	}
	return p.Z
}

// Search returns the indices of all points whose haversine distance to
// the query point is at most epsRadians, including the query point
// itself when it is in the indexed set. Average cost is O(log N + k).
func (ix *Index) Search(q Point, epsRadians float64) []int32 {
	if len(ix.points) == 0 || epsRadians < 0 {
		return nil
	}
	chord := chordLength(epsRadians)
	var out []int32
	ix.search(q, epsRadians, chord, 0, len(ix.order), 0, &out)
	return out
}

func (ix *Index) search(q Point, epsRad, chord float64, lo, hi, depth int, out *[]int32) {
	if hi-lo <= leafSize {
		for _, i := range ix.order[lo:hi] {
			if Haversine(q, ix.points[i]) <= epsRad {
				*out = append(*out, i)
			}
		}
		return
	}

	mid := (lo + hi) / 2
	axis := depth % 3
	m := ix.order[mid]
	if Haversine(q, ix.points[m]) <= epsRad {
		*out = append(*out, m)
	}

	// The splitting plane is axis-aligned in chord space: a subtree can
	// only contain matches if the plane is within the chord radius.
	var qc float64
	switch axis {
	case 0:
		qc = q.X
	case 1:
		qc = q.Y
	default:
		qc = q.Z
	}
	diff := qc - ix.coord(m, axis)
	if diff <= chord {
		ix.search(q, epsRad, chord, lo, mid, depth+1, out)
	}
	if -diff <= chord {
		ix.search(q, epsRad, chord, mid+1, hi, depth+1, out)
	}
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return len(ix.points) }

// SearchBrute is a reference linear-scan radius search used by tests to
// validate Search results.
func (ix *Index) SearchBrute(q Point, epsRadians float64) []int32 {
	var out []int32
	for i := range ix.points {
		if Haversine(q, ix.points[i]) <= epsRadians {
			out = append(out, int32(i))
		}
	}
	return out
}
