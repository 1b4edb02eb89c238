// Package cluster implements density-based clustering (DBSCAN) over
// geographic points with a haversine metric.
package cluster

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/JoseGzz/car-accident-clusters/internal/geo"
)

const (
	// Noise is the label assigned to points that belong to no cluster.
	Noise = -1
	// unvisited marks points not yet reached by the scan. It never
	// appears in the returned labels.
	unvisited = -2
)

// Default clustering parameters.
const (
	// DefaultEpsilonMeters is the default neighbourhood radius.
	DefaultEpsilonMeters = 50.0
	// DefaultMinPoints is the default minimum neighbourhood size
	// (including the point itself) for a core point.
	DefaultMinPoints = 10
)

// Params are the DBSCAN tuning parameters.
type Params struct {
	EpsilonMeters float64 // neighbourhood radius in meters
	MinPoints     int     // minimum neighbourhood size for a core point
}

// DefaultParams returns the default clustering parameters.
func DefaultParams() Params {
	return Params{
		EpsilonMeters: DefaultEpsilonMeters,
		MinPoints:     DefaultMinPoints,
	}
}

// ParamError reports an invalid clustering or query parameter.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

// Validate checks the parameters before any computation happens. An
// epsilon of zero is valid: neighbourhoods degenerate to coincident
// coordinates.
func (p Params) Validate() error {
	if p.EpsilonMeters < 0 {
		return &ParamError{Param: "epsilon", Reason: fmt.Sprintf("must be >= 0, got %g", p.EpsilonMeters)}
	}
	if p.MinPoints < 1 {
		return &ParamError{Param: "minPoints", Reason: fmt.Sprintf("must be >= 1, got %d", p.MinPoints)}
	}
	return nil
}

// Clusterer runs DBSCAN with fixed parameters.
type Clusterer struct {
	params Params
}

// New creates a Clusterer, rejecting invalid parameters up front.
func New(params Params) (*Clusterer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Clusterer{params: params}, nil
}

// Params returns the clusterer's parameters.
func (c *Clusterer) Params() Params { return c.params }

// Cluster assigns every point a label: a cluster id starting at 0, or
// Noise. Labels are parallel to the input slice. The assignment is
// deterministic for a fixed input order: points are scanned in slice
// order and cluster ids increase monotonically in scan order.
func (c *Clusterer) Cluster(points []geo.Point) ([]int, int) {
	n := len(points)
	labels := make([]int, n)
	if n == 0 {
		return labels, 0
	}

	index := geo.NewIndex(points)
	epsRad := geo.EpsilonRadians(c.params.EpsilonMeters)

	// Neighbourhood queries are independent of each other, so compute
	// them up front in parallel. The expansion pass below mutates shared
	// label state and stays single-threaded.
	neighbors := precomputeNeighborhoods(index, points, epsRad)

	for i := range labels {
		labels[i] = unvisited
	}

	clusterID := 0
	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}

		if len(neighbors[i]) < c.params.MinPoints {
			// May still be reclaimed as a border point later.
			labels[i] = Noise
			continue
		}

		expandCluster(labels, neighbors, i, clusterID, c.params.MinPoints)
		clusterID++
	}

	return labels, clusterID
}

// expandCluster grows cluster id from the core point at seed using an
// explicit worklist. Each point enters the frontier at most once because
// visited points are skipped before their neighbours are appended.
func expandCluster(labels []int, neighbors [][]int32, seed, id, minPoints int) {
	labels[seed] = id

	frontier := append([]int32(nil), neighbors[seed]...)
	for j := 0; j < len(frontier); j++ {
		q := frontier[j]

		if labels[q] == Noise {
			labels[q] = id // border point
		}
		if labels[q] != unvisited {
			continue
		}

		labels[q] = id
		if len(neighbors[q]) >= minPoints {
			frontier = append(frontier, neighbors[q]...)
		}
	}
}

// precomputeNeighborhoods runs the epsilon radius query for every point,
// fanned out across the available CPUs. The result at i always contains
// i itself.
func precomputeNeighborhoods(index *geo.Index, points []geo.Point, epsRad float64) [][]int32 {
	n := len(points)
	neighbors := make([][]int32, n)

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				neighbors[i] = index.Search(points[i], epsRad)
			}
		}(lo, hi)
	}
	wg.Wait()

	return neighbors
}
