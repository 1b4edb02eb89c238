// Package analysis wires the analyze pipeline: date-window filtering,
// spatial indexing, density clustering and result aggregation.
package analysis

import (
	"github.com/JoseGzz/car-accident-clusters/internal/cluster"
	"github.com/JoseGzz/car-accident-clusters/internal/config"
	"github.com/JoseGzz/car-accident-clusters/internal/geo"
	"github.com/JoseGzz/car-accident-clusters/internal/records"
	"github.com/JoseGzz/car-accident-clusters/internal/timeutil"
)

// Request carries the analyze parameters. Absent fields fall back to
// configured defaults; dates are calendar dates in "YYYY-MM-DD" form.
type Request struct {
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Epsilon   *float64 `json:"epsilon,omitempty"`   // meters
	MinPoints *int     `json:"minPoints,omitempty"` // including the point itself
}

// PointResult is one analysed point with its cluster assignment.
// Cluster is a non-negative cluster id or -1 for noise.
type PointResult struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Cluster int     `json:"cluster"`
}

// Stats summarises an analysis run.
type Stats struct {
	Total     int `json:"total"`
	NClusters int `json:"n_clusters"`
	Noise     int `json:"noise"`
}

// ClusterSummary describes one detected cluster.
type ClusterSummary struct {
	ID          int     `json:"id"`
	Size        int     `json:"size"`
	CentroidLat float64 `json:"centroid_lat"`
	CentroidLng float64 `json:"centroid_lng"`
	// RadiusP95Meters is the 95th-percentile distance of member points
	// from the centroid.
	RadiusP95Meters float64 `json:"radius_p95_m"`
}

// Result is the complete analyze output.
type Result struct {
	Points   []PointResult    `json:"points"`
	Stats    Stats            `json:"stats"`
	Clusters []ClusterSummary `json:"clusters"`
}

// Analyzer runs analyses against a record store.
type Analyzer struct {
	store *records.Store
	cfg   *config.Analysis
	clock timeutil.Clock
}

// New creates an Analyzer. A nil clock defaults to the real clock.
func New(store *records.Store, cfg *config.Analysis, clock timeutil.Clock) *Analyzer {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Analyzer{store: store, cfg: cfg, clock: clock}
}

// Analyze validates the request, filters the current record snapshot to
// the date window, clusters the filtered points and aggregates the
// labelled output. Invalid parameters abort before any computation; an
// empty window is a valid result, not an error.
func (a *Analyzer) Analyze(req Request) (*Result, error) {
	params := cluster.Params{
		EpsilonMeters: a.cfg.GetDefaultEpsilonMeters(),
		MinPoints:     a.cfg.GetDefaultMinPoints(),
	}
	if req.Epsilon != nil {
		params.EpsilonMeters = *req.Epsilon
	}
	if req.MinPoints != nil {
		params.MinPoints = *req.MinPoints
	}

	clusterer, err := cluster.New(params)
	if err != nil {
		return nil, err
	}

	window, err := a.window(req)
	if err != nil {
		return nil, err
	}

	snapshot := a.store.Snapshot()
	filtered := records.FilterRange(snapshot, window.start, window.end)

	points := make([]geo.Point, len(filtered))
	for i, idx := range filtered {
		points[i] = geo.NewPoint(snapshot[idx].Latitude, snapshot[idx].Longitude)
	}

	labels, nClusters := clusterer.Cluster(points)

	return aggregate(snapshot, filtered, points, labels, nClusters), nil
}
