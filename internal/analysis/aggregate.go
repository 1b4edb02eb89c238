package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/JoseGzz/car-accident-clusters/internal/cluster"
	"github.com/JoseGzz/car-accident-clusters/internal/geo"
	"github.com/JoseGzz/car-accident-clusters/internal/records"
)

// aggregate packages labelled points into the analyze output. Pure: it
// only reads its inputs.
func aggregate(snapshot []records.Record, filtered []int, points []geo.Point, labels []int, nClusters int) *Result {
	res := &Result{
		Points:   make([]PointResult, len(filtered)),
		Clusters: []ClusterSummary{},
		Stats: Stats{
			Total:     len(filtered),
			NClusters: nClusters,
		},
	}

	members := make([][]int, nClusters)
	for i, idx := range filtered {
		rec := snapshot[idx]
		res.Points[i] = PointResult{
			Lat:     rec.Latitude,
			Lng:     rec.Longitude,
			Cluster: labels[i],
		}
		if labels[i] == cluster.Noise {
			res.Stats.Noise++
			continue
		}
		members[labels[i]] = append(members[labels[i]], i)
	}

	for id, idxs := range members {
		res.Clusters = append(res.Clusters, summarise(id, idxs, res.Points, points))
	}

	return res
}

// summarise computes per-cluster statistics: the coordinate centroid and
// the 95th-percentile member distance from it.
func summarise(id int, idxs []int, pts []PointResult, geoPts []geo.Point) ClusterSummary {
	lats := make([]float64, len(idxs))
	lngs := make([]float64, len(idxs))
	for i, idx := range idxs {
		lats[i] = pts[idx].Lat
		lngs[i] = pts[idx].Lng
	}

	centLat := stat.Mean(lats, nil)
	centLng := stat.Mean(lngs, nil)
	centroid := geo.NewPoint(centLat, centLng)

	dists := make([]float64, len(idxs))
	for i, idx := range idxs {
		dists[i] = geo.DistanceMeters(centroid, geoPts[idx])
	}
	sort.Float64s(dists)

	return ClusterSummary{
		ID:              id,
		Size:            len(idxs),
		CentroidLat:     centLat,
		CentroidLng:     centLng,
		RadiusP95Meters: stat.Quantile(0.95, stat.Empirical, dists, nil),
	}
}
