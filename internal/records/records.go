// Package records holds the in-memory accident record store and its
// loaders. The store exposes immutable snapshots: a reload swaps the
// whole record slice at once so in-flight analyses never observe a
// half-updated dataset.
package records

import (
	"fmt"
	"time"
)

// Record is a single geotagged, timestamped accident report. Records are
// immutable after load.
type Record struct {
	Latitude  float64
	Longitude float64
	Date      time.Time
}

// validate checks coordinate ranges. Timestamps are whatever the source
// produced; the date filter handles ordering.
func (r Record) validate() error {
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("latitude %g out of range [-90, 90]", r.Latitude)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("longitude %g out of range [-180, 180]", r.Longitude)
	}
	return nil
}

// FilterRange returns the indices of records whose date falls within the
// inclusive [start, end] window, preserving the original record order.
// A degenerate window (start after end) yields an empty set rather than
// an error: it means "no matching data".
func FilterRange(recs []Record, start, end time.Time) []int {
	if start.After(end) {
		return nil
	}
	var out []int
	for i, r := range recs {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, i)
	}
	return out
}
