package analysis

import (
	"fmt"
	"time"

	"github.com/JoseGzz/car-accident-clusters/internal/cluster"
)

// dateOnly is the calendar-date request format.
const dateOnly = "2006-01-02"

type dateWindow struct {
	start, end time.Time
}

// window resolves the request's date bounds. If either bound is absent
// the whole configured default year is used. An end date supplied as a
// calendar date is inclusive through 23:59:59 of that day. A start
// after the end is allowed and simply matches nothing.
func (a *Analyzer) window(req Request) (dateWindow, error) {
	if req.StartDate == "" || req.EndDate == "" {
		year := a.cfg.GetDefaultYear()
		if year == 0 {
			year = a.clock.Now().Year()
		}
		return dateWindow{
			start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
		}, nil
	}

	start, err := parseBound("startDate", req.StartDate, false)
	if err != nil {
		return dateWindow{}, err
	}
	end, err := parseBound("endDate", req.EndDate, true)
	if err != nil {
		return dateWindow{}, err
	}
	return dateWindow{start: start, end: end}, nil
}

// parseBound parses one date bound. Calendar dates snap to midnight, or
// to the last second of the day for the end bound so the whole end day
// is kept in the window.
func parseBound(param, value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(dateOnly, value); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Second)
		}
		return t, nil
	}
	// Full timestamps are taken as-is.
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return t, nil
	}
	return time.Time{}, &cluster.ParamError{
		Param:  param,
		Reason: fmt.Sprintf("unrecognised date %q, want YYYY-MM-DD", value),
	}
}
