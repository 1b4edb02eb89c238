package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Accepted timestamp layouts, tried in order. The generator writes
// "2006-01-02 15:04:05"; plain dates and RFC 3339 are accepted for
// hand-edited files.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ReadCSV parses accident records from CSV input. The first row must be
// a header naming at least the latitude, longitude and date columns (in
// any order). Rows that fail to parse abort the load with the row number
// in the error.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	latCol, lngCol, dateCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "latitude", "lat":
			latCol = i
		case "longitude", "lng", "lon":
			lngCol = i
		case "date", "timestamp":
			dateCol = i
		}
	}
	if latCol < 0 || lngCol < 0 || dateCol < 0 {
		return nil, fmt.Errorf("CSV header must name latitude, longitude and date columns, got %v", header)
	}

	var recs []Record
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		rec, err := parseRow(fields, latCol, lngCol, dateCol)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

func parseRow(fields []string, latCol, lngCol, dateCol int) (Record, error) {
	var rec Record
	var err error

	if rec.Latitude, err = strconv.ParseFloat(fields[latCol], 64); err != nil {
		return rec, fmt.Errorf("failed to parse latitude: %w", err)
	}
	if rec.Longitude, err = strconv.ParseFloat(fields[lngCol], 64); err != nil {
		return rec, fmt.Errorf("failed to parse longitude: %w", err)
	}
	if rec.Date, err = ParseTimestamp(fields[dateCol]); err != nil {
		return rec, err
	}
	if err := rec.validate(); err != nil {
		return rec, err
	}
	return rec, nil
}

// ParseTimestamp parses a timestamp in any of the accepted layouts.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
