package records

import (
	"database/sql"
	"fmt"
	"time"

	// SQL backends. The sqlite driver registers as "sqlite", the pgx
	// stdlib adapter as "pgx"; -db-driver selects between them.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const accidentsSchema = `
	CREATE TABLE IF NOT EXISTS accidents (
		id         INTEGER PRIMARY KEY,
		latitude   DOUBLE PRECISION NOT NULL,
		longitude  DOUBLE PRECISION NOT NULL,
		date       TIMESTAMP NOT NULL
	);`

// NewFromSQL creates a store backed by an accidents table in sqlite or
// postgres. Records are loaded into memory up front and re-read on
// Reload; insertion order (id) defines the store order.
func NewFromSQL(driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if _, err := db.Exec(accidentsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure accidents schema: %w", err)
	}

	source := fmt.Sprintf("%s:%s", driver, dsn)
	return NewStore(source, func() ([]Record, error) {
		return queryRecords(db)
	})
}

func queryRecords(db *sql.DB) ([]Record, error) {
	rows, err := db.Query(`SELECT latitude, longitude, date FROM accidents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accidents: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		var raw interface{}
		if err := rows.Scan(&rec.Latitude, &rec.Longitude, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan accident row: %w", err)
		}
		if rec.Date, err = coerceTime(raw); err != nil {
			return nil, err
		}
		if err := rec.validate(); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accident rows: %w", err)
	}
	return recs, nil
}

// coerceTime handles the timestamp representations the two drivers
// produce: pgx scans TIMESTAMP as time.Time, sqlite may hand back the
// stored text or an integer unix epoch.
func coerceTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return ParseTimestamp(t)
	case []byte:
		return ParseTimestamp(string(t))
	case int64:
		return time.Unix(t, 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %T in accidents table", v)
	}
}
