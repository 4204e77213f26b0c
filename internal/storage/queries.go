package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pable/cs-logstats/internal/model"
)

// LogExists returns true if a log with the given hash is already stored.
func (db *DB) LogExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM logs WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertLog stores a raw log with its metadata. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertLog(summary model.LogSummary, raw string) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO logs(hash, source, map_name, rounds, score, size, imported_at, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.Hash, summary.Source, summary.MapName, summary.Rounds, summary.Score,
		summary.Size, summary.ImportedAt.Unix(), raw,
	)
	return err
}

// ListLogs returns all stored log summaries, newest import first.
func (db *DB) ListLogs() ([]model.LogSummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, source, map_name, rounds, score, size, imported_at
		FROM logs ORDER BY imported_at DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LogSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetLogByPrefix finds the first log whose hash starts with the given prefix.
// Returns (nil, "", nil) when nothing matches.
func (db *DB) GetLogByPrefix(prefix string) (*model.LogSummary, string, error) {
	row := db.conn.QueryRow(`
		SELECT hash, source, map_name, rounds, score, size, imported_at, raw
		FROM logs WHERE hash LIKE ? ORDER BY hash LIMIT 1`, prefix+"%")

	var (
		s        model.LogSummary
		imported int64
		raw      string
	)
	err := row.Scan(&s.Hash, &s.Source, &s.MapName, &s.Rounds, &s.Score, &s.Size, &imported, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	s.ImportedAt = time.Unix(imported, 0)
	return &s, raw, nil
}

// DeleteLog removes a stored log. Reports whether a row was deleted.
func (db *DB) DeleteLog(hash string) (bool, error) {
	res, err := db.conn.Exec("DELETE FROM logs WHERE hash = ?", hash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanSummary(rows *sql.Rows) (model.LogSummary, error) {
	var (
		s        model.LogSummary
		imported int64
	)
	if err := rows.Scan(&s.Hash, &s.Source, &s.MapName, &s.Rounds, &s.Score, &s.Size, &imported); err != nil {
		return model.LogSummary{}, err
	}
	s.ImportedAt = time.Unix(imported, 0)
	return s, nil
}

// GetAllRawLogs returns every stored log with its raw text, newest import first.
func (db *DB) GetAllRawLogs() ([]model.LogSummary, []string, error) {
	rows, err := db.conn.Query(`
		SELECT hash, source, map_name, rounds, score, size, imported_at, raw
		FROM logs ORDER BY imported_at DESC, hash`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var (
		summaries []model.LogSummary
		raws      []string
	)
	for rows.Next() {
		var (
			s        model.LogSummary
			imported int64
			raw      string
		)
		if err := rows.Scan(&s.Hash, &s.Source, &s.MapName, &s.Rounds, &s.Score, &s.Size, &imported, &raw); err != nil {
			return nil, nil, err
		}
		s.ImportedAt = time.Unix(imported, 0)
		summaries = append(summaries, s)
		raws = append(raws, raw)
	}
	return summaries, raws, rows.Err()
}

// GetLibraryOverview returns totals across the whole library.
func (db *DB) GetLibraryOverview() (model.LibraryOverview, error) {
	var (
		ov               model.LibraryOverview
		earliest, latest sql.NullInt64
	)
	err := db.conn.QueryRow(`
		SELECT COUNT(1), COALESCE(SUM(rounds), 0), COALESCE(SUM(size), 0),
		       COUNT(DISTINCT NULLIF(map_name, '')), MIN(imported_at), MAX(imported_at)
		FROM logs`).Scan(&ov.TotalLogs, &ov.TotalRounds, &ov.TotalSize, &ov.UniqueMaps, &earliest, &latest)
	if err != nil {
		return model.LibraryOverview{}, err
	}
	if earliest.Valid {
		ov.EarliestImport = time.Unix(earliest.Int64, 0)
	}
	if latest.Valid {
		ov.LatestImport = time.Unix(latest.Int64, 0)
	}
	return ov, nil
}

// GetMapCounts returns per-map log and round counts, most played first.
func (db *DB) GetMapCounts() ([]model.MapCount, error) {
	rows, err := db.conn.Query(`
		SELECT map_name, COUNT(1), COALESCE(SUM(rounds), 0)
		FROM logs WHERE map_name != ''
		GROUP BY map_name ORDER BY COUNT(1) DESC, map_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MapCount
	for rows.Next() {
		var m model.MapCount
		if err := rows.Scan(&m.MapName, &m.Logs, &m.Rounds); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary read query and returns its column names and
// rows rendered as strings. NULL becomes "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch v := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(v)
			default:
				row[i] = fmt.Sprint(v)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
