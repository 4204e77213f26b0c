package storage

import (
	"testing"
	"time"

	"github.com/pable/cs-logstats/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

const rawLog = `L 10/30/2021 - 19:42:00: World triggered "Match_Start" on "de_inferno"
L 10/30/2021 - 19:43:45: World triggered "Round_End"
`

func TestLogInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	hash := HashLog(rawLog)
	summary := model.LogSummary{
		Hash:       hash,
		Source:     "match.log",
		MapName:    "de_inferno",
		Rounds:     1,
		Score:      "Natus Vincere 1 - 0 Team Vitality",
		Size:       int64(len(rawLog)),
		ImportedAt: time.Unix(1700000000, 0),
	}

	if err := db.InsertLog(summary, rawLog); err != nil {
		t.Fatalf("InsertLog: %v", err)
	}

	exists, err := db.LogExists(hash)
	if err != nil {
		t.Fatalf("LogExists: %v", err)
	}
	if !exists {
		t.Error("expected log to exist after insert")
	}

	exists2, _ := db.LogExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent log to not exist")
	}
}

func TestListLogs(t *testing.T) {
	db := openMemDB(t)

	summaries := []model.LogSummary{
		{Hash: "h1", Source: "a.log", MapName: "de_dust2", Size: 10, ImportedAt: time.Unix(1700000000, 0)},
		{Hash: "h2", Source: "b.log", MapName: "de_mirage", Size: 20, ImportedAt: time.Unix(1700001000, 0)},
	}
	for _, s := range summaries {
		if err := db.InsertLog(s, "raw-"+s.Hash); err != nil {
			t.Fatalf("InsertLog: %v", err)
		}
	}

	list, err := db.ListLogs()
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(list))
	}
	// Ordered by imported_at DESC, so h2 comes first.
	if list[0].Hash != "h2" {
		t.Errorf("expected h2 first (newest), got %s", list[0].Hash)
	}
	if !list[1].ImportedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected import time %v", list[1].ImportedAt)
	}
}

func TestGetLogByPrefix(t *testing.T) {
	db := openMemDB(t)

	db.InsertLog(model.LogSummary{Hash: "deadbeef1234", Source: "x.log", MapName: "de_inferno", Rounds: 3, Size: int64(len(rawLog)), ImportedAt: time.Now()}, rawLog)

	s, raw, err := db.GetLogByPrefix("deadb")
	if err != nil {
		t.Fatalf("GetLogByPrefix: %v", err)
	}
	if s == nil {
		t.Fatal("expected match for prefix 'deadb'")
	}
	if s.Hash != "deadbeef1234" || s.Rounds != 3 || s.MapName != "de_inferno" {
		t.Errorf("unexpected summary %+v", s)
	}
	if raw != rawLog {
		t.Errorf("raw log mismatch: %q", raw)
	}

	s2, raw2, err := db.GetLogByPrefix("ffffffff")
	if err != nil {
		t.Fatalf("GetLogByPrefix no-match: %v", err)
	}
	if s2 != nil || raw2 != "" {
		t.Error("expected nil for unknown prefix")
	}
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)

	s := model.LogSummary{Hash: HashLog(rawLog), Source: "a.log", Size: 1, ImportedAt: time.Now()}
	db.InsertLog(s, rawLog)
	// Second insert should not error (INSERT OR REPLACE).
	if err := db.InsertLog(s, rawLog); err != nil {
		t.Errorf("second InsertLog should succeed (idempotent): %v", err)
	}
	list, _ := db.ListLogs()
	if len(list) != 1 {
		t.Errorf("expected 1 row after re-insert, got %d", len(list))
	}
}

func TestDeleteLog(t *testing.T) {
	db := openMemDB(t)

	db.InsertLog(model.LogSummary{Hash: "h1", Source: "a.log", ImportedAt: time.Now()}, "raw")

	deleted, err := db.DeleteLog("h1")
	if err != nil {
		t.Fatalf("DeleteLog: %v", err)
	}
	if !deleted {
		t.Error("expected a row to be deleted")
	}
	deleted, _ = db.DeleteLog("h1")
	if deleted {
		t.Error("second delete should report nothing deleted")
	}
}

func TestHashLogStable(t *testing.T) {
	if HashLog(rawLog) != HashLog(rawLog) {
		t.Error("hash should be deterministic")
	}
	if len(HashLog("")) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(HashLog("")))
	}
}

func TestLibraryOverviewAndMaps(t *testing.T) {
	db := openMemDB(t)

	ov, err := db.GetLibraryOverview()
	if err != nil {
		t.Fatalf("GetLibraryOverview on empty db: %v", err)
	}
	if ov.TotalLogs != 0 || !ov.EarliestImport.IsZero() {
		t.Errorf("expected empty overview, got %+v", ov)
	}

	for _, s := range []model.LogSummary{
		{Hash: "h1", Source: "a.log", MapName: "de_inferno", Rounds: 24, Size: 100, ImportedAt: time.Unix(1700000000, 0)},
		{Hash: "h2", Source: "b.log", MapName: "de_inferno", Rounds: 30, Size: 200, ImportedAt: time.Unix(1700000500, 0)},
		{Hash: "h3", Source: "c.log", MapName: "de_nuke", Rounds: 16, Size: 50, ImportedAt: time.Unix(1700001000, 0)},
		{Hash: "h4", Source: "d.log", Size: 5, ImportedAt: time.Unix(1700002000, 0)},
	} {
		if err := db.InsertLog(s, "raw-"+s.Hash); err != nil {
			t.Fatalf("InsertLog: %v", err)
		}
	}

	ov, err = db.GetLibraryOverview()
	if err != nil {
		t.Fatalf("GetLibraryOverview: %v", err)
	}
	if ov.TotalLogs != 4 || ov.TotalRounds != 70 || ov.TotalSize != 355 || ov.UniqueMaps != 2 {
		t.Errorf("unexpected overview %+v", ov)
	}
	if !ov.EarliestImport.Equal(time.Unix(1700000000, 0)) || !ov.LatestImport.Equal(time.Unix(1700002000, 0)) {
		t.Errorf("unexpected import range %v .. %v", ov.EarliestImport, ov.LatestImport)
	}

	maps, err := db.GetMapCounts()
	if err != nil {
		t.Fatalf("GetMapCounts: %v", err)
	}
	if len(maps) != 2 || maps[0].MapName != "de_inferno" || maps[0].Logs != 2 || maps[0].Rounds != 54 {
		t.Errorf("unexpected map counts %+v", maps)
	}
}

func TestGetAllRawLogs(t *testing.T) {
	db := openMemDB(t)

	db.InsertLog(model.LogSummary{Hash: "h1", Source: "a.log", ImportedAt: time.Unix(1700000000, 0)}, "first")
	db.InsertLog(model.LogSummary{Hash: "h2", Source: "b.log", ImportedAt: time.Unix(1700001000, 0)}, "second")

	summaries, raws, err := db.GetAllRawLogs()
	if err != nil {
		t.Fatalf("GetAllRawLogs: %v", err)
	}
	if len(summaries) != 2 || len(raws) != 2 {
		t.Fatalf("expected 2 logs, got %d/%d", len(summaries), len(raws))
	}
	if summaries[0].Hash != "h2" || raws[0] != "second" {
		t.Errorf("expected newest first, got %s %q", summaries[0].Hash, raws[0])
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)

	db.InsertLog(model.LogSummary{Hash: "h1", Source: "a.log", MapName: "de_dust2", Rounds: 21, ImportedAt: time.Now()}, "raw")

	cols, rows, err := db.QueryRaw("SELECT map_name, rounds, NULL AS nothing FROM logs")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || cols[0] != "map_name" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "de_dust2" || rows[0][1] != "21" || rows[0][2] != "NULL" {
		t.Errorf("unexpected rows %v", rows)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM no_such_table"); err == nil {
		t.Error("expected error for unknown table")
	}
}
