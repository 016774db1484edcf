package cmd

import (
	"strings"
	"testing"

	"github.com/pable/slpstats/internal/aggregator"
	"github.com/pable/slpstats/internal/model"
	"github.com/pable/slpstats/internal/parser"
	"github.com/pable/slpstats/internal/replaytest"
	"github.com/pable/slpstats/internal/storage"
)

func openMemDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func analyzedMatch(t *testing.T) *model.Match {
	t.Helper()
	b := replaytest.New(3, 16, 0).
		Player(0, 2, "ABC#123", "Alpha").
		Player(1, 9, "XYZ#9", "Zeta")
	b.StartAt = "2024-03-01T01:02:03Z"
	for i := 0; i < 10; i++ {
		frame := model.FirstFrame + int32(i)
		for port := uint8(0); port < 2; port++ {
			b.Frame(
				replaytest.Pre{Frame: frame, Port: port, State: 14},
				replaytest.Post{Frame: frame, Port: port, Character: 1, State: 14, Stocks: 4},
			)
		}
	}
	b.End(2, -1, [4]int8{0, 1, -1, -1})

	m, err := parser.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := aggregator.Analyze(m); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return m
}

func ingestCounts(t *testing.T, db *storage.DB) (succeeded, failed string) {
	t.Helper()
	_, rows, err := db.QueryRaw("SELECT succeeded, failed FROM ingest_runs")
	if err != nil {
		t.Fatalf("query ingest runs: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ingest runs = %d, want 1", len(rows))
	}
	return rows[0][0], rows[0][1]
}

func TestStoreMatch(t *testing.T) {
	db := openMemDB(t)
	m := analyzedMatch(t)

	if _, _, err := storeMatch(db, m, "game.slp"); err != nil {
		t.Fatalf("storeMatch: %v", err)
	}
	if ok, err := db.MatchExists(m.Hash); err != nil || !ok {
		t.Fatalf("MatchExists = %v, %v", ok, err)
	}
	if s, f := ingestCounts(t, db); s != "1" || f != "0" {
		t.Errorf("ingest run succeeded=%s failed=%s, want 1 and 0", s, f)
	}
}

func TestStoreMatchRecordsFailedInsert(t *testing.T) {
	db := openMemDB(t)
	m := analyzedMatch(t)
	if _, _, err := db.QueryRaw("DROP TABLE wavedashes"); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, _, err := storeMatch(db, m, "game.slp")
	if err == nil || !strings.Contains(err.Error(), "insert match") {
		t.Fatalf("err = %v, want an insert error", err)
	}
	if s, f := ingestCounts(t, db); s != "0" || f != "1" {
		t.Errorf("ingest run succeeded=%s failed=%s, want 0 and 1", s, f)
	}
}

func TestShowByHashReportsQueryErrors(t *testing.T) {
	db := openMemDB(t)
	if err := showByHash(db, "deadbeef"); err == nil || !strings.Contains(err.Error(), "match not found") {
		t.Errorf("missing match err = %v, want match not found", err)
	}

	db.Close()
	err := showByHash(db, "deadbeef")
	if err == nil || strings.Contains(err.Error(), "match not found") {
		t.Errorf("closed db err = %v, want the underlying query error", err)
	}
}
