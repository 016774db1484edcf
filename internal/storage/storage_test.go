package storage

import (
	"testing"

	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
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

func boolp(b bool) *bool { return &b }

func int32p(v int32) *int32 { return &v }

// testMatch builds an analyzed two player match with one event of each kind
// for port 1.
func testMatch(hash, playedAt string) (*model.Match, model.MatchSummary, []model.PlayerMatchStats) {
	p1 := &model.Player{Port: 0, Character: melee.Fox, Type: model.PlayerHuman, ConnectCode: "ABC#1", Winner: boolp(true)}
	p2 := &model.Player{Port: 1, Character: melee.Marth, Type: model.PlayerHuman, ConnectCode: "XYZ#2", Winner: boolp(false)}
	p1.Stats = model.Stats{
		Wavedashes: []model.Wavedash{{Frame: 100, Angle: 12, Direction: model.DirectionLeft}},
		Inputs:     model.InputSummary{Digital: 50, APM: 300, TriggerPref: model.PreferR, JumpPref: model.PreferX},
		LCancels: &model.LCancelStats{Events: []model.LCancel{
			{Frame: 200, Attack: melee.AttackNair, Success: true, TriggerFrame: int32p(-3)},
			{Frame: 400, Attack: melee.AttackFair},
		}},
		Techs: &model.TechStats{Events: []model.Tech{
			{Frame: 300, Type: model.TechInPlace, TowardsCenter: boolp(true)},
		}},
		Defense: &model.DefenseStats{Hits: []model.HitTaken{
			{Frame: 500, DamageTaken: 12, SDIInputs: []melee.StickRegion{melee.RegionUp, melee.RegionUpRight}},
		}},
		Items: model.ItemCounts{melee.ItemBeamSword: 2},
	}
	p2.Stats = model.Stats{Inputs: model.InputSummary{TriggerPref: model.PreferUnknown, JumpPref: model.PreferUnknown}}

	m := &model.Match{Hash: hash, TotalFrames: 1000, Players: []*model.Player{p1, p2}}
	summary := model.MatchSummary{
		Hash:        hash,
		Path:        "/replays/" + hash + ".slp",
		PlayedAt:    playedAt,
		Version:     "3.16.0",
		Stage:       "Battlefield",
		MatchType:   "RANKED",
		EndMethod:   "GAME",
		TotalFrames: 1000,
		Players:     "ABC#1 (Fox) vs XYZ#2 (Marth)",
	}
	rows := []model.PlayerMatchStats{
		{Hash: hash, Port: 0, ConnectCode: "ABC#1", Character: "Fox", Winner: boolp(true),
			Wavedashes: 1, LCancelAttempts: 2, LCancelSuccess: 1, Techs: 1, HitsTaken: 1,
			Digital: 50, APM: 300, TriggerPref: "R", JumpPref: "X"},
		{Hash: hash, Port: 1, ConnectCode: "XYZ#2", Character: "Marth", Winner: boolp(false),
			LCancelAttempts: -1, Techs: -1, HitsTaken: -1, TriggerPref: "UNKNOWN", JumpPref: "UNKNOWN"},
	}
	return m, summary, rows
}

func insert(t *testing.T, db *DB, hash, playedAt string) {
	t.Helper()
	m, s, rows := testMatch(hash, playedAt)
	if err := db.InsertMatch(m, s, rows, "run-1"); err != nil {
		t.Fatalf("InsertMatch(%s): %v", hash, err)
	}
}

func count(t *testing.T, db *DB, query string) string {
	t.Helper()
	_, rows, err := db.QueryRaw(query)
	if err != nil {
		t.Fatalf("QueryRaw(%q): %v", query, err)
	}
	return rows[0][0]
}

func TestMatchInsertAndExists(t *testing.T) {
	db := openMemDB(t)
	insert(t, db, "abc123", "2025-01-01T00:00:00Z")

	exists, err := db.MatchExists("abc123")
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after insert")
	}

	exists2, _ := db.MatchExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent match to not exist")
	}

	for table, want := range map[string]string{
		"wavedashes":      "1",
		"lcancels":        "2",
		"techs":           "1",
		"hits":            "1",
		"item_counts":     "1",
		"input_summaries": "2",
	} {
		if got := count(t, db, "SELECT COUNT(*) FROM "+table); got != want {
			t.Errorf("%s rows = %s, want %s", table, got, want)
		}
	}
	if got := count(t, db, "SELECT trigger_frame FROM lcancels WHERE frame = 400"); got != "NULL" {
		t.Errorf("missed l-cancel trigger_frame = %s, want NULL", got)
	}
	if got := count(t, db, "SELECT sdi_inputs FROM hits"); got != "2" {
		t.Errorf("sdi_inputs = %s, want 2", got)
	}
	if got := count(t, db, "SELECT jab_reset FROM techs"); got != "NULL" {
		t.Errorf("unset jab_reset = %s, want NULL", got)
	}
}

func TestListMatches(t *testing.T) {
	db := openMemDB(t)
	insert(t, db, "h1", "2025-01-01T00:00:00Z")
	insert(t, db, "h2", "2025-02-01T00:00:00Z")

	list, err := db.ListMatches()
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(list))
	}
	if list[0].Hash != "h2" {
		t.Errorf("expected h2 first (newest), got %s", list[0].Hash)
	}
	if list[1].Players != "ABC#1 (Fox) vs XYZ#2 (Marth)" || list[1].Stage != "Battlefield" {
		t.Errorf("summary = %+v", list[1])
	}
}

func TestGetMatchByPrefix(t *testing.T) {
	db := openMemDB(t)
	insert(t, db, "deadbeef1234", "2025-01-01T00:00:00Z")

	got, err := db.GetMatchByPrefix("deadbeef")
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if got == nil || got.Hash != "deadbeef1234" {
		t.Fatalf("expected deadbeef1234, got %+v", got)
	}

	none, err := db.GetMatchByPrefix("ffff")
	if err != nil {
		t.Fatalf("GetMatchByPrefix(no match): %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for unknown prefix, got %+v", none)
	}
}

func TestPlayerMatchStatsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	insert(t, db, "h1", "2025-01-01T00:00:00Z")

	rows, err := db.GetPlayerMatchStats("h1")
	if err != nil {
		t.Fatalf("GetPlayerMatchStats: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	p1, p2 := rows[0], rows[1]
	if p1.Port != 0 || p1.ConnectCode != "ABC#1" || p1.Winner == nil || !*p1.Winner {
		t.Errorf("p1 = %+v", p1)
	}
	if p1.LCancelAttempts != 2 || p1.LCancelSuccess != 1 || p1.APM != 300 || p1.TriggerPref != "R" {
		t.Errorf("p1 stats = %+v", p1)
	}
	if p1.PlayedAt != "2025-01-01T00:00:00Z" {
		t.Errorf("PlayedAt = %q", p1.PlayedAt)
	}
	if p2.LCancelAttempts != -1 || p2.Techs != -1 || p2.HitsTaken != -1 {
		t.Errorf("ungated stats should read back as -1: %+v", p2)
	}

	items, err := db.GetItemCounts("h1")
	if err != nil {
		t.Fatalf("GetItemCounts: %v", err)
	}
	if len(items) != 1 || items[0].Item != melee.ItemBeamSword.String() || items[0].Count != 2 {
		t.Errorf("items = %+v", items)
	}

	techs, err := db.GetTechBreakdown("h1")
	if err != nil {
		t.Fatalf("GetTechBreakdown: %v", err)
	}
	if len(techs) != 1 || techs[0].TechType != model.TechInPlace.String() || techs[0].Count != 1 {
		t.Errorf("techs = %+v", techs)
	}
}

func TestGetAllPlayerMatchStatsOrder(t *testing.T) {
	db := openMemDB(t)
	insert(t, db, "late", "2025-03-01T00:00:00Z")
	insert(t, db, "early", "2025-01-01T00:00:00Z")

	rows, err := db.GetAllPlayerMatchStats("XYZ#2")
	if err != nil {
		t.Fatalf("GetAllPlayerMatchStats: %v", err)
	}
	if len(rows) != 2 || rows[0].Hash != "early" || rows[1].Hash != "late" {
		t.Errorf("rows not in played order: %+v", rows)
	}
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)
	insert(t, db, "h1", "2025-01-01T00:00:00Z")
	insert(t, db, "h1", "2025-01-01T00:00:00Z")

	for table, want := range map[string]string{"matches": "1", "players": "2", "lcancels": "2", "hits": "1"} {
		if got := count(t, db, "SELECT COUNT(*) FROM "+table); got != want {
			t.Errorf("%s rows after second insert = %s, want %s", table, got, want)
		}
	}
}

func TestAggregates(t *testing.T) {
	db := openMemDB(t)

	ov, err := db.GetDBOverview()
	if err != nil {
		t.Fatalf("GetDBOverview on empty db: %v", err)
	}
	if ov.TotalMatches != 0 {
		t.Errorf("empty TotalMatches = %d", ov.TotalMatches)
	}

	insert(t, db, "h1", "2025-01-01T00:00:00Z")
	insert(t, db, "h2", "2025-02-01T00:00:00Z")

	ov, err = db.GetDBOverview()
	if err != nil {
		t.Fatalf("GetDBOverview: %v", err)
	}
	if ov.TotalMatches != 2 || ov.UniquePlayers != 2 || ov.TotalFrames != 2000 || ov.UniqueStages != 1 {
		t.Errorf("overview = %+v", ov)
	}
	if ov.EarliestMatch != "2025-01-01T00:00:00Z" || ov.LatestMatch != "2025-02-01T00:00:00Z" {
		t.Errorf("date range = %s - %s", ov.EarliestMatch, ov.LatestMatch)
	}

	stages, err := db.GetStageStats()
	if err != nil {
		t.Fatalf("GetStageStats: %v", err)
	}
	if len(stages) != 1 || stages[0].Matches != 2 || stages[0].P1Wins != 2 || stages[0].P2Wins != 0 {
		t.Errorf("stages = %+v", stages)
	}

	agg, err := db.GetPlayerAggregate("XYZ#2")
	if err != nil {
		t.Fatalf("GetPlayerAggregate: %v", err)
	}
	if agg == nil || agg.Matches != 2 || agg.Wins != 0 || agg.LCancelAttempts != 0 || agg.Techs != 0 {
		t.Errorf("ungated stats must not be summed: %+v", agg)
	}
	abc, _ := db.GetPlayerAggregate("ABC#1")
	if abc == nil || abc.Wins != 2 || abc.LCancelAttempts != 4 || abc.LCancelSuccess != 2 || abc.Wavedashes != 2 {
		t.Errorf("ABC#1 aggregate = %+v", abc)
	}
	if missing, err := db.GetPlayerAggregate("NOPE#0"); err != nil || missing != nil {
		t.Errorf("unknown code = %+v, %v", missing, err)
	}

	top, err := db.GetTopPlayersByMatches(1)
	if err != nil {
		t.Fatalf("GetTopPlayersByMatches: %v", err)
	}
	if len(top) != 1 || top[0].ConnectCode != "ABC#1" {
		t.Errorf("top = %+v", top)
	}

	types, err := db.GetMatchTypeCounts()
	if err != nil {
		t.Fatalf("GetMatchTypeCounts: %v", err)
	}
	if len(types) != 1 || types[0].MatchType != "RANKED" || types[0].Matches != 2 {
		t.Errorf("types = %+v", types)
	}
}

func TestIngestRun(t *testing.T) {
	db := openMemDB(t)

	id, err := db.StartIngestRun("batch", "/replays")
	if err != nil {
		t.Fatalf("StartIngestRun: %v", err)
	}
	if err := db.FinishIngestRun(id, 3, 1); err != nil {
		t.Fatalf("FinishIngestRun: %v", err)
	}
	run, err := db.GetIngestRun(id)
	if err != nil {
		t.Fatalf("GetIngestRun: %v", err)
	}
	if run == nil || run.Kind != "batch" || run.Succeeded != 3 || run.Failed != 1 || run.FinishedAt == "" {
		t.Errorf("run = %+v", run)
	}
}
