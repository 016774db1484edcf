package storage

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/pable/slpstats/internal/model"
)

// Overview holds database-wide counts for the summary command.
type Overview struct {
	TotalMatches  int
	EarliestMatch string
	LatestMatch   string
	UniqueStages  int
	UniquePlayers int
	TotalFrames   int
}

// StageStat counts matches and ports won per stage.
type StageStat struct {
	Stage    string
	Matches  int
	P1Wins   int
	P2Wins   int
	AvgFrame float64
}

// MatchTypeCount is the number of matches of one netplay mode.
type MatchTypeCount struct {
	MatchType string
	Matches   int
}

// GetDBOverview returns totals across every stored match.
func (db *DB) GetDBOverview() (Overview, error) {
	var ov Overview
	var earliest, latest sql.NullString
	err := db.conn.QueryRow(`
		SELECT COUNT(*), MIN(NULLIF(played_at, '')), MAX(NULLIF(played_at, '')),
			COUNT(DISTINCT stage), COALESCE(SUM(total_frames), 0)
		FROM matches`).Scan(&ov.TotalMatches, &earliest, &latest, &ov.UniqueStages, &ov.TotalFrames)
	if err != nil {
		return ov, err
	}
	ov.EarliestMatch = earliest.String
	ov.LatestMatch = latest.String

	err = db.conn.QueryRow(`
		SELECT COUNT(DISTINCT connect_code) FROM players WHERE connect_code != ''`).Scan(&ov.UniquePlayers)
	return ov, err
}

// GetStageStats returns per-stage match counts and which port won, most
// played stage first.
func (db *DB) GetStageStats() ([]StageStat, error) {
	rows, err := db.conn.Query(`
		SELECT m.stage, COUNT(DISTINCT m.hash),
			COALESCE(SUM(CASE WHEN p.port = 0 AND p.winner = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN p.port != 0 AND p.winner = 1 THEN 1 ELSE 0 END), 0),
			AVG(m.total_frames)
		FROM matches m
		LEFT JOIN players p ON p.hash = m.hash
		GROUP BY m.stage
		ORDER BY COUNT(DISTINCT m.hash) DESC, m.stage`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StageStat
	for rows.Next() {
		var s StageStat
		if err := rows.Scan(&s.Stage, &s.Matches, &s.P1Wins, &s.P2Wins, &s.AvgFrame); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// aggregateSelect sums a player's rows. Ungated stats are stored as -1 and
// are excluded from the sums.
const aggregateSelect = `
	SELECT connect_code, MAX(display_name), COUNT(*),
		COALESCE(SUM(CASE WHEN winner = 1 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(wavedashes), 0), COALESCE(SUM(wavelands), 0),
		COALESCE(SUM(CASE WHEN lcancel_attempts >= 0 THEN lcancel_attempts ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN lcancel_attempts >= 0 THEN lcancel_success ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN techs >= 0 THEN techs ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN techs >= 0 THEN missed_techs ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN hits_taken >= 0 THEN hits_taken ELSE 0 END), 0),
		COALESCE(AVG(apm), 0)
	FROM players
	WHERE connect_code != ''`

func scanAggregate(sc interface{ Scan(...any) error }) (model.PlayerAggregate, error) {
	var a model.PlayerAggregate
	err := sc.Scan(&a.ConnectCode, &a.DisplayName, &a.Matches, &a.Wins,
		&a.Wavedashes, &a.Wavelands, &a.LCancelAttempts, &a.LCancelSuccess,
		&a.Techs, &a.MissedTechs, &a.HitsTaken, &a.AvgAPM)
	return a, err
}

// GetTopPlayersByMatches returns the limit most frequently seen connect codes.
func (db *DB) GetTopPlayersByMatches(limit int) ([]model.PlayerAggregate, error) {
	rows, err := db.conn.Query(aggregateSelect+`
		GROUP BY connect_code
		ORDER BY COUNT(*) DESC, connect_code
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerAggregate
	for rows.Next() {
		a, err := scanAggregate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetPlayerAggregate sums every stored match of one connect code. It returns
// nil without an error when the code was never seen.
func (db *DB) GetPlayerAggregate(code string) (*model.PlayerAggregate, error) {
	row := db.conn.QueryRow(aggregateSelect+` AND connect_code = ? GROUP BY connect_code`, code)
	a, err := scanAggregate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetMatchTypeCounts returns how many matches were played in each mode.
func (db *DB) GetMatchTypeCounts() ([]MatchTypeCount, error) {
	rows, err := db.conn.Query(`
		SELECT match_type, COUNT(*) FROM matches
		GROUP BY match_type ORDER BY COUNT(*) DESC, match_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchTypeCount
	for rows.Next() {
		var c MatchTypeCount
		if err := rows.Scan(&c.MatchType, &c.Matches); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// StartIngestRun records the start of a parse or batch invocation and returns
// its id. Matches stored by the run carry the id.
func (db *DB) StartIngestRun(kind, source string) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(`INSERT INTO ingest_runs(id, kind, source, started_at) VALUES (?, ?, ?, ?)`,
		id, kind, source, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return id, nil
}

// FinishIngestRun stores the outcome counts of a run.
func (db *DB) FinishIngestRun(id string, succeeded, failed int) error {
	_, err := db.conn.Exec(`UPDATE ingest_runs SET finished_at = ?, succeeded = ?, failed = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), succeeded, failed, id)
	return err
}

// IngestRun is one stored parse or batch invocation.
type IngestRun struct {
	ID         string
	Kind       string
	Source     string
	StartedAt  string
	FinishedAt string
	Succeeded  int
	Failed     int
}

// GetIngestRun returns the run with the given id, or nil when none exists.
func (db *DB) GetIngestRun(id string) (*IngestRun, error) {
	var r IngestRun
	err := db.conn.QueryRow(`
		SELECT id, kind, source, started_at, finished_at, succeeded, failed
		FROM ingest_runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Kind, &r.Source, &r.StartedAt, &r.FinishedAt, &r.Succeeded, &r.Failed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
