package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/slpstats/internal/model"
)

// childTables hold per-event rows keyed by match hash. They are cleared before
// a match is stored again.
var childTables = []string{"players", "wavedashes", "lcancels", "techs", "hits", "item_counts", "input_summaries"}

// MatchExists returns true if a match with the given hash is already stored.
func (db *DB) MatchExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch stores an analyzed match with its player rows and every
// detected event in one transaction. Storing the same hash again replaces it.
func (db *DB) InsertMatch(m *model.Match, summary model.MatchSummary, rows []model.PlayerMatchStats, runID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range childTables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE hash = ?", m.Hash); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(hash, path, played_at, version, stage, match_type, match_id,
			game_number, end_method, total_frames, players, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.Hash, summary.Path, summary.PlayedAt, summary.Version, summary.Stage,
		summary.MatchType, summary.MatchID, summary.GameNumber, summary.EndMethod,
		summary.TotalFrames, summary.Players, runID,
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	if err := insertPlayerRows(tx, rows); err != nil {
		return err
	}
	for _, p := range m.Humans() {
		if err := insertEvents(tx, m.Hash, p); err != nil {
			return fmt.Errorf("insert events for %s: %w", p.Port, err)
		}
	}
	return tx.Commit()
}

func insertPlayerRows(tx *sql.Tx, rows []model.PlayerMatchStats) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO players(
			hash, port, connect_code, display_name, character, costume, winner,
			wavedashes, wavelands, lcancel_attempts, lcancel_success,
			techs, missed_techs, tech_lockouts, hits_taken,
			digital, apm, trigger_pref, jump_pref
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range rows {
		_, err = stmt.Exec(
			s.Hash, int(s.Port), s.ConnectCode, s.DisplayName, s.Character, int(s.Costume), nullBool(s.Winner),
			s.Wavedashes, s.Wavelands, s.LCancelAttempts, s.LCancelSuccess,
			s.Techs, s.MissedTechs, s.TechLockouts, s.HitsTaken,
			s.Digital, s.APM, s.TriggerPref, s.JumpPref,
		)
		if err != nil {
			return fmt.Errorf("insert players for %s: %w", s.Port, err)
		}
	}
	return nil
}

func insertEvents(tx *sql.Tx, hash string, p *model.Player) error {
	port := int(p.Port)
	s := p.Stats

	for _, w := range s.Wavedashes {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO wavedashes(hash, port, frame, angle, direction, x, y, waveland)
			VALUES (?,?,?,?,?,?,?,?)`,
			hash, port, w.Frame, w.Angle, w.Direction.String(), w.StartPosition.X, w.StartPosition.Y, boolInt(w.Waveland),
		); err != nil {
			return fmt.Errorf("wavedashes: %w", err)
		}
	}

	in := s.Inputs
	if _, err := tx.Exec(`INSERT OR REPLACE INTO input_summaries(hash, port, digital, joystick, cstick, analog_trigger, apm, trigger_pref, jump_pref)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		hash, port, in.Digital, in.Joystick, in.Cstick, in.AnalogTrigger, in.APM, string(in.TriggerPref), string(in.JumpPref),
	); err != nil {
		return fmt.Errorf("input_summaries: %w", err)
	}

	if s.LCancels != nil {
		for _, l := range s.LCancels.Events {
			if _, err := tx.Exec(`INSERT OR REPLACE INTO lcancels(hash, port, frame, attack, stocks, percent, success,
				trigger_frame, ground, fastfall, during_hitlag) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
				hash, port, l.Frame, l.Attack.String(), int(l.StocksRemaining), l.Percent, boolInt(l.Success),
				nullInt(l.TriggerFrame), l.Ground.String(), boolInt(l.Fastfall), boolInt(l.DuringHitlag),
			); err != nil {
				return fmt.Errorf("lcancels: %w", err)
			}
		}
	}

	if s.Techs != nil {
		for _, t := range s.Techs.Events {
			if _, err := tx.Exec(`INSERT OR REPLACE INTO techs(hash, port, frame, stocks, percent, tech_type, punished,
				x, y, ground, missed, towards_center, towards_opponent, jab_reset, last_hit_by, opponent_dist,
				input_frame, lockout, during_hitlag) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
				hash, port, t.Frame, int(t.StocksRemaining), t.Percent, t.Type.String(), boolInt(t.Punished),
				t.Position.X, t.Position.Y, t.Ground.String(), boolInt(t.MissedTech),
				nullBool(t.TowardsCenter), nullBool(t.TowardsOpponent), nullBool(t.JabReset),
				t.LastHitBy.String(), t.OpponentDist, nullInt(t.InputFrame), boolInt(t.Lockout), boolInt(t.DuringHitlag),
			); err != nil {
				return fmt.Errorf("techs: %w", err)
			}
		}
	}

	if s.Defense != nil {
		for _, h := range s.Defense.Hits {
			if _, err := tx.Exec(`INSERT OR REPLACE INTO hits(hash, port, frame, stocks, percent, damage, last_hit_by,
				state_before, grounded, crouch_cancel, vcancel, hitlag_frames, sdi_inputs, asdi,
				kb_x, kb_y, di_x, di_y, di_kb_x, di_kb_y, di_efficacy, start_x, start_y, end_x, end_y,
				kills_no_di, kills_with_di, kills_any_di, kills_some_di)
				VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
				hash, port, h.Frame, int(h.StocksRemaining), h.Percent, h.DamageTaken, h.LastHitBy.String(),
				h.StateBeforeHit.String(), boolInt(h.Grounded), boolInt(h.CrouchCancel), boolInt(h.VCancel),
				int(h.HitlagFrames), len(h.SDIInputs), h.ASDI.String(),
				h.Knockback.X, h.Knockback.Y, h.DIStick.X, h.DIStick.Y, h.DIKnockback.X, h.DIKnockback.Y,
				h.DIEfficacy, h.StartPosition.X, h.StartPosition.Y, h.EndPosition.X, h.EndPosition.Y,
				boolInt(h.KillsNoDI), boolInt(h.KillsWithDI), boolInt(h.KillsAnyDI), boolInt(h.KillsSomeDI),
			); err != nil {
				return fmt.Errorf("hits: %w", err)
			}
		}
	}

	for item, n := range s.Items {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO item_counts(hash, port, item, count) VALUES (?,?,?,?)`,
			hash, port, item.String(), n,
		); err != nil {
			return fmt.Errorf("item_counts: %w", err)
		}
	}
	return nil
}

const matchColumns = `hash, path, played_at, version, stage, match_type, match_id, game_number, end_method, total_frames, players`

func scanMatch(sc interface{ Scan(...any) error }) (model.MatchSummary, error) {
	var s model.MatchSummary
	err := sc.Scan(&s.Hash, &s.Path, &s.PlayedAt, &s.Version, &s.Stage, &s.MatchType,
		&s.MatchID, &s.GameNumber, &s.EndMethod, &s.TotalFrames, &s.Players)
	return s, err
}

// ListMatches returns all stored match summaries, newest first.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + matchColumns + ` FROM matches ORDER BY played_at DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		s, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose hash starts with the given
// prefix. It returns nil without an error when nothing matches.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	row := db.conn.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE hash LIKE ? ORDER BY hash LIMIT 1`, prefix+"%")
	s, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const playerColumns = `p.hash, p.port, p.connect_code, p.display_name, p.character, p.costume, p.winner,
	p.wavedashes, p.wavelands, p.lcancel_attempts, p.lcancel_success,
	p.techs, p.missed_techs, p.tech_lockouts, p.hits_taken,
	p.digital, p.apm, p.trigger_pref, p.jump_pref, m.played_at`

func scanPlayers(rows *sql.Rows) ([]model.PlayerMatchStats, error) {
	defer rows.Close()
	var out []model.PlayerMatchStats
	for rows.Next() {
		var s model.PlayerMatchStats
		var port, costume int
		var winner sql.NullInt64
		if err := rows.Scan(
			&s.Hash, &port, &s.ConnectCode, &s.DisplayName, &s.Character, &costume, &winner,
			&s.Wavedashes, &s.Wavelands, &s.LCancelAttempts, &s.LCancelSuccess,
			&s.Techs, &s.MissedTechs, &s.TechLockouts, &s.HitsTaken,
			&s.Digital, &s.APM, &s.TriggerPref, &s.JumpPref, &s.PlayedAt,
		); err != nil {
			return nil, err
		}
		s.Port = model.Port(port)
		s.Costume = uint8(costume)
		if winner.Valid {
			w := winner.Int64 != 0
			s.Winner = &w
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetPlayerMatchStats returns the player rows of one match in port order.
func (db *DB) GetPlayerMatchStats(hash string) ([]model.PlayerMatchStats, error) {
	rows, err := db.conn.Query(`
		SELECT `+playerColumns+`
		FROM players p JOIN matches m ON m.hash = p.hash
		WHERE p.hash = ? ORDER BY p.port`, hash)
	if err != nil {
		return nil, err
	}
	return scanPlayers(rows)
}

// GetAllPlayerMatchStats returns every stored row for a connect code, oldest
// match first.
func (db *DB) GetAllPlayerMatchStats(code string) ([]model.PlayerMatchStats, error) {
	rows, err := db.conn.Query(`
		SELECT `+playerColumns+`
		FROM players p JOIN matches m ON m.hash = p.hash
		WHERE p.connect_code = ? ORDER BY m.played_at, p.hash`, code)
	if err != nil {
		return nil, err
	}
	return scanPlayers(rows)
}

// ItemCount is one stored item tally.
type ItemCount struct {
	Port  model.Port
	Item  string
	Count int
}

// GetItemCounts returns the item tallies of one match.
func (db *DB) GetItemCounts(hash string) ([]ItemCount, error) {
	rows, err := db.conn.Query(`SELECT port, item, count FROM item_counts WHERE hash = ? ORDER BY port, count DESC, item`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ItemCount
	for rows.Next() {
		var c ItemCount
		var port int
		if err := rows.Scan(&port, &c.Item, &c.Count); err != nil {
			return nil, err
		}
		c.Port = model.Port(port)
		out = append(out, c)
	}
	return out, rows.Err()
}

// TechCount is the number of tech situations of one type for a port.
type TechCount struct {
	Port     model.Port
	TechType string
	Count    int
	Punished int
}

// GetTechBreakdown counts the tech options each player chose in one match.
func (db *DB) GetTechBreakdown(hash string) ([]TechCount, error) {
	rows, err := db.conn.Query(`
		SELECT port, tech_type, COUNT(*), SUM(punished)
		FROM techs WHERE hash = ?
		GROUP BY port, tech_type ORDER BY port, COUNT(*) DESC, tech_type`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TechCount
	for rows.Next() {
		var c TechCount
		var port int
		if err := rows.Scan(&port, &c.TechType, &c.Count, &c.Punished); err != nil {
			return nil, err
		}
		c.Port = model.Port(port)
		out = append(out, c)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return boolInt(*b)
}

func nullInt(v *int32) any {
	if v == nil {
		return nil
	}
	return *v
}
