package aggregator

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pable/slpstats/internal/detect"
	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
)

// Analyze runs the detectors for both human players of m, attaching each
// version-gated stat only when the replay is new enough to carry its data,
// and resolves the winner.
func Analyze(m *model.Match) error {
	if m == nil {
		return fmt.Errorf("nil Match")
	}
	if err := m.CheckAnalyzable(); err != nil {
		return fmt.Errorf("analyze %s: %w", m.Hash, err)
	}
	humans := m.Humans()
	stage := melee.StageFromID(m.Start.Stage)
	version := m.Start.Version

	for i, p := range humans {
		opp := humans[1-i]
		s := model.Stats{
			Wavedashes: detect.Wavedashes(p.Frames),
			Inputs:     detect.Inputs(p.Frames, m.TotalFrames),
		}
		if version.AtLeast(model.LCancelMinVersion) {
			s.LCancels = detect.LCancels(p.Frames, stage)
		}
		if version.AtLeast(model.TechMinVersion) {
			s.Techs = detect.Techs(p.Frames, opp.Frames, stage)
		}
		if version.AtLeast(model.DefenseMinVersion) {
			s.Defense = detect.Defense(p.Frames, opp.Frames, stage, p.Character, opp.Character)
		}
		if version.AtLeast(model.ItemsMinVersion) {
			s.Items = detect.ItemCounts(m.Items, p.Port)
		}
		p.Stats = s
	}

	resolveWinners(m, humans)
	return nil
}

// resolveWinners sets Winner on both players. A quit out on a no contest
// loses; otherwise the game end placements decide, and without them the
// player with more stocks, then lower percent, wins. Anything else leaves
// Winner nil.
func resolveWinners(m *model.Match, players []*model.Player) {
	a, b := players[0], players[1]
	set := func(winner, loser *model.Player) {
		t, f := true, false
		winner.Winner, loser.Winner = &t, &f
	}

	if end := m.End; end != nil {
		if end.Method == model.EndNoContest && end.LRASInitiator != nil {
			switch *end.LRASInitiator {
			case a.Port:
				set(b, a)
			case b.Port:
				set(a, b)
			}
			return
		}
		pa, okA := end.Placements[a.Port]
		pb, okB := end.Placements[b.Port]
		if okA && okB && pa != pb {
			if pa < pb {
				set(a, b)
			} else {
				set(b, a)
			}
			return
		}
		if okA != okB {
			if (okA && pa == model.PlacementWin) || (okB && pb != model.PlacementWin) {
				set(a, b)
			} else {
				set(b, a)
			}
			return
		}
	}

	if m.TotalFrames == 0 {
		return
	}
	last := m.TotalFrames - 1
	sa, sb := a.Frames.Post.Stocks[last], b.Frames.Post.Stocks[last]
	switch {
	case sa > sb:
		set(a, b)
		return
	case sb > sa:
		set(b, a)
		return
	}
	pa := math.Floor(float64(a.Frames.Post.Percent[last]))
	pb := math.Floor(float64(b.Frames.Post.Percent[last]))
	switch {
	case pa < pb:
		set(a, b)
	case pb < pa:
		set(b, a)
	}
}

// PlayerRows flattens the analyzed stats of m into one row per human player,
// sorted by port. Stats the replay was too old for are recorded as -1.
func PlayerRows(m *model.Match) []model.PlayerMatchStats {
	var rows []model.PlayerMatchStats
	for _, p := range m.Humans() {
		s := p.Stats
		row := model.PlayerMatchStats{
			Hash:            m.Hash,
			Port:            p.Port,
			ConnectCode:     p.ConnectCode,
			DisplayName:     p.DisplayName,
			Character:       p.Character.String(),
			Costume:         p.Costume,
			Winner:          p.Winner,
			LCancelAttempts: -1,
			Techs:           -1,
			HitsTaken:       -1,
			Digital:         s.Inputs.Digital,
			APM:             s.Inputs.APM,
			TriggerPref:     string(s.Inputs.TriggerPref),
			JumpPref:        string(s.Inputs.JumpPref),
		}
		row.Wavedashes, row.Wavelands = model.WavedashCounts(s.Wavedashes)
		if s.LCancels != nil {
			row.LCancelAttempts = len(s.LCancels.Events)
			row.LCancelSuccess = s.LCancels.Successes()
		}
		if s.Techs != nil {
			row.Techs = len(s.Techs.Events)
			row.MissedTechs = s.Techs.Missed()
			row.TechLockouts = s.Techs.Lockouts()
		}
		if s.Defense != nil {
			row.HitsTaken = len(s.Defense.Hits)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Port < rows[j].Port })
	return rows
}

// Summary builds the match record shown by the list and show commands.
func Summary(m *model.Match) model.MatchSummary {
	s := model.MatchSummary{
		Hash:        m.Hash,
		Path:        m.Path,
		Version:     m.Start.Version.String(),
		Stage:       m.Start.Stage.String(),
		MatchType:   m.Start.MatchType.String(),
		MatchID:     m.Start.MatchID,
		GameNumber:  int(m.Start.GameNumber),
		EndMethod:   "NONE",
		TotalFrames: m.TotalFrames,
	}
	if !m.Metadata.StartAt.IsZero() {
		s.PlayedAt = m.Metadata.StartAt.UTC().Format(time.RFC3339)
	}
	if m.End != nil {
		s.EndMethod = m.End.Method.String()
	}

	names := make([]string, 0, len(m.Players))
	for _, p := range m.Players {
		who := p.ConnectCode
		if who == "" {
			who = p.Port.String()
		}
		names = append(names, fmt.Sprintf("%s (%s)", who, p.Character))
	}
	s.Players = strings.Join(names, " vs ")
	return s
}
