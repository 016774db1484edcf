package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/slpstats/internal/model"
	"github.com/pable/slpstats/internal/storage"
)

// na is printed for stats the replay's format version does not record.
const na = "—"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	hash := s.Hash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	date := s.PlayedAt
	if date == "" {
		date = "unknown"
	}
	fmt.Fprintf(w, "\nStage: %s  |  Date: %s  |  Type: %s  |  End: %s  |  Frames: %d  |  v%s  |  Hash: %s\n",
		s.Stage, date, s.MatchType, s.EndMethod, s.TotalFrames, s.Version, hash)
	fmt.Fprintf(w, "%s\n\n", s.Players)
}

func winnerMark(w *bool) string {
	switch {
	case w == nil:
		return "?"
	case *w:
		return "W"
	default:
		return "L"
	}
}

// gated renders a stat that is -1 when it was not recorded.
func gated(v int) string {
	if v < 0 {
		return na
	}
	return strconv.Itoa(v)
}

// PrintPlayerTable prints one row per player of a match. If focusCode is not
// empty, that player's row is marked with ">".
func PrintPlayerTable(w io.Writer, stats []model.PlayerMatchStats, focusCode string) {
	table := newTable(w)
	table.Header(" ", "PORT", "PLAYER", "CHARACTER", "W/L", "WD", "WL",
		"L-CANCEL", "L-CANCEL%", "TECHS", "MISSED", "LOCKOUTS", "HITS", "APM", "TRIGGER", "JUMP")

	for _, s := range stats {
		marker := " "
		if focusCode != "" && s.ConnectCode == focusCode {
			marker = ">"
		}
		name := s.ConnectCode
		if name == "" {
			name = s.DisplayName
		}
		lcPct := na
		if s.LCancelAttempts > 0 {
			lcPct = fmt.Sprintf("%.0f%%", s.LCancelPct())
		}
		missed, lockouts := na, na
		if s.Techs >= 0 {
			missed = strconv.Itoa(s.MissedTechs)
			lockouts = strconv.Itoa(s.TechLockouts)
		}
		table.Append(
			marker,
			s.Port.String(),
			name,
			s.Character,
			winnerMark(s.Winner),
			strconv.Itoa(s.Wavedashes),
			strconv.Itoa(s.Wavelands),
			gated(s.LCancelAttempts),
			lcPct,
			gated(s.Techs),
			missed,
			lockouts,
			gated(s.HitsTaken),
			fmt.Sprintf("%.0f", s.APM),
			s.TriggerPref,
			s.JumpPref,
		)
	}
	table.Render()
}

// PrintLCancelTable breaks down the l-cancel attempts of each player.
func PrintLCancelTable(w io.Writer, m *model.Match) {
	table := newTable(w)
	table.Header("PORT", "CHARACTER", "ATTEMPTS", "SUCCESS", "RATE", "95% CI", "LATE", "IN HITLAG", "FASTFALL")

	for _, p := range m.Humans() {
		s := p.Stats.LCancels
		if s == nil {
			table.Append(p.Port.String(), p.Character.String(), na, na, na, na, na, na, na)
			continue
		}
		var late, hitlag, fastfall int
		for _, e := range s.Events {
			if !e.Success && e.TriggerFrame != nil && *e.TriggerFrame > 0 {
				late++
			}
			if e.DuringHitlag {
				hitlag++
			}
			if e.Fastfall {
				fastfall++
			}
		}
		ok, n := s.Successes(), len(s.Events)
		rate, ci := na, na
		if n > 0 {
			lo, hi := wilsonCI(ok, n)
			rate = fmt.Sprintf("%.0f%%", 100*float64(ok)/float64(n))
			ci = fmt.Sprintf("%.0f-%.0f%%", lo*100, hi*100)
		}
		table.Append(
			p.Port.String(),
			p.Character.String(),
			strconv.Itoa(n),
			strconv.Itoa(ok),
			rate,
			ci,
			strconv.Itoa(late),
			strconv.Itoa(hitlag),
			strconv.Itoa(fastfall),
		)
	}
	table.Render()
}

// PrintTechTable summarises each player's tech situations.
func PrintTechTable(w io.Writer, m *model.Match) {
	table := newTable(w)
	table.Header("PORT", "CHARACTER", "SITUATIONS", "MISSED", "PUNISHED", "LOCKOUTS", "JAB RESETS", "TO CENTER", "TOP OPTION")

	for _, p := range m.Humans() {
		s := p.Stats.Techs
		if s == nil {
			table.Append(p.Port.String(), p.Character.String(), na, na, na, na, na, na, na)
			continue
		}
		var punished, jabs, center, directional int
		counts := make(map[model.TechType]int)
		for _, e := range s.Events {
			counts[e.Type]++
			if e.Punished {
				punished++
			}
			if e.JabReset != nil && *e.JabReset {
				jabs++
			}
			if e.TowardsCenter != nil {
				directional++
				if *e.TowardsCenter {
					center++
				}
			}
		}
		toCenter := na
		if directional > 0 {
			toCenter = fmt.Sprintf("%.0f%%", 100*float64(center)/float64(directional))
		}
		table.Append(
			p.Port.String(),
			p.Character.String(),
			strconv.Itoa(len(s.Events)),
			strconv.Itoa(s.Missed()),
			strconv.Itoa(punished),
			strconv.Itoa(s.Lockouts()),
			strconv.Itoa(jabs),
			toCenter,
			topTech(counts),
		)
	}
	table.Render()
}

func topTech(counts map[model.TechType]int) string {
	if len(counts) == 0 {
		return na
	}
	types := make([]model.TechType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if counts[types[i]] != counts[types[j]] {
			return counts[types[i]] > counts[types[j]]
		}
		return types[i] < types[j]
	})
	return fmt.Sprintf("%s (%d)", types[0], counts[types[0]])
}

// PrintDefenseTable summarises the hits each player took and how they
// influenced them.
func PrintDefenseTable(w io.Writer, m *model.Match) {
	table := newTable(w)
	table.Header("PORT", "CHARACTER", "HITS", "AVG HITLAG", "SDI", "ASDI", "AVG DI EFF", "CC", "V-CANCEL", "KILLED", "SURVIVABLE")

	for _, p := range m.Humans() {
		s := p.Stats.Defense
		if s == nil {
			table.Append(p.Port.String(), p.Character.String(), na, na, na, na, na, na, na, na, na)
			continue
		}
		var hitlag, sdi, asdi, cc, vc, killed, survivable, launched int
		var efficacy float64
		for _, h := range s.Hits {
			hitlag += int(h.HitlagFrames)
			sdi += len(h.SDIInputs)
			if h.ASDI >= 0 {
				asdi++
			}
			if h.CrouchCancel {
				cc++
			}
			if h.VCancel {
				vc++
			}
			if h.KillsWithDI {
				killed++
				if !h.KillsAnyDI {
					survivable++
				}
			}
			if h.Knockback.X != 0 || h.Knockback.Y != 0 {
				launched++
				efficacy += float64(h.DIEfficacy)
			}
		}
		avgHitlag, avgEff := na, na
		if n := len(s.Hits); n > 0 {
			avgHitlag = fmt.Sprintf("%.1f", float64(hitlag)/float64(n))
		}
		if launched > 0 {
			avgEff = fmt.Sprintf("%.0f%%", 100*efficacy/float64(launched))
		}
		table.Append(
			p.Port.String(),
			p.Character.String(),
			strconv.Itoa(len(s.Hits)),
			avgHitlag,
			strconv.Itoa(sdi),
			strconv.Itoa(asdi),
			avgEff,
			strconv.Itoa(cc),
			strconv.Itoa(vc),
			strconv.Itoa(killed),
			strconv.Itoa(survivable),
		)
	}
	table.Render()
}

// PrintItemTable prints item usage from a decoded match.
func PrintItemTable(w io.Writer, m *model.Match) {
	var rows []storage.ItemCount
	for _, p := range m.Humans() {
		for item, n := range p.Stats.Items {
			rows = append(rows, storage.ItemCount{Port: p.Port, Item: item.String(), Count: n})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Port != rows[j].Port {
			return rows[i].Port < rows[j].Port
		}
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Item < rows[j].Item
	})
	PrintStoredItems(w, rows)
}

// PrintStoredItems prints item tallies as read back from storage.
func PrintStoredItems(w io.Writer, rows []storage.ItemCount) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No items used.")
		return
	}
	table := newTable(w)
	table.Header("PORT", "ITEM", "COUNT")
	for _, r := range rows {
		table.Append(r.Port.String(), r.Item, strconv.Itoa(r.Count))
	}
	table.Render()
}

// PrintStoredTechs prints the stored tech option counts of a match.
func PrintStoredTechs(w io.Writer, rows []storage.TechCount) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No tech situations recorded.")
		return
	}
	table := newTable(w)
	table.Header("PORT", "OPTION", "COUNT", "PUNISHED", "PUNISH%")
	for _, r := range rows {
		table.Append(
			r.Port.String(),
			r.TechType,
			strconv.Itoa(r.Count),
			strconv.Itoa(r.Punished),
			fmt.Sprintf("%.0f%%", 100*float64(r.Punished)/float64(r.Count)),
		)
	}
	table.Render()
}

// PrintPlayerAggregateOverview prints stats summed across every stored match.
func PrintPlayerAggregateOverview(w io.Writer, aggs []model.PlayerAggregate) {
	table := newTable(w)
	table.Header("PLAYER", "CODE", "MATCHES", "WINS", "WIN%", "WD/MATCH", "WL",
		"L-CANCEL%", "95% CI", "SAMPLE", "TECHS", "MISSED%", "HITS", "AVG APM")

	for _, a := range aggs {
		lcPct, ci := na, na
		if a.LCancelAttempts > 0 {
			lo, hi := wilsonCI(a.LCancelSuccess, a.LCancelAttempts)
			lcPct = fmt.Sprintf("%.0f%%", a.LCancelPct())
			ci = fmt.Sprintf("%.0f-%.0f%%", lo*100, hi*100)
		}
		missed := na
		if a.Techs > 0 {
			missed = fmt.Sprintf("%.0f%%", a.MissedTechPct())
		}
		table.Append(
			a.DisplayName,
			a.ConnectCode,
			strconv.Itoa(a.Matches),
			strconv.Itoa(a.Wins),
			fmt.Sprintf("%.0f%%", a.WinPct()),
			fmt.Sprintf("%.1f", a.WavedashesPerMatch()),
			strconv.Itoa(a.Wavelands),
			lcPct,
			ci,
			sampleFlag(a.LCancelAttempts),
			strconv.Itoa(a.Techs),
			missed,
			strconv.Itoa(a.HitsTaken),
			fmt.Sprintf("%.0f", a.AvgAPM),
		)
	}
	table.Render()
}

// PrintTrendTable prints one row per stored match of a player, oldest first,
// with a rolling l-cancel rate over the last window matches.
func PrintTrendTable(w io.Writer, rows []model.PlayerMatchStats, window int) {
	table := newTable(w)
	table.Header("DATE", "MATCH", "CHARACTER", "W/L", "WD", "L-CANCEL%", fmt.Sprintf("ROLL%d L-CANCEL%%", window), "MISSED TECH%", "APM")

	for i, s := range rows {
		lcPct := na
		if s.LCancelAttempts > 0 {
			lcPct = fmt.Sprintf("%.0f%%", s.LCancelPct())
		}
		missed := na
		if s.Techs > 0 {
			missed = fmt.Sprintf("%.0f%%", s.MissedTechPct())
		}
		date := s.PlayedAt
		if len(date) > 10 {
			date = date[:10]
		}
		hash := s.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		table.Append(
			date,
			hash,
			s.Character,
			winnerMark(s.Winner),
			strconv.Itoa(s.Wavedashes),
			lcPct,
			rollingLCancel(rows, i, window),
			missed,
			fmt.Sprintf("%.0f", s.APM),
		)
	}
	table.Render()
}

// rollingLCancel pools the l-cancel attempts of rows (i-window, i].
func rollingLCancel(rows []model.PlayerMatchStats, i, window int) string {
	var ok, n int
	for j := max(0, i-window+1); j <= i; j++ {
		if rows[j].LCancelAttempts > 0 {
			ok += rows[j].LCancelSuccess
			n += rows[j].LCancelAttempts
		}
	}
	if n == 0 {
		return na
	}
	return fmt.Sprintf("%.0f%%", 100*float64(ok)/float64(n))
}

func sampleFlag(n int) string {
	switch {
	case n >= 50:
		return "OK"
	case n >= 20:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}
