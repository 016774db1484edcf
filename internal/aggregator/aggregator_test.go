package aggregator

import (
	"errors"
	"testing"
	"time"

	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
	"github.com/pable/slpstats/internal/parser"
	"github.com/pable/slpstats/internal/replaytest"
)

// makeMatch builds a two player match of n frames where both players end
// with the given stocks and percent.
func makeMatch(version string, n int, stocks [2]uint8, percent [2]float32) *model.Match {
	m := &model.Match{
		Hash:        "testhash",
		Start:       model.GameStart{Version: model.MustVersion(version), Stage: melee.FinalDestination},
		TotalFrames: n,
		Items:       &model.ItemFrames{},
	}
	for i, c := range []melee.Character{melee.Fox, melee.Marth} {
		f := model.NewFrames(n)
		f.Resize(n)
		for r := 0; r < n; r++ {
			f.Post.Stocks[r] = stocks[i]
			f.Post.Percent[r] = percent[i]
		}
		m.Players = append(m.Players, &model.Player{
			Port:        model.Port(i),
			Character:   c,
			ConnectCode: []string{"AAA#1", "BBB#2"}[i],
			Frames:      f,
		})
	}
	return m
}

func winner(p *model.Player) string {
	if p.Winner == nil {
		return "nil"
	}
	if *p.Winner {
		return "win"
	}
	return "loss"
}

func TestAnalyzeVersionGates(t *testing.T) {
	cases := []struct {
		version                  string
		lcancel, tech, def, item bool
	}{
		{"1.0.0", false, false, false, false},
		{"2.0.0", true, true, false, false},
		{"3.5.0", true, true, true, false},
		{"3.6.0", true, true, true, true},
	}
	for _, c := range cases {
		m := makeMatch(c.version, 30, [2]uint8{4, 4}, [2]float32{0, 0})
		if err := Analyze(m); err != nil {
			t.Fatalf("%s: Analyze: %v", c.version, err)
		}
		s := m.Players[0].Stats
		if (s.LCancels != nil) != c.lcancel || (s.Techs != nil) != c.tech ||
			(s.Defense != nil) != c.def || (s.Items != nil) != c.item {
			t.Errorf("%s: lcancel %v tech %v defense %v items %v", c.version,
				s.LCancels != nil, s.Techs != nil, s.Defense != nil, s.Items != nil)
		}
	}
}

func TestAnalyzeRejectsPlayerCount(t *testing.T) {
	m := makeMatch("3.16.0", 10, [2]uint8{4, 4}, [2]float32{})
	m.Players[1].Type = model.PlayerCPU
	if err := Analyze(m); !errors.Is(err, model.ErrUnsupportedPlayerCount) {
		t.Errorf("err = %v, want ErrUnsupportedPlayerCount", err)
	}
	if err := Analyze(nil); err == nil {
		t.Error("nil match should fail")
	}
}

func TestResolveWinners(t *testing.T) {
	p2 := model.P2
	cases := []struct {
		name    string
		stocks  [2]uint8
		percent [2]float32
		end     *model.GameEnd
		want    [2]string
	}{
		{"more stocks", [2]uint8{2, 1}, [2]float32{90, 10}, nil, [2]string{"win", "loss"}},
		{"percent tie after flooring", [2]uint8{1, 1}, [2]float32{80.9, 80.2}, nil, [2]string{"nil", "nil"}},
		{"floored percent decides", [2]uint8{1, 1}, [2]float32{79.9, 80.2}, nil, [2]string{"win", "loss"}},
		{"quit out loses", [2]uint8{1, 4}, [2]float32{}, &model.GameEnd{Method: model.EndNoContest, LRASInitiator: &p2}, [2]string{"win", "loss"}},
		{"placements", [2]uint8{1, 4}, [2]float32{}, &model.GameEnd{
			Method:     model.EndStocks,
			Placements: map[model.Port]model.Placement{model.P1: model.PlacementWin, model.P2: model.PlacementLoss},
		}, [2]string{"win", "loss"}},
		{"single placement", [2]uint8{4, 4}, [2]float32{}, &model.GameEnd{
			Method:     model.EndStocks,
			Placements: map[model.Port]model.Placement{model.P2: model.PlacementWin},
		}, [2]string{"loss", "win"}},
		{"timeout by stocks", [2]uint8{3, 2}, [2]float32{}, &model.GameEnd{Method: model.EndTimeout}, [2]string{"win", "loss"}},
	}
	for _, c := range cases {
		m := makeMatch("3.16.0", 5, c.stocks, c.percent)
		m.End = c.end
		if err := Analyze(m); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		got := [2]string{winner(m.Players[0]), winner(m.Players[1])}
		if got != c.want {
			t.Errorf("%s: winners = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestPlayerRowsMarksMissingStats(t *testing.T) {
	m := makeMatch("1.5.0", 10, [2]uint8{4, 3}, [2]float32{})
	if err := Analyze(m); err != nil {
		t.Fatal(err)
	}
	rows := PlayerRows(m)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	r := rows[0]
	if r.Port != model.P1 || r.Character != "Fox" || r.ConnectCode != "AAA#1" {
		t.Errorf("row = %+v", r)
	}
	if r.LCancelAttempts != -1 || r.Techs != -1 || r.HitsTaken != -1 {
		t.Errorf("ungated stats should be -1: %+v", r)
	}
	if r.Winner == nil || !*r.Winner {
		t.Errorf("P1 with more stocks should win")
	}
}

func TestAnalyzeDecodedReplay(t *testing.T) {
	b := replaytest.New(3, 16, 0).
		Player(0, 2, "ABC#123", "Alpha").
		Player(1, 9, "XYZ#9", "Zeta")
	b.StartAt = "2024-03-01T01:02:03Z"
	for i := 0; i < 40; i++ {
		frame := model.FirstFrame + int32(i)
		state := uint16(melee.Wait)
		if i == 30 || i == 31 {
			state = uint16(melee.LandFallSpecial)
		}
		b.Frame(
			replaytest.Pre{Frame: frame, Port: 0, State: state, JoyY: -1},
			replaytest.Post{Frame: frame, Port: 0, Character: 1, State: state, Stocks: 4},
		)
		b.Frame(
			replaytest.Pre{Frame: frame, Port: 1, State: uint16(melee.Wait)},
			replaytest.Post{Frame: frame, Port: 1, Character: 18, State: uint16(melee.Wait), Stocks: 3},
		)
	}
	b.End(2, -1, [4]int8{0, 1, -1, -1})

	m, err := parser.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := Analyze(m); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	fox := m.Players[0]
	if len(fox.Stats.Wavedashes) != 1 || !fox.Stats.Wavedashes[0].Waveland {
		t.Errorf("wavedashes = %+v, want one waveland", fox.Stats.Wavedashes)
	}
	if !fox.IsWinner() || m.Players[1].IsWinner() {
		t.Error("P1 placed first")
	}

	s := Summary(m)
	if s.Players != "ABC#123 (Fox) vs XYZ#9 (Marth)" {
		t.Errorf("Players = %q", s.Players)
	}
	if s.EndMethod != "GAME" || s.Version != "3.16.0" || s.TotalFrames != 40 {
		t.Errorf("summary = %+v", s)
	}
	if want := time.Date(2024, 3, 1, 1, 2, 3, 0, time.UTC).Format(time.RFC3339); s.PlayedAt != want {
		t.Errorf("PlayedAt = %q, want %q", s.PlayedAt, want)
	}
}
