package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
)

func TestWilsonCI(t *testing.T) {
	lo, hi := wilsonCI(0, 0)
	if lo != 0 || hi != 1 {
		t.Errorf("empty sample = (%v, %v), want (0, 1)", lo, hi)
	}
	lo, hi = wilsonCI(50, 100)
	if lo > 0.5 || hi < 0.5 || lo < 0.39 || hi > 0.61 {
		t.Errorf("50/100 = (%v, %v)", lo, hi)
	}
}

func TestRollingLCancel(t *testing.T) {
	rows := []model.PlayerMatchStats{
		{LCancelAttempts: 10, LCancelSuccess: 10},
		{LCancelAttempts: -1},
		{LCancelAttempts: 10, LCancelSuccess: 0},
	}
	if got := rollingLCancel(rows, 2, 3); got != "50%" {
		t.Errorf("window 3 = %s, want 50%%", got)
	}
	if got := rollingLCancel(rows, 2, 1); got != "0%" {
		t.Errorf("window 1 = %s, want 0%%", got)
	}
	if got := rollingLCancel(rows, 1, 1); got != na {
		t.Errorf("ungated window = %s, want %s", got, na)
	}
}

func TestPrintPlayerTableMarksUngatedStats(t *testing.T) {
	win := true
	var buf bytes.Buffer
	PrintPlayerTable(&buf, []model.PlayerMatchStats{
		{Port: 0, ConnectCode: "ABC#1", Character: "Fox", Winner: &win, LCancelAttempts: -1, Techs: -1, HitsTaken: -1},
	}, "ABC#1")

	out := buf.String()
	for _, want := range []string{"ABC#1", "Fox", na, ">", "P1"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestTopTech(t *testing.T) {
	counts := map[model.TechType]int{model.TechInPlace: 2, model.TechLeft: 2, model.MissedTechRollRight: 1}
	if got := topTech(counts); got != model.TechInPlace.String()+" (2)" {
		t.Errorf("topTech = %s", got)
	}
	if got := topTech(nil); got != na {
		t.Errorf("topTech(nil) = %s", got)
	}
}

func TestPrintItemTable(t *testing.T) {
	m := &model.Match{Players: []*model.Player{
		{Port: 1, Type: model.PlayerHuman, Stats: model.Stats{Items: model.ItemCounts{melee.ItemBeamSword: 3}}},
	}}
	var buf bytes.Buffer
	PrintItemTable(&buf, m)
	if !strings.Contains(buf.String(), melee.ItemBeamSword.String()) || !strings.Contains(buf.String(), "P2") {
		t.Errorf("item table:\n%s", buf.String())
	}

	buf.Reset()
	PrintItemTable(&buf, &model.Match{})
	if !strings.Contains(buf.String(), "No items used.") {
		t.Errorf("empty item table = %q", buf.String())
	}
}
