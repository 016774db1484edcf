package parser

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
	"github.com/pable/slpstats/internal/replaytest"
)

func int32p(v int32) *int32 { return &v }

// twoPlayerReplay builds a Fox (port 1) vs Marth (port 2) netplay game with
// n frames starting at the first frame.
func twoPlayerReplay(n int) *replaytest.Builder {
	b := replaytest.New(3, 16, 0).
		Player(0, 2, "ABC#123", "Alpha").
		Player(1, 9, "XYZ#9", "Zeta")
	b.MatchID = "mode.ranked-2024-03-01T01:02:03.00-0"
	b.IsNetplay = true
	b.StartAt = "2024-03-01T01:02:03Z"
	b.PlayedOn = "dolphin"
	for i := 0; i < n; i++ {
		frame := model.FirstFrame + int32(i)
		for port := uint8(0); port < 2; port++ {
			b.Frame(
				replaytest.Pre{Frame: frame, Port: port, State: 14, JoyX: 0.5, Percent: 1},
				replaytest.Post{Frame: frame, Port: port, Character: 1, State: 14, X: float32(i), Stocks: 4, Percent: 1, Shield: 60, LCancel: 1},
			)
		}
	}
	b.LastFrame = int32p(model.FirstFrame + int32(n-1))
	return b
}

func TestParseTwoPlayers(t *testing.T) {
	b := twoPlayerReplay(5)
	b.End(2, -1, [4]int8{0, 1, -1, -1})

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.TotalFrames != 5 {
		t.Fatalf("TotalFrames = %d, want 5", m.TotalFrames)
	}
	if len(m.Players) != 2 {
		t.Fatalf("players = %d, want 2", len(m.Players))
	}
	for _, p := range m.Players {
		if p.Frames.Len() != m.TotalFrames || len(p.Frames.Pre.Percent) != m.TotalFrames || len(p.Frames.Post.InstanceID) != m.TotalFrames {
			t.Errorf("port %s: table length %d, want %d", p.Port, p.Frames.Len(), m.TotalFrames)
		}
		if p.Partner != nil {
			t.Errorf("port %s has a partner table", p.Port)
		}
	}

	fox := m.Players[0]
	if fox.Character != melee.Fox || fox.ConnectCode != "ABC#123" || fox.DisplayName != "Alpha" {
		t.Errorf("port 1 = %v %q %q", fox.Character, fox.ConnectCode, fox.DisplayName)
	}
	if fox.DashbackFix != model.FixUCF {
		t.Errorf("dashback fix = %v, want UCF", fox.DashbackFix)
	}
	if got := fox.Frames.Post.PositionX[4]; got != 4 {
		t.Errorf("post x at row 4 = %v, want 4", got)
	}
	if got := fox.Frames.Post.FrameNumber[2]; got != model.FirstFrame+2 {
		t.Errorf("frame number at row 2 = %d", got)
	}
	if fox.Frames.Post.LCancel[0] != model.LCancelSuccess {
		t.Errorf("lcancel = %v", fox.Frames.Post.LCancel[0])
	}
	if !fox.Frames.Post.IsGrounded[0] {
		t.Error("grounded flag should be set when the airborne byte is 0")
	}

	if m.Start.MatchType != model.MatchRanked || !m.Start.IsNetplay() {
		t.Errorf("match type %v netplay %v", m.Start.MatchType, m.Start.IsNetplay())
	}
	if m.Start.Version != (model.Version{Major: 3, Minor: 16}) {
		t.Errorf("version = %v", m.Start.Version)
	}
	if m.Start.Stage != melee.FinalDestination {
		t.Errorf("stage = %v", m.Start.Stage)
	}
	if m.Metadata.PlayedOn != "dolphin" || m.Metadata.StartAt.Year() != 2024 {
		t.Errorf("metadata = %+v", m.Metadata)
	}
	if len(m.Hash) != 64 {
		t.Errorf("hash %q is not a sha256 hex digest", m.Hash)
	}
}

func TestParseGameEndPlacements(t *testing.T) {
	b := twoPlayerReplay(2)
	b.End(7, 1, [4]int8{0, -1, -1, -1})

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.End == nil {
		t.Fatal("End = nil")
	}
	if m.End.Method != model.EndNoContest {
		t.Errorf("method = %v", m.End.Method)
	}
	if m.End.LRASInitiator == nil || *m.End.LRASInitiator != model.P2 {
		t.Errorf("lras = %v, want P2", m.End.LRASInitiator)
	}
	if len(m.End.Placements) != 1 || m.End.Placements[model.P1] != model.PlacementWin {
		t.Errorf("placements = %v, want only P1 WIN", m.End.Placements)
	}
}

func TestParseOlderGameEnd(t *testing.T) {
	b := twoPlayerReplay(2)
	b.GameEndSize = 1
	b.End(2, 0, [4]int8{0, 1, 2, 3})

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.End.LRASInitiator != nil || len(m.End.Placements) != 0 {
		t.Errorf("short game end decoded lras %v placements %v", m.End.LRASInitiator, m.End.Placements)
	}
}

func TestParseUnknownEndMethod(t *testing.T) {
	b := twoPlayerReplay(1)
	b.End(5, -1, [4]int8{-1, -1, -1, -1})

	_, err := Parse(b.Bytes())
	var enumErr *UnknownEnumError
	if !errors.As(err, &enumErr) {
		t.Fatalf("err = %v, want UnknownEnumError", err)
	}
	if enumErr.Value != 5 {
		t.Errorf("value = %d, want 5", enumErr.Value)
	}
}

func TestParseOlderFramePayloads(t *testing.T) {
	b := twoPlayerReplay(3)
	// 1.0.0 pre frames stop before raw analog x, and 0.2.0 post frames stop
	// before the state bit flags.
	b.Version = [3]uint8{1, 0, 0}
	b.PreSize = 58
	b.PostSize = 37
	b.GameStartSize = 320

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := m.Players[0]
	if !math.IsNaN(float64(p.Frames.Pre.Percent[0])) {
		t.Errorf("pre percent = %v, want NaN", p.Frames.Pre.Percent[0])
	}
	if p.Frames.Post.LCancel[0] != model.LCancelNotApplicable {
		t.Errorf("lcancel = %v, want not applicable", p.Frames.Post.LCancel[0])
	}
	if p.Frames.Post.Flags[0] != 0 || p.Frames.Post.HitlagRemaining[0] != 0 {
		t.Error("missing post fields should be zero")
	}
	if p.Frames.Post.Stocks[0] != 4 {
		t.Errorf("stocks = %d, want 4", p.Frames.Post.Stocks[0])
	}
	if m.Start.IsPAL || m.Start.MatchType != model.MatchUnknown || p.DashbackFix != model.FixUnknown {
		t.Errorf("short game start defaults: pal %v type %v fix %v", m.Start.IsPAL, m.Start.MatchType, p.DashbackFix)
	}
	// names come from the metadata block when the game start has none
	if p.ConnectCode != "ABC#123" || p.DisplayName != "Alpha" {
		t.Errorf("identity from metadata = %q %q", p.ConnectCode, p.DisplayName)
	}
}

func TestParseSkipsUnknownEvents(t *testing.T) {
	b := twoPlayerReplay(2)
	b.Unknown(0x50, []byte{1, 2, 3, 4, 5})
	b.Frame(
		replaytest.Pre{Frame: model.FirstFrame + 2, Port: 0},
		replaytest.Post{Frame: model.FirstFrame + 2, Port: 0, X: 42},
	)
	b.LastFrame = int32p(model.FirstFrame + 2)

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := m.Players[0].Frames.Post.PositionX[2]; got != 42 {
		t.Errorf("event after unknown code decoded x = %v, want 42", got)
	}
}

func TestParseMalformed(t *testing.T) {
	good := twoPlayerReplay(3).Bytes()

	// header with a five byte raw region holding only the catalog
	noStart := append(append([]byte{}, good[:11]...), 0, 0, 0, 5, 0x35, 4, 0x36, 0x02, 0xF8)

	tests := map[string][]byte{
		"empty":         nil,
		"bad magic":     append([]byte{0, 0}, good[2:]...),
		"truncated":     good[:len(good)/2],
		"no game start": noStart,
	}
	for name, data := range tests {
		if _, err := Parse(data); !errors.Is(err, ErrMalformedContainer) {
			t.Errorf("%s: err = %v, want ErrMalformedContainer", name, err)
		}
	}

	b := twoPlayerReplay(1)
	b.Raw([]byte{0x99, 0, 0, 0})
	if _, err := Parse(b.Bytes()); !errors.Is(err, ErrMalformedContainer) {
		t.Errorf("uncatalogued event: err = %v, want ErrMalformedContainer", err)
	}
}

func TestParseRollbackOverwrites(t *testing.T) {
	b := twoPlayerReplay(3)
	b.Frame(
		replaytest.Pre{Frame: model.FirstFrame + 1, Port: 0},
		replaytest.Post{Frame: model.FirstFrame + 1, Port: 0, X: 99, Stocks: 4},
	)

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.TotalFrames != 3 {
		t.Fatalf("TotalFrames = %d, want 3", m.TotalFrames)
	}
	if got := m.Players[0].Frames.Post.PositionX[1]; got != 99 {
		t.Errorf("rolled back frame x = %v, want the later write 99", got)
	}
}

func TestParseDropsFramesPastLastFrame(t *testing.T) {
	b := twoPlayerReplay(6)
	b.LastFrame = int32p(model.FirstFrame + 3)

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.TotalFrames != 4 || m.Players[1].Frames.Len() != 4 {
		t.Errorf("TotalFrames = %d, rows = %d, want 4", m.TotalFrames, m.Players[1].Frames.Len())
	}
}

func TestParseRejectsFrameBeyondStream(t *testing.T) {
	b := twoPlayerReplay(1)
	b.Frame(
		replaytest.Pre{Frame: 5_000_000, Port: 0},
		replaytest.Post{Frame: 5_000_000, Port: 0, Stocks: 4},
	)

	if _, err := Parse(b.Bytes()); !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("err = %v, want ErrMalformedContainer", err)
	}
}

func TestParseIgnoresInflatedLastFrame(t *testing.T) {
	b := twoPlayerReplay(3)
	b.LastFrame = int32p(8_000_000)

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.TotalFrames != 3 {
		t.Fatalf("TotalFrames = %d, want the 3 frames in the stream", m.TotalFrames)
	}
	for _, p := range m.Players {
		if p.Frames.Len() != 3 {
			t.Errorf("port %s: rows = %d, want 3", p.Port, p.Frames.Len())
		}
	}
}

func TestParseStreamingReplay(t *testing.T) {
	b := twoPlayerReplay(4)
	b.Streaming = true

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.TotalFrames != 4 {
		t.Errorf("TotalFrames = %d, want 4 from the frame events", m.TotalFrames)
	}
	if m.Metadata.LastFrame != nil {
		t.Error("streaming replay should have no metadata")
	}
}

func TestParseIceClimbersPartner(t *testing.T) {
	b := replaytest.New(3, 16, 0).
		Player(0, melee.IceClimbersCSS, "ICE#1", "").
		Player(1, 2, "FOX#2", "")
	for i := 0; i < 4; i++ {
		frame := model.FirstFrame + int32(i)
		b.Frame(replaytest.Pre{Frame: frame, Port: 0}, replaytest.Post{Frame: frame, Port: 0, Character: 10, Stocks: 4})
		b.Frame(replaytest.Pre{Frame: frame, Port: 1}, replaytest.Post{Frame: frame, Port: 1, Character: 1, Stocks: 4})
		// Nana only exists for the first two frames
		if i < 2 {
			b.Frame(
				replaytest.Pre{Frame: frame, Port: 0, Follower: true},
				replaytest.Post{Frame: frame, Port: 0, Follower: true, Character: 11, State: 14, Percent: 12},
			)
		}
	}
	b.LastFrame = int32p(model.FirstFrame + 3)

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ics := m.Players[0]
	if ics.Partner == nil {
		t.Fatal("ice climbers have no partner table")
	}
	if ics.Partner.Len() != ics.Frames.Len() {
		t.Fatalf("partner rows %d, leader rows %d", ics.Partner.Len(), ics.Frames.Len())
	}
	if ics.Partner.Post.Percent[1] != 12 {
		t.Errorf("partner percent at row 1 = %v, want 12", ics.Partner.Post.Percent[1])
	}
	if ics.Partner.Post.ActionState[3] != melee.Sleep || ics.Partner.Post.Percent[3] != -1 {
		t.Errorf("unwritten partner row = %v %v, want inactive defaults", ics.Partner.Post.ActionState[3], ics.Partner.Post.Percent[3])
	}
	if ics.Frames.Post.Percent[1] == 12 {
		t.Error("follower row was written to the leader table")
	}
}

func TestParseCPUIsPlayerButNotHuman(t *testing.T) {
	b := replaytest.New(3, 16, 0).Player(0, 2, "", "").CPU(2, 9)
	b.Frame(replaytest.Pre{Frame: model.FirstFrame, Port: 2}, replaytest.Post{Frame: model.FirstFrame, Port: 2})

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Players) != 2 || m.Players[1].Port != model.P3 || m.Players[1].Type != model.PlayerCPU {
		t.Fatalf("players = %+v", m.Players)
	}
	if err := m.CheckAnalyzable(); !errors.Is(err, model.ErrUnsupportedPlayerCount) {
		t.Errorf("CheckAnalyzable = %v, want ErrUnsupportedPlayerCount", err)
	}
}

func TestParseItems(t *testing.T) {
	b := twoPlayerReplay(2)
	b.Item(replaytest.Item{Frame: model.FirstFrame, Type: uint16(melee.ItemPeachTurnip), SpawnID: 7, Turnip: 3, Owner: 1})
	b.Item(replaytest.Item{Frame: model.FirstFrame + 1, Type: uint16(melee.ItemFoxLaser), SpawnID: 8, Owner: 0})

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	it := m.Items
	if it.Len() != 2 {
		t.Fatalf("item rows = %d, want 2", it.Len())
	}
	if it.Owner[0] != 1 || it.SubType(0) != 3 || it.SpawnID[0] != 7 {
		t.Errorf("row 0 owner %d sub %d spawn %d", it.Owner[0], it.SubType(0), it.SpawnID[0])
	}
	if it.Type[1] != melee.ItemFoxLaser || it.Owner[1] != 0 {
		t.Errorf("row 1 type %v owner %d", it.Type[1], it.Owner[1])
	}

	// 3.0.0 item payloads end before the misc bytes and the owner
	old := twoPlayerReplay(1)
	old.ItemSize = 37
	old.Item(replaytest.Item{Frame: model.FirstFrame, Type: uint16(melee.ItemPeachTurnip), SpawnID: 9, Turnip: 3, Owner: 1})
	m, err = Parse(old.Bytes())
	if err != nil {
		t.Fatalf("Parse(old): %v", err)
	}
	if m.Items.Owner[0] != -1 || m.Items.SubType(0) != 0 {
		t.Errorf("short item payload owner %d sub %d, want -1 and 0", m.Items.Owner[0], m.Items.SubType(0))
	}
}

func TestParseFileCompressed(t *testing.T) {
	dir := t.TempDir()
	data := twoPlayerReplay(3).Bytes()

	plain := filepath.Join(dir, "game.slp")
	if err := os.WriteFile(plain, data, 0o644); err != nil {
		t.Fatal(err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	packed := filepath.Join(dir, "game.slp.zst")
	if err := os.WriteFile(packed, enc.EncodeAll(data, nil), 0o644); err != nil {
		t.Fatal(err)
	}
	enc.Close()

	a, err := ParseFile(plain)
	if err != nil {
		t.Fatalf("ParseFile(plain): %v", err)
	}
	z, err := ParseFile(packed)
	if err != nil {
		t.Fatalf("ParseFile(zst): %v", err)
	}
	if a.Hash != z.Hash {
		t.Errorf("compressed and plain hashes differ: %s vs %s", a.Hash, z.Hash)
	}
	if z.Path != packed || z.TotalFrames != 3 {
		t.Errorf("path %q frames %d", z.Path, z.TotalFrames)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.slp")); err == nil {
		t.Error("ParseFile on a missing file should fail")
	}
}

func TestIsReplay(t *testing.T) {
	for path, want := range map[string]bool{
		"Game_20240301.slp": true,
		"/a/b/GAME.SLP":     true,
		"game.slp.zst":      true,
		"notes.txt":         false,
		"game.slp.bak":      false,
	} {
		if got := IsReplay(path); got != want {
			t.Errorf("IsReplay(%q) = %v, want %v", path, got, want)
		}
	}
}
