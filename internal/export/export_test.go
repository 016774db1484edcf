package export

import (
	"path/filepath"
	"testing"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
	"github.com/pable/slpstats/internal/parser"
	"github.com/pable/slpstats/internal/replaytest"
)

func decoded(t *testing.T, frames int) *model.Match {
	t.Helper()
	b := replaytest.New(3, 16, 0).
		Player(0, 2, "ABC#1", "Alpha").
		Player(1, 9, "XYZ#2", "Zeta")
	for i := 0; i < frames; i++ {
		frame := model.FirstFrame + int32(i)
		b.Frame(
			replaytest.Pre{Frame: frame, Port: 0, State: uint16(melee.Wait), JoyX: 0.5},
			replaytest.Post{Frame: frame, Port: 0, Character: 1, State: uint16(melee.Wait), X: float32(i), Stocks: 4, Percent: 12},
		)
		b.Frame(
			replaytest.Pre{Frame: frame, Port: 1, State: uint16(melee.Wait)},
			replaytest.Post{Frame: frame, Port: 1, Character: 18, State: uint16(melee.Wait), Stocks: 3},
		)
	}
	m, err := parser.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return m
}

func TestRecords(t *testing.T) {
	m := decoded(t, 3)
	recs := Records(m.Hash, m.Players[0].Port, m.Players[0].Frames)
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	r := recs[2]
	if r.Frame != model.FirstFrame+2 || r.X != 2 || r.Stocks != 4 || r.Percent != 12 || r.JoystickX != 0.5 {
		t.Errorf("record = %+v", r)
	}
	if r.Character != melee.Fox.String() || r.StateName != melee.Wait.String() || r.Follower {
		t.Errorf("record names = %+v", r)
	}
}

func TestWriteFramesRoundTrip(t *testing.T) {
	m := decoded(t, 5)
	path := filepath.Join(t.TempDir(), "frames.parquet")

	n, err := WriteFrames(path, m)
	if err != nil {
		t.Fatalf("WriteFrames: %v", err)
	}
	if n != 10 {
		t.Fatalf("wrote %d rows, want 10", n)
	}

	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(FrameRecord), 1)
	if err != nil {
		t.Fatalf("NewParquetReader: %v", err)
	}
	defer pr.ReadStop()

	if got := pr.GetNumRows(); got != 10 {
		t.Fatalf("file has %d rows, want 10", got)
	}
	rows := make([]FrameRecord, 10)
	if err := pr.Read(&rows); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rows[0].MatchHash != m.Hash || rows[0].Port != 0 || rows[9].Port != 1 || rows[9].Stocks != 3 {
		t.Errorf("first = %+v, last = %+v", rows[0], rows[9])
	}
}
