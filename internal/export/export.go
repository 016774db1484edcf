// Package export writes decoded frame tables to Parquet files for analysis
// in columnar query engines.
package export

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/pable/slpstats/internal/model"
)

// FrameRecord is one row of the frames file: one character on one frame.
type FrameRecord struct {
	MatchHash   string  `parquet:"name=match_hash, type=BYTE_ARRAY, convertedtype=UTF8"`
	Port        int32   `parquet:"name=port, type=INT32"`
	Follower    bool    `parquet:"name=follower, type=BOOLEAN"`
	Frame       int32   `parquet:"name=frame, type=INT32"`
	Character   string  `parquet:"name=character, type=BYTE_ARRAY, convertedtype=UTF8"`
	ActionState int32   `parquet:"name=action_state, type=INT32"`
	StateName   string  `parquet:"name=state_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	X           float32 `parquet:"name=x, type=FLOAT"`
	Y           float32 `parquet:"name=y, type=FLOAT"`
	Facing      float32 `parquet:"name=facing, type=FLOAT"`
	Percent     float32 `parquet:"name=percent, type=FLOAT"`
	Shield      float32 `parquet:"name=shield, type=FLOAT"`
	Stocks      int32   `parquet:"name=stocks, type=INT32"`
	JoystickX   float32 `parquet:"name=joystick_x, type=FLOAT"`
	JoystickY   float32 `parquet:"name=joystick_y, type=FLOAT"`
	CstickX     float32 `parquet:"name=cstick_x, type=FLOAT"`
	CstickY     float32 `parquet:"name=cstick_y, type=FLOAT"`
	Trigger     float32 `parquet:"name=trigger, type=FLOAT"`
	Buttons     int64   `parquet:"name=buttons, type=INT64"`
	Grounded    bool    `parquet:"name=grounded, type=BOOLEAN"`
	Flags       int64   `parquet:"name=flags, type=INT64"`
	LastAttack  string  `parquet:"name=last_attack_landed, type=BYTE_ARRAY, convertedtype=UTF8"`
	KnockbackX  float32 `parquet:"name=knockback_x, type=FLOAT"`
	KnockbackY  float32 `parquet:"name=knockback_y, type=FLOAT"`
	Hitlag      float32 `parquet:"name=hitlag_remaining, type=FLOAT"`
}

// Records flattens a frame table into rows.
func Records(hash string, port model.Port, f *model.Frames) []FrameRecord {
	n := f.Len()
	out := make([]FrameRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, FrameRecord{
			MatchHash:   hash,
			Port:        int32(port),
			Follower:    f.IsPartner(),
			Frame:       f.Post.FrameNumber[i],
			Character:   f.Post.Character[i].String(),
			ActionState: int32(f.Post.ActionState[i]),
			StateName:   f.Post.ActionState[i].String(),
			X:           f.Post.PositionX[i],
			Y:           f.Post.PositionY[i],
			Facing:      f.Post.Orientation[i],
			Percent:     f.Post.Percent[i],
			Shield:      f.Post.ShieldHealth[i],
			Stocks:      int32(f.Post.Stocks[i]),
			JoystickX:   f.Pre.JoystickX[i],
			JoystickY:   f.Pre.JoystickY[i],
			CstickX:     f.Pre.CstickX[i],
			CstickY:     f.Pre.CstickY[i],
			Trigger:     f.Pre.Trigger[i],
			Buttons:     int64(f.Pre.EngineButtons[i]),
			Grounded:    f.Post.IsGrounded[i],
			Flags:       int64(f.Post.Flags[i]),
			LastAttack:  f.Post.LastAttackLanded[i].String(),
			KnockbackX:  f.Post.KnockbackX[i],
			KnockbackY:  f.Post.KnockbackY[i],
			Hitlag:      f.Post.HitlagRemaining[i],
		})
	}
	return out
}

// WriteFrames writes every frame table of the match, partners included, to a
// Parquet file at path and returns the number of rows written.
func WriteFrames(path string, m *model.Match) (int, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(FrameRecord), 4)
	if err != nil {
		return 0, fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	rows := 0
	for _, p := range m.Players {
		tables := []*model.Frames{p.Frames}
		if p.Partner != nil {
			tables = append(tables, p.Partner)
		}
		for _, f := range tables {
			for _, rec := range Records(m.Hash, p.Port, f) {
				if err := pw.Write(rec); err != nil {
					return rows, fmt.Errorf("write frame %d of %s: %w", rec.Frame, p.Port, err)
				}
				rows++
			}
		}
	}
	if err := pw.WriteStop(); err != nil {
		return rows, fmt.Errorf("finish parquet file: %w", err)
	}
	return rows, nil
}
