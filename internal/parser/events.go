package parser

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/japanese"

	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
)

// Game start layout. Offsets are relative to the payload, after the command byte.
const (
	gsIsTeams        = 12
	gsStage          = 18
	gsTimer          = 20
	gsDamageRatio    = 52
	gsPorts          = 100
	gsPortStride     = 36
	gsRandomSeed     = 316
	gsFixes          = 320
	gsNametags       = 352
	gsNametagLen     = 16
	gsIsPAL          = 416
	gsIsFrozenPS     = 417
	gsMinorScene     = 418
	gsMajorScene     = 419
	gsDisplayNames   = 420
	gsDisplayNameLen = 31
	gsConnectCodes   = 544
	gsConnectCodeLen = 10
	gsSlippiUIDs     = 584
	gsSlippiUIDLen   = 29
	gsLanguage       = 700
	gsMatchID        = 701
	gsMatchIDLen     = 51
	gsGameNumber     = 752
	gsTiebreak       = 756
)

func decodeGameStart(p payload) (model.GameStart, error) {
	if len(p) < gsRandomSeed+4 {
		return model.GameStart{}, fmt.Errorf("game start payload of %d bytes: %w", len(p), ErrMalformedContainer)
	}
	gs := model.GameStart{
		Version:        model.Version{Major: p.u8(0, 0), Minor: p.u8(1, 0), Build: p.u8(2, 0)},
		IsTeams:        p.flag(gsIsTeams, false),
		Stage:          melee.StageID(p.u16(gsStage, 0)),
		Timer:          p.u32(gsTimer, 0),
		DamageRatio:    p.f32(gsDamageRatio, 1),
		RandomSeed:     p.u32(gsRandomSeed, 0),
		IsPAL:          p.flag(gsIsPAL, false),
		IsFrozenPS:     p.flag(gsIsFrozenPS, false),
		MinorScene:     p.u8(gsMinorScene, 0),
		MajorScene:     p.u8(gsMajorScene, 0),
		Language:       p.u8(gsLanguage, 0),
		MatchID:        text(p.bytes(gsMatchID, gsMatchIDLen)),
		GameNumber:     p.u32(gsGameNumber, 0),
		TiebreakNumber: p.u32(gsTiebreak, 0),
	}
	gs.MatchType = model.MatchTypeFromID(gs.MatchID)

	for i := range gs.Ports {
		base := gsPorts + gsPortStride*i
		t := model.PlayerType(p.u8(base+1, uint8(model.PlayerEmpty)))
		if t > model.PlayerEmpty {
			t = model.PlayerEmpty
		}
		gs.Ports[i] = model.PortStart{
			CharacterCSS:  p.u8(base, 0),
			Type:          t,
			Stocks:        p.u8(base+2, 0),
			Costume:       p.u8(base+3, 0),
			DashbackFix:   controllerFix(p.u32(gsFixes+8*i, uint32(model.FixUnknown))),
			ShieldDropFix: controllerFix(p.u32(gsFixes+8*i+4, uint32(model.FixUnknown))),
			Nametag:       text(p.bytes(gsNametags+gsNametagLen*i, gsNametagLen)),
			DisplayName:   text(p.bytes(gsDisplayNames+gsDisplayNameLen*i, gsDisplayNameLen)),
			ConnectCode:   text(p.bytes(gsConnectCodes+gsConnectCodeLen*i, gsConnectCodeLen)),
			SlippiUID:     text(p.bytes(gsSlippiUIDs+gsSlippiUIDLen*i, gsSlippiUIDLen)),
		}
	}
	return gs, nil
}

func controllerFix(v uint32) model.ControllerFix {
	switch f := model.ControllerFix(v); f {
	case model.FixOff, model.FixUCF, model.FixDween:
		return f
	}
	return model.FixUnknown
}

// text decodes a NUL-terminated Shift-JIS field. A field with no terminator
// inside its bounds, or one that is not present at all, is empty.
func text(b []byte) string {
	end := bytes.IndexByte(b, 0)
	if end < 0 {
		return ""
	}
	s, err := japanese.ShiftJIS.NewDecoder().Bytes(b[:end])
	if err != nil {
		return ""
	}
	// Connect codes use the full-width number sign.
	return strings.ReplaceAll(string(s), "＃", "#")
}

func decodeGameEnd(p payload) (*model.GameEnd, error) {
	if len(p) < 1 {
		return nil, fmt.Errorf("empty game end payload: %w", ErrMalformedContainer)
	}
	method, ok := model.EndMethodFromByte(p[0])
	if !ok {
		return nil, &UnknownEnumError{Field: "end method", Value: int(p[0])}
	}
	end := &model.GameEnd{Method: method, Placements: make(map[model.Port]model.Placement)}
	if lras := p.i8(1, -1); lras >= 0 {
		if port, ok := model.PortFromByte(uint8(lras)); ok {
			end.LRASInitiator = &port
		}
	}
	for i := 0; i < 4; i++ {
		v := p.i8(2+i, -1)
		if v == -1 {
			continue
		}
		end.Placements[model.Port(i)] = model.PlacementFromByte(v)
	}
	return end, nil
}

// frameHeader is the common prefix of pre and post frame events.
type frameHeader struct {
	frame    int32
	port     uint8
	follower bool
}

func readFrameHeader(p payload) (frameHeader, error) {
	if !p.has(0, 6) {
		return frameHeader{}, fmt.Errorf("frame payload of %d bytes: %w", len(p), ErrMalformedContainer)
	}
	return frameHeader{frame: p.i32(0, 0), port: p.u8(4, 0), follower: p.flag(5, false)}, nil
}

// decodePre writes a pre-frame payload into row i.
func decodePre(p payload, f *model.Frames, i int) {
	r := &f.Pre
	r.FrameNumber[i] = p.i32(0, model.FrameNumber(i))
	r.RandomSeed[i] = p.u32(6, 0)
	r.ActionState[i] = melee.ActionState(p.u16(10, 0))
	r.PositionX[i] = p.f32(12, 0)
	r.PositionY[i] = p.f32(16, 0)
	r.Orientation[i] = p.f32(20, 0)
	r.JoystickX[i] = p.f32(24, 0)
	r.JoystickY[i] = p.f32(28, 0)
	r.CstickX[i] = p.f32(32, 0)
	r.CstickY[i] = p.f32(36, 0)
	r.Trigger[i] = p.f32(40, 0)
	r.EngineButtons[i] = melee.EngineInput(p.u32(44, 0))
	r.ControllerButtons[i] = melee.ControllerInput(p.u16(48, 0))
	r.LTrigger[i] = p.f32(50, 0)
	r.RTrigger[i] = p.f32(54, 0)
	r.RawAnalogX[i] = p.i8(58, 0)
	r.Percent[i] = p.f32(59, model.PercentAbsent)
	r.RawAnalogY[i] = p.i8(63, 0)
}

// decodePost writes a post-frame payload into row i.
func decodePost(p payload, f *model.Frames, i int) {
	r := &f.Post
	r.FrameNumber[i] = p.i32(0, model.FrameNumber(i))
	r.Character[i] = melee.Character(p.u8(6, 0))
	r.ActionState[i] = melee.ActionState(p.u16(7, 0))
	r.PositionX[i] = p.f32(9, 0)
	r.PositionY[i] = p.f32(13, 0)
	r.Orientation[i] = p.f32(17, 0)
	r.Percent[i] = p.f32(21, 0)
	r.ShieldHealth[i] = p.f32(25, 0)
	r.LastAttackLanded[i] = melee.Attack(p.u8(29, 0))
	r.ComboCount[i] = p.u8(30, 0)
	r.LastHitBy[i] = p.u8(31, model.NoAttacker)
	r.Stocks[i] = p.u8(32, 0)
	r.StateFrame[i] = p.f32(33, 0)
	r.Flags[i] = melee.CombineFlags(p.u8(37, 0), p.u8(38, 0), p.u8(39, 0), p.u8(40, 0), p.u8(41, 0))
	r.MiscAS[i] = p.f32(42, 0)
	r.IsGrounded[i] = !p.flag(46, true)
	r.LastGroundID[i] = p.u16(47, 0)
	r.JumpsRemaining[i] = p.u8(49, 0)
	r.LCancel[i] = lcancelStatus(p.u8(50, 0))
	r.HurtboxState[i] = p.u8(51, 0)
	r.SelfAirX[i] = p.f32(52, 0)
	r.SelfY[i] = p.f32(56, 0)
	r.KnockbackX[i] = p.f32(60, 0)
	r.KnockbackY[i] = p.f32(64, 0)
	r.SelfGroundX[i] = p.f32(68, 0)
	r.HitlagRemaining[i] = p.f32(72, 0)
	r.AnimationIndex[i] = p.u32(76, 0)
	r.InstanceHitBy[i] = p.u16(80, 0)
	r.InstanceID[i] = p.u16(82, 0)
}

func lcancelStatus(b uint8) model.LCancelStatus {
	switch s := model.LCancelStatus(b); s {
	case model.LCancelSuccess, model.LCancelFailure:
		return s
	}
	return model.LCancelNotApplicable
}

func decodeItem(p payload) (model.ItemRow, error) {
	if !p.has(0, 37) {
		return model.ItemRow{}, fmt.Errorf("item payload of %d bytes: %w", len(p), ErrMalformedContainer)
	}
	return model.ItemRow{
		FrameNumber: p.i32(0, 0),
		Type:        melee.Item(p.u16(4, uint16(melee.ItemUnknown))),
		State:       p.u8(6, 0),
		Orientation: p.f32(7, 0),
		Velocity:    melee.Velocity{X: p.f32(11, 0), Y: p.f32(15, 0)},
		Position:    melee.Position{X: p.f32(19, 0), Y: p.f32(23, 0)},
		Damage:      p.u16(27, 0),
		Expiration:  p.f32(29, 0),
		SpawnID:     p.u32(33, 0),
		MissileType: p.u8(37, 0),
		TurnipType:  p.u8(38, 0),
		Launched:    p.u8(39, 0),
		ChargePower: p.u8(40, 0),
		Owner:       p.i8(41, -1),
		InstanceID:  p.u16(42, 0),
	}, nil
}
