package model

import (
	"fmt"
	"math"

	"github.com/pable/slpstats/internal/melee"
)

// LCancelStatus is the post-frame l-cancel field.
type LCancelStatus uint8

const (
	LCancelNotApplicable LCancelStatus = 0
	LCancelSuccess       LCancelStatus = 1
	LCancelFailure       LCancelStatus = 2
)

func (l LCancelStatus) String() string {
	switch l {
	case LCancelSuccess:
		return "SUCCESS"
	case LCancelFailure:
		return "FAILURE"
	default:
		return "NOT_APPLICABLE"
	}
}

// NoAttacker is the last-hit-by value meaning nobody has hit the character.
const NoAttacker uint8 = 6

// PercentAbsent fills pre-frame percent on replays older than 1.4.0.
var PercentAbsent = float32(math.NaN())

// PreFrames holds the pre-update snapshot of every frame, one slice per field.
type PreFrames struct {
	FrameNumber       []int32
	RandomSeed        []uint32
	ActionState       []melee.ActionState
	PositionX         []float32
	PositionY         []float32
	Orientation       []float32
	JoystickX         []float32
	JoystickY         []float32
	CstickX           []float32
	CstickY           []float32
	Trigger           []float32
	EngineButtons     []melee.EngineInput
	ControllerButtons []melee.ControllerInput
	LTrigger          []float32
	RTrigger          []float32
	RawAnalogX        []int8    // 1.2.0
	Percent           []float32 // 1.4.0; PercentAbsent before
	RawAnalogY        []int8    // 3.15.0
}

// PostFrames holds the post-update snapshot of every frame, one slice per field.
type PostFrames struct {
	FrameNumber      []int32
	Character        []melee.Character
	ActionState      []melee.ActionState
	PositionX        []float32
	PositionY        []float32
	Orientation      []float32
	Percent          []float32
	ShieldHealth     []float32
	LastAttackLanded []melee.Attack
	ComboCount       []uint8
	LastHitBy        []uint8
	Stocks           []uint8
	StateFrame       []float32     // 0.2.0
	Flags            []melee.Flags // 2.0.0
	MiscAS           []float32
	IsGrounded       []bool
	LastGroundID     []uint16
	JumpsRemaining   []uint8
	LCancel          []LCancelStatus // 2.0.0
	HurtboxState     []uint8         // 2.1.0
	SelfAirX         []float32       // 3.5.0
	SelfY            []float32
	KnockbackX       []float32
	KnockbackY       []float32
	SelfGroundX      []float32
	HitlagRemaining  []float32 // 3.8.0
	AnimationIndex   []uint32  // 3.11.0
	InstanceHitBy    []uint16  // 3.16.0
	InstanceID       []uint16
}

// Frames is one character's frame table. Row i of both halves is frame FirstFrame+i.
type Frames struct {
	Pre     PreFrames
	Post    PostFrames
	partner bool
}

// NewFrames returns an empty table with room for n rows.
func NewFrames(n int) *Frames {
	f := &Frames{}
	f.reserve(n)
	return f
}

// NewPartnerFrames returns a table for the second Ice Climber. Rows that are
// never written (before Nana spawns, after she dies) read as an inactive Nana.
func NewPartnerFrames(n int) *Frames {
	f := &Frames{partner: true}
	f.reserve(n)
	return f
}

// IsPartner reports whether the table belongs to a follower character.
func (f *Frames) IsPartner() bool { return f.partner }

// Len returns the number of rows. It panics if the columns disagree, which
// can only happen through a decoding bug.
func (f *Frames) Len() int {
	n := len(f.Pre.FrameNumber)
	if len(f.Post.FrameNumber) != n || len(f.Pre.ActionState) != n || len(f.Post.ActionState) != n {
		panic(fmt.Sprintf("frame table misaligned: pre %d rows, post %d rows", n, len(f.Post.FrameNumber)))
	}
	return n
}

// Position returns the post-frame position at row i.
func (f *Frames) Position(i int) melee.Position {
	return melee.Position{X: f.Post.PositionX[i], Y: f.Post.PositionY[i]}
}

// Joystick returns the pre-frame joystick at row i.
func (f *Frames) Joystick(i int) melee.StickPos {
	return melee.StickPos{X: f.Pre.JoystickX[i], Y: f.Pre.JoystickY[i]}
}

// Knockback returns the post-frame knockback velocity at row i.
func (f *Frames) Knockback(i int) melee.Velocity {
	return melee.Velocity{X: f.Post.KnockbackX[i], Y: f.Post.KnockbackY[i]}
}

func (f *Frames) reserve(n int) {
	p, q := &f.Pre, &f.Post
	p.FrameNumber = make([]int32, 0, n)
	q.FrameNumber = make([]int32, 0, n)
}

// Resize grows or truncates every column to exactly n rows. New rows get the
// frame number of their index and the table's default values.
func (f *Frames) Resize(n int) {
	for len(f.Pre.FrameNumber) < n {
		f.appendDefault(FrameNumber(len(f.Pre.FrameNumber)))
	}
	if len(f.Pre.FrameNumber) > n {
		f.truncate(n)
	}
}

// Row makes sure row i exists so the decoder can overwrite it in place. A
// rollback re-simulates a frame and overwrites the earlier row.
func (f *Frames) Row(i int) {
	if i >= len(f.Pre.FrameNumber) {
		f.Resize(i + 1)
	}
}

func (f *Frames) appendDefault(frame int32) {
	var state melee.ActionState
	var character melee.Character
	var percent, shield float32
	lastHitBy := uint8(0)
	grounded := false
	if f.partner {
		state = melee.Sleep
		character = melee.Nana
		percent = -1
		shield = 60
		lastHitBy = NoAttacker
		grounded = true
	}

	p := &f.Pre
	p.FrameNumber = append(p.FrameNumber, frame)
	p.RandomSeed = append(p.RandomSeed, 0)
	p.ActionState = append(p.ActionState, state)
	p.PositionX = append(p.PositionX, 0)
	p.PositionY = append(p.PositionY, 0)
	p.Orientation = append(p.Orientation, 0)
	p.JoystickX = append(p.JoystickX, 0)
	p.JoystickY = append(p.JoystickY, 0)
	p.CstickX = append(p.CstickX, 0)
	p.CstickY = append(p.CstickY, 0)
	p.Trigger = append(p.Trigger, 0)
	p.EngineButtons = append(p.EngineButtons, 0)
	p.ControllerButtons = append(p.ControllerButtons, 0)
	p.LTrigger = append(p.LTrigger, 0)
	p.RTrigger = append(p.RTrigger, 0)
	p.RawAnalogX = append(p.RawAnalogX, 0)
	p.Percent = append(p.Percent, percent)
	p.RawAnalogY = append(p.RawAnalogY, 0)

	q := &f.Post
	q.FrameNumber = append(q.FrameNumber, frame)
	q.Character = append(q.Character, character)
	q.ActionState = append(q.ActionState, state)
	q.PositionX = append(q.PositionX, 0)
	q.PositionY = append(q.PositionY, 0)
	q.Orientation = append(q.Orientation, 0)
	q.Percent = append(q.Percent, percent)
	q.ShieldHealth = append(q.ShieldHealth, shield)
	q.LastAttackLanded = append(q.LastAttackLanded, 0)
	q.ComboCount = append(q.ComboCount, 0)
	q.LastHitBy = append(q.LastHitBy, lastHitBy)
	q.Stocks = append(q.Stocks, 0)
	q.StateFrame = append(q.StateFrame, 0)
	q.Flags = append(q.Flags, 0)
	q.MiscAS = append(q.MiscAS, 0)
	q.IsGrounded = append(q.IsGrounded, grounded)
	q.LastGroundID = append(q.LastGroundID, 0)
	q.JumpsRemaining = append(q.JumpsRemaining, 0)
	q.LCancel = append(q.LCancel, LCancelNotApplicable)
	q.HurtboxState = append(q.HurtboxState, 0)
	q.SelfAirX = append(q.SelfAirX, 0)
	q.SelfY = append(q.SelfY, 0)
	q.KnockbackX = append(q.KnockbackX, 0)
	q.KnockbackY = append(q.KnockbackY, 0)
	q.SelfGroundX = append(q.SelfGroundX, 0)
	q.HitlagRemaining = append(q.HitlagRemaining, 0)
	q.AnimationIndex = append(q.AnimationIndex, 0)
	q.InstanceHitBy = append(q.InstanceHitBy, 0)
	q.InstanceID = append(q.InstanceID, 0)
}

func (f *Frames) truncate(n int) {
	p := &f.Pre
	p.FrameNumber = p.FrameNumber[:n]
	p.RandomSeed = p.RandomSeed[:n]
	p.ActionState = p.ActionState[:n]
	p.PositionX = p.PositionX[:n]
	p.PositionY = p.PositionY[:n]
	p.Orientation = p.Orientation[:n]
	p.JoystickX = p.JoystickX[:n]
	p.JoystickY = p.JoystickY[:n]
	p.CstickX = p.CstickX[:n]
	p.CstickY = p.CstickY[:n]
	p.Trigger = p.Trigger[:n]
	p.EngineButtons = p.EngineButtons[:n]
	p.ControllerButtons = p.ControllerButtons[:n]
	p.LTrigger = p.LTrigger[:n]
	p.RTrigger = p.RTrigger[:n]
	p.RawAnalogX = p.RawAnalogX[:n]
	p.Percent = p.Percent[:n]
	p.RawAnalogY = p.RawAnalogY[:n]

	q := &f.Post
	q.FrameNumber = q.FrameNumber[:n]
	q.Character = q.Character[:n]
	q.ActionState = q.ActionState[:n]
	q.PositionX = q.PositionX[:n]
	q.PositionY = q.PositionY[:n]
	q.Orientation = q.Orientation[:n]
	q.Percent = q.Percent[:n]
	q.ShieldHealth = q.ShieldHealth[:n]
	q.LastAttackLanded = q.LastAttackLanded[:n]
	q.ComboCount = q.ComboCount[:n]
	q.LastHitBy = q.LastHitBy[:n]
	q.Stocks = q.Stocks[:n]
	q.StateFrame = q.StateFrame[:n]
	q.Flags = q.Flags[:n]
	q.MiscAS = q.MiscAS[:n]
	q.IsGrounded = q.IsGrounded[:n]
	q.LastGroundID = q.LastGroundID[:n]
	q.JumpsRemaining = q.JumpsRemaining[:n]
	q.LCancel = q.LCancel[:n]
	q.HurtboxState = q.HurtboxState[:n]
	q.SelfAirX = q.SelfAirX[:n]
	q.SelfY = q.SelfY[:n]
	q.KnockbackX = q.KnockbackX[:n]
	q.KnockbackY = q.KnockbackY[:n]
	q.SelfGroundX = q.SelfGroundX[:n]
	q.HitlagRemaining = q.HitlagRemaining[:n]
	q.AnimationIndex = q.AnimationIndex[:n]
	q.InstanceHitBy = q.InstanceHitBy[:n]
	q.InstanceID = q.InstanceID[:n]
}

// ItemFrames holds one row per item update, in stream order.
type ItemFrames struct {
	FrameNumber []int32
	Type        []melee.Item
	State       []uint8
	Orientation []float32
	VelocityX   []float32
	VelocityY   []float32
	PositionX   []float32
	PositionY   []float32
	Damage      []uint16
	Expiration  []float32
	SpawnID     []uint32
	MissileType []uint8 // 3.2.0
	TurnipType  []uint8 // 3.2.0
	Launched    []uint8 // 3.2.0
	ChargePower []uint8 // 3.2.0
	Owner       []int8  // 3.6.0; -1 when unowned or absent
	InstanceID  []uint16
}

// ItemRow is one decoded item update.
type ItemRow struct {
	FrameNumber int32
	Type        melee.Item
	State       uint8
	Orientation float32
	Velocity    melee.Velocity
	Position    melee.Position
	Damage      uint16
	Expiration  float32
	SpawnID     uint32
	MissileType uint8
	TurnipType  uint8
	Launched    uint8
	ChargePower uint8
	Owner       int8
	InstanceID  uint16
}

// Len returns the number of item rows.
func (it *ItemFrames) Len() int { return len(it.SpawnID) }

// Append adds one row to every column.
func (it *ItemFrames) Append(r ItemRow) {
	it.FrameNumber = append(it.FrameNumber, r.FrameNumber)
	it.Type = append(it.Type, r.Type)
	it.State = append(it.State, r.State)
	it.Orientation = append(it.Orientation, r.Orientation)
	it.VelocityX = append(it.VelocityX, r.Velocity.X)
	it.VelocityY = append(it.VelocityY, r.Velocity.Y)
	it.PositionX = append(it.PositionX, r.Position.X)
	it.PositionY = append(it.PositionY, r.Position.Y)
	it.Damage = append(it.Damage, r.Damage)
	it.Expiration = append(it.Expiration, r.Expiration)
	it.SpawnID = append(it.SpawnID, r.SpawnID)
	it.MissileType = append(it.MissileType, r.MissileType)
	it.TurnipType = append(it.TurnipType, r.TurnipType)
	it.Launched = append(it.Launched, r.Launched)
	it.ChargePower = append(it.ChargePower, r.ChargePower)
	it.Owner = append(it.Owner, r.Owner)
	it.InstanceID = append(it.InstanceID, r.InstanceID)
}

// SubType returns the variant byte that distinguishes the item at row i, or 0
// for items without variants.
func (it *ItemFrames) SubType(i int) uint8 {
	switch it.Type[i] {
	case melee.ItemPeachTurnip:
		return it.TurnipType[i]
	case melee.ItemSamusMissile:
		return it.MissileType[i]
	}
	return 0
}
