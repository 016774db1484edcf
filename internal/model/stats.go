package model

import (
	"github.com/pable/slpstats/internal/melee"
)

// Minimum replay versions for the version-gated stats.
var (
	LCancelMinVersion = MustVersion("2.0.0")
	TechMinVersion    = MustVersion("2.0.0")
	DefenseMinVersion = MustVersion("3.5.0")
	ItemsMinVersion   = MustVersion("3.6.0")
)

// Stats is the detector output for one player. Gated fields stay nil when the
// replay's version predates the data they need.
type Stats struct {
	Wavedashes []Wavedash
	Inputs     InputSummary
	LCancels   *LCancelStats // 2.0.0
	Techs      *TechStats    // 2.0.0
	Defense    *DefenseStats // 3.5.0
	Items      ItemCounts    // 3.6.0; nil before
}

// ---- Movement ----

// Direction is the coarse direction of a wavedash.
type Direction uint8

const (
	DirectionRight Direction = iota
	DirectionLeft
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "LEFT"
	case DirectionDown:
		return "DOWN"
	default:
		return "RIGHT"
	}
}

// Wavedash is one landing into special-fall landing lag.
type Wavedash struct {
	Frame         int32   // signed frame number of the landing
	Angle         float32 // degrees below horizontal, after dead zone
	Direction     Direction
	StartPosition melee.Position
	Waveland      bool // no jump squat in the preceding frames
}

// WavedashCounts splits wavedashes from wavelands.
func WavedashCounts(w []Wavedash) (wavedashes, wavelands int) {
	for _, x := range w {
		if x.Waveland {
			wavelands++
		} else {
			wavedashes++
		}
	}
	return wavedashes, wavelands
}

// ---- L-cancels ----

// LCancel is one aerial landing.
type LCancel struct {
	Frame           int32
	Attack          melee.Attack
	StocksRemaining uint8
	Percent         float32
	Success         bool
	// TriggerFrame is the press relative to landing: negative before, positive
	// for a late press. nil when nothing was pressed in the window.
	TriggerFrame *int32
	Ground       melee.GroundID
	Fastfall     bool
	DuringHitlag bool
}

type LCancelStats struct {
	Events []LCancel
}

// Successes returns the number of successful l-cancels.
func (s *LCancelStats) Successes() int {
	n := 0
	for _, e := range s.Events {
		if e.Success {
			n++
		}
	}
	return n
}

// ---- Techs ----

// TechType classifies the option taken out of a knockdown or bounce.
type TechType uint8

const (
	TechInPlace TechType = iota
	TechLeft
	TechRight
	GetUpAttack
	MissedTech
	WallTech
	MissedWallTech
	WallJumpTech
	CeilingTech
	MissedCeilingTech
	JabReset
	MissedTechGetUp
	MissedTechRollLeft
	MissedTechRollRight
)

var techTypeNames = [...]string{
	"TECH_IN_PLACE", "TECH_LEFT", "TECH_RIGHT", "GET_UP_ATTACK", "MISSED_TECH", "WALL_TECH",
	"MISSED_WALL_TECH", "WALL_JUMP_TECH", "CEILING_TECH", "MISSED_CEILING_TECH", "JAB_RESET",
	"MISSED_TECH_GET_UP", "MISSED_TECH_ROLL_LEFT", "MISSED_TECH_ROLL_RIGHT",
}

func (t TechType) String() string {
	if int(t) < len(techTypeNames) {
		return techTypeNames[t]
	}
	return "UNKNOWN"
}

// IsMissed reports whether the tech type is a missed tech of any surface.
func (t TechType) IsMissed() bool {
	return t == MissedTech || t == MissedWallTech || t == MissedCeilingTech
}

// Tech is one tech situation, from the first knockdown or tech frame until the
// character leaves those states.
type Tech struct {
	Frame           int32
	StocksRemaining uint8
	Percent         float32
	Type            TechType
	Punished        bool
	Position        melee.Position
	Ground          melee.GroundID
	MissedTech      bool
	TowardsCenter   *bool
	TowardsOpponent *bool
	JabReset        *bool
	LastHitBy       melee.Attack
	OpponentDist    float32
	InputFrame      *int32 // frames since the last L/R press, -40 to 0
	Lockout         bool
	DuringHitlag    bool
}

type TechStats struct {
	Events []Tech
}

// Missed returns the number of tech situations that started with a missed tech.
func (s *TechStats) Missed() int {
	n := 0
	for _, e := range s.Events {
		if e.MissedTech {
			n++
		}
	}
	return n
}

// Lockouts returns the number of tech situations entered while locked out.
func (s *TechStats) Lockouts() int {
	n := 0
	for _, e := range s.Events {
		if e.Lockout {
			n++
		}
	}
	return n
}

// ---- Defense ----

// HitTaken is one hit received, from the first hitlag frame until hitlag ends.
type HitTaken struct {
	Frame             int32
	StocksRemaining   uint8
	Percent           float32
	DamageTaken       float32
	LastHitBy         melee.Attack
	StateBeforeHit    melee.ActionState
	Grounded          bool
	CrouchCancel      bool
	VCancel           bool
	HitlagFrames      uint8
	StickDuringHitlag []melee.StickRegion
	SDIInputs         []melee.StickRegion
	ASDI              melee.StickRegion
	Knockback         melee.Velocity
	DIStick           melee.StickPos
	DIKnockback       melee.Velocity
	DIEfficacy        float32 // 0 when the hit had no knockback
	StartPosition     melee.Position
	EndPosition       melee.Position
	KillsNoDI         bool
	KillsWithDI       bool
	KillsAnyDI        bool
	KillsSomeDI       bool
}

type DefenseStats struct {
	Hits []HitTaken
}

// ---- Items ----

// ItemCounts maps a resolved item to the number of distinct instances spawned.
type ItemCounts map[melee.Item]int

// ---- Inputs ----

// Preference is a player's habitual choice between two equivalent buttons.
type Preference string

const (
	PreferUnknown Preference = "UNKNOWN"
	PreferBoth    Preference = "BOTH"
	PreferL       Preference = "L"
	PreferR       Preference = "R"
	PreferX       Preference = "X"
	PreferY       Preference = "Y"
)

// InputSummary counts every distinct input a player made.
type InputSummary struct {
	Digital       int
	Joystick      int
	Cstick        int
	AnalogTrigger int
	APM           float32
	TriggerPref   Preference
	JumpPref      Preference
}

// Total returns every counted input.
func (s InputSummary) Total() int {
	return s.Digital + s.Joystick + s.Cstick + s.AnalogTrigger
}
