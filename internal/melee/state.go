package melee

import "fmt"

// ActionState is the post-frame action state id of a character.
// Values 0-340 are shared by every character; higher values are character specific.
type ActionState uint16

const (
	DeadDown                ActionState = 0
	DeadLeft                ActionState = 1
	DeadRight               ActionState = 2
	DeadUp                  ActionState = 3
	DeadUpStar              ActionState = 4
	DeadUpStarIce           ActionState = 5
	DeadUpFall              ActionState = 6
	DeadUpFallHitCamera     ActionState = 7
	DeadUpFallHitCameraFlat ActionState = 8
	DeadUpFallIce           ActionState = 9
	DeadUpFallHitCameraIce  ActionState = 10
	Sleep                   ActionState = 11
	Rebirth                 ActionState = 12
	RebirthWait             ActionState = 13
	Wait                    ActionState = 14

	// ---- Generic movement ----
	WalkSlow        ActionState = 15
	WalkMiddle      ActionState = 16
	WalkFast        ActionState = 17
	Turn            ActionState = 18
	TurnRun         ActionState = 19
	Dash            ActionState = 20
	Run             ActionState = 21
	RunDirect       ActionState = 22
	RunBrake        ActionState = 23
	KneeBend        ActionState = 24
	JumpF           ActionState = 25
	JumpB           ActionState = 26
	JumpAerialF     ActionState = 27
	JumpAerialB     ActionState = 28
	Fall            ActionState = 29
	FallF           ActionState = 30
	FallB           ActionState = 31
	FallAerial      ActionState = 32
	FallAerialF     ActionState = 33
	FallAerialB     ActionState = 34
	FallSpecial     ActionState = 35
	FallSpecialF    ActionState = 36
	FallSpecialB    ActionState = 37
	DamageFall      ActionState = 38
	Squat           ActionState = 39
	SquatWait       ActionState = 40
	SquatRv         ActionState = 41
	Land            ActionState = 42
	LandFallSpecial ActionState = 43

	// ---- Attacks ----
	Attack11      ActionState = 44
	Attack12      ActionState = 45
	Attack13      ActionState = 46
	AttackDash    ActionState = 50
	AttackHi4     ActionState = 63
	AttackLw4     ActionState = 64
	AttackAirN    ActionState = 65
	AttackAirF    ActionState = 66
	AttackAirB    ActionState = 67
	AttackAirHi   ActionState = 68
	AttackAirLw   ActionState = 69
	LandingAirN   ActionState = 70
	LandingAirF   ActionState = 71
	LandingAirB   ActionState = 72
	LandingAirHi  ActionState = 73
	LandingAirLw  ActionState = 74
	DamageHi1     ActionState = 75
	DamageFlyRoll ActionState = 91

	// ---- Shield ----
	GuardOn      ActionState = 178
	Guard        ActionState = 179
	GuardOff     ActionState = 180
	GuardSetOff  ActionState = 181
	GuardReflect ActionState = 182

	// ---- Knockdown and tech ----
	DownBoundU      ActionState = 183
	DownWaitU       ActionState = 184
	DownDamageU     ActionState = 185
	DownStandU      ActionState = 186
	DownAttackU     ActionState = 187
	DownForwardU    ActionState = 188
	DownBackU       ActionState = 189
	DownSpotU       ActionState = 190
	DownBoundD      ActionState = 191
	DownWaitD       ActionState = 192
	DownDamageD     ActionState = 193
	DownStandD      ActionState = 194
	DownAttackD     ActionState = 195
	DownForwardD    ActionState = 196
	DownBackD       ActionState = 197
	DownSpotD       ActionState = 198
	Passive         ActionState = 199
	PassiveStandF   ActionState = 200
	PassiveStandB   ActionState = 201
	PassiveWall     ActionState = 202
	PassiveWallJump ActionState = 203
	PassiveCeil     ActionState = 204

	// ---- Shield break ----
	ShieldBreakFly ActionState = 205
	FuraFura       ActionState = 211

	// ---- Grabs ----
	Catch           ActionState = 212
	CapturePulledHi ActionState = 223
	CaptureFoot     ActionState = 232

	// ---- Dodges ----
	EscapeF   ActionState = 233
	EscapeB   ActionState = 234
	Escape    ActionState = 235
	EscapeAir ActionState = 236

	// ---- Thrown ----
	ThrownF       ActionState = 239
	ThrownB       ActionState = 240
	ThrownHi      ActionState = 241
	ThrownLw      ActionState = 242
	ThrownLwWomen ActionState = 243

	FlyReflectWall ActionState = 247
	FlyReflectCeil ActionState = 248

	// ---- Ledge ----
	CliffCatch      ActionState = 252
	CliffWait       ActionState = 253
	CliffJumpQuick2 ActionState = 263

	ShoulderedWait  ActionState = 266
	BarrelWait      ActionState = 293
	ThrownMewtwoAir ActionState = 304
	DownReflect     ActionState = 335
)

// ActionRange bounds a contiguous block of action states. Both ends are inclusive.
type ActionRange struct {
	Start, End ActionState
}

// Contains reports whether s lies within the range.
func (r ActionRange) Contains(s ActionState) bool {
	return s >= r.Start && s <= r.End
}

var (
	RangeDying           = ActionRange{DeadDown, DeadUpFallHitCameraIce}
	RangeGroundedControl = ActionRange{Wait, KneeBend}
	RangeActionableAir   = ActionRange{JumpF, FallAerialB}
	RangeFallSpecial     = ActionRange{FallSpecial, FallSpecialB}
	RangeSquat           = ActionRange{Squat, SquatRv}
	RangeGroundAttack    = ActionRange{Attack11, AttackLw4}
	RangeAerialAttack    = ActionRange{AttackAirN, AttackAirLw}
	RangeAerialLandLag   = ActionRange{LandingAirN, LandingAirLw}
	RangeDamage          = ActionRange{DamageHi1, DamageFlyRoll}
	RangeGuard           = ActionRange{GuardOn, GuardReflect}
	RangeDown            = ActionRange{DownBoundU, DownSpotD}
	RangeTech            = ActionRange{Passive, PassiveCeil}
	RangeGuardBreak      = ActionRange{ShieldBreakFly, FuraFura}
	RangeCapture         = ActionRange{CapturePulledHi, CaptureFoot}
	RangeDodge           = ActionRange{EscapeF, EscapeAir}
	RangeThrown          = ActionRange{ThrownF, ThrownLwWomen}
	RangeLedge           = ActionRange{CliffCatch, CliffJumpQuick2}
	RangeCommandGrab1    = ActionRange{ShoulderedWait, ThrownMewtwoAir}
	RangeCommandGrab2    = ActionRange{327, 338}
)

var stateNames = map[ActionState]string{
	DeadDown: "DEAD_DOWN", DeadLeft: "DEAD_LEFT", DeadRight: "DEAD_RIGHT", DeadUp: "DEAD_UP",
	DeadUpStar: "DEAD_UP_STAR", DeadUpStarIce: "DEAD_UP_STAR_ICE", DeadUpFall: "DEAD_UP_FALL",
	DeadUpFallHitCamera: "DEAD_UP_FALL_HIT_CAMERA", DeadUpFallHitCameraFlat: "DEAD_UP_FALL_HIT_CAMERA_FLAT",
	DeadUpFallIce: "DEAD_UP_FALL_ICE", DeadUpFallHitCameraIce: "DEAD_UP_FALL_HIT_CAMERA_ICE",
	Sleep: "SLEEP", Rebirth: "REBIRTH", RebirthWait: "REBIRTH_WAIT", Wait: "WAIT",
	WalkSlow: "WALK_SLOW", WalkMiddle: "WALK_MIDDLE", WalkFast: "WALK_FAST", Turn: "TURN",
	TurnRun: "TURN_RUN", Dash: "DASH", Run: "RUN", RunDirect: "RUN_DIRECT", RunBrake: "RUN_BRAKE",
	KneeBend: "KNEE_BEND", JumpF: "JUMP_F", JumpB: "JUMP_B", JumpAerialF: "JUMP_AERIAL_F",
	JumpAerialB: "JUMP_AERIAL_B", Fall: "FALL", FallF: "FALL_F", FallB: "FALL_B",
	FallAerial: "FALL_AERIAL", FallAerialF: "FALL_AERIAL_F", FallAerialB: "FALL_AERIAL_B",
	FallSpecial: "FALL_SPECIAL", FallSpecialF: "FALL_SPECIAL_F", FallSpecialB: "FALL_SPECIAL_B",
	DamageFall: "DAMAGE_FALL", Squat: "SQUAT", SquatWait: "SQUAT_WAIT", SquatRv: "SQUAT_RV",
	Land: "LAND", LandFallSpecial: "LAND_FALL_SPECIAL",
	Attack11: "ATTACK_11", Attack12: "ATTACK_12", Attack13: "ATTACK_13", AttackDash: "ATTACK_DASH",
	AttackHi4: "ATTACK_HI_4", AttackLw4: "ATTACK_LW_4",
	AttackAirN: "ATTACK_AIR_N", AttackAirF: "ATTACK_AIR_F", AttackAirB: "ATTACK_AIR_B",
	AttackAirHi: "ATTACK_AIR_HI", AttackAirLw: "ATTACK_AIR_LW",
	LandingAirN: "LANDING_AIR_N", LandingAirF: "LANDING_AIR_F", LandingAirB: "LANDING_AIR_B",
	LandingAirHi: "LANDING_AIR_HI", LandingAirLw: "LANDING_AIR_LW",
	GuardOn: "GUARD_ON", Guard: "GUARD", GuardOff: "GUARD_OFF", GuardSetOff: "GUARD_SET_OFF",
	GuardReflect: "GUARD_REFLECT",
	DownBoundU: "DOWN_BOUND_U", DownWaitU: "DOWN_WAIT_U", DownDamageU: "DOWN_DAMAGE_U",
	DownStandU: "DOWN_STAND_U", DownAttackU: "DOWN_ATTACK_U", DownForwardU: "DOWN_FOWARD_U",
	DownBackU: "DOWN_BACK_U", DownSpotU: "DOWN_SPOT_U", DownBoundD: "DOWN_BOUND_D",
	DownWaitD: "DOWN_WAIT_D", DownDamageD: "DOWN_DAMAGE_D", DownStandD: "DOWN_STAND_D",
	DownAttackD: "DOWN_ATTACK_D", DownForwardD: "DOWN_FOWARD_D", DownBackD: "DOWN_BACK_D",
	DownSpotD: "DOWN_SPOT_D", Passive: "PASSIVE", PassiveStandF: "PASSIVE_STAND_F",
	PassiveStandB: "PASSIVE_STAND_B", PassiveWall: "PASSIVE_WALL",
	PassiveWallJump: "PASSIVE_WALL_JUMP", PassiveCeil: "PASSIVE_CEIL",
	EscapeF: "ESCAPE_F", EscapeB: "ESCAPE_B", Escape: "ESCAPE", EscapeAir: "ESCAPE_AIR",
	ThrownF: "THROWN_F", ThrownB: "THROWN_B", ThrownHi: "THROWN_HI", ThrownLw: "THROWN_LW",
	ThrownLwWomen: "THROWN_LW_WOMEN", FlyReflectWall: "FLY_REFLECT_WALL",
	FlyReflectCeil: "FLY_REFLECT_CEIL", CliffCatch: "CLIFF_CATCH", CliffWait: "CLIFF_WAIT",
	BarrelWait: "BARREL_WAIT", DownReflect: "DOWN_REFLECT",
}

func (s ActionState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("STATE_%d", uint16(s))
}
