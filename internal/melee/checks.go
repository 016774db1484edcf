package melee

// Edge-detection and classification helpers over raw per-frame values. These
// are shared by the column-scanning detectors and the online trackers.

// JustChangedState reports whether the action state differs from the previous frame.
func JustChangedState(cur, prev ActionState) bool { return cur != prev }

// JustEnteredState reports whether target became active this frame.
func JustEnteredState(target, cur, prev ActionState) bool {
	return cur == target && prev != target
}

// JustExitedState reports whether target stopped being active this frame.
func JustExitedState(target, cur, prev ActionState) bool {
	return cur != target && prev == target
}

// JustInputLCancel reports whether anything that triggers an L-cancel (digital
// L/R, Z, or analog trigger) was pressed this frame but not last frame.
func JustInputLCancel(cur, prev EngineInput) bool {
	return cur.Contains(EngineAnyTrigger) && !prev.Contains(EngineAnyTrigger)
}

// JustPressedAny reports whether any target bit is set now and none was set last frame.
func JustPressedAny(target, cur, prev EngineInput) bool {
	return cur.Intersects(target) && !prev.Intersects(target)
}

// JustPressedAll reports whether all target bits are set now but were not all set last frame.
func JustPressedAll(target, cur, prev EngineInput) bool {
	return cur.Contains(target) && !prev.Contains(target)
}

// JustTookDamage reports whether percent rose since the previous frame.
func JustTookDamage(cur, prev float32) bool { return cur > prev }

// DamageTaken returns the percent gained since the previous frame, clamped at
// zero so a respawn never reads as negative damage.
func DamageTaken(cur, prev float32) float32 {
	if d := cur - prev; d > 0 {
		return d
	}
	return 0
}

// IsMagnifyingDamage reports whether exactly 1% was taken while the character
// spent the preceding 60 frames (and the current one) in the magnifying glass.
func IsMagnifyingDamage(damage float32, flags []Flags, index int) bool {
	if damage != 1 {
		return false
	}
	start := index - 60
	if start < 0 {
		start = 0
	}
	for _, f := range flags[start : index+1] {
		if !f.Intersects(FlagOffscreen) {
			return false
		}
	}
	return true
}

func IsInHitlag(f Flags) bool          { return f.Intersects(FlagHitlag) }
func IsInHitstun(f Flags) bool         { return f.Intersects(FlagHitstun) }
func IsInDefenderHitlag(f Flags) bool  { return f.Intersects(FlagDefenderHitlag) }
func IsInMagnifyingGlass(f Flags) bool { return f.Intersects(FlagOffscreen) }
func IsShieldingFlag(f Flags) bool     { return f.Intersects(FlagGuardBubble) }
func IsFastfalling(f Flags) bool       { return f.Intersects(FlagFastfall) }

// IsDamaged covers the tumble and reeling animations plus jab reset.
func IsDamaged(s ActionState) bool {
	return RangeDamage.Contains(s) || s == DamageFall || s == DownDamageD || s == DownDamageU
}

func IsGrabbed(s ActionState) bool { return RangeCapture.Contains(s) }

func IsCommandGrabbed(s ActionState) bool {
	return s != BarrelWait && (RangeCommandGrab1.Contains(s) || RangeCommandGrab2.Contains(s))
}

// IsTeching covers the tech states and the missed wall and ceiling bounces.
// Knockdown states are reported by IsDowned.
func IsTeching(s ActionState) bool {
	return RangeTech.Contains(s) || s == FlyReflectCeil || s == FlyReflectWall
}

func IsDowned(s ActionState) bool { return RangeDown.Contains(s) }
func IsThrown(s ActionState) bool { return RangeThrown.Contains(s) }
func IsDying(s ActionState) bool  { return RangeDying.Contains(s) }

// IsDodging covers rolls and spot dodge but not air dodge.
func IsDodging(s ActionState) bool { return s >= RangeDodge.Start && s < RangeDodge.End }

func IsShielding(s ActionState) bool     { return RangeGuard.Contains(s) }
func IsShieldBroken(s ActionState) bool  { return RangeGuardBreak.Contains(s) }
func IsLedgeAction(s ActionState) bool   { return RangeLedge.Contains(s) }
func IsSpecialFall(s ActionState) bool   { return RangeFallSpecial.Contains(s) }

// IsUpBLag reports landing into special-fall landing lag from anything other
// than a jump squat or air dodge, which would be a wavedash.
func IsUpBLag(cur, prev ActionState) bool {
	return cur == LandFallSpecial && prev != LandFallSpecial && prev != KneeBend && prev != EscapeAir
}

// LostStock reports whether the stock count dropped.
func LostStock(cur, prev uint8) bool { return cur < prev }

// IsVCancelState reports whether the character is airborne in a state that can v-cancel.
func IsVCancelState(s ActionState) bool {
	return (s >= JumpF && s <= DamageFall) || s == EscapeAir
}
