package detect

import (
	"github.com/pable/slpstats/internal/melee"
)

const (
	// LockoutFrames is how long a tech press locks out the next attempt.
	LockoutFrames = 40
	// TechWindowFrames is how long a clean press keeps a tech available.
	TechWindowFrames = 20
	// HitlagTechWindowFrames is the window opened by a press on the last
	// frame of hitlag, which the game only reads once hitlag ends.
	HitlagTechWindowFrames = 19
	// vCancelFrames is the part of the tech window during which a hit is
	// v-cancelled: the press must be one or two frames old.
	vCancelFrames = 2
)

// LockoutTracker follows the tech input lockout frame by frame. Feed it every
// frame in order with Update; the zero value is ready to use.
type LockoutTracker struct {
	techWindow    int32
	lockoutWindow int32
	prevInputs    melee.EngineInput
	prevFlags     melee.Flags
	justPressed   bool
	duringHitlag  bool
}

// Update advances the tracker by one frame.
func (t *LockoutTracker) Update(buttons melee.EngineInput, flags melee.Flags) {
	justInput := melee.JustPressedAny(melee.EngineTechButtons, buttons, t.prevInputs)
	inHitlag := melee.IsInHitlag(flags)
	hitlagEnded := !inHitlag && melee.IsInHitlag(t.prevFlags)

	if hitlagEnded && t.justPressed {
		t.techWindow = HitlagTechWindowFrames
	}
	t.justPressed = justInput
	t.duringHitlag = justInput && inHitlag

	if justInput && t.lockoutWindow < 0 && !inHitlag {
		t.techWindow = TechWindowFrames
	}
	if justInput {
		if t.lockoutWindow >= 0 {
			// pressing again while locked out throws the window away
			t.techWindow = 0
		}
		t.lockoutWindow = LockoutFrames
	}

	t.lockoutWindow--
	t.techWindow--
	t.prevInputs = buttons
	t.prevFlags = flags
}

// IsLockedOut reports whether a tech attempt now would fail because of an
// earlier press.
func (t *LockoutTracker) IsLockedOut() bool {
	return t.lockoutWindow >= 0 && t.techWindow < 0
}

// CanTech reports whether the tech window is open.
func (t *LockoutTracker) CanTech() bool { return t.techWindow >= 0 }

// CanVCancel reports whether a hit landing now would be v-cancelled.
func (t *LockoutTracker) CanVCancel() bool {
	return t.techWindow >= TechWindowFrames-vCancelFrames && t.techWindow < TechWindowFrames
}

// JustPressed reports whether L or R was pressed on the last frame.
func (t *LockoutTracker) JustPressed() bool { return t.justPressed }

// InputDuringHitlag reports whether the last frame's press happened in hitlag.
func (t *LockoutTracker) InputDuringHitlag() bool { return t.duringHitlag }

// LockoutWindow returns the frames left in the lockout window. It is
// negative once the window has expired.
func (t *LockoutTracker) LockoutWindow() int32 { return t.lockoutWindow }

// FramesSinceInput returns how long ago the last press was as a non-positive
// number. Values below -LockoutFrames mean the press is too old to matter.
func (t *LockoutTracker) FramesSinceInput() int32 {
	return -(LockoutFrames - t.lockoutWindow)
}
