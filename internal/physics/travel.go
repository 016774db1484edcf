package physics

import (
	"math"

	"github.com/pable/slpstats/internal/melee"
)

// KnockbackTravel simulates the victim's position on every frame of hitstun,
// starting with the position at the moment of the hit. The knockback velocity
// decays toward zero along each axis while gravity accelerates the victim's own
// vertical velocity up to maxFallSpeed.
func KnockbackTravel(knockback, angle float32, grounded bool, start melee.Position, gravity, maxFallSpeed float32) []melee.Position {
	frames := Hitstun(knockback)
	out := make([]melee.Position, 0, frames+1)
	out = append(out, start)

	kb := InitialVelocity(knockback, angle, grounded)
	xDecay := float32(math.Abs(float64(HorizontalDecay(angle))))
	yDecay := float32(math.Abs(float64(VerticalDecay(angle))))
	terminal := -float32(math.Abs(float64(maxFallSpeed)))

	var selfY float32
	pos := start
	for i := uint32(0); i < frames; i++ {
		selfY = max(selfY-gravity, terminal)
		if kb.X < 0 {
			kb.X = min(kb.X+xDecay, 0)
		} else {
			kb.X = max(kb.X-xDecay, 0)
		}
		if kb.Y > 0 {
			kb.Y = max(kb.Y-yDecay, 0)
		} else {
			kb.Y = min(kb.Y+yDecay, 0)
		}
		pos = pos.Add(kb)
		pos.Y += selfY
		out = append(out, pos)
	}
	return out
}

// ShouldKill reports whether any frame of the knockback travel ends past the stage's blast zones.
func ShouldKill(stage melee.Stage, knockback, angle float32, grounded bool, start melee.Position, victim melee.Character) bool {
	attrs, _ := victim.Attributes()
	for _, pos := range KnockbackTravel(knockback, angle, grounded, start, attrs.Gravity, attrs.MaxFallSpeed) {
		if stage.IsPastBlastzone(pos) {
			return true
		}
	}
	return false
}

// JumpArc returns the character's height on each frame of a jump relative to
// the take-off point, ending on the first frame below it. When gravityFrame1
// is set, gravity also applies on the first airborne frame, as it does when
// an aerial is used immediately.
func JumpArc(force, gravity, terminal float32, gravityFrame1 bool) []float32 {
	arc := []float32{0}
	vel := force
	if gravityFrame1 {
		vel -= gravity
	}
	var height float32
	for height >= 0 {
		height += vel
		arc = append(arc, height)
		vel = max(vel-gravity, -terminal)
	}
	return arc
}
