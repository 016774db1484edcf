package physics

import (
	"math"

	"github.com/pable/slpstats/internal/melee"
)

const (
	// SakuraiAngle is the nominal trajectory whose launch angle depends on knockback and grounded state.
	SakuraiAngle float32 = 361
	// AutoLinkAngle is the nominal trajectory that sends the victim along the attacker's movement.
	AutoLinkAngle float32 = 365
	// MaxDIOffset is the largest change DI can make to a trajectory, in degrees.
	MaxDIOffset float32 = 18
)

func toRadians(deg float32) float64 { return float64(deg) * math.Pi / 180 }

func toDegrees(rad float32) float32 { return float32(float64(rad) * 180 / math.Pi) }

// ResolveSakuraiAngle applies the Sakurai angle rule to a nominal trajectory.
// Airborne victims launch at 45 degrees. Grounded victims launch flat up to
// 32.0 knockback and at 44 degrees from 32.1; in between, the angle scales
// linearly from 0 to 44. Any other trajectory is returned unchanged.
func ResolveSakuraiAngle(trajectory, knockback float32, grounded bool) float32 {
	if trajectory != SakuraiAngle {
		return trajectory
	}
	if !grounded {
		return 45
	}
	if knockback <= 32.0 {
		return 0
	}
	if knockback >= 32.1 {
		return 44
	}
	scalar := (knockback - 32.0) * 10.0
	return 44.0 * scalar
}

// ResolveTrajectory resolves every sentinel trajectory to a concrete launch
// angle. The auto-link angle only applies when the move carries the auto-link
// flag; it takes the direction of the attacker's velocity, or 0 when the
// attacker is stationary.
func ResolveTrajectory(trajectory, knockback float32, grounded, autoLink bool, attacker melee.Velocity) float32 {
	if trajectory == AutoLinkAngle && autoLink {
		if attacker.IsZero() {
			return 0
		}
		return toDegrees(attacker.Angle())
	}
	return ResolveSakuraiAngle(trajectory, knockback, grounded)
}

// ApplyDI returns the trajectory after directional influence from the joystick.
// The stick should already have the dead zone applied.
func ApplyDI(trajectory float32, stick melee.StickPos) float32 {
	if stick.IsZero() {
		return trajectory
	}
	diff := trajectory - toDegrees(stick.Angle())
	if diff > 180 {
		diff -= 360
	}

	perp := float32(math.Sin(toRadians(diff))) * float32(math.Hypot(float64(stick.X), float64(stick.Y)))
	offset := perp * perp * MaxDIOffset
	if offset > MaxDIOffset {
		offset = MaxDIOffset
	}
	if diff > -180 && diff < 0 {
		offset = -offset
	}
	return trajectory - offset
}

// DIEfficacy returns how much DI moved the trajectory, as a fraction of the maximum possible.
func DIEfficacy(original, adjusted float32) float32 {
	return float32(math.Abs(float64(adjusted-original))) / MaxDIOffset
}

// InitialVelocity converts knockback and a launch angle into the knockback
// velocity on the first frame. High knockback that sends a grounded victim
// horizontally has no vertical component, and downward high knockback is
// reduced to 80%.
func InitialVelocity(knockback, angle float32, grounded bool) melee.Velocity {
	magnitude := knockback * 0.03
	rad := toRadians(angle)
	v := melee.Velocity{
		X: float32(math.Cos(rad)) * magnitude,
		Y: float32(math.Sin(rad)) * magnitude,
	}

	high := knockback >= TumbleThreshold
	if high && grounded && (angle == 0 || angle == 180) {
		v.Y = 0
		return v
	}
	if high && angle > 180 && angle < 360 {
		v.Y *= 0.8
	}
	return v
}

// KnockbackFromInitial recovers the knockback magnitude from a first-frame knockback velocity.
func KnockbackFromInitial(v melee.Velocity) float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y))) / 0.03
}

// HorizontalDecay is the per-frame decay of the x knockback velocity.
func HorizontalDecay(angle float32) float32 {
	return KnockbackDecay * float32(math.Cos(toRadians(angle)))
}

// VerticalDecay is the per-frame decay of the y knockback velocity. Gravity is
// applied separately.
func VerticalDecay(angle float32) float32 {
	return KnockbackDecay * float32(math.Sin(toRadians(angle)))
}

// WillTumble reports whether the knockback is high enough to cause tumble.
func WillTumble(knockback float32) bool { return knockback > TumbleThreshold }
