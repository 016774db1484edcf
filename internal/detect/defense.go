package detect

import (
	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
	"github.com/pable/slpstats/internal/physics"
)

const (
	// ASDIDistance is how far automatic smash DI moves a fully tilted stick.
	ASDIDistance float32 = 3.0
	// The kill check sweeps every reachable DI angle, 18 degrees either side
	// of the launch angle in fifths of a degree.
	diSweepSteps = 90
	diSweepStep  = float32(1) / 5
)

// Defense records every hit the character took. A hit opens on the first
// frame of damage and closes when its hitlag ends, which is when SDI, ASDI and
// DI have all been decided. attacker is the opponent's character, used to tell
// electric attacks apart for crouch cancel detection.
func Defense(f, opp *model.Frames, stage melee.Stage, victim, attacker melee.Character) *model.DefenseStats {
	pre, post := &f.Pre, &f.Post
	stats := &model.DefenseStats{}

	var lockout LockoutTracker
	var hit *model.HitTaken
	for i := 1; i < f.Len(); i++ {
		lockout.Update(pre.EngineButtons[i], post.Flags[i])
		inHitlag := melee.IsInHitlag(post.Flags[i])
		wasInHitlag := melee.IsInHitlag(post.Flags[i-1])
		tookDamage := melee.JustTookDamage(post.Percent[i], post.Percent[i-1])

		if hit == nil && tookDamage && (!wasInHitlag || (!inHitlag && melee.IsThrown(post.ActionState[i]))) {
			before := post.ActionState[i-1]
			grounded := post.IsGrounded[i-1]
			hit = &model.HitTaken{
				Frame:           model.FrameNumber(i),
				StocksRemaining: post.Stocks[i],
				Percent:         post.Percent[i],
				DamageTaken:     melee.DamageTaken(post.Percent[i], post.Percent[i-1]),
				LastHitBy:       opp.Post.LastAttackLanded[i],
				StateBeforeHit:  before,
				Grounded:        grounded,
				VCancel:         !grounded && melee.IsVCancelState(before) && lockout.CanVCancel(),
				StartPosition:   f.Position(i),
				Knockback:       f.Knockback(i),
			}
		}
		if hit == nil {
			continue
		}

		if inHitlag {
			hit.HitlagFrames++
			region := f.Joystick(i).Region()
			hit.StickDuringHitlag = append(hit.StickDuringHitlag, region)
			if hit.HitlagFrames > 1 && melee.ValidSDI(region, f.Joystick(i-1).Region()) {
				hit.SDIInputs = append(hit.SDIInputs, region)
			}
			continue
		}
		// a throw may start a frame before its hitlag does
		if !wasInHitlag && hit.Frame == model.FrameNumber(i) {
			continue
		}

		closeHit(hit, f, i, stage, victim, attacker)
		stats.Hits = append(stats.Hits, *hit)
		hit = nil
	}
	return stats
}

// closeHit fills the fields decided on the first frame after hitlag.
func closeHit(hit *model.HitTaken, f *model.Frames, i int, stage melee.Stage, victim, attacker melee.Character) {
	if hit.Grounded {
		electric := melee.IsElectricAttack(hit.LastHitBy, attacker)
		hit.CrouchCancel = uint32(hit.HitlagFrames) == physics.Hitlag(hit.DamageTaken, electric, true)
	}

	hit.DIStick = f.Joystick(i).WithDeadzone()
	asdi := melee.StickPos{X: f.Pre.CstickX[i], Y: f.Pre.CstickY[i]}.WithDeadzone()
	if asdi.IsZero() {
		asdi = hit.DIStick
	}
	hit.ASDI = asdi.Region()
	hit.EndPosition = f.Position(i - 1).Add(melee.Velocity{X: asdi.X * ASDIDistance, Y: asdi.Y * ASDIDistance})

	if hit.Knockback.IsZero() {
		hit.DIKnockback = hit.Knockback
		return
	}

	kb := physics.KnockbackFromInitial(hit.Knockback)
	angle := degrees(hit.Knockback.Angle())
	diAngle := physics.ApplyDI(angle, hit.DIStick)
	hit.DIEfficacy = physics.DIEfficacy(angle, diAngle)
	hit.DIKnockback = physics.InitialVelocity(kb, diAngle, hit.Grounded)

	kills := func(a float32) bool {
		return physics.ShouldKill(stage, kb, a, hit.Grounded, hit.EndPosition, victim)
	}
	hit.KillsNoDI = kills(angle)
	if hit.DIStick.IsZero() {
		hit.KillsWithDI = hit.KillsNoDI
	} else {
		hit.KillsWithDI = kills(diAngle)
	}

	hit.KillsAnyDI = true
	for j := -diSweepSteps; j <= diSweepSteps; j++ {
		if kills(angle - float32(j)*diSweepStep) {
			hit.KillsSomeDI = true
		} else {
			hit.KillsAnyDI = false
		}
	}
}
