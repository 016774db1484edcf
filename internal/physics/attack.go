// Package physics reproduces the game's hit, shield and knockback formulas.
//
// All functions are pure. Angles are in degrees unless a name says otherwise,
// and arithmetic is done in float32 so results line up with values observed in
// replays rather than with a higher precision model.
package physics

import (
	"math"

	"github.com/pable/slpstats/internal/melee"
)

const (
	// KnockbackDecay is the per-frame reduction of knockback velocity along its trajectory.
	KnockbackDecay float32 = 0.051
	// TumbleThreshold is the knockback above which the victim enters tumble.
	TumbleThreshold float32 = 80.0
	// MaxKnockback caps every knockback result.
	MaxKnockback float32 = 2500.0
	// ShieldHealthMax is the shield health of a fresh shield.
	ShieldHealthMax float32 = 60.0
	// ShieldRegenRate is the shield regenerated per frame while not shielding.
	ShieldRegenRate float32 = 0.07
	// TriggerMin is the lowest analog value that raises shield.
	TriggerMin float32 = 43.0 / 140.0
	// TriggerMax is the analog value of a fully pressed trigger.
	TriggerMax float32 = 1.0
	// ZTrigger is the analog value the game uses when shielding with Z.
	ZTrigger float32 = 49.0 / 140.0
	// MaxHitlag caps hitlag frames.
	MaxHitlag = 20
)

// Hit describes an attack landing on a character. Ratios (offense, defense,
// global damage) are assumed to be 1 as in every tournament ruleset.
type Hit struct {
	DamageStaled   float32
	DamageUnstaled float32
	Growth         uint32
	Base           uint32
	Set            uint32 // set knockback; 0 when the move scales with percent
	IsThrow        bool   // throws use a fixed weight of 100
}

// Modifiers are victim-side conditions that scale or absorb knockback.
type Modifiers struct {
	CrouchCancel    bool
	ChargeInterrupt bool
	VCancel         bool
	DoubleJumpArmor bool
	Metal           bool
	Ice             bool
	Nana            bool
}

func floor32(f float32) float32 { return float32(math.Floor(float64(f))) }

// Knockback returns the knockback magnitude of hit against a victim of the given
// weight at the given percent (before the hit's damage is applied).
func Knockback(hit Hit, weight uint32, percent float32, mods Modifiers) float32 {
	w := float32(weight)
	if hit.IsThrow {
		w = 100
	}

	var kb float32
	if hit.Set == 0 {
		p := hit.DamageStaled + floor32(percent)
		weightFactor := 2.0 - (2.0*(w*0.01))/(1.0+(w*0.01))
		kb = (0.01*float32(hit.Growth))*((1.4*(((0.05*(hit.DamageUnstaled*p))+p*0.1)*weightFactor))+18.0) +
			float32(hit.Base)
	} else {
		kb = ((float32(hit.Set*10/20)+1)*1.4*(200/(w+100))+18.0)*(float32(hit.Growth)/100) +
			float32(hit.Base)
	}

	if mods.CrouchCancel {
		kb *= 0.667
	}
	if mods.ChargeInterrupt {
		kb *= 1.2
	}
	if mods.VCancel {
		kb *= 0.95
	}
	if mods.Ice {
		kb *= 0.25
	}
	if mods.DoubleJumpArmor {
		kb = max(0, kb-120)
	}
	if mods.Metal {
		kb = max(0, kb-30)
	}
	if mods.Nana {
		kb = max(0, kb-5)
	}
	return min(MaxKnockback, kb)
}

// CharacterKnockback is Knockback using the victim's weight from the attribute table.
func CharacterKnockback(hit Hit, victim melee.Character, percent float32, mods Modifiers) float32 {
	attrs, _ := victim.Attributes()
	if victim == melee.Nana {
		mods.Nana = true
	}
	return Knockback(hit, attrs.Weight, percent, mods)
}

// Hitstun returns the number of frames a victim spends in hitstun.
func Hitstun(knockback float32) uint32 {
	return uint32(floor32(knockback * 0.4))
}

// Hitlag returns the freeze frames applied by a hit. The electric modifier
// does not apply to shield hits, so callers pass false for those.
func Hitlag(damage float32, electric, crouchCancel bool) uint32 {
	var e, cc float32 = 1, 1
	if electric {
		e = 1.5
	}
	if crouchCancel {
		cc = 2.0 / 3.0
	}
	h := floor32(floor32(floor32(floor32(damage/3)+3)*e) * cc)
	return min(uint32(h), MaxHitlag)
}

// ShieldStun returns the frames of shield stun. The trailing 200/201 factor is
// the game's animation shortening, which drops some results a frame below the
// naive rounding. Yoshi's shield never stuns.
func ShieldStun(damage, analog float32, isYoshi bool) uint32 {
	if isYoshi {
		return 0
	}
	analogScalar := 0.65 * (1.0 - (analog-0.3)/0.7)
	stun := (floor32(damage)*(analogScalar+0.3)*1.5 + 2.0) * (200.0 / 201.0)
	return uint32(floor32(stun))
}

// ShieldDamage returns the shield health removed by a hit. Powershields take none.
func ShieldDamage(damage, analog float32, powershield bool) float32 {
	if powershield {
		return 0
	}
	analogScalar := 0.2 * (1.0 - (analog-0.3)/0.7)
	return floor32(damage) * (analogScalar + 0.7)
}

// ShieldPushbackDefender returns the velocity imparted on the shielding character.
func ShieldPushbackDefender(damage, analog float32, powershield, isYoshi bool) float32 {
	if isYoshi {
		a := 0.3 * (1.0 - (analog-0.3)/0.7)
		return floor32(damage)*a + 0.14
	}
	var ps float32 = 0.6
	if powershield {
		ps = 1.0
	}
	a := 0.195 * (1.0 - (analog-0.3)/0.7)
	push := (floor32(damage)*(a+0.09) + 0.4) * ps
	return min(max(push, 0), 2)
}

// ShieldPushbackAttacker returns the velocity imparted on the attacker when hitting a shield.
func ShieldPushbackAttacker(damage, analog float32) float32 {
	a := (analog - 0.3) * 0.1
	return floor32(damage)*a + 0.02
}

// ShieldDrainRate returns the shield health lost per frame at the given trigger value.
func ShieldDrainRate(analog float32) float32 {
	analogScalar := 1.9 * ((analog - 0.3) / 0.7)
	return (analogScalar + 0.1) * 0.14
}

// StaleQueueLen is the length of the stale move queue.
const StaleQueueLen = 9

func staleScalar(queue [StaleQueueLen]bool) float32 {
	var result float32
	scalar := float32(0.09)
	for _, used := range queue {
		if used {
			result += scalar
		}
		scalar -= 0.01
	}
	return result
}

// StaledDamage applies the stale move queue to a move's base damage. The queue
// is ordered from least to most recent; true marks an instance of the move.
func StaledDamage(damage float32, queue [StaleQueueLen]bool) float32 {
	return damage * (1.0 - staleScalar(queue))
}

// UnstaledDamage recovers a move's base damage from the damage it dealt.
func UnstaledDamage(damage float32, queue [StaleQueueLen]bool) float32 {
	return damage / (1.0 - staleScalar(queue))
}
