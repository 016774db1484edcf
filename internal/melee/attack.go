package melee

import "fmt"

// Attack is the move id reported in the post-frame "last attack landed" field.
type Attack uint8

const (
	AttackNone           Attack = 0
	AttackNonStaling     Attack = 1
	AttackJab1           Attack = 2
	AttackJab2           Attack = 3
	AttackJab3           Attack = 4
	AttackRapidJab       Attack = 5
	AttackDashAttack     Attack = 6
	AttackFTilt          Attack = 7
	AttackUTilt          Attack = 8
	AttackDTilt          Attack = 9
	AttackFSmash         Attack = 10
	AttackUSmash         Attack = 11
	AttackDSmash         Attack = 12
	AttackNair           Attack = 13
	AttackFair           Attack = 14
	AttackBair           Attack = 15
	AttackUair           Attack = 16
	AttackDair           Attack = 17
	AttackNeutralSpecial Attack = 18
	AttackSideSpecial    Attack = 19
	AttackUpSpecial      Attack = 20
	AttackDownSpecial    Attack = 21
	AttackGetUpBack      Attack = 50
	AttackGetUpFront     Attack = 51
	AttackPummel         Attack = 52
	AttackForwardThrow   Attack = 53
	AttackBackThrow      Attack = 54
	AttackUpThrow        Attack = 55
	AttackDownThrow      Attack = 56
	AttackLedgeSlow      Attack = 61
	AttackLedgeFast      Attack = 62
	AttackHammer         Attack = 93
)

var attackNames = map[Attack]string{
	0: "NONE", 1: "NON_STALING", 2: "JAB_1", 3: "JAB_2", 4: "JAB_3", 5: "RAPID_JAB",
	6: "DASH_ATTACK", 7: "F_TILT", 8: "U_TILT", 9: "D_TILT", 10: "F_SMASH", 11: "U_SMASH",
	12: "D_SMASH", 13: "NAIR", 14: "FAIR", 15: "BAIR", 16: "UAIR", 17: "DAIR",
	18: "NEUTRAL_SPECIAL", 19: "SIDE_SPECIAL", 20: "UP_SPECIAL", 21: "DOWN_SPECIAL",
	22: "KIRBY_HAT_MARIO", 23: "KIRBY_HAT_FOX", 24: "KIRBY_HAT_CFALCON",
	25: "KIRBY_HAT_DKNEUTRAL_SPECIAL", 26: "KIRBY_HAT_BOWSER", 27: "KIRBY_HAT_LINK",
	28: "KIRBY_HAT_SHEIK", 29: "KIRBY_HAT_NESS", 30: "KIRBY_HAT_PEACH",
	31: "KIRBY_HAT_ICE_CLIMBER", 32: "KIRBY_HAT_PIKACHU", 33: "KIRBY_HAT_SAMUS",
	34: "KIRBY_HAT_YOSHI", 35: "KIRBY_HAT_JIGGLYPUFF", 36: "KIRBY_HAT_MEWTWO",
	37: "KIRBY_HAT_LUIGI", 38: "KIRBY_HAT_MARTH", 39: "KIRBY_HAT_ZELDA",
	40: "KIRBY_HAT_YOUNG_LINK", 41: "KIRBY_HAT_DOC", 42: "KIRBY_HAT_FALCO",
	43: "KIRBY_HAT_PICHU", 44: "KIRBY_HAT_GAME_AND_WATCH", 45: "KIRBY_HAT_GANON",
	46: "KIRBY_HAT_ROY", 50: "GET_UP_ATTACK_BACK", 51: "GET_UP_ATTACK_FRONT", 52: "PUMMEL",
	53: "FORWARD_THROW", 54: "BACK_THROW", 55: "UP_THROW", 56: "DOWN_THROW",
	57: "CARGO_FORWARD_THROW", 58: "CARGO_BACK_THROW", 59: "CARGO_UP_THROW",
	60: "CARGO_DOWN_THROW", 61: "LEDGE_ATTACK_SLOW", 62: "LEDGE_ATTACK_FAST",
	63: "BEAM_SWORD_JAB", 64: "BEAM_SWORD_TILT_SWING", 65: "BEAM_SWORD_SMASH_SWING",
	66: "BEAM_SWORD_DASH_SWING", 67: "HOME_RUN_BAT_JAB", 68: "HOME_RUN_BAT_TILT_SWING",
	69: "HOME_RUN_BAT_SMASH_SWING", 70: "HOME_RUN_BAT_DASH_SWING", 71: "PARASOL_JAB",
	72: "PARASOL_TILT_SWING", 73: "PARASOL_SMASH_SWING", 74: "PARASOL_DASH_SWING",
	75: "FAN_JAB", 76: "FAN_TILT_SWING", 77: "FAN_SMASH_SWING", 78: "FAN_DASH_SWING",
	79: "STAR_ROD_JAB", 80: "STAR_ROD_TILT_SWING", 81: "STAR_ROD_SMASH_SWING",
	82: "STAR_ROD_DASH_SWING", 83: "LIPS_STICK_JAB", 84: "LIPS_STICK_TILT_SWING",
	85: "LIPS_STICK_SMASH_SWING", 86: "LIPS_STICK_DASH_SWING", 87: "OPEN_PARASOL",
	88: "RAY_GUN_SHOOT", 89: "FIRE_FLOWER_SHOOT", 90: "SCREW_ATTACK",
	91: "SUPER_SCOPE_RAPID", 92: "SUPER_SCOPE_CHARGED", 93: "HAMMER",
}

func (a Attack) String() string {
	if n, ok := attackNames[a]; ok {
		return n
	}
	return fmt.Sprintf("ATTACK_%d", uint8(a))
}

// AerialFromState maps an aerial attack or its landing lag state to the aerial it
// belongs to. ok is false for any other state.
func AerialFromState(s ActionState) (Attack, bool) {
	switch s {
	case AttackAirN, LandingAirN:
		return AttackNair, true
	case AttackAirF, LandingAirF:
		return AttackFair, true
	case AttackAirB, LandingAirB:
		return AttackBair, true
	case AttackAirHi, LandingAirHi:
		return AttackUair, true
	case AttackAirLw, LandingAirLw:
		return AttackDair, true
	}
	return AttackNone, false
}

var electricAttacks = map[Character][]Attack{
	CaptainFalcon: {AttackFair},
	DrMario:       {AttackFSmash},
	Falco:         {AttackDownSpecial},
	Fox:           {AttackDownSpecial},
	Ganondorf:     {AttackJab1, AttackDair, AttackUpSpecial},
	Mewtwo:        {AttackNair, AttackPummel},
	Ness:          {AttackBair, AttackDashAttack, AttackFair},
	Pichu:         {AttackDair, AttackFSmash, AttackPummel, AttackFair},
	Pikachu:       {AttackDair, AttackDSmash, AttackFair, AttackFSmash, AttackPummel},
	Samus:         {AttackNonStaling, AttackNeutralSpecial, AttackUpSpecial},
	Zelda: {
		AttackBair, AttackDashAttack, AttackFair, AttackFSmash, AttackJab1, AttackPummel,
		AttackUSmash, AttackUTilt,
	},
}

// IsElectricAttack reports whether the attack carries the electric property,
// which lengthens hitlag. Throws are not included.
func IsElectricAttack(a Attack, c Character) bool {
	for _, e := range electricAttacks[c] {
		if e == a {
			return true
		}
	}
	return false
}
