package melee

import (
	"math/bits"
	"strings"
)

// EngineInput is the button bitfield after the game engine has processed the
// controller poll. Analog values are folded in as digital bits (joystick and
// c-stick directions, ANY_TRIGGER for analog L/R past the trigger threshold).
type EngineInput uint32

const (
	EngineDpadLeft      EngineInput = 1 << 0
	EngineDpadRight     EngineInput = 1 << 1
	EngineDpadDown      EngineInput = 1 << 2
	EngineDpadUp        EngineInput = 1 << 3
	EngineZ             EngineInput = 1 << 4
	EngineR             EngineInput = 1 << 5
	EngineL             EngineInput = 1 << 6
	EngineA             EngineInput = 1 << 8
	EngineB             EngineInput = 1 << 9
	EngineX             EngineInput = 1 << 10
	EngineY             EngineInput = 1 << 11
	EngineStart         EngineInput = 1 << 12
	EngineJoystickUp    EngineInput = 1 << 16
	EngineJoystickDown  EngineInput = 1 << 17
	EngineJoystickLeft  EngineInput = 1 << 18
	EngineJoystickRight EngineInput = 1 << 19
	EngineCstickUp      EngineInput = 1 << 20
	EngineCstickDown    EngineInput = 1 << 21
	EngineCstickLeft    EngineInput = 1 << 22
	EngineCstickRight   EngineInput = 1 << 23
	EngineAnyTrigger    EngineInput = 1 << 31

	// EngineJoystickMask covers the four joystick direction bits.
	EngineJoystickMask EngineInput = 0x000F_0000
	// EngineCstickMask covers the four c-stick direction bits.
	EngineCstickMask EngineInput = 0x00F0_0000
	// EngineTechButtons are the digital inputs that attempt a tech.
	EngineTechButtons = EngineL | EngineR
)

// ControllerInput is the raw controller poll bitfield. Only digital buttons appear here.
type ControllerInput uint16

const (
	ControllerDpadLeft  ControllerInput = 1 << 0
	ControllerDpadRight ControllerInput = 1 << 1
	ControllerDpadDown  ControllerInput = 1 << 2
	ControllerDpadUp    ControllerInput = 1 << 3
	ControllerZ         ControllerInput = 1 << 4
	ControllerR         ControllerInput = 1 << 5
	ControllerL         ControllerInput = 1 << 6
	ControllerA         ControllerInput = 1 << 8
	ControllerB         ControllerInput = 1 << 9
	ControllerX         ControllerInput = 1 << 10
	ControllerY         ControllerInput = 1 << 11
	ControllerStart     ControllerInput = 1 << 12
)

// Contains reports whether every bit of other is set.
func (e EngineInput) Contains(other EngineInput) bool { return e&other == other }

// Intersects reports whether any bit of other is set.
func (e EngineInput) Intersects(other EngineInput) bool { return e&other != 0 }

// Count returns the number of set bits.
func (e EngineInput) Count() int { return bits.OnesCount32(uint32(e)) }

// Contains reports whether every bit of other is set.
func (c ControllerInput) Contains(other ControllerInput) bool { return c&other == other }

// Intersects reports whether any bit of other is set.
func (c ControllerInput) Intersects(other ControllerInput) bool { return c&other != 0 }

// Count returns the number of set bits.
func (c ControllerInput) Count() int { return bits.OnesCount16(uint16(c)) }

// ToEngine maps a controller poll onto the engine bitfield. Digital buttons
// share bit positions; a digital Z press also registers as A and ANY_TRIGGER
// in the engine, and digital L/R register as ANY_TRIGGER.
func (c ControllerInput) ToEngine() EngineInput {
	e := EngineInput(c)
	if c.Intersects(ControllerZ) {
		e |= EngineA | EngineAnyTrigger
	}
	if c.Intersects(ControllerL | ControllerR) {
		e |= EngineAnyTrigger
	}
	return e
}

// ToController strips the engine-only bits (stick directions, ANY_TRIGGER).
// The A bit implied by Z cannot be told apart from a real A press and is kept.
func (e EngineInput) ToController() ControllerInput {
	return ControllerInput(uint32(e) & 0x1F7F)
}

var engineNames = []struct {
	bit  EngineInput
	name string
}{
	{EngineDpadLeft, "DPAD_LEFT"}, {EngineDpadRight, "DPAD_RIGHT"}, {EngineDpadDown, "DPAD_DOWN"},
	{EngineDpadUp, "DPAD_UP"}, {EngineZ, "Z"}, {EngineR, "R"}, {EngineL, "L"}, {EngineA, "A"},
	{EngineB, "B"}, {EngineX, "X"}, {EngineY, "Y"}, {EngineStart, "START"},
	{EngineJoystickUp, "JOYSTICK_UP"}, {EngineJoystickDown, "JOYSTICK_DOWN"},
	{EngineJoystickLeft, "JOYSTICK_LEFT"}, {EngineJoystickRight, "JOYSTICK_RIGHT"},
	{EngineCstickUp, "CSTICK_UP"}, {EngineCstickDown, "CSTICK_DOWN"},
	{EngineCstickLeft, "CSTICK_LEFT"}, {EngineCstickRight, "CSTICK_RIGHT"},
	{EngineAnyTrigger, "ANY_TRIGGER"},
}

func (e EngineInput) String() string {
	if e == 0 {
		return "None"
	}
	var parts []string
	for _, n := range engineNames {
		if e.Contains(n.bit) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Controller bits share positions with the engine digital buttons.
func (c ControllerInput) String() string { return EngineInput(c).String() }

// Flags is the post-frame state bitfield, five bytes combined little-end first
// (byte 1 occupies bits 0-7, byte 5 bits 32-39).
type Flags uint64

const (
	FlagAbsorbBubble         Flags = 1 << 1
	FlagReflectNoSteal       Flags = 1 << 3
	FlagReflectBubble        Flags = 1 << 4
	FlagAllowInterrupt       Flags = 1 << 7
	FlagShielding            Flags = 1 << 8
	FlagSubactionInvuln      Flags = 1 << 10
	FlagFastfall             Flags = 1 << 11
	FlagDefenderHitlag       Flags = 1 << 12
	FlagHitlag               Flags = 1 << 13
	FlagGrabHold             Flags = 1 << 18
	FlagGuardBubble          Flags = 1 << 23
	FlagHitstun              Flags = 1 << 25
	FlagHitboxTouchingShield Flags = 1 << 26
	FlagPowershieldBubble    Flags = 1 << 29
	FlagCloakingDevice       Flags = 1 << 33
	FlagFollower             Flags = 1 << 35
	FlagInactive             Flags = 1 << 36
	FlagDead                 Flags = 1 << 38
	FlagOffscreen            Flags = 1 << 39
)

// CombineFlags packs the five post-frame flag bytes into one Flags value.
func CombineFlags(b1, b2, b3, b4, b5 uint8) Flags {
	return Flags(b1) | Flags(b2)<<8 | Flags(b3)<<16 | Flags(b4)<<24 | Flags(b5)<<32
}

// Intersects reports whether any bit of other is set.
func (f Flags) Intersects(other Flags) bool { return f&other != 0 }
