package melee

import "testing"

func TestRegionFromCoordinates(t *testing.T) {
	cases := []struct {
		x, y float32
		want StickRegion
	}{
		{0, 0, RegionDeadZone},
		{0.2875, 0, RegionRight},
		{0.28, 0.28, RegionDeadZone},
		{-1, 0, RegionLeft},
		{0, -0.5, RegionDown},
		{0.7, 0.7, RegionUpRight},
		{-0.7, -0.7, RegionDownLeft},
		{-0.3, 0.9, RegionUpLeft},
	}
	for _, c := range cases {
		if got := RegionFromCoordinates(c.x, c.y); got != c.want {
			t.Errorf("RegionFromCoordinates(%v, %v) = %s, want %s", c.x, c.y, got, c.want)
		}
	}
}

func TestRegionFromEngineBits(t *testing.T) {
	if got := RegionFromEngineBits(EngineJoystickUp | EngineJoystickLeft | EngineA); got != RegionUpLeft {
		t.Errorf("up+left = %s", got)
	}
	if got := RegionFromEngineBits(EngineA | EngineCstickUp); got != RegionDeadZone {
		t.Errorf("no joystick bits = %s", got)
	}
}

func TestWithDeadzone(t *testing.T) {
	cases := []struct {
		in, want StickPos
	}{
		{StickPos{0.1, 0.2}, StickPos{}},
		{StickPos{0.1, 0.9}, StickPos{0, 0.9}},
		{StickPos{-0.8, 0.2}, StickPos{-0.8, 0}},
		{StickPos{0.5, -0.5}, StickPos{0.5, -0.5}},
	}
	for _, c := range cases {
		if got := c.in.WithDeadzone(); got != c.want {
			t.Errorf("%+v.WithDeadzone() = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestValidSDI(t *testing.T) {
	if !ValidSDI(RegionUp, RegionDeadZone) {
		t.Error("leaving the dead zone should count")
	}
	if !ValidSDI(RegionUpRight, RegionUp) {
		t.Error("changing direction should count")
	}
	if ValidSDI(RegionUp, RegionUp) {
		t.Error("holding a direction should not count")
	}
	if ValidSDI(RegionDeadZone, RegionUp) {
		t.Error("returning to neutral should not count")
	}
}

func TestControllerToEngine(t *testing.T) {
	e := ControllerZ.ToEngine()
	if !e.Contains(EngineZ | EngineA | EngineAnyTrigger) {
		t.Errorf("Z = %s, want Z|A|ANY_TRIGGER", e)
	}
	if e := ControllerL.ToEngine(); !e.Contains(EngineL | EngineAnyTrigger) {
		t.Errorf("L = %s", e)
	}
	if got := (EngineB | EngineJoystickUp | EngineAnyTrigger).ToController(); got != ControllerB {
		t.Errorf("ToController = %s, want B", got)
	}
}

func TestJustPressed(t *testing.T) {
	if !JustInputLCancel(EngineAnyTrigger|EngineR, 0) {
		t.Error("fresh trigger press not detected")
	}
	if JustInputLCancel(EngineAnyTrigger, EngineAnyTrigger) {
		t.Error("held trigger counted twice")
	}
	if !JustPressedAny(EngineX|EngineY, EngineY, EngineA) {
		t.Error("JustPressedAny missed Y")
	}
	if JustPressedAny(EngineX|EngineY, EngineY, EngineX) {
		t.Error("JustPressedAny fired while X was held")
	}
	if !JustPressedAll(EngineA|EngineB, EngineA|EngineB, EngineA) {
		t.Error("JustPressedAll missed completing the chord")
	}
}

func TestStateEdges(t *testing.T) {
	if !JustEnteredState(LandFallSpecial, LandFallSpecial, Wait) {
		t.Error("entry not detected")
	}
	if JustEnteredState(LandFallSpecial, LandFallSpecial, LandFallSpecial) {
		t.Error("staying in a state is not an entry")
	}
	if !JustExitedState(LandFallSpecial, Wait, LandFallSpecial) {
		t.Error("exit not detected")
	}
}

func TestDamage(t *testing.T) {
	if got := DamageTaken(30, 18); got != 12 {
		t.Errorf("DamageTaken = %v, want 12", got)
	}
	if got := DamageTaken(0, 120); got != 0 {
		t.Errorf("respawn DamageTaken = %v, want 0", got)
	}

	flags := make([]Flags, 70)
	for i := range flags {
		flags[i] = FlagOffscreen
	}
	if !IsMagnifyingDamage(1, flags, 65) {
		t.Error("1% after 60 offscreen frames should be magnifying glass damage")
	}
	flags[30] = 0
	if IsMagnifyingDamage(1, flags, 65) {
		t.Error("an onscreen frame in the window should clear it")
	}
	if IsMagnifyingDamage(2, flags, 20) {
		t.Error("only 1% ticks are magnifying glass damage")
	}
}

func TestStage(t *testing.T) {
	bf := StageFromID(Battlefield)
	if got := bf.Ground(3); got != GroundTopPlatform {
		t.Errorf("Battlefield ground 3 = %s", got)
	}
	if got := bf.Ground(40); got != GroundUnknown {
		t.Errorf("unknown ground = %s", got)
	}
	if !bf.IsPastBlastzone(Position{224, 0}) {
		t.Error("x on the right blast zone should count as past it")
	}
	if bf.IsPastBlastzone(Position{0, 0}) {
		t.Error("center stage is not past the blast zone")
	}
	if !bf.IsOffstage(Position{80, 0}) || bf.IsOffstage(Position{0, 0}) {
		t.Error("offstage check wrong")
	}

	other := StageFromID(StageID(4))
	if other.IsPastBlastzone(Position{500, -500}) {
		t.Error("unknown stages have unreachable blast zones")
	}
}

func TestCharacterFromCSS(t *testing.T) {
	if c, err := CharacterFromCSS(2); err != nil || c != Fox {
		t.Errorf("css 2 = %s, %v", c, err)
	}
	if c, err := CharacterFromCSS(IceClimbersCSS); err != nil || c != Popo || !c.IsIceClimbers() {
		t.Errorf("css 14 = %s, %v", c, err)
	}
	if _, err := CharacterFromCSS(200); err == nil {
		t.Error("expected an error for css 200")
	}
}

func TestResolveSubItem(t *testing.T) {
	if got := ResolveSubItem(ItemPeachTurnip, 1); got != ItemTurnipBored {
		t.Errorf("turnip 1 = %s", got)
	}
	if got := ResolveSubItem(ItemPeachTurnip, 9); got != ItemUnknown {
		t.Errorf("turnip 9 = %s", got)
	}
	if got := ResolveSubItem(ItemSamusMissile, 0); got != ItemHomingMissile {
		t.Errorf("missile 0 = %s", got)
	}
	if got := ResolveSubItem(ItemBeamSword, 3); got != ItemBeamSword {
		t.Errorf("beam sword = %s", got)
	}
}

func TestAerialFromState(t *testing.T) {
	if a, ok := AerialFromState(LandingAirF); !ok || a != AttackFair {
		t.Errorf("LandingAirF = %s, %v", a, ok)
	}
	if _, ok := AerialFromState(Wait); ok {
		t.Error("Wait is not an aerial")
	}
	if !IsElectricAttack(AttackDownSpecial, Fox) || IsElectricAttack(AttackFair, Fox) {
		t.Error("electric attack table wrong for Fox")
	}
}
