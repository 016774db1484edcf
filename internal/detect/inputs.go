package detect

import (
	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
)

// preferenceMargin is how much larger one button's share of presses must be
// before it counts as the preferred one.
const preferenceMargin = 0.15

// Inputs counts every distinct input the player made. totalFrames is the
// match length used for APM.
func Inputs(f *model.Frames, totalFrames int) model.InputSummary {
	pre := &f.Pre
	var s model.InputSummary
	var l, r, x, y int
	for i := 1; i < f.Len(); i++ {
		ctrl, ctrlPrev := pre.ControllerButtons[i], pre.ControllerButtons[i-1]
		pressed := ctrl &^ ctrlPrev
		s.Digital += pressed.Count()
		if pressed.Intersects(melee.ControllerL) {
			l++
		}
		if pressed.Intersects(melee.ControllerR) {
			r++
		}
		if pressed.Intersects(melee.ControllerX) {
			x++
		}
		if pressed.Intersects(melee.ControllerY) {
			y++
		}

		eng, engPrev := pre.EngineButtons[i], pre.EngineButtons[i-1]
		// a stick returning to neutral is not an input
		if stick := eng & melee.EngineJoystickMask; stick != 0 {
			s.Joystick += (stick ^ engPrev&melee.EngineJoystickMask).Count()
		}
		if cstick := eng & melee.EngineCstickMask; cstick != 0 {
			s.Cstick += (cstick ^ engPrev&melee.EngineCstickMask).Count()
		}

		// ANY_TRIGGER without a digital L, R or Z press is an analog press
		engPressed := eng &^ engPrev
		if engPressed.Intersects(melee.EngineAnyTrigger) &&
			!engPressed.Intersects(melee.EngineL|melee.EngineR) &&
			!pressed.Intersects(melee.ControllerZ) {
			s.AnalogTrigger++
		}
	}

	if totalFrames > 0 {
		minutes := float32(totalFrames) / 60 / 60
		s.APM = float32(s.Total()) / minutes
	}
	s.TriggerPref = preference(l, r, model.PreferL, model.PreferR)
	s.JumpPref = preference(x, y, model.PreferX, model.PreferY)
	return s
}

func preference(a, b int, prefA, prefB model.Preference) model.Preference {
	switch {
	case a == 0 && b == 0:
		return model.PreferUnknown
	case a == 0:
		return prefB
	case b == 0:
		return prefA
	}
	total := float32(a + b)
	diff := float32(a)/total - float32(b)/total
	switch {
	case diff >= preferenceMargin:
		return prefA
	case diff <= -preferenceMargin:
		return prefB
	default:
		return model.PreferBoth
	}
}
