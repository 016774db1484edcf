package detect

import (
	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
)

const (
	// wavedashStart is the first row scanned so the jump squat lookback
	// never reaches before row 0.
	wavedashStart = 20
	// jumpSquatLookback is how many frames before landing a jump squat makes
	// the landing a wavedash rather than a waveland.
	jumpSquatLookback = 5
)

// Wavedashes finds every entry into special-fall landing lag. Staying in the
// landing state over several frames counts once.
func Wavedashes(f *model.Frames) []model.Wavedash {
	states := f.Post.ActionState
	var out []model.Wavedash
	for i := wavedashStart; i < f.Len(); i++ {
		if !melee.JustEnteredState(melee.LandFallSpecial, states[i], states[i-1]) {
			continue
		}
		waveland := true
		for j := 1; j <= jumpSquatLookback; j++ {
			if states[i-j] == melee.KneeBend {
				waveland = false
				break
			}
		}
		angle, dir := wavedashAngle(f.Joystick(i))
		out = append(out, model.Wavedash{
			Frame:         model.FrameNumber(i),
			Angle:         angle,
			Direction:     dir,
			StartPosition: f.Position(i),
			Waveland:      waveland,
		})
	}
	return out
}

// wavedashAngle turns a stick reading into degrees below horizontal and a
// coarse direction. Straight down is 90, a flat right is 0.
func wavedashAngle(stick melee.StickPos) (float32, model.Direction) {
	deg := degrees(stick.WithDeadzone().Angle())
	switch {
	case deg == 270:
		return 90, model.DirectionDown
	case deg == 0 || deg >= 360:
		return 0, model.DirectionRight
	case deg < 90:
		// above horizontal; the game treats it as a flat airdodge
		return -deg, model.DirectionRight
	case deg < 270:
		return deg - 180, model.DirectionLeft
	default:
		return deg - 270, model.DirectionRight
	}
}
