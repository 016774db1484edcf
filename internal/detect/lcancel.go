package detect

import (
	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
)

const (
	// lcancelWindow is how early a press may come and still count for a landing.
	lcancelWindow = 15
	// lcancelHitlagWindow widens the window for presses made in hitlag,
	// which freeze the countdown.
	lcancelHitlagWindow = 25
	// lcancelLateWindow is how many frames after a failed landing are searched
	// for a late press.
	lcancelLateWindow = 5
)

// LCancels records every landing out of an aerial with the timing of the
// trigger press that did or did not cancel it.
func LCancels(f *model.Frames, stage melee.Stage) *model.LCancelStats {
	pre, post := &f.Pre, &f.Post
	stats := &model.LCancelStats{}

	// row of the last unconsumed press, -1 when none
	input := -1
	inputInHitlag := false
	// row of a late press already credited to the previous landing
	late := -1
	for i := 1; i < f.Len(); i++ {
		if i != late && melee.JustInputLCancel(pre.EngineButtons[i], pre.EngineButtons[i-1]) {
			input = i
			inputInHitlag = melee.IsInHitlag(post.Flags[i])
		}

		status := post.LCancel[i]
		if status == model.LCancelNotApplicable {
			continue
		}
		attack, ok := melee.AerialFromState(post.ActionState[i])
		if !ok {
			continue
		}

		var trigger *int32
		duringHitlag := false
		if input >= 0 {
			rel := int32(input - i)
			if (rel >= -lcancelWindow || inputInHitlag) && rel >= -lcancelHitlagWindow {
				trigger = &rel
				duringHitlag = inputInHitlag
			}
		}
		if status == model.LCancelFailure && trigger == nil {
			for j := 1; j <= lcancelLateWindow && i+j < f.Len(); j++ {
				if melee.JustInputLCancel(pre.EngineButtons[i+j], pre.EngineButtons[i+j-1]) {
					rel := int32(j)
					trigger = &rel
					late = i + j
					break
				}
			}
		}

		stats.Events = append(stats.Events, model.LCancel{
			Frame:           model.FrameNumber(i),
			Attack:          attack,
			StocksRemaining: post.Stocks[i],
			Percent:         post.Percent[i],
			Success:         status == model.LCancelSuccess,
			TriggerFrame:    trigger,
			Ground:          stage.Ground(post.LastGroundID[i]),
			Fastfall:        melee.IsFastfalling(post.Flags[i-1]),
			DuringHitlag:    duringHitlag,
		})
		input = -1
	}
	return stats
}
