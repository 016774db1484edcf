package detect

import (
	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
)

// punishWindow is how many frames after a tech situation ends a hit still
// counts as punishing it.
const punishWindow = 8

// TechTypeFromState classifies a tech or knockdown state. dir is the facing
// direction, positive for right. ok is false for states that do not decide
// the option taken, such as the neutral get up from a knockdown.
func TechTypeFromState(state melee.ActionState, dir int8) (model.TechType, bool) {
	switch state {
	case melee.Passive:
		return model.TechInPlace, true
	case melee.DownStandU, melee.DownStandD:
		return model.MissedTechGetUp, true
	case melee.PassiveStandF:
		if dir > 0 {
			return model.TechRight, true
		}
		return model.TechLeft, true
	case melee.DownForwardU, melee.DownForwardD:
		if dir > 0 {
			return model.MissedTechRollRight, true
		}
		return model.MissedTechRollLeft, true
	case melee.PassiveStandB:
		if dir > 0 {
			return model.TechLeft, true
		}
		return model.TechRight, true
	case melee.DownBackU, melee.DownBackD:
		if dir > 0 {
			return model.MissedTechRollLeft, true
		}
		return model.MissedTechRollRight, true
	case melee.DownAttackU, melee.DownAttackD:
		return model.GetUpAttack, true
	case melee.DownBoundU, melee.DownBoundD, melee.DownWaitU, melee.DownWaitD, melee.DownReflect:
		return model.MissedTech, true
	case melee.DownDamageU, melee.DownDamageD:
		return model.JabReset, true
	case melee.PassiveWall:
		return model.WallTech, true
	case melee.PassiveWallJump:
		return model.WallJumpTech, true
	case melee.PassiveCeil:
		return model.CeilingTech, true
	case melee.FlyReflectCeil:
		return model.MissedCeilingTech, true
	case melee.FlyReflectWall:
		return model.MissedWallTech, true
	}
	return 0, false
}

func inTechSituation(s melee.ActionState) bool {
	return melee.IsTeching(s) || melee.IsDowned(s)
}

// Techs records every tech situation: from the first frame in a tech or
// knockdown state until the character leaves them. opp is the opponent's
// frame table, used for distance and the attack that caused the knockdown.
func Techs(f, opp *model.Frames, stage melee.Stage) *model.TechStats {
	pre, post := &f.Pre, &f.Post
	stats := &model.TechStats{}

	var lockout LockoutTracker
	var ev *model.Tech
	for i := 1; i < f.Len(); i++ {
		lockout.Update(pre.EngineButtons[i], post.Flags[i])
		state, prev := post.ActionState[i], post.ActionState[i-1]
		now, was := inTechSituation(state), inTechSituation(prev)

		if !now {
			if was && ev != nil {
				ev.Punished = punished(post.Flags, i)
				stats.Events = append(stats.Events, *ev)
				ev = nil
			}
			continue
		}

		dir := int8(post.Orientation[i])
		if !was {
			typ, ok := TechTypeFromState(state, dir)
			if !ok {
				typ = model.MissedTech
			}
			// a wall jump out of neutral is movement, not a tech
			if typ == model.WallJumpTech && !melee.IsDamaged(prev) && !melee.IsInDefenderHitlag(post.Flags[i-1]) {
				continue
			}
			ev = &model.Tech{
				Frame:           model.FrameNumber(i),
				StocksRemaining: post.Stocks[i],
				Percent:         post.Percent[i],
				Type:            typ,
				Position:        f.Position(i),
				Ground:          stage.Ground(post.LastGroundID[i]),
				MissedTech:      typ.IsMissed(),
				LastHitBy:       opp.Post.LastAttackLanded[i],
				Lockout:         lockout.IsLockedOut(),
				DuringHitlag:    lockout.InputDuringHitlag(),
			}
			if since := lockout.FramesSinceInput(); since >= -LockoutFrames && since <= 0 {
				ev.InputFrame = &since
			}
		}
		if ev == nil || state == prev {
			continue
		}

		typ, ok := TechTypeFromState(state, dir)
		if !ok {
			continue
		}
		ev.Type = typ
		pos, oppPos := f.Position(i), opp.Position(i)
		ev.OpponentDist = pos.Distance(oppPos)
		switch typ {
		case model.MissedTech:
			ev.MissedTech = true
			ev.JabReset = boolp(false)
		case model.JabReset:
			ev.JabReset = boolp(true)
		case model.TechLeft, model.MissedTechRollLeft:
			ev.TowardsCenter = boolp(pos.X > 0)
			ev.TowardsOpponent = boolp(oppPos.X < pos.X)
		case model.TechRight, model.MissedTechRollRight:
			ev.TowardsCenter = boolp(pos.X < 0)
			ev.TowardsOpponent = boolp(oppPos.X > pos.X)
		}
	}
	if ev != nil {
		// the match ended mid situation
		stats.Events = append(stats.Events, *ev)
	}
	return stats
}

// punished reports whether the character was hit in the frames after a tech
// situation ended at row i.
func punished(flags []melee.Flags, i int) bool {
	for j := i; j <= i+punishWindow && j < len(flags); j++ {
		if melee.IsInDefenderHitlag(flags[j]) {
			return true
		}
	}
	return false
}
