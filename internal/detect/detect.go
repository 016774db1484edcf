// Package detect scans a player's frame table for techniques and habits.
//
// Every detector is a pure function of the columns it reads. Columns of one
// table always have the same length; a mismatch is a decoding bug and panics
// through Frames.Len.
package detect

import (
	"math"
)

func degrees(rad float32) float32 { return rad * (180 / math.Pi) }

func boolp(b bool) *bool { return &b }
