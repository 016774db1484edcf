package melee

import "math"

// StickDeadzone is the magnitude below which an axis reads as neutral.
const StickDeadzone float32 = 0.2875

// StickRegion is one of the eight gate directions of an analog stick, or the dead zone.
type StickRegion int8

const (
	RegionDeadZone  StickRegion = -1
	RegionUp        StickRegion = 0
	RegionUpRight   StickRegion = 1
	RegionRight     StickRegion = 2
	RegionDownRight StickRegion = 3
	RegionDown      StickRegion = 4
	RegionDownLeft  StickRegion = 5
	RegionLeft      StickRegion = 6
	RegionUpLeft    StickRegion = 7
)

func (r StickRegion) String() string {
	switch r {
	case RegionUp:
		return "UP"
	case RegionUpRight:
		return "UP_RIGHT"
	case RegionRight:
		return "RIGHT"
	case RegionDownRight:
		return "DOWN_RIGHT"
	case RegionDown:
		return "DOWN"
	case RegionDownLeft:
		return "DOWN_LEFT"
	case RegionLeft:
		return "LEFT"
	case RegionUpLeft:
		return "UP_LEFT"
	default:
		return "DEAD_ZONE"
	}
}

// RegionFromCoordinates classifies a stick position. An axis counts as pushed
// once its magnitude reaches StickDeadzone.
func RegionFromCoordinates(x, y float32) StickRegion {
	right := x >= StickDeadzone
	left := x <= -StickDeadzone
	up := y >= StickDeadzone
	down := y <= -StickDeadzone

	switch {
	case up && right:
		return RegionUpRight
	case down && right:
		return RegionDownRight
	case down && left:
		return RegionDownLeft
	case up && left:
		return RegionUpLeft
	case up:
		return RegionUp
	case right:
		return RegionRight
	case down:
		return RegionDown
	case left:
		return RegionLeft
	default:
		return RegionDeadZone
	}
}

// RegionFromEngineBits classifies the joystick direction bits of an engine bitfield.
func RegionFromEngineBits(e EngineInput) StickRegion {
	masked := e & EngineJoystickMask
	if masked == 0 {
		return RegionDeadZone
	}
	up := masked.Contains(EngineJoystickUp)
	down := masked.Contains(EngineJoystickDown)
	left := masked.Contains(EngineJoystickLeft)
	right := masked.Contains(EngineJoystickRight)

	switch {
	case up && right:
		return RegionUpRight
	case down && right:
		return RegionDownRight
	case down && left:
		return RegionDownLeft
	case up && left:
		return RegionUpLeft
	case up:
		return RegionUp
	case right:
		return RegionRight
	case down:
		return RegionDown
	default:
		return RegionLeft
	}
}

// ValidSDI reports whether moving the stick from prev to cur counts as a smash
// DI input: the stick must leave the dead zone or change gate direction.
func ValidSDI(cur, prev StickRegion) bool {
	return cur != RegionDeadZone && cur != prev
}

// StickPos is an analog stick reading with each axis in [-1, 1].
type StickPos struct {
	X, Y float32
}

// Region returns the gate direction of the stick.
func (s StickPos) Region() StickRegion { return RegionFromCoordinates(s.X, s.Y) }

// WithDeadzone zeroes the axes that the game treats as neutral: both axes in
// the dead zone, the x axis for pure up/down, the y axis for pure left/right.
func (s StickPos) WithDeadzone() StickPos {
	switch s.Region() {
	case RegionDeadZone:
		return StickPos{}
	case RegionUp, RegionDown:
		return StickPos{0, s.Y}
	case RegionLeft, RegionRight:
		return StickPos{s.X, 0}
	default:
		return s
	}
}

// Angle returns the stick angle in radians, in [0, 2π).
func (s StickPos) Angle() float32 { return PointToAngle(s.X, s.Y) }

// IsZero reports whether both axes are exactly zero.
func (s StickPos) IsZero() bool { return s.X == 0 && s.Y == 0 }

// Velocity is a per-frame displacement.
type Velocity struct {
	X, Y float32
}

// Angle returns the direction of the velocity in radians, in [0, 2π).
func (v Velocity) Angle() float32 { return PointToAngle(v.X, v.Y) }

// IsZero reports whether both components are exactly zero.
func (v Velocity) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Position is an in-game world coordinate.
type Position struct {
	X, Y float32
}

// Add returns p displaced by v.
func (p Position) Add(v Velocity) Position { return Position{p.X + v.X, p.Y + v.Y} }

// Sub returns p displaced by -v.
func (p Position) Sub(v Velocity) Position { return Position{p.X - v.X, p.Y - v.Y} }

// Distance returns the euclidean distance between two positions.
func (p Position) Distance(o Position) float32 {
	return float32(math.Hypot(float64(p.X-o.X), float64(p.Y-o.Y)))
}

// PointToAngle returns the angle of (x, y) in radians, normalised to [0, 2π).
func PointToAngle(x, y float32) float32 {
	const tau = 2 * math.Pi
	a := math.Mod(math.Atan2(float64(y), float64(x))+tau, tau)
	return float32(a)
}
