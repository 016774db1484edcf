package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/blang/semver/v4"

	"github.com/pable/slpstats/internal/melee"
)

var (
	// ErrNotFound is returned by player lookups that match nothing.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedPlayerCount is returned when a match does not have exactly
	// AnalyzablePlayers human players.
	ErrUnsupportedPlayerCount = errors.New("unsupported player count")
)

// AnalyzablePlayers is the number of human players the detectors expect.
const AnalyzablePlayers = 2

// FirstFrame is the frame number of the first simulated frame. Row i of every
// frame table holds frame FirstFrame+i.
const FirstFrame int32 = -123

// FrameNumber converts a zero-based row index into the game's signed frame number.
func FrameNumber(index int) int32 { return int32(index) + FirstFrame }

// FrameIndex converts a signed frame number into a zero-based row index.
func FrameIndex(frame int32) int { return int(frame - FirstFrame) }

// ---- Version ----

// Version is the replay format version declared in the game start event.
type Version struct {
	Major, Minor, Build uint8
}

// ParseVersion parses "major.minor.build".
func ParseVersion(s string) (Version, error) {
	v, err := semver.Parse(s)
	if err != nil {
		return Version{}, fmt.Errorf("parse version %q: %w", s, err)
	}
	if v.Major > 255 || v.Minor > 255 || v.Patch > 255 {
		return Version{}, fmt.Errorf("parse version %q: component out of range", s)
	}
	return Version{uint8(v.Major), uint8(v.Minor), uint8(v.Patch)}, nil
}

// MustVersion is ParseVersion for package-level constants.
func MustVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) semver() semver.Version {
	return semver.Version{Major: uint64(v.Major), Minor: uint64(v.Minor), Patch: uint64(v.Build)}
}

// AtLeast reports whether v is the same as or newer than other.
func (v Version) AtLeast(other Version) bool { return v.semver().GTE(other.semver()) }

func (v Version) String() string { return v.semver().String() }

// ---- Enumerations ----

// Port is a controller port, 0 through 3.
type Port uint8

const (
	P1 Port = iota
	P2
	P3
	P4
)

// PortFromByte validates a raw port byte.
func PortFromByte(b uint8) (Port, bool) {
	if b > 3 {
		return 0, false
	}
	return Port(b), true
}

func (p Port) String() string { return fmt.Sprintf("P%d", uint8(p)+1) }

type PlayerType uint8

const (
	PlayerHuman PlayerType = 0
	PlayerCPU   PlayerType = 1
	PlayerDemo  PlayerType = 2
	PlayerEmpty PlayerType = 3
)

func (t PlayerType) String() string {
	switch t {
	case PlayerHuman:
		return "HUMAN"
	case PlayerCPU:
		return "CPU"
	case PlayerDemo:
		return "DEMO"
	case PlayerEmpty:
		return "EMPTY"
	default:
		return "UNKNOWN"
	}
}

// ControllerFix is the dashback or shield drop fix a player had enabled.
type ControllerFix uint8

const (
	FixOff   ControllerFix = 0
	FixUCF   ControllerFix = 1
	FixDween ControllerFix = 2
	// FixUnknown is used for unrecognised values and for replays that predate the field.
	FixUnknown ControllerFix = 0xFF
)

func (c ControllerFix) String() string {
	switch c {
	case FixOff:
		return "OFF"
	case FixUCF:
		return "UCF"
	case FixDween:
		return "DWEEN"
	default:
		return "UNKNOWN"
	}
}

// MatchType is derived from the netplay match id.
type MatchType uint8

const (
	MatchUnknown MatchType = iota
	MatchUnranked
	MatchRanked
	MatchDirect
)

// MatchTypeFromID reads the mode character of a netplay match id such as
// "mode.unranked-2023-...". Anything unrecognised is MatchUnknown.
func MatchTypeFromID(id string) MatchType {
	if len(id) < 6 {
		return MatchUnknown
	}
	switch id[5] {
	case 'u':
		return MatchUnranked
	case 'r':
		return MatchRanked
	case 'd':
		return MatchDirect
	default:
		return MatchUnknown
	}
}

func (m MatchType) String() string {
	switch m {
	case MatchUnranked:
		return "UNRANKED"
	case MatchRanked:
		return "RANKED"
	case MatchDirect:
		return "DIRECT"
	default:
		return "UNKNOWN"
	}
}

// EndMethod is how the game ended.
type EndMethod uint8

const (
	EndUnresolved EndMethod = 0
	EndTimeout    EndMethod = 1
	EndStocks     EndMethod = 2
	EndResolved   EndMethod = 3
	EndNoContest  EndMethod = 7
)

// EndMethodFromByte maps a raw end method. ok is false for unknown values.
func EndMethodFromByte(b uint8) (EndMethod, bool) {
	switch m := EndMethod(b); m {
	case EndUnresolved, EndTimeout, EndStocks, EndResolved, EndNoContest:
		return m, true
	}
	return 0, false
}

func (e EndMethod) String() string {
	switch e {
	case EndUnresolved:
		return "UNRESOLVED"
	case EndTimeout:
		return "TIMEOUT"
	case EndStocks:
		return "GAME"
	case EndResolved:
		return "RESOLVED"
	case EndNoContest:
		return "NO_CONTEST"
	default:
		return "UNKNOWN"
	}
}

// Placement is a port's finishing position; 0 is first.
type Placement int8

const (
	PlacementWin     Placement = 0
	PlacementLoss    Placement = 1
	PlacementUnknown Placement = 127
)

// PlacementFromByte maps a raw placement byte. Values outside 0-3 are PlacementUnknown.
func PlacementFromByte(b int8) Placement {
	if b < 0 || b > 3 {
		return PlacementUnknown
	}
	return Placement(b)
}

func (p Placement) String() string {
	switch p {
	case PlacementWin:
		return "WIN"
	case PlacementLoss:
		return "LOSS"
	case 2:
		return "THIRD"
	case 3:
		return "FOURTH"
	default:
		return "UNKNOWN"
	}
}

// ---- Decoded events ----

// PortStart is one port block of the game start event.
type PortStart struct {
	CharacterCSS  uint8
	Type          PlayerType
	Stocks        uint8
	Costume       uint8
	DashbackFix   ControllerFix
	ShieldDropFix ControllerFix
	Nametag       string
	DisplayName   string // netplay only; empty when absent
	ConnectCode   string // netplay only; empty when absent
	SlippiUID     string
}

// GameStart holds the match settings.
type GameStart struct {
	Version        Version
	IsTeams        bool
	Stage          melee.StageID
	Timer          uint32 // seconds
	DamageRatio    float32
	Ports          [4]PortStart
	RandomSeed     uint32
	IsPAL          bool
	IsFrozenPS     bool
	MinorScene     uint8
	MajorScene     uint8
	Language       uint8
	MatchID        string
	MatchType      MatchType
	GameNumber     uint32
	TiebreakNumber uint32
}

// IsNetplay reports whether the game was played over Slippi online.
func (g GameStart) IsNetplay() bool { return g.MajorScene == 8 }

// GameEnd holds the result of the match.
type GameEnd struct {
	Method        EndMethod
	LRASInitiator *Port // nil when nobody quit out
	Placements    map[Port]Placement
}

// Metadata is the trailing metadata block. Every field is optional.
type Metadata struct {
	StartAt   time.Time
	PlayedOn  string
	LastFrame *int32
	Codes     map[Port]string
	Netplay   map[Port]string
}

// ---- Match ----

// Match is one decoded replay.
type Match struct {
	Hash        string // sha256 of the file contents
	Path        string
	Start       GameStart
	End         *GameEnd // nil when the replay has no game end event
	Metadata    Metadata
	TotalFrames int
	Players     []*Player
	Items       *ItemFrames
}

// Player is one occupied port.
type Player struct {
	Port          Port
	Character     melee.Character
	Costume       uint8
	Type          PlayerType
	StartStocks   uint8
	ConnectCode   string
	DisplayName   string
	DashbackFix   ControllerFix
	ShieldDropFix ControllerFix
	Winner        *bool // nil when the winner could not be determined
	Frames        *Frames
	Partner       *Frames // second Ice Climber; nil for every other character
	Stats         Stats
}

// IsWinner reports true only when the player is known to have won.
func (p *Player) IsWinner() bool { return p.Winner != nil && *p.Winner }

// PlayerByPort returns the player on the given port.
func (m *Match) PlayerByPort(port Port) (*Player, error) {
	for _, p := range m.Players {
		if p.Port == port {
			return p, nil
		}
	}
	return nil, fmt.Errorf("player on port %s: %w", port, ErrNotFound)
}

// PlayerByCode returns the player with the given netplay connect code.
func (m *Match) PlayerByCode(code string) (*Player, error) {
	for _, p := range m.Players {
		if code != "" && p.ConnectCode == code {
			return p, nil
		}
	}
	return nil, fmt.Errorf("player with code %q: %w", code, ErrNotFound)
}

// Humans returns the human-controlled players in port order.
func (m *Match) Humans() []*Player {
	var out []*Player
	for _, p := range m.Players {
		if p.Type == PlayerHuman {
			out = append(out, p)
		}
	}
	return out
}

// CheckAnalyzable returns ErrUnsupportedPlayerCount unless the match has
// exactly AnalyzablePlayers human players.
func (m *Match) CheckAnalyzable() error {
	if n := len(m.Humans()); n != AnalyzablePlayers {
		return fmt.Errorf("%d human players: %w", n, ErrUnsupportedPlayerCount)
	}
	return nil
}

// Opponent returns the other player of a two player match.
func (m *Match) Opponent(p *Player) (*Player, error) {
	if len(m.Players) != 2 {
		return nil, fmt.Errorf("%d players: %w", len(m.Players), ErrUnsupportedPlayerCount)
	}
	if m.Players[0] == p {
		return m.Players[1], nil
	}
	if m.Players[1] == p {
		return m.Players[0], nil
	}
	return nil, fmt.Errorf("opponent of %s: %w", p.Port, ErrNotFound)
}

// Duration returns the in-game length of the match at 60 frames per second.
func (m *Match) Duration() time.Duration {
	return time.Duration(m.TotalFrames) * time.Second / 60
}

// ---- Stored summaries ----

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	Hash        string
	Path        string
	PlayedAt    string
	Version     string
	Stage       string
	MatchType   string
	MatchID     string
	GameNumber  int
	EndMethod   string
	TotalFrames int
	Players     string // "CODE#1 (Fox) vs CODE#2 (Marth)"
}

// PlayerMatchStats is the per-player row stored for every analyzed match.
type PlayerMatchStats struct {
	Hash        string
	Port        Port
	ConnectCode string
	DisplayName string
	Character   string
	Costume     uint8
	Winner      *bool
	PlayedAt    string // populated when queried across matches

	Wavedashes      int
	Wavelands       int
	LCancelAttempts int // -1 when not recorded
	LCancelSuccess  int
	Techs           int // -1 when not recorded
	MissedTechs     int
	TechLockouts    int
	HitsTaken       int // -1 when not recorded
	Digital         int
	APM             float32
	TriggerPref     string
	JumpPref        string
}

// LCancelPct returns the l-cancel success rate, or 0 without attempts.
func (s *PlayerMatchStats) LCancelPct() float64 {
	if s.LCancelAttempts <= 0 {
		return 0
	}
	return float64(s.LCancelSuccess) / float64(s.LCancelAttempts) * 100
}

// MissedTechPct returns the share of tech situations that were missed.
func (s *PlayerMatchStats) MissedTechPct() float64 {
	if s.Techs <= 0 {
		return 0
	}
	return float64(s.MissedTechs) / float64(s.Techs) * 100
}

// PlayerAggregate holds stats for one connect code across every stored match.
type PlayerAggregate struct {
	ConnectCode string
	DisplayName string
	Matches     int
	Wins        int

	Wavedashes, Wavelands           int
	LCancelAttempts, LCancelSuccess int
	Techs, MissedTechs              int
	HitsTaken                       int

	AvgAPM float64
}

func (a *PlayerAggregate) WinPct() float64 {
	if a.Matches == 0 {
		return 0
	}
	return float64(a.Wins) / float64(a.Matches) * 100
}

func (a *PlayerAggregate) LCancelPct() float64 {
	if a.LCancelAttempts == 0 {
		return 0
	}
	return float64(a.LCancelSuccess) / float64(a.LCancelAttempts) * 100
}

func (a *PlayerAggregate) MissedTechPct() float64 {
	if a.Techs == 0 {
		return 0
	}
	return float64(a.MissedTechs) / float64(a.Techs) * 100
}

func (a *PlayerAggregate) WavedashesPerMatch() float64 {
	if a.Matches == 0 {
		return 0
	}
	return float64(a.Wavedashes) / float64(a.Matches)
}
