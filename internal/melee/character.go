package melee

import "fmt"

// Character is the in-engine (internal) character id, as reported by post-frame events.
type Character uint8

const (
	Mario           Character = 0
	Fox             Character = 1
	CaptainFalcon   Character = 2
	DonkeyKong      Character = 3
	Kirby           Character = 4
	Bowser          Character = 5
	Link            Character = 6
	Sheik           Character = 7
	Ness            Character = 8
	Peach           Character = 9
	Popo            Character = 10
	Nana            Character = 11
	Pikachu         Character = 12
	Samus           Character = 13
	Yoshi           Character = 14
	Jigglypuff      Character = 15
	Mewtwo          Character = 16
	Luigi           Character = 17
	Marth           Character = 18
	Zelda           Character = 19
	YoungLink       Character = 20
	DrMario         Character = 21
	Falco           Character = 22
	Pichu           Character = 23
	GameAndWatch    Character = 24
	Ganondorf       Character = 25
	Roy             Character = 26
	MasterHand      Character = 27
	CrazyHand       Character = 28
	WireframeMale   Character = 29
	WireframeFemale Character = 30
	GigaBowser      Character = 31
	Sandbag         Character = 32
)

// IceClimbersCSS is the character-select id of the Ice Climbers pair.
const IceClimbersCSS uint8 = 14

// cssToInternal maps character-select ids (as found in the game start event) to internal ids.
var cssToInternal = [...]Character{
	CaptainFalcon, DonkeyKong, Fox, GameAndWatch, Kirby, Bowser, Link, Luigi, Mario, Marth,
	Mewtwo, Ness, Peach, Pikachu, Popo, Jigglypuff, Samus, Yoshi, Zelda, Sheik, Falco,
	YoungLink, DrMario, Roy, Pichu, Ganondorf, MasterHand, WireframeMale, WireframeFemale,
	GigaBowser, CrazyHand, Sandbag, Popo,
}

// CharacterFromCSS converts a character-select id. The Ice Climbers (14) map to Popo.
func CharacterFromCSS(id uint8) (Character, error) {
	if int(id) >= len(cssToInternal) {
		return 0, fmt.Errorf("invalid character select id %d", id)
	}
	return cssToInternal[id], nil
}

// IsIceClimbers reports whether the character plays with a partner.
func (c Character) IsIceClimbers() bool { return c == Popo || c == Nana }

var characterNames = [...]string{
	"Mario", "Fox", "Captain Falcon", "Donkey Kong", "Kirby", "Bowser", "Link", "Sheik", "Ness",
	"Peach", "Popo", "Nana", "Pikachu", "Samus", "Yoshi", "Jigglypuff", "Mewtwo", "Luigi", "Marth",
	"Zelda", "Young Link", "Dr. Mario", "Falco", "Pichu", "Game and Watch", "Ganondorf", "Roy",
	"Master Hand", "Crazy Hand", "Wireframe Male", "Wireframe Female", "Giga Bowser", "Sandbag",
}

func (c Character) String() string {
	if int(c) < len(characterNames) {
		return characterNames[c]
	}
	return fmt.Sprintf("Character(%d)", uint8(c))
}

// CharacterFromName resolves a display name (case sensitive, as printed by String).
func CharacterFromName(name string) (Character, bool) {
	for i, n := range characterNames {
		if n == name {
			return Character(i), true
		}
	}
	return 0, false
}

// Attributes holds the physics constants of a playable character.
type Attributes struct {
	Name          string
	AirJumps      uint8
	Gravity       float32
	MaxFallSpeed  float32
	FastFallSpeed float32
	FullHopForce  float32
	ShortHopForce float32
	Weight        uint32
}

var attributes = map[Character]Attributes{
	Bowser:        {"Bowser", 1, 0.13, 1.9, 2.4, 2.8, 1.6, 117},
	CaptainFalcon: {"Captain Falcon", 1, 0.13, 2.9, 3.5, 3.1, 1.9, 104},
	DonkeyKong:    {"Donkey Kong", 1, 0.1, 2.4, 2.96, 2.7, 1.6, 114},
	DrMario:       {"Dr. Mario", 1, 0.095, 1.7, 2.3, 2.3, 1.4, 100},
	Falco:         {"Falco", 1, 0.17, 3.1, 3.5, 4.1, 1.9, 80},
	Fox:           {"Fox", 1, 0.23, 2.8, 3.4, 3.68, 2.1, 75},
	GameAndWatch:  {"Game and Watch", 1, 0.095, 1.7, 2.3, 2.3, 1.4, 60},
	Ganondorf:     {"Ganondorf", 1, 0.13, 2.0, 2.6, 2.6, 2.0, 109},
	Popo:          {"Ice Climbers", 1, 0.1, 1.6, 2.0, 2.6, 1.4, 88},
	Nana:          {"Ice Climbers", 1, 0.1, 1.6, 2.0, 2.6, 1.4, 88},
	Jigglypuff:    {"Jigglypuff", 5, 0.064, 1.3, 1.6, 1.6, 1.05, 60},
	Kirby:         {"Kirby", 5, 0.08, 1.6, 2.0, 2.0, 1.5, 70},
	Link:          {"Link", 1, 0.11, 2.13, 3.0, 2.5, 1.5, 104},
	Luigi:         {"Luigi", 1, 0.069, 1.6, 2.0, 2.4, 1.4, 100},
	Mario:         {"Mario", 1, 0.095, 1.7, 2.3, 2.3, 1.4, 100},
	Marth:         {"Marth", 1, 0.085, 2.2, 2.5, 2.4, 1.5, 87},
	Mewtwo:        {"Mewtwo", 1, 0.082, 1.5, 2.3, 2.3, 1.4, 85},
	Ness:          {"Ness", 1, 0.09, 1.83, 2.2, 2.5, 1.5, 94},
	Peach:         {"Peach", 1, 0.08, 1.5, 2.0, 2.2, 1.6, 90},
	Pichu:         {"Pichu", 1, 0.11, 1.9, 2.5, 2.6, 1.7, 55},
	Pikachu:       {"Pikachu", 1, 0.11, 1.9, 2.7, 2.6, 1.7, 80},
	Roy:           {"Roy", 1, 0.114, 2.4, 2.9, 2.6, 1.5, 85},
	Samus:         {"Samus", 1, 0.066, 1.4, 2.3, 2.1, 1.7, 110},
	Sheik:         {"Sheik", 1, 0.12, 2.13, 3.0, 2.8, 2.14, 90},
	Yoshi:         {"Yoshi", 1, 0.093, 1.93, 2.93, 2.5, 1.8, 108},
	YoungLink:     {"Young Link", 1, 0.11, 2.13, 2.2, 2.62, 1.5, 85},
	Zelda:         {"Zelda", 1, 0.073, 1.4, 1.85, 2.1, 1.6, 90},
}

// Attributes returns the character's physics constants. Non-playable
// characters fall back to Mario's values with ok == false.
func (c Character) Attributes() (Attributes, bool) {
	a, ok := attributes[c]
	if !ok {
		return attributes[Mario], false
	}
	return a, true
}
