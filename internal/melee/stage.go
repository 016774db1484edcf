package melee

import "fmt"

// StageID is the stage id from the game start event.
type StageID uint16

const (
	FountainOfDreams     StageID = 2
	PokemonStadium       StageID = 3
	PrincessPeachsCastle StageID = 4
	KongoJungle          StageID = 5
	Brinstar             StageID = 6
	Corneria             StageID = 7
	YoshisStory          StageID = 8
	Onett                StageID = 9
	MuteCity             StageID = 10
	RainbowCruise        StageID = 11
	JungleJapes          StageID = 12
	GreatBay             StageID = 13
	HyruleTemple         StageID = 14
	BrinstarDepths       StageID = 15
	YoshisIsland         StageID = 16
	GreenGreens          StageID = 17
	Fourside             StageID = 18
	MushroomKingdomI     StageID = 19
	MushroomKingdomII    StageID = 20
	Venom                StageID = 22
	PokeFloats           StageID = 23
	BigBlue              StageID = 24
	IcicleMountain       StageID = 25
	Icetop               StageID = 26
	FlatZone             StageID = 27
	DreamLandN64         StageID = 28
	YoshisIslandN64      StageID = 29
	KongoJungleN64       StageID = 30
	Battlefield          StageID = 31
	FinalDestination     StageID = 32
)

var stageNames = map[StageID]string{
	FountainOfDreams: "Fountain of Dreams", PokemonStadium: "Pokemon Stadium",
	PrincessPeachsCastle: "Princess Peach's Castle", KongoJungle: "Kongo Jungle",
	Brinstar: "Brinstar", Corneria: "Corneria", YoshisStory: "Yoshi's Story", Onett: "Onett",
	MuteCity: "Mute City", RainbowCruise: "Rainbow Cruise", JungleJapes: "Jungle Japes",
	GreatBay: "Great Bay", HyruleTemple: "Hyrule Temple", BrinstarDepths: "Brinstar Depths",
	YoshisIsland: "Yoshi's Island", GreenGreens: "Green Greens", Fourside: "Fourside",
	MushroomKingdomI: "Mushroom Kingdom I", MushroomKingdomII: "Mushroom Kingdom II",
	Venom: "Venom", PokeFloats: "Poke Floats", BigBlue: "Big Blue",
	IcicleMountain: "Icicle Mountain", Icetop: "Icetop", FlatZone: "Flat Zone",
	DreamLandN64: "Dream Land N64", YoshisIslandN64: "Yoshi's Island N64",
	KongoJungleN64: "Kongo Jungle N64", Battlefield: "Battlefield",
	FinalDestination: "Final Destination",
}

func (s StageID) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Stage(%d)", uint16(s))
}

// GroundID names a collision surface of a legal stage.
type GroundID uint8

const (
	GroundUnknown GroundID = iota
	GroundMainStage
	GroundLeftPlatform
	GroundTopPlatform
	GroundRightPlatform
	GroundLeftEdge
	GroundRightEdge
	GroundLeftEdgeOuter
	GroundLeftEdgeInner
	GroundRightEdgeOuter
	GroundRightEdgeInner
	GroundLeftSlant
	GroundRightSlant
	GroundRandall
)

var groundNames = [...]string{
	"UNKNOWN", "MAIN_STAGE", "LEFT_PLATFORM", "TOP_PLATFORM", "RIGHT_PLATFORM", "LEFT_EDGE",
	"RIGHT_EDGE", "LEFT_EDGE_OUTTER", "LEFT_EDGE_INNER", "RIGHT_EDGE_OUTTER", "RIGHT_EDGE_INNER",
	"LEFT_SLANT", "RIGHT_SLANT", "RANDALL",
}

func (g GroundID) String() string {
	if int(g) < len(groundNames) {
		return groundNames[g]
	}
	return "UNKNOWN"
}

// BlastZones are the stage boundaries past which a character is KO'd.
type BlastZones struct {
	Top, Bottom, Left, Right float32
}

// Stage carries the geometry used by the kill and offstage checks.
type Stage struct {
	ID         StageID
	BlastZones BlastZones
	LedgeX     float32 // ledges sit at -LedgeX and +LedgeX
	grounds    map[uint16]GroundID
}

var legalStages = map[StageID]Stage{
	YoshisStory: {YoshisStory, BlastZones{168, -91, -175.7, 173.6}, 56, map[uint16]GroundID{
		0: GroundRandall, 1: GroundLeftPlatform, 2: GroundLeftSlant, 3: GroundMainStage,
		4: GroundTopPlatform, 5: GroundRightPlatform, 6: GroundRightSlant,
	}},
	Battlefield: {Battlefield, BlastZones{200, -108.8, -224, 224}, 68.4, map[uint16]GroundID{
		0: GroundLeftEdge, 1: GroundMainStage, 2: GroundLeftPlatform, 3: GroundTopPlatform,
		4: GroundRightPlatform, 5: GroundRightEdge,
	}},
	FinalDestination: {FinalDestination, BlastZones{188, -140, -246, 246}, 85.57, map[uint16]GroundID{
		0: GroundLeftEdge, 1: GroundMainStage, 2: GroundRightEdge,
	}},
	DreamLandN64: {DreamLandN64, BlastZones{250, -123, -255, 255}, 77.27, map[uint16]GroundID{
		0: GroundLeftPlatform, 1: GroundRightPlatform, 2: GroundTopPlatform, 3: GroundLeftEdge,
		4: GroundMainStage, 5: GroundRightEdge,
	}},
	PokemonStadium: {PokemonStadium, BlastZones{180, -111, -230, 230}, 87.75, map[uint16]GroundID{
		34: GroundMainStage, 35: GroundLeftPlatform, 36: GroundRightPlatform,
		51: GroundLeftEdgeOuter, 52: GroundLeftEdgeInner, 53: GroundRightEdgeInner,
		54: GroundRightEdgeOuter,
	}},
	FountainOfDreams: {FountainOfDreams, BlastZones{202.5, -146.25, -198.75, 198.75}, 63.35, map[uint16]GroundID{
		0: GroundLeftPlatform, 1: GroundRightPlatform, 2: GroundTopPlatform,
		3: GroundLeftEdgeOuter, 4: GroundLeftEdgeInner, 5: GroundMainStage,
		6: GroundRightEdgeInner, 7: GroundRightEdgeOuter,
	}},
}

// StageFromID returns the geometry of a legal stage. Any other stage gets
// blast zones and ledges far enough out that nothing is ever past them.
func StageFromID(id StageID) Stage {
	if s, ok := legalStages[id]; ok {
		return s
	}
	return Stage{
		ID:         id,
		BlastZones: BlastZones{Top: 999.9, Bottom: -999.9, Left: -999.9, Right: 999.9},
		LedgeX:     999.9,
	}
}

// Ground resolves a post-frame last-ground id to a named surface.
func (s Stage) Ground(id uint16) GroundID {
	if g, ok := s.grounds[id]; ok {
		return g
	}
	return GroundUnknown
}

// IsPastBlastzone reports whether pos is on or outside any blast zone.
func (s Stage) IsPastBlastzone(pos Position) bool {
	b := s.BlastZones
	return !(pos.X < b.Right && pos.X > b.Left && pos.Y < b.Top && pos.Y > b.Bottom)
}

// IsOffstage reports whether pos is below the stage or beyond either ledge.
func (s Stage) IsOffstage(pos Position) bool {
	if pos.Y < -5 {
		return true
	}
	return pos.X < -s.LedgeX || pos.X > s.LedgeX
}
