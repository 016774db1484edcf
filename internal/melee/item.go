package melee

import "fmt"

// Item identifies an item type. Ids below 1000 are the raw item-frame type ids;
// ids from 1000 up are sub-items resolved from the item's misc bytes.
type Item uint16

const (
	ItemCapsule         Item = 0x00
	ItemBox             Item = 0x01
	ItemBarrel          Item = 0x02
	ItemEgg             Item = 0x03
	ItemPartyBall       Item = 0x04
	ItemBobOmb          Item = 0x06
	ItemMrSaturn        Item = 0x07
	ItemHeartContainer  Item = 0x08
	ItemMaximTomato     Item = 0x09
	ItemStarman         Item = 0x0A
	ItemHomeRunBat      Item = 0x0B
	ItemBeamSword       Item = 0x0C
	ItemFan             Item = 0x18
	ItemHammer          Item = 0x1C
	ItemFoxLaser        Item = 0x36
	ItemFalcoLaser      Item = 0x37
	ItemLinkBomb        Item = 0x3A
	ItemYoungLinkBomb   Item = 0x3B
	ItemLinkBoomerang   Item = 0x3C
	ItemLinkArrow       Item = 0x40
	ItemSheikNeedle     Item = 0x4F
	ItemPikachuThunder  Item = 0x51
	ItemSamusBomb       Item = 0x5D
	ItemSamusChargeshot Item = 0x5E
	ItemSamusMissile    Item = 0x5F
	ItemPeachTurnip     Item = 0x63

	ItemTurnipSmiley   Item = 1000
	ItemTurnipBored    Item = 1001
	ItemTurnipSleepy   Item = 1002
	ItemTurnipShocked  Item = 1003
	ItemTurnipLaughing Item = 1004
	ItemTurnipWink     Item = 1005
	ItemTurnipDot      Item = 1006
	ItemTurnipStitch   Item = 1007
	ItemHomingMissile  Item = 1008
	ItemSuperMissile   Item = 1009

	ItemUnknown Item = 0xFFFF
)

var itemNames = map[Item]string{
	0x00: "CAPSULE", 0x01: "BOX", 0x02: "BARREL", 0x03: "EGG", 0x04: "PARTY_BALL",
	0x05: "BARREL_CANNON", 0x06: "BOB_OMB", 0x07: "MR_SATURN", 0x08: "HEART_CONTAINER",
	0x09: "MAXIM_TOMATO", 0x0A: "STARMAN", 0x0B: "HOME_RUN_BAT", 0x0C: "BEAM_SWORD",
	0x0D: "PARASOL", 0x0E: "GREEN_SHELL", 0x0F: "RED_SHELL", 0x10: "RAY_GUN", 0x11: "FREEZIE",
	0x12: "FOOD", 0x13: "PROXIMITY_MINE", 0x14: "FLIPPER", 0x15: "SUPER_SCOPE", 0x16: "STAR_ROD",
	0x17: "LIP_STICK", 0x18: "FAN", 0x19: "FIRE_FLOWER", 0x1A: "SUPER_MUSHROOM",
	0x1B: "POISON_MUSHROOM", 0x1C: "HAMMER", 0x1D: "WARP_STAR", 0x1E: "SCREW_ATTACK",
	0x1F: "BUNNY_HOOD", 0x20: "METAL_BOX", 0x21: "CLOAKING_DEVICE", 0x22: "POKE_BALL",
	0x30: "MARIO_FIRE", 0x31: "DR_MARIO_PILL", 0x32: "KIRBY_CUTTER_BEAM", 0x33: "KIRBY_HAMMER",
	0x36: "FOX_LASER", 0x37: "FALCO_LASER", 0x38: "FOX_SHADOW", 0x39: "FALCO_SHADOW",
	0x3A: "LINK_BOMB", 0x3B: "YOUNG_LINK_BOMB", 0x3C: "LINK_BOOMERANG",
	0x3D: "YOUNG_LINK_BOOMERANG", 0x3E: "LINK_HOOKSHOT", 0x3F: "YOUNG_LINK_HOOKSHOT",
	0x40: "LINK_ARROW", 0x41: "YOUNG_LINK_FIRE_ARROW", 0x42: "NESS_PK_FIRE",
	0x43: "NESS_PK_FIRE_PILLAR", 0x44: "NESS_PK_FLASH_CHARGE", 0x45: "NESS_PK_THUNDER",
	0x4A: "FOX_BLASTER", 0x4B: "FALCO_BLASTER", 0x4C: "LINK_BOW", 0x4D: "YOUNG_LINK_BOW",
	0x4E: "NESS_PK_FLASH_EXPLODE", 0x4F: "SHEIK_NEEDLE_THROWN", 0x50: "SHEIK_NEEDLE_HELD",
	0x51: "PIKACHU_THUNDER", 0x52: "PICHU_THUNDER", 0x53: "MARIO_CAPE", 0x54: "DR_MARIO_CAPE",
	0x55: "SHEIK_SMOKE", 0x56: "YOSHI_EGG_THROW", 0x57: "YOSHI_EGGLAY", 0x58: "YOSHI_STAR",
	0x59: "PIKACHU_TJOLT_GROUND", 0x5A: "PIKACHU_TJOLT_AIR", 0x5B: "PICHU_TJOLT_GROUND",
	0x5C: "PICHU_TJOLT_AIR", 0x5D: "SAMUS_BOMB", 0x5E: "SAMUS_CHARGESHOT",
	0x5F: "SAMUS_MISSILE", 0x60: "SAMUS_GRAPPLE_BEAM", 0x61: "SHEIK_CHAIN",
	0x62: "PEACH_BOMBER_EXPLODE", 0x63: "PEACH_TURNIP", 0x64: "BOWSER_FLAME",
	0x65: "NESS_BAT", 0x66: "NESS_YOYO", 0x67: "PEACH_PARASOL", 0x68: "PEACH_TOAD",
	0x69: "LUIGI_FIRE", 0x6A: "ICE_CLIMBERS_ICE", 0x6B: "ICE_CLIMBERS_BLIZZARD",
	0x6C: "ZELDA_FIRE", 0x6D: "ZELDA_FIRE_EXPLODE", 0x6E: "MEWTWO_DISABLE",
	0x6F: "PEACH_TOAD_SPORE", 0x70: "MEWTWO_SHADOWBALL", 0x71: "ICE_CLIMBERS_UP_B_STRING",
	0x72: "GAME_AND_WATCH_PESTICIDE", 0x73: "GAME_AND_WATCH_MANHOLE",
	0x74: "GAME_AND_WATCH_FIRE", 0x75: "GAME_AND_WATCH_PARACHUTE",
	0x76: "GAME_AND_WATCH_TURTLE", 0x77: "GAME_AND_WATCH_SPARKY", 0x78: "GAME_AND_WATCH_JUDGE",
	0x79: "GAME_AND_WATCH_OIL", 0x7A: "GAME_AND_WATCH_SAUSAGE", 0x7B: "YOUNG_LINK_MILK",
	0x7C: "GAME_AND_WATCH_FIREFIGHTER",
	1000: "TURNIP_SMILEY", 1001: "TURNIP_BORED", 1002: "TURNIP_SLEEPY", 1003: "TURNIP_SHOCKED",
	1004: "TURNIP_LAUGHING", 1005: "TURNIP_WINK", 1006: "TURNIP_DOT", 1007: "TURNIP_STITCH",
	1008: "HOMING_MISSILE", 1009: "SUPER_MISSILE", 0xFFFF: "UNKNOWN",
}

func (i Item) String() string {
	if n, ok := itemNames[i]; ok {
		return n
	}
	return fmt.Sprintf("ITEM_0x%02X", uint16(i))
}

// HasSubItem reports whether the item's variant is carried in a misc byte.
func (i Item) HasSubItem() bool {
	return i == ItemPeachTurnip || i == ItemSamusMissile
}

// ResolveSubItem maps an item type and its variant byte to the concrete item.
// Items without variants resolve to themselves; an out-of-range variant
// resolves to ItemUnknown.
func ResolveSubItem(item Item, sub uint8) Item {
	switch item {
	case ItemPeachTurnip:
		if sub > 7 {
			return ItemUnknown
		}
		return ItemTurnipSmiley + Item(sub)
	case ItemSamusMissile:
		switch sub {
		case 0:
			return ItemHomingMissile
		case 1:
			return ItemSuperMissile
		default:
			return ItemUnknown
		}
	}
	return item
}
