// Package replaytest writes synthetic replay containers for tests.
package replaytest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/japanese"
)

// Full payload sizes of the newest format.
const (
	GameStartSize = 760
	PreFrameSize  = 64
	PostFrameSize = 84
	ItemSize      = 44
	GameEndSize   = 6
)

// Port describes one occupied port.
type Port struct {
	CSS         uint8
	Type        uint8 // 0 human, 1 cpu, 2 demo
	Stocks      uint8
	Costume     uint8
	ConnectCode string
	DisplayName string
}

// Pre is one pre-frame event.
type Pre struct {
	Frame       int32
	Port        uint8
	Follower    bool
	Seed        uint32
	State       uint16
	X, Y        float32
	Orientation float32
	JoyX, JoyY  float32
	CX, CY      float32
	Trigger     float32
	Engine      uint32
	Controller  uint16
	L, R        float32
	RawX        int8
	Percent     float32
	RawY        int8
}

// Post is one post-frame event.
type Post struct {
	Frame         int32
	Port          uint8
	Follower      bool
	Character     uint8
	State         uint16
	X, Y          float32
	Orientation   float32
	Percent       float32
	Shield        float32
	LastAttack    uint8
	Combo         uint8
	LastHitBy     uint8
	Stocks        uint8
	StateFrame    float32
	Flags         [5]uint8
	MiscAS        float32
	Airborne      bool
	GroundID      uint16
	Jumps         uint8
	LCancel       uint8
	Hurtbox       uint8
	SelfAirX      float32
	SelfY         float32
	KnockbackX    float32
	KnockbackY    float32
	SelfGroundX   float32
	Hitlag        float32
	Animation     uint32
	InstanceHitBy uint16
	InstanceID    uint16
}

// Item is one item update.
type Item struct {
	Frame      int32
	Type       uint16
	State      uint8
	X, Y       float32
	SpawnID    uint32
	Missile    uint8
	Turnip     uint8
	Owner      int8
	InstanceID uint16
}

// Builder accumulates events and renders them as a container. Payload sizes
// default to the newest format; shrink them to imitate older replays.
type Builder struct {
	Version   [3]uint8
	Stage     uint16
	MatchID   string
	Ports     [4]*Port
	IsNetplay bool

	GameStartSize, PreSize, PostSize, ItemSize, GameEndSize int

	// Streaming writes a zero raw length and no metadata, like a replay
	// that is still being recorded.
	Streaming bool
	LastFrame *int32
	StartAt   string
	PlayedOn  string

	events  bytes.Buffer
	unknown []byte
}

// New returns a builder for the given format version with full-size payloads.
func New(major, minor, build uint8) *Builder {
	return &Builder{
		Version:       [3]uint8{major, minor, build},
		Stage:         32,
		GameStartSize: GameStartSize,
		PreSize:       PreFrameSize,
		PostSize:      PostFrameSize,
		ItemSize:      ItemSize,
		GameEndSize:   GameEndSize,
	}
}

// Player occupies a port with a human player.
func (b *Builder) Player(port int, css uint8, code, name string) *Builder {
	b.Ports[port] = &Port{CSS: css, Stocks: 4, ConnectCode: code, DisplayName: name}
	return b
}

// CPU occupies a port with a computer player.
func (b *Builder) CPU(port int, css uint8) *Builder {
	b.Ports[port] = &Port{CSS: css, Type: 1, Stocks: 4}
	return b
}

// Frame appends a pre and a post event for the same character.
func (b *Builder) Frame(pre Pre, post Post) *Builder {
	b.event(0x37, b.PreSize, pre.encode())
	b.event(0x38, b.PostSize, post.encode())
	return b
}

// Item appends an item update.
func (b *Builder) Item(it Item) *Builder {
	b.event(0x3B, b.ItemSize, it.encode())
	return b
}

// End appends the game end event.
func (b *Builder) End(method uint8, lras int8, placements [4]int8) *Builder {
	p := make([]byte, GameEndSize)
	p[0] = method
	p[1] = byte(lras)
	for i, v := range placements {
		p[2+i] = byte(v)
	}
	b.event(0x39, b.GameEndSize, p)
	return b
}

// Unknown appends an event with a code the decoder has no use for. The code
// is added to the catalog with the payload's length.
func (b *Builder) Unknown(code byte, body []byte) *Builder {
	b.unknown = append(b.unknown, code, byte(len(body)))
	b.event(code, len(body), body)
	return b
}

// Raw appends bytes to the event stream as they are.
func (b *Builder) Raw(p []byte) *Builder {
	b.events.Write(p)
	return b
}

func (b *Builder) event(code byte, size int, full []byte) {
	b.events.WriteByte(code)
	if size <= len(full) {
		b.events.Write(full[:size])
		return
	}
	b.events.Write(full)
	b.events.Write(make([]byte, size-len(full)))
}

// Bytes renders the container.
func (b *Builder) Bytes() []byte {
	var raw bytes.Buffer

	entries := [][3]byte{
		entry(0x36, b.GameStartSize),
		entry(0x37, b.PreSize),
		entry(0x38, b.PostSize),
		entry(0x39, b.GameEndSize),
		entry(0x3A, 12),
		entry(0x3B, b.ItemSize),
		entry(0x3C, 8),
	}
	for i := 0; i+1 < len(b.unknown); i += 2 {
		entries = append(entries, entry(b.unknown[i], int(b.unknown[i+1])))
	}
	raw.WriteByte(0x35)
	raw.WriteByte(byte(len(entries)*3 + 1))
	for _, e := range entries {
		raw.Write(e[:])
	}

	raw.WriteByte(0x36)
	raw.Write(b.gameStart()[:b.GameStartSize])
	raw.Write(b.events.Bytes())

	var out bytes.Buffer
	out.Write([]byte{0x7B, 0x55, 0x03, 0x72, 0x61, 0x77, 0x5B, 0x24, 0x55, 0x23, 0x6C})
	if b.Streaming {
		binary.Write(&out, binary.BigEndian, uint32(0))
		out.Write(raw.Bytes())
		return out.Bytes()
	}
	binary.Write(&out, binary.BigEndian, uint32(raw.Len()))
	out.Write(raw.Bytes())
	out.Write(b.metadata())
	out.WriteByte('}')
	return out.Bytes()
}

// WriteFile renders the container into dir and returns its path.
func (b *Builder) WriteFile(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("write replay: %v", err)
	}
	return path
}

func entry(code byte, size int) [3]byte {
	return [3]byte{code, byte(size >> 8), byte(size)}
}

func (b *Builder) gameStart() []byte {
	p := newPayload(GameStartSize)
	p[0], p[1], p[2] = b.Version[0], b.Version[1], b.Version[2]
	p.u16(18, b.Stage)
	p.u32(20, 480)
	p.f32(52, 1)
	for i, port := range b.Ports {
		base := 100 + 36*i
		if port == nil {
			p[base+1] = 3
			continue
		}
		p[base] = port.CSS
		p[base+1] = port.Type
		p[base+2] = port.Stocks
		p[base+3] = port.Costume
		p.u32(320+8*i, 1)
		p.u32(324+8*i, 1)
		copy(p[420+31*i:420+31*i+30], shiftJIS(port.DisplayName))
		copy(p[544+10*i:544+10*i+9], shiftJIS(port.ConnectCode))
	}
	p.u32(316, 0xC0FFEE)
	if b.IsNetplay {
		p[419] = 8
	}
	copy(p[701:701+50], b.MatchID)
	p.u32(752, 1)
	return p
}

// shiftJIS encodes s the way the game writes names, with the full-width
// number sign in connect codes.
func shiftJIS(s string) []byte {
	s = replaceHash(s)
	out, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}

func replaceHash(s string) string {
	return string(bytes.ReplaceAll([]byte(s), []byte("#"), []byte("＃")))
}

func (pre Pre) encode() []byte {
	p := newPayload(PreFrameSize)
	p.i32(0, pre.Frame)
	p[4] = pre.Port
	p.flag(5, pre.Follower)
	p.u32(6, pre.Seed)
	p.u16(10, pre.State)
	p.f32(12, pre.X)
	p.f32(16, pre.Y)
	p.f32(20, pre.Orientation)
	p.f32(24, pre.JoyX)
	p.f32(28, pre.JoyY)
	p.f32(32, pre.CX)
	p.f32(36, pre.CY)
	p.f32(40, pre.Trigger)
	p.u32(44, pre.Engine)
	p.u16(48, pre.Controller)
	p.f32(50, pre.L)
	p.f32(54, pre.R)
	p[58] = byte(pre.RawX)
	p.f32(59, pre.Percent)
	p[63] = byte(pre.RawY)
	return p
}

func (post Post) encode() []byte {
	p := newPayload(PostFrameSize)
	p.i32(0, post.Frame)
	p[4] = post.Port
	p.flag(5, post.Follower)
	p[6] = post.Character
	p.u16(7, post.State)
	p.f32(9, post.X)
	p.f32(13, post.Y)
	p.f32(17, post.Orientation)
	p.f32(21, post.Percent)
	p.f32(25, post.Shield)
	p[29] = post.LastAttack
	p[30] = post.Combo
	p[31] = post.LastHitBy
	p[32] = post.Stocks
	p.f32(33, post.StateFrame)
	copy(p[37:42], post.Flags[:])
	p.f32(42, post.MiscAS)
	p.flag(46, post.Airborne)
	p.u16(47, post.GroundID)
	p[49] = post.Jumps
	p[50] = post.LCancel
	p[51] = post.Hurtbox
	p.f32(52, post.SelfAirX)
	p.f32(56, post.SelfY)
	p.f32(60, post.KnockbackX)
	p.f32(64, post.KnockbackY)
	p.f32(68, post.SelfGroundX)
	p.f32(72, post.Hitlag)
	p.u32(76, post.Animation)
	p.u16(80, post.InstanceHitBy)
	p.u16(82, post.InstanceID)
	return p
}

func (it Item) encode() []byte {
	p := newPayload(ItemSize)
	p.i32(0, it.Frame)
	p.u16(4, it.Type)
	p[6] = it.State
	p.f32(7, 1)
	p.f32(19, it.X)
	p.f32(23, it.Y)
	p.u32(33, it.SpawnID)
	p[37] = it.Missile
	p[38] = it.Turnip
	p[41] = byte(it.Owner)
	p.u16(42, it.InstanceID)
	return p
}

// metadata renders the metadata key and object.
func (b *Builder) metadata() []byte {
	var m bytes.Buffer
	m.WriteString("U\x08metadata{")
	if b.StartAt != "" {
		key(&m, "startAt")
		str(&m, b.StartAt)
	}
	if b.LastFrame != nil {
		key(&m, "lastFrame")
		m.WriteByte('l')
		binary.Write(&m, binary.BigEndian, *b.LastFrame)
	}
	key(&m, "players")
	m.WriteByte('{')
	for i, port := range b.Ports {
		if port == nil {
			continue
		}
		key(&m, string(rune('0'+i)))
		m.WriteByte('{')
		key(&m, "names")
		m.WriteByte('{')
		key(&m, "netplay")
		str(&m, port.DisplayName)
		key(&m, "code")
		str(&m, port.ConnectCode)
		m.WriteByte('}')
		m.WriteByte('}')
	}
	m.WriteByte('}')
	if b.PlayedOn != "" {
		key(&m, "playedOn")
		str(&m, b.PlayedOn)
	}
	m.WriteByte('}')
	return m.Bytes()
}

func key(m *bytes.Buffer, k string) {
	m.WriteByte('U')
	m.WriteByte(byte(len(k)))
	m.WriteString(k)
}

func str(m *bytes.Buffer, s string) {
	m.WriteByte('S')
	key(m, s)
}

type payloadBuf []byte

func newPayload(n int) payloadBuf { return make(payloadBuf, n) }

func (p payloadBuf) u16(off int, v uint16) { binary.BigEndian.PutUint16(p[off:], v) }
func (p payloadBuf) u32(off int, v uint32) { binary.BigEndian.PutUint32(p[off:], v) }
func (p payloadBuf) i32(off int, v int32)  { binary.BigEndian.PutUint32(p[off:], uint32(v)) }
func (p payloadBuf) f32(off int, v float32) {
	binary.BigEndian.PutUint32(p[off:], math.Float32bits(v))
}

func (p payloadBuf) flag(off int, v bool) {
	if v {
		p[off] = 1
	}
}
