package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
)

// magic is the start of the top-level UBJSON object up to the length of the
// raw event array: {U\x03raw[$U#l
var magic = []byte{0x7B, 0x55, 0x03, 0x72, 0x61, 0x77, 0x5B, 0x24, 0x55, 0x23, 0x6C}

// headerLen is the magic plus the u32 raw length.
const headerLen = 15

// Parse decodes a replay held in memory. The returned match has its frame
// tables filled and aligned but no stats; see aggregator.Analyze.
func Parse(data []byte) (*model.Match, error) {
	if len(data) < headerLen || !bytes.Equal(data[:len(magic)], magic) {
		return nil, fmt.Errorf("read header: %w", ErrMalformedContainer)
	}
	rawLen := int(binary.BigEndian.Uint32(data[len(magic):headerLen]))
	rawEnd := len(data)
	if rawLen > 0 {
		// A zero length means the replay was still being written.
		rawEnd = headerLen + rawLen
		if rawEnd > len(data) {
			return nil, fmt.Errorf("raw length %d exceeds file size %d: %w", rawLen, len(data), ErrMalformedContainer)
		}
	}

	c := &cursor{buf: data[:rawEnd], pos: headerLen}
	cat, err := readCatalog(c)
	if err != nil {
		return nil, err
	}

	d := &decoder{
		catalog: cat,
		rawLen:  rawEnd - headerLen,
		match:   &model.Match{Items: &model.ItemFrames{}},
	}
	// Every row needs at least one pre-frame event in the raw region.
	d.maxRows = d.rawLen / (cat[EventPreFrame] + 1)
	if err := d.run(c); err != nil {
		return nil, err
	}
	if !d.started {
		return nil, fmt.Errorf("no game start event: %w", ErrMalformedContainer)
	}
	if rawLen > 0 {
		d.match.Metadata = readMetadata(data[rawEnd:])
	}
	d.finish()

	h := sha256.Sum256(data)
	d.match.Hash = fmt.Sprintf("%x", h[:])
	return d.match, nil
}

// decoder holds the state of one envelope pass. It is never shared.
type decoder struct {
	catalog Catalog
	rawLen  int
	maxRows int
	match   *model.Match
	started bool
	ports   [4]*model.Player
}

func (d *decoder) run(c *cursor) error {
	for c.remaining() > 0 {
		at := c.pos
		code, err := c.u8()
		if err != nil {
			return err
		}
		size, ok := d.catalog[code]
		if !ok {
			return fmt.Errorf("event 0x%02X at offset %d has no catalog entry: %w", code, at, ErrMalformedContainer)
		}
		body, err := c.take(size)
		if err != nil {
			return fmt.Errorf("read event 0x%02X: %w", code, err)
		}
		if err := d.dispatch(code, payload(body)); err != nil {
			return fmt.Errorf("event 0x%02X at offset %d: %w", code, at, err)
		}
	}
	return nil
}

func (d *decoder) dispatch(code byte, p payload) error {
	switch code {
	case EventGameStart:
		if d.started {
			return fmt.Errorf("second game start: %w", ErrMalformedContainer)
		}
		return d.gameStart(p)
	case EventPreFrame, EventPostFrame, EventItem, EventGameEnd:
		if !d.started {
			return fmt.Errorf("before game start: %w", ErrMalformedContainer)
		}
	default:
		// Frame start, bookend, gecko codes, message splitter and anything
		// newer carry nothing the model needs.
		return nil
	}

	switch code {
	case EventPreFrame, EventPostFrame:
		h, err := readFrameHeader(p)
		if err != nil {
			return err
		}
		f := d.frames(h)
		i := model.FrameIndex(h.frame)
		if f == nil || i < 0 {
			return nil
		}
		if i >= d.maxRows {
			return fmt.Errorf("frame %d needs more rows than the %d the stream can hold: %w", h.frame, d.maxRows, ErrMalformedContainer)
		}
		// A rolled back frame is written again; the later write wins.
		f.Row(i)
		if code == EventPreFrame {
			decodePre(p, f, i)
		} else {
			decodePost(p, f, i)
		}
	case EventItem:
		row, err := decodeItem(p)
		if err != nil {
			return err
		}
		d.match.Items.Append(row)
	case EventGameEnd:
		end, err := decodeGameEnd(p)
		if err != nil {
			return err
		}
		d.match.End = end
	}
	return nil
}

// frames returns the table a frame event belongs to, or nil for ports and
// followers that have none.
func (d *decoder) frames(h frameHeader) *model.Frames {
	if h.port > 3 || d.ports[h.port] == nil {
		return nil
	}
	p := d.ports[h.port]
	if h.follower {
		return p.Partner
	}
	return p.Frames
}

func (d *decoder) gameStart(p payload) error {
	gs, err := decodeGameStart(p)
	if err != nil {
		return err
	}
	d.started = true
	d.match.Start = gs

	occupied := 0
	for _, ps := range gs.Ports {
		if ps.Type != model.PlayerEmpty {
			occupied++
		}
	}
	capacity := d.estimateFrames(occupied)

	for i, ps := range gs.Ports {
		if ps.Type == model.PlayerEmpty {
			continue
		}
		char, err := melee.CharacterFromCSS(ps.CharacterCSS)
		if err != nil {
			return &UnknownEnumError{Field: "character", Value: int(ps.CharacterCSS)}
		}
		pl := &model.Player{
			Port:          model.Port(i),
			Character:     char,
			Costume:       ps.Costume,
			Type:          ps.Type,
			StartStocks:   ps.Stocks,
			ConnectCode:   ps.ConnectCode,
			DisplayName:   ps.DisplayName,
			DashbackFix:   ps.DashbackFix,
			ShieldDropFix: ps.ShieldDropFix,
			Frames:        model.NewFrames(capacity),
		}
		if ps.CharacterCSS == melee.IceClimbersCSS {
			pl.Partner = model.NewPartnerFrames(capacity)
		}
		d.ports[i] = pl
		d.match.Players = append(d.match.Players, pl)
	}
	return nil
}

// estimateFrames guesses the frame count from the raw length so the columns
// are allocated once for a typical replay.
func (d *decoder) estimateFrames(players int) int {
	perFrame := players * (d.catalog[EventPreFrame] + d.catalog[EventPostFrame] + 2)
	if perFrame == 0 {
		return 0
	}
	return d.rawLen / perFrame
}

// finish fills identities from the metadata block and aligns every table to
// the match's frame count.
func (d *decoder) finish() {
	m := d.match
	for _, p := range m.Players {
		if p.ConnectCode == "" {
			p.ConnectCode = m.Metadata.Codes[p.Port]
		}
		if p.DisplayName == "" {
			p.DisplayName = m.Metadata.Netplay[p.Port]
		}
	}

	observed := 0
	for _, p := range m.Players {
		observed = max(observed, p.Frames.Len())
	}
	// lastFrame only trims trailing frames. Rows past the observed ones
	// would have to be invented.
	total := observed
	if m.Metadata.LastFrame != nil {
		total = min(total, model.FrameIndex(*m.Metadata.LastFrame)+1)
	}
	total = max(total, 0)

	m.TotalFrames = total
	for _, p := range m.Players {
		p.Frames.Resize(total)
		if p.Partner != nil {
			p.Partner.Resize(total)
		}
	}
}
