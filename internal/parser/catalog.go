package parser

import (
	"errors"
	"fmt"
)

// ErrMalformedContainer is returned when the header, the event catalog or
// the event stream cannot be read.
var ErrMalformedContainer = errors.New("malformed container")

// UnknownEnumError reports a raw value with no mapping in an enumeration
// that later logic depends on.
type UnknownEnumError struct {
	Field string
	Value int
}

func (e *UnknownEnumError) Error() string {
	return fmt.Sprintf("unknown %s value %d", e.Field, e.Value)
}

// Event command bytes.
const (
	EventMessageSplitter byte = 0x10
	EventPayloads        byte = 0x35
	EventGameStart       byte = 0x36
	EventPreFrame        byte = 0x37
	EventPostFrame       byte = 0x38
	EventGameEnd         byte = 0x39
	EventFrameStart      byte = 0x3A
	EventItem            byte = 0x3B
	EventFrameBookend    byte = 0x3C
	EventGeckoList       byte = 0x3D
)

// Catalog maps an event command byte to its payload length.
type Catalog map[byte]int

// readCatalog reads the event payloads event, which must be the first event
// of the stream. Each entry is a command byte followed by a u16 length.
func readCatalog(c *cursor) (Catalog, error) {
	code, err := c.u8()
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if code != EventPayloads {
		return nil, fmt.Errorf("first event 0x%02X is not the event catalog: %w", code, ErrMalformedContainer)
	}
	size, err := c.u8()
	if err != nil {
		return nil, fmt.Errorf("read catalog size: %w", err)
	}
	if size == 0 || (size-1)%3 != 0 {
		return nil, fmt.Errorf("catalog size %d: %w", size, ErrMalformedContainer)
	}

	cat := Catalog{EventPayloads: int(size)}
	for i := 0; i < int(size-1)/3; i++ {
		code, err := c.u8()
		if err != nil {
			return nil, fmt.Errorf("read catalog entry %d: %w", i, err)
		}
		n, err := c.u16()
		if err != nil {
			return nil, fmt.Errorf("read catalog entry %d: %w", i, err)
		}
		cat[code] = int(n)
	}
	return cat, nil
}
