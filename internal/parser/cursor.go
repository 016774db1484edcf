package parser

import (
	"encoding/binary"
	"fmt"
	"math"
)

// cursor is a bounds-checked big-endian reader over the container buffer.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

// take returns the next n bytes and advances past them.
func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, fmt.Errorf("read %d bytes at offset %d of %d: %w", n, c.pos, len(c.buf), ErrMalformedContainer)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// payload is one event body without its command byte. Every accessor takes
// the field's offset and the value to use when the payload ends before the
// field, which is how fields added in later replay versions default on
// older files.
type payload []byte

// field decodes size bytes at off, or returns def when they are not present.
func field[T any](p payload, off, size int, decode func([]byte) T, def T) T {
	if off < 0 || off+size > len(p) {
		return def
	}
	return decode(p[off : off+size])
}

func (p payload) has(off, size int) bool { return off >= 0 && off+size <= len(p) }

func (p payload) u8(off int, def uint8) uint8 {
	return field(p, off, 1, func(b []byte) uint8 { return b[0] }, def)
}

func (p payload) i8(off int, def int8) int8 {
	return field(p, off, 1, func(b []byte) int8 { return int8(b[0]) }, def)
}

func (p payload) flag(off int, def bool) bool {
	return field(p, off, 1, func(b []byte) bool { return b[0] != 0 }, def)
}

func (p payload) u16(off int, def uint16) uint16 {
	return field(p, off, 2, binary.BigEndian.Uint16, def)
}

func (p payload) u32(off int, def uint32) uint32 {
	return field(p, off, 4, binary.BigEndian.Uint32, def)
}

func (p payload) i32(off int, def int32) int32 {
	return field(p, off, 4, func(b []byte) int32 { return int32(binary.BigEndian.Uint32(b)) }, def)
}

func (p payload) f32(off int, def float32) float32 {
	return field(p, off, 4, func(b []byte) float32 { return math.Float32frombits(binary.BigEndian.Uint32(b)) }, def)
}

// bytes returns the n byte region at off, or nil when it is not fully present.
func (p payload) bytes(off, n int) []byte {
	return field(p, off, n, func(b []byte) []byte { return b }, nil)
}
