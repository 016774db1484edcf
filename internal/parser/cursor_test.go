package parser

import (
	"errors"
	"testing"
)

func TestPayloadFallback(t *testing.T) {
	p := payload{0x00, 0x01, 0x02, 0x03, 0xFF}

	if got := p.u32(0, 9); got != 0x00010203 {
		t.Errorf("u32(0) = %#x", got)
	}
	if got := p.u32(2, 9); got != 9 {
		t.Errorf("u32 past the end = %d, want the default 9", got)
	}
	if got := p.i8(4, 0); got != -1 {
		t.Errorf("i8(4) = %d, want -1", got)
	}
	if got := p.i8(5, -1); got != -1 {
		t.Errorf("i8 past the end = %d, want -1", got)
	}
	if got := p.u16(-1, 7); got != 7 {
		t.Errorf("u16 at negative offset = %d, want 7", got)
	}
	if b := p.bytes(3, 3); b != nil {
		t.Errorf("bytes past the end = %v, want nil", b)
	}
	if got := text(p.bytes(0, 4)); got != "" {
		t.Errorf("text of a field starting with NUL = %q", got)
	}
}

func TestText(t *testing.T) {
	// "ABC＃1" in Shift-JIS, NUL padded
	field := []byte{'A', 'B', 'C', 0x81, 0x94, '1', 0, 0, 0, 0}
	if got := text(field); got != "ABC#1" {
		t.Errorf("text = %q, want ABC#1", got)
	}
	if got := text([]byte("NOTERMINATOR")); got != "" {
		t.Errorf("unterminated field = %q, want empty", got)
	}
	if got := text(nil); got != "" {
		t.Errorf("absent field = %q, want empty", got)
	}
}

func TestCursorBounds(t *testing.T) {
	c := &cursor{buf: []byte{1, 2, 3}}
	if v, err := c.u16(); err != nil || v != 0x0102 {
		t.Fatalf("u16 = %#x, %v", v, err)
	}
	if _, err := c.u16(); !errors.Is(err, ErrMalformedContainer) {
		t.Errorf("short read err = %v, want ErrMalformedContainer", err)
	}
	if c.remaining() != 1 {
		t.Errorf("failed read moved the cursor: remaining %d", c.remaining())
	}
}

func TestReadCatalog(t *testing.T) {
	c := &cursor{buf: []byte{0x35, 7, 0x36, 0x02, 0xF8, 0x37, 0x00, 0x40}}
	cat, err := readCatalog(c)
	if err != nil {
		t.Fatalf("readCatalog: %v", err)
	}
	if cat[EventGameStart] != 760 || cat[EventPreFrame] != 64 {
		t.Errorf("catalog = %v", cat)
	}

	bad := &cursor{buf: []byte{0x35, 6, 0x36, 0x02, 0xF8, 0x37, 0x00}}
	if _, err := readCatalog(bad); !errors.Is(err, ErrMalformedContainer) {
		t.Errorf("size 6 err = %v, want ErrMalformedContainer", err)
	}
	wrong := &cursor{buf: []byte{0x36, 4, 0x36, 0x02, 0xF8}}
	if _, err := readCatalog(wrong); !errors.Is(err, ErrMalformedContainer) {
		t.Errorf("missing catalog err = %v, want ErrMalformedContainer", err)
	}
}

func TestReadMetadataOptimizedContainers(t *testing.T) {
	var b []byte
	b = append(b, metadataKey...)
	b = append(b, '{')
	// lastFrame as int16
	b = append(b, 'U', 9)
	b = append(b, "lastFrame"...)
	b = append(b, 'I', 0x1F, 0x40)
	// a typed, counted array that is skipped
	b = append(b, 'U', 4)
	b = append(b, "junk"...)
	b = append(b, '[', '$', 'U', '#', 'U', 3, 1, 2, 3)
	// players.1.names.code inside a counted object
	b = append(b, 'U', 7)
	b = append(b, "players"...)
	b = append(b, '{', '#', 'U', 1, 'U', 1, '1')
	b = append(b, '{', 'U', 5)
	b = append(b, "names"...)
	b = append(b, '{', 'U', 4)
	b = append(b, "code"...)
	b = append(b, 'S', 'U', 5)
	b = append(b, "AB#12"...)
	b = append(b, '}', '}')
	b = append(b, '}')

	md := readMetadata(b)
	if md.LastFrame == nil || *md.LastFrame != 8000 {
		t.Fatalf("LastFrame = %v, want 8000", md.LastFrame)
	}
	if md.Codes[1] != "AB#12" {
		t.Errorf("Codes = %v", md.Codes)
	}

	if md := readMetadata([]byte("garbage")); md.LastFrame != nil {
		t.Error("garbage metadata should decode to nothing")
	}
	if md := readMetadata(b[:len(b)-4]); md.LastFrame != nil {
		t.Error("truncated metadata should decode to nothing")
	}
}
