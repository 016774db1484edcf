package parser

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pable/slpstats/internal/model"
)

// metadataKey precedes the metadata object: a UBJSON uint8 length of 8 then the key.
var metadataKey = []byte("U\x08metadata")

const maxUBJSONDepth = 32

// readMetadata decodes the metadata block that follows the event stream.
// Any problem yields an empty Metadata; the block is informational and a
// replay without it is still valid.
func readMetadata(b []byte) model.Metadata {
	if !bytes.HasPrefix(b, metadataKey) {
		return model.Metadata{}
	}
	u := &ubjson{c: cursor{buf: b, pos: len(metadataKey)}}
	v, err := u.value(0)
	if err != nil {
		return model.Metadata{}
	}
	if _, ok := v.(map[string]any); !ok {
		return model.Metadata{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return model.Metadata{}
	}
	return metadataFromJSON(raw)
}

func metadataFromJSON(raw []byte) model.Metadata {
	var md model.Metadata
	if r := gjson.GetBytes(raw, "lastFrame"); r.Exists() {
		lf := int32(r.Int())
		md.LastFrame = &lf
	}
	if r := gjson.GetBytes(raw, "startAt"); r.Exists() {
		if t, err := time.Parse(time.RFC3339, r.String()); err == nil {
			md.StartAt = t
		}
	}
	md.PlayedOn = gjson.GetBytes(raw, "playedOn").String()

	players := gjson.GetBytes(raw, "players")
	players.ForEach(func(key, value gjson.Result) bool {
		n, err := strconv.Atoi(key.String())
		if err != nil || n < 0 || n > 3 {
			return true
		}
		port := model.Port(n)
		if code := value.Get("names.code").String(); code != "" {
			if md.Codes == nil {
				md.Codes = make(map[model.Port]string)
			}
			md.Codes[port] = code
		}
		if name := value.Get("names.netplay").String(); name != "" {
			if md.Netplay == nil {
				md.Netplay = make(map[model.Port]string)
			}
			md.Netplay[port] = name
		}
		return true
	})
	return md
}

// ubjson reads the subset of Universal Binary JSON the replay writer emits.
type ubjson struct {
	c cursor
}

// value reads one value. A zero marker means the marker byte is read from
// the stream; strongly typed containers pass their element type instead.
func (u *ubjson) value(marker byte) (any, error) {
	return u.valueAt(marker, 0)
}

func (u *ubjson) valueAt(marker byte, depth int) (any, error) {
	if depth > maxUBJSONDepth {
		return nil, fmt.Errorf("ubjson nesting deeper than %d", maxUBJSONDepth)
	}
	if marker == 0 {
		m, err := u.c.u8()
		if err != nil {
			return nil, err
		}
		marker = m
	}
	switch marker {
	case 'Z':
		return nil, nil
	case 'T':
		return true, nil
	case 'F':
		return false, nil
	case 'C':
		b, err := u.c.u8()
		return string(rune(b)), err
	case 'S', 'H':
		return u.str()
	case '{':
		return u.object(depth)
	case '[':
		return u.array(depth)
	}
	return u.number(marker)
}

func (u *ubjson) number(marker byte) (any, error) {
	var size int
	switch marker {
	case 'i', 'U':
		size = 1
	case 'I':
		size = 2
	case 'l', 'd':
		size = 4
	case 'L', 'D':
		size = 8
	default:
		return nil, fmt.Errorf("ubjson marker %q at offset %d", marker, u.c.pos-1)
	}
	b, err := u.c.take(size)
	if err != nil {
		return nil, err
	}
	switch marker {
	case 'i':
		return int64(int8(b[0])), nil
	case 'U':
		return int64(b[0]), nil
	case 'I':
		return int64(int16(binary.BigEndian.Uint16(b))), nil
	case 'l':
		return int64(int32(binary.BigEndian.Uint32(b))), nil
	case 'L':
		return int64(binary.BigEndian.Uint64(b)), nil
	case 'd':
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	default:
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	}
}

// length reads an integer used as a string length or container count.
func (u *ubjson) length() (int, error) {
	m, err := u.c.u8()
	if err != nil {
		return 0, err
	}
	v, err := u.number(m)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int64)
	if !ok || n < 0 || n > int64(u.c.remaining()) {
		return 0, fmt.Errorf("ubjson length %v at offset %d", v, u.c.pos)
	}
	return int(n), nil
}

func (u *ubjson) str() (string, error) {
	n, err := u.length()
	if err != nil {
		return "", err
	}
	b, err := u.c.take(n)
	return string(b), err
}

// header reads the optional $type and #count of an optimised container.
// count is -1 when the container is terminated by a closing marker.
func (u *ubjson) header() (elem byte, count int, err error) {
	count = -1
	if u.c.remaining() == 0 {
		return 0, 0, ErrMalformedContainer
	}
	if u.c.buf[u.c.pos] == '$' {
		u.c.pos++
		if elem, err = u.c.u8(); err != nil {
			return 0, 0, err
		}
		if u.c.remaining() == 0 || u.c.buf[u.c.pos] != '#' {
			return 0, 0, fmt.Errorf("ubjson typed container without count at offset %d", u.c.pos)
		}
	}
	if u.c.remaining() > 0 && u.c.buf[u.c.pos] == '#' {
		u.c.pos++
		if count, err = u.length(); err != nil {
			return 0, 0, err
		}
	}
	return elem, count, nil
}

func (u *ubjson) object(depth int) (map[string]any, error) {
	elem, count, err := u.header()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	for i := 0; count < 0 || i < count; i++ {
		if count < 0 {
			if u.c.remaining() == 0 {
				return nil, ErrMalformedContainer
			}
			if u.c.buf[u.c.pos] == '}' {
				u.c.pos++
				return out, nil
			}
		}
		key, err := u.str()
		if err != nil {
			return nil, err
		}
		v, err := u.valueAt(elem, depth+1)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func (u *ubjson) array(depth int) ([]any, error) {
	elem, count, err := u.header()
	if err != nil {
		return nil, err
	}
	var out []any
	for i := 0; count < 0 || i < count; i++ {
		if count < 0 {
			if u.c.remaining() == 0 {
				return nil, ErrMalformedContainer
			}
			if u.c.buf[u.c.pos] == ']' {
				u.c.pos++
				return out, nil
			}
		}
		v, err := u.valueAt(elem, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
