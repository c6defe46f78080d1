package logtail

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Decoder converts raw log bytes to text. A nil Decoder passes bytes
// through as UTF-8.
type Decoder struct {
	name string
	dec  *encoding.Decoder
}

// NewDecoder returns a decoder for the named encoding. Dwarf Fortress
// writes its logs in code page 437.
func NewDecoder(name string) (*Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "cp437", "ibm437":
		return &Decoder{name: "cp437", dec: charmap.CodePage437.NewDecoder()}, nil
	case "latin1", "iso-8859-1":
		return &Decoder{name: "latin1", dec: charmap.ISO8859_1.NewDecoder()}, nil
	case "windows-1252", "cp1252":
		return &Decoder{name: "windows-1252", dec: charmap.Windows1252.NewDecoder()}, nil
	default:
		return nil, fmt.Errorf("unsupported log encoding %q", name)
	}
}

// Name returns the canonical encoding name.
func (d *Decoder) Name() string {
	if d == nil {
		return "utf-8"
	}
	return d.name
}

// Line decodes one line and strips a trailing carriage return.
func (d *Decoder) Line(raw []byte) string {
	raw = bytes.TrimRight(raw, "\r\n")
	if d == nil {
		return string(raw)
	}
	out, err := d.dec.Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
