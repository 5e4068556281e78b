package binfile

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrBadHex     = errors.New("invalid hex bytes")
	ErrBadAddress = errors.New("invalid address")
)

var hexSeparators = strings.NewReplacer(
	`\x`, " ",
	",", " ",
	";", " ",
	"'", " ",
	`"`, " ",
)

// ParseHex decodes byte strings in the forms people paste: "98 1f 05 bc",
// "981f05bc", "0x98,0x1f", "$981f" and Python's b'\x98\x1f'.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "b'") || strings.HasPrefix(s, `b"`) {
		s = s[1:]
	}

	var out []byte
	for _, tok := range strings.Fields(hexSeparators.Replace(s)) {
		digits, prefixed := trimHexPrefix(tok)
		if prefixed && len(digits)%2 == 1 {
			digits = "0" + digits
		}
		if digits == "" || len(digits)%2 == 1 {
			return nil, fmt.Errorf("%w: %q", ErrBadHex, tok)
		}
		b, err := hex.DecodeString(digits)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadHex, tok)
		}
		out = append(out, b...)
	}
	return out, nil
}

func trimHexPrefix(tok string) (string, bool) {
	switch {
	case strings.HasPrefix(tok, "0x"), strings.HasPrefix(tok, "0X"):
		return tok[2:], true
	case strings.HasPrefix(tok, "$"):
		return tok[1:], true
	}
	return tok, false
}

// ParseAddress reads "$f03000", "0xf03000" or a decimal number.
func ParseAddress(s string) (uint32, error) {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "$") {
		t = "0x" + t[1:]
	}
	v, err := strconv.ParseUint(t, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadAddress, s)
	}
	return uint32(v), nil
}

// HexLine is one line of a hex dump: an optional address and its bytes.
type HexLine struct {
	Addr    uint32
	HasAddr bool
	Data    []byte
}

// ParseHexLine splits "[addr:] bytes". Blank lines and lines starting
// with '#' or ';' yield no bytes.
func ParseHexLine(line string) (HexLine, error) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' || line[0] == ';' {
		return HexLine{}, nil
	}

	var hl HexLine
	if addr, rest, ok := strings.Cut(line, ":"); ok {
		a, err := ParseAddress(hexAddress(addr))
		if err != nil {
			return HexLine{}, err
		}
		hl.Addr, hl.HasAddr = a, true
		line = rest
	}

	data, err := ParseHex(line)
	if err != nil {
		return HexLine{}, err
	}
	hl.Data = data
	return hl, nil
}

// hexAddress treats a bare dump address as hex.
func hexAddress(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$") || strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s
	}
	return "0x" + s
}
