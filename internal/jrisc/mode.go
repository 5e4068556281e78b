package jrisc

import (
	"fmt"
	"strings"
)

// Mode selects which of the two Jaguar RISC processors the code runs on.
type Mode int

const (
	GPU Mode = iota // Tom
	DSP             // Jerry
)

// Local RAM bases, used when the caller has no better load address.
const (
	GPURAM uint32 = 0xf03000
	DSPRAM uint32 = 0xf1b000
)

func (m Mode) Valid() bool {
	return m == GPU || m == DSP
}

func (m Mode) String() string {
	switch m {
	case GPU:
		return "gpu"
	case DSP:
		return "dsp"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// DefaultBase returns the start of the processor's local RAM.
func (m Mode) DefaultBase() uint32 {
	if m == DSP {
		return DSPRAM
	}
	return GPURAM
}

// ParseMode accepts "gpu", "tom", "dsp" or "jerry" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gpu", "tom":
		return GPU, nil
	case "dsp", "jerry":
		return DSP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}
