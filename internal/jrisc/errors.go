package jrisc

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedInput is reported when the buffer ends inside an instruction.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrInvalidMode is reported for a Mode other than GPU or DSP.
	ErrInvalidMode = errors.New("invalid processor mode")
)

// TruncatedError describes an instruction that needs more bytes than remain.
// It matches ErrTruncatedInput with errors.Is.
type TruncatedError struct {
	Addr uint32 // address of the incomplete instruction
	Need int    // bytes the instruction occupies
	Have int    // bytes left in the buffer
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated instruction at $%x: need %d bytes, have %d", e.Addr, e.Need, e.Have)
}

func (e *TruncatedError) Unwrap() error {
	return ErrTruncatedInput
}
