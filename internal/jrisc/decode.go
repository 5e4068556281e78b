// Package jrisc decodes the instruction set shared by the Atari Jaguar's GPU
// and DSP.
//
// Code is a stream of big-endian 16-bit words. Every instruction is one word
// except movei, which is followed by the low and then the high half of its
// 32-bit immediate.
package jrisc

import (
	"encoding/binary"
	"iter"
)

const (
	opcodeShift = 10
	srcShift    = 5
)

// Option configures a Decoder.
type Option func(*Decoder)

// WithAbsoluteBranches renders jr targets as absolute addresses ($f03010)
// instead of the distance from the jr (*-2).
func WithAbsoluteBranches(on bool) Option {
	return func(d *Decoder) { d.absolute = on }
}

// WithMachineCode keeps a copy of the bytes behind every instruction in
// Instruction.Raw.
func WithMachineCode(on bool) Option {
	return func(d *Decoder) { d.machineCode = on }
}

// Decoder turns code into instructions for one processor. It holds no
// per-call state and is safe for concurrent use.
type Decoder struct {
	mode        Mode
	table       *table
	absolute    bool
	machineCode bool
}

// New returns a decoder for mode.
func New(mode Mode, opts ...Option) (*Decoder, error) {
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}
	d := &Decoder{mode: mode, table: tableFor(mode)}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Decoder) Mode() Mode {
	return d.mode
}

// Decode decodes the instruction at the start of code, which is located at
// addr.
func (d *Decoder) Decode(code []byte, addr uint32) (Instruction, error) {
	if len(code) < 2 {
		return Instruction{Addr: addr}, &TruncatedError{Addr: addr, Need: 2, Have: len(code)}
	}

	w := binary.BigEndian.Uint16(code)
	in := d.decodeWord(w, addr)

	if n := in.Op.words() * 2; n > 2 {
		if len(code) < n {
			return Instruction{Addr: addr}, &TruncatedError{Addr: addr, Need: n, Have: len(code)}
		}
		lo := binary.BigEndian.Uint16(code[2:])
		hi := binary.BigEndian.Uint16(code[4:])
		in.Imm = uint32(hi)<<16 | uint32(lo)
		in.Words = append(in.Words, lo, hi)
	}

	in.Mnemonic, in.Operands = in.render(d.absolute)
	if d.machineCode {
		in.Raw = append([]byte(nil), code[:in.Size()]...)
	}
	return in, nil
}

func (d *Decoder) decodeWord(w uint16, addr uint32) Instruction {
	opcode := uint8(w >> opcodeShift)
	src := uint8(w>>srcShift) & fieldMask
	dst := uint8(w) & fieldMask

	s := d.table.lookup(opcode, src)
	in := Instruction{
		Addr:   addr,
		Opcode: opcode,
		Op:     s.op,
		Src:    Operand{Kind: s.src, Raw: src},
		Dst:    Operand{Kind: s.dst, Raw: dst},
		Swap:   s.swap,
		Words:  make([]uint16, 1, s.op.words()),
	}
	in.Words[0] = w
	return in
}

// Instructions returns the instructions in code, which is loaded at base,
// in address order. A truncated final instruction ends the sequence with a
// *TruncatedError. Stopping the range early costs nothing further.
func (d *Decoder) Instructions(code []byte, base uint32) iter.Seq2[Instruction, error] {
	return func(yield func(Instruction, error) bool) {
		addr := base
		for len(code) > 0 {
			in, err := d.Decode(code, addr)
			if err != nil {
				yield(in, err)
				return
			}
			if !yield(in, nil) {
				return
			}
			code = code[in.Size():]
			addr += uint32(in.Size())
		}
	}
}

// All decodes the whole of code. On error it returns the instructions
// decoded before the truncated one.
func (d *Decoder) All(code []byte, base uint32) ([]Instruction, error) {
	var out []Instruction
	for in, err := range d.Instructions(code, base) {
		if err != nil {
			return out, err
		}
		out = append(out, in)
	}
	return out, nil
}

// Disassemble is a one-shot helper around New and All.
func Disassemble(code []byte, base uint32, mode Mode, opts ...Option) ([]Instruction, error) {
	d, err := New(mode, opts...)
	if err != nil {
		return nil, err
	}
	return d.All(code, base)
}
