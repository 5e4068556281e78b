// Package disasm defines the listing form of decoded instructions and how
// it is laid out as text.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"jdis/internal/jrisc"
)

// Inst is one line of a listing.
type Inst struct {
	VA          uint32   // address of instruction
	Raw         []byte   // machine code, may be nil
	Op          string   // mnemonic in lowercase
	Args        string   // operand text
	Label       string   // label defined at VA
	Annotations []string // comments shown after the operands
}

// Stream is a linear sequence of instructions.
type Stream []Inst

// Flags selects the optional listing columns.
type Flags uint8

const (
	ShowAddress Flags = 1 << iota
	ShowMachineCode
)

// annotationColumn is where comments start in column layout.
const annotationColumn = 48

// FromJRISC converts a decoded instruction.
func FromJRISC(in jrisc.Instruction) Inst {
	return Inst{
		VA:   in.Addr,
		Raw:  in.Raw,
		Op:   in.Mnemonic,
		Args: in.Operands,
	}
}

// FromJRISCAll converts a decoded sequence.
func FromJRISCAll(insts []jrisc.Instruction) Stream {
	s := make(Stream, 0, len(insts))
	for _, in := range insts {
		s = append(s, FromJRISC(in))
	}
	return s
}

// Text is the bare "mnemonic<TAB>operands" form.
func (i Inst) Text() string {
	if i.Args == "" {
		return i.Op
	}
	return i.Op + "\t" + i.Args
}

// Line formats the instruction. Without flags it is Text; with flags it
// uses fixed columns:
//
//	00f03000: 981f 05bc 0000  movei   #$5bc, r31
func (i Inst) Line(f Flags) string {
	if f == 0 {
		return withAnnotations(i.Text(), i.Annotations, 0)
	}

	var b strings.Builder
	indent := "\t"
	if f&ShowAddress != 0 {
		fmt.Fprintf(&b, "%08x:", i.VA)
		indent = " "
	}
	if f&ShowMachineCode != 0 {
		fmt.Fprintf(&b, "%s%-14s", indent, MachineCode(i.Raw))
		indent = "  "
	}
	if i.Args == "" {
		b.WriteString(indent + i.Op)
	} else {
		fmt.Fprintf(&b, "%s%-8s%s", indent, i.Op, i.Args)
	}
	return withAnnotations(b.String(), i.Annotations, annotationColumn)
}

func withAnnotations(line string, notes []string, column int) string {
	if len(notes) == 0 {
		return line
	}
	if pad := column - len(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line + " ; " + strings.Join(notes, ", ")
}

// MachineCode renders raw bytes as space separated 16-bit words.
func MachineCode(raw []byte) string {
	words := make([]string, 0, (len(raw)+1)/2)
	for n := 0; n < len(raw); n += 2 {
		if n+1 < len(raw) {
			words = append(words, fmt.Sprintf("%02x%02x", raw[n], raw[n+1]))
		} else {
			words = append(words, fmt.Sprintf("%02x", raw[n]))
		}
	}
	return strings.Join(words, " ")
}

// Lines formats the stream, giving labels a line of their own.
func (s Stream) Lines(f Flags) []string {
	out := make([]string, 0, len(s))
	for _, i := range s {
		if i.Label != "" {
			out = append(out, i.Label+":")
		}
		out = append(out, i.Line(f))
	}
	return out
}

// Write prints the stream, one line per instruction.
func (s Stream) Write(w io.Writer, f Flags) error {
	for _, line := range s.Lines(f) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
