package jrisc

// Instruction is one decoded instruction. It is built once per decode step
// and never changed afterwards.
type Instruction struct {
	Addr   uint32   // absolute address of the first word
	Opcode uint8    // top six bits of the first word
	Op     Op       // OpIllegal for a reserved slot
	Src    Operand  // bits 9..5
	Dst    Operand  // bits 4..0
	Imm    uint32   // movei immediate
	Words  []uint16 // every word consumed, in stream order
	Swap   bool     // destination field printed first

	Mnemonic string
	Operands string
	Raw      []byte // consumed bytes, only with WithMachineCode
}

// Size is the number of bytes the instruction occupies.
func (in Instruction) Size() int {
	return 2 * len(in.Words)
}

// End is the address of the following instruction.
func (in Instruction) End() uint32 {
	return in.Addr + uint32(in.Size())
}

// Reserved reports whether the opcode slot has no instruction in the
// decoding mode.
func (in Instruction) Reserved() bool {
	return in.Op == OpIllegal
}

// Text renders the instruction as "mnemonic<TAB>operands".
func (in Instruction) Text() string {
	if in.Operands == "" {
		return in.Mnemonic
	}
	return in.Mnemonic + "\t" + in.Operands
}

func (in Instruction) String() string {
	return in.Text()
}

// Target returns the absolute destination of a jr. The offset counts words
// from the instruction after the jr.
func (in Instruction) Target() (uint32, bool) {
	if in.Op != OpJr {
		return 0, false
	}
	return in.Addr + 2 + uint32(2*in.Src.Signed()), true
}

// Condition returns the condition code of a jump or jr.
func (in Instruction) Condition() (uint8, bool) {
	if in.Op != OpJump && in.Op != OpJr {
		return 0, false
	}
	return in.Dst.Raw, true
}

// IsBranch reports jump and jr, which both execute one delay slot.
func (in Instruction) IsBranch() bool {
	return in.Op == OpJump || in.Op == OpJr
}

// WritesDst reports whether the instruction replaces the value of its
// destination register in the current bank.
func (in Instruction) WritesDst() bool {
	if in.Dst.Kind != KindReg || in.Swap {
		return false
	}
	switch in.Op {
	case OpCmp, OpCmpq, OpBtst, OpMoveta, OpIllegal:
		return false
	}
	return true
}
