package jrisc

import "fmt"

// OperandKind says how a 5-bit register field is interpreted.
type OperandKind uint8

const (
	KindUnused    OperandKind = iota
	KindReg                   // rN
	KindIndirect              // (rN)
	KindCondition             // jump/jr condition code
	KindSImm                  // signed, -16..15
	KindUImm                  // unsigned, 1..32 (0 encodes 32)
	KindZUImm                 // unsigned, 0..31
	KindShlImm                // 32 - uimm, used by shlq
	KindPCOffset              // signed word offset from the next instruction
	KindFlag                  // pack/unpack selector
)

var kindNames = [...]string{
	KindUnused:    "-",
	KindReg:       "Rn",
	KindIndirect:  "(Rn)",
	KindCondition: "cc",
	KindSImm:      "#s5",
	KindUImm:      "#u5",
	KindZUImm:     "#z5",
	KindShlImm:    "#shl",
	KindPCOffset:  "pcrel",
	KindFlag:      "flag",
}

func (k OperandKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("OperandKind(%d)", uint8(k))
}

const fieldMask = 0x1f

// Operand is one decoded register field.
type Operand struct {
	Kind OperandKind
	Raw  uint8
}

// Reg returns the register number for KindReg and KindIndirect operands.
func (o Operand) Reg() int {
	return int(o.Raw & fieldMask)
}

// Signed sign-extends the 5-bit field.
func (o Operand) Signed() int {
	v := int(o.Raw & fieldMask)
	if v&0x10 != 0 {
		v -= 32
	}
	return v
}

// Unsigned returns the field with 0 standing for 32.
func (o Operand) Unsigned() int {
	if v := int(o.Raw & fieldMask); v != 0 {
		return v
	}
	return 32
}

// Value returns the operand's numeric value as the programmer wrote it.
func (o Operand) Value() int {
	switch o.Kind {
	case KindSImm, KindPCOffset:
		return o.Signed()
	case KindUImm:
		return o.Unsigned()
	case KindShlImm:
		return 32 - o.Unsigned()
	default:
		return int(o.Raw & fieldMask)
	}
}

var conditionNames = map[uint8]string{
	0x00: "T",
	0x01: "NE",
	0x02: "EQ",
	0x04: "CC",
	0x05: "HI",
	0x08: "CS",
	0x14: "PL",
	0x18: "MI",
}

// ConditionName returns the assembler name of a condition code, or $x for
// codes without one.
func ConditionName(cc uint8) string {
	if name, ok := conditionNames[cc&fieldMask]; ok {
		return name
	}
	return fmt.Sprintf("$%x", cc&fieldMask)
}
