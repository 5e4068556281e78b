package jrisc

import (
	"fmt"
	"strings"
)

// render builds the mnemonic and operand text. Operands are printed
// source-first, except for swapped forms.
func (in Instruction) render(absolute bool) (string, string) {
	if in.Op == OpIllegal {
		return in.Op.Mnemonic(), fmt.Sprintf("$%04x", in.Words[0])
	}

	first, second := in.Src, in.Dst
	firstBase, secondBase := in.Op.baseReg(), ""
	if in.Swap {
		first, second = in.Dst, in.Src
		firstBase, secondBase = "", firstBase
	}

	var parts []string
	switch in.Op {
	case OpMovei:
		parts = append(parts, fmt.Sprintf("#$%x", in.Imm))
	case OpMovepc:
		parts = append(parts, "PC")
	default:
		if s := in.operand(first, firstBase, absolute); s != "" {
			parts = append(parts, s)
		}
	}
	if s := in.operand(second, secondBase, absolute); s != "" {
		parts = append(parts, s)
	}
	return in.Op.Mnemonic(), strings.Join(parts, ", ")
}

func (in Instruction) operand(o Operand, base string, absolute bool) string {
	switch o.Kind {
	case KindReg:
		if base != "" {
			return fmt.Sprintf("(%s+r%d)", base, o.Reg())
		}
		return fmt.Sprintf("r%d", o.Reg())
	case KindIndirect:
		return fmt.Sprintf("(r%d)", o.Reg())
	case KindCondition:
		return ConditionName(o.Raw)
	case KindUImm:
		if base != "" {
			return fmt.Sprintf("(%s+%d)", base, o.Value())
		}
		return fmt.Sprintf("#%d", o.Value())
	case KindZUImm, KindShlImm, KindSImm:
		return fmt.Sprintf("#%d", o.Value())
	case KindPCOffset:
		if absolute {
			target, _ := in.Target()
			return fmt.Sprintf("$%x", target)
		}
		return fmt.Sprintf("*%+d", 2*(o.Signed()+1))
	default:
		return ""
	}
}
