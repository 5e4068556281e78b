package analysis

import "jdis/internal/jrisc"

// RegisterState tracks constant register values during a linear walk.
type RegisterState struct {
	known   uint32 // bit n set when rn holds a known value
	values  [32]uint32
	sources [32]uint32 // VA where each register was last set
}

// NewRegisterState creates a state with every register unknown.
func NewRegisterState() *RegisterState {
	return &RegisterState{}
}

// Value returns the tracked value of register r.
func (s *RegisterState) Value(r int) (uint32, bool) {
	if r < 0 || r > 31 || s.known&(1<<r) == 0 {
		return 0, false
	}
	return s.values[r], true
}

// Source returns the VA of the instruction that set register r.
func (s *RegisterState) Source(r int) (uint32, bool) {
	if _, ok := s.Value(r); !ok {
		return 0, false
	}
	return s.sources[r], true
}

func (s *RegisterState) set(r int, v, va uint32) {
	s.known |= 1 << r
	s.values[r] = v
	s.sources[r] = va
}

func (s *RegisterState) forget(r int) {
	s.known &^= 1 << r
}

// Step applies the effect of in on the tracked registers.
func (s *RegisterState) Step(in jrisc.Instruction) {
	dst := in.Dst.Reg()
	switch in.Op {
	case jrisc.OpMovei:
		s.set(dst, in.Imm, in.Addr)
	case jrisc.OpMoveq:
		s.set(dst, uint32(in.Src.Value()), in.Addr)
	case jrisc.OpMove:
		if v, ok := s.Value(in.Src.Reg()); ok {
			s.set(dst, v, in.Addr)
		} else {
			s.forget(dst)
		}
	case jrisc.OpAddq, jrisc.OpAddqt:
		s.apply(in, func(v uint32) uint32 { return v + uint32(in.Src.Value()) })
	case jrisc.OpSubq, jrisc.OpSubqt:
		s.apply(in, func(v uint32) uint32 { return v - uint32(in.Src.Value()) })
	case jrisc.OpAdd, jrisc.OpSub, jrisc.OpOr:
		a, aok := s.Value(in.Src.Reg())
		b, bok := s.Value(dst)
		if !aok || !bok {
			s.forget(dst)
			return
		}
		switch in.Op {
		case jrisc.OpAdd:
			s.set(dst, b+a, in.Addr)
		case jrisc.OpSub:
			s.set(dst, b-a, in.Addr)
		default:
			s.set(dst, b|a, in.Addr)
		}
	default:
		if in.WritesDst() {
			s.forget(dst)
		}
	}
}

func (s *RegisterState) apply(in jrisc.Instruction, f func(uint32) uint32) {
	dst := in.Dst.Reg()
	if v, ok := s.Value(dst); ok {
		s.set(dst, f(v), in.Addr)
		return
	}
	s.forget(dst)
}

// forgetWritten drops every register written by an instruction whose
// address lies in [lo, hi].
func (s *RegisterState) forgetWritten(insts []jrisc.Instruction, lo, hi uint32) {
	for _, in := range insts {
		if in.Addr >= lo && in.Addr <= hi && in.WritesDst() {
			s.forget(in.Dst.Reg())
		}
	}
}
