// Package analysis annotates a decoded JRISC listing. It places labels on
// branch targets and follows constants through registers to name the
// hardware registers and local RAM addresses that loads, stores and
// jumps refer to.
package analysis

import (
	"fmt"
	"log/slog"
	"slices"

	"jdis/internal/disasm"
	"jdis/internal/jrisc"
)

// Access says how an instruction used an address.
type Access uint8

const (
	AccessConst Access = iota // loaded by movei
	AccessLoad
	AccessStore
	AccessJump
)

func (a Access) String() string {
	switch a {
	case AccessLoad:
		return "load"
	case AccessStore:
		return "store"
	case AccessJump:
		return "jump"
	default:
		return "const"
	}
}

// Ref is an address an instruction refers to.
type Ref struct {
	VA     uint32 // instruction address
	Addr   uint32 // referenced address
	Name   string // register name, label or RAM offset; empty when unknown
	Access Access
}

// Result is the annotated listing plus what the walk found.
type Result struct {
	Listing disasm.Stream
	Labels  map[uint32]string
	Refs    []Ref
}

// LabelName is the label given to a branch target.
func LabelName(addr uint32) string {
	return fmt.Sprintf("loc_%x", addr)
}

// indexedScale is the byte stride of the (r14+n) and (r15+n) forms.
const indexedScale = 4

// Annotate labels and comments a decoded sequence. insts must be in
// address order, as the decoder yields them.
func Annotate(insts []jrisc.Instruction) *Result {
	res := &Result{
		Listing: make(disasm.Stream, 0, len(insts)),
		Labels:  make(map[uint32]string),
	}

	starts := make(map[uint32]bool, len(insts))
	for _, in := range insts {
		starts[in.Addr] = true
	}

	// First pass: jr edges, then jumps through registers resolved with the
	// same forgetting at jr labels that the second pass applies.
	edges := make(map[uint32][]uint32)
	for _, in := range insts {
		if in.Op != jrisc.OpJr {
			continue
		}
		if t, ok := in.Target(); ok && starts[t] {
			edges[t] = append(edges[t], in.Addr)
		}
	}
	for t, sources := range jumpEdges(insts, starts, edges) {
		edges[t] = append(edges[t], sources...)
	}
	for t := range edges {
		res.Labels[t] = LabelName(t)
	}

	// Second pass: annotate.
	state := NewRegisterState()
	prevBranch := false
	for _, in := range insts {
		ai := disasm.FromJRISC(in)
		if name, ok := res.Labels[in.Addr]; ok {
			ai.Label = name
			lo, hi := joinRange(in.Addr, edges[in.Addr])
			state.forgetWritten(insts, lo, hi)
		}
		if prevBranch {
			ai.Annotations = append(ai.Annotations, "delay slot")
		}
		res.annotate(&ai, in, state)
		state.Step(in)
		prevBranch = in.IsBranch()
		res.Listing = append(res.Listing, ai)
	}

	slog.Debug("Annotated listing", "instructions", len(insts), "labels", len(res.Labels), "refs", len(res.Refs))
	return res
}

// SortedLabels returns the labelled addresses in ascending order.
func (r *Result) SortedLabels() []uint32 {
	addrs := make([]uint32, 0, len(r.Labels))
	for a := range r.Labels {
		addrs = append(addrs, a)
	}
	slices.Sort(addrs)
	return addrs
}

// jumpEdges resolves jumps through a register into the buffer. A jump whose
// register is written between its target and itself gets no edge; the
// second pass forgets the register at that label.
func jumpEdges(insts []jrisc.Instruction, starts map[uint32]bool, jrEdges map[uint32][]uint32) map[uint32][]uint32 {
	edges := make(map[uint32][]uint32)
	state := NewRegisterState()
	for _, in := range insts {
		if sources, ok := jrEdges[in.Addr]; ok {
			lo, hi := joinRange(in.Addr, sources)
			state.forgetWritten(insts, lo, hi)
		}
		if in.Op == jrisc.OpJump {
			reg := in.Src.Reg()
			t, ok := state.Value(reg)
			if ok && starts[t] && !writesReg(insts, min(t, in.Addr), in.Addr, reg) {
				edges[t] = append(edges[t], in.Addr)
			}
		}
		state.Step(in)
	}
	return edges
}

// writesReg reports whether an instruction in [lo, hi] writes reg.
func writesReg(insts []jrisc.Instruction, lo, hi uint32, reg int) bool {
	for _, in := range insts {
		if in.Addr >= lo && in.Addr <= hi && in.WritesDst() && in.Dst.Reg() == reg {
			return true
		}
	}
	return false
}

// joinRange spans a label and every branch into it. Registers written
// inside the span may hold different values on different paths.
func joinRange(label uint32, sources []uint32) (uint32, uint32) {
	lo, hi := label, label
	for _, s := range sources {
		lo = min(lo, s)
		hi = max(hi, s)
	}
	return lo, hi
}

func (r *Result) annotate(ai *disasm.Inst, in jrisc.Instruction, state *RegisterState) {
	switch in.Op {
	case jrisc.OpMovei:
		if name, ok := r.describe(in.Imm); ok {
			ai.Annotations = append(ai.Annotations, name)
			r.Refs = append(r.Refs, Ref{VA: in.Addr, Addr: in.Imm, Name: name, Access: AccessConst})
		}

	case jrisc.OpLoadb, jrisc.OpLoadw, jrisc.OpLoad, jrisc.OpLoadp:
		if addr, ok := state.Value(in.Src.Reg()); ok {
			r.access(ai, in.Addr, addr, AccessLoad)
		}

	case jrisc.OpStoreb, jrisc.OpStorew, jrisc.OpStore, jrisc.OpStorep:
		if addr, ok := state.Value(in.Src.Reg()); ok {
			r.access(ai, in.Addr, addr, AccessStore)
		}

	case jrisc.OpLoadr14n, jrisc.OpLoadr15n, jrisc.OpStorer14n, jrisc.OpStorer15n:
		if base, ok := state.Value(indexBase(in.Op)); ok {
			r.access(ai, in.Addr, base+uint32(indexedScale*in.Src.Unsigned()), indexedAccess(in.Op))
		}

	case jrisc.OpLoadr14r, jrisc.OpLoadr15r, jrisc.OpStorer14r, jrisc.OpStorer15r:
		base, bok := state.Value(indexBase(in.Op))
		off, ook := state.Value(in.Src.Reg())
		if bok && ook {
			r.access(ai, in.Addr, base+off, indexedAccess(in.Op))
		}

	case jrisc.OpJump:
		if addr, ok := state.Value(in.Src.Reg()); ok {
			name := r.name(addr)
			ai.Annotations = append(ai.Annotations, "-> "+name)
			r.Refs = append(r.Refs, Ref{VA: in.Addr, Addr: addr, Name: r.known(addr), Access: AccessJump})
		}

	case jrisc.OpJr:
		if t, ok := in.Target(); ok {
			if label, ok := r.Labels[t]; ok {
				ai.Annotations = append(ai.Annotations, "-> "+label)
			}
		}
	}
}

func (r *Result) access(ai *disasm.Inst, va, addr uint32, acc Access) {
	ai.Annotations = append(ai.Annotations, r.name(addr))
	r.Refs = append(r.Refs, Ref{VA: va, Addr: addr, Name: r.known(addr), Access: acc})
}

// describe names addr as a label, hardware register or RAM offset.
func (r *Result) describe(addr uint32) (string, bool) {
	if label, ok := r.Labels[addr]; ok {
		return label, true
	}
	return DescribeAddress(addr)
}

func (r *Result) known(addr uint32) string {
	name, _ := r.describe(addr)
	return name
}

// name is describe with a $hex fallback.
func (r *Result) name(addr uint32) string {
	if name, ok := r.describe(addr); ok {
		return name
	}
	return fmt.Sprintf("$%x", addr)
}

func indexBase(op jrisc.Op) int {
	switch op {
	case jrisc.OpLoadr15n, jrisc.OpLoadr15r, jrisc.OpStorer15n, jrisc.OpStorer15r:
		return 15
	default:
		return 14
	}
}

func indexedAccess(op jrisc.Op) Access {
	switch op {
	case jrisc.OpStorer14n, jrisc.OpStorer15n, jrisc.OpStorer14r, jrisc.OpStorer15r:
		return AccessStore
	default:
		return AccessLoad
	}
}
