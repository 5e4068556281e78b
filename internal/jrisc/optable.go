package jrisc

// Op names a JRISC operation independently of its opcode number, which
// differs between the GPU and DSP for a few slots.
type Op uint8

const (
	OpIllegal Op = iota
	OpAdd
	OpAddc
	OpAddq
	OpAddqt
	OpSub
	OpSubc
	OpSubq
	OpSubqt
	OpNeg
	OpAnd
	OpOr
	OpXor
	OpNot
	OpBtst
	OpBset
	OpBclr
	OpMult
	OpImult
	OpImultn
	OpResmac
	OpImacn
	OpDiv
	OpAbs
	OpSh
	OpShlq
	OpShrq
	OpSha
	OpSharq
	OpRor
	OpRorq
	OpCmp
	OpCmpq
	OpSat8
	OpSubqmod
	OpSat16
	OpSat16s
	OpMove
	OpMoveq
	OpMoveta
	OpMovefa
	OpMovei
	OpLoadb
	OpLoadw
	OpLoad
	OpLoadp
	OpSat32s
	OpLoadr14n
	OpLoadr15n
	OpStoreb
	OpStorew
	OpStore
	OpStorep
	OpMirror
	OpStorer14n
	OpStorer15n
	OpMovepc
	OpJump
	OpJr
	OpMmult
	OpMtoi
	OpNormi
	OpNop
	OpLoadr14r
	OpLoadr15r
	OpStorer14r
	OpStorer15r
	OpSat24
	OpPack
	OpUnpack
	OpAddqmod

	numOps
)

var opNames = [numOps]string{
	OpIllegal:   "dc.w",
	OpAdd:       "add",
	OpAddc:      "addc",
	OpAddq:      "addq",
	OpAddqt:     "addqt",
	OpSub:       "sub",
	OpSubc:      "subc",
	OpSubq:      "subq",
	OpSubqt:     "subqt",
	OpNeg:       "neg",
	OpAnd:       "and",
	OpOr:        "or",
	OpXor:       "xor",
	OpNot:       "not",
	OpBtst:      "btst",
	OpBset:      "bset",
	OpBclr:      "bclr",
	OpMult:      "mult",
	OpImult:     "imult",
	OpImultn:    "imultn",
	OpResmac:    "resmac",
	OpImacn:     "imacn",
	OpDiv:       "div",
	OpAbs:       "abs",
	OpSh:        "sh",
	OpShlq:      "shlq",
	OpShrq:      "shrq",
	OpSha:       "sha",
	OpSharq:     "sharq",
	OpRor:       "ror",
	OpRorq:      "rorq",
	OpCmp:       "cmp",
	OpCmpq:      "cmpq",
	OpSat8:      "sat8",
	OpSubqmod:   "subqmod",
	OpSat16:     "sat16",
	OpSat16s:    "sat16s",
	OpMove:      "move",
	OpMoveq:     "moveq",
	OpMoveta:    "moveta",
	OpMovefa:    "movefa",
	OpMovei:     "movei",
	OpLoadb:     "loadb",
	OpLoadw:     "loadw",
	OpLoad:      "load",
	OpLoadp:     "loadp",
	OpSat32s:    "sat32s",
	OpLoadr14n:  "loadr14n",
	OpLoadr15n:  "loadr15n",
	OpStoreb:    "storeb",
	OpStorew:    "storew",
	OpStore:     "store",
	OpStorep:    "storep",
	OpMirror:    "mirror",
	OpStorer14n: "storer14n",
	OpStorer15n: "storer15n",
	OpMovepc:    "movepc",
	OpJump:      "jump",
	OpJr:        "jr",
	OpMmult:     "mmult",
	OpMtoi:      "mtoi",
	OpNormi:     "normi",
	OpNop:       "nop",
	OpLoadr14r:  "loadr14r",
	OpLoadr15r:  "loadr15r",
	OpStorer14r: "storer14r",
	OpStorer15r: "storer15r",
	OpSat24:     "sat24",
	OpPack:      "pack",
	OpUnpack:    "unpack",
	OpAddqmod:   "addqmod",
}

// String returns the table name of the operation. The r14/r15 indexed forms
// keep their distinct names here; Mnemonic gives the assembler spelling.
func (op Op) String() string {
	if op < numOps {
		return opNames[op]
	}
	return opNames[OpIllegal]
}

// Mnemonic returns the name an assembler expects for op.
func (op Op) Mnemonic() string {
	switch op {
	case OpLoadr14n, OpLoadr15n, OpLoadr14r, OpLoadr15r:
		return "load"
	case OpStorer14n, OpStorer15n, OpStorer14r, OpStorer15r:
		return "store"
	case OpMovepc:
		return "move"
	default:
		return op.String()
	}
}

// baseReg is the implicit index register of the r14/r15 addressing forms.
func (op Op) baseReg() string {
	switch op {
	case OpLoadr14n, OpLoadr14r, OpStorer14n, OpStorer14r:
		return "r14"
	case OpLoadr15n, OpLoadr15r, OpStorer15n, OpStorer15r:
		return "r15"
	default:
		return ""
	}
}

// NumOpcodes is the number of slots addressed by the 6-bit opcode field.
const NumOpcodes = 64

// slot is one opcode table entry. The zero slot is a reserved opcode.
// swap marks the forms whose destination field is printed first (stores,
// jumps), so that they read like the matching load.
type slot struct {
	op   Op
	src  OperandKind
	dst  OperandKind
	swap bool
}

type table [NumOpcodes]slot

// common holds the slots shared by both processors.
var common = table{
	0:  {OpAdd, KindReg, KindReg, false},
	1:  {OpAddc, KindReg, KindReg, false},
	2:  {OpAddq, KindUImm, KindReg, false},
	3:  {OpAddqt, KindUImm, KindReg, false},
	4:  {OpSub, KindReg, KindReg, false},
	5:  {OpSubc, KindReg, KindReg, false},
	6:  {OpSubq, KindUImm, KindReg, false},
	7:  {OpSubqt, KindUImm, KindReg, false},
	8:  {OpNeg, KindUnused, KindReg, false},
	9:  {OpAnd, KindReg, KindReg, false},
	10: {OpOr, KindReg, KindReg, false},
	11: {OpXor, KindReg, KindReg, false},
	12: {OpNot, KindUnused, KindReg, false},
	13: {OpBtst, KindZUImm, KindReg, false},
	14: {OpBset, KindZUImm, KindReg, false},
	15: {OpBclr, KindZUImm, KindReg, false},
	16: {OpMult, KindReg, KindReg, false},
	17: {OpImult, KindReg, KindReg, false},
	18: {OpImultn, KindReg, KindReg, false},
	19: {OpResmac, KindUnused, KindReg, false},
	20: {OpImacn, KindReg, KindReg, false},
	21: {OpDiv, KindReg, KindReg, false},
	22: {OpAbs, KindUnused, KindReg, false},
	23: {OpSh, KindReg, KindReg, false},
	24: {OpShlq, KindShlImm, KindReg, false},
	25: {OpShrq, KindUImm, KindReg, false},
	26: {OpSha, KindReg, KindReg, false},
	27: {OpSharq, KindUImm, KindReg, false},
	28: {OpRor, KindReg, KindReg, false},
	29: {OpRorq, KindUImm, KindReg, false},
	30: {OpCmp, KindReg, KindReg, false},
	31: {OpCmpq, KindSImm, KindReg, false},
	34: {OpMove, KindReg, KindReg, false},
	35: {OpMoveq, KindZUImm, KindReg, false},
	36: {OpMoveta, KindReg, KindReg, false},
	37: {OpMovefa, KindReg, KindReg, false},
	38: {OpMovei, KindUnused, KindReg, false},
	39: {OpLoadb, KindIndirect, KindReg, false},
	40: {OpLoadw, KindIndirect, KindReg, false},
	41: {OpLoad, KindIndirect, KindReg, false},
	43: {OpLoadr14n, KindUImm, KindReg, false},
	44: {OpLoadr15n, KindUImm, KindReg, false},
	45: {OpStoreb, KindIndirect, KindReg, true},
	46: {OpStorew, KindIndirect, KindReg, true},
	47: {OpStore, KindIndirect, KindReg, true},
	49: {OpStorer14n, KindUImm, KindReg, true},
	50: {OpStorer15n, KindUImm, KindReg, true},
	51: {OpMovepc, KindUnused, KindReg, false},
	52: {OpJump, KindIndirect, KindCondition, true},
	53: {OpJr, KindPCOffset, KindCondition, true},
	54: {OpMmult, KindReg, KindReg, false},
	55: {OpMtoi, KindReg, KindReg, false},
	56: {OpNormi, KindReg, KindReg, false},
	57: {OpNop, KindUnused, KindUnused, false},
	58: {OpLoadr14r, KindReg, KindReg, false},
	59: {OpLoadr15r, KindReg, KindReg, false},
	60: {OpStorer14r, KindReg, KindReg, true},
	61: {OpStorer15r, KindReg, KindReg, true},
}

// GPU slot 63 covers both pack and unpack; the source field picks one.
var gpuTable = common.with(map[uint8]slot{
	32: {OpSat8, KindUnused, KindReg, false},
	33: {OpSat16, KindUnused, KindReg, false},
	42: {OpLoadp, KindIndirect, KindReg, false},
	48: {OpStorep, KindIndirect, KindReg, true},
	62: {OpSat24, KindUnused, KindReg, false},
	63: {OpPack, KindFlag, KindReg, false},
})

// DSP slot 62 is reserved.
var dspTable = common.with(map[uint8]slot{
	32: {OpSubqmod, KindUImm, KindReg, false},
	33: {OpSat16s, KindUnused, KindReg, false},
	42: {OpSat32s, KindUnused, KindReg, false},
	48: {OpMirror, KindUnused, KindReg, false},
	63: {OpAddqmod, KindUImm, KindReg, false},
})

func (t table) with(variants map[uint8]slot) *table {
	for opcode, s := range variants {
		t[opcode] = s
	}
	return &t
}

func tableFor(m Mode) *table {
	if m == DSP {
		return dspTable
	}
	return gpuTable
}

// lookup resolves the slot for a raw word, applying the pack/unpack split.
func (t *table) lookup(opcode, src uint8) slot {
	s := t[opcode&0x3f]
	if s.op == OpPack {
		switch src {
		case 0:
		case 1:
			s.op = OpUnpack
		default:
			return slot{}
		}
	}
	return s
}

// Entry describes one defined operation of a processor.
type Entry struct {
	Opcode uint8
	Op     Op
	Src    OperandKind
	Dst    OperandKind
	Words  int
}

// Opcodes lists every defined operation of m in opcode order. Reserved
// slots are omitted; the GPU's slot 63 yields both pack and unpack.
func Opcodes(m Mode) []Entry {
	t := tableFor(m)
	entries := make([]Entry, 0, NumOpcodes+1)
	for i, s := range t {
		if s.op == OpIllegal {
			continue
		}
		e := Entry{Opcode: uint8(i), Op: s.op, Src: s.src, Dst: s.dst, Words: s.op.words()}
		entries = append(entries, e)
		if s.op == OpPack {
			e.Op = OpUnpack
			entries = append(entries, e)
		}
	}
	return entries
}

// words is the instruction length in 16-bit words. Only the opcode decides
// it, so a decoder never has to look at the following words first.
func (op Op) words() int {
	if op == OpMovei {
		return 3
	}
	return 1
}
