package analysis

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"jdis/internal/jrisc"
	"jdis/internal/logging"
)

func w(opcode, src, dst uint8) []byte {
	v := uint16(opcode)<<10 | uint16(src&0x1f)<<5 | uint16(dst&0x1f)
	return []byte{byte(v >> 8), byte(v)}
}

func movei(imm uint32, dst uint8) []byte {
	return append(w(38, 0, dst), byte(imm>>8), byte(imm), byte(imm>>24), byte(imm>>16))
}

func program(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var nop = w(57, 0, 0)

func annotate(t *testing.T, code []byte, base uint32, mode jrisc.Mode) *Result {
	t.Helper()
	insts, err := jrisc.Disassemble(code, base, mode)
	if err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}
	return Annotate(insts)
}

func TestAnnotateRegisterSetup(t *testing.T) {
	regset := []byte{
		0x98, 0x1f, 0x05, 0xbc, 0x00, 0x00, 0xbf, 0xe0, 0x08, 0x9f, 0xa7,
		0xe0, 0x98, 0x1f, 0x21, 0x14, 0x00, 0xf0, 0x8c, 0x1e, 0xbf, 0xfe,
		0xd7, 0xc0, 0xe4, 0x00, 0xe4, 0x00,
	}
	res := annotate(t, regset, 0, jrisc.GPU)

	want := [][]string{
		nil,
		{"$5bc"},
		nil,
		{"$5c0"},
		{"G_CTRL"},
		nil,
		{"G_CTRL"},
		{"-> loc_14"},
		{"delay slot"},
		nil,
	}
	if len(res.Listing) != len(want) {
		t.Fatalf("got %d instructions, want %d", len(res.Listing), len(want))
	}
	for i, ai := range res.Listing {
		if !reflect.DeepEqual(ai.Annotations, want[i]) {
			t.Errorf("inst %d (%s): annotations = %q, want %q", i, ai.Text(), ai.Annotations, want[i])
		}
	}

	if got := res.Listing[6].Label; got != "loc_14" {
		t.Errorf("label = %q, want loc_14", got)
	}
	if !reflect.DeepEqual(res.Labels, map[uint32]string{0x14: "loc_14"}) {
		t.Errorf("Labels = %v", res.Labels)
	}

	wantRefs := []Ref{
		{VA: 6, Addr: 0x5bc, Access: AccessStore},
		{VA: 10, Addr: 0x5c0, Access: AccessLoad},
		{VA: 12, Addr: 0xf02114, Name: "G_CTRL", Access: AccessConst},
		{VA: 20, Addr: 0xf02114, Name: "G_CTRL", Access: AccessStore},
	}
	if !reflect.DeepEqual(res.Refs, wantRefs) {
		t.Errorf("Refs = %+v, want %+v", res.Refs, wantRefs)
	}
}

func TestAnnotateJumpThroughRegister(t *testing.T) {
	code := program(
		movei(0xf03010, 2), // f03000
		w(52, 2, 0),        // f03006 jump T, (r2)
		nop,                // f03008
		nop, nop, nop,      // f0300a..f0300e
		nop, // f03010
	)
	res := annotate(t, code, jrisc.GPURAM, jrisc.GPU)

	if got := res.Labels[0xf03010]; got != "loc_f03010" {
		t.Fatalf("label = %q, want loc_f03010", got)
	}

	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{"movei names the label", 0, []string{"loc_f03010"}},
		{"jump target", 1, []string{"-> loc_f03010"}},
		{"delay slot", 2, []string{"delay slot"}},
		{"plain nop", 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := res.Listing[tt.index].Annotations; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("annotations = %q, want %q", got, tt.want)
			}
		})
	}
	if res.Listing[6].Label != "loc_f03010" {
		t.Errorf("label not attached to target instruction")
	}
}

func TestAnnotateJumpOutsideBuffer(t *testing.T) {
	code := program(
		movei(0xf1b200, 4),
		w(52, 4, 0),
		nop,
	)
	res := annotate(t, code, jrisc.GPURAM, jrisc.GPU)

	if len(res.Labels) != 0 {
		t.Errorf("Labels = %v, want none", res.Labels)
	}
	want := []string{"-> D_RAM+$200"}
	if got := res.Listing[1].Annotations; !reflect.DeepEqual(got, want) {
		t.Errorf("annotations = %q, want %q", got, want)
	}
}

func TestAnnotateIndexed(t *testing.T) {
	tests := []struct {
		name   string
		code   []byte
		index  int
		want   string
		access Access
	}{
		{
			name:   "r14 plus scaled immediate",
			code:   program(movei(0xf02100, 14), w(43, 5, 3)),
			index:  1,
			want:   "G_CTRL",
			access: AccessLoad,
		},
		{
			name:   "r15 plus register",
			code:   program(movei(0xf1a100, 15), w(35, 20, 1), w(61, 1, 2)),
			index:  2,
			want:   "D_CTRL",
			access: AccessStore,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := annotate(t, tt.code, 0, jrisc.DSP)
			got := res.Listing[tt.index].Annotations
			if len(got) != 1 || got[0] != tt.want {
				t.Fatalf("annotations = %q, want [%s]", got, tt.want)
			}
			last := res.Refs[len(res.Refs)-1]
			if last.Access != tt.access || last.Name != tt.want {
				t.Errorf("ref = %+v", last)
			}
		})
	}
}

func TestAnnotateLoopForgetsWrittenRegisters(t *testing.T) {
	code := program(
		movei(0xf02114, 1), // 0
		w(47, 1, 0),        // 6 store r0, (r1)
		w(2, 4, 1),         // 8 addq #4, r1
		w(53, 0x1d, 0),     // 10 jr T, back to 6
		nop,                // 12
	)
	res := annotate(t, code, 0, jrisc.GPU)

	store := res.Listing[1]
	if store.Label != "loc_6" {
		t.Fatalf("label = %q, want loc_6", store.Label)
	}
	if len(store.Annotations) != 0 {
		t.Errorf("store inside loop annotated %q; r1 changes on the back edge", store.Annotations)
	}
	if got := res.Listing[3].Annotations; !reflect.DeepEqual(got, []string{"-> loc_6"}) {
		t.Errorf("jr annotations = %q", got)
	}
}

func TestAnnotateJumpInsideLoop(t *testing.T) {
	tests := []struct {
		name   string
		code   []byte
		labels map[uint32]string
		jump   []string
	}{
		{
			name: "register changes on the back edge",
			code: program(
				movei(0xc, 2),  // 0
				nop,            // 6 loop head
				w(52, 2, 0),    // 8 jump T, (r2)
				w(2, 2, 2),     // 10 addq #2, r2
				nop,            // 12
				w(53, 0x1b, 0), // 14 jr T, back to 6
				nop,            // 16
			),
			labels: map[uint32]string{0x6: "loc_6"},
			jump:   nil,
		},
		{
			name: "register stable across the loop",
			code: program(
				movei(0x6, 3), // 0
				nop,           // 6
				w(52, 3, 0),   // 8 jump T, (r3)
				nop,           // 10
			),
			labels: map[uint32]string{0x6: "loc_6"},
			jump:   []string{"-> loc_6"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := annotate(t, tt.code, 0, jrisc.GPU)
			if !reflect.DeepEqual(res.Labels, tt.labels) {
				t.Errorf("Labels = %v, want %v", res.Labels, tt.labels)
			}
			if got := res.Listing[2].Annotations; !reflect.DeepEqual(got, tt.jump) {
				t.Errorf("jump annotations = %q, want %q", got, tt.jump)
			}
		})
	}
}

func TestAnnotateDebugLoggingKeepsNoFiles(t *testing.T) {
	if _, err := os.ReadDir("/proc/self/fd"); err != nil {
		t.Skip("no /proc/self/fd")
	}
	t.Chdir(t.TempDir())
	t.Setenv(logging.EnvLevel, "debug")
	t.Setenv(logging.EnvToFile, "1")

	insts, err := jrisc.Disassemble(program(movei(0xf02114, 1), w(47, 1, 0)), 0, jrisc.GPU)
	if err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}
	Annotate(insts)

	before, _ := os.ReadDir("/proc/self/fd")
	for range 50 {
		Annotate(insts)
	}
	after, _ := os.ReadDir("/proc/self/fd")

	if len(after) > len(before) {
		t.Errorf("open files grew from %d to %d", len(before), len(after))
	}
	if logs, _ := filepath.Glob("jdis-*-debug.log"); len(logs) != 0 {
		t.Errorf("Annotate created log files: %v", logs)
	}
}

func TestAnnotateEmpty(t *testing.T) {
	res := Annotate(nil)
	if len(res.Listing) != 0 || len(res.Labels) != 0 || len(res.Refs) != 0 {
		t.Errorf("Annotate(nil) = %+v", res)
	}
}

func TestSortedLabels(t *testing.T) {
	r := &Result{Labels: map[uint32]string{0x20: "loc_20", 0x4: "loc_4", 0x10: "loc_10"}}
	want := []uint32{0x4, 0x10, 0x20}
	if got := r.SortedLabels(); !reflect.DeepEqual(got, want) {
		t.Errorf("SortedLabels() = %v, want %v", got, want)
	}
}
