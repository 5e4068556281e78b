// Package detectors recognizes common uses of the Jaguar hardware in an
// annotated listing: starting and stopping the processors, kicking off the
// blitter, feeding the DAC and leaving local RAM.
package detectors

import (
	"fmt"

	"jdis/internal/analysis"
)

// Finding kinds.
const (
	KindControl   = "control"
	KindBlitter   = "blitter"
	KindAudio     = "audio"
	KindVideo     = "video"
	KindInterrupt = "interrupt"
	KindExternal  = "external"
)

// rule describes what a store to one register means.
type rule struct {
	kind   string
	detail string
}

var storeRules = map[string]rule{
	"G_CTRL":   {KindControl, "writes GPU control (G_CTRL)"},
	"G_PC":     {KindControl, "sets GPU program counter (G_PC)"},
	"G_FLAGS":  {KindInterrupt, "writes GPU flags (G_FLAGS)"},
	"G_END":    {KindControl, "sets GPU data organization (G_END)"},
	"D_CTRL":   {KindControl, "writes DSP control (D_CTRL)"},
	"D_PC":     {KindControl, "sets DSP program counter (D_PC)"},
	"D_FLAGS":  {KindInterrupt, "writes DSP flags (D_FLAGS)"},
	"D_END":    {KindControl, "sets DSP data organization (D_END)"},
	"B_CMD":    {KindBlitter, "starts blitter (B_CMD)"},
	"LTXD":     {KindAudio, "writes left DAC sample (LTXD)"},
	"RTXD":     {KindAudio, "writes right DAC sample (RTXD)"},
	"SCLK":     {KindAudio, "sets serial clock (SCLK)"},
	"SMODE":    {KindAudio, "sets serial mode (SMODE)"},
	"OLP":      {KindVideo, "sets object list pointer (OLP)"},
	"VMODE":    {KindVideo, "sets video mode (VMODE)"},
	"INT1":     {KindInterrupt, "writes CPU interrupt control (INT1)"},
	"JINTCTRL": {KindInterrupt, "writes Jerry interrupt control (JINTCTRL)"},
}

// StoreDetector reports stores to control registers.
type StoreDetector struct{}

// NewStoreDetector creates a new store detector.
func NewStoreDetector() *StoreDetector {
	return &StoreDetector{}
}

func (d *StoreDetector) Detect(refs []analysis.Ref, findings []analysis.Finding) []analysis.Finding {
	for _, ref := range refs {
		if ref.Access != analysis.AccessStore {
			continue
		}
		if r, ok := storeRules[ref.Name]; ok {
			findings = append(findings, analysis.Finding{VA: ref.VA, Kind: r.kind, Detail: r.detail})
		}
	}
	return findings
}

// JumpDetector reports jumps through a register to code outside local RAM,
// which a GPU or DSP program does when it runs from main memory.
type JumpDetector struct{}

// NewJumpDetector creates a new jump detector.
func NewJumpDetector() *JumpDetector {
	return &JumpDetector{}
}

func (d *JumpDetector) Detect(refs []analysis.Ref, findings []analysis.Finding) []analysis.Finding {
	for _, ref := range refs {
		if ref.Access != analysis.AccessJump || analysis.InLocalRAM(ref.Addr) {
			continue
		}
		detail := fmt.Sprintf("jumps outside local RAM to $%x", ref.Addr)
		if analysis.IsHardware(ref.Addr) {
			detail = fmt.Sprintf("jumps into register space at $%x", ref.Addr)
		}
		findings = append(findings, analysis.Finding{VA: ref.VA, Kind: KindExternal, Detail: detail})
	}
	return findings
}

// NewChain returns the detectors jdis runs on an annotated listing.
func NewChain() *analysis.DetectorChain {
	return analysis.NewDetectorChain(NewStoreDetector(), NewJumpDetector())
}
