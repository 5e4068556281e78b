package analysis

import "fmt"

// Finding is a notable use of the hardware recognized by a detector.
type Finding struct {
	VA     uint32 // instruction address
	Kind   string
	Detail string
}

func (f Finding) String() string {
	return fmt.Sprintf("$%x: %s", f.VA, f.Detail)
}

// Detector interface for pattern detection on address references
type Detector interface {
	// Detect inspects refs and returns findings with its own appended.
	// It may also rewrite findings added by earlier detectors.
	Detect(refs []Ref, findings []Finding) []Finding
}

// DetectorChain runs multiple detectors in sequence
type DetectorChain struct {
	detectors []Detector
}

// NewDetectorChain creates a new detector chain
func NewDetectorChain(detectors ...Detector) *DetectorChain {
	return &DetectorChain{
		detectors: detectors,
	}
}

// Detect runs all detectors in sequence
func (dc *DetectorChain) Detect(refs []Ref) []Finding {
	var result []Finding
	for _, detector := range dc.detectors {
		result = detector.Detect(refs, result)
	}
	return result
}
