package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"jdis/internal/analysis"
	"jdis/internal/detectors"
	"jdis/internal/disasm"
	"jdis/internal/jrisc"
	"jdis/internal/ui/colorize"
)

// listing is a decoded stream and, when annotated, what the detectors
// recognized in it.
type listing struct {
	stream   disasm.Stream
	findings []analysis.Finding
}

// disassemble decodes code at opts.origin(). On truncated input the
// stream holds everything before the bad instruction and the error is
// returned alongside it.
func disassemble(code []byte, opts options) (listing, error) {
	dec, err := opts.decoder()
	if err != nil {
		return listing{}, err
	}
	insts, decodeErr := dec.All(code, opts.origin())
	if !opts.annotate {
		return listing{stream: disasm.FromJRISCAll(insts)}, decodeErr
	}
	res := analysis.Annotate(insts)
	return listing{
		stream:   res.Listing,
		findings: detectors.NewChain().Detect(res.Refs),
	}, decodeErr
}

// renderLines formats the listing, colorized when opts.color is set.
// Findings follow the instructions as comment lines.
func renderLines(l listing, opts options) []string {
	lines := l.stream.Lines(opts.flags())
	if len(l.findings) > 0 {
		lines = append(lines, "")
		for _, f := range l.findings {
			lines = append(lines, "; "+f.String())
		}
	}
	if opts.color && colorize.Enabled() {
		for i, line := range lines {
			lines[i] = colorize.Line(line)
		}
	}
	return lines
}

func writeListing(w io.Writer, l listing, opts options) error {
	for _, line := range renderLines(l, opts) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// JSONOutput is the machine readable listing.
type JSONOutput struct {
	Mode         string            `json:"mode"`
	Base         string            `json:"base"`
	Instructions []JSONInstruction `json:"instructions"`
	Findings     []JSONFinding     `json:"findings,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// JSONInstruction is one listing line in JSON output.
type JSONInstruction struct {
	Address     string   `json:"address"`
	Bytes       string   `json:"bytes,omitempty"`
	Mnemonic    string   `json:"mnemonic"`
	Operands    string   `json:"operands,omitempty"`
	Text        string   `json:"text"`
	Label       string   `json:"label,omitempty"`
	Annotations []string `json:"annotations,omitempty"`
}

// JSONFinding is a detector finding in JSON output.
type JSONFinding struct {
	Address string `json:"address"`
	Kind    string `json:"kind"`
	Detail  string `json:"detail"`
}

// sanitizeForJSON cleans a string to be valid UTF-8 and safe for JSON encoding
func sanitizeForJSON(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}

func newJSONOutput(l listing, opts options, decodeErr error) JSONOutput {
	out := JSONOutput{
		Mode:         opts.mode.String(),
		Base:         fmt.Sprintf("$%x", opts.origin()),
		Instructions: make([]JSONInstruction, 0, len(l.stream)),
	}
	for _, in := range l.stream {
		out.Instructions = append(out.Instructions, JSONInstruction{
			Address:     fmt.Sprintf("$%x", in.VA),
			Bytes:       disasm.MachineCode(in.Raw),
			Mnemonic:    in.Op,
			Operands:    in.Args,
			Text:        in.Text(),
			Label:       in.Label,
			Annotations: in.Annotations,
		})
	}
	for _, f := range l.findings {
		out.Findings = append(out.Findings, JSONFinding{
			Address: fmt.Sprintf("$%x", f.VA),
			Kind:    f.Kind,
			Detail:  f.Detail,
		})
	}
	if decodeErr != nil {
		out.Error = sanitizeForJSON(decodeErr.Error())
	}
	return out
}

func writeJSON(w io.Writer, l listing, opts options, decodeErr error) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newJSONOutput(l, opts, decodeErr))
}

// emit writes a listing as text or JSON. A decode error is reported after
// the listing so the caller still sees the valid prefix.
func emit(w io.Writer, code []byte, opts options, asJSON bool) error {
	if asJSON {
		opts.machineCode = true
		opts.color = false
	}
	l, decodeErr := disassemble(code, opts)
	if asJSON {
		if err := writeJSON(w, l, opts, decodeErr); err != nil {
			return err
		}
	} else if err := writeListing(w, l, opts); err != nil {
		return err
	}
	return decodeErr
}

// modeName is the display name used in headers.
func modeName(m jrisc.Mode) string {
	return strings.ToUpper(m.String())
}
