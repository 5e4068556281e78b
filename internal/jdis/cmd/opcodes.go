package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jdis/internal/jdis/styles"
	"jdis/internal/jrisc"
)

func newOpcodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opcodes",
		Short: "Show the opcode map of the GPU or DSP",
		Example: `
# GPU opcode map
jdis opcodes

# DSP opcode map as plain markdown
jdis opcodes --dsp --raw
  `,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd)
			if err != nil {
				return err
			}
			doc := opcodeMarkdown(opts.mode)

			raw, _ := cmd.Flags().GetBool("raw")
			if raw || !isTerminal(cmd.OutOrStdout()) {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}

			width, _ := cmd.Flags().GetInt("width")
			renderer, err := styles.GetMarkdownRenderer(width)
			if err != nil {
				return fmt.Errorf("markdown renderer: %w", err)
			}
			rendered, err := renderer.Render(doc)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().Bool("raw", false, "Print markdown without rendering")
	cmd.Flags().Int("width", 100, "Word wrap width")
	return cmd
}

// opcodeMarkdown documents every defined opcode of mode as a markdown table.
func opcodeMarkdown(mode jrisc.Mode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s opcodes\n\n", modeName(mode))
	fmt.Fprintf(&b, "Local RAM starts at `$%x`. Slots not listed decode as `dc.w`.\n\n", mode.DefaultBase())
	b.WriteString("| Opcode | Operation | Source | Destination | Words |\n")
	b.WriteString("|---:|---|---|---|---:|\n")
	for _, e := range jrisc.Opcodes(mode) {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %d |\n",
			e.Opcode, e.Op, operandCell(e.Src), operandCell(e.Dst), e.Words)
	}

	b.WriteString("\n## Conditions\n\n")
	b.WriteString("| Code | Name |\n|---:|---|\n")
	for _, cc := range []uint8{0x00, 0x01, 0x02, 0x04, 0x05, 0x08, 0x14, 0x18} {
		fmt.Fprintf(&b, "| $%02x | %s |\n", cc, jrisc.ConditionName(cc))
	}
	return b.String()
}

func operandCell(k jrisc.OperandKind) string {
	if k == jrisc.KindUnused {
		return ""
	}
	return "`" + k.String() + "`"
}
