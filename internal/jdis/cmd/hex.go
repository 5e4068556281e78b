package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"jdis/internal/binfile"
)

func newHexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hex [bytes...]",
		Short: "Disassemble bytes given as hex",
		Long: `Disassemble instruction bytes typed on the command line or piped on
standard input. Bytes may be spaced, packed, comma separated, $ or 0x
prefixed, or written as \x escapes.`,
		Example: `
# The register setup sequence
jdis hex 981f 05bc 0000 bfe0 089f a7e0

# DSP code with absolute branches
echo 'd7c0 e400' | jdis hex --dsp -A
  `,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd)
			if err != nil {
				return err
			}

			input := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				input = string(data)
			}

			code, err := binfile.ParseHex(input)
			if err != nil {
				return err
			}

			if !isTerminal(cmd.OutOrStdout()) {
				opts.color = false
			}
			jsonOutput, _ := cmd.Flags().GetBool("json")
			return emit(cmd.OutOrStdout(), code, opts, jsonOutput)
		},
	}
}
