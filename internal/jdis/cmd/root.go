package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"jdis/internal/binfile"
	"jdis/internal/jdis/log"
	"jdis/internal/logging"
	"jdis/internal/ui/colorize"
)

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jdis [file]",
		Short: "Atari Jaguar GPU/DSP disassembler",
		Long: `jdis disassembles code for the Jaguar's RISC processors, the GPU in Tom
and the DSP in Jerry. Input is a raw binary, an ELF object or standard input.`,
		Example: `
# Browse GPU code loaded at the start of GPU RAM
jdis gpu.bin

# DSP code with addresses, machine code and absolute branch targets
jdis --dsp -a -m -A dsp.bin

# Decode 0x200 bytes at offset 0x1000 of a ROM image, loaded at $f03000
jdis -n --offset 0x1000 --length 0x200 --base '$f03000' game.rom
  `,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				os.Setenv(logging.EnvLevel, "debug")
			}
			log.Setup(debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("could not create CPU profile: %v", err)
				}
				defer f.Close()
				if err := pprof.StartCPUProfile(f); err != nil {
					return fmt.Errorf("could not start CPU profile: %v", err)
				}
				defer pprof.StopCPUProfile()
			}

			memprofile, _ := cmd.Flags().GetString("memprofile")
			if memprofile != "" {
				defer func() {
					f, err := os.Create(memprofile)
					if err != nil {
						fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
						return
					}
					defer f.Close()
					if err := pprof.WriteHeapProfile(f); err != nil {
						fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
					}
				}()
			}

			opts, err := resolveOptions(cmd)
			if err != nil {
				return err
			}

			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			bf, err := openInput(cmd, name)
			if err != nil {
				return err
			}
			defer bf.Close()

			code, err := selectCode(cmd, bf, &opts)
			if err != nil {
				return err
			}
			slog.Debug("Decoding", "input", name, "mode", opts.mode, "origin", fmt.Sprintf("$%x", opts.origin()), "bytes", len(code))

			noTUI, _ := cmd.Flags().GetBool("no-tui")
			jsonOutput, _ := cmd.Flags().GetBool("json")

			// Also use no-tui mode when output is being piped
			if !isTerminal(cmd.OutOrStdout()) {
				noTUI = true
				opts.color = false
			}

			if jsonOutput || noTUI {
				return emit(cmd.OutOrStdout(), code, opts, jsonOutput)
			}

			program := tea.NewProgram(
				newModel(name, code, opts),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := program.Run(); err != nil {
				slog.Error("TUI run error", "error", err)
				return fmt.Errorf("TUI error: %v", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().String("config", "", "Settings file (default $JDIS_CONFIG)")
	rootCmd.PersistentFlags().Bool("dsp", false, "Decode for the DSP (Jerry) instead of the GPU (Tom)")
	rootCmd.PersistentFlags().String("base", "", "Address of the first byte, e.g. $f03000 (default: local RAM of the processor)")
	rootCmd.PersistentFlags().BoolP("address", "a", false, "Prefix each line with its address")
	rootCmd.PersistentFlags().BoolP("machine-code", "m", false, "Show the instruction words")
	rootCmd.PersistentFlags().BoolP("absolute", "A", false, "Print jr targets as absolute addresses")
	rootCmd.PersistentFlags().Bool("annotate", false, "Add labels and hardware register comments")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output the listing as JSON")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the listing instead of opening the viewer")
	rootCmd.Flags().String("offset", "0", "Byte offset of the code inside the file or section")
	rootCmd.Flags().String("length", "", "Number of bytes to decode (default: to the end)")
	rootCmd.Flags().String("section", "", "ELF section to decode (default .text for ELF input)")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")

	rootCmd.AddCommand(newHexCmd(), newFollowCmd(), newOpcodesCmd(), newSchemaCmd())
	return rootCmd
}

// openInput opens name, or reads standard input for "-".
func openInput(cmd *cobra.Command, name string) (*binfile.File, error) {
	if name != "-" {
		return binfile.Open(name)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return binfile.Load("stdin", data)
}

// selectCode picks the bytes to decode: an ELF section or the whole file,
// narrowed by --offset and --length.
func selectCode(cmd *cobra.Command, bf *binfile.File, opts *options) ([]byte, error) {
	code := bf.All
	section, _ := cmd.Flags().GetString("section")
	if bf.IsELF() || section != "" {
		data, addr, err := bf.Section(section)
		if err != nil {
			return nil, err
		}
		code = data
		if !opts.baseSet && addr != 0 {
			opts.base, opts.baseSet = addr, true
		}
	}

	offset, err := addressFlag(cmd, "offset")
	if err != nil {
		return nil, err
	}
	length := int64(-1)
	if s, _ := cmd.Flags().GetString("length"); s != "" {
		n, err := binfile.ParseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("--length: %w", err)
		}
		length = int64(n)
	}

	code, err = binfile.Slice(code, int64(offset), length)
	if err != nil {
		return nil, err
	}
	opts.offset = offset
	return code, nil
}

func addressFlag(cmd *cobra.Command, name string) (uint32, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return 0, nil
	}
	v, err := binfile.ParseAddress(s)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return v, nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

func Execute() {
	// Check if --no-tui or --json flag is present, or if output is being piped
	// to bypass fang's markdown rendering
	plain := false
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "-n" || arg == "--json" || arg == "-j" {
			plain = true
			break
		}
	}

	if !plain && !term.IsTerminal(os.Stdout.Fd()) {
		plain = true
	}

	if plain {
		os.Setenv(colorize.EnvNoColor, "1")
		if err := newRootCmd().Execute(); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
