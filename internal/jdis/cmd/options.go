package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jdis/internal/binfile"
	"jdis/internal/config"
	"jdis/internal/disasm"
	"jdis/internal/jrisc"
)

// options is the decoding setup after merging the config file and flags.
type options struct {
	mode        jrisc.Mode
	base        uint32
	baseSet     bool   // base given explicitly or taken from an ELF section
	offset      uint32 // distance of the first decoded byte from base
	machineCode bool
	showAddress bool
	absolute    bool
	annotate    bool
	color       bool
}

// origin is the address of the first decoded byte.
func (o options) origin() uint32 {
	base := o.base
	if !o.baseSet {
		base = o.mode.DefaultBase()
	}
	return base + o.offset
}

func (o options) flags() disasm.Flags {
	var f disasm.Flags
	if o.showAddress {
		f |= disasm.ShowAddress
	}
	if o.machineCode {
		f |= disasm.ShowMachineCode
	}
	return f
}

func (o options) decoder() (*jrisc.Decoder, error) {
	return jrisc.New(o.mode,
		jrisc.WithAbsoluteBranches(o.absolute),
		jrisc.WithMachineCode(o.machineCode),
	)
}

// otherMode switches between the GPU and DSP.
func (o options) otherMode() jrisc.Mode {
	if o.mode == jrisc.DSP {
		return jrisc.GPU
	}
	return jrisc.DSP
}

// resolveOptions loads the config file and applies the flags the user set.
func resolveOptions(cmd *cobra.Command) (options, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return options{}, err
	}

	mode, err := cfg.ProcessorMode()
	if err != nil {
		return options{}, err
	}
	opts := options{
		mode:        mode,
		machineCode: cfg.MachineCode,
		showAddress: cfg.ShowAddress,
		absolute:    cfg.Absolute,
		annotate:    cfg.Annotate,
		color:       cfg.ColorEnabled(),
	}
	if cfg.Base != "" {
		if opts.base, err = cfg.BaseAddress(mode); err != nil {
			return options{}, err
		}
		opts.baseSet = true
	}

	flags := cmd.Flags()
	if flags.Changed("dsp") {
		dsp, _ := flags.GetBool("dsp")
		opts.mode = jrisc.GPU
		if dsp {
			opts.mode = jrisc.DSP
		}
	}
	if flags.Changed("base") {
		s, _ := flags.GetString("base")
		if opts.base, err = binfile.ParseAddress(s); err != nil {
			return options{}, fmt.Errorf("--base: %w", err)
		}
		opts.baseSet = true
	}
	overrideBool(cmd, "machine-code", &opts.machineCode)
	overrideBool(cmd, "address", &opts.showAddress)
	overrideBool(cmd, "absolute", &opts.absolute)
	overrideBool(cmd, "annotate", &opts.annotate)
	return opts, nil
}

func overrideBool(cmd *cobra.Command, name string, dst *bool) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetBool(name)
	}
}
