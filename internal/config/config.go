// Package config holds the settings file for jdis.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"

	"jdis/internal/binfile"
	"jdis/internal/jrisc"
)

// EnvPath names the settings file when --config is not given.
const EnvPath = "JDIS_CONFIG"

// Config is the JSON settings file. Command-line flags take precedence.
type Config struct {
	Mode        string `json:"mode,omitempty" jsonschema:"title=Mode,description=Processor to decode for,enum=gpu,enum=dsp,default=gpu"`
	Base        string `json:"base,omitempty" jsonschema:"title=Base Address,description=Address of the first byte; defaults to the processor's local RAM"`
	MachineCode bool   `json:"machineCode,omitempty" jsonschema:"title=Machine Code,description=Show the instruction words next to each line"`
	ShowAddress bool   `json:"showAddress,omitempty" jsonschema:"title=Show Address,description=Prefix each line with its address"`
	Absolute    bool   `json:"absolute,omitempty" jsonschema:"title=Absolute Branches,description=Print jr targets as absolute addresses"`
	Annotate    bool   `json:"annotate,omitempty" jsonschema:"title=Annotate,description=Add labels and hardware register comments"`
	Color       *bool  `json:"color,omitempty" jsonschema:"title=Color,description=Colorize listings on a terminal"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{Mode: jrisc.GPU.String()}
}

// Load reads path, or the file named by JDIS_CONFIG when path is empty.
// With neither set it returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields that have a restricted form.
func (c Config) Validate() error {
	var errs []error
	if _, err := jrisc.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Base != "" {
		if _, err := binfile.ParseAddress(c.Base); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ProcessorMode parses Mode.
func (c Config) ProcessorMode() (jrisc.Mode, error) {
	return jrisc.ParseMode(c.Mode)
}

// BaseAddress parses Base, falling back to the local RAM of mode.
func (c Config) BaseAddress(mode jrisc.Mode) (uint32, error) {
	if c.Base == "" {
		return mode.DefaultBase(), nil
	}
	return binfile.ParseAddress(c.Base)
}

// ColorEnabled reports the color setting, on unless turned off.
func (c Config) ColorEnabled() bool {
	return c.Color == nil || *c.Color
}

// Schema returns the JSON schema of the settings file.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	return reflector.Reflect(&Config{})
}
