// Package config loads interpreter settings from a YAML file and turns them
// into core options and builders.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/wspace/core"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of one interpreter run.
type Config struct {
	Heap     string    `yaml:"heap"`
	End      string    `yaml:"end"`
	LogLevel string    `yaml:"log_level"`
	Sim      SimConfig `yaml:"sim"`
}

// SimConfig holds the settings of a run under the akita engine.
type SimConfig struct {
	FreqMHz float64 `yaml:"freq_mhz"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Heap:     core.HeapZero.String(),
		End:      core.EndHalt.String(),
		LogLevel: "warn",
		Sim: SimConfig{
			FreqMHz: 1000,
		},
	}
}

// Load reads and validates a config file. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes a YAML document over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that every setting has a known value.
func (c Config) Validate() error {
	if _, err := core.ParseHeapPolicy(c.Heap); err != nil {
		return err
	}

	if _, err := core.ParseEndPolicy(c.End); err != nil {
		return err
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.Sim.FreqMHz <= 0 {
		return fmt.Errorf("sim.freq_mhz must be positive, got %v", c.Sim.FreqMHz)
	}

	return nil
}

// Options returns machine options that read from in and write to out.
func (c Config) Options(in io.Reader, out io.Writer) (core.Options, error) {
	heap, err := core.ParseHeapPolicy(c.Heap)
	if err != nil {
		return core.Options{}, err
	}

	end, err := core.ParseEndPolicy(c.End)
	if err != nil {
		return core.Options{}, err
	}

	return core.Options{
		Input:  in,
		Output: out,
		Heap:   heap,
		End:    end,
	}, nil
}

// Freq returns the core clock of simulated runs.
func (c Config) Freq() sim.Freq {
	return sim.Freq(c.Sim.FreqMHz) * sim.MHz
}

// CoreBuilder returns a core builder carrying the settings.
func (c Config) CoreBuilder(
	engine sim.Engine,
	in io.Reader,
	out io.Writer,
) (core.Builder, error) {
	opts, err := c.Options(in, out)
	if err != nil {
		return core.Builder{}, err
	}

	return core.NewBuilder().
		WithEngine(engine).
		WithFreq(c.Freq()).
		WithInput(opts.Input).
		WithOutput(opts.Output).
		WithHeapPolicy(opts.Heap).
		WithEndPolicy(opts.End), nil
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() (slog.Level, error) {
	return ParseLevel(c.LogLevel)
}

// ParseLevel accepts the slog level names plus "trace".
func ParseLevel(s string) (slog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "trace" {
		return core.LevelTrace, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
	}

	return level, nil
}
