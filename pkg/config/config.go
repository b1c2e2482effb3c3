package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the optional YAML configuration. Pointer fields distinguish
// "not set" from the zero value so flags can be layered on top.
type File struct {
	Format        string   `yaml:"format"`
	Origin        string   `yaml:"origin"`
	NoDrillCenter *bool    `yaml:"no_drill_center"`
	Units         string   `yaml:"units"`
	Rotation      *float64 `yaml:"rotation"`
	KeepDNP       *bool    `yaml:"keep_dnp"`
	Sort          *bool    `yaml:"sort"`
}

// Load reads and strictly decodes a YAML config file: unknown keys are
// rejected so typos do not silently fall back to defaults.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes YAML config data. Empty input yields an empty File.
func Parse(data []byte) (*File, error) {
	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &f, nil
}

// Settings is the fully resolved run configuration.
type Settings struct {
	Format        string
	Origin        string
	NoDrillCenter bool
	Units         string
	Rotation      float64
	KeepDNP       bool
	Sort          bool
}

// Flags carries command-line values together with whether each was set
// explicitly. Explicit flags win over the file; unset flags only apply
// when the file is silent too.
type Flags struct {
	Settings
	Changed func(name string) bool
}

// Resolve layers flags over the file. Flag names match the CLI:
// format, origin, no-drill-center, units, rotation, keep-dnp, sort.
func (f *File) Resolve(flags Flags) Settings {
	changed := flags.Changed
	if changed == nil {
		changed = func(string) bool { return false }
	}
	s := flags.Settings
	if f == nil {
		return s
	}

	if !changed("format") && f.Format != "" {
		s.Format = f.Format
	}
	if !changed("origin") && f.Origin != "" {
		s.Origin = f.Origin
	}
	if !changed("no-drill-center") && f.NoDrillCenter != nil {
		s.NoDrillCenter = *f.NoDrillCenter
	}
	if !changed("units") && f.Units != "" {
		s.Units = f.Units
	}
	if !changed("rotation") && f.Rotation != nil {
		s.Rotation = *f.Rotation
	}
	if !changed("keep-dnp") && f.KeepDNP != nil {
		s.KeepDNP = *f.KeepDNP
	}
	if !changed("sort") && f.Sort != nil {
		s.Sort = *f.Sort
	}
	return s
}
