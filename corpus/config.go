// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

package corpus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/algorand/go-flexcorpus/flexbuf"
	"github.com/algorand/go-flexcorpus/gen"
	"github.com/algorand/go-flexcorpus/protocol"
)

// Format is the wire format samples are written in.
type Format string

const (
	// FormatFlexBuffers writes FlexBuffers documents.
	FormatFlexBuffers Format = "flexbuffers"
	// FormatMsgpack writes the same trees as msgpack.
	FormatMsgpack Format = "msgpack"
)

// Formats lists every supported format, default first.
var Formats = []Format{FormatFlexBuffers, FormatMsgpack}

// NewEncoder returns a fresh encoder for the format.
func (f Format) NewEncoder() (gen.Encoder, error) {
	switch f {
	case FormatFlexBuffers:
		return flexbuf.NewBuilder(), nil
	case FormatMsgpack:
		return protocol.NewMsgpEncoder(), nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// Validate checks that data is one well formed document in the format.
func (f Format) Validate(data []byte) error {
	switch f {
	case FormatFlexBuffers:
		return flexbuf.Validate(data)
	case FormatMsgpack:
		_, err := protocol.DecodeMsgpack(data)
		return err
	}
	return fmt.Errorf("unknown format %q", f)
}

// Decode turns data into plain Go values.
func (f Format) Decode(data []byte) (interface{}, error) {
	switch f {
	case FormatFlexBuffers:
		root, err := flexbuf.Root(data)
		if err != nil {
			return nil, err
		}
		return root.Interface()
	case FormatMsgpack:
		return protocol.DecodeMsgpack(data)
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

const (
	defaultCount      = 1000
	defaultSeedOffset = 10
	defaultWorkers    = 1
)

// Config describes one corpus run.
type Config struct {
	// OutputDir is the directory samples are written to.
	OutputDir string `yaml:"-"`

	Count      int    `yaml:"count"`
	SeedOffset uint64 `yaml:"seed_offset"`
	Format     Format `yaml:"format"`
	Workers    int    `yaml:"workers"`

	// Manifest is the path of an optional YAML manifest, normally outside OutputDir.
	Manifest string `yaml:"manifest"`

	Generator gen.Config `yaml:"generator"`
}

// DefaultConfig returns the stock run: 1000 FlexBuffers samples seeded from 10.
func DefaultConfig() Config {
	cfg := Config{SeedOffset: defaultSeedOffset, Generator: gen.DefaultConfig()}
	_ = cfg.validateWithDefaults(true)
	return cfg
}

// LoadConfig reads a YAML run description. Fields missing from the file
// keep their defaults; fields present are taken as written, zero included.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validateWithDefaults(false); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// validateWithDefaults validates the config parameters. When defaults is true
// missing parameters are set to their defaults.
func (cfg *Config) validateWithDefaults(defaults bool) error {
	if cfg.Count < 0 {
		return fmt.Errorf("count must not be negative: %d", cfg.Count)
	}
	if cfg.Count == 0 {
		if !defaults {
			return fmt.Errorf("count must be > 0")
		}
		cfg.Count = defaultCount
	}

	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		if !defaults {
			return fmt.Errorf("workers must be > 0")
		}
		cfg.Workers = defaultWorkers
	}

	switch cfg.Format {
	case FormatFlexBuffers, FormatMsgpack:
	case "":
		if !defaults {
			return fmt.Errorf("format must be set")
		}
		cfg.Format = FormatFlexBuffers
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}

	check := cfg.Generator.Validate
	if defaults {
		check = cfg.Generator.SetDefaults
	}
	if err := check(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	return nil
}
