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

package gen

import "fmt"

// FloatMode selects how float payloads are sampled.
type FloatMode string

const (
	// FloatRange samples uniformly over the finite range of the chosen precision.
	FloatRange FloatMode = "range"
	// FloatUnit samples uniformly in [0, 1).
	FloatUnit FloatMode = "unit"
	// FloatBits samples raw bit patterns, which reaches subnormals, infinities and NaN.
	FloatBits FloatMode = "bits"
)

const (
	defaultKeyMaxLen     = 5
	defaultStringMaxLen  = 5
	defaultBlobMaxLen    = 5
	defaultMapKeyMaxLen  = 10
	defaultMaxWidth      = 3
	defaultMinDepth      = 1
	defaultMaxDepth      = 3
	defaultKeyRetryLimit = 64
)

// Config bounds the shape and payloads of generated trees. Zero lengths,
// depths and retry limits take their defaults; a zero max_width,
// string_max_len or blob_max_len is a real bound.
type Config struct {
	KeyMaxLen     int       `yaml:"key_max_len"`
	StringMaxLen  int       `yaml:"string_max_len"`
	BlobMaxLen    int       `yaml:"blob_max_len"`
	MapKeyMaxLen  int       `yaml:"map_key_max_len"`
	MaxWidth      int       `yaml:"max_width"`
	MinDepth      int       `yaml:"min_depth"`
	MaxDepth      int       `yaml:"max_depth"`
	KeyRetryLimit int       `yaml:"key_retry_limit"`
	FloatMode     FloatMode `yaml:"float_mode"`
}

// DefaultConfig returns the stock bounds.
func DefaultConfig() Config {
	cfg := Config{
		StringMaxLen: defaultStringMaxLen,
		BlobMaxLen:   defaultBlobMaxLen,
		MaxWidth:     defaultMaxWidth,
	}
	_ = cfg.validateWithDefaults(true)
	return cfg
}

// Validate reports whether every field of cfg is set and usable.
func (cfg Config) Validate() error {
	return cfg.validateWithDefaults(false)
}

// SetDefaults fills zero fields that have no meaning as zero with their
// defaults and validates the result. A zero string, blob or width bound is
// kept.
func (cfg *Config) SetDefaults() error {
	return cfg.validateWithDefaults(true)
}

func defaultInt(defaults bool, field *int, value int, name string, zeroOK bool) error {
	if *field < 0 {
		return fmt.Errorf("%s must not be negative: %d", name, *field)
	}
	if *field == 0 && !zeroOK {
		if !defaults {
			return fmt.Errorf("%s must be > 0", name)
		}
		*field = value
	}
	return nil
}

// validateWithDefaults validates the config parameters. When defaults is true
// missing parameters are set to their defaults; when false, missing
// parameters are errors. Upper bounds on widths and payload lengths may be
// zero and are never defaulted.
func (cfg *Config) validateWithDefaults(defaults bool) error {
	fields := []struct {
		field  *int
		value  int
		name   string
		zeroOK bool
	}{
		{&cfg.KeyMaxLen, defaultKeyMaxLen, "key_max_len", false},
		{&cfg.StringMaxLen, defaultStringMaxLen, "string_max_len", true},
		{&cfg.BlobMaxLen, defaultBlobMaxLen, "blob_max_len", true},
		{&cfg.MapKeyMaxLen, defaultMapKeyMaxLen, "map_key_max_len", false},
		{&cfg.MaxWidth, defaultMaxWidth, "max_width", true},
		{&cfg.MinDepth, defaultMinDepth, "min_depth", false},
		{&cfg.MaxDepth, defaultMaxDepth, "max_depth", false},
		{&cfg.KeyRetryLimit, defaultKeyRetryLimit, "key_retry_limit", false},
	}
	for _, f := range fields {
		if err := defaultInt(defaults, f.field, f.value, f.name, f.zeroOK); err != nil {
			return err
		}
	}
	if cfg.MinDepth > cfg.MaxDepth {
		return fmt.Errorf("min_depth %d exceeds max_depth %d", cfg.MinDepth, cfg.MaxDepth)
	}

	switch cfg.FloatMode {
	case FloatRange, FloatUnit, FloatBits:
	case "":
		if !defaults {
			return fmt.Errorf("float_mode must be set")
		}
		cfg.FloatMode = FloatRange
	default:
		return fmt.Errorf("unknown float_mode %q, expected one of %q, %q, %q", cfg.FloatMode, FloatRange, FloatUnit, FloatBits)
	}
	return nil
}

// Option adjusts the Config of a new Generator.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithDepthRange sets the range the per generator maximum depth is drawn from.
func WithDepthRange(minDepth, maxDepth int) Option {
	return func(c *Config) {
		c.MinDepth = minDepth
		c.MaxDepth = maxDepth
	}
}

// WithMaxDepth pins the maximum depth to n.
func WithMaxDepth(n int) Option {
	return WithDepthRange(n, n)
}

// WithMaxWidth sets the largest number of children a container may get.
func WithMaxWidth(n int) Option {
	return func(c *Config) {
		c.MaxWidth = n
	}
}

// WithLengths sets the largest key, string and blob payloads.
func WithLengths(key, str, blob int) Option {
	return func(c *Config) {
		c.KeyMaxLen = key
		c.StringMaxLen = str
		c.BlobMaxLen = blob
	}
}

// WithFloatMode sets how floats are sampled.
func WithFloatMode(mode FloatMode) Option {
	return func(c *Config) {
		c.FloatMode = mode
	}
}

// WithKeyRetryLimit sets how many map key collisions are tolerated before
// the key length window widens.
func WithKeyRetryLimit(n int) Option {
	return func(c *Config) {
		c.KeyRetryLimit = n
	}
}
