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

	"github.com/algorand/go-flexcorpus/util"
)

// Entry describes one written file.
type Entry struct {
	Label    string `yaml:"label"`
	Seed     uint64 `yaml:"seed,omitempty"`
	Size     int    `yaml:"size"`
	Checksum string `yaml:"checksum"`
	Root     string `yaml:"root"`
	Nodes    int    `yaml:"nodes,omitempty"`
	Depth    int    `yaml:"depth,omitempty"`
	MaxDepth int    `yaml:"max_depth,omitempty"`
}

// Manifest records a corpus run, one entry per file in label order.
type Manifest struct {
	Format  Format  `yaml:"format"`
	Dir     string  `yaml:"dir"`
	Entries []Entry `yaml:"entries"`
}

// TotalBytes is the sum of all file sizes.
func (m *Manifest) TotalBytes() int {
	total := 0
	for _, e := range m.Entries {
		total += e.Size
	}
	return total
}

// Duplicates counts entries whose content already appeared earlier.
func (m *Manifest) Duplicates() int {
	seen := util.MakeSet[string]()
	dups := 0
	for _, e := range m.Entries {
		if !seen.Insert(e.Checksum) {
			dups++
		}
	}
	return dups
}

// RootKinds counts entries per root kind.
func (m *Manifest) RootKinds() map[string]int {
	kinds := make(map[string]int)
	for _, e := range m.Entries {
		kinds[e.Root]++
	}
	return kinds
}

// WriteManifest stores m as YAML at path.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}
