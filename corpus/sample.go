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
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/algorand/go-flexcorpus/gen"
)

// Sample is one generated corpus entry.
type Sample struct {
	Label    string
	Seed     uint64
	MaxDepth int
	Tree     *gen.Value
	Data     []byte
}

// SeedFor returns the seed of sample index.
func (cfg Config) SeedFor(index int) uint64 {
	return uint64(index) + cfg.SeedOffset
}

// GenerateSample builds sample index from scratch. It depends only on cfg
// and index, so samples can be produced in any order.
func GenerateSample(cfg Config, index int) (Sample, error) {
	seed := cfg.SeedFor(index)
	g, err := gen.NewGenerator(seed, gen.WithConfig(cfg.Generator))
	if err != nil {
		return Sample{}, err
	}
	enc, err := cfg.Format.NewEncoder()
	if err != nil {
		return Sample{}, err
	}
	tree := g.Generate()
	data, err := gen.Encode(tree, enc)
	if err != nil {
		return Sample{}, fmt.Errorf("encoding sample %d (seed %d): %w", index, seed, err)
	}
	return Sample{
		Label:    strconv.Itoa(index),
		Seed:     seed,
		MaxDepth: g.MaxDepth(),
		Tree:     tree,
		Data:     data,
	}, nil
}

// Entry returns the manifest line for s.
func (s Sample) Entry() Entry {
	st := s.Tree.Stats()
	return Entry{
		Label:    s.Label,
		Seed:     s.Seed,
		Size:     len(s.Data),
		Checksum: Checksum(s.Data),
		Root:     s.Tree.Kind.String(),
		Nodes:    st.Nodes,
		Depth:    st.MaxDepth,
		MaxDepth: s.MaxDepth,
	}
}

// Checksum is the hex xxhash64 of data.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
