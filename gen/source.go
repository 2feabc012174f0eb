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

// Package gen builds random, structurally diverse value trees from a seed.
// A tree is generated once and then replayed into any Encoder, so the same
// seed yields the same shape in every output format.
package gen

import (
	"math"
	"math/rand/v2"
)

// pcgStream is the fixed second word of the PCG state.
const pcgStream = 0x9e3779b97f4a7c15

// Source is the single random engine behind a generator. Every draw
// advances it; nothing else is consulted once it is seeded.
type Source struct {
	r *rand.Rand
}

// NewSource returns a Source seeded with seed.
func NewSource(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, pcgStream))}
}

// IntRange returns an int uniformly distributed in [lo, hi].
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.IntN(hi-lo+1)
}

// Uint64Range returns a uint64 uniformly distributed in [0, hi].
func (s *Source) Uint64Range(hi uint64) uint64 {
	if hi == math.MaxUint64 {
		return s.r.Uint64()
	}
	return s.r.Uint64N(hi + 1)
}

// Coin returns true with probability one half.
func (s *Source) Coin() bool {
	return s.r.IntN(2) == 0
}

// Float32 returns a float32 in [0, 1).
func (s *Source) Float32() float32 {
	return s.r.Float32()
}

// Float64 returns a float64 in [0, 1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// Uint32 returns 32 random bits.
func (s *Source) Uint32() uint32 {
	return s.r.Uint32()
}

// Uint64 returns 64 random bits.
func (s *Source) Uint64() uint64 {
	return s.r.Uint64()
}
