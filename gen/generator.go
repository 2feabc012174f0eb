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

import "math"

// alphabet is the symbol set for keys, strings and blobs.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var (
	signedTiers   = [...]uint64{math.MaxInt8, math.MaxInt16, math.MaxInt32, math.MaxInt64}
	unsignedTiers = [...]uint64{math.MaxUint8, math.MaxUint16, math.MaxUint32, math.MaxUint64}
)

// Generator produces random value trees. The maximum depth is drawn once
// when the generator is created and holds for every tree it generates. A
// Generator is not safe for concurrent use.
type Generator struct {
	cfg      Config
	src      *Source
	maxDepth int
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64, opts ...Option) (*Generator, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validateWithDefaults(true); err != nil {
		return nil, err
	}
	g := &Generator{cfg: cfg, src: NewSource(seed)}
	g.maxDepth = g.src.IntRange(cfg.MinDepth, cfg.MaxDepth)
	return g, nil
}

// MaxDepth returns the depth beyond which containers stay empty.
func (g *Generator) MaxDepth() int {
	return g.maxDepth
}

// Config returns the effective configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate builds one tree rooted at depth 0.
func (g *Generator) Generate() *Value {
	root := g.node(0)
	return &root
}

func (g *Generator) node(depth int) Value {
	kind := NodeTable.Draw(g.src)
	if kind == KindContainer {
		kind = ContainerTable.Draw(g.src)
	}
	switch kind {
	case KindMap:
		return g.mapNode(depth, g.width(), NewKeyScope())
	case KindVector:
		return g.vectorNode(depth, g.width())
	}
	return g.leaf(kind, depth)
}

func (g *Generator) width() int {
	return g.src.IntRange(0, g.cfg.MaxWidth)
}

// mapNode builds a map of width entries whose keys are unique within scope.
func (g *Generator) mapNode(depth, width int, scope *KeyScope) Value {
	v := Value{Kind: KindMap, Depth: depth}
	if depth > g.maxDepth {
		return v
	}
	v.Keys = make([]string, 0, width)
	v.Children = make([]Value, 0, width)
	for i := 0; i < width; i++ {
		v.Keys = append(v.Keys, g.mapKey(scope))
		v.Children = append(v.Children, g.node(depth+1))
	}
	return v
}

func (g *Generator) vectorNode(depth, width int) Value {
	v := Value{Kind: KindVector, Depth: depth}
	if depth > g.maxDepth {
		return v
	}
	v.Children = make([]Value, 0, width)
	for i := 0; i < width; i++ {
		v.Children = append(v.Children, g.node(depth+1))
	}
	return v
}

// mapKey draws keys until one is free in scope. After KeyRetryLimit
// consecutive collisions the longest allowed key grows by one symbol.
func (g *Generator) mapKey(scope *KeyScope) string {
	maxLen := g.cfg.MapKeyMaxLen
	misses := 0
	for {
		key := g.genString(1, maxLen)
		if scope.Claim(key) {
			return key
		}
		misses++
		if misses == g.cfg.KeyRetryLimit {
			maxLen++
			misses = 0
		}
	}
}

func (g *Generator) leaf(kind Kind, depth int) Value {
	v := Value{Kind: kind, Depth: depth}
	switch kind {
	case KindInt, KindIndirectInt:
		v.Int = g.genInt()
	case KindUInt, KindIndirectUInt:
		v.Uint = g.genNum(unsignedTiers[:])
	case KindFloat, KindIndirectFloat:
		v.Float, v.Double = g.genFloat()
	case KindKey:
		v.Str = g.genString(1, g.cfg.KeyMaxLen)
	case KindString:
		v.Str = g.genString(0, g.cfg.StringMaxLen)
	case KindBlob:
		v.Bytes = g.genBlob(0, g.cfg.BlobMaxLen)
	case KindBool:
		v.Bool = g.src.Coin()
	}
	return v
}

// genNum picks a magnitude tier uniformly, then a value uniformly in [0, tier].
func (g *Generator) genNum(tiers []uint64) uint64 {
	bound := tiers[g.src.IntRange(0, len(tiers)-1)]
	return g.src.Uint64Range(bound)
}

// genInt maps the negative half to -(num+1) so each tier minimum is reachable.
func (g *Generator) genInt() int64 {
	num := g.genNum(signedTiers[:])
	if g.src.Coin() {
		return int64(num)
	}
	return -int64(num) - 1
}

// genFloat returns the payload and whether it is double precision. Single
// precision payloads are exactly representable as float32.
func (g *Generator) genFloat() (float64, bool) {
	double := !g.src.Coin()
	switch g.cfg.FloatMode {
	case FloatUnit:
		if double {
			return g.src.Float64(), true
		}
		return float64(g.src.Float32()), false
	case FloatBits:
		if double {
			return math.Float64frombits(g.src.Uint64()), true
		}
		return float64(math.Float32frombits(g.src.Uint32())), false
	}
	u := 2*g.src.Float64() - 1
	if double {
		return u * math.MaxFloat64, true
	}
	return float64(float32(u * math.MaxFloat32)), false
}

func (g *Generator) genString(minLen, maxLen int) string {
	return string(g.genBlob(minLen, maxLen))
}

func (g *Generator) genBlob(minLen, maxLen int) []byte {
	n := g.src.IntRange(minLen, maxLen)
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[g.src.IntRange(0, len(alphabet)-1)]
	}
	return out
}
