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

// Kind is the kind of a generated value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindUInt
	KindFloat
	KindKey
	KindString
	KindIndirectInt
	KindIndirectUInt
	KindIndirectFloat
	KindBlob
	KindBool
	KindMap
	KindVector

	// KindContainer is an outcome of the leaf table that is resolved to
	// KindMap or KindVector by a second draw.
	KindContainer
)

var kindNames = [...]string{
	KindNull:          "null",
	KindInt:           "int",
	KindUInt:          "uint",
	KindFloat:         "float",
	KindKey:           "key",
	KindString:        "string",
	KindIndirectInt:   "indirect_int",
	KindIndirectUInt:  "indirect_uint",
	KindIndirectFloat: "indirect_float",
	KindBlob:          "blob",
	KindBool:          "bool",
	KindMap:           "map",
	KindVector:        "vector",
	KindContainer:     "container",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsContainer reports whether values of this kind hold children.
func (k Kind) IsContainer() bool {
	return k == KindMap || k == KindVector
}

// KindWeight is one row of a KindTable.
type KindWeight struct {
	Kind   Kind
	Weight int
}

// KindTable is a discrete distribution over kinds. A draw picks a number
// in [0, Total) and walks the rows until the running weight exceeds it.
type KindTable []KindWeight

// NodeTable is the per node distribution: eleven leaf kinds with weight one
// each and the container outcome with weight five, sixteen outcomes in all.
var NodeTable = KindTable{
	{KindNull, 1},
	{KindInt, 1},
	{KindUInt, 1},
	{KindFloat, 1},
	{KindKey, 1},
	{KindString, 1},
	{KindIndirectInt, 1},
	{KindIndirectUInt, 1},
	{KindIndirectFloat, 1},
	{KindBlob, 1},
	{KindBool, 1},
	{KindContainer, 5},
}

// ContainerTable splits the container outcome evenly.
var ContainerTable = KindTable{
	{KindMap, 1},
	{KindVector, 1},
}

// Total returns the sum of all weights.
func (t KindTable) Total() int {
	total := 0
	for _, row := range t {
		total += row.Weight
	}
	return total
}

// Select maps n in [0, Total) to its kind.
func (t KindTable) Select(n int) (Kind, error) {
	if n < 0 {
		return 0, fmt.Errorf("selection %d is negative", n)
	}
	running := 0
	for _, row := range t {
		running += row.Weight
		if n < running {
			return row.Kind, nil
		}
	}
	return 0, fmt.Errorf("selection %d out of range for total weight %d", n, running)
}

// Draw picks a kind using one draw from src.
func (t KindTable) Draw(src *Source) Kind {
	kind, err := t.Select(src.IntRange(0, t.Total()-1))
	if err != nil {
		// IntRange never leaves [0, Total)
		panic(err)
	}
	return kind
}

// Probability returns the chance that a single draw yields kind.
func (t KindTable) Probability(kind Kind) float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	weight := 0
	for _, row := range t {
		if row.Kind == kind {
			weight += row.Weight
		}
	}
	return float64(weight) / float64(total)
}
