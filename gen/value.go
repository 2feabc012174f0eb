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

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a tree holds a kind no encoder call exists for.
var ErrUnknownKind = errors.New("unknown value kind")

// Value is one node of a generated tree. Only the payload fields that
// belong to Kind are set. Maps keep Keys parallel to Children.
type Value struct {
	Kind Kind

	Int    int64
	Uint   uint64
	Float  float64
	Double bool
	Str    string
	Bytes  []byte
	Bool   bool

	Keys     []string
	Children []Value

	// Depth is the depth the node was generated at; the root is 0.
	Depth int
}

// Walk calls fn for v and every descendant in depth first order, stopping
// the descent below a node when fn returns false.
func (v *Value) Walk(fn func(v *Value) bool) {
	if !fn(v) {
		return
	}
	for i := range v.Children {
		v.Children[i].Walk(fn)
	}
}

// Stats summarizes a tree.
type Stats struct {
	Nodes     int
	MaxDepth  int
	MaxWidth  int
	Kinds     map[Kind]int
	MapKeys   int
	LeafBytes int
}

// Stats walks the tree once and returns its summary.
func (v *Value) Stats() Stats {
	st := Stats{Kinds: make(map[Kind]int)}
	v.Walk(func(n *Value) bool {
		st.Nodes++
		st.Kinds[n.Kind]++
		st.MapKeys += len(n.Keys)
		st.LeafBytes += len(n.Str) + len(n.Bytes)
		if n.Depth > st.MaxDepth {
			st.MaxDepth = n.Depth
		}
		if len(n.Children) > st.MaxWidth {
			st.MaxWidth = len(n.Children)
		}
		return true
	})
	return st
}

// Encoder receives a value tree as a stream of events. Containers are
// bracketed by Begin/End calls and a map alternates MapKey with one value.
// Implementations latch the first error and return it from Finish.
type Encoder interface {
	BeginMap(size int)
	MapKey(key string)
	EndMap()
	BeginVector(size int)
	EndVector()

	Null()
	Int(i int64)
	UInt(u uint64)
	Float32(f float32)
	Float64(f float64)
	IndirectInt(i int64)
	IndirectUInt(u uint64)
	IndirectFloat32(f float32)
	IndirectFloat64(f float64)
	Key(key string)
	String(s string)
	Blob(b []byte)
	Bool(b bool)

	Finish() ([]byte, error)
}

// Emit replays v into enc without finishing it.
func Emit(v *Value, enc Encoder) error {
	switch v.Kind {
	case KindNull:
		enc.Null()
	case KindInt:
		enc.Int(v.Int)
	case KindUInt:
		enc.UInt(v.Uint)
	case KindFloat:
		if v.Double {
			enc.Float64(v.Float)
		} else {
			enc.Float32(float32(v.Float))
		}
	case KindKey:
		enc.Key(v.Str)
	case KindString:
		enc.String(v.Str)
	case KindIndirectInt:
		enc.IndirectInt(v.Int)
	case KindIndirectUInt:
		enc.IndirectUInt(v.Uint)
	case KindIndirectFloat:
		if v.Double {
			enc.IndirectFloat64(v.Float)
		} else {
			enc.IndirectFloat32(float32(v.Float))
		}
	case KindBlob:
		enc.Blob(v.Bytes)
	case KindBool:
		enc.Bool(v.Bool)
	case KindMap:
		if len(v.Keys) != len(v.Children) {
			return fmt.Errorf("map at depth %d has %d keys for %d values", v.Depth, len(v.Keys), len(v.Children))
		}
		enc.BeginMap(len(v.Children))
		for i := range v.Children {
			enc.MapKey(v.Keys[i])
			if err := Emit(&v.Children[i], enc); err != nil {
				return err
			}
		}
		enc.EndMap()
	case KindVector:
		enc.BeginVector(len(v.Children))
		for i := range v.Children {
			if err := Emit(&v.Children[i], enc); err != nil {
				return err
			}
		}
		enc.EndVector()
	default:
		return fmt.Errorf("%w: %v", ErrUnknownKind, v.Kind)
	}
	return nil
}

// Encode replays v into enc and finishes it.
func Encode(v *Value, enc Encoder) ([]byte, error) {
	if err := Emit(v, enc); err != nil {
		return nil, err
	}
	return enc.Finish()
}
