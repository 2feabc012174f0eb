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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-flexcorpus/test/partitiontest"
)

type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) BeginMap(size int)         { r.add("map(%d)", size) }
func (r *recorder) MapKey(key string)         { r.add("mapkey %s", key) }
func (r *recorder) EndMap()                   { r.add("endmap") }
func (r *recorder) BeginVector(size int)      { r.add("vector(%d)", size) }
func (r *recorder) EndVector()                { r.add("endvector") }
func (r *recorder) Null()                     { r.add("null") }
func (r *recorder) Int(i int64)               { r.add("int %d", i) }
func (r *recorder) UInt(u uint64)             { r.add("uint %d", u) }
func (r *recorder) Float32(f float32)         { r.add("float32 %g", f) }
func (r *recorder) Float64(f float64)         { r.add("float64 %g", f) }
func (r *recorder) IndirectInt(i int64)       { r.add("indirect int %d", i) }
func (r *recorder) IndirectUInt(u uint64)     { r.add("indirect uint %d", u) }
func (r *recorder) IndirectFloat32(f float32) { r.add("indirect float32 %g", f) }
func (r *recorder) IndirectFloat64(f float64) { r.add("indirect float64 %g", f) }
func (r *recorder) Key(key string)            { r.add("key %s", key) }
func (r *recorder) String(s string)           { r.add("string %s", s) }
func (r *recorder) Blob(b []byte)             { r.add("blob %x", b) }
func (r *recorder) Bool(b bool)               { r.add("bool %v", b) }
func (r *recorder) Finish() ([]byte, error)   { return []byte(fmt.Sprint(len(r.events))), nil }

func TestEmitEvents(t *testing.T) {
	partitiontest.PartitionTest(t)

	tree := &Value{Kind: KindMap, Keys: []string{"b", "a"}, Children: []Value{
		{Kind: KindVector, Depth: 1, Children: []Value{
			{Kind: KindIndirectInt, Int: -3, Depth: 2},
			{Kind: KindFloat, Float: 0.5, Depth: 2},
			{Kind: KindIndirectFloat, Float: 0.25, Double: true, Depth: 2},
		}},
		{Kind: KindBlob, Bytes: []byte{0xab}, Depth: 1},
	}}

	r := &recorder{}
	out, err := Encode(tree, r)
	require.NoError(t, err)
	require.Equal(t, []string{
		"map(2)",
		"mapkey b",
		"vector(3)",
		"indirect int -3",
		"float32 0.5",
		"indirect float64 0.25",
		"endvector",
		"mapkey a",
		"blob ab",
		"endmap",
	}, r.events)
	require.Equal(t, "10", string(out))
}

func TestEmitRejectsBadTrees(t *testing.T) {
	partitiontest.PartitionTest(t)

	err := Emit(&Value{Kind: KindContainer}, &recorder{})
	require.ErrorIs(t, err, ErrUnknownKind)

	err = Emit(&Value{Kind: KindMap, Keys: []string{"a"}}, &recorder{})
	require.EqualError(t, err, "map at depth 0 has 1 keys for 0 values")
}

func TestStats(t *testing.T) {
	partitiontest.PartitionTest(t)

	tree := &Value{Kind: KindVector, Children: []Value{
		{Kind: KindString, Str: "abc", Depth: 1},
		{Kind: KindMap, Depth: 1, Keys: []string{"k"}, Children: []Value{
			{Kind: KindNull, Depth: 2},
		}},
	}}
	st := tree.Stats()
	require.Equal(t, 4, st.Nodes)
	require.Equal(t, 2, st.MaxDepth)
	require.Equal(t, 2, st.MaxWidth)
	require.Equal(t, 1, st.MapKeys)
	require.Equal(t, 3, st.LeafBytes)
	require.Equal(t, 1, st.Kinds[KindMap])

	visited := 0
	tree.Walk(func(v *Value) bool {
		visited++
		return v.Kind != KindMap
	})
	require.Equal(t, 3, visited)
}
