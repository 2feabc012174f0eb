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
	"math"

	"github.com/algorand/go-flexcorpus/flexbuf"
)

// FixtureExt is the file extension of handcrafted fixtures.
const FixtureExt = ".flexbuf"

// Fixture is a handcrafted FlexBuffers document covering one layout.
type Fixture struct {
	Name  string
	Build func(b *flexbuf.Builder)
}

// FileName is the name the fixture is written under.
func (f Fixture) FileName() string {
	return f.Name + FixtureExt
}

// Encode builds the fixture into a finished buffer.
func (f Fixture) Encode() ([]byte, error) {
	b := flexbuf.NewBuilder()
	f.Build(b)
	return b.Finish()
}

func smallInts(b *flexbuf.Builder) {
	b.Int(1)
	b.Int(256)
	b.Int(65546)
}

// Fixtures returns the handcrafted documents in a fixed order.
func Fixtures() []Fixture {
	return []Fixture{
		{"single_int_1", func(b *flexbuf.Builder) { b.Int(1) }},
		{"single_uint_1", func(b *flexbuf.Builder) { b.UInt(1) }},
		{"single_float_1", func(b *flexbuf.Builder) { b.Float32(1) }},
		{"single_double_1", func(b *flexbuf.Builder) { b.Float64(1) }},
		{"single_indirect_int_1", func(b *flexbuf.Builder) { b.IndirectInt(1) }},
		{"single_indirect_float_1", func(b *flexbuf.Builder) { b.IndirectFloat32(1) }},
		{"single_indirect_double_1", func(b *flexbuf.Builder) { b.IndirectFloat64(1) }},
		{"simple_string", func(b *flexbuf.Builder) { b.String("hello flexbuffers!") }},
		{"simple_blob", func(b *flexbuf.Builder) { b.Blob([]byte{0, 3, 9, 0, 0}) }},
		{"simple_map", func(b *flexbuf.Builder) {
			b.Map(func() {
				b.MapKey("foo")
				b.String("bar")
			})
		}},
		{"flat_multiple_map", func(b *flexbuf.Builder) {
			b.Map(func() {
				b.MapKey("foo")
				b.String("bar")
				b.MapKey("a")
				b.Int(123)
				b.MapKey("b")
				b.Float64(12)
			})
		}},
		{"simple_vector", func(b *flexbuf.Builder) { b.Vector(func() { smallInts(b) }) }},
		{"simple_typed_vector", func(b *flexbuf.Builder) { b.TypedVector(func() { smallInts(b) }) }},
		{"simple_fixed_typed_vector", func(b *flexbuf.Builder) {
			flexbuf.FixedTypedVector(b, []uint32{1, 256, 65546})
		}},
		{"nested_map_vector", func(b *flexbuf.Builder) {
			b.Map(func() {
				b.MapKey("map")
				b.Map(func() {
					b.MapKey("foo")
					b.String("bar")
				})
				b.MapKey("vec")
				b.Vector(func() { smallInts(b) })
				b.MapKey("int")
				b.Int(123)
			})
		}},
		{"nested_vector_map", func(b *flexbuf.Builder) {
			b.Vector(func() {
				b.Map(func() {
					b.MapKey("a")
					b.String("1")
				})
				b.Map(func() {
					b.MapKey("b")
					b.Int(1234)
				})
			})
		}},
		{"primitive_corners", func(b *flexbuf.Builder) {
			b.Map(func() {
				b.MapKey("int32_max")
				b.Int(math.MaxInt32)
				b.MapKey("int32_min")
				b.Int(math.MinInt32)
				b.MapKey("int64_max")
				b.Int(math.MaxInt64)
				b.MapKey("int64_min")
				b.Int(math.MinInt64)
			})
		}},
	}
}
