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

// Package flexbuf implements the FlexBuffers self-describing binary format:
// a Builder that turns begin/add/end events into a finished buffer, and a
// Reference based reader that walks and validates such buffers.
package flexbuf

import "fmt"

// BitWidth is the log2 of a scalar's byte width.
type BitWidth uint8

const (
	// BitWidth8 is a one byte slot
	BitWidth8 BitWidth = iota
	// BitWidth16 is a two byte slot
	BitWidth16
	// BitWidth32 is a four byte slot
	BitWidth32
	// BitWidth64 is an eight byte slot
	BitWidth64
)

// ByteWidth returns the number of bytes a slot of this width occupies.
func (bw BitWidth) ByteWidth() int {
	return 1 << bw
}

func maxWidth(a, b BitWidth) BitWidth {
	if a > b {
		return a
	}
	return b
}

func widthForBytes(byteWidth int) (BitWidth, error) {
	switch byteWidth {
	case 1:
		return BitWidth8, nil
	case 2:
		return BitWidth16, nil
	case 4:
		return BitWidth32, nil
	case 8:
		return BitWidth64, nil
	}
	return 0, fmt.Errorf("%w: byte width %d", ErrInvalidData, byteWidth)
}

func widthU(u uint64) BitWidth {
	switch {
	case u&^0xff == 0:
		return BitWidth8
	case u&^0xffff == 0:
		return BitWidth16
	case u&^0xffffffff == 0:
		return BitWidth32
	}
	return BitWidth64
}

func widthI(i int64) BitWidth {
	u := uint64(i) << 1
	if i < 0 {
		u = ^u
	}
	return widthU(u)
}

func widthF(f float64) BitWidth {
	if float64(float32(f)) == f {
		return BitWidth32
	}
	return BitWidth64
}

// paddingBytes is the number of zero bytes needed to align bufSize to scalarSize.
func paddingBytes(bufSize, scalarSize int) int {
	return -bufSize & (scalarSize - 1)
}

// Type is the FlexBuffers value type stored in the upper six bits of a packed type byte.
type Type uint8

// Types at or below TypeFloat, and TypeBool, are stored inline; all others are offsets.
const (
	TypeNull          Type = 0
	TypeInt           Type = 1
	TypeUint          Type = 2
	TypeFloat         Type = 3
	TypeKey           Type = 4
	TypeString        Type = 5
	TypeIndirectInt   Type = 6
	TypeIndirectUint  Type = 7
	TypeIndirectFloat Type = 8
	TypeMap           Type = 9
	TypeVector        Type = 10
	TypeVectorInt     Type = 11
	TypeVectorUint    Type = 12
	TypeVectorFloat   Type = 13
	TypeVectorKey     Type = 14
	// TypeVectorString is deprecated by the format but still decodable.
	TypeVectorString Type = 15
	TypeVectorInt2   Type = 16
	TypeVectorUint2  Type = 17
	TypeVectorFloat2 Type = 18
	TypeVectorInt3   Type = 19
	TypeVectorUint3  Type = 20
	TypeVectorFloat3 Type = 21
	TypeVectorInt4   Type = 22
	TypeVectorUint4  Type = 23
	TypeVectorFloat4 Type = 24
	TypeBlob         Type = 25
	TypeBool         Type = 26
	TypeVectorBool   Type = 36
)

var typeNames = map[Type]string{
	TypeNull:          "null",
	TypeInt:           "int",
	TypeUint:          "uint",
	TypeFloat:         "float",
	TypeKey:           "key",
	TypeString:        "string",
	TypeIndirectInt:   "indirect_int",
	TypeIndirectUint:  "indirect_uint",
	TypeIndirectFloat: "indirect_float",
	TypeMap:           "map",
	TypeVector:        "vector",
	TypeVectorInt:     "vector_int",
	TypeVectorUint:    "vector_uint",
	TypeVectorFloat:   "vector_float",
	TypeVectorKey:     "vector_key",
	TypeVectorString:  "vector_string",
	TypeVectorInt2:    "vector_int2",
	TypeVectorUint2:   "vector_uint2",
	TypeVectorFloat2:  "vector_float2",
	TypeVectorInt3:    "vector_int3",
	TypeVectorUint3:   "vector_uint3",
	TypeVectorFloat3:  "vector_float3",
	TypeVectorInt4:    "vector_int4",
	TypeVectorUint4:   "vector_uint4",
	TypeVectorFloat4:  "vector_float4",
	TypeBlob:          "blob",
	TypeBool:          "bool",
	TypeVectorBool:    "vector_bool",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// IsInline reports whether values of this type live directly in their parent's slot.
func (t Type) IsInline() bool {
	return t <= TypeFloat || t == TypeBool
}

func (t Type) isTypedVectorElement() bool {
	return (t >= TypeInt && t <= TypeString) || t == TypeBool
}

func (t Type) isFixedTypedVectorElement() bool {
	return t >= TypeInt && t <= TypeFloat
}

func (t Type) isTypedVector() bool {
	return (t >= TypeVectorInt && t <= TypeVectorString) || t == TypeVectorBool
}

func (t Type) isFixedTypedVector() bool {
	return t >= TypeVectorInt2 && t <= TypeVectorFloat4
}

func (t Type) isValid() bool {
	_, ok := typeNames[t]
	return ok
}

// toTypedVector maps an element type to its typed vector type. fixedLen is
// zero for variable length vectors, or 2 to 4 for fixed ones.
func toTypedVector(elem Type, fixedLen int) Type {
	switch fixedLen {
	case 0:
		return elem - TypeInt + TypeVectorInt
	case 2:
		return elem - TypeInt + TypeVectorInt2
	case 3:
		return elem - TypeInt + TypeVectorInt3
	case 4:
		return elem - TypeInt + TypeVectorInt4
	}
	return TypeNull
}

func typedVectorElement(t Type) Type {
	return t - TypeVectorInt + TypeInt
}

func fixedTypedVectorElement(t Type) (elem Type, n int) {
	fixed := t - TypeVectorInt2
	return fixed%3 + TypeInt, int(fixed/3) + 2
}

func packedType(bw BitWidth, t Type) uint8 {
	return uint8(bw) | uint8(t)<<2
}
