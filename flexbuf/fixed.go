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

package flexbuf

import (
	"fmt"
	"reflect"
)

// Scalar is the set of element types a fixed typed vector can hold.
type Scalar interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func scalarLayout[T Scalar]() (Type, int) {
	rt := reflect.TypeFor[T]()
	width := int(rt.Size())
	switch rt.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return TypeInt, width
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeUint, width
	default:
		return TypeFloat, width
	}
}

// FixedTypedVector adds a vector of 2 to 4 scalars whose length is implied
// by its type, so no size prefix is written. Elements are stored at the
// natural width of T.
func FixedTypedVector[T Scalar](b *Builder, elems []T) {
	if len(elems) < 2 || len(elems) > 4 {
		b.fail(fmt.Errorf("%w: fixed typed vector of length %d", ErrOutOfRange, len(elems)))
		return
	}
	elemType, byteWidth := scalarLayout[T]()
	bw, err := widthForBytes(byteWidth)
	if err != nil {
		b.fail(err)
		return
	}
	b.align(bw)
	loc := len(b.buf)
	for _, e := range elems {
		switch elemType {
		case TypeFloat:
			b.writeFloat(float64(e), byteWidth)
		case TypeInt:
			b.writeUint(uint64(int64(e)), byteWidth)
		default:
			b.writeUint(uint64(e), byteWidth)
		}
	}
	b.push(value{u: uint64(loc), typ: toTypedVector(elemType, len(elems)), minBitWidth: bw})
}

