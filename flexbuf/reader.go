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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInvalidData is returned for buffers that are not well formed.
	ErrInvalidData = errors.New("invalid flexbuffer")
	// ErrOutOfRange is returned when a read or offset falls outside the buffer.
	ErrOutOfRange = errors.New("out of range")
	// ErrRecursiveData is returned when a buffer nests deeper than the reader allows
	// or references the same data more often than a tree could.
	ErrRecursiveData = errors.New("recursive or overly nested data")
	// ErrNoNullByte is returned when a key or string is not NUL terminated.
	ErrNoNullByte = errors.New("missing NUL terminator")
	// ErrTypeMismatch is returned when a value is read as an incompatible type.
	ErrTypeMismatch = errors.New("type mismatch")
)

const (
	// MaxNestingDepth bounds how deep Interface and Validate descend.
	MaxNestingDepth = 64
	// maxVisitsPerByte bounds the nodes visited relative to the buffer size.
	maxVisitsPerByte = 4
)

// Reference points at one value inside a buffer: the slot it lives in,
// the width of that slot and the width and type recorded for its data.
type Reference struct {
	buf         []byte
	offset      int
	parentWidth int
	byteWidth   int
	typ         Type
}

// Root returns a reference to the root value of buf.
func Root(buf []byte) (Reference, error) {
	if len(buf) < 3 {
		return Reference{}, fmt.Errorf("%w: %d bytes is too short", ErrInvalidData, len(buf))
	}
	byteWidth := int(buf[len(buf)-1])
	if _, err := widthForBytes(byteWidth); err != nil {
		return Reference{}, err
	}
	offset := len(buf) - 2 - byteWidth
	if offset < 0 {
		return Reference{}, fmt.Errorf("%w: root width %d larger than buffer", ErrOutOfRange, byteWidth)
	}
	return newReference(buf, offset, byteWidth, buf[len(buf)-2])
}

func newReference(buf []byte, offset, parentWidth int, packed uint8) (Reference, error) {
	t := Type(packed >> 2)
	if !t.isValid() {
		return Reference{}, fmt.Errorf("%w: unknown type %d at %d", ErrInvalidData, packed>>2, offset)
	}
	return Reference{
		buf:         buf,
		offset:      offset,
		parentWidth: parentWidth,
		byteWidth:   BitWidth(packed & 3).ByteWidth(),
		typ:         t,
	}, nil
}

// Type returns the type of the referenced value.
func (r Reference) Type() Type {
	return r.typ
}

func readUint(buf []byte, offset, byteWidth int) (uint64, error) {
	if offset < 0 || offset+byteWidth > len(buf) {
		return 0, fmt.Errorf("%w: read of %d bytes at %d", ErrOutOfRange, byteWidth, offset)
	}
	switch byteWidth {
	case 1:
		return uint64(buf[offset]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf[offset:])), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf[offset:])), nil
	case 8:
		return binary.LittleEndian.Uint64(buf[offset:]), nil
	}
	return 0, fmt.Errorf("%w: width %d", ErrInvalidData, byteWidth)
}

func readInt(buf []byte, offset, byteWidth int) (int64, error) {
	u, err := readUint(buf, offset, byteWidth)
	if err != nil {
		return 0, err
	}
	switch byteWidth {
	case 1:
		return int64(int8(u)), nil
	case 2:
		return int64(int16(u)), nil
	case 4:
		return int64(int32(u)), nil
	}
	return int64(u), nil
}

func readFloat(buf []byte, offset, byteWidth int) (float64, error) {
	u, err := readUint(buf, offset, byteWidth)
	if err != nil {
		return 0, err
	}
	switch byteWidth {
	case 4:
		return float64(math.Float32frombits(uint32(u))), nil
	case 8:
		return math.Float64frombits(u), nil
	}
	return 0, fmt.Errorf("%w: float of width %d", ErrInvalidData, byteWidth)
}

// indirect follows an offset stored at offset. Offsets never point forward;
// a zero offset is what an empty container or blob at the end of its data
// produces. Self references are caught by the depth and visit limits.
func indirect(buf []byte, offset, byteWidth int) (int, error) {
	rel, err := readUint(buf, offset, byteWidth)
	if err != nil {
		return 0, err
	}
	if rel > uint64(offset) {
		return 0, fmt.Errorf("%w: offset %d at %d", ErrOutOfRange, rel, offset)
	}
	return offset - int(rel), nil
}

func (r Reference) mismatch(want string) error {
	return fmt.Errorf("%w: %v is not %s", ErrTypeMismatch, r.typ, want)
}

// AsInt64 reads an inline or indirect integer.
func (r Reference) AsInt64() (int64, error) {
	switch r.typ {
	case TypeInt:
		return readInt(r.buf, r.offset, r.parentWidth)
	case TypeUint:
		u, err := readUint(r.buf, r.offset, r.parentWidth)
		return int64(u), err
	case TypeIndirectInt:
		at, err := indirect(r.buf, r.offset, r.parentWidth)
		if err != nil {
			return 0, err
		}
		return readInt(r.buf, at, r.byteWidth)
	case TypeIndirectUint:
		at, err := indirect(r.buf, r.offset, r.parentWidth)
		if err != nil {
			return 0, err
		}
		u, err := readUint(r.buf, at, r.byteWidth)
		return int64(u), err
	}
	return 0, r.mismatch("an integer")
}

// AsUint64 reads an inline or indirect unsigned integer.
func (r Reference) AsUint64() (uint64, error) {
	switch r.typ {
	case TypeUint:
		return readUint(r.buf, r.offset, r.parentWidth)
	case TypeInt:
		i, err := readInt(r.buf, r.offset, r.parentWidth)
		return uint64(i), err
	case TypeIndirectUint:
		at, err := indirect(r.buf, r.offset, r.parentWidth)
		if err != nil {
			return 0, err
		}
		return readUint(r.buf, at, r.byteWidth)
	case TypeIndirectInt:
		at, err := indirect(r.buf, r.offset, r.parentWidth)
		if err != nil {
			return 0, err
		}
		i, err := readInt(r.buf, at, r.byteWidth)
		return uint64(i), err
	}
	return 0, r.mismatch("an unsigned integer")
}

// AsFloat64 reads an inline or indirect float.
func (r Reference) AsFloat64() (float64, error) {
	switch r.typ {
	case TypeFloat:
		return readFloat(r.buf, r.offset, r.parentWidth)
	case TypeIndirectFloat:
		at, err := indirect(r.buf, r.offset, r.parentWidth)
		if err != nil {
			return 0, err
		}
		return readFloat(r.buf, at, r.byteWidth)
	}
	return 0, r.mismatch("a float")
}

// AsBool reads a boolean.
func (r Reference) AsBool() (bool, error) {
	if r.typ != TypeBool {
		return false, r.mismatch("a bool")
	}
	u, err := readUint(r.buf, r.offset, r.parentWidth)
	return u != 0, err
}

// AsKey reads a NUL terminated key.
func (r Reference) AsKey() (string, error) {
	if r.typ != TypeKey {
		return "", r.mismatch("a key")
	}
	at, err := indirect(r.buf, r.offset, r.parentWidth)
	if err != nil {
		return "", err
	}
	return readKey(r.buf, at)
}

func readKey(buf []byte, at int) (string, error) {
	end := bytes.IndexByte(buf[at:], 0)
	if end < 0 {
		return "", fmt.Errorf("%w: key at %d", ErrNoNullByte, at)
	}
	return string(buf[at : at+end]), nil
}

// sized returns the payload of a length prefixed value.
func (r Reference) sized() ([]byte, int, error) {
	at, err := indirect(r.buf, r.offset, r.parentWidth)
	if err != nil {
		return nil, 0, err
	}
	size, err := readUint(r.buf, at-r.byteWidth, r.byteWidth)
	if err != nil {
		return nil, 0, err
	}
	if size > uint64(len(r.buf)-at) {
		return nil, 0, fmt.Errorf("%w: %d byte payload at %d", ErrOutOfRange, size, at)
	}
	return r.buf[at : at+int(size)], at + int(size), nil
}

// AsString reads a length prefixed, NUL terminated string.
func (r Reference) AsString() (string, error) {
	if r.typ != TypeString {
		return "", r.mismatch("a string")
	}
	data, end, err := r.sized()
	if err != nil {
		return "", err
	}
	if end >= len(r.buf) || r.buf[end] != 0 {
		return "", fmt.Errorf("%w: string at %d", ErrNoNullByte, end-len(data))
	}
	return string(data), nil
}

// AsBlob reads a length prefixed byte string. The result aliases the buffer.
func (r Reference) AsBlob() ([]byte, error) {
	if r.typ != TypeBlob {
		return nil, r.mismatch("a blob")
	}
	data, _, err := r.sized()
	return data, err
}

// Vector is a view of an untyped, typed or fixed typed vector.
type Vector struct {
	buf       []byte
	data      int
	byteWidth int
	length    int
	elemType  Type
	typed     bool
}

// AsVector reads any kind of vector. A map reads as the vector of its values.
func (r Reference) AsVector() (Vector, error) {
	if r.typ != TypeVector && r.typ != TypeMap && !r.typ.isTypedVector() && !r.typ.isFixedTypedVector() {
		return Vector{}, r.mismatch("a vector")
	}
	data, err := indirect(r.buf, r.offset, r.parentWidth)
	if err != nil {
		return Vector{}, err
	}
	v := Vector{buf: r.buf, data: data, byteWidth: r.byteWidth}
	switch {
	case r.typ.isFixedTypedVector():
		v.elemType, v.length = fixedTypedVectorElement(r.typ)
		v.typed = true
	default:
		n, err := readUint(r.buf, data-r.byteWidth, r.byteWidth)
		if err != nil {
			return Vector{}, err
		}
		if n > uint64(len(r.buf)) {
			return Vector{}, fmt.Errorf("%w: vector length %d", ErrOutOfRange, n)
		}
		v.length = int(n)
		if r.typ.isTypedVector() {
			v.elemType = typedVectorElement(r.typ)
			v.typed = true
		}
	}
	end := data + v.length*v.byteWidth
	if !v.typed {
		end += v.length
	}
	if end > len(r.buf) {
		return Vector{}, fmt.Errorf("%w: vector of %d elements at %d", ErrOutOfRange, v.length, data)
	}
	return v, nil
}

// Len returns the number of elements.
func (v Vector) Len() int {
	return v.length
}

// At returns the i-th element.
func (v Vector) At(i int) (Reference, error) {
	if i < 0 || i >= v.length {
		return Reference{}, fmt.Errorf("%w: index %d of %d", ErrOutOfRange, i, v.length)
	}
	offset := v.data + i*v.byteWidth
	if v.typed {
		return Reference{buf: v.buf, offset: offset, parentWidth: v.byteWidth, byteWidth: v.byteWidth, typ: v.elemType}, nil
	}
	return newReference(v.buf, offset, v.byteWidth, v.buf[v.data+v.length*v.byteWidth+i])
}

// Map is a view of a map: a sorted key vector and a parallel value vector.
type Map struct {
	Vector
	keys Vector
}

// AsMap reads a map.
func (r Reference) AsMap() (Map, error) {
	if r.typ != TypeMap {
		return Map{}, r.mismatch("a map")
	}
	values, err := r.AsVector()
	if err != nil {
		return Map{}, err
	}
	prefix := values.data - 3*values.byteWidth
	keysWidth, err := readUint(r.buf, prefix+values.byteWidth, values.byteWidth)
	if err != nil {
		return Map{}, err
	}
	keysRef := Reference{buf: r.buf, offset: prefix, parentWidth: values.byteWidth, byteWidth: int(keysWidth), typ: TypeVectorKey}
	if _, err := widthForBytes(int(keysWidth)); err != nil {
		return Map{}, err
	}
	keys, err := keysRef.AsVector()
	if err != nil {
		return Map{}, err
	}
	if keys.length != values.length {
		return Map{}, fmt.Errorf("%w: %d keys for %d values", ErrInvalidData, keys.length, values.length)
	}
	return Map{Vector: values, keys: keys}, nil
}

// Key returns the i-th key in sorted order.
func (m Map) Key(i int) (string, error) {
	ref, err := m.keys.At(i)
	if err != nil {
		return "", err
	}
	return ref.AsKey()
}

// Value returns the value paired with the i-th key.
func (m Map) Value(i int) (Reference, error) {
	return m.At(i)
}

// Get looks a key up by binary search.
func (m Map) Get(key string) (Reference, bool, error) {
	var searchErr error
	i := sort.Search(m.length, func(i int) bool {
		k, err := m.Key(i)
		if err != nil {
			searchErr = err
			return true
		}
		return k >= key
	})
	if searchErr != nil {
		return Reference{}, false, searchErr
	}
	if i == m.length {
		return Reference{}, false, nil
	}
	k, err := m.Key(i)
	if err != nil || k != key {
		return Reference{}, false, err
	}
	ref, err := m.At(i)
	return ref, err == nil, err
}

type walker struct {
	budget int
}

// Interface converts the referenced value into plain Go values: nil,
// int64, uint64, float64, bool, string, []byte, []interface{} and
// map[string]interface{}.
func (r Reference) Interface() (interface{}, error) {
	w := walker{budget: maxVisitsPerByte*len(r.buf) + 16}
	return w.value(r, 0)
}

func (w *walker) value(r Reference, depth int) (interface{}, error) {
	w.budget--
	if depth > MaxNestingDepth || w.budget < 0 {
		return nil, fmt.Errorf("%w: at depth %d", ErrRecursiveData, depth)
	}
	switch r.typ {
	case TypeNull:
		return nil, nil
	case TypeInt, TypeIndirectInt:
		return r.AsInt64()
	case TypeUint, TypeIndirectUint:
		return r.AsUint64()
	case TypeFloat, TypeIndirectFloat:
		return r.AsFloat64()
	case TypeBool:
		return r.AsBool()
	case TypeKey:
		return r.AsKey()
	case TypeString:
		return r.AsString()
	case TypeBlob:
		data, err := r.AsBlob()
		if err != nil {
			return nil, err
		}
		return append([]byte{}, data...), nil
	case TypeMap:
		m, err := r.AsMap()
		if err != nil {
			return nil, err
		}
		out := make(map[string]interface{}, m.Len())
		prev := ""
		for i := 0; i < m.Len(); i++ {
			k, err := m.Key(i)
			if err != nil {
				return nil, err
			}
			if i > 0 && k <= prev {
				return nil, fmt.Errorf("%w: map keys out of order at %q", ErrInvalidData, k)
			}
			prev = k
			ref, err := m.Value(i)
			if err != nil {
				return nil, err
			}
			if out[k], err = w.value(ref, depth+1); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	vec, err := r.AsVector()
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, vec.Len())
	for i := range out {
		ref, err := vec.At(i)
		if err != nil {
			return nil, err
		}
		if out[i], err = w.value(ref, depth+1); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Validate checks that buf holds a single well formed value tree.
func Validate(buf []byte) error {
	root, err := Root(buf)
	if err != nil {
		return err
	}
	_, err = root.Interface()
	return err
}
