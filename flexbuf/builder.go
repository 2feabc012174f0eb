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
	"strings"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrEmptyDocument is returned when Finish is called before any value was added.
	ErrEmptyDocument = errors.New("empty document")
	// ErrMultipleRoots is returned when Finish finds more than one top level value.
	ErrMultipleRoots = errors.New("document has more than one root value")
	// ErrUnclosedContainer is returned when Finish is called inside a map or vector.
	ErrUnclosedContainer = errors.New("container was not closed")
	// ErrUnbalancedEnd is returned when a container is closed that was never opened.
	ErrUnbalancedEnd = errors.New("end without matching begin")
	// ErrOddSizeMap is returned when a map ends with a key that has no value.
	ErrOddSizeMap = errors.New("map expecting even items, but got odd items")
	// ErrMapKeyType is returned when a map slot expected to hold a key holds something else.
	ErrMapKeyType = errors.New("odd element of map must be a key")
	// ErrDuplicateKey is returned when a map holds the same key twice.
	ErrDuplicateKey = errors.New("duplicate map key")
	// ErrMixedTypedVector is returned when a typed vector holds more than one element type.
	ErrMixedTypedVector = errors.New("typed vector elements must share one type")
	// ErrNotFinished is returned by Bytes before Finish succeeded.
	ErrNotFinished = errors.New("builder is not finished")
)

// BuilderFlag selects which payloads the builder deduplicates.
type BuilderFlag int

const (
	// BuilderFlagNone writes every key and string out in full.
	BuilderFlagNone BuilderFlag = 0
	// BuilderFlagShareKeys writes each distinct key once.
	BuilderFlagShareKeys BuilderFlag = 1
	// BuilderFlagShareStrings writes each distinct string once.
	BuilderFlagShareStrings BuilderFlag = 2
	// BuilderFlagShareKeysAndStrings combines the two above.
	BuilderFlagShareKeysAndStrings BuilderFlag = 3
	// BuilderFlagShareKeyVectors reuses the key vector of maps with identical key sets.
	BuilderFlagShareKeyVectors BuilderFlag = 4
	// BuilderFlagShareAll enables every form of sharing.
	BuilderFlagShareAll BuilderFlag = 7
)

// value is one pending element on the builder stack. Inline values hold
// their payload; all other types hold the absolute location of their data.
type value struct {
	u           uint64
	f           float64
	typ         Type
	minBitWidth BitWidth
}

func (v value) asInt() int64 {
	return int64(v.u)
}

// elemWidth is the width needed to store v as element elemIndex of a
// vector starting at the current end of the buffer.
func (v value) elemWidth(bufSize, elemIndex int) BitWidth {
	if v.typ.IsInline() {
		return v.minBitWidth
	}
	// Whether a relative offset fits depends on the padding and the
	// elements before it, so each candidate width is tried in turn.
	for byteWidth := 1; byteWidth <= 8; byteWidth *= 2 {
		offsetLoc := bufSize + paddingBytes(bufSize, byteWidth) + elemIndex*byteWidth
		bw := widthU(uint64(offsetLoc) - v.u)
		if bw.ByteWidth() == byteWidth {
			return bw
		}
	}
	return BitWidth64
}

func (v value) storedWidth(parent BitWidth) BitWidth {
	if v.typ.IsInline() {
		return maxWidth(v.minBitWidth, parent)
	}
	return v.minBitWidth
}

func (v value) storedPackedType(parent BitWidth) uint8 {
	return packedType(v.storedWidth(parent), v.typ)
}

type sharedBlob struct {
	loc      int
	size     int
	bitWidth BitWidth
}

type container struct {
	start int
	isMap bool
	typed bool
}

// Builder accumulates FlexBuffers values. Scalars are pushed on a stack;
// containers are serialized when they end, and Finish writes the root.
// Errors are latched and reported by Finish.
type Builder struct {
	buf      []byte
	stack    []value
	open     []container
	flags    BuilderFlag
	finished bool
	err      error

	keyPool       map[uint64]sharedBlob
	stringPool    map[uint64]sharedBlob
	keyVectorPool map[string]value
}

// NewBuilder returns an empty builder that shares nothing.
func NewBuilder() *Builder {
	return NewBuilderWithFlags(BuilderFlagNone)
}

// NewBuilderWithFlags returns an empty builder with the given sharing flags.
func NewBuilderWithFlags(flags BuilderFlag) *Builder {
	b := &Builder{flags: flags}
	b.Reset()
	return b
}

// Reset discards everything written so far, keeping the flags.
func (b *Builder) Reset() {
	b.buf = make([]byte, 0, 64)
	b.stack = nil
	b.open = nil
	b.finished = false
	b.err = nil
	b.keyPool = nil
	b.stringPool = nil
	b.keyVectorPool = nil
	if b.flags&BuilderFlagShareKeys != 0 {
		b.keyPool = make(map[uint64]sharedBlob)
	}
	if b.flags&BuilderFlagShareStrings != 0 {
		b.stringPool = make(map[uint64]sharedBlob)
	}
	if b.flags&BuilderFlagShareKeyVectors != 0 {
		b.keyVectorPool = make(map[string]value)
	}
}

// Size returns the number of bytes written so far.
func (b *Builder) Size() int {
	return len(b.buf)
}

// Bytes returns the finished buffer.
func (b *Builder) Bytes() ([]byte, error) {
	if !b.finished {
		return nil, ErrNotFinished
	}
	return b.buf, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) push(v value) {
	b.stack = append(b.stack, v)
}

// Null adds a null value.
func (b *Builder) Null() {
	b.push(value{typ: TypeNull})
}

// Int adds a signed integer stored inline at its minimal width.
func (b *Builder) Int(i int64) {
	b.push(value{u: uint64(i), typ: TypeInt, minBitWidth: widthI(i)})
}

// UInt adds an unsigned integer stored inline at its minimal width.
func (b *Builder) UInt(u uint64) {
	b.push(value{u: u, typ: TypeUint, minBitWidth: widthU(u)})
}

// Float32 adds a single precision float stored inline.
func (b *Builder) Float32(f float32) {
	b.push(value{f: float64(f), typ: TypeFloat, minBitWidth: BitWidth32})
}

// Float64 adds a double, narrowed to 32 bits when that is lossless.
func (b *Builder) Float64(f float64) {
	b.push(value{f: f, typ: TypeFloat, minBitWidth: widthF(f)})
}

// Bool adds a boolean.
func (b *Builder) Bool(v bool) {
	var u uint64
	if v {
		u = 1
	}
	b.push(value{u: u, typ: TypeBool})
}

func (b *Builder) pushIndirect(bw BitWidth, t Type, write func(byteWidth int)) {
	byteWidth := b.align(bw)
	loc := len(b.buf)
	write(byteWidth)
	b.push(value{u: uint64(loc), typ: t, minBitWidth: bw})
}

// IndirectInt adds a signed integer stored out of line and referenced by offset.
func (b *Builder) IndirectInt(i int64) {
	b.pushIndirect(widthI(i), TypeIndirectInt, func(byteWidth int) { b.writeUint(uint64(i), byteWidth) })
}

// IndirectUInt adds an unsigned integer stored out of line.
func (b *Builder) IndirectUInt(u uint64) {
	b.pushIndirect(widthU(u), TypeIndirectUint, func(byteWidth int) { b.writeUint(u, byteWidth) })
}

// IndirectFloat32 adds a single precision float stored out of line.
func (b *Builder) IndirectFloat32(f float32) {
	b.pushIndirect(BitWidth32, TypeIndirectFloat, func(byteWidth int) { b.writeFloat(float64(f), byteWidth) })
}

// IndirectFloat64 adds a double stored out of line, narrowed when lossless.
func (b *Builder) IndirectFloat64(f float64) {
	b.pushIndirect(widthF(f), TypeIndirectFloat, func(byteWidth int) { b.writeFloat(f, byteWidth) })
}

// Key adds a NUL terminated key. Inside a map it names the value that follows;
// anywhere else it is a value of type key.
func (b *Builder) Key(key string) {
	if strings.IndexByte(key, 0) >= 0 {
		b.fail(fmt.Errorf("%w: key %q contains a NUL byte", ErrInvalidData, key))
	}
	var hash uint64
	if b.keyPool != nil {
		hash = xxhash.Sum64String(key)
		if prev, ok := b.keyPool[hash]; ok && string(b.buf[prev.loc:prev.loc+prev.size]) == key {
			b.push(value{u: uint64(prev.loc), typ: TypeKey})
			return
		}
	}
	loc := len(b.buf)
	b.buf = append(b.buf, key...)
	b.buf = append(b.buf, 0)
	if b.keyPool != nil {
		if _, taken := b.keyPool[hash]; !taken {
			b.keyPool[hash] = sharedBlob{loc: loc, size: len(key)}
		}
	}
	b.push(value{u: uint64(loc), typ: TypeKey})
}

// MapKey adds the key for the next value of the enclosing map.
func (b *Builder) MapKey(key string) {
	b.Key(key)
}

// String adds a length prefixed, NUL terminated string.
func (b *Builder) String(s string) {
	var hash uint64
	if b.stringPool != nil {
		hash = xxhash.Sum64String(s)
		if prev, ok := b.stringPool[hash]; ok && string(b.buf[prev.loc:prev.loc+prev.size]) == s {
			b.push(value{u: uint64(prev.loc), typ: TypeString, minBitWidth: prev.bitWidth})
			return
		}
	}
	loc, bw := b.createBlob([]byte(s), 1, TypeString)
	if b.stringPool != nil {
		if _, taken := b.stringPool[hash]; !taken {
			b.stringPool[hash] = sharedBlob{loc: loc, size: len(s), bitWidth: bw}
		}
	}
}

// Blob adds a length prefixed byte string.
func (b *Builder) Blob(data []byte) {
	b.createBlob(data, 0, TypeBlob)
}

func (b *Builder) createBlob(data []byte, trailing int, t Type) (int, BitWidth) {
	bw := widthU(uint64(len(data)))
	byteWidth := b.align(bw)
	b.writeUint(uint64(len(data)), byteWidth)
	loc := len(b.buf)
	b.buf = append(b.buf, data...)
	for i := 0; i < trailing; i++ {
		b.buf = append(b.buf, 0)
	}
	b.push(value{u: uint64(loc), typ: t, minBitWidth: bw})
	return loc, bw
}

// BeginMap opens a map. Its contents are alternating keys and values. The
// size hint is not needed by this format.
func (b *Builder) BeginMap(int) {
	b.open = append(b.open, container{start: len(b.stack), isMap: true})
}

// BeginVector opens an untyped vector.
func (b *Builder) BeginVector(int) {
	b.open = append(b.open, container{start: len(b.stack)})
}

// BeginTypedVector opens a vector whose elements all share one type, which
// is then stored once instead of per element.
func (b *Builder) BeginTypedVector() {
	b.open = append(b.open, container{start: len(b.stack), typed: true})
}

func (b *Builder) closeContainer(isMap bool) (container, bool) {
	if len(b.open) == 0 || b.open[len(b.open)-1].isMap != isMap {
		b.fail(ErrUnbalancedEnd)
		return container{}, false
	}
	c := b.open[len(b.open)-1]
	b.open = b.open[:len(b.open)-1]
	return c, true
}

// EndVector closes the innermost vector.
func (b *Builder) EndVector() {
	c, ok := b.closeContainer(false)
	if !ok {
		return
	}
	vec, err := b.createVector(c.start, len(b.stack)-c.start, 1, c.typed, false, nil)
	if err != nil {
		b.fail(err)
		return
	}
	b.stack = append(b.stack[:c.start], vec)
}

type mapEntries struct {
	b       *Builder
	entries []value
}

func (m mapEntries) Len() int { return len(m.entries) / 2 }

func (m mapEntries) Less(i, j int) bool {
	return bytes.Compare(m.b.keyBytes(m.entries[2*i]), m.b.keyBytes(m.entries[2*j])) < 0
}

func (m mapEntries) Swap(i, j int) {
	e := m.entries
	e[2*i], e[2*j] = e[2*j], e[2*i]
	e[2*i+1], e[2*j+1] = e[2*j+1], e[2*i+1]
}

func (b *Builder) keyBytes(v value) []byte {
	loc := int(v.u)
	end := bytes.IndexByte(b.buf[loc:], 0)
	return b.buf[loc : loc+end]
}

// EndMap closes the innermost map, sorting its entries by key.
func (b *Builder) EndMap() {
	c, ok := b.closeContainer(true)
	if !ok {
		return
	}
	n := len(b.stack) - c.start
	if n&1 != 0 {
		b.fail(ErrOddSizeMap)
		return
	}
	n /= 2
	for i := c.start; i < len(b.stack); i += 2 {
		if b.stack[i].typ != TypeKey {
			b.fail(ErrMapKeyType)
			return
		}
	}
	entries := mapEntries{b: b, entries: b.stack[c.start:]}
	sort.Sort(entries)
	for i := 1; i < n; i++ {
		if bytes.Equal(b.keyBytes(entries.entries[2*i-2]), b.keyBytes(entries.entries[2*i])) {
			b.fail(fmt.Errorf("%w: %q", ErrDuplicateKey, b.keyBytes(entries.entries[2*i])))
			return
		}
	}

	var keys value
	var poolKey string
	shared := false
	if b.keyVectorPool != nil {
		parts := make([]string, 0, n)
		for i := c.start; i < len(b.stack); i += 2 {
			parts = append(parts, string(b.keyBytes(b.stack[i])))
		}
		poolKey = strings.Join(parts, "\x00")
		keys, shared = b.keyVectorPool[poolKey]
	}
	if !shared {
		var err error
		keys, err = b.createVector(c.start, n, 2, true, false, nil)
		if err != nil {
			b.fail(err)
			return
		}
		if b.keyVectorPool != nil {
			b.keyVectorPool[poolKey] = keys
		}
	}
	vec, err := b.createVector(c.start+1, n, 2, false, false, &keys)
	if err != nil {
		b.fail(err)
		return
	}
	b.stack = append(b.stack[:c.start], vec)
}

// Map is a convenience wrapper that runs fn between BeginMap and EndMap.
func (b *Builder) Map(fn func()) {
	b.BeginMap(0)
	fn()
	b.EndMap()
}

// Vector runs fn between BeginVector and EndVector.
func (b *Builder) Vector(fn func()) {
	b.BeginVector(0)
	fn()
	b.EndVector()
}

// TypedVector runs fn between BeginTypedVector and EndVector.
func (b *Builder) TypedVector(fn func()) {
	b.BeginTypedVector()
	fn()
	b.EndVector()
}

func (b *Builder) createVector(start, vecLen, step int, typed, fixed bool, keys *value) (value, error) {
	bw := widthU(uint64(vecLen))
	prefixElems := 1
	if keys != nil {
		// maps are prefixed with the offset and byte width of their key vector
		bw = maxWidth(bw, keys.elemWidth(len(b.buf), 0))
		prefixElems += 2
	}
	vectorType := TypeKey
	for i := start; i < len(b.stack); i += step {
		elem := b.stack[i]
		bw = maxWidth(bw, elem.elemWidth(len(b.buf), (i-start)/step+prefixElems))
		if typed {
			if i == start {
				vectorType = elem.typ
			} else if elem.typ != vectorType {
				return value{}, fmt.Errorf("%w: %v and %v", ErrMixedTypedVector, vectorType, elem.typ)
			}
		}
	}
	// String elements would need their size width stored per element.
	if typed && (!vectorType.isTypedVectorElement() || vectorType == TypeString) {
		return value{}, fmt.Errorf("%w: %v cannot be a typed vector element", ErrMixedTypedVector, vectorType)
	}
	byteWidth := b.align(bw)
	if keys != nil {
		if err := b.writeOffset(keys.u, byteWidth); err != nil {
			return value{}, err
		}
		b.writeUint(uint64(keys.minBitWidth.ByteWidth()), byteWidth)
	}
	if !fixed {
		b.writeUint(uint64(vecLen), byteWidth)
	}
	loc := len(b.buf)
	for i := start; i < len(b.stack); i += step {
		if err := b.writeAny(b.stack[i], byteWidth); err != nil {
			return value{}, err
		}
	}
	if !typed {
		for i := start; i < len(b.stack); i += step {
			b.buf = append(b.buf, b.stack[i].storedPackedType(bw))
		}
	}
	t := TypeVector
	switch {
	case keys != nil:
		t = TypeMap
	case typed && fixed:
		t = toTypedVector(vectorType, vecLen)
	case typed:
		t = toTypedVector(vectorType, 0)
	}
	return value{u: uint64(loc), typ: t, minBitWidth: bw}, nil
}

// Finish writes the single root value followed by its packed type and byte
// width. The returned slice is owned by the builder until Reset.
func (b *Builder) Finish() ([]byte, error) {
	if b.finished {
		return b.buf, nil
	}
	if b.err != nil {
		return nil, b.err
	}
	if len(b.open) != 0 {
		return nil, ErrUnclosedContainer
	}
	switch len(b.stack) {
	case 0:
		return nil, ErrEmptyDocument
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d values", ErrMultipleRoots, len(b.stack))
	}
	root := b.stack[0]
	byteWidth := b.align(root.elemWidth(len(b.buf), 0))
	if err := b.writeAny(root, byteWidth); err != nil {
		return nil, err
	}
	b.buf = append(b.buf, root.storedPackedType(BitWidth8), byte(byteWidth))
	b.finished = true
	return b.buf, nil
}

func (b *Builder) align(bw BitWidth) int {
	byteWidth := bw.ByteWidth()
	for i := paddingBytes(len(b.buf), byteWidth); i > 0; i-- {
		b.buf = append(b.buf, 0)
	}
	return byteWidth
}

func (b *Builder) writeUint(u uint64, byteWidth int) {
	switch byteWidth {
	case 1:
		b.buf = append(b.buf, byte(u))
	case 2:
		b.buf = binary.LittleEndian.AppendUint16(b.buf, uint16(u))
	case 4:
		b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(u))
	default:
		b.buf = binary.LittleEndian.AppendUint64(b.buf, u)
	}
}

func (b *Builder) writeFloat(f float64, byteWidth int) {
	if byteWidth == 4 {
		b.buf = binary.LittleEndian.AppendUint32(b.buf, math.Float32bits(float32(f)))
		return
	}
	b.buf = binary.LittleEndian.AppendUint64(b.buf, math.Float64bits(f))
}

func (b *Builder) writeOffset(loc uint64, byteWidth int) error {
	reloff := uint64(len(b.buf)) - loc
	if byteWidth != 8 && reloff >= 1<<(8*byteWidth) {
		return fmt.Errorf("%w: offset %d does not fit in %d bytes", ErrOutOfRange, reloff, byteWidth)
	}
	b.writeUint(reloff, byteWidth)
	return nil
}

func (b *Builder) writeAny(v value, byteWidth int) error {
	switch v.typ {
	case TypeNull, TypeInt:
		b.writeUint(uint64(v.asInt()), byteWidth)
	case TypeBool, TypeUint:
		b.writeUint(v.u, byteWidth)
	case TypeFloat:
		if byteWidth < 4 {
			return fmt.Errorf("%w: float in a %d byte slot", ErrInvalidData, byteWidth)
		}
		b.writeFloat(v.f, byteWidth)
	default:
		return b.writeOffset(v.u, byteWidth)
	}
	return nil
}
