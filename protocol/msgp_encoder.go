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

package protocol

import (
	"errors"
	"fmt"
	"math"

	"github.com/algorand/msgp/msgp"
)

// ErrEventOrder is returned when MsgpEncoder receives events that do not
// describe exactly one well formed value.
var ErrEventOrder = errors.New("invalid encoder event sequence")

type msgpFrame struct {
	isMap bool
	size  int
	n     int
	keyed bool
}

// MsgpEncoder writes a stream of value events as msgpack. Container sizes
// are announced up front, so BeginMap and BeginVector must be given the
// exact number of entries that follow. Indirect scalars have no msgpack
// counterpart and are written inline; keys used as values become strings.
type MsgpEncoder struct {
	buf   []byte
	stack []msgpFrame
	roots int
	err   error
}

// NewMsgpEncoder returns an empty encoder.
func NewMsgpEncoder() *MsgpEncoder {
	return &MsgpEncoder{buf: make([]byte, 0, 64)}
}

func (e *MsgpEncoder) fail(format string, args ...interface{}) {
	if e.err == nil {
		e.err = fmt.Errorf("%w: %s", ErrEventOrder, fmt.Sprintf(format, args...))
	}
}

// value accounts for one value about to be written.
func (e *MsgpEncoder) value() {
	if len(e.stack) == 0 {
		e.roots++
		return
	}
	top := &e.stack[len(e.stack)-1]
	if top.isMap {
		if !top.keyed {
			e.fail("map value without a key")
		}
		top.keyed = false
	}
	top.n++
	if top.n > top.size {
		e.fail("container announced %d entries, got more", top.size)
	}
}

func (e *MsgpEncoder) begin(isMap bool, size int) {
	e.value()
	if size < 0 || uint64(size) > math.MaxUint32 {
		e.fail("container size %d", size)
		size = 0
	}
	e.stack = append(e.stack, msgpFrame{isMap: isMap, size: size})
	if isMap {
		e.buf = msgp.AppendMapHeader(e.buf, uint32(size))
	} else {
		e.buf = msgp.AppendArrayHeader(e.buf, uint32(size))
	}
}

func (e *MsgpEncoder) end(isMap bool) {
	if len(e.stack) == 0 || e.stack[len(e.stack)-1].isMap != isMap {
		e.fail("end without matching begin")
		return
	}
	top := e.stack[len(e.stack)-1]
	if top.keyed {
		e.fail("map ended after a key")
	}
	if top.n != top.size {
		e.fail("container announced %d entries, got %d", top.size, top.n)
	}
	e.stack = e.stack[:len(e.stack)-1]
}

// BeginMap opens a map of size entries.
func (e *MsgpEncoder) BeginMap(size int) { e.begin(true, size) }

// EndMap closes the innermost map.
func (e *MsgpEncoder) EndMap() { e.end(true) }

// BeginVector opens an array of size elements.
func (e *MsgpEncoder) BeginVector(size int) { e.begin(false, size) }

// EndVector closes the innermost array.
func (e *MsgpEncoder) EndVector() { e.end(false) }

// MapKey writes the key of the next map entry.
func (e *MsgpEncoder) MapKey(key string) {
	if len(e.stack) == 0 || !e.stack[len(e.stack)-1].isMap || e.stack[len(e.stack)-1].keyed {
		e.fail("map key %q outside a map value slot", key)
		return
	}
	e.stack[len(e.stack)-1].keyed = true
	e.buf = msgp.AppendString(e.buf, key)
}

func (e *MsgpEncoder) Null() {
	e.value()
	e.buf = msgp.AppendNil(e.buf)
}

func (e *MsgpEncoder) Int(i int64) {
	e.value()
	e.buf = msgp.AppendInt64(e.buf, i)
}

func (e *MsgpEncoder) UInt(u uint64) {
	e.value()
	e.buf = msgp.AppendUint64(e.buf, u)
}

func (e *MsgpEncoder) Float32(f float32) {
	e.value()
	e.buf = msgp.AppendFloat32(e.buf, f)
}

func (e *MsgpEncoder) Float64(f float64) {
	e.value()
	e.buf = msgp.AppendFloat64(e.buf, f)
}

func (e *MsgpEncoder) IndirectInt(i int64)       { e.Int(i) }
func (e *MsgpEncoder) IndirectUInt(u uint64)     { e.UInt(u) }
func (e *MsgpEncoder) IndirectFloat32(f float32) { e.Float32(f) }
func (e *MsgpEncoder) IndirectFloat64(f float64) { e.Float64(f) }

func (e *MsgpEncoder) Key(key string) {
	e.String(key)
}

func (e *MsgpEncoder) String(s string) {
	e.value()
	e.buf = msgp.AppendString(e.buf, s)
}

func (e *MsgpEncoder) Blob(b []byte) {
	e.value()
	e.buf = msgp.AppendBytes(e.buf, b)
}

func (e *MsgpEncoder) Bool(b bool) {
	e.value()
	e.buf = msgp.AppendBool(e.buf, b)
}

// Finish returns the encoded value, or the first sequencing error.
func (e *MsgpEncoder) Finish() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(e.stack) != 0 {
		return nil, fmt.Errorf("%w: %d containers left open", ErrEventOrder, len(e.stack))
	}
	if e.roots != 1 {
		return nil, fmt.Errorf("%w: %d root values", ErrEventOrder, e.roots)
	}
	return e.buf, nil
}

// Reset discards all state so the encoder can be reused. Buffers returned
// by Finish stay valid.
func (e *MsgpEncoder) Reset() {
	e.buf = make([]byte, 0, 64)
	e.stack = e.stack[:0]
	e.roots = 0
	e.err = nil
}
