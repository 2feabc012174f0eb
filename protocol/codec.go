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

// Package protocol holds the msgpack and JSON codecs that sit beside the
// FlexBuffers engine: go-codec handles for decoding and rendering values,
// and a msgp based event sink that writes generated trees as msgpack.
package protocol

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/algorand/go-codec/codec"
)

// ErrInvalidObject is used to state that an object decoding has failed because it's invalid.
var ErrInvalidObject = errors.New("unmarshalled object is invalid")

// CodecHandle is used to instantiate msgpack encoders and decoders
// with our settings (canonical, strings decoded as strings, maps
// decoded with string keys)
var CodecHandle *codec.MsgpackHandle

// JSONHandle is used to instantiate JSON encoders and decoders with our
// settings (canonical, indented, objects decoded with string keys)
var JSONHandle *codec.JsonHandle

func init() {
	CodecHandle = new(codec.MsgpackHandle)
	CodecHandle.Canonical = true
	CodecHandle.WriteExt = true
	CodecHandle.RawToString = true
	CodecHandle.MapType = reflect.TypeOf(map[string]interface{}(nil))

	JSONHandle = new(codec.JsonHandle)
	JSONHandle.Canonical = true
	JSONHandle.Indent = 2
	JSONHandle.HTMLCharsAsIs = true
	JSONHandle.MapType = reflect.TypeOf(map[string]interface{}(nil))
}

// EncodeReflect returns a msgpack-encoded byte buffer for a given object,
// using reflection.
func EncodeReflect(obj interface{}) ([]byte, error) {
	var b []byte
	enc := codec.NewEncoderBytes(&b, CodecHandle)
	if err := enc.Encode(obj); err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeMsgpack decodes a single msgpack value into plain Go values. Any
// bytes left after the value are an error.
func DecodeMsgpack(b []byte) (interface{}, error) {
	var out interface{}
	dec := codec.NewDecoderBytes(b, CodecHandle)
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidObject, err)
	}
	var extra interface{}
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing bytes after value", ErrInvalidObject)
	}
	return out, nil
}

// EncodeJSON returns a JSON-encoded byte buffer for a given object
func EncodeJSON(obj interface{}) ([]byte, error) {
	var b []byte
	enc := codec.NewEncoderBytes(&b, JSONHandle)
	if err := enc.Encode(obj); err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeJSON attempts to decode a JSON-encoded byte buffer into an
// object instance pointed to by objptr
func DecodeJSON(b []byte, objptr interface{}) error {
	dec := codec.NewDecoderBytes(b, JSONHandle)
	return dec.Decode(objptr)
}

// NewJSONEncoder returns an encoder object writing bytes into [w].
func NewJSONEncoder(w io.Writer) *codec.Encoder {
	return codec.NewEncoder(w, JSONHandle)
}
