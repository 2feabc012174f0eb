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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/algorand/go-flexcorpus/gen"
	"github.com/algorand/go-flexcorpus/test/partitiontest"
)

var _ gen.Encoder = (*MsgpEncoder)(nil)

func TestMsgpEncoderSimpleMap(t *testing.T) {
	partitiontest.PartitionTest(t)

	e := NewMsgpEncoder()
	e.BeginMap(1)
	e.MapKey("foo")
	e.String("bar")
	e.EndMap()
	out, err := e.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{0x81, 0xa3, 'f', 'o', 'o', 0xa3, 'b', 'a', 'r'}, out)

	dec, err := DecodeMsgpack(out)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"foo": "bar"}, normalize(dec))
}

func TestMsgpEncoderScalars(t *testing.T) {
	partitiontest.PartitionTest(t)

	e := NewMsgpEncoder()
	e.BeginVector(9)
	e.Null()
	e.Int(-129)
	e.UInt(1 << 63)
	e.IndirectInt(7)
	e.Float32(0.5)
	e.IndirectFloat64(0.25)
	e.Key("k")
	e.Blob([]byte("ab"))
	e.Bool(false)
	e.EndVector()
	out, err := e.Finish()
	require.NoError(t, err)

	dec, err := DecodeMsgpack(out)
	require.NoError(t, err)
	require.Equal(t, []interface{}{
		nil, int64(-129), uint64(1 << 63), int64(7), 0.5, 0.25, "k", "ab", false,
	}, normalize(dec))
}

func TestMsgpEncoderSequencing(t *testing.T) {
	partitiontest.PartitionTest(t)

	cases := []struct {
		name   string
		events func(e *MsgpEncoder)
	}{
		{"empty", func(e *MsgpEncoder) {}},
		{"two roots", func(e *MsgpEncoder) { e.Null(); e.Null() }},
		{"short vector", func(e *MsgpEncoder) { e.BeginVector(2); e.Null(); e.EndVector() }},
		{"long vector", func(e *MsgpEncoder) { e.BeginVector(0); e.Null(); e.EndVector() }},
		{"missing key", func(e *MsgpEncoder) { e.BeginMap(1); e.Null(); e.EndMap() }},
		{"dangling key", func(e *MsgpEncoder) { e.BeginMap(1); e.MapKey("a"); e.EndMap() }},
		{"key outside map", func(e *MsgpEncoder) { e.MapKey("a") }},
		{"unclosed", func(e *MsgpEncoder) { e.BeginVector(0) }},
		{"mismatched end", func(e *MsgpEncoder) { e.BeginVector(0); e.EndMap() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewMsgpEncoder()
			tc.events(e)
			_, err := e.Finish()
			require.ErrorIs(t, err, ErrEventOrder)

			e.Reset()
			e.Bool(true)
			out, err := e.Finish()
			require.NoError(t, err)
			require.Equal(t, []byte{0xc3}, out)
		})
	}
}

// plain renders a generated tree with the value types msgpack can express.
func plain(v *gen.Value) interface{} {
	switch v.Kind {
	case gen.KindInt, gen.KindIndirectInt:
		return v.Int
	case gen.KindUInt, gen.KindIndirectUInt:
		return v.Uint
	case gen.KindFloat, gen.KindIndirectFloat:
		return v.Float
	case gen.KindKey, gen.KindString:
		return v.Str
	case gen.KindBlob:
		return v.Bytes
	case gen.KindBool:
		return v.Bool
	case gen.KindMap:
		m := make(map[string]interface{}, len(v.Keys))
		for i := range v.Children {
			m[v.Keys[i]] = plain(&v.Children[i])
		}
		return m
	case gen.KindVector:
		out := make([]interface{}, len(v.Children))
		for i := range v.Children {
			out[i] = plain(&v.Children[i])
		}
		return out
	}
	return nil
}

func TestMsgpEncoderGeneratedTrees(t *testing.T) {
	partitiontest.PartitionTest(t)

	rapid.Check(t, func(t *rapid.T) {
		g, err := gen.NewGenerator(rapid.Uint64().Draw(t, "seed"))
		require.NoError(t, err)
		root := g.Generate()

		out, err := gen.Encode(root, NewMsgpEncoder())
		require.NoError(t, err)
		dec, err := DecodeMsgpack(out)
		require.NoError(t, err)
		if diff := cmp.Diff(normalize(plain(root)), normalize(dec), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("msgpack round trip differs:\n%s", diff)
		}
	})
}
