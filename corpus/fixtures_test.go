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
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-flexcorpus/flexbuf"
	"github.com/algorand/go-flexcorpus/logging"
	"github.com/algorand/go-flexcorpus/test/partitiontest"
)

func decodeFixture(t *testing.T, name string) (flexbuf.Type, interface{}) {
	t.Helper()
	for _, f := range Fixtures() {
		if f.Name != name {
			continue
		}
		data, err := f.Encode()
		require.NoError(t, err)
		root, err := flexbuf.Root(data)
		require.NoError(t, err)
		v, err := root.Interface()
		require.NoError(t, err)
		return root.Type(), v
	}
	t.Fatalf("no fixture %s", name)
	return 0, nil
}

func TestFixturesDecode(t *testing.T) {
	partitiontest.PartitionTest(t)

	tests := []struct {
		name string
		typ  flexbuf.Type
		want interface{}
	}{
		{"single_int_1", flexbuf.TypeInt, int64(1)},
		{"single_uint_1", flexbuf.TypeUint, uint64(1)},
		{"single_float_1", flexbuf.TypeFloat, float64(1)},
		{"single_double_1", flexbuf.TypeFloat, float64(1)},
		{"single_indirect_int_1", flexbuf.TypeIndirectInt, int64(1)},
		{"single_indirect_float_1", flexbuf.TypeIndirectFloat, float64(1)},
		{"single_indirect_double_1", flexbuf.TypeIndirectFloat, float64(1)},
		{"simple_string", flexbuf.TypeString, "hello flexbuffers!"},
		{"simple_blob", flexbuf.TypeBlob, []byte{0, 3, 9, 0, 0}},
		{"simple_map", flexbuf.TypeMap, map[string]interface{}{"foo": "bar"}},
		{"flat_multiple_map", flexbuf.TypeMap, map[string]interface{}{
			"foo": "bar", "a": int64(123), "b": float64(12),
		}},
		{"simple_vector", flexbuf.TypeVector, []interface{}{int64(1), int64(256), int64(65546)}},
		{"simple_typed_vector", flexbuf.TypeVectorInt, []interface{}{int64(1), int64(256), int64(65546)}},
		{"simple_fixed_typed_vector", flexbuf.TypeVectorUint3, []interface{}{uint64(1), uint64(256), uint64(65546)}},
		{"nested_map_vector", flexbuf.TypeMap, map[string]interface{}{
			"map": map[string]interface{}{"foo": "bar"},
			"vec": []interface{}{int64(1), int64(256), int64(65546)},
			"int": int64(123),
		}},
		{"nested_vector_map", flexbuf.TypeVector, []interface{}{
			map[string]interface{}{"a": "1"},
			map[string]interface{}{"b": int64(1234)},
		}},
		{"primitive_corners", flexbuf.TypeMap, map[string]interface{}{
			"int32_max": int64(math.MaxInt32),
			"int32_min": int64(math.MinInt32),
			"int64_max": int64(math.MaxInt64),
			"int64_min": int64(math.MinInt64),
		}},
	}
	require.Len(t, Fixtures(), len(tests))

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			typ, v := decodeFixture(t, test.name)
			require.Equal(t, test.typ, typ)
			require.Equal(t, test.want, v)
		})
	}
}

func TestSimpleVectorLayout(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, f := range Fixtures() {
		if f.Name != "simple_vector" {
			continue
		}
		data, err := f.Encode()
		require.NoError(t, err)
		require.Equal(t, []byte{
			0x03, 0x00, 0x00, 0x00,
			0x01, 0x00, 0x00, 0x00,
			0x00, 0x01, 0x00, 0x00,
			0x0a, 0x00, 0x01, 0x00,
			0x06, 0x06, 0x06,
			0x0f, 0x2a, 0x01,
		}, data)
	}
}

func TestWriteFixtures(t *testing.T) {
	partitiontest.PartitionTest(t)

	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Manifest = filepath.Join(t.TempDir(), "fixtures.yml")
	d, err := NewDriver(cfg, logging.TestingLog(t))
	require.NoError(t, err)

	m, err := d.WriteFixtures(context.Background(), Fixtures())
	require.NoError(t, err)
	require.Len(t, m.Entries, 17)
	require.Equal(t, FormatFlexBuffers, m.Format)

	files, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	require.Len(t, files, 17)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "simple_map.flexbuf"))
	require.NoError(t, err)
	v, err := FormatFlexBuffers.Decode(data)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"foo": "bar"}, v)

	back, err := ReadManifest(cfg.Manifest)
	require.NoError(t, err)
	require.Equal(t, m, back)
	kinds := back.RootKinds()
	require.Equal(t, 4, kinds["map"])
	require.Equal(t, 2, kinds["vector"])
	require.Equal(t, 1, kinds["vector_uint3"])
	require.Equal(t, 2, kinds["indirect_float"])
}

func TestWriteFixturesBuildError(t *testing.T) {
	partitiontest.PartitionTest(t)

	d := newDriver(t, DefaultConfig())
	broken := []Fixture{{"broken", func(b *flexbuf.Builder) { b.BeginVector(0) }}}
	_, err := d.WriteFixtures(context.Background(), broken)
	require.ErrorIs(t, err, flexbuf.ErrUnclosedContainer)
}
