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
	"github.com/algorand/go-flexcorpus/test/partitiontest"
)

func TestFormatOf(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Equal(t, FormatFlexBuffers, FormatOf("simple_map.flexbuf", FormatMsgpack))
	require.Equal(t, FormatMsgpack, FormatOf("12", FormatMsgpack))
	require.Equal(t, FormatFlexBuffers, FormatOf("12", FormatFlexBuffers))
}

func TestValidateDir(t *testing.T) {
	partitiontest.PartitionTest(t)

	cfg := DefaultConfig()
	cfg.Count = 30
	d := newDriver(t, cfg)
	_, err := d.Run(context.Background())
	require.NoError(t, err)
	_, err = d.WriteFixtures(context.Background(), Fixtures())
	require.NoError(t, err)

	dir := d.Config().OutputDir
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	report, err := ValidateDir(dir, FormatFlexBuffers)
	require.NoError(t, err)
	require.Len(t, report.Files, 47)
	require.Empty(t, report.Failed())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "5"), []byte{0x01}, 0o644))
	report, err = ValidateDir(dir, FormatFlexBuffers)
	require.NoError(t, err)
	failed := report.Failed()
	require.Len(t, failed, 1)
	require.Equal(t, "5", failed[0].Name)
	require.ErrorIs(t, failed[0].Err, flexbuf.ErrInvalidData)

	_, err = ValidateDir(filepath.Join(dir, "missing"), FormatFlexBuffers)
	require.True(t, IsUsageError(err))
}

func TestDump(t *testing.T) {
	partitiontest.PartitionTest(t)

	d := newDriver(t, DefaultConfig())
	_, err := d.WriteFixtures(context.Background(), Fixtures())
	require.NoError(t, err)

	out, err := Dump(filepath.Join(d.Config().OutputDir, "simple_map.flexbuf"), FormatMsgpack)
	require.NoError(t, err)
	require.Contains(t, string(out), `"foo"`)
	require.Contains(t, string(out), `"bar"`)

	_, err = Dump(filepath.Join(d.Config().OutputDir, "nope.flexbuf"), FormatFlexBuffers)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestJSONSafe(t *testing.T) {
	partitiontest.PartitionTest(t)

	v := jsonSafe(map[string]interface{}{
		"nan": math.NaN(),
		"vec": []interface{}{math.Inf(1), 1.5, "x"},
	})
	require.Equal(t, map[string]interface{}{
		"nan": "NaN",
		"vec": []interface{}{"+Inf", 1.5, "x"},
	}, v)
}

func TestFromJSON(t *testing.T) {
	partitiontest.PartitionTest(t)

	data, err := FromJSON([]byte(`{"foo": "bar", "n": [1, -2, 2.5, true, null], "m": {}}`))
	require.NoError(t, err)
	v, err := FormatFlexBuffers.Decode(data)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{
		"foo": "bar",
		"n":   []interface{}{int64(1), int64(-2), 2.5, true, nil},
		"m":   map[string]interface{}{},
	}, v)

	_, err = FromJSON([]byte(`{"foo": `))
	require.ErrorContains(t, err, "parsing json")
}

func TestEncodeFileMatchesFixture(t *testing.T) {
	partitiontest.PartitionTest(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "simple_map.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"foo":"bar"}`), 0o644))

	dst, err := EncodeFile(src, "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "simple_map.flexbuf"), dst)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	for _, f := range Fixtures() {
		if f.Name == "simple_map" {
			want, err := f.Encode()
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	}

	_, err = EncodeFile(filepath.Join(dir, "missing.json"), "")
	require.ErrorIs(t, err, os.ErrNotExist)
}
