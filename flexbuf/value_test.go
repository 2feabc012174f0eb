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
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-flexcorpus/test/partitiontest"
)

func TestAddPlainValues(t *testing.T) {
	partitiontest.PartitionTest(t)

	in := map[string]interface{}{
		"null":  nil,
		"yes":   true,
		"int":   int64(-7),
		"small": uint64(12),
		"huge":  uint64(math.MaxUint64),
		"pi":    3.25,
		"name":  "flex",
		"raw":   []byte{1, 2},
		"list":  []interface{}{int64(1), "two", []interface{}{}},
		"empty": map[string]interface{}{},
	}
	b := NewBuilder()
	b.Add(in)
	buf := finish(t, b)

	root, err := Root(buf)
	require.NoError(t, err)
	got, err := root.Interface()
	require.NoError(t, err)

	want := map[string]interface{}{
		"null":  nil,
		"yes":   true,
		"int":   int64(-7),
		"small": int64(12),
		"huge":  uint64(math.MaxUint64),
		"pi":    3.25,
		"name":  "flex",
		"raw":   []byte{1, 2},
		"list":  []interface{}{int64(1), "two", []interface{}{}},
		"empty": map[string]interface{}{},
	}
	require.Equal(t, want, got)
}

func TestAddUnsupported(t *testing.T) {
	partitiontest.PartitionTest(t)

	b := NewBuilder()
	b.Add([]interface{}{struct{}{}})
	_, err := b.Finish()
	require.ErrorIs(t, err, ErrUnsupportedValue)

	b = NewBuilder()
	b.Add(map[string]interface{}{"a\x00b": int64(1)})
	_, err = b.Finish()
	require.Error(t, err)
}
