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

package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-flexcorpus/test/partitiontest"
)

func TestWriteFileAtomic(t *testing.T) {
	partitiontest.PartitionTest(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "0")
	require.False(t, FileExists(path))

	require.NoError(t, WriteFileAtomic(path, []byte{1, 2, 3}, 0o644))
	require.True(t, FileExists(path))
	require.False(t, IsDir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)

	require.NoError(t, WriteFileAtomic(path, []byte{4}, 0o644))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{4}, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, IsDir(dir))
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	partitiontest.PartitionTest(t)

	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "0"), []byte{1}, 0o644)
	require.ErrorIs(t, err, fs.ErrNotExist)
}
