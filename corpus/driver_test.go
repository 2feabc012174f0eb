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
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/algorand/go-flexcorpus/flexbuf"
	"github.com/algorand/go-flexcorpus/gen"
	"github.com/algorand/go-flexcorpus/logging"
	"github.com/algorand/go-flexcorpus/test/partitiontest"
)

func newDriver(t *testing.T, cfg Config) *Driver {
	t.Helper()
	if cfg.OutputDir == "" {
		cfg.OutputDir = t.TempDir()
	}
	d, err := NewDriver(cfg, logging.TestingLog(t))
	require.NoError(t, err)
	return d
}

func TestRunWritesLabelledSamples(t *testing.T) {
	partitiontest.PartitionTest(t)

	d := newDriver(t, DefaultConfig())
	m, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, m.Entries, 1000)

	files, err := os.ReadDir(d.Config().OutputDir)
	require.NoError(t, err)
	require.Len(t, files, 1000)

	for i, e := range m.Entries {
		require.Equal(t, strconv.Itoa(i), e.Label)
		require.EqualValues(t, i+10, e.Seed)

		data, err := os.ReadFile(filepath.Join(d.Config().OutputDir, e.Label))
		require.NoError(t, err)
		require.NotEmpty(t, data)
		require.Equal(t, e.Size, len(data))
		require.Equal(t, e.Checksum, Checksum(data))
		require.NoError(t, flexbuf.Validate(data), "sample %s", e.Label)
		require.GreaterOrEqual(t, e.MaxDepth, 1)
		require.LessOrEqual(t, e.MaxDepth, 3)
	}

	// leaf roots repeat, container roots almost never do
	require.Less(t, m.Duplicates(), 500)
	require.Greater(t, m.RootKinds()["map"], 0)
	require.Greater(t, m.RootKinds()["vector"], 0)
}

func TestRunIsWorkerCountIndependent(t *testing.T) {
	partitiontest.PartitionTest(t)

	run := func(workers int) (*Manifest, string) {
		cfg := DefaultConfig()
		cfg.Count = 200
		cfg.Workers = workers
		d := newDriver(t, cfg)
		m, err := d.Run(context.Background())
		require.NoError(t, err)
		return m, d.Config().OutputDir
	}

	one, dirOne := run(1)
	four, dirFour := run(4)
	if diff := cmp.Diff(one.Entries, four.Entries); diff != "" {
		t.Fatalf("manifests differ:\n%s", diff)
	}
	for _, e := range one.Entries {
		a, err := os.ReadFile(filepath.Join(dirOne, e.Label))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirFour, e.Label))
		require.NoError(t, err)
		require.Equal(t, a, b, "sample %s", e.Label)
	}
}

func TestGenerateSampleMatchesGenerator(t *testing.T) {
	partitiontest.PartitionTest(t)

	cfg := DefaultConfig()
	s, err := GenerateSample(cfg, 7)
	require.NoError(t, err)
	require.Equal(t, "7", s.Label)
	require.EqualValues(t, 17, s.Seed)

	g, err := gen.NewGenerator(17)
	require.NoError(t, err)
	require.Equal(t, g.MaxDepth(), s.MaxDepth)
	want, err := gen.Encode(g.Generate(), flexbuf.NewBuilder())
	require.NoError(t, err)
	require.Equal(t, want, s.Data)

	again, err := GenerateSample(cfg, 7)
	require.NoError(t, err)
	require.Equal(t, s.Data, again.Data)
}

func TestRunMsgpack(t *testing.T) {
	partitiontest.PartitionTest(t)

	cfg := DefaultConfig()
	cfg.Count = 50
	cfg.Format = FormatMsgpack
	cfg.Workers = 3
	d := newDriver(t, cfg)
	m, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, FormatMsgpack, m.Format)

	report, err := ValidateDir(d.Config().OutputDir, FormatMsgpack)
	require.NoError(t, err)
	require.Len(t, report.Files, 50)
	require.Empty(t, report.Failed())
}

func TestRunManifest(t *testing.T) {
	partitiontest.PartitionTest(t)

	cfg := DefaultConfig()
	cfg.Count = 20
	cfg.Manifest = filepath.Join(t.TempDir(), "manifest.yml")
	d := newDriver(t, cfg)
	m, err := d.Run(context.Background())
	require.NoError(t, err)

	back, err := ReadManifest(cfg.Manifest)
	require.NoError(t, err)
	require.Equal(t, m, back)
	require.Equal(t, m.TotalBytes(), back.TotalBytes())
}

func TestRunCancelled(t *testing.T) {
	partitiontest.PartitionTest(t)

	d := newDriver(t, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunWriteFailure(t *testing.T) {
	partitiontest.PartitionTest(t)

	cfg := DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.Mkdir(cfg.OutputDir, 0o755))
	d := newDriver(t, cfg)
	require.NoError(t, os.Remove(cfg.OutputDir))

	_, err := d.Run(context.Background())
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.False(t, IsUsageError(err))
}

func TestNewDriverUsageErrors(t *testing.T) {
	partitiontest.PartitionTest(t)

	_, err := NewDriver(DefaultConfig(), nil)
	require.ErrorIs(t, err, ErrMissingOutputDir)

	cfg := DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "missing")
	_, err = NewDriver(cfg, nil)
	require.ErrorIs(t, err, ErrNotDirectory)
	require.True(t, IsUsageError(err))

	cfg.OutputDir = t.TempDir()
	cfg.Format = "yaml"
	_, err = NewDriver(cfg, nil)
	require.True(t, IsUsageError(err))

	cfg = DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Count = 0
	_, err = NewDriver(cfg, nil)
	require.True(t, IsUsageError(err))
	require.ErrorContains(t, err, "count must be > 0")

	cfg = DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Workers = 0
	_, err = NewDriver(cfg, nil)
	require.True(t, IsUsageError(err))
	require.ErrorContains(t, err, "workers must be > 0")
}

func TestRunLogsEachSample(t *testing.T) {
	partitiontest.PartitionTest(t)

	var buf bytes.Buffer
	log := logging.NewLogger()
	log.SetOutput(&buf)

	cfg := DefaultConfig()
	cfg.Count = 3
	cfg.OutputDir = t.TempDir()
	d, err := NewDriver(cfg, log)
	require.NoError(t, err)
	_, err = d.Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	for _, label := range []string{"0", "1", "2"} {
		require.Contains(t, out, "label="+label+" ")
	}
	require.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("msg=\"Writing sample\"")))
	require.Contains(t, out, "msg=\"Corpus written\"")
}
