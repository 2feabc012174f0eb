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
	"fmt"
	"path/filepath"
	"sync"

	"github.com/algorand/go-deadlock"

	"github.com/algorand/go-flexcorpus/flexbuf"
	"github.com/algorand/go-flexcorpus/logging"
	"github.com/algorand/go-flexcorpus/util"
)

// Driver writes corpora to one output directory.
type Driver struct {
	cfg Config
	log logging.Logger
}

// NewDriver checks cfg and the output directory. Problems with either are
// reported as a UsageError. cfg must be complete; start from DefaultConfig
// or LoadConfig.
func NewDriver(cfg Config, log logging.Logger) (*Driver, error) {
	if err := cfg.validateWithDefaults(false); err != nil {
		return nil, &UsageError{err}
	}
	if err := CheckOutputDir(cfg.OutputDir); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Base()
	}
	return &Driver{cfg: cfg, log: log}, nil
}

// Config returns the effective configuration.
func (d *Driver) Config() Config {
	return d.cfg
}

// Run generates Count samples into the output directory. Sample i uses
// seed i+SeedOffset and is written to a file named after i. The first
// failure stops the run; so does cancelling ctx.
func (d *Driver) Run(ctx context.Context) (*Manifest, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := &Manifest{
		Format:  d.cfg.Format,
		Dir:     d.cfg.OutputDir,
		Entries: make([]Entry, d.cfg.Count),
	}

	var (
		wg       sync.WaitGroup
		mu       deadlock.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	indices := make(chan int)
	workers := min(d.cfg.Workers, d.cfg.Count)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				if ctx.Err() != nil {
					continue
				}
				entry, err := d.writeSample(i)
				if err != nil {
					fail(err)
					continue
				}
				// each index is handed to exactly one worker
				m.Entries[i] = entry
			}
		}()
	}

feed:
	for i := 0; i < d.cfg.Count; i++ {
		select {
		case indices <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := d.finish(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (d *Driver) writeSample(index int) (Entry, error) {
	s, err := GenerateSample(d.cfg, index)
	if err != nil {
		return Entry{}, err
	}
	path := filepath.Join(d.cfg.OutputDir, s.Label)
	d.log.WithFields(logging.Fields{
		"label": s.Label,
		"seed":  s.Seed,
		"size":  len(s.Data),
		"path":  path,
	}).Info("Writing sample")
	if err := writeFile(path, s.Data); err != nil {
		return Entry{}, err
	}
	return s.Entry(), nil
}

// WriteFixtures writes every handcrafted fixture into the output directory.
// Fixtures are always FlexBuffers.
func (d *Driver) WriteFixtures(ctx context.Context, fixtures []Fixture) (*Manifest, error) {
	m := &Manifest{Format: FormatFlexBuffers, Dir: d.cfg.OutputDir}
	for _, f := range fixtures {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := f.Encode()
		if err != nil {
			return nil, fmt.Errorf("building fixture %s: %w", f.Name, err)
		}
		root, err := flexbuf.Root(data)
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", f.Name, err)
		}
		path := filepath.Join(d.cfg.OutputDir, f.FileName())
		d.log.WithFields(logging.Fields{
			"label": f.FileName(),
			"size":  len(data),
			"path":  path,
		}).Info("Writing fixture")
		if err := writeFile(path, data); err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, Entry{
			Label:    f.FileName(),
			Size:     len(data),
			Checksum: Checksum(data),
			Root:     root.Type().String(),
		})
	}
	if err := d.finish(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (d *Driver) finish(m *Manifest) error {
	if d.cfg.Manifest != "" {
		if err := WriteManifest(d.cfg.Manifest, m); err != nil {
			return err
		}
	}
	d.log.WithFields(logging.Fields{
		"files":      len(m.Entries),
		"bytes":      m.TotalBytes(),
		"duplicates": m.Duplicates(),
		"format":     m.Format,
	}).Info("Corpus written")
	return nil
}

func writeFile(path string, data []byte) error {
	if err := util.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
