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
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/algorand/go-flexcorpus/flexbuf"
	"github.com/algorand/go-flexcorpus/protocol"
	"github.com/algorand/go-flexcorpus/util"
)

// FormatOf returns the format of a corpus file: fixtures are recognised by
// their extension, everything else is assumed to be in fallback.
func FormatOf(name string, fallback Format) Format {
	if strings.HasSuffix(name, FixtureExt) {
		return FormatFlexBuffers
	}
	return fallback
}

// FileResult is the outcome of validating one file.
type FileResult struct {
	Name string
	Size int
	Err  error
}

// Report lists the validation outcome of every file in a directory.
type Report struct {
	Dir   string
	Files []FileResult
}

// Failed returns the files that did not validate.
func (r *Report) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// ValidateDir decodes every regular file in dir. Decoding problems are
// recorded in the report; failing to read the directory is an error.
func ValidateDir(dir string, format Format) (*Report, error) {
	if err := CheckOutputDir(dir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	r := &Report{Dir: dir}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		r.Files = append(r.Files, FileResult{
			Name: e.Name(),
			Size: len(data),
			Err:  FormatOf(e.Name(), format).Validate(data),
		})
	}
	return r, nil
}

// Dump renders one corpus file as indented JSON.
func Dump(path string, format Format) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	v, err := FormatOf(path, format).Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return protocol.EncodeJSON(jsonSafe(v))
}

// jsonSafe replaces floats JSON cannot express with their names.
func jsonSafe(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Sprint(x)
		}
	case float32:
		return jsonSafe(float64(x))
	case []interface{}:
		for i := range x {
			x[i] = jsonSafe(x[i])
		}
	case map[string]interface{}:
		for k := range x {
			x[k] = jsonSafe(x[k])
		}
	}
	return v
}

// FromJSON encodes one JSON document as FlexBuffers.
func FromJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := protocol.DecodeJSON(data, &v); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	b := flexbuf.NewBuilder()
	b.Add(v)
	return b.Finish()
}

// EncodeFile turns the JSON document at src into a FlexBuffers file at dst.
// An empty dst writes next to src with the fixture extension.
func EncodeFile(src, dst string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", src, err)
	}
	out, err := FromJSON(data)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", src, err)
	}
	if dst == "" {
		dst = strings.TrimSuffix(src, filepath.Ext(src)) + FixtureExt
	}
	if err := util.WriteFileAtomic(dst, out, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	return dst, nil
}
