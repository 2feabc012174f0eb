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
	"errors"
	"fmt"
	"os"
)

var (
	// ErrMissingOutputDir is returned when no output directory was given.
	ErrMissingOutputDir = errors.New("an output directory is required")
	// ErrNotDirectory is returned when the output path is not an existing directory.
	ErrNotDirectory = errors.New("not an existing directory")
)

// UsageError marks errors caused by how the tool was invoked. Nothing has
// been generated when one is returned.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// IsUsageError reports whether err came from bad invocation.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// CheckOutputDir verifies that dir names an existing directory.
func CheckOutputDir(dir string) error {
	if dir == "" {
		return &UsageError{ErrMissingOutputDir}
	}
	info, err := os.Stat(dir)
	if err != nil {
		return &UsageError{fmt.Errorf("directory '%s' %w: %w", dir, ErrNotDirectory, err)}
	}
	if !info.IsDir() {
		return &UsageError{fmt.Errorf("%s is %w", dir, ErrNotDirectory)}
	}
	return nil
}
