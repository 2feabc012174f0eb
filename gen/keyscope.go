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

package gen

import "github.com/algorand/go-flexcorpus/util"

// KeyScope holds the keys already used by one map. It lives for a single
// map's child loop.
type KeyScope struct {
	used util.Set[string]
}

// NewKeyScope returns an empty scope.
func NewKeyScope() *KeyScope {
	return &KeyScope{used: util.MakeSet[string]()}
}

// Claim records key and reports whether it was still free.
func (s *KeyScope) Claim(key string) bool {
	return s.used.Insert(key)
}

// Contains reports whether key was already claimed.
func (s *KeyScope) Contains(key string) bool {
	return s.used.Contains(key)
}

// Len returns the number of claimed keys.
func (s *KeyScope) Len() int {
	return len(s.used)
}
