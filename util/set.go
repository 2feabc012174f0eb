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

// Set is a map with empty struct{} values used as a set of comparable keys.
type Set[T comparable] map[T]struct{}

// MakeSet constructs a set instance directly from elements.
func MakeSet[T comparable](elems ...T) Set[T] {
	s := make(Set[T], len(elems))
	for _, elem := range elems {
		s[elem] = struct{}{}
	}
	return s
}

// Insert adds elem and reports whether it was absent before.
func (s Set[T]) Insert(elem T) bool {
	if _, exists := s[elem]; exists {
		return false
	}
	s[elem] = struct{}{}
	return true
}

// Contains checks the membership of an element in the set.
func (s Set[T]) Contains(elem T) (exists bool) {
	_, exists = s[elem]
	return
}

// Empty returns true if the set is empty.
func (s Set[T]) Empty() bool {
	return len(s) == 0
}
