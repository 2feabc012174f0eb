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
	"errors"
	"fmt"
	"math"
)

// ErrUnsupportedValue is returned when Add meets a Go value it cannot encode.
var ErrUnsupportedValue = errors.New("value has no flexbuffers encoding")

// Add encodes a tree of plain Go values, the shapes Interface produces and
// JSON decoders return. Whole numbers become Int unless they only fit a
// UInt; float64 stays a double. Errors latch like every other builder call.
func (b *Builder) Add(v interface{}) {
	switch x := v.(type) {
	case nil:
		b.Null()
	case bool:
		b.Bool(x)
	case int:
		b.Int(int64(x))
	case int64:
		b.Int(x)
	case uint64:
		if x > math.MaxInt64 {
			b.UInt(x)
		} else {
			b.Int(int64(x))
		}
	case float32:
		b.Float32(x)
	case float64:
		b.Float64(x)
	case string:
		b.String(x)
	case []byte:
		b.Blob(x)
	case []interface{}:
		b.BeginVector(len(x))
		for _, e := range x {
			b.Add(e)
		}
		b.EndVector()
	case map[string]interface{}:
		b.BeginMap(len(x))
		for k, e := range x {
			b.MapKey(k)
			b.Add(e)
		}
		b.EndMap()
	default:
		b.fail(fmt.Errorf("%w: %T", ErrUnsupportedValue, v))
	}
}
