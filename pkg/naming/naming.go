// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package naming generates the short letter labels given to transaction groups.
package naming

import (
	"math"

	"gitlab.com/tozd/go/errors"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ErrInvalidWidth is returned for widths below 1, or so wide that 26^width
// does not fit in an int.
var ErrInvalidWidth = errors.Base("invalid label width")

// 📏 Capacity returns the number of distinct labels of the given width, or 0
// when width < 1 or the count overflows an int.
func Capacity(width int) int {
	if width < 1 {
		return 0
	}
	n := 1
	for i := 0; i < width; i++ {
		if n > math.MaxInt/len(alphabet) {
			return 0
		}
		n *= len(alphabet)
	}
	return n
}

// 🔤 Generate returns every uppercase label of exactly width letters in
// base-26 counting order: width=2 yields AA, AB, ..., AZ, BA, ..., ZZ.
func Generate(width int) ([]string, error) {
	if width < 1 {
		return nil, errors.Errorf("%w: %d (must be at least 1)", ErrInvalidWidth, width)
	}
	total := Capacity(width)
	if total == 0 {
		return nil, errors.Errorf("%w: %d (26^%d labels cannot be counted)", ErrInvalidWidth, width, width)
	}
	return First(width, total)
}

// First returns the first n labels of Generate(width), fewer when the
// sequence is shorter. Only the requested labels are built, so any width
// is cheap when n is small.
func First(width, n int) ([]string, error) {
	if width < 1 {
		return nil, errors.Errorf("%w: %d (must be at least 1)", ErrInvalidWidth, width)
	}
	if total := Capacity(width); total > 0 && n > total {
		n = total
	}
	if n < 0 {
		n = 0
	}

	labels := make([]string, 0, n)
	buf := make([]byte, width)
	for i := 0; i < n; i++ {
		v := i
		for pos := width - 1; pos >= 0; pos-- {
			buf[pos] = alphabet[v%len(alphabet)]
			v /= len(alphabet)
		}
		labels = append(labels, string(buf))
	}

	return labels, nil
}
