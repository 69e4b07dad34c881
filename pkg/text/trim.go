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

// Package text holds the string helpers shared by the rewrite engine: name
// trimming and ordered literal substitution.
package text

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// DefaultMatchTimeout bounds a single trim-pattern match.
const DefaultMatchTimeout = time.Second

// ✂️ KeepAfterHash returns the part of s after the last '#', or s when it has none
func KeepAfterHash(s string) string {
	if i := strings.LastIndexByte(s, '#'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ✂️ KeepBeforeQuestionMark returns the part of s before the first '?', or s when it has none
func KeepBeforeQuestionMark(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i]
	}
	return s
}

// 🔍 TrimPattern removes the first match of a user supplied regular expression.
// A nil *TrimPattern is valid and leaves input unchanged.
type TrimPattern struct {
	expr string
	re   *regexp2.Regexp
}

// CompileTrimPattern compiles expr. An empty expr yields a nil pattern.
func CompileTrimPattern(expr string) (*TrimPattern, error) {
	if expr == "" {
		return nil, nil
	}
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, errors.Errorf("compiling trim pattern %q: %w", expr, err)
	}
	re.MatchTimeout = DefaultMatchTimeout
	return &TrimPattern{expr: expr, re: re}, nil
}

// String returns the source expression.
func (p *TrimPattern) String() string {
	if p == nil {
		return ""
	}
	return p.expr
}

// RemoveFirst deletes the first match of the pattern from s.
func (p *TrimPattern) RemoveFirst(s string) (string, error) {
	if p == nil {
		return s, nil
	}
	m, err := p.re.FindStringMatch(s)
	if err != nil {
		return s, errors.Errorf("matching trim pattern %q: %w", p.expr, err)
	}
	if m == nil {
		return s, nil
	}
	// regexp2 reports rune offsets
	runes := []rune(s)
	return string(runes[:m.Index]) + string(runes[m.Index+m.Length:]), nil
}
