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

package jmx

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding/htmlindex"
)

var (
	// ErrMalformedDocument is returned when a source cannot be read or is not well-formed XML.
	ErrMalformedDocument = errors.Base("malformed document")
	// ErrAlreadyRewritten is returned when Rewrite runs twice on one Document.
	ErrAlreadyRewritten = errors.Base("document already rewritten")
	// ErrSerialization is returned when a Document cannot be encoded or written.
	ErrSerialization = errors.Base("serialization failure")
)

// 🚦 State is the lifecycle position of a Document
type State int

const (
	StateParsed    State = iota + 1 // tree loaded, untouched
	StateRewritten                  // Rewrite has run
)

// String returns a string representation of State
func (s State) String() string {
	switch s {
	case StateParsed:
		return "parsed"
	case StateRewritten:
		return "rewritten"
	default:
		return "unknown"
	}
}

// 📄 Document owns one parsed test plan
type Document struct {
	source string
	tree   *etree.Document
	state  State
	stats  Stats
}

// 📥 Parse reads and parses the test plan at path
func Parse(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("%w: opening %s: %s", ErrMalformedDocument, path, err.Error())
	}
	defer f.Close()

	return parse(ctx, path, f)
}

// 📥 ParseBytes parses an in-memory test plan; name is used in errors and logs
func ParseBytes(ctx context.Context, name string, data []byte) (*Document, error) {
	return parse(ctx, name, bytes.NewReader(data))
}

func parse(ctx context.Context, source string, r io.Reader) (*Document, error) {
	tree := etree.NewDocument()
	tree.ReadSettings.CharsetReader = charsetReader

	if _, err := tree.ReadFrom(r); err != nil {
		return nil, errors.Errorf("%w: parsing %s: %s", ErrMalformedDocument, source, err.Error())
	}
	if tree.Root() == nil {
		return nil, errors.Errorf("%w: parsing %s: no root element", ErrMalformedDocument, source)
	}

	zerolog.Ctx(ctx).Debug().Str("source", source).Str("root", tree.Root().Tag).Msg("parsed test plan")

	return &Document{
		source: source,
		tree:   tree,
		state:  StateParsed,
	}, nil
}

// charsetReader lets plans declared as GBK, GB18030, Shift_JIS etc. be read.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, errors.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// Source returns the path or name the Document was parsed from.
func (d *Document) Source() string {
	return d.source
}

// State returns the lifecycle state.
func (d *Document) State() State {
	return d.state
}

// Stats returns the counters of the last Rewrite.
func (d *Document) Stats() Stats {
	return d.stats
}

// Root returns the root element of the tree.
func (d *Document) Root() *etree.Element {
	return d.tree.Root()
}
