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
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	indentSpaces = 2
	declaration  = `version="1.0" encoding="UTF-8"`
)

// 📤 WriteTo serializes the Document as indented UTF-8 XML with exactly one
// declaration. Indentation and the declaration are normalized on the tree
// itself, so repeated calls produce the same bytes.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	out := d.tree

	var stale []etree.Token
	for _, tok := range out.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			stale = append(stale, tok)
		}
	}
	for _, tok := range stale {
		if out.RemoveChild(tok) == nil {
			return 0, errors.Errorf("%w: encoding %s: stale xml declaration could not be removed", ErrSerialization, d.source)
		}
	}
	out.InsertChildAt(0, etree.NewProcInst("xml", declaration))

	settings := etree.NewIndentSettings()
	settings.Spaces = indentSpaces
	settings.PreserveLeafWhitespace = true
	out.IndentWithSettings(settings)

	n, err := out.WriteTo(w)
	if err != nil {
		return n, errors.Errorf("%w: encoding %s: %s", ErrSerialization, d.source, err.Error())
	}
	return n, nil
}

// Bytes returns the serialized Document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// 💾 SaveErr writes the Document to dest atomically, creating parent directories.
func (d *Document) SaveErr(ctx context.Context, dest string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Errorf("%w: creating parent directories: %s", ErrSerialization, err.Error())
	}

	if err := writeFileAtomic(dest, data); err != nil {
		return errors.Errorf("%w: %s", ErrSerialization, err.Error())
	}

	zerolog.Ctx(ctx).Debug().Str("source", d.source).Str("dest", dest).Int("bytes", len(data)).Msg("saved test plan")
	return nil
}

// 💾 Save is SaveErr for batch callers: failures are logged and reported as false.
func (d *Document) Save(ctx context.Context, dest string) bool {
	if err := d.SaveErr(ctx, dest); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("source", d.source).Str("dest", dest).Msg("saving test plan")
		return false
	}
	return true
}

func writeFileAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}
