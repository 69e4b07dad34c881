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

package status

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 10 // Width for status text
)

// ColumnFileFormatter renders aligned, colored columns for terminals.
type ColumnFileFormatter struct {
	DefaultFileFormatter
}

// NewColumnFileFormatter creates a new ColumnFileFormatter
func NewColumnFileFormatter() *ColumnFileFormatter {
	return &ColumnFileFormatter{}
}

// 🎯 FormatFileOperation formats a file status for display
func (f *ColumnFileFormatter) FormatFileOperation(info FileInfo) string {
	// Determine prefix symbol
	var prefix string
	switch info.Status {
	case StatusSaved:
		prefix = color.GreenString("✓")
	case StatusRewritten:
		prefix = color.CyanString("⟳")
	case StatusFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	detail := ""
	switch {
	case info.Dest != "":
		detail = info.Dest
	case info.Entries > 0:
		detail = fmt.Sprintf("%d entries", info.Entries)
	}

	// Format parts with padding
	namePart := fmt.Sprintf("%-*s", nameWidth, filepath.Base(info.Path))
	statusPart := fmt.Sprintf("%-*s", statusWidth, info.Status)

	// Build final string with indentation
	return strings.TrimRight(fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		statusPart,
		detail,
	), " ")
}
