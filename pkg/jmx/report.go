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
	"fmt"
	"strings"
)

// 🏷️ Kind says what sort of element a ReportEntry describes
type Kind int

const (
	KindTransactionGroup Kind = iota + 1
	KindRequest
)

// String returns the JMeter display name of the kind
func (k Kind) String() string {
	switch k {
	case KindTransactionGroup:
		return "Transaction Controller"
	case KindRequest:
		return "HTTP Request"
	default:
		return "Unknown"
	}
}

// 📝 ReportEntry records one rename made during a rewrite pass
type ReportEntry struct {
	Kind   Kind   `json:"kind"`
	Number int    `json:"number"`
	Label  string `json:"label"`
}

func (e ReportEntry) String() string {
	return fmt.Sprintf("%s #%d: %s", e.Kind, e.Number, e.Label)
}

// FormatReport renders entries one per line.
func FormatReport(entries []ReportEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
