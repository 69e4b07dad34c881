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

package text

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔄 ReplacementRule is one literal substitution
type ReplacementRule struct {
	FromText string `json:"old" yaml:"old"`
	ToText   string `json:"new" yaml:"new"`
}

// 📦 ReplacementResult describes what a replacement pass did
type ReplacementResult struct {
	Original         string
	Modified         string
	ReplacementCount int
	WasModified      bool
}

// SimpleTextReplacer applies rules in order with plain string replacement.
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceString applies every rule to content in the order given. Each rule
// replaces all occurrences and sees the output of the rules before it.
func (r *SimpleTextReplacer) ReplaceString(content string, rules []ReplacementRule) ReplacementResult {
	result := ReplacementResult{
		Original: content,
		Modified: content,
	}

	current := content
	for _, rule := range rules {
		// Skip empty rules
		if rule.FromText == "" {
			continue
		}

		n := strings.Count(current, rule.FromText)
		if n == 0 {
			continue
		}

		current = strings.ReplaceAll(current, rule.FromText, rule.ToText)
		result.ReplacementCount += n
	}

	result.Modified = current
	result.WasModified = current != content
	return result
}

// ValidateRules rejects rules that would match nothing.
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
	}
	return nil
}
