package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleTextReplacer_ReplaceString(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		rules        []ReplacementRule
		want         string
		wantCount    int
		wantModified bool
	}{
		{
			name:    "simple_replacement",
			content: "/api/v1/login",
			rules: []ReplacementRule{
				{FromText: "v1", ToText: "v2"},
			},
			want:         "/api/v2/login",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "replaces_all_occurrences",
			content: "http://10.0.0.1/proxy/10.0.0.1",
			rules: []ReplacementRule{
				{FromText: "10.0.0.1", ToText: "HOST"},
			},
			want:         "http://HOST/proxy/HOST",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "rules_apply_in_order",
			content: "http://10.0.0.1/api",
			rules: []ReplacementRule{
				{FromText: "10.0.0.1", ToText: "HOST"},
				{FromText: "HOST/api", ToText: "HOST/v2"},
			},
			want:         "http://HOST/v2",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "reversed_order_differs",
			content: "http://10.0.0.1/api",
			rules: []ReplacementRule{
				{FromText: "HOST/api", ToText: "HOST/v2"},
				{FromText: "10.0.0.1", ToText: "HOST"},
			},
			want:         "http://HOST/api",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "no_match",
			content: "/health",
			rules: []ReplacementRule{
				{FromText: "Goodbye", ToText: "Hi"},
			},
			want:         "/health",
			wantCount:    0,
			wantModified: false,
		},
		{
			name:    "empty_from_text_skipped",
			content: "/api",
			rules: []ReplacementRule{
				{FromText: "", ToText: "x"},
			},
			want:         "/api",
			wantCount:    0,
			wantModified: false,
		},
		{
			name:         "empty_rules",
			content:      "/api",
			rules:        []ReplacementRule{},
			want:         "/api",
			wantCount:    0,
			wantModified: false,
		},
		{
			name:    "empty_content",
			content: "",
			rules: []ReplacementRule{
				{FromText: "a", ToText: "b"},
			},
			want:         "",
			wantCount:    0,
			wantModified: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewSimpleTextReplacer().ReplaceString(tt.content, tt.rules)
			assert.Equal(t, tt.content, result.Original)
			assert.Equal(t, tt.want, result.Modified)
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantModified, result.WasModified)
		})
	}
}

func TestSimpleTextReplacer_ValidateRules(t *testing.T) {
	replacer := NewSimpleTextReplacer()

	require.NoError(t, replacer.ValidateRules(nil))
	require.NoError(t, replacer.ValidateRules([]ReplacementRule{{FromText: "a", ToText: ""}}))

	err := replacer.ValidateRules([]ReplacementRule{{FromText: "a"}, {ToText: "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 1: from_text is required")
}
