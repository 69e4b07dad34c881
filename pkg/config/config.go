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

package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/jmxlabel/pkg/jmx"
	"github.com/walteh/jmxlabel/pkg/naming"
	"github.com/walteh/jmxlabel/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultLabelWidth gives 676 transaction labels (AA..ZZ).
	DefaultLabelWidth = 2
	// DefaultTrimPattern strips an IPv4 origin recorded into request names.
	DefaultTrimPattern = `http://\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`
	// DefaultInclude selects test plans when the source is a directory.
	DefaultInclude = "*.jmx"
)

// ErrInvalidConfig is returned for any configuration the engine cannot run with.
var ErrInvalidConfig = errors.Base("invalid config")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes data on top of base
	Parse(ctx context.Context, data []byte, base *Config) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Substitution is one ordered literal replacement applied to request paths
type Substitution struct {
	Old string `json:"old" yaml:"old"`
	New string `json:"new" yaml:"new"`
}

// 📚 Config is everything a rewrite run needs
type Config struct {
	Source          string         `json:"source,omitempty" yaml:"source,omitempty"`                       // file or directory
	Output          string         `json:"output,omitempty" yaml:"output,omitempty"`                       // file or directory, empty = report only
	LabelWidth      int            `json:"label_width,omitempty" yaml:"label_width,omitempty"`             // letters per group label
	PathTrimPattern string         `json:"path_trim_pattern,omitempty" yaml:"path_trim_pattern,omitempty"` // removed once from request names
	StripHeaders    bool           `json:"strip_headers,omitempty" yaml:"strip_headers,omitempty"`
	Substitutions   []Substitution `json:"substitutions,omitempty" yaml:"substitutions,omitempty"`
	Include         string         `json:"include,omitempty" yaml:"include,omitempty"`         // glob for directory sources
	Concurrency     int            `json:"concurrency,omitempty" yaml:"concurrency,omitempty"` // parallel parses in directory mode
	MetricsFile     string         `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
}

// 🏭 Default returns the configuration the tool starts from
func Default() *Config {
	return &Config{
		LabelWidth:      DefaultLabelWidth,
		PathTrimPattern: DefaultTrimPattern,
		Include:         DefaultInclude,
		Concurrency:     1,
	}
}

// 🎯 Load reads path, decodes it over Default() and validates the result
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data, Default())
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks the configuration and normalizes defaults
func (cfg *Config) Validate() error {
	if cfg.LabelWidth < 1 || naming.Capacity(cfg.LabelWidth) == 0 {
		return errors.Errorf("%w: label_width must be a positive width whose label count fits in an int, got %d", ErrInvalidConfig, cfg.LabelWidth)
	}

	if _, err := text.CompileTrimPattern(cfg.PathTrimPattern); err != nil {
		return errors.Errorf("%w: path_trim_pattern: %s", ErrInvalidConfig, err.Error())
	}

	if err := text.NewSimpleTextReplacer().ValidateRules(cfg.Rules()); err != nil {
		return errors.Errorf("%w: substitutions: %s", ErrInvalidConfig, err.Error())
	}

	if cfg.Concurrency < 0 {
		return errors.Errorf("%w: concurrency must not be negative, got %d", ErrInvalidConfig, cfg.Concurrency)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 1
	}

	if cfg.Include == "" {
		cfg.Include = DefaultInclude
	}
	if !doublestar.ValidatePattern(cfg.Include) {
		return errors.Errorf("%w: include pattern %q is not a valid glob", ErrInvalidConfig, cfg.Include)
	}

	return nil
}

// Rules returns the substitutions in engine form, order preserved.
func (cfg *Config) Rules() []text.ReplacementRule {
	rules := make([]text.ReplacementRule, len(cfg.Substitutions))
	for i, s := range cfg.Substitutions {
		rules[i] = text.ReplacementRule{FromText: s.Old, ToText: s.New}
	}
	return rules
}

// ⚙️ EngineOptions compiles the configuration into rewrite options
func (cfg *Config) EngineOptions() (jmx.Options, error) {
	pattern, err := text.CompileTrimPattern(cfg.PathTrimPattern)
	if err != nil {
		return jmx.Options{}, errors.Errorf("%w: path_trim_pattern: %s", ErrInvalidConfig, err.Error())
	}
	return jmx.Options{
		LabelWidth:    cfg.LabelWidth,
		TrimPattern:   pattern,
		StripHeaders:  cfg.StripHeaders,
		Substitutions: cfg.Rules(),
	}, nil
}

// 🔀 ParseSubstitution parses the "old=new" form used on the command line
func ParseSubstitution(s string) (Substitution, error) {
	old, repl, ok := strings.Cut(s, "=")
	if !ok || old == "" {
		return Substitution{}, errors.Errorf("%w: substitution %q must look like old=new", ErrInvalidConfig, s)
	}
	return Substitution{Old: old, New: repl}, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("width=%d trim=%q strip_headers=%t substitutions=%d include=%q",
		cfg.LabelWidth, cfg.PathTrimPattern, cfg.StripHeaders, len(cfg.Substitutions), cfg.Include)
}
