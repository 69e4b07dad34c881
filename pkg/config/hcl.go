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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the config from HCL. Substitutions are repeated blocks:
//
//	substitution {
//	  old = "10.0.0.1"
//	  new = "$${host}"
//	}
func (p *HCLParser) Parse(ctx context.Context, data []byte, base *Config) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "jmxlabel.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		Source          *string `hcl:"source,optional"`
		Output          *string `hcl:"output,optional"`
		LabelWidth      *int    `hcl:"label_width,optional"`
		PathTrimPattern *string `hcl:"path_trim_pattern,optional"`
		StripHeaders    *bool   `hcl:"strip_headers,optional"`
		Include         *string `hcl:"include,optional"`
		Concurrency     *int    `hcl:"concurrency,optional"`
		MetricsFile     *string `hcl:"metrics_file,optional"`
		Substitutions   []struct {
			Old string `hcl:"old"`
			New string `hcl:"new"`
		} `hcl:"substitution,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := *base
	setIf(&cfg.Source, hclCfg.Source)
	setIf(&cfg.Output, hclCfg.Output)
	setIf(&cfg.LabelWidth, hclCfg.LabelWidth)
	setIf(&cfg.PathTrimPattern, hclCfg.PathTrimPattern)
	setIf(&cfg.StripHeaders, hclCfg.StripHeaders)
	setIf(&cfg.Include, hclCfg.Include)
	setIf(&cfg.Concurrency, hclCfg.Concurrency)
	setIf(&cfg.MetricsFile, hclCfg.MetricsFile)

	if len(hclCfg.Substitutions) > 0 {
		cfg.Substitutions = make([]Substitution, 0, len(hclCfg.Substitutions))
		for _, s := range hclCfg.Substitutions {
			cfg.Substitutions = append(cfg.Substitutions, Substitution{Old: s.Old, New: s.New})
		}
	}

	return &cfg, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
