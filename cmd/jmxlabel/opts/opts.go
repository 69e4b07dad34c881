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

package opts

import (
	"context"
	"io"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/jmxlabel/pkg/config"
)

// 🎯 RootOpts contains options shared by every command
type RootOpts struct {
	// ConfigFile is an optional YAML, HCL or JSON file
	ConfigFile string
	// Debug enables debug logging
	Debug bool
	// Out receives reports, Err receives structured logs
	Out io.Writer
	Err io.Writer
}

// LoadConfig returns config.Default(), or the config file decoded over it.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	if o.ConfigFile == "" {
		cfg := config.Default()
		if err := cfg.Validate(); err != nil {
			return nil, errors.Errorf("validating default config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", o.ConfigFile, err)
	}
	return cfg, nil
}
