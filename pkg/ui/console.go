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

package ui

import (
	"context"
	"sync"

	"github.com/walteh/jmxlabel/pkg/jmx"
	"github.com/walteh/jmxlabel/pkg/log"
)

// ConsolePresenter prints reports through a colored log.Logger.
type ConsolePresenter struct {
	logger *log.Logger

	mu          sync.Mutex
	lastPercent int
}

var _ Presenter = (*ConsolePresenter)(nil)

// 🏭 NewConsolePresenter creates a presenter writing through logger
func NewConsolePresenter(logger *log.Logger) *ConsolePresenter {
	return &ConsolePresenter{logger: logger, lastPercent: -1}
}

func (c *ConsolePresenter) DisplayReport(file string, entries []jmx.ReportEntry) {
	ctx := context.Background()
	c.logger.StartFileOperation(ctx, log.FileOperation{Path: file})
	for _, entry := range entries {
		c.logger.LogEntry(ctx, entry)
	}
	c.logger.EndFileOperation(ctx)
	c.logger.LogNewline()
}

// ReportProgress prints once per whole-percent change.
func (c *ConsolePresenter) ReportProgress(fraction float64) {
	percent := int(fraction * 100)

	c.mu.Lock()
	if percent == c.lastPercent || percent == 0 {
		c.mu.Unlock()
		return
	}
	c.lastPercent = percent
	c.mu.Unlock()

	if percent >= 100 {
		c.logger.Success("all files processed")
		return
	}
	c.logger.Infof("progress %d%%", percent)
}

func (c *ConsolePresenter) ReportError(msg string) {
	c.logger.Error(msg)
}

func (c *ConsolePresenter) ReportInfo(msg string) {
	c.logger.Info(msg)
}
