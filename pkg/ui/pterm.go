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
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/walteh/jmxlabel/pkg/jmx"
)

// progressTotal is the bar resolution, fractions are mapped onto it.
const progressTotal = 100

// PtermPresenter renders sections, tables and a progress bar with pterm.
type PtermPresenter struct {
	out io.Writer
	log zerolog.Logger // for debug/error logging

	mu  sync.Mutex
	bar *pterm.ProgressbarPrinter
}

var _ Presenter = (*PtermPresenter)(nil)

// 🏭 NewPtermPresenter creates a presenter writing to out
func NewPtermPresenter(out io.Writer, logger zerolog.Logger) *PtermPresenter {
	return &PtermPresenter{out: out, log: logger}
}

// 📋 DisplayReport renders one section per file with a kind / number / label table
func (p *PtermPresenter) DisplayReport(file string, entries []jmx.ReportEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.out, pterm.DefaultSection.Sprint(file))

	if len(entries) == 0 {
		fmt.Fprint(p.out, pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Sprintln("no transaction controllers relabeled"))
		return
	}

	data := pterm.TableData{{"Kind", "#", "Label"}}
	for _, entry := range entries {
		data = append(data, []string{entry.Kind.String(), strconv.Itoa(entry.Number), entry.Label})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		p.log.Error().Err(err).Str("file", file).Msg("rendering report table")
		for _, entry := range entries {
			fmt.Fprintln(p.out, entry.String())
		}
		return
	}
	fmt.Fprintln(p.out, table)

	p.log.Debug().Str("file", file).Int("entries", len(entries)).Msg("displayed report")
}

// 📊 ReportProgress drives a progress bar, started on first use and stopped at 1
func (p *PtermPresenter) ReportProgress(fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	target := int(fraction * progressTotal)
	if target > progressTotal {
		target = progressTotal
	}

	if p.bar == nil {
		if target >= progressTotal {
			return
		}
		bar, err := pterm.DefaultProgressbar.
			WithTotal(progressTotal).
			WithTitle("Relabeling").
			WithWriter(p.out).
			Start()
		if err != nil {
			p.log.Debug().Err(err).Msg("starting progress bar")
			return
		}
		p.bar = bar
	}

	if delta := target - p.bar.Current; delta > 0 {
		p.bar.Add(delta)
	}

	if target >= progressTotal {
		p.stopLocked()
	}
}

// Finish stops a running progress bar, e.g. after a cancelled run.
func (p *PtermPresenter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *PtermPresenter) stopLocked() {
	if p.bar == nil {
		return
	}
	if _, err := p.bar.Stop(); err != nil {
		p.log.Debug().Err(err).Msg("stopping progress bar")
	}
	p.bar = nil
}

func (p *PtermPresenter) ReportError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.out, pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Sprintln(msg))
	p.log.Error().Msg(msg)
}

func (p *PtermPresenter) ReportInfo(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.out, pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).Sprintln(msg))
	p.log.Info().Msg(msg)
}
