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

	"github.com/walteh/jmxlabel/pkg/jmx"
	"github.com/walteh/jmxlabel/pkg/status"
)

// 🖥️ Presenter shows a batch run to the user
type Presenter interface {
	// DisplayReport shows the ordered report of one test plan
	DisplayReport(file string, entries []jmx.ReportEntry)
	// ReportProgress receives processed/total in [0, 1]
	ReportProgress(fraction float64)
	// ReportError shows a failure message
	ReportError(msg string)
	// ReportInfo shows an informational message
	ReportInfo(msg string)
}

// 📈 ProgressReporter adapts a Presenter into a status.StatusReporter.
// Progress goes to ReportProgress, failures to ReportError and saves to ReportInfo.
type ProgressReporter struct {
	*status.Manager
	presenter Presenter
	formatter status.FileFormatter
}

var _ status.StatusReporter = (*ProgressReporter)(nil)

// 🏭 NewProgressReporter creates a reporter feeding p
func NewProgressReporter(p Presenter, formatter status.FileFormatter) *ProgressReporter {
	if formatter == nil {
		formatter = status.NewDefaultFileFormatter()
	}
	return &ProgressReporter{
		Manager:   status.New(formatter, p.ReportProgress),
		presenter: p,
		formatter: formatter,
	}
}

func (r *ProgressReporter) TrackFile(ctx context.Context, info status.FileInfo) {
	r.Manager.TrackFile(ctx, info)

	switch info.Status {
	case status.StatusFailed:
		r.presenter.ReportError(r.formatter.FormatError(info.Path, info.Error))
	case status.StatusSaved:
		r.presenter.ReportInfo(r.formatter.FormatFileOperation(info))
	}
}
