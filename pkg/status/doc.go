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

/*
Package status tracks per-file state and progress for a jmxlabel batch run.

	            +-------------+
	            |   Manager   |
	            | (tracking)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+-----+
	|  Files   | | Progress | |  Metrics  |
	| (status) | | (0..1)   | | (prom)    |
	+----------+ +----------+ +-----------+

🎯 Purpose:
- Records where each test plan is: parsed, rewritten, saved or failed
- Reports processed/total progress to a callback
- Counts rewrite work in prometheus counters

🔄 Flow:
1. operation.Session calls StartOperation with the number of files
2. Each file is tracked with TrackFile and progress is updated
3. FinishOperation closes the run
4. Metrics can be written as a node-exporter textfile

🤝 Interfaces:
- StatusReporter: implemented by Manager, adapted by ui.ProgressReporter
- FileFormatter: DefaultFileFormatter (emoji) and ColumnFileFormatter (aligned, colored)
*/
package status
