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
Package operation runs jmxlabel batches: parse, rewrite and save many test plans.

🎯 Purpose:
- Holds every rewritten jmx.Document of a run, keyed by source path
- Parses a single file or every matching file of a directory
- Saves one document or all of them, recording failures per file

🔄 Flow:
1. Parse(ctx, path) picks ParseFile or ParseDirectory
2. Each file is parsed, rewritten with the session's jmx.Options and kept
3. Progress and per-file status go to a status.StatusReporter
4. SaveAll writes kept documents to dir/<basename>

⚡ Concurrency:
With Options.Concurrency above 1, ParseDirectory parses files in parallel
(errgroup with SetLimit). Results stay in sorted file order. Only the document
map, the result slice and the progress counter are shared.

🔍 Example:

	s := operation.New(operation.Options{Engine: jmx.Options{LabelWidth: 2}})
	results, err := s.Parse(ctx, "plans/")
	batch := s.SaveAll(ctx, "out/")
*/
package operation
