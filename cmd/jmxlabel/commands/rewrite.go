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

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/jmxlabel/cmd/jmxlabel/opts"
	"github.com/walteh/jmxlabel/pkg/config"
	"github.com/walteh/jmxlabel/pkg/log"
	"github.com/walteh/jmxlabel/pkg/operation"
	"github.com/walteh/jmxlabel/pkg/status"
	"github.com/walteh/jmxlabel/pkg/ui"
)

// ErrFilesFailed is returned when at least one test plan could not be relabeled or saved.
var ErrFilesFailed = errors.Base("files failed")

// UI names accepted by --ui
const (
	UIPlain = "plain"
	UIPterm = "pterm"
)

type rewriteFlags struct {
	width        int
	trimPattern  string
	stripHeaders bool
	subs         []string
	output       string
	include      string
	concurrency  int
	metricsFile  string
	ui           string
}

// 🏷️ NewRewriteCmd relabels one test plan or a directory of them
func NewRewriteCmd(o *opts.RootOpts) *cobra.Command {
	f := &rewriteFlags{}

	cmd := &cobra.Command{
		Use:   "rewrite [file|dir]",
		Short: "Relabel transaction controllers and HTTP requests",
		Long: `Rewrite parses JMeter test plans and renames every transaction controller
to 事务_<label>#<name> and every HTTP request inside it to <label>_<n>#<name>.
It will:
1. Remove heartbeat requests (paths containing receiveHeartBeat.do)
2. Optionally strip header managers from requests
3. Apply path substitutions in order
4. Print the report and, with --output, save the result`,
		Example: `  jmxlabel rewrite plan.jmx
  jmxlabel rewrite plans/ -o out/ --strip-headers --sub 10.0.0.1=HOST
  jmxlabel rewrite -c jmxlabel.yaml --ui pterm`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "rewrite").Logger().WithContext(cmd.Context())

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Source = args[0]
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Source == "" {
				return errors.Errorf("no source: pass a file or directory, or set source in the config file")
			}

			zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Str("source", cfg.Source).Msg("starting rewrite")

			presenter, finish, err := newPresenter(ctx, o, f.ui)
			if err != nil {
				return err
			}

			return runRewrite(ctx, cfg, presenter, finish)
		},
	}

	cmd.Flags().IntVarP(&f.width, "width", "w", config.DefaultLabelWidth, "letters per transaction label")
	cmd.Flags().StringVarP(&f.trimPattern, "trim-pattern", "p", config.DefaultTrimPattern, "regex removed once from request names (empty disables)")
	cmd.Flags().BoolVar(&f.stripHeaders, "strip-headers", false, "remove header managers from requests")
	cmd.Flags().StringArrayVar(&f.subs, "sub", nil, "path substitution old=new, repeatable, applied in order")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file or directory (default: report only)")
	cmd.Flags().StringVar(&f.include, "include", config.DefaultInclude, "glob selecting files in a directory source")
	cmd.Flags().IntVarP(&f.concurrency, "concurrency", "j", 1, "parallel parses in directory mode")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write prometheus textfile metrics here")
	cmd.Flags().StringVar(&f.ui, "ui", UIPlain, "presentation: plain or pterm")

	return cmd
}

// apply copies flags the user set over the loaded configuration.
func (f *rewriteFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("width") {
		cfg.LabelWidth = f.width
	}
	if flags.Changed("trim-pattern") {
		cfg.PathTrimPattern = f.trimPattern
	}
	if flags.Changed("strip-headers") {
		cfg.StripHeaders = f.stripHeaders
	}
	if flags.Changed("sub") {
		subs := make([]config.Substitution, 0, len(f.subs))
		for _, s := range f.subs {
			sub, err := config.ParseSubstitution(s)
			if err != nil {
				return err
			}
			subs = append(subs, sub)
		}
		cfg.Substitutions = subs
	}
	if flags.Changed("output") {
		cfg.Output = f.output
	}
	if flags.Changed("include") {
		cfg.Include = f.include
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	return nil
}

func newPresenter(ctx context.Context, o *opts.RootOpts, name string) (ui.Presenter, func(), error) {
	switch name {
	case UIPlain, "":
		logger := log.New(o.Out, *zerolog.Ctx(ctx))
		return ui.NewConsolePresenter(logger), func() {}, nil
	case UIPterm:
		p := ui.NewPtermPresenter(o.Out, *zerolog.Ctx(ctx))
		return p, p.Finish, nil
	default:
		return nil, nil, errors.Errorf("unknown ui %q: want %s or %s", name, UIPlain, UIPterm)
	}
}

func runRewrite(ctx context.Context, cfg *config.Config, presenter ui.Presenter, finish func()) error {
	engine, err := cfg.EngineOptions()
	if err != nil {
		return err
	}

	metrics := status.NewMetrics()
	reporter := ui.NewProgressReporter(presenter, nil)
	session := operation.New(operation.Options{
		Engine:      engine,
		Include:     cfg.Include,
		Concurrency: cfg.Concurrency,
		Reporter:    reporter,
		Metrics:     metrics,
	})

	results, parseErr := session.Parse(ctx, cfg.Source)
	finish()
	if parseErr != nil && len(results) == 0 {
		return errors.Errorf("parsing %s: %w", cfg.Source, parseErr)
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			continue
		}
		presenter.DisplayReport(r.Path, r.Entries)
	}

	if cfg.Output != "" {
		failed += save(ctx, session, cfg)
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			presenter.ReportError(err.Error())
			failed++
		}
	}

	presenter.ReportInfo(fmt.Sprintf("%d of %d test plans relabeled", len(results)-countFailed(results), len(results)))

	if parseErr != nil && ctx.Err() != nil {
		return errors.Errorf("rewrite interrupted: %w", ctx.Err())
	}
	if failed > 0 {
		return errors.Errorf("%w: %d failure(s), see messages above", ErrFilesFailed, failed)
	}
	return nil
}

// save writes kept documents and returns how many could not be saved.
func save(ctx context.Context, session *operation.Session, cfg *config.Config) int {
	info, err := os.Stat(cfg.Source)
	if err == nil && info.IsDir() {
		return len(session.SaveAll(ctx, cfg.Output).Failed)
	}

	failed := 0
	for _, doc := range session.Documents() {
		if err := session.Save(ctx, doc.Source(), fileDestination(doc.Source(), cfg.Output)); err != nil {
			failed++
		}
	}
	return failed
}

// fileDestination keeps the source basename when output is an existing directory.
func fileDestination(source, output string) string {
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, filepath.Base(source))
	}
	return output
}

func countFailed(results []operation.FileResult) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}
