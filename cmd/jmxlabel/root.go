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

package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/jmxlabel/cmd/jmxlabel/commands"
	"github.com/walteh/jmxlabel/cmd/jmxlabel/opts"
)

// newRootCmd builds the command tree writing reports to out and logs to errOut
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	o := &opts.RootOpts{Out: out, Err: errOut}

	rootCmd := &cobra.Command{
		Use:   "jmxlabel",
		Short: "Relabel JMeter test plans with ordered transaction labels",
		Long: `jmxlabel rewrites JMeter .jmx test plans so transaction controllers and the
HTTP requests inside them carry short ordered labels (AA, AB, ...), drops
heartbeat requests and can strip header managers or substitute request paths.`,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, o)
		},
	}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	// Add shared flags
	addRootFlags(rootCmd, o)

	// Add commands
	rootCmd.AddCommand(
		commands.NewRewriteCmd(o),
		commands.NewLabelsCmd(o),
		commands.NewVersionCmd(o),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (.yaml, .yml, .hcl or .json)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags and puts the logger in the command context
func setupLogging(cmd *cobra.Command, o *opts.RootOpts) {
	level := zerolog.WarnLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: o.Err, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	cmd.SetContext(logger.WithContext(cmd.Context()))
}
