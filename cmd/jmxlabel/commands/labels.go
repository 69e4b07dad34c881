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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/jmxlabel/cmd/jmxlabel/opts"
	"github.com/walteh/jmxlabel/pkg/naming"
)

// 🔤 NewLabelsCmd prints the label sequence for a width
func NewLabelsCmd(o *opts.RootOpts) *cobra.Command {
	var (
		width int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Print the transaction label sequence",
		Long: `Labels prints the labels transaction controllers receive, in order.
Width 2 gives AA, AB, ... ZZ (676 labels).`,
		Example: `  jmxlabel labels --width 1
  jmxlabel labels -w 2 --limit 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.Errorf("limit must not be negative, got %d", limit)
			}

			var labels []string
			var err error
			if limit > 0 {
				labels, err = naming.First(width, limit)
			} else {
				labels, err = naming.Generate(width)
			}
			if err != nil {
				return errors.Errorf("generating labels: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(labels, "\n"))
			return err
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 2, "letters per label")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many labels (0 = all)")

	return cmd
}
