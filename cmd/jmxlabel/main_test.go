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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/jmxlabel/cmd/jmxlabel/commands"
	"github.com/walteh/jmxlabel/pkg/config"
)

const testPlan = `<?xml version="1.0" encoding="UTF-8"?>
<jmeterTestPlan version="1.2" properties="5.0" jmeter="5.6.3">
  <hashTree>
    <TestPlan testclass="TestPlan" testname="Test Plan" enabled="true"/>
    <hashTree>
      <TransactionController testclass="TransactionController" testname="shop#login" enabled="true"/>
      <hashTree>
        <HTTPSamplerProxy testclass="HTTPSamplerProxy" testname="http://10.0.0.1/home?x=1" enabled="true">
          <stringProp name="HTTPSampler.path">http://10.0.0.1/home</stringProp>
        </HTTPSamplerProxy>
        <hashTree>
          <HeaderManager testclass="HeaderManager" testname="HTTP Header Manager" enabled="true"/>
          <hashTree/>
        </hashTree>
        <HTTPSamplerProxy testclass="HTTPSamplerProxy" testname="beat" enabled="true">
          <stringProp name="HTTPSampler.path">/receiveHeartBeat.do</stringProp>
        </HTTPSamplerProxy>
        <hashTree/>
      </hashTree>
    </hashTree>
  </hashTree>
</jmeterTestPlan>
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCmd(out, errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestLabelsCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "width_one_limited", args: []string{"labels", "-w", "1", "--limit", "3"}, want: "A\nB\nC\n"},
		{name: "default_width", args: []string{"labels", "--limit", "2"}, want: "AA\nAB\n"},
		{name: "limit_above_capacity", args: []string{"labels", "-w", "1", "--limit", "100"}, want: strings.Join(strings.Split("ABCDEFGHIJKLMNOPQRSTUVWXYZ", ""), "\n") + "\n"},
		{name: "wide_limited", args: []string{"labels", "-w", "6", "--limit", "2"}, want: "AAAAAA\nAAAAAB\n"},
		{name: "invalid_width", args: []string{"labels", "-w", "0"}, wantErr: true},
		{name: "negative_limit", args: []string{"labels", "--limit", "-1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "jmxlabel version info")
	assert.Contains(t, out, "Platform:")
}

func TestRewriteCmd_ReportOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "plan.jmx"), testPlan)

	out, _, err := execute(t, "rewrite", path)
	require.NoError(t, err)

	assert.Contains(t, out, "[relabeling "+path+"]")
	assert.Contains(t, out, "事务_AA#login")
	assert.Contains(t, out, "AA_1#/home", "default trim pattern removes the address")
	assert.Contains(t, out, "1 of 1 test plans relabeled")

	// nothing saved without --output
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRewriteCmd_SaveFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "plan.jmx"), testPlan)
	dest := filepath.Join(dir, "out", "relabeled.jmx")
	metricsFile := filepath.Join(dir, "jmxlabel.prom")

	_, _, err := execute(t, "rewrite", path,
		"-o", dest,
		"--strip-headers",
		"--sub", "10.0.0.1=HOST",
		"--sub", "HOST/home=HOST/index",
		"--metrics-file", metricsFile,
	)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"))
	assert.Equal(t, 1, strings.Count(content, "<?xml"), "exactly one declaration")
	assert.Contains(t, content, `testname="事务_AA#login"`)
	assert.Contains(t, content, "http://HOST/index")
	assert.NotContains(t, content, "HeaderManager")
	assert.NotContains(t, content, "receiveHeartBeat.do")

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "jmxlabel_header_pairs_removed_total 1")
}

func TestRewriteCmd_Directory(t *testing.T) {
	for _, ui := range []string{commands.UIPlain, commands.UIPterm} {
		t.Run(ui, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "plans")
			writeFile(t, filepath.Join(src, "a.jmx"), testPlan)
			writeFile(t, filepath.Join(src, "b.jmx"), "<broken")
			writeFile(t, filepath.Join(src, "c.jmx"), testPlan)
			out := filepath.Join(dir, "out")

			stdout, _, err := execute(t, "rewrite", src, "-o", out, "-j", "2", "--ui", ui)

			require.Error(t, err, "a failed file makes the run fail")
			assert.True(t, errors.Is(err, commands.ErrFilesFailed))
			assert.Contains(t, stdout, "b.jmx")
			assert.Contains(t, stdout, "2 of 3 test plans relabeled")

			assert.FileExists(t, filepath.Join(out, "a.jmx"))
			assert.FileExists(t, filepath.Join(out, "c.jmx"))
			assert.NoFileExists(t, filepath.Join(out, "b.jmx"))
		})
	}
}

func TestRewriteCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "plan.jmx"), testPlan)
	cfgPath := writeFile(t, filepath.Join(dir, "jmxlabel.yaml"), `
source: `+path+`
label_width: 1
path_trim_pattern: ""
`)

	out, _, err := execute(t, "rewrite", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "事务_A#login")
	assert.Contains(t, out, "A_1#http://10.0.0.1/home")

	// flags win over the file
	out, _, err = execute(t, "rewrite", "-c", cfgPath, "-w", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "事务_AAA#login")
}

func TestRewriteCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "plan.jmx"), testPlan)

	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{name: "no_source", args: []string{"rewrite"}},
		{name: "invalid_width", args: []string{"rewrite", path, "-w", "0"}, target: config.ErrInvalidConfig},
		{name: "bad_substitution", args: []string{"rewrite", path, "--sub", "nothing"}, target: config.ErrInvalidConfig},
		{name: "bad_trim_pattern", args: []string{"rewrite", path, "-p", "(unclosed"}, target: config.ErrInvalidConfig},
		{name: "unknown_ui", args: []string{"rewrite", path, "--ui", "fancy"}},
		{name: "missing_file", args: []string{"rewrite", filepath.Join(dir, "missing.jmx")}, target: commands.ErrFilesFailed},
		{name: "missing_config", args: []string{"rewrite", path, "-c", filepath.Join(dir, "missing.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), "got %v", err)
			}
		})
	}
}
