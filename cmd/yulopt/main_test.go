package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(input), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunStdin(t *testing.T) {
	stdout, _, err := runCLI(t, "{ let x x := 1 }", "--no-config")
	require.NoError(t, err)
	assert.Equal(t, "{\n    let x := 1\n}\n", stdout)
}

func TestRunMinifyWhitespace(t *testing.T) {
	stdout, _, err := runCLI(t, "{ let x, y x, y := f() }", "--no-config", "--minify-whitespace")
	require.NoError(t, err)
	assert.Equal(t, "{let x,y:=f()}", stdout)
}

func TestRunEmptySteps(t *testing.T) {
	stdout, _, err := runCLI(t, "{ let x x := 1 }", "--no-config", "--minify-whitespace", "--steps=")
	require.NoError(t, err)
	assert.Equal(t, "{let x x:=1}", stdout)
}

func TestRunUnknownStep(t *testing.T) {
	_, stderr, err := runCLI(t, "{ }", "--no-config", "--steps", "disambiguator,varDeclPropagatr")
	require.Error(t, err)
	assert.Contains(t, stderr, `error: unknown step "varDeclPropagatr" (did you mean "varDeclPropagator"?)`)
}

func TestRunParseError(t *testing.T) {
	_, stderr, err := runCLI(t, "{\n  let := 1\n}", "--no-config")
	require.Error(t, err)
	assert.Equal(t, "optimisation failed with 1 error(s)", err.Error())
	assert.Contains(t, stderr, "2:7: error: expected identifier, got :=\n      let := 1\n")
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "contract.yul")
	output := filepath.Join(dir, "contract.opt.yul")
	require.NoError(t, os.WriteFile(input, []byte("{ let a a := 2 }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yulopt.yaml"), []byte("minifyWhitespace: true\n"), 0o644))

	_, stderr, err := runCLI(t, "", "-o", output, input)
	require.NoError(t, err)
	assert.Contains(t, stderr, "1 fused, 1 removed")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "{let a:=2}", string(data))
}

func TestRunFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "custom.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{"minifyWhitespace": true, "steps": []}`), 0o644))

	stdout, _, err := runCLI(t, "{ let a a := 2 }", "--config", cfg, "--steps", "disambiguator,varDeclPropagator")
	require.NoError(t, err)
	assert.Equal(t, "{let a:=2}", stdout)
}

func TestRunVerbose(t *testing.T) {
	_, stderr, err := runCLI(t, "{ let a a := 2 }", "--no-config", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "msg=\"step finished\" step=varDeclPropagator")
}

func TestRunVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "yulopt v0.1.0 (dev)\n", stdout)
}

type failingCloser struct {
	bytes.Buffer
}

func (*failingCloser) Close() error {
	return errors.New("disk full")
}

func TestRunReportsCloseError(t *testing.T) {
	out := &failingCloser{}
	saved := createOutput
	createOutput = func(string) (io.WriteCloser, error) { return out, nil }
	defer func() { createOutput = saved }()

	_, _, err := runCLI(t, "{ let a a := 2 }", "--no-config", "--minify-whitespace", "-o", "out.yul")
	require.Error(t, err)
	assert.Equal(t, "closing output file: disk full", err.Error())
	assert.Equal(t, "{let a:=2}", out.String())
}

func TestRunKeepNames(t *testing.T) {
	stdout, _, err := runCLI(t, "{ let x := 1 { let x := 2 } }", "--no-config", "--minify-whitespace", "--keep-names", " x_1 , ,x_2")
	require.NoError(t, err)
	assert.Equal(t, "{let x:=1{let x_3:=2}}", stdout)
}

func TestSplitCommaList(t *testing.T) {
	assert.Equal(t, []string{"a", "b.c"}, splitCommaList(" a, ,b.c "))
	assert.Nil(t, splitCommaList(""))
}
