package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fooResults = `{
  "Foo": {
    "test_results": {
      "testAdd": {"status": "success", "decoded_logs": ["x=2"]}
    },
    "warnings": []
  }
}`

const fooExpect = `
[[contracts.Foo]]
test = "testAdd"
should_pass = true
logs = ["x=2"]
`

func writeFile(t *testing.T, path string, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), append([]string{"zktester", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestAssertCommand(t *testing.T) {
	dir := t.TempDir()
	results := writeFile(t, filepath.Join(dir, "results.json"), fooResults)
	table := writeFile(t, filepath.Join(dir, "expect.toml"), fooExpect)

	out, err := run(t, "assert", "--results", results, "--expect", table)
	require.NoError(t, err)
	assert.Contains(t, out, "all expectations of 1 contracts met")

	mismatch := writeFile(t, filepath.Join(dir, "mismatch.toml"), strings.Replace(fooExpect, "x=2", "x=3", 1))
	_, err = run(t, "assert", "--results", results, "--expect", mismatch)
	require.ErrorContains(t, err, "Assertion failed: logs (Foo::testAdd)")
}

func TestVerifyCommand(t *testing.T) {
	dir := t.TempDir()
	results := writeFile(t, filepath.Join(dir, "results.json"), fooResults)

	out, err := run(t, "verify", "--results", results)
	require.NoError(t, err)
	assert.Contains(t, out, "1 tests in 1 suites behaved as expected")

	_, err = run(t, "verify", "--results", results, "--should-fail")
	require.ErrorContains(t, err, "Test testAdd did not fail as expected.")

	empty := writeFile(t, filepath.Join(dir, "empty.json"), "{}")
	_, err = run(t, "verify", "--results", empty)
	require.ErrorContains(t, err, "filter matched no tests")
}

func TestCorrelateCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "out", "Token.sol", "Token.json"),
		`{"bytecode":{"object":"0x6080"},"deployedBytecode":{"object":"0x60"}}`)
	writeFile(t, filepath.Join(dir, "zkout", "Token.sol", "Token.zk.json"),
		`{"bytecode":{"object":"0x00"},"deployedBytecode":{"object":"0x`+strings.Repeat("00", 32)+`"}}`)

	out, err := run(t, "correlate", "--evm", filepath.Join(dir, "out"), "--zk", filepath.Join(dir, "zkout"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Token\tevm=0x"), out)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	results := writeFile(t, filepath.Join(dir, "results.json"), fooResults)

	out, err := run(t, "report", "--results", results, "--root", "/project", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "passed"`)
	assert.Contains(t, out, `"root": "/project"`)

	out, err = run(t, "report", "--results", results)
	require.NoError(t, err)
	assert.Contains(t, out, "Foo::testAdd")
}

func TestDefaultsCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	out, err := run(t, "defaults", "--root", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "rpcAlias")
	assert.Contains(t, out, "runs = 256")
}
