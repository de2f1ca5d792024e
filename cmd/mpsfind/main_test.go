package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/precursor/netio"
)

const testNetwork = `
reactions:
  - {id: R1, equation: "A -> X"}
  - {id: R2, equation: "B + X -> T"}
  - {id: R3, equation: "C -> T"}
precursors: [A, B, C]
targets: [T]
`

// run executes the root command with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()

	return out.String(), err
}

func fixture(t *testing.T) (dir, network string) {
	t.Helper()
	t.Setenv("MPS_LOG_LEVEL", "error")
	dir = t.TempDir()
	network = filepath.Join(dir, "net.yaml")
	require.NoError(t, os.WriteFile(network, []byte(testNetwork), 0o600))

	return dir, network
}

func TestSearchAndCheck(t *testing.T) {
	dir, network := fixture(t)
	outDir := filepath.Join(dir, "out")
	metrics := filepath.Join(dir, "metrics.prom")
	t.Setenv("MPS_METRICS_FILE", metrics)

	out, err := run(t, "search", "--network", network, "--out", outDir)
	require.NoError(t, err)
	result := filepath.Join(outDir, "T_PS.xml")
	assert.Contains(t, out, "T\t2 sets\tok\t"+result)

	doc, err := netio.ReadResults(result)
	require.NoError(t, err)
	require.Len(t, doc.Solutions, 2)
	var got []string
	for _, s := range doc.Sets() {
		got = append(got, s.String())
	}
	assert.ElementsMatch(t, []string{"{C}", "{A, B}"}, got)

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "mpsfind_targets_total")
	assert.Contains(t, string(prom), "mpsfind_solver_calls_total")

	out, err = run(t, "check", "--network", network, "--results", result)
	require.NoError(t, err)
	assert.Contains(t, out, "T\t{C}\t")
	assert.Contains(t, out, "feasible")
	assert.NotContains(t, out, "infeasible")
}

func TestSearchTraversalYAML(t *testing.T) {
	dir, network := fixture(t)
	t.Setenv("MPS_OUTPUT_FORMAT", "yaml")

	_, err := run(t, "search", "-n", network, "-o", dir, "--strategy", "traversal")
	require.NoError(t, err)
	doc, err := netio.ReadResults(filepath.Join(dir, "T_PS.yaml"))
	require.NoError(t, err)
	assert.Len(t, doc.Solutions, 2)
}

func TestCheckRejectsInfeasibleSet(t *testing.T) {
	dir, network := fixture(t)
	result := filepath.Join(dir, "bad_PS.yaml")
	require.NoError(t, os.WriteFile(result, []byte("target: T\nsolutions:\n  - precursors: [{id: A}]\n"), 0o600))

	out, err := run(t, "check", "-n", network, "-r", result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 sets")
	assert.Equal(t, errRejectedSets, errors.Cause(err))
	assert.Contains(t, out, "infeasible")
}

func TestSearchErrorsKeepTheirCause(t *testing.T) {
	dir, network := fixture(t)
	t.Setenv("MPS_METRICS_FILE", filepath.Join(dir, "missing", "metrics.prom"))

	_, err := run(t, "search", "-n", network, "-o", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write metrics")
	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr), "the file system error stays reachable")
}

func TestCommandErrors(t *testing.T) {
	_, network := fixture(t)

	_, err := run(t, "search")
	require.Error(t, err, "--network is required")

	_, err = run(t, "search", "-n", network, "--mode", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.mode")

	_, err = run(t, "search", "-n", network, "-t", "nope", "-o", t.TempDir())
	require.Error(t, err)

	_, err = run(t, "search", "-n", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mpsfind dev\n", out)
}
