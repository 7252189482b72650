package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaussian-ca-simulation/internal/sweep"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "gca version "+version+"\n", out)
}

func TestSweepCmd_JSON(t *testing.T) {
	out, err := execute(t, "sweep", "--json",
		"--grid-size", "6", "--steps", "40", "--trials", "3",
		"--start", "0.0", "--stop", "0.08", "--count", "4", "--seed", "7")
	require.NoError(t, err)

	var points []sweep.Point
	require.NoError(t, json.Unmarshal([]byte(out), &points))
	require.Len(t, points, 4)
	assert.InDelta(t, 0.0, points[0].Param, 1e-12)
	assert.InDelta(t, 0.08, points[3].Param, 1e-12)
	for _, p := range points {
		assert.Equal(t, 3, p.Trials)
		assert.GreaterOrEqual(t, p.MeanOfMeans, 0.0)
		assert.LessOrEqual(t, p.MeanOfMeans, 1.0)
	}
}

func TestSweepCmd_Table(t *testing.T) {
	out, err := execute(t, "sweep",
		"--grid-size", "5", "--steps", "20", "--trials", "2",
		"--start", "0.01", "--stop", "0.03", "--count", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Mean(means)")
	assert.Contains(t, out, "3/3 points complete")
	assert.Contains(t, out, "0.02000")
}

func TestSweepCmd_InvalidConfiguration(t *testing.T) {
	_, err := execute(t, "sweep", "--trials", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, sweep.ErrInvalidConfiguration)

	_, err = execute(t, "sweep", "--init", "checkerboard")
	assert.ErrorIs(t, err, sweep.ErrInvalidConfiguration)
}

func TestRunCmd_Table(t *testing.T) {
	out, err := execute(t, "run",
		"--grid-size", "6", "--init", "uniform", "--value", "0.8",
		"--threshold", "0.04", "--steps", "20", "--frames", "10")
	require.NoError(t, err)

	assert.Contains(t, out, "Living cells")
	assert.Contains(t, out, "Final:")
	// 6x6 grid is small enough to be printed.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, strings.Fields(lines[len(lines)-1]), 6)
}

func TestRunCmd_JSON(t *testing.T) {
	out, err := execute(t, "run", "--json",
		"--grid-size", "6", "--init", "pattern",
		"--threshold", "0.05", "--steps", "30", "--frames", "10")
	require.NoError(t, err)

	var report runReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 30, report.Steps)
	require.Len(t, report.Series, 3)
	assert.Equal(t, []int{0, 10, 20}, []int{report.Series[0].Step, report.Series[1].Step, report.Series[2].Step})
	assert.Len(t, report.Grid, 6)
	assert.InDelta(t, report.FinalSum/36, report.FinalMean, 1e-12)
}

func TestConfigShow_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gca.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid_size: 9\nn_trials: 12\n"), 0o644))

	out, err := execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "grid_size: 9")
	assert.Contains(t, out, "n_trials: 12")
}

func TestFormatGrid(t *testing.T) {
	got := formatGrid([][]float64{{0, 1}, {0.25, 0.5}})
	assert.Equal(t, "0.00 1.00\n0.25 0.50\n", got)
}
