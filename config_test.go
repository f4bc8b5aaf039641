package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestConfigNemeses(t *testing.T) {
	config := Config{BaseNemeses: []string{"none", "partition", " none", ""}}
	require.Equal(t, []string{"none", "partition"}, config.Nemeses())

	config.EnableClockSkew = true
	require.Equal(t, []string{"none", "partition", ClockSkewNemesis}, config.Nemeses())
	require.Equal(t, []string{"none", "partition", " none", ""}, config.BaseNemeses)
}

func TestConfigWorkloadTimeLimit(t *testing.T) {
	config := Config{TimeLimit: DefaultTimeLimit}
	require.Equal(t, DefaultTimeLimit, config.WorkloadTimeLimit("bank"))
	require.Equal(t, SetWorkloadTimeLimit, config.WorkloadTimeLimit("set"))
	require.Equal(t, SetWorkloadTimeLimit, config.WorkloadTimeLimit("ycql/set-index"))
	require.Equal(t, DefaultTimeLimit, config.WorkloadTimeLimit("ysql/bank-multitable"))

	config.TimeLimit = 60 * time.Second
	require.Equal(t, 60*time.Second, config.WorkloadTimeLimit("set"))
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Workloads:   []string{"bank", "bank", "set"},
			BaseNemeses: []string{"none"},
			Iterations:  1,
			TimeLimit:   DefaultTimeLimit,
			RunTimeout:  DefaultRunTimeout,
		}
	}
	config := valid()
	require.Nil(t, config.Validate())
	require.Equal(t, []string{"bank", "set"}, config.Workloads)

	config = valid()
	config.Workloads = []string{" "}
	require.ErrorContains(t, config.Validate(), "workload")

	config = valid()
	config.BaseNemeses = nil
	require.ErrorContains(t, config.Validate(), "nemesis")
	config.EnableClockSkew = true
	require.Nil(t, config.Validate())

	config = valid()
	config.Iterations = 0
	require.ErrorContains(t, config.Validate(), "iterations")

	config = valid()
	config.RunTimeout = config.TimeLimit
	require.ErrorContains(t, config.Validate(), "must exceed")
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("JEPSEN_LOOP_TEST_INT", "42")
	t.Setenv("JEPSEN_LOOP_TEST_BAD_INT", "forty-two")
	t.Setenv("JEPSEN_LOOP_TEST_BOOL", "true")
	t.Setenv("JEPSEN_LOOP_TEST_LIST", "bank,set")

	require.Equal(t, 42, IntEnv("JEPSEN_LOOP_TEST_INT", 1))
	require.Equal(t, 1, IntEnv("JEPSEN_LOOP_TEST_BAD_INT", 1))
	require.Equal(t, 7, IntEnv("JEPSEN_LOOP_TEST_MISSING", 7))
	require.True(t, BoolEnv("JEPSEN_LOOP_TEST_BOOL", false))
	require.Equal(t, []string{"bank", "set"}, ListEnv("JEPSEN_LOOP_TEST_LIST", nil))
	require.Equal(t, "x", StringEnv("JEPSEN_LOOP_TEST_MISSING", "x"))
}

func TestRootCommandRejectsInvalidFlags(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()

	cmd := newRootCommand(logger)
	cmd.SetArgs([]string{"--iterations", "0", "--base-dir", t.TempDir()})
	require.ErrorContains(t, cmd.Execute(), "iterations")

	cmd = newRootCommand(logger)
	cmd.SetArgs([]string{"--time-limit-sec", "600", "--run-timeout-sec", "300", "--base-dir", t.TempDir()})
	require.ErrorContains(t, cmd.Execute(), "must exceed")
}

func TestBisectCommandFlags(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()

	cmd := newRootCommand(logger)
	cmd.SetArgs([]string{"bisect", "--base-dir", t.TempDir()})
	require.ErrorContains(t, cmd.Execute(), "--url-prefix is required")

	// matrix flags are shared with the loop and validated the same way
	cmd = newRootCommand(logger)
	cmd.SetArgs([]string{"bisect", "--url-prefix", "http://10.0.0.1:8000", "--iterations", "0", "--base-dir", t.TempDir()})
	require.ErrorContains(t, cmd.Execute(), "iterations")
}

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, exitCode(nil))
	require.Equal(t, 3, exitCode(&CommandError{Command: "false", ExitCode: 3}))
	require.Equal(t, 137, exitCode(&CommandError{Command: "sleep", ExitCode: -9}))
	require.Equal(t, 1, exitCode(errors.New("boom")))
	require.Equal(t, interruptedExitCode, exitCode(fmt.Errorf("failed to sort results: %w", context.Canceled)))
}
