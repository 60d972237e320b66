package cmd

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.symver.io/symver/errext/exitcodes"
	"go.symver.io/symver/lib/fsext"
	"go.symver.io/symver/lib/testutils"
)

func TestHeaderCommand(t *testing.T) {
	t.Parallel()

	ts := testutils.NewGlobalTestState(t)
	ts.CmdArgs = []string{"symver", "header", "--include-dir", "/build/include", "--pkg-version", "1.2.3", "--no-git"}
	ExecuteWithGlobalState(ts.GlobalState)

	content, err := fsext.ReadFile(ts.FS, fsext.JoinFilePath("/build/include", "generated_versioned.h"))
	require.NoError(t, err)
	assert.Equal(t, "#define VERSIONED(sym) sym ## _v1_2_3\n", string(content))

	// The published tag is the only thing on stdout, so pipelines can eval it.
	assert.Equal(t, "SYMVER_VERSION=v1_2_3\n", ts.Stdout.String())
}

func TestHeaderCustomNames(t *testing.T) {
	t.Parallel()

	ts := testutils.NewGlobalTestState(t)
	ts.CmdArgs = []string{
		"symver", "header", "--include-dir", "/inc",
		"--header", "my.h", "--macro", "MY_VERSIONED",
		"--pkg-version", "2.0.0-rc_1", "--no-git",
	}
	ExecuteWithGlobalState(ts.GlobalState)

	content, err := fsext.ReadFile(ts.FS, fsext.JoinFilePath("/inc", "my.h"))
	require.NoError(t, err)
	assert.Equal(t, "#define MY_VERSIONED(sym) sym ## _v2_0_0_rc_1\n", string(content))
	assert.Equal(t, "SYMVER_VERSION=v2_0_0_rc_1\n", ts.Stdout.String())
}

func TestHeaderNamesFromEnv(t *testing.T) {
	t.Parallel()

	ts := testutils.NewGlobalTestState(t)
	ts.Env["SYMVER_INCLUDE_DIR"] = "/env/include"
	ts.Env["SYMVER_HEADER"] = "env.h"
	ts.Env["SYMVER_MACRO"] = "ENV_VERSIONED"
	ts.CmdArgs = []string{"symver", "header", "--pkg-version", "0.1.0", "--no-git"}
	ExecuteWithGlobalState(ts.GlobalState)

	content, err := fsext.ReadFile(ts.FS, fsext.JoinFilePath("/env/include", "env.h"))
	require.NoError(t, err)
	assert.Equal(t, "#define ENV_VERSIONED(sym) sym ## _v0_1_0\n", string(content))
}

func TestHeaderMissingIncludeDir(t *testing.T) {
	t.Parallel()

	ts := testutils.NewGlobalTestState(t)
	ts.CmdArgs = []string{"symver", "header", "--pkg-version", "1.2.3", "--no-git"}
	ts.ExpectedExitCode = int(exitcodes.InvalidConfig)
	ExecuteWithGlobalState(ts.GlobalState)

	entries := ts.LoggerHook.Drain()
	require.True(t, testutils.LogContains(entries, logrus.ErrorLevel, "no include directory"))
	for _, entry := range entries {
		if entry.Level == logrus.ErrorLevel {
			assert.Contains(t, entry.Data["hint"], "--include-dir")
		}
	}
}

func TestHeaderEnvFile(t *testing.T) {
	t.Parallel()

	ts := testutils.NewGlobalTestState(t)
	envFile := fsext.JoinFilePath(ts.Cwd, "build.env")
	require.NoError(t, fsext.WriteFile(ts.FS, envFile, []byte("OTHER=1\n"), 0o644))

	ts.CmdArgs = []string{
		"symver", "header", "--include-dir", "/inc",
		"--env-file", envFile, "--pkg-version", "1.2.3", "--no-git",
	}
	ExecuteWithGlobalState(ts.GlobalState)

	content, err := fsext.ReadFile(ts.FS, envFile)
	require.NoError(t, err)
	assert.Equal(t, "OTHER=1\nSYMVER_VERSION=v1_2_3\n", string(content))
}

func TestHeaderCcFlags(t *testing.T) {
	t.Parallel()

	ts := testutils.NewGlobalTestState(t)
	ts.CmdArgs = []string{
		"symver", "header", "--include-dir", "/inc",
		"--cc-flags", "gcc", "--pkg-version", "1.2.3", "--no-git",
	}
	ExecuteWithGlobalState(ts.GlobalState)

	headerPath := fsext.JoinFilePath("/inc", "generated_versioned.h")
	assert.Equal(t, "SYMVER_VERSION=v1_2_3\n-include "+headerPath+"\n", ts.Stdout.String())
}

func TestHeaderUnknownCompilerFamily(t *testing.T) {
	t.Parallel()

	ts := testutils.NewGlobalTestState(t)
	ts.CmdArgs = []string{
		"symver", "header", "--include-dir", "/inc",
		"--cc-flags", "tcc", "--pkg-version", "1.2.3", "--no-git",
	}
	ts.ExpectedExitCode = int(exitcodes.InvalidConfig)
	ExecuteWithGlobalState(ts.GlobalState)

	entries := ts.LoggerHook.Drain()
	assert.True(t, testutils.LogContains(entries, logrus.ErrorLevel, "unknown compiler family"))
}

func TestHeaderWriteFailure(t *testing.T) {
	t.Parallel()

	ts := testutils.NewGlobalTestState(t)
	ts.GlobalState.FS = fsext.NewReadOnlyFs(ts.FS)
	ts.CmdArgs = []string{"symver", "header", "--include-dir", "/inc", "--pkg-version", "1.2.3", "--no-git"}
	ts.ExpectedExitCode = int(exitcodes.HeaderWrite)
	ExecuteWithGlobalState(ts.GlobalState)

	assert.Empty(t, ts.Stdout.String())
}
