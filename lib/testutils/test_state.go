package testutils

import (
	"bytes"
	"context"
	"io"
	"os/signal"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.symver.io/symver/cmd/state"
	"go.symver.io/symver/lib/fsext"
)

// GlobalTestState is a wrapper around GlobalState for use in tests.
type GlobalTestState struct {
	*state.GlobalState
	Cancel func()

	Stdout, Stderr *bytes.Buffer
	Stdin          *bytes.Buffer
	LoggerHook     *SimpleLogrusHook

	Cwd string

	ExpectedExitCode int
}

// NewGlobalTestState returns an initialized GlobalTestState, mocking out the
// real environment: an in-memory filesystem, an empty env map, buffered
// stdio and an exit handler that asserts the expected exit code instead of
// terminating the test process.
func NewGlobalTestState(t *testing.T) *GlobalTestState {
	fs := fsext.NewMemMapFs()
	cwd := "/test/"
	if runtime.GOOS == "windows" {
		cwd = "c:\\test\\"
	}
	require.NoError(t, fs.MkdirAll(cwd, 0o755))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.InfoLevel)
	hook := NewLogHook()
	logger.AddHook(hook)

	ts := &GlobalTestState{
		Cwd:        cwd,
		Stdout:     new(bytes.Buffer),
		Stderr:     new(bytes.Buffer),
		Stdin:      new(bytes.Buffer),
		LoggerHook: hook,
	}

	ctx, cancel := context.WithCancel(context.Background())
	ts.Cancel = cancel
	t.Cleanup(cancel)

	osExitCalled := false
	t.Cleanup(func() {
		if ts.ExpectedExitCode > 0 {
			// Ensure that, if the expectation of a failure was set, the
			// command under test actually failed.
			assert.True(t, osExitCalled, "expected exit code %d, but the command did not exit", ts.ExpectedExitCode)
		}
	})

	defaultFlags := state.GetDefaultFlags()
	ts.GlobalState = &state.GlobalState{
		Ctx:          ctx,
		FS:           fs,
		Getwd:        func() (string, error) { return cwd, nil },
		BinaryName:   "symver",
		CmdArgs:      []string{},
		Env:          map[string]string{},
		DefaultFlags: defaultFlags,
		Flags:        defaultFlags,
		Stdout:       &state.Console{Writer: ts.Stdout},
		Stderr:       &state.Console{Writer: ts.Stderr},
		Stdin:        ts.Stdin,
		OSExit: func(exitCode int) {
			cancel()
			osExitCalled = true
			assert.Equal(t, ts.ExpectedExitCode, exitCode)
		},
		SignalNotify:   signal.Notify,
		SignalStop:     signal.Stop,
		Logger:         logger,
		FallbackLogger: logger,
	}

	return ts
}
