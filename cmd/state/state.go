// Package state contains the GlobalState object that is passed to all
// sub-commands, instead of them looking up its contents in the ambient
// process state.
package state

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"go.symver.io/symver/lib/fsext"
)

const defaultBinaryName = "symver"

// GlobalState contains the GlobalOptions and accessors to all of the global
// objects and methods the commands use: the environment, the filesystem, the
// standard streams, the logger. Its sole purpose is to allow tests to
// override them without touching process-wide state: nothing downstream of a
// command should ever reach for os.Getenv, os.Stdout or the OS filesystem
// directly.
type GlobalState struct {
	Ctx context.Context

	FS         fsext.Fs
	Getwd      func() (string, error)
	BinaryName string
	CmdArgs    []string
	Env        map[string]string

	DefaultFlags, Flags GlobalOptions

	Stdout, Stderr *Console
	Stdin          io.Reader

	OSExit       func(int)
	SignalNotify func(chan<- os.Signal, ...os.Signal)
	SignalStop   func(chan<- os.Signal)

	Logger         *logrus.Logger
	FallbackLogger logrus.FieldLogger
}

// NewGlobalState returns a new GlobalState with the given context, wired to
// the real process environment. Any of its fields can be overridden
// afterwards, which is what tests do.
func NewGlobalState(ctx context.Context) *GlobalState {
	isDumbTerm := os.Getenv("TERM") == "dumb"
	stdoutTTY := !isDumbTerm && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	stderrTTY := !isDumbTerm && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	stdout := &Console{Writer: colorable.NewColorable(os.Stdout), IsTTY: stdoutTTY}
	stderr := &Console{Writer: colorable.NewColorable(os.Stderr), IsTTY: stderrTTY}

	env := BuildEnvMap(os.Environ())
	defaultFlags := GetDefaultFlags()

	logger := &logrus.Logger{
		Out: stderr,
		Formatter: &logrus.TextFormatter{
			ForceColors:   stderrTTY,
			DisableColors: env["NO_COLOR"] != "" || env["SYMVER_NO_COLOR"] != "",
		},
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}

	binaryName := defaultBinaryName
	if len(os.Args) > 0 {
		binaryName = filepath.Base(os.Args[0])
	}

	return &GlobalState{
		Ctx:          ctx,
		FS:           fsext.NewOsFs(),
		Getwd:        os.Getwd,
		BinaryName:   binaryName,
		CmdArgs:      os.Args,
		Env:          env,
		DefaultFlags: defaultFlags,
		Flags:        ConsolidateFlags(defaultFlags, env),
		Stdout:       stdout,
		Stderr:       stderr,
		Stdin:        os.Stdin,
		OSExit:       os.Exit,
		SignalNotify: signal.Notify,
		SignalStop:   signal.Stop,
		Logger:       logger,
		FallbackLogger: &logrus.Logger{
			Out:       os.Stderr,
			Formatter: new(logrus.TextFormatter),
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
	}
}

// Console wraps one of the standard output streams, with the knowledge of
// whether it is a real terminal.
type Console struct {
	io.Writer
	IsTTY bool
}

// BuildEnvMap returns a map from the os.Environ() list representation.
func BuildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}
	return env
}
