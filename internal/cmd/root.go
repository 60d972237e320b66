package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.symver.io/symver/cmd/state"
	"go.symver.io/symver/errext"
	"go.symver.io/symver/errext/exitcodes"
	"go.symver.io/symver/internal/log"
	"go.symver.io/symver/lib/consts"
)

// Execute runs the root command with a GlobalState built from the process
// environment. It is called by main.main().
func Execute() {
	ExecuteWithGlobalState(state.NewGlobalState(context.Background()))
}

// ExecuteWithGlobalState runs the root command with an existing GlobalState.
// It adds all child commands to the root command and sets flags
// appropriately.
func ExecuteWithGlobalState(gs *state.GlobalState) {
	newRootCommand(gs).execute()
}

// This is to keep all fields needed for the main/root symver command
type rootCommand struct {
	globalState *state.GlobalState
	cmd         *cobra.Command
}

func newRootCommand(gs *state.GlobalState) *rootCommand {
	c := &rootCommand{globalState: gs}
	// the base command when called without any subcommands.
	rootCmd := &cobra.Command{
		Use:   gs.BinaryName,
		Short: "symver version-mangles native symbols",
		Long: "\nsymver mangles the symbols of native (C, C++, assembly) code linked into a\n" +
			"program, so that multiple versions of one native library can coexist in a\n" +
			"single binary without their symbols colliding.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
		Version:           consts.FullVersion(),
	}

	rootCmd.SetVersionTemplate(
		`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "v%s\n" .Version}}`,
	)

	rootCmd.PersistentFlags().AddFlagSet(rootCmdPersistentFlagSet(gs))
	rootCmd.SetArgs(gs.CmdArgs[1:])
	rootCmd.SetOut(gs.Stdout)
	rootCmd.SetErr(gs.Stderr)
	rootCmd.SetIn(gs.Stdin)

	subCommands := []func(*state.GlobalState) *cobra.Command{
		getCmdResolve, getCmdHeader, getCmdRewrite, getCmdVersion,
	}

	for _, sc := range subCommands {
		rootCmd.AddCommand(sc(gs))
	}

	c.cmd = rootCmd
	return c
}

func (c *rootCommand) persistentPreRunE(_ *cobra.Command, _ []string) error {
	if err := c.setupLoggers(); err != nil {
		return err
	}
	if c.globalState.Flags.NoColor {
		color.NoColor = true
	}

	c.globalState.Logger.Debugf("symver version: v%s", consts.FullVersion())

	return nil
}

func (c *rootCommand) execute() {
	ctx, cancel := context.WithCancel(c.globalState.Ctx)
	c.globalState.Ctx = ctx

	exitCode := -1
	defer func() {
		cancel()
		c.globalState.OSExit(exitCode)
	}()

	stopSignalHandling := c.handleAbortSignals(cancel)
	defer stopSignalHandling()

	defer func() {
		if r := recover(); r != nil {
			exitCode = int(exitcodes.GoPanic)
			err := fmt.Errorf("unexpected symver panic: %s\n%s", r, debug.Stack())
			// The configured logger could be the thing that panicked.
			c.globalState.FallbackLogger.Error(err)
		}
	}()

	err := c.cmd.Execute()
	if err == nil {
		exitCode = 0
		return
	}

	exitCode = int(exitcodes.GenericError)
	var ecerr errext.HasExitCode
	if errors.As(err, &ecerr) {
		exitCode = int(ecerr.ExitCode())
	}

	errText, fields := errext.Format(err)
	c.globalState.Logger.WithFields(fields).Error(errText)
}

// handleAbortSignals cancels the command context on the first interrupt or
// termination signal and exits outright on the second one. There is no build
// state worth a graceful shutdown, but the cancel gives in-flight writes a
// chance to finish.
func (c *rootCommand) handleAbortSignals(cancel func()) func() {
	gs := c.globalState
	sigC := make(chan os.Signal, 2)
	done := make(chan struct{})
	gs.SignalNotify(sigC, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigC:
			gs.Logger.WithField("sig", sig).Warn("Received system signal, aborting")
			cancel()
		case <-done:
			return
		}

		select {
		case sig := <-sigC:
			gs.Logger.WithField("sig", sig).Error("Received a second system signal, exiting immediately")
			gs.OSExit(int(exitcodes.ExternalAbort))
		case <-done:
		}
	}()

	return func() {
		close(done)
		gs.SignalStop(sigC)
	}
}

func (c *rootCommand) setupLoggers() error {
	gs := c.globalState

	level := logrus.InfoLevel
	switch {
	case gs.Flags.Verbose:
		level = logrus.DebugLevel
	case gs.Flags.Quiet:
		level = logrus.WarnLevel
	}
	gs.Logger.SetLevel(level)

	switch line := gs.Flags.LogOutput; {
	case line == "stderr":
		gs.Logger.SetOutput(gs.Stderr)
	case line == "stdout":
		gs.Logger.SetOutput(gs.Stdout)
	case line == "none":
		gs.Logger.SetOutput(io.Discard)
	case strings.HasPrefix(line, "file"):
		hook, err := log.FileHookFromConfigLine(gs.FS, gs.Getwd, line)
		if err != nil {
			return err
		}
		gs.Logger.AddHook(hook)
		gs.Logger.SetOutput(io.Discard) // don't output to anywhere else
	default:
		return fmt.Errorf("unsupported log output `%s`", line)
	}

	switch gs.Flags.LogFormat {
	case "json":
		gs.Logger.SetFormatter(&logrus.JSONFormatter{})
		gs.Logger.Debug("Logger format: JSON")
	case "text", "":
		gs.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   gs.Stderr.IsTTY && !gs.Flags.NoColor,
			DisableColors: gs.Flags.NoColor || !gs.Stderr.IsTTY,
		})
	default:
		return fmt.Errorf("unsupported log format `%s`", gs.Flags.LogFormat)
	}

	return nil
}

func rootCmdPersistentFlagSet(gs *state.GlobalState) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false

	flags.BoolVarP(&gs.Flags.Verbose, "verbose", "v", gs.Flags.Verbose, "enable verbose logging")
	flags.BoolVarP(&gs.Flags.Quiet, "quiet", "q", gs.Flags.Quiet, "only log warnings and errors")
	flags.BoolVar(&gs.Flags.NoColor, "no-color", gs.Flags.NoColor, "disable colored output")
	flags.StringVar(&gs.Flags.LogOutput, "log-output", gs.Flags.LogOutput,
		"change the output for symver logs, possible values are stderr, stdout, none, file[=./path.log]")
	flags.StringVar(&gs.Flags.LogFormat, "log-format", gs.Flags.LogFormat, "log output format: text or json")

	return flags
}
