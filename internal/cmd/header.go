package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"

	"go.symver.io/symver/cmd/state"
	"go.symver.io/symver/errext"
	"go.symver.io/symver/errext/exitcodes"
	"go.symver.io/symver/lib/consts"
	"go.symver.io/symver/lib/fsext"
	"go.symver.io/symver/lib/header"
)

type headerCmd struct {
	gs *state.GlobalState

	pkgVersion string
	noGit      bool
	includeDir string
	headerName string
	macroName  string
	envFile    string
	ccFlags    string
}

func (c *headerCmd) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVar(&c.includeDir, "include-dir", "",
		"directory to write the generated header into, created if missing")
	flags.StringVar(&c.headerName, "header", "",
		"name of the generated header file (default "+consts.DefaultHeaderName+")")
	flags.StringVar(&c.macroName, "macro", "",
		"name of the generated mangling macro (default "+consts.DefaultMacroName+")")
	flags.StringVar(&c.envFile, "env-file", "",
		"also append the "+consts.VersionEnvKey+"=<tag> line to this file, CI-style")
	flags.StringVar(&c.ccFlags, "cc-flags", "",
		"print the force-include flags for the given compiler family (gcc, clang, gnu, msvc, cl)")
	flags.StringVar(&c.pkgVersion, "pkg-version", "",
		"combined MAJOR.MINOR.PATCH[-PRERELEASE] version of the package being built")
	flags.BoolVar(&c.noGit, "no-git", false, "skip the repository probe even when a checkout is present")
	return flags
}

func (c *headerCmd) flagConfig() (Config, error) {
	conf := Config{
		IncludeDir: null.NewString(c.includeDir, c.includeDir != ""),
		HeaderName: null.NewString(c.headerName, c.headerName != ""),
		MacroName:  null.NewString(c.macroName, c.macroName != ""),
	}
	if c.noGit {
		conf.NoGit = null.BoolFrom(true)
	}
	return applyPkgVersion(conf, c.pkgVersion)
}

func (c *headerCmd) run(_ *cobra.Command, _ []string) error {
	gs := c.gs

	flagConf, err := c.flagConfig()
	if err != nil {
		return err
	}
	conf, err := getConsolidatedConfig(gs, flagConf)
	if err != nil {
		return err
	}
	if conf.IncludeDir.String == "" {
		err := fmt.Errorf("no include directory was specified")
		err = errext.WithHint(err, "pass --include-dir or set SYMVER_INCLUDE_DIR")
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	tag, err := resolveTag(gs, conf)
	if err != nil {
		return err
	}

	path, err := header.Emit(gs.FS, conf.IncludeDir.String, conf.HeaderName.String, conf.MacroName.String, tag)
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.HeaderWrite)
	}
	gs.Logger.WithFields(map[string]interface{}{"path": path, "tag": tag}).Debug("Versioned header written")

	// The publication line is the contract with the surrounding build
	// pipeline: it carries the tag to every later compilation phase, which
	// must never re-resolve it (the checkout could have moved by then).
	printToStdout(gs, fmt.Sprintf("%s=%s\n", consts.VersionEnvKey, tag))

	if c.envFile != "" {
		if err := appendEnvLine(gs.FS, c.envFile, tag); err != nil {
			return errext.WithExitCodeIfNone(err, exitcodes.HeaderWrite)
		}
	}

	if c.ccFlags != "" {
		ccFlags, err := header.IncludeFlags(c.ccFlags, path)
		if err != nil {
			return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
		}
		printToStdout(gs, strings.Join(ccFlags, " ")+"\n")
	}

	return nil
}

func appendEnvLine(fs fsext.Fs, path, tag string) error {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("could not open env file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintf(f, "%s=%s\n", consts.VersionEnvKey, tag); err != nil {
		return fmt.Errorf("could not append to env file %s: %w", path, err)
	}
	return nil
}

func getCmdHeader(gs *state.GlobalState) *cobra.Command {
	c := &headerCmd{gs: gs}

	exampleText := getExampleText(gs, `
  # Emit build/include/generated_versioned.h and publish the tag
  $ {{.}} header --include-dir build/include --pkg-version 1.23.2

  # Emit with a custom macro name and print the gcc force-include flags
  $ {{.}} header --include-dir build/include --macro MY_VERSIONED --cc-flags gcc`[1:])

	headerCmd := &cobra.Command{
		Use:   "header",
		Short: "Emit the versioned header and publish the tag",
		Long: `Resolve the version tag, write the generated header whose macro mangles a
symbol name by token-pasting the tag onto it, and publish the tag.

The published ` + consts.VersionEnvKey + ` value is what later rewrite steps
consume; run header to completion before any of them.`,
		Example: exampleText,
		Args:    cobra.NoArgs,
		RunE:    c.run,
	}

	headerCmd.Flags().SortFlags = false
	headerCmd.Flags().AddFlagSet(c.flagSet())

	return headerCmd
}
