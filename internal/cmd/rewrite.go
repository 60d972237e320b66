package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.symver.io/symver/cmd/state"
	"go.symver.io/symver/errext"
	"go.symver.io/symver/errext/exitcodes"
	"go.symver.io/symver/lib/consts"
	"go.symver.io/symver/lib/fsext"
	"go.symver.io/symver/lib/mangle"
)

type rewriteCmd struct {
	gs *state.GlobalState

	tag    string
	output string
}

func (c *rewriteCmd) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVar(&c.tag, "tag", "",
		"version tag to mangle with (default: the published "+consts.VersionEnvKey+" value)")
	flags.StringVarP(&c.output, "output", "o", "", "write the rewritten batch to this file instead of stdout")
	return flags
}

func (c *rewriteCmd) run(_ *cobra.Command, args []string) error {
	gs := c.gs

	tag := c.tag
	if tag == "" {
		tag = gs.Env[consts.VersionEnvKey]
	}
	if tag == "" {
		err := fmt.Errorf("no version tag available")
		err = errext.WithHint(err, "run `"+gs.BinaryName+" header` first so "+
			consts.VersionEnvKey+" is published, or pass --tag")
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	src, srcName, err := c.readBatch(args)
	if err != nil {
		return err
	}

	out, err := mangle.Rewrite(src, tag)
	if err != nil {
		var perr *mangle.ParseError
		if errors.As(err, &perr) {
			printBatchDiagnostic(gs, srcName, src, perr)
			return errext.WithExitCodeIfNone(err, exitcodes.MalformedBatch)
		}
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	if c.output != "" {
		if err := fsext.WriteFile(gs.FS, c.output, out, 0o644); err != nil {
			return fmt.Errorf("could not write rewritten batch to %s: %w", c.output, err)
		}
		return nil
	}
	printToStdout(gs, string(out))
	return nil
}

// readBatch reads the declaration batch from the file argument, or from
// stdin when the argument is missing or is "-".
func (c *rewriteCmd) readBatch(args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		src, err := io.ReadAll(c.gs.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("could not read the declaration batch from stdin: %w", err)
		}
		return src, "<stdin>", nil
	}

	src, err := fsext.ReadFile(c.gs.FS, args[0])
	if err != nil {
		return nil, "", fmt.Errorf("could not read the declaration batch: %w", err)
	}
	return src, args[0], nil
}

func getCmdRewrite(gs *state.GlobalState) *cobra.Command {
	c := &rewriteCmd{gs: gs}

	exampleText := getExampleText(gs, `
  # Rewrite a declaration batch with the published tag
  $ {{.}} rewrite src/ffi.decl

  # Rewrite from stdin with an explicit tag
  $ cat src/ffi.decl | {{.}} rewrite --tag v1_2_3 -o src/ffi.gen`[1:])

	rewriteCmd := &cobra.Command{
		Use:   "rewrite [file]",
		Short: "Rewrite a declaration batch to link mangled symbol names",
		Long: `Rewrite a batch of external-symbol declarations so every declared symbol
carries an explicit link-name override of the form <name>_<tag>, while the
program-visible identifiers stay unchanged.

The batch is rewritten whole or not at all: a malformed declaration aborts
the whole unit, since a partially mangled block would be silently wrong.`,
		Example: exampleText,
		Args:    cobra.MaximumNArgs(1),
		RunE:    c.run,
	}

	rewriteCmd.Flags().SortFlags = false
	rewriteCmd.Flags().AddFlagSet(c.flagSet())

	return rewriteCmd
}
