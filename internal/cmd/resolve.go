package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"

	"go.symver.io/symver/cmd/state"
)

type resolveCmd struct {
	gs *state.GlobalState

	pkgVersion string
	noGit      bool
}

func (c *resolveCmd) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVar(&c.pkgVersion, "pkg-version", "",
		"combined MAJOR.MINOR.PATCH[-PRERELEASE] version of the package being built")
	flags.BoolVar(&c.noGit, "no-git", false, "skip the repository probe even when a checkout is present")
	return flags
}

func (c *resolveCmd) flagConfig() (Config, error) {
	conf := Config{}
	if c.noGit {
		conf.NoGit = null.BoolFrom(true)
	}
	return applyPkgVersion(conf, c.pkgVersion)
}

func (c *resolveCmd) run(_ *cobra.Command, _ []string) error {
	flagConf, err := c.flagConfig()
	if err != nil {
		return err
	}
	conf, err := getConsolidatedConfig(c.gs, flagConf)
	if err != nil {
		return err
	}

	tag, err := resolveTag(c.gs, conf)
	if err != nil {
		return err
	}

	printToStdout(c.gs, tag+"\n")
	return nil
}

func getCmdResolve(gs *state.GlobalState) *cobra.Command {
	c := &resolveCmd{gs: gs}

	exampleText := getExampleText(gs, `
  # Resolve the tag from the environment and the current git checkout
  $ SYMVER_PKG_VERSION_MAJOR=1 SYMVER_PKG_VERSION_MINOR=2 SYMVER_PKG_VERSION_PATCH=3 {{.}} resolve

  # Resolve a pre-release version without probing git
  $ {{.}} resolve --pkg-version 1.23.2-beta --no-git`[1:])

	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve and print the version tag",
		Long: `Resolve the version tag for the current build from the package version
fields and, when the working directory is a git checkout, its revision.

The printed tag is exactly what gets pasted onto mangled symbol names.`,
		Example: exampleText,
		Args:    cobra.NoArgs,
		RunE:    c.run,
	}

	resolveCmd.Flags().SortFlags = false
	resolveCmd.Flags().AddFlagSet(c.flagSet())

	return resolveCmd
}
