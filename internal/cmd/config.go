package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mstoykov/envconfig"
	"gopkg.in/guregu/null.v3"

	"go.symver.io/symver/cmd/state"
	"go.symver.io/symver/errext"
	"go.symver.io/symver/errext/exitcodes"
	"go.symver.io/symver/lib/consts"
	"go.symver.io/symver/lib/vtag"
)

// Config collects everything the build-time phase needs to resolve a version
// tag and emit the versioned header. The SYMVER_PKG_VERSION_* variables
// mirror how the surrounding build environment hands the package version to
// the tool, field by field.
type Config struct {
	Major      null.String `json:"major"      envconfig:"SYMVER_PKG_VERSION_MAJOR"`
	Minor      null.String `json:"minor"      envconfig:"SYMVER_PKG_VERSION_MINOR"`
	Patch      null.String `json:"patch"      envconfig:"SYMVER_PKG_VERSION_PATCH"`
	PreRelease null.String `json:"preRelease" envconfig:"SYMVER_PKG_VERSION_PRE"`

	NoGit      null.Bool   `json:"noGit"      envconfig:"SYMVER_NO_GIT"`
	IncludeDir null.String `json:"includeDir" envconfig:"SYMVER_INCLUDE_DIR"`
	HeaderName null.String `json:"header"     envconfig:"SYMVER_HEADER"`
	MacroName  null.String `json:"macro"      envconfig:"SYMVER_MACRO"`
}

// NewConfig returns a Config with its default values.
func NewConfig() Config {
	return Config{
		HeaderName: null.NewString(consts.DefaultHeaderName, false),
		MacroName:  null.NewString(consts.DefaultMacroName, false),
	}
}

// Apply overlays the valid fields of cfg on top of c and returns the result.
func (c Config) Apply(cfg Config) Config {
	if cfg.Major.Valid {
		c.Major = cfg.Major
	}
	if cfg.Minor.Valid {
		c.Minor = cfg.Minor
	}
	if cfg.Patch.Valid {
		c.Patch = cfg.Patch
	}
	if cfg.PreRelease.Valid {
		c.PreRelease = cfg.PreRelease
	}
	if cfg.NoGit.Valid {
		c.NoGit = cfg.NoGit
	}
	if cfg.IncludeDir.Valid && cfg.IncludeDir.String != "" {
		c.IncludeDir = cfg.IncludeDir
	}
	if cfg.HeaderName.Valid && cfg.HeaderName.String != "" {
		c.HeaderName = cfg.HeaderName
	}
	if cfg.MacroName.Valid && cfg.MacroName.String != "" {
		c.MacroName = cfg.MacroName
	}
	return c
}

func (c Config) versionFields() vtag.Fields {
	return vtag.Fields{
		Major:      c.Major.String,
		Minor:      c.Minor.String,
		Patch:      c.Patch.String,
		PreRelease: c.PreRelease.String,
	}
}

// getConsolidatedConfig combines the defaults, the environment variables and
// the explicit CLI flags, in increasing order of priority.
func getConsolidatedConfig(gs *state.GlobalState, flagConf Config) (Config, error) {
	envConf := Config{}
	if err := envconfig.Process("", &envConf, func(key string) (string, bool) {
		v, ok := gs.Env[key]
		return v, ok
	}); err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	return NewConfig().Apply(envConf).Apply(flagConf), nil
}

// applyPkgVersion splits the combined MAJOR.MINOR.PATCH[-PRERELEASE] form of
// the --pkg-version flag into the four separate config fields.
func applyPkgVersion(conf Config, combined string) (Config, error) {
	if combined == "" {
		return conf, nil
	}

	core, pre, _ := strings.Cut(combined, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		err := fmt.Errorf("package version must look like MAJOR.MINOR.PATCH[-PRERELEASE], got %q", combined)
		return conf, errext.WithExitCodeIfNone(err, exitcodes.MalformedVersionField)
	}

	conf.Major = null.StringFrom(parts[0])
	conf.Minor = null.StringFrom(parts[1])
	conf.Patch = null.StringFrom(parts[2])
	conf.PreRelease = null.StringFrom(pre)
	return conf, nil
}

// resolveTag derives the version tag from the consolidated config, probing
// the repository at the current working directory unless that is disabled.
// The taxonomy exit codes are attached here, at the command boundary, so the
// lib packages stay free of process concerns.
func resolveTag(gs *state.GlobalState, conf Config) (string, error) {
	var probe vtag.RepoProbe
	if !conf.NoGit.Bool {
		cwd, err := gs.Getwd()
		if err != nil {
			return "", err
		}
		probe = vtag.NewGitDir(gs.FS, cwd)
	}

	tag, err := vtag.Resolve(conf.versionFields(), probe)
	if err != nil {
		var ferr *vtag.FieldError
		var rerr *vtag.RepoStateError
		switch {
		case errors.As(err, &ferr):
			err = errext.WithHint(err,
				"set SYMVER_PKG_VERSION_MAJOR, _MINOR and _PATCH, or pass --pkg-version")
			return "", errext.WithExitCodeIfNone(err, exitcodes.MalformedVersionField)
		case errors.As(err, &rerr):
			return "", errext.WithExitCodeIfNone(err, exitcodes.InvalidRepositoryState)
		}
		return "", err
	}

	gs.Logger.WithField("tag", tag).Debug("Version tag resolved")
	return tag, nil
}
