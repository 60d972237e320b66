// Package consts houses some constants needed across symver
package consts

import (
	"fmt"
	"runtime"

	"go.symver.io/symver/internal/build"
)

// Version contains the current semantic version of symver.
const Version = build.Version

// VersionEnvKey is the well-known environment key under which the resolved
// version tag is published for later build phases.
const VersionEnvKey = "SYMVER_VERSION"

// Defaults for the generated header artifact.
const (
	DefaultHeaderName = "generated_versioned.h"
	DefaultMacroName  = "VERSIONED"
)

// FullVersion returns the maximally full version and build information for
// the currently running symver executable.
func FullVersion() string {
	return fmt.Sprintf("%s (%s, %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
