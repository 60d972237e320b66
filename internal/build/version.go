// Package build contains the symver build information.
package build

// Version contains the current semantic version of symver.
const Version = "0.4.0"
