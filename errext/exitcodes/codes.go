// Package exitcodes contains the constants representing possible symver exit error codes.
package exitcodes

// ExitCode is just a type representing a process exit code for symver
type ExitCode uint8

// list of exit codes used by symver
const (
	GenericError           ExitCode = 1
	MalformedVersionField  ExitCode = 102
	InvalidRepositoryState ExitCode = 103
	HeaderWrite            ExitCode = 104
	MalformedBatch         ExitCode = 105
	InvalidConfig          ExitCode = 106
	ExternalAbort          ExitCode = 107
	GoPanic                ExitCode = 108
)
