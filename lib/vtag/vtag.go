// Package vtag derives the version tag used to mangle native symbol names.
//
// A tag has the form v<major>_<minor>_<patch>, optionally followed by a
// pre-release label and by the short revision of the surrounding repository.
// Every component is restricted to the identifier grammar of native
// toolchains (alphanumerics and underscore), so the tag can be pasted onto
// any symbol name without producing an invalid identifier.
package vtag

import (
	"fmt"
	"strconv"
	"strings"
)

// Fields are the string-valued semantic version components of the current
// build, in the form the surrounding build environment stores them.
type Fields struct {
	Major string
	Minor string
	Patch string
	// PreRelease is optional; an empty string means a release build and
	// contributes nothing to the tag.
	PreRelease string
}

// FieldError is returned when a version field cannot contribute to a tag.
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("malformed version field %s=%q: %s", e.Field, e.Value, e.Reason)
}

// Resolve assembles the version tag for the current build. The numeric fields
// must be non-negative integer literals; they are emitted in canonical form,
// so leading zeros do not survive into the tag. The probe may be nil, in
// which case no revision lookup happens at all; a probe that finds no
// repository is not an error, the tag simply carries no revision marker.
func Resolve(fields Fields, probe RepoProbe) (string, error) {
	var tag strings.Builder
	tag.WriteByte('v')

	for i, f := range []struct{ name, value string }{
		{"major", fields.Major},
		{"minor", fields.Minor},
		{"patch", fields.Patch},
	} {
		n, err := strconv.ParseUint(f.value, 10, 64)
		if err != nil {
			return "", &FieldError{Field: f.name, Value: f.value, Reason: "not a non-negative integer"}
		}
		if i > 0 {
			tag.WriteByte('_')
		}
		tag.WriteString(strconv.FormatUint(n, 10))
	}

	if fields.PreRelease != "" {
		if !IsIdentifierSafe(fields.PreRelease) {
			return "", &FieldError{
				Field: "pre-release", Value: fields.PreRelease,
				Reason: "must contain only alphanumerics and underscore",
			}
		}
		tag.WriteByte('_')
		tag.WriteString(fields.PreRelease)
	}

	if probe != nil {
		rev, found, err := probe.Revision()
		if err != nil {
			return "", err
		}
		if found {
			if !IsIdentifierSafe(rev) {
				return "", &RepoStateError{Reason: fmt.Sprintf("revision %q is not identifier-safe", rev)}
			}
			tag.WriteByte('_')
			tag.WriteString(rev)
		}
	}

	return tag.String(), nil
}

// IsIdentifierSafe reports whether s can be appended to a symbol name without
// leaving the identifier grammar of the native toolchain.
func IsIdentifierSafe(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_':
		case '0' <= c && c <= '9':
		case 'a' <= c && c <= 'z':
		case 'A' <= c && c <= 'Z':
		default:
			return false
		}
	}
	return true
}
