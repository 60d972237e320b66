// Package header emits the generated preprocessor header that mangles native
// symbol names with the resolved version tag.
//
// The artifact is a single macro definition of the form
//
//	#define VERSIONED(sym) sym ## _v1_2_3
//
// The rename has to happen lexically, before the native compiler ever
// resolves the symbol, and token pasting is the only mechanism C, C++ and
// assembly share for that.
package header

import (
	"fmt"

	"go.symver.io/symver/lib/fsext"
	"go.symver.io/symver/lib/vtag"
)

// Emit writes the versioned header file named fileName inside includeDir,
// creating includeDir and any missing ancestors first. The macro in the file
// is named macroName. It returns the full path of the written file.
//
// A failed write leaves no partial file behind, so callers can treat Emit as
// atomic-or-failed. Calling it twice with the same arguments produces
// byte-identical content.
func Emit(fs fsext.Fs, includeDir, fileName, macroName, tag string) (string, error) {
	if !isMacroName(macroName) {
		return "", fmt.Errorf("invalid macro name %q: must match [A-Za-z_][A-Za-z0-9_]*", macroName)
	}
	if !vtag.IsIdentifierSafe(tag) {
		return "", fmt.Errorf("invalid version tag %q: must contain only alphanumerics and underscore", tag)
	}

	if err := fs.MkdirAll(includeDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create include directory %s: %w", includeDir, err)
	}

	path := fsext.JoinFilePath(includeDir, fileName)
	content := fmt.Sprintf("#define %s(sym) sym ## _%s\n", macroName, tag)
	if err := fsext.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		_ = fs.Remove(path)
		return "", fmt.Errorf("could not write versioned header %s: %w", path, err)
	}

	return path, nil
}

// IncludeFlags returns the compiler flags that force-include the generated
// header into every translation unit, the moral equivalent of an #include on
// the first line of each source file. compiler is a family name: gcc, clang
// and gnu take -include, msvc and cl take /FI.
func IncludeFlags(compiler, path string) ([]string, error) {
	switch compiler {
	case "gcc", "clang", "gnu":
		return []string{"-include", path}, nil
	case "msvc", "cl":
		return []string{"/FI", path}, nil
	default:
		return nil, fmt.Errorf("unknown compiler family %q (want gcc, clang, gnu, msvc or cl)", compiler)
	}
}

func isMacroName(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
		return false
	}
	return vtag.IsIdentifierSafe(s)
}
