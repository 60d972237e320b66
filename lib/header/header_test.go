package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.symver.io/symver/lib/fsext"
)

func TestEmit(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	path, err := Emit(fs, "/build/include", "generated_versioned.h", "VERSIONED", "v1_2_3")
	require.NoError(t, err)
	assert.Equal(t, fsext.JoinFilePath("/build/include", "generated_versioned.h"), path)

	content, err := fsext.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "#define VERSIONED(sym) sym ## _v1_2_3\n", string(content))
}

func TestEmitCreatesMissingAncestors(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	path, err := Emit(fs, "/out/deeply/nested/include", "v.h", "V", "v0_1_0_beta")
	require.NoError(t, err)

	exists, err := fsext.Exists(fs, path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEmitIsIdempotent(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	path1, err := Emit(fs, "/inc", "h.h", "M", "v1_0_0")
	require.NoError(t, err)
	first, err := fsext.ReadFile(fs, path1)
	require.NoError(t, err)

	path2, err := Emit(fs, "/inc", "h.h", "M", "v1_0_0")
	require.NoError(t, err)
	second, err := fsext.ReadFile(fs, path2)
	require.NoError(t, err)

	assert.Equal(t, path1, path2)
	assert.Equal(t, first, second)
}

func TestEmitRejectsBadInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		macroName string
		tag       string
	}{
		{"empty macro name", "", "v1_2_3"},
		{"macro name starts with digit", "1BAD", "v1_2_3"},
		{"macro name with dash", "WITH-DASH", "v1_2_3"},
		{"empty tag", "VERSIONED", ""},
		{"dotted tag", "VERSIONED", "v1.2.3"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fs := fsext.NewMemMapFs()
			_, err := Emit(fs, "/inc", "h.h", tc.macroName, tc.tag)
			require.Error(t, err)
			files, ferr := fsext.ReadDir(fs, "/inc")
			if ferr == nil {
				assert.Empty(t, files)
			}
		})
	}
}

func TestEmitReadOnlyFs(t *testing.T) {
	t.Parallel()

	fs := fsext.NewReadOnlyFs(fsext.NewMemMapFs())
	_, err := Emit(fs, "/inc", "h.h", "VERSIONED", "v1_2_3")
	require.Error(t, err)
}

func TestIncludeFlags(t *testing.T) {
	t.Parallel()

	flags, err := IncludeFlags("gcc", "/inc/h.h")
	require.NoError(t, err)
	assert.Equal(t, []string{"-include", "/inc/h.h"}, flags)

	flags, err = IncludeFlags("clang", "/inc/h.h")
	require.NoError(t, err)
	assert.Equal(t, []string{"-include", "/inc/h.h"}, flags)

	flags, err = IncludeFlags("msvc", `C:\inc\h.h`)
	require.NoError(t, err)
	assert.Equal(t, []string{"/FI", `C:\inc\h.h`}, flags)

	_, err = IncludeFlags("tcc", "/inc/h.h")
	require.Error(t, err)
}
