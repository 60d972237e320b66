package vtag

import (
	"fmt"
	"strings"

	"go.symver.io/symver/lib/fsext"
)

// ShortRevLen is the length of the revision marker appended to tags.
const ShortRevLen = 8

// RepoProbe answers whether the build tree is under revision control and, if
// so, what its current revision marker is.
type RepoProbe interface {
	// Revision returns the short revision marker of the current checkout.
	// found is false when no repository is present, which is not an error.
	Revision() (rev string, found bool, err error)
}

// RepoStateError is returned when a repository is present but its state
// cannot be resolved to a revision marker. The tool refuses to guess a
// marker from truncated or unreadable data.
type RepoStateError struct {
	Path   string
	Reason string
}

func (e *RepoStateError) Error() string {
	if e.Path == "" {
		return "invalid repository state: " + e.Reason
	}
	return fmt.Sprintf("invalid repository state at %s: %s", e.Path, e.Reason)
}

// GitDir probes a git checkout without shelling out to git. It reads the
// HEAD reference file and follows at most one level of symbolic indirection.
type GitDir struct {
	fs  fsext.Fs
	dir string
}

// NewGitDir returns a probe for the working directory dir on fs.
func NewGitDir(fs fsext.Fs, dir string) *GitDir {
	return &GitDir{fs: fs, dir: dir}
}

// Revision implements RepoProbe. A missing .git directory means the source
// tree is not under revision control and yields found=false; anything wrong
// past that point is a RepoStateError.
func (g *GitDir) Revision() (string, bool, error) {
	gitDir := fsext.JoinFilePath(g.dir, ".git")
	exists, err := fsext.Exists(g.fs, gitDir)
	if err != nil {
		return "", false, err
	}
	if !exists {
		return "", false, nil
	}

	headPath := fsext.JoinFilePath(gitDir, "HEAD")
	contents, err := fsext.ReadFile(g.fs, headPath)
	if err != nil {
		return "", false, &RepoStateError{Path: headPath, Reason: err.Error()}
	}

	refPath := headPath
	if rest, ok := strings.CutPrefix(string(contents), "ref: "); ok {
		refPath = fsext.JoinFilePath(gitDir, strings.TrimRight(rest, " \t\r\n"))
		contents, err = fsext.ReadFile(g.fs, refPath)
		if err != nil {
			return "", false, &RepoStateError{Path: refPath, Reason: err.Error()}
		}
	}

	rev := strings.TrimRight(string(contents), " \t\r\n")
	if len(rev) < ShortRevLen {
		return "", false, &RepoStateError{
			Path:   refPath,
			Reason: fmt.Sprintf("ref content is %d characters, need at least %d", len(rev), ShortRevLen),
		}
	}
	return rev[:ShortRevLen], true, nil
}

var _ RepoProbe = &GitDir{}
