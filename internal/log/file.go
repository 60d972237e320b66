package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"go.symver.io/symver/lib/fsext"
)

// fileHook is a hook that copies log entries to a local file. symver is a
// short-lived build step, so writes are synchronous and the file handle
// lives until process exit.
type fileHook struct {
	w      io.Writer
	levels []logrus.Level
}

// FileHookFromConfigLine returns a new file hook for a --log-output value of
// the form `file=path[,level=<level>]`. A relative path is resolved against
// the current working directory.
func FileHookFromConfigLine(fs fsext.Fs, getCwd func() (string, error), line string) (logrus.Hook, error) {
	hook := &fileHook{levels: logrus.AllLevels}

	path, found := strings.CutPrefix(line, "file=")
	if !found {
		return nil, fmt.Errorf("logfile configuration should be in the form `file=path-to-local-file` but is `%s`", line)
	}
	path, arg, hasArg := strings.Cut(path, ",")
	if hasArg {
		level, levelFound := strings.CutPrefix(arg, "level=")
		if !levelFound {
			return nil, fmt.Errorf("unknown logfile argument `%s`", arg)
		}
		levels, err := parseLevels(level)
		if err != nil {
			return nil, err
		}
		hook.levels = levels
	}
	if path == "" {
		return nil, fmt.Errorf("logfile path is empty in `%s`", line)
	}

	if !filepath.IsAbs(path) {
		cwd, err := getCwd()
		if err != nil {
			return nil, err
		}
		path = fsext.JoinFilePath(cwd, path)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	hook.w = f

	return hook, nil
}

// Levels returns the levels the hook fires on.
func (h *fileHook) Levels() []logrus.Level {
	return h.levels
}

// Fire writes the formatted entry to the log file.
func (h *fileHook) Fire(entry *logrus.Entry) error {
	msg, err := entry.Bytes()
	if err != nil {
		return fmt.Errorf("failed to format the log message: %w", err)
	}
	if _, err := h.w.Write(msg); err != nil {
		return fmt.Errorf("failed to write the log message: %w", err)
	}
	return nil
}
