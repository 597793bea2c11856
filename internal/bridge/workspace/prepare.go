package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/afero"
)

// Prepare creates the workspace root if needed and returns its absolute path.
// With initGit set, the root is also initialised as a git repository so that
// every change made through the bridge can be reviewed with git.
func Prepare(fs afero.Fs, root string, initGit bool, logger *slog.Logger) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &RootError{Root: root, Cause: err}
	}

	if err := fs.MkdirAll(absRoot, 0o755); err != nil {
		return "", &RootError{Root: absRoot, Cause: err}
	}

	info, err := fs.Stat(absRoot)
	if err != nil {
		return "", &RootError{Root: absRoot, Cause: err}
	}
	if !info.IsDir() {
		return "", &RootError{Root: absRoot, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, absRoot)}
	}

	if !initGit {
		return absRoot, nil
	}

	// go-git works on the real filesystem only.
	if _, ok := fs.(*afero.OsFs); !ok {
		return absRoot, nil
	}

	_, err = git.PlainInit(absRoot, false)
	switch {
	case err == nil:
		logger.Info("initialised workspace repository", "root", absRoot)
	case errors.Is(err, git.ErrRepositoryAlreadyExists):
	default:
		// Not fatal: the bridge works without version control.
		logger.Warn("failed to initialise workspace repository", "root", absRoot, "error", err)
	}

	return absRoot, nil
}
