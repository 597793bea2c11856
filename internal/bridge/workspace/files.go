package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Writer writes files confined to the workspace root.
type Writer struct {
	fs       afero.Fs
	resolver *Resolver
}

// NewWriter creates a Writer over fs rooted at the resolver's root.
func NewWriter(fs afero.Fs, resolver *Resolver) *Writer {
	return &Writer{fs: fs, resolver: resolver}
}

// WriteFile writes content to path under the root, creating missing parents.
// It returns the slash-separated path relative to the root.
func (w *Writer) WriteFile(path, content string) (string, error) {
	abs, err := w.resolver.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := w.resolver.Rel(abs)
	if err != nil {
		return "", err
	}
	if rel == "" {
		return "", fmt.Errorf("%w: cannot write to the workspace root", ErrNotADirectory)
	}

	dir := filepath.Dir(abs)
	if err := w.confine(existingAncestor(w.fs, dir)); err != nil {
		return "", err
	}
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create parent directories for %s: %w", rel, err)
	}
	if err := w.confine(dir); err != nil {
		return "", err
	}
	if err := w.confineTarget(abs); err != nil {
		return "", err
	}

	if err := afero.WriteFile(w.fs, abs, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return rel, nil
}

// existingAncestor returns the deepest directory of dir that already exists.
func existingAncestor(fs afero.Fs, dir string) string {
	for {
		if _, err := fs.Stat(dir); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}

// confine rejects an existing path that resolves outside the root through a
// symlink. Only the real OS filesystem can contain links.
func (w *Writer) confine(path string) error {
	if _, ok := w.fs.(*afero.OsFs); !ok {
		return nil
	}

	realRoot, err := filepath.EvalSymlinks(w.resolver.Root())
	if err != nil {
		return &RootError{Root: w.resolver.Root(), Cause: err}
	}
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if realPath != realRoot && !strings.HasPrefix(realPath, realRoot+string(os.PathSeparator)) {
		return ErrOutsideWorkspace
	}
	return nil
}

// confineTarget rejects a target that is a symlink leading outside the root.
// A dangling link is refused since writing through it would create its target.
func (w *Writer) confineTarget(abs string) error {
	lstater, ok := w.fs.(afero.Lstater)
	if !ok {
		return nil
	}
	info, _, err := lstater.LstatIfPossible(abs)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	if err := w.confine(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrOutsideWorkspace
		}
		return err
	}
	return nil
}
