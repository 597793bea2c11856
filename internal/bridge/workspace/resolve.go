package workspace

import (
	"path/filepath"
	"strings"
)

// Resolver confines paths to the workspace root.
type Resolver struct {
	root string
}

// NewResolver creates a resolver for an absolute, clean root.
func NewResolver(root string) *Resolver {
	return &Resolver{root: filepath.Clean(root)}
}

// Root returns the workspace root.
func (r *Resolver) Root() string {
	return r.root
}

// Abs resolves path against the root and rejects anything that escapes it.
// Absolute paths are accepted only when they already lie inside the root.
func (r *Resolver) Abs(path string) (string, error) {
	if r.root == "" || r.root == "." {
		return "", ErrRootNotSet
	}
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}

	var abs string
	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Clean(filepath.Join(r.root, path))
	}

	// Boundary check: must be the root itself or a child of the root
	if !strings.HasPrefix(abs, r.root+string(filepath.Separator)) && abs != r.root {
		return "", ErrOutsideWorkspace
	}

	return abs, nil
}

// Rel resolves path and returns it relative to the root, slash separated.
func (r *Resolver) Rel(path string) (string, error) {
	abs, err := r.Abs(path)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", ErrOutsideWorkspace
	}

	if rel == "." {
		return "", nil
	}

	return filepath.ToSlash(rel), nil
}
