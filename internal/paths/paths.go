// Package paths resolves captured asset references to filesystem paths and
// derives the hashed names embedded in renamed files.
package paths

import (
	"path/filepath"
	"strings"
)

// Resolver turns a placeholder's captured path plus the referencing file's
// location into an absolute, normalized filesystem path. Pure: no filesystem
// access, the output depends only on the inputs and the configured root.
type Resolver struct {
	root string
}

// NewResolver creates a resolver anchored at the public root directory.
func NewResolver(root string) *Resolver {
	return &Resolver{root: filepath.Clean(root)}
}

// Root returns the configured public root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps a captured reference to an absolute path. A reference starting
// with "/" is root-relative; anything else resolves against the directory of
// the referencing file. With no referencing file the root is the context.
// ".." and "." segments are normalized away.
func (r *Resolver) Resolve(captured string, referencing string) string {
	if strings.HasPrefix(captured, "/") || referencing == "" {
		return joinSlashPath(r.root, strings.TrimPrefix(captured, "/"))
	}
	return joinSlashPath(filepath.Dir(referencing), captured)
}

// joinSlashPath joins a base directory with a forward-slash reference,
// converting to OS separators and cleaning the result.
func joinSlashPath(base string, ref string) string {
	parts := strings.Split(ref, "/")
	return filepath.Join(append([]string{base}, parts...)...)
}

// WithHash inserts "-<hash>" immediately before the file extension.
// "css/app.css" with hash "75570c26" becomes "css/app-75570c26.css".
// Extensionless files get the hash appended.
func WithHash(path string, hash string) string {
	ext := extOf(path)
	return path[:len(path)-len(ext)] + "-" + hash + ext
}

// WithInfix inserts an infix variant suffix immediately before the file
// extension: "img/logo.png" with infix "@2x" becomes "img/logo@2x.png".
func WithInfix(path string, infix string) string {
	ext := extOf(path)
	return path[:len(path)-len(ext)] + infix + ext
}

// extOf returns the extension of the final path element, tolerating both
// separator styles since it is applied to captured references as well as
// filesystem paths.
func extOf(path string) string {
	base := path
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		base = path[i+1:]
	}
	return filepath.Ext(base)
}

// RelativeToRoot converts an absolute path to a root-relative canonical path
// with forward slashes, the form used for manifest keys and values.
func RelativeToRoot(path string, root string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// WithinRoot reports whether path is inside the root directory.
func WithinRoot(path string, root string) bool {
	rel, err := RelativeToRoot(path, root)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, "../")
}
