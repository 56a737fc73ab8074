// Package discover enumerates candidate reference files under the public root.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"revstamp/internal/errors"
)

// ReferenceFiles returns the absolute paths of all files under root whose
// root-relative path matches the doublestar glob. The result is sorted so a
// run visits candidates in a stable order.
func ReferenceFiles(root string, glob string) ([]string, error) {
	if !doublestar.ValidatePattern(glob) {
		return nil, errors.New(errors.ConfigurationError, fmt.Sprintf("invalid referenceFiles glob %q", glob), nil)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.New(errors.IOFailure, fmt.Sprintf("cannot read root %s", root), err)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ConfigurationError, fmt.Sprintf("root %s is not a directory", root), nil)
	}

	rels, err := doublestar.Glob(os.DirFS(root), glob, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, errors.New(errors.IOFailure, fmt.Sprintf("enumerating %s", root), err)
	}

	files := make([]string, 0, len(rels))
	for _, rel := range rels {
		files = append(files, filepath.Join(root, filepath.FromSlash(rel)))
	}
	sort.Strings(files)
	return files, nil
}
