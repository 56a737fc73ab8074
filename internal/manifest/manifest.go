// Package manifest persists the original-to-hashed path mapping produced by
// a completed fingerprinting pass.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"revstamp/internal/errors"
	"revstamp/internal/paths"
)

// Build converts the digest cache's successful entries into the manifest
// mapping: root-relative original path (posix separators) to root-relative
// hashed path. Targets outside the public root are not reachable from the
// root-relative namespace and are skipped.
func Build(hashed map[string]string, root string) map[string]string {
	entries := make(map[string]string, len(hashed))
	for abs, hash := range hashed {
		if !paths.WithinRoot(abs, root) {
			continue
		}
		rel, err := paths.RelativeToRoot(abs, root)
		if err != nil {
			continue
		}
		entries[rel] = paths.WithHash(rel, hash)
	}
	return entries
}

// Write serializes entries to path. The format follows the extension:
// YAML for .yaml/.yml, a JSON object otherwise. An empty path disables
// manifest output entirely.
func Write(path string, entries map[string]string) error {
	if path == "" {
		return nil
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(entries)
	default:
		data, err = json.MarshalIndent(entries, "", "  ")
	}
	if err != nil {
		return errors.New(errors.IOFailure, fmt.Sprintf("encoding manifest %s", path), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.IOFailure, fmt.Sprintf("writing manifest %s", path), err)
	}
	return nil
}
