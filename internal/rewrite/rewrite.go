// Package rewrite is the dependency-ordered rewriting engine: it processes
// reference files in scheduler order, hashes and renames the targets their
// placeholders resolve to, and substitutes hashed paths back into the
// referencing content.
package rewrite

import (
	"bytes"
	"fmt"
	"os"

	"revstamp/internal/config"
	"revstamp/internal/digest"
	"revstamp/internal/errors"
	"revstamp/internal/logging"
	"revstamp/internal/paths"
	"revstamp/internal/scan"
)

// Engine rewrites reference files in place. Processing is strictly
// sequential: a later file's placeholder resolution may depend on an earlier
// file's rename having completed. The digest cache is the only shared
// mutable state and is owned by one engine for one run.
type Engine struct {
	cfg      *config.Config
	env      string
	resolver *paths.Resolver
	scanner  *scan.Scanner
	cache    *digest.Cache
	logger   *logging.Logger
}

// NewEngine builds an engine for one run. The configuration must already
// have passed Validate; the pattern is compiled here and a low hash
// precision draws a collision-risk warning.
func NewEngine(cfg *config.Config, environment string, root string, logger *logging.Logger) (*Engine, error) {
	scanner, err := scan.NewScanner(cfg.Pattern)
	if err != nil {
		return nil, err
	}

	if cfg.Precision < digest.MinSafePrecision {
		logger.Warn("hash precision is below the recommended safety margin", logging.Fields{
			"precision": cfg.Precision,
			"minimum":   digest.MinSafePrecision,
		})
	}

	return &Engine{
		cfg:      cfg,
		env:      environment,
		resolver: paths.NewResolver(root),
		scanner:  scanner,
		cache:    digest.NewCache(),
		logger:   logger,
	}, nil
}

// Cache exposes the digest cache accumulated by the run, consumed by the
// manifest writer after the pass completes.
func (e *Engine) Cache() *digest.Cache {
	return e.cache
}

// Run rewrites the given reference files in order. The order must come from
// the scheduler: every file is processed only after all files it depends on.
// Fatal errors abort immediately; missing targets are warned about and the
// affected occurrences left untouched.
func (e *Engine) Run(ordered []string) error {
	for _, file := range ordered {
		if err := e.rewriteFile(file); err != nil {
			return err
		}
	}
	return nil
}

// rewriteFile reads one reference file, computes the replacement for every
// placeholder left to right, and writes the result back to the same path.
// The reference file itself is never renamed here, only its content changes.
func (e *Engine) rewriteFile(file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return errors.New(errors.IOFailure, fmt.Sprintf("reading %s", file), err)
	}

	matches := e.scanner.Matches(content)
	if len(matches) == 0 {
		return nil
	}

	host := e.cfg.HostFor(e.env)

	// untouched yields a replacement that reproduces the occurrence exactly,
	// whichever span the configuration substitutes.
	untouched := func(m scan.Match) string {
		if e.cfg.DiscardNonFilenamePatternParts {
			return string(content[m.Start:m.End])
		}
		return m.Path
	}

	var fatal error
	replaced := scan.Replace(content, matches, e.cfg.DiscardNonFilenamePatternParts, func(m scan.Match) string {
		if fatal != nil {
			return untouched(m)
		}
		target := e.resolver.Resolve(m.Path, file)
		entry, err := e.resolveTarget(target)
		if err != nil {
			fatal = err
			return untouched(m)
		}
		if !entry.OK {
			// Target missing: the occurrence stays exactly as it was.
			return untouched(m)
		}
		hashed := paths.WithHash(m.Path, entry.Hash)
		if host != "" {
			hashed = host + hashed
		}
		return hashed
	})
	if fatal != nil {
		return fatal
	}

	if err := writeBack(file, content, replaced); err != nil {
		return err
	}
	e.logger.Debug("rewrote reference file", logging.Fields{"file": file, "placeholders": len(matches)})
	return nil
}

// resolveTarget returns the digest outcome for a target path, computing the
// hash and performing the rename on first use. Every later occurrence, in
// this file or any other, hits the cache: a physical file is hashed and
// renamed at most once per run.
func (e *Engine) resolveTarget(target string) (digest.Entry, error) {
	if entry, ok := e.cache.Get(target); ok {
		return entry, nil
	}

	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		e.logger.Warn("placeholder target is not a regular file, leaving reference unhashed", logging.Fields{
			"target": target,
		})
		e.cache.PutMissing(target)
		return digest.Entry{}, nil
	}

	hash, err := digest.Hash(target, e.cfg.Precision)
	if err != nil {
		return digest.Entry{}, err
	}

	if err := os.Rename(target, paths.WithHash(target, hash)); err != nil {
		return digest.Entry{}, errors.New(errors.IOFailure, fmt.Sprintf("renaming %s", target), err)
	}

	// Infix variant siblings are renamed in lockstep with the primary's hash.
	for _, infix := range e.cfg.Infixes {
		sibling := paths.WithInfix(target, infix)
		sinfo, err := os.Stat(sibling)
		if err != nil || !sinfo.Mode().IsRegular() {
			continue
		}
		if err := os.Rename(sibling, paths.WithHash(sibling, hash)); err != nil {
			return digest.Entry{}, errors.New(errors.IOFailure, fmt.Sprintf("renaming %s", sibling), err)
		}
	}

	e.cache.PutHash(target, hash)
	return digest.Entry{Hash: hash, OK: true}, nil
}

// Strip reduces every placeholder to its captured path with no hashing and
// no renaming, producing clean references for environments where
// fingerprinting is skipped. Needs no scheduler: nothing is renamed, so
// cross-file ordering is irrelevant. Idempotent.
func (e *Engine) Strip(files []string) error {
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return errors.New(errors.IOFailure, fmt.Sprintf("reading %s", file), err)
		}

		matches := e.scanner.Matches(content)
		if len(matches) == 0 {
			continue
		}

		replaced := scan.Replace(content, matches, e.cfg.DiscardNonFilenamePatternParts, func(m scan.Match) string {
			return m.Path
		})
		if err := writeBack(file, content, replaced); err != nil {
			return err
		}
	}
	return nil
}

// writeBack persists new content to file, preserving its permissions.
// Unchanged content is not rewritten.
func writeBack(file string, old []byte, updated []byte) error {
	if bytes.Equal(old, updated) {
		return nil
	}
	info, err := os.Stat(file)
	if err != nil {
		return errors.New(errors.IOFailure, fmt.Sprintf("writing %s", file), err)
	}
	if err := os.WriteFile(file, updated, info.Mode().Perm()); err != nil {
		return errors.New(errors.IOFailure, fmt.Sprintf("writing %s", file), err)
	}
	return nil
}
