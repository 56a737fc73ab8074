package rewrite

import (
	"github.com/google/uuid"

	"revstamp/internal/config"
	"revstamp/internal/discover"
	"revstamp/internal/graph"
	"revstamp/internal/logging"
	"revstamp/internal/manifest"
)

// Result summarizes a completed pass.
type Result struct {
	RunID          string
	ReferenceFiles int
	Renamed        int
	Manifest       map[string]string
	Stripped       bool
}

// Pass executes one full fingerprinting run against the configured root:
// discover candidates, build the cross-reference graph, schedule, rewrite in
// order, then write the manifest. Cycle detection happens before any file is
// mutated, so a CyclicDependency abort leaves the tree untouched. The
// manifest is written only after a fully completed rewrite, never partially.
func Pass(cfg *config.Config, environment string, root string, logger *logging.Logger) (*Result, error) {
	runID := uuid.NewString()
	log := logger.With(logging.Fields{"runId": runID})

	engine, err := NewEngine(cfg, environment, root, log)
	if err != nil {
		return nil, err
	}

	candidates, err := discover.ReferenceFiles(root, cfg.ReferenceFiles)
	if err != nil {
		return nil, err
	}
	log.Info("discovered reference files", logging.Fields{"count": len(candidates)})

	edges, err := graph.BuildEdges(candidates, engine.scanner, engine.resolver)
	if err != nil {
		return nil, err
	}

	ordered, err := graph.Order(edges, candidates)
	if err != nil {
		return nil, err
	}

	if err := engine.Run(ordered); err != nil {
		return nil, err
	}

	hashed := engine.Cache().Hashed()
	entries := manifest.Build(hashed, engine.resolver.Root())
	if err := manifest.Write(cfg.Manifest, entries); err != nil {
		return nil, err
	}

	log.Info("fingerprinting pass complete", logging.Fields{
		"referenceFiles": len(ordered),
		"renamed":        len(hashed),
	})
	return &Result{
		RunID:          runID,
		ReferenceFiles: len(ordered),
		Renamed:        len(hashed),
		Manifest:       entries,
	}, nil
}

// StripPass reduces placeholders to plain paths across all reference files
// without hashing or renaming anything.
func StripPass(cfg *config.Config, environment string, root string, logger *logging.Logger) (*Result, error) {
	runID := uuid.NewString()
	log := logger.With(logging.Fields{"runId": runID})

	engine, err := NewEngine(cfg, environment, root, log)
	if err != nil {
		return nil, err
	}

	candidates, err := discover.ReferenceFiles(root, cfg.ReferenceFiles)
	if err != nil {
		return nil, err
	}

	if err := engine.Strip(candidates); err != nil {
		return nil, err
	}

	log.Info("strip pass complete", logging.Fields{"referenceFiles": len(candidates)})
	return &Result{
		RunID:          runID,
		ReferenceFiles: len(candidates),
		Stripped:       true,
	}, nil
}
