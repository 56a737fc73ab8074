// Package graph discovers cross-references between reference files and
// orders them so every file is rewritten only after the files it depends
// on have been rewritten and hashed.
package graph

import (
	stderrors "errors"
	"fmt"
	"os"

	graphlib "github.com/dominikbraun/graph"

	"revstamp/internal/errors"
	"revstamp/internal/paths"
	"revstamp/internal/scan"
)

// Edge records that Referencing contains a placeholder resolving to Target.
// When Target is itself a reference file this is a processing-order
// constraint: Target must be fully rewritten before Referencing.
type Edge struct {
	Target      string
	Referencing string
}

// BuildEdges performs one shallow scan per candidate file and emits an edge
// per placeholder occurrence. Duplicates are allowed; the scheduler tolerates
// them. No edge is followed recursively here, transitive ordering falls out
// of the topological sort.
func BuildEdges(candidates []string, scanner *scan.Scanner, resolver *paths.Resolver) ([]Edge, error) {
	var edges []Edge
	for _, candidate := range candidates {
		content, err := os.ReadFile(candidate)
		if err != nil {
			return nil, errors.New(errors.IOFailure, fmt.Sprintf("scanning %s", candidate), err)
		}
		for _, m := range scanner.Matches(content) {
			edges = append(edges, Edge{
				Target:      resolver.Resolve(m.Path, candidate),
				Referencing: candidate,
			})
		}
	}
	return edges, nil
}

// Order sequences the candidate files so that for every edge (A, B) with
// both endpoints in the candidate set, A precedes B. The graph spans every
// node any edge mentions; nodes outside the candidate set are harmless and
// filtered from the result afterward, preserving relative order. Fails with
// CyclicDependency before any file has been mutated.
func Order(edges []Edge, candidates []string) ([]string, error) {
	g := graphlib.New(graphlib.StringHash, graphlib.Directed())

	for _, candidate := range candidates {
		addVertex(g, candidate)
	}
	for _, e := range edges {
		addVertex(g, e.Target)
		addVertex(g, e.Referencing)
		if err := g.AddEdge(e.Target, e.Referencing); err != nil && !stderrors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			if stderrors.Is(err, graphlib.ErrEdgeCreatesCycle) {
				return nil, cycleError(err)
			}
			return nil, err
		}
	}

	sorted, err := graphlib.StableTopologicalSort(g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, cycleError(err)
	}

	inCandidates := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		inCandidates[c] = true
	}

	ordered := make([]string, 0, len(candidates))
	for _, node := range sorted {
		if inCandidates[node] {
			ordered = append(ordered, node)
		}
	}
	return ordered, nil
}

func addVertex(g graphlib.Graph[string, string], v string) {
	// The only possible failure is ErrVertexAlreadyExists, which is fine:
	// candidates and edge endpoints overlap freely.
	_ = g.AddVertex(v)
}

func cycleError(cause error) error {
	return errors.New(errors.CyclicDependency, "reference files form a dependency cycle", cause)
}
