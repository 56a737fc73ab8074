package graph

import (
	"os"
	"path/filepath"
	"testing"

	"revstamp/internal/errors"
	"revstamp/internal/paths"
	"revstamp/internal/scan"
)

func newScanner(t *testing.T) *scan.Scanner {
	t.Helper()
	s, err := scan.NewScanner(`DIGEST\(([^)\s]+)\)`)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func indexOf(t *testing.T, order []string, item string) int {
	t.Helper()
	for i, v := range order {
		if v == item {
			return i
		}
	}
	t.Fatalf("%q not found in %v", item, order)
	return -1
}

func TestBuildEdges(t *testing.T) {
	root := t.TempDir()
	index := filepath.Join(root, "index.html")
	page := filepath.Join(root, "sub", "page.html")

	if err := os.MkdirAll(filepath.Dir(page), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(index, []byte(`DIGEST(/css/app.css) DIGEST(/sub/page.html)`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(page, []byte(`DIGEST(../img/logo.png)`), 0o644); err != nil {
		t.Fatal(err)
	}

	edges, err := BuildEdges([]string{index, page}, newScanner(t), paths.NewResolver(root))
	if err != nil {
		t.Fatalf("BuildEdges failed: %v", err)
	}

	want := []Edge{
		{Target: filepath.Join(root, "css", "app.css"), Referencing: index},
		{Target: page, Referencing: index},
		{Target: filepath.Join(root, "img", "logo.png"), Referencing: page},
	}
	if len(edges) != len(want) {
		t.Fatalf("got %d edges %v, want %d", len(edges), edges, len(want))
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edges[%d] = %v, want %v", i, edges[i], want[i])
		}
	}
}

func TestBuildEdgesUnreadableCandidate(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "gone.html")

	_, err := BuildEdges([]string{missing}, newScanner(t), paths.NewResolver(root))
	if err == nil {
		t.Fatal("expected error for unreadable candidate")
	}
	if !errors.HasCode(err, errors.IOFailure) {
		t.Errorf("error = %v, want IO_FAILURE", err)
	}
}

func TestOrderDependencyBeforeDependent(t *testing.T) {
	// a.html references b.html; b.html references img.png.
	edges := []Edge{
		{Target: "/pub/b.html", Referencing: "/pub/a.html"},
		{Target: "/pub/img.png", Referencing: "/pub/b.html"},
	}
	candidates := []string{"/pub/a.html", "/pub/b.html"}

	order, err := Order(edges, candidates)
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("order = %v, want exactly the candidate set", order)
	}
	if indexOf(t, order, "/pub/b.html") > indexOf(t, order, "/pub/a.html") {
		t.Errorf("b.html must precede a.html, got %v", order)
	}
}

func TestOrderRestrictsToCandidates(t *testing.T) {
	// img.png participates in edges but is not a reference file.
	edges := []Edge{
		{Target: "/pub/img.png", Referencing: "/pub/a.html"},
		{Target: "/pub/img.png", Referencing: "/pub/b.html"},
	}
	candidates := []string{"/pub/a.html", "/pub/b.html"}

	order, err := Order(edges, candidates)
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("order = %v, want only candidates", order)
	}
	for _, node := range order {
		if node == "/pub/img.png" {
			t.Errorf("non-candidate leaked into order: %v", order)
		}
	}
}

func TestOrderToleratesDuplicateEdges(t *testing.T) {
	edges := []Edge{
		{Target: "/pub/b.html", Referencing: "/pub/a.html"},
		{Target: "/pub/b.html", Referencing: "/pub/a.html"},
		{Target: "/pub/b.html", Referencing: "/pub/a.html"},
	}
	candidates := []string{"/pub/a.html", "/pub/b.html"}

	order, err := Order(edges, candidates)
	if err != nil {
		t.Fatalf("Order failed on duplicate edges: %v", err)
	}
	if len(order) != 2 {
		t.Errorf("order = %v, want 2 entries", order)
	}
}

func TestOrderDetectsCycle(t *testing.T) {
	edges := []Edge{
		{Target: "/pub/b.html", Referencing: "/pub/a.html"},
		{Target: "/pub/a.html", Referencing: "/pub/b.html"},
	}
	candidates := []string{"/pub/a.html", "/pub/b.html"}

	_, err := Order(edges, candidates)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !errors.HasCode(err, errors.CyclicDependency) {
		t.Errorf("error = %v, want CYCLIC_DEPENDENCY", err)
	}
}

func TestOrderNoEdges(t *testing.T) {
	candidates := []string{"/pub/b.html", "/pub/a.html"}

	order, err := Order(nil, candidates)
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	if len(order) != 2 {
		t.Errorf("order = %v, want both candidates", order)
	}
}

func TestOrderDeepChain(t *testing.T) {
	// c -> b -> a: rewriting must go c, b, a.
	edges := []Edge{
		{Target: "/pub/b.html", Referencing: "/pub/a.html"},
		{Target: "/pub/c.html", Referencing: "/pub/b.html"},
	}
	candidates := []string{"/pub/a.html", "/pub/b.html", "/pub/c.html"}

	order, err := Order(edges, candidates)
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	if !(indexOf(t, order, "/pub/c.html") < indexOf(t, order, "/pub/b.html") &&
		indexOf(t, order, "/pub/b.html") < indexOf(t, order, "/pub/a.html")) {
		t.Errorf("chain order wrong: %v", order)
	}
}
