// Package snapshot provides read-only codebase views for metric collection.
package snapshot

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/schema"
)

// sourceExtensions lists the file extensions treated as measurable units.
var sourceExtensions = map[string]struct{}{
	".go": {}, ".py": {}, ".js": {}, ".ts": {}, ".java": {}, ".rb": {},
	".c": {}, ".h": {}, ".cc": {}, ".cpp": {}, ".hpp": {}, ".cs": {},
	".rs": {}, ".kt": {}, ".swift": {}, ".scala": {}, ".php": {},
}

// FSSnapshot is a filesystem-backed snapshot rooted at a repository path.
// The reference graph for fan-in/fan-out is built once during List so that
// Measure stays cheap and per-unit.
type FSSnapshot struct {
	root     string
	excludes []string

	mu     sync.Mutex
	fanIn  map[string]int
	fanOut map[string]int
}

var _ contract.Snapshot = &FSSnapshot{} // Compile-time check

// NewFSSnapshot creates a snapshot over the given root directory.
func NewFSSnapshot(root string, excludes []string) *FSSnapshot {
	return &FSSnapshot{root: root, excludes: excludes}
}

// New returns the snapshot implementation selected by the config: a
// pre-extracted unit list when one is provided, otherwise a filesystem walk.
func New(cfg *contract.Config) (contract.Snapshot, error) {
	if cfg.UnitsFile != "" {
		return NewUnitsSnapshot(cfg.UnitsFile)
	}
	info, err := os.Stat(cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read codebase path %q: %w", cfg.RepoPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("codebase path %q is not a directory", cfg.RepoPath)
	}
	return NewFSSnapshot(cfg.RepoPath, cfg.Excludes), nil
}

// List walks the tree, returning the sorted relative paths of all source
// units and building the reference graph as a side product.
func (s *FSSnapshot) List(ctx context.Context) ([]string, error) {
	var units []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		name := d.Name()
		if d.IsDir() {
			if name == ".git" || name == "node_modules" || name == "vendor" || name == "__pycache__" {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := sourceExtensions[filepath.Ext(name)]; !ok {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if contract.ShouldIgnore(rel, s.excludes) {
			return nil
		}
		units = append(units, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot walk failed: %w", err)
	}
	sort.Strings(units)

	if err := s.buildReferenceGraph(ctx, units); err != nil {
		return nil, err
	}
	return units, nil
}

// Measure reads one unit and computes its structural metrics.
func (s *FSSnapshot) Measure(ctx context.Context, id string) (schema.UnitMetrics, error) {
	if err := ctx.Err(); err != nil {
		return schema.UnitMetrics{}, err
	}
	content, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(id)))
	if err != nil {
		return schema.UnitMetrics{}, err
	}
	if err := ctx.Err(); err != nil {
		return schema.UnitMetrics{}, err
	}

	metrics := measureContent(string(content))

	s.mu.Lock()
	metrics.FanIn = s.fanIn[id]
	metrics.FanOut = s.fanOut[id]
	s.mu.Unlock()

	return metrics, nil
}

// buildReferenceGraph scans every unit's import-like lines once and derives
// fan-out (imports per unit) and fan-in (units referencing this unit's stem).
// The heuristic is language-neutral and deterministic; it does not parse ASTs.
func (s *FSSnapshot) buildReferenceGraph(ctx context.Context, units []string) error {
	imports := make(map[string][]string, len(units)) // unit -> imported tokens
	stems := make(map[string][]string)               // stem -> units with that stem

	for _, u := range units {
		stem := unitStem(u)
		stems[stem] = append(stems[stem], u)
	}

	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(u)))
		if err != nil {
			// Unreadable units surface later through Measure; the graph
			// simply records no edges for them.
			continue
		}
		imports[u] = importTokens(string(content))
	}

	fanIn := make(map[string]int, len(units))
	fanOut := make(map[string]int, len(units))
	for u, tokens := range imports {
		fanOut[u] = len(tokens)
		seen := make(map[string]struct{})
		for _, tok := range tokens {
			for _, target := range stems[tok] {
				if target == u {
					continue
				}
				if _, dup := seen[target]; dup {
					continue
				}
				seen[target] = struct{}{}
				fanIn[target]++
			}
		}
	}

	s.mu.Lock()
	s.fanIn = fanIn
	s.fanOut = fanOut
	s.mu.Unlock()
	return nil
}

// unitStem returns the basename without extension, the token other units use
// to reference this one in import lines.
func unitStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// importTokens extracts the referenced module stems from import-like lines.
func importTokens(content string) []string {
	var tokens []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		var ref string
		switch {
		case strings.HasPrefix(line, "import "):
			ref = strings.TrimPrefix(line, "import ")
		case strings.HasPrefix(line, "from "):
			// from pkg.mod import X
			rest := strings.TrimPrefix(line, "from ")
			if idx := strings.Index(rest, " import"); idx > 0 {
				ref = rest[:idx]
			}
		case strings.HasPrefix(line, "#include "):
			ref = strings.TrimPrefix(line, "#include ")
		case strings.HasPrefix(line, "require ") || strings.HasPrefix(line, "require("):
			ref = strings.TrimLeft(strings.TrimPrefix(line, "require"), " (")
		default:
			continue
		}
		ref = strings.Trim(ref, `"'<>();`)
		if ref == "" {
			continue
		}
		// Keep the last path segment as the stem: "pkg.mod" -> "mod",
		// "path/to/mod.h" -> "mod".
		ref = strings.NewReplacer(".", "/", "\\", "/").Replace(ref)
		seg := ref[strings.LastIndex(ref, "/")+1:]
		seg = strings.TrimSuffix(seg, filepath.Ext(seg))
		if seg != "" {
			tokens = append(tokens, seg)
		}
	}
	return tokens
}

// complexityMarkers lists the decision-point tokens counted toward the
// complexity metric across supported languages.
var complexityMarkers = []string{
	"if ", "if(", "for ", "for(", "while ", "while(", "case ", "elif ",
	"except ", "catch ", "catch(", "&&", "||", " and ", " or ", "select ",
}

// measureContent computes the content-derived metrics for one unit:
// line count, decision-point complexity and duplicate-line ratio.
func measureContent(content string) schema.UnitMetrics {
	lines := strings.Split(content, "\n")

	var metrics schema.UnitMetrics
	seen := make(map[string]int)
	var nonBlank, duplicated int

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		metrics.Lines++
		nonBlank++

		for _, marker := range complexityMarkers {
			metrics.Complexity += strings.Count(line, marker)
		}

		// Short lines (braces, "end", "return") are structural noise, not
		// meaningful duplication.
		if len(line) >= 10 {
			seen[line]++
			if seen[line] > 1 {
				duplicated++
			}
		}
	}

	if nonBlank > 0 {
		metrics.DuplicationRatio = float64(duplicated) / float64(nonBlank)
	}
	return metrics
}
