// Package registrar buffers problems discovered during a verification
// job into an insertion-ordered, deduplicated set, applies user filters,
// and rolls up large batches of ClassNotFound sharing a package prefix
// into a single PackageNotFound.
package registrar

import (
	"github.com/gobwas/glob"

	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
)

// PackageNotFoundThreshold is the minimum number of ClassNotFound
// problems sharing a common package prefix required before they
// collapse into one PackageNotFound (spec.md §4.9 / end-to-end scenario 3).
const PackageNotFoundThreshold = 15

// Filter suppresses a problem when it matches. Patterns are glob
// patterns (gobwas/glob, '/' as the separator) matched against the
// problem's enclosing location's class name.
type Filter struct {
	pattern glob.Glob
	raw     string
}

func NewFilter(pattern string) (Filter, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return Filter{}, err
	}
	return Filter{pattern: g, raw: pattern}, nil
}

func (f Filter) matches(p problem.Problem) bool {
	return f.pattern.Match(p.At.Class)
}

// Registrar is the problem sink used by every verifier: it dedups by
// CanonicalKey, applies filters before storing, and exposes the final
// aggregated result only through Problems/Usages, never partial state.
type Registrar struct {
	filters []Filter

	seen    map[problem.CanonicalKey]bool
	ordered []problem.Problem

	usages []problem.Usage
}

func New(filters []Filter) *Registrar {
	return &Registrar{filters: filters, seen: make(map[problem.CanonicalKey]bool)}
}

// Report stores p unless it matches a user filter or has already been
// reported under an equal CanonicalKey this run.
func (r *Registrar) Report(p problem.Problem) {
	for _, f := range r.filters {
		if f.matches(p) {
			return
		}
	}
	key := p.CanonicalKey()
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	r.ordered = append(r.ordered, p)
}

func (r *Registrar) ReportUsage(u problem.Usage) {
	r.usages = append(r.usages, u)
}

// Problems returns the final, deduplicated, filtered, rolled-up problem
// set in deterministic insertion order. Calling it is the terminal
// action on a Registrar for a job; it does not mutate further state.
func (r *Registrar) Problems() []problem.Problem {
	return rollUpPackageNotFound(r.ordered)
}

func (r *Registrar) Usages() []problem.Usage {
	out := make([]problem.Usage, len(r.usages))
	copy(out, r.usages)
	return out
}

// rollUpPackageNotFound groups ClassNotFound problems by package prefix
// (the package of the missing class reference) and replaces any group
// of size >= PackageNotFoundThreshold with a single PackageNotFound
// problem carrying the group as Children, in first-seen order. Problems
// that are not ClassNotFound, or whose group didn't reach the
// threshold, pass through unchanged in their original position.
func rollUpPackageNotFound(in []problem.Problem) []problem.Problem {
	groups := make(map[string][]problem.Problem)
	groupOrder := make([]string, 0)

	for _, p := range in {
		if p.Kind != problem.ClassNotFound {
			continue
		}
		prefix := packagePrefix(p.Ref.Owner)
		if _, ok := groups[prefix]; !ok {
			groupOrder = append(groupOrder, prefix)
		}
		groups[prefix] = append(groups[prefix], p)
	}

	rolledPrefixes := make(map[string]problem.Problem)
	for _, prefix := range groupOrder {
		members := groups[prefix]
		if len(members) >= PackageNotFoundThreshold {
			rolledPrefixes[prefix] = problem.Problem{
				Kind:          problem.PackageNotFound,
				PackagePrefix: prefix,
				Children:      members,
			}
		}
	}

	var out []problem.Problem
	emittedPrefix := make(map[string]bool)
	for _, p := range in {
		if p.Kind != problem.ClassNotFound {
			out = append(out, p)
			continue
		}
		prefix := packagePrefix(p.Ref.Owner)
		rolled, isRolled := rolledPrefixes[prefix]
		if !isRolled {
			out = append(out, p)
			continue
		}
		if emittedPrefix[prefix] {
			continue
		}
		emittedPrefix[prefix] = true
		out = append(out, rolled)
	}
	return out
}

func packagePrefix(internalName string) string {
	for i := len(internalName) - 1; i >= 0; i-- {
		if internalName[i] == '/' {
			return internalName[:i]
		}
	}
	return ""
}
