package resolver

import (
	"strings"

	"github.com/gobwas/glob"
)

// External holds a set of user-declared package-prefix patterns over
// internal (slash-separated) class names, e.g. "org/unknown",
// "com/intellij/util/graph/**". Classes matched by IsExternal are
// treated by the verifiers as unresolvable-but-acceptable: a
// ClassNotFound for an external name is suppressed rather than
// reported, on the assumption the host environment supplies it at
// runtime even though it wasn't present in the classpath this job saw.
//
// External does not implement Resolver itself — it never has classes
// to return, only an exclusion test — so it is consulted by the
// verify layer alongside a Resolver rather than composed into the
// Union chain.
type External struct {
	patterns []glob.Glob
	raw      []string
}

// NewExternal compiles each prefix pattern with gobwas/glob, using '/'
// as the path separator to match internal class name notation. A
// pattern without wildcards is treated as an exact package prefix match
// by appending "/**", so "org/unknown" matches "org/unknown/X" and
// everything below it.
func NewExternal(prefixes []string) (*External, error) {
	e := &External{raw: prefixes}
	for _, p := range prefixes {
		pattern := p
		if !containsWildcard(pattern) {
			pattern = strings.TrimSuffix(pattern, "/") + "/**"
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		e.patterns = append(e.patterns, g)
	}
	return e, nil
}

func containsWildcard(s string) bool {
	for _, r := range s {
		if r == '*' || r == '?' || r == '[' {
			return true
		}
	}
	return false
}

// IsExternal reports whether the given internal class name falls under
// any declared external package prefix.
func (e *External) IsExternal(internalName string) bool {
	for _, g := range e.patterns {
		if g.Match(internalName) {
			return true
		}
	}
	return false
}

func (e *External) Prefixes() []string { return e.raw }
