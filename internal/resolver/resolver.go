// Package resolver implements the layered class-lookup abstraction the
// verifier is built on: a Resolver answers "does this class exist, and
// if so what does it look like" from one or more class sources (a
// plugin's own classes, the JDK, the host IDE, transitive plugin
// dependencies, or a user-supplied external classpath), composed with a
// strict ordering contract (spec.md §4.1).
package resolver

import "github.com/Ololoshechkin/plugin-verifier/internal/classfile"

// ResolutionKind tags a Resolution's variant. A Resolver is a total
// function: for any queried name it returns exactly one of these, never
// a transient ambiguity.
type ResolutionKind int

const (
	Found ResolutionKind = iota
	NotFound
	FailedToRead
	Invalid
)

// Resolution is the outcome of one Resolver.Find call.
type Resolution struct {
	Kind  ResolutionKind
	Class *classfile.ClassNode // set iff Kind == Found

	// Set iff Kind == FailedToRead or Kind == Invalid.
	Reason string
}

func ResolutionFound(c *classfile.ClassNode) Resolution { return Resolution{Kind: Found, Class: c} }
func ResolutionNotFound() Resolution                    { return Resolution{Kind: NotFound} }
func ResolutionFailedToRead(reason string) Resolution {
	return Resolution{Kind: FailedToRead, Reason: reason}
}
func ResolutionInvalid(reason string) Resolution {
	return Resolution{Kind: Invalid, Reason: reason}
}

// Resolver is a class-lookup abstraction producing ClassNodes by
// internal name. A Resolver that reports Contains(c)=true must return a
// Found Resolution from Find(c) unless the underlying storage fails.
type Resolver interface {
	Contains(name string) bool
	Find(name string) Resolution

	// AllClassNames enumerates every class name reachable through this
	// Resolver, deduplicated, in a stable order.
	AllClassNames() []string

	// ClassPath lists the filesystem locations this Resolver reads from,
	// for diagnostics ("which jar did this class come from").
	ClassPath() []string

	// Close releases any resources this Resolver holds. Composed
	// resolvers propagate Close to every child exactly once.
	Close() error
}
