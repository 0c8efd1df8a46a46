package resolver

// Union holds an ordered list of child resolvers. Resolution returns the
// first Found result; a FailedToRead or Invalid result from an earlier
// child short-circuits the search — it must be reported, never skipped
// over in favor of a later child that might also have the class.
//
// This is also where the verification classpath's ordering contract
// (spec.md §4.1) is enforced: callers must construct the child list as
// [plugin, JDK, host, transitive plugin dependencies, external classpath]
// so dependency classes never shadow host classes and the plugin never
// shadows the JDK.
type Union struct {
	children []Resolver
}

func NewUnion(children ...Resolver) *Union {
	return &Union{children: children}
}

func (u *Union) Contains(name string) bool {
	for _, c := range u.children {
		if c.Contains(name) {
			return true
		}
	}
	return false
}

func (u *Union) Find(name string) Resolution {
	for _, c := range u.children {
		res := c.Find(name)
		switch res.Kind {
		case Found, FailedToRead, Invalid:
			return res
		case NotFound:
			continue
		}
	}
	return ResolutionNotFound()
}

// AllClassNames is the ordered union of child enumerations, deduplicated
// by class name with the first occurrence winning (matching Find's
// first-match-wins semantics).
func (u *Union) AllClassNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range u.children {
		for _, name := range c.AllClassNames() {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func (u *Union) ClassPath() []string {
	var out []string
	for _, c := range u.children {
		out = append(out, c.ClassPath()...)
	}
	return out
}

// Close closes every child, even if some return an error, and returns
// the first error encountered (if any).
func (u *Union) Close() error {
	var firstErr error
	for _, c := range u.children {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
