package verify

import (
	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
	"github.com/Ololoshechkin/plugin-verifier/internal/resolver"
)

// accessLevelOf maps a member's access flags to the AccessLevel used in
// IllegalClassAccess/IllegalMethodAccess/IllegalFieldAccess problems.
// Only called once isAccessible has already determined the access
// check failed, so the three flags are mutually exclusive by that point.
func accessLevelOf(access classfile.AccessFlags) problem.AccessLevel {
	switch {
	case access&classfile.AccPrivate != 0:
		return problem.AccessPrivate
	case access&classfile.AccProtected != 0:
		return problem.AccessProtected
	default:
		return problem.AccessPackagePrivate
	}
}

// isAccessible implements rule "R accessible from D" (spec.md §4.2):
// declaring is the class that declares R (the referenced member or
// class), access is R's access flags, from is D (the referencing
// class), and refOwner is the symbolic reference's owner (used for the
// protected-instance-member subclass/owner check).
func (c *Context) isAccessible(declaring *classfile.ClassNode, access classfile.AccessFlags, from *classfile.ClassNode, refOwner string) bool {
	switch {
	case access&classfile.AccPublic != 0:
		return true
	case access&classfile.AccPrivate != 0:
		return from.Name == declaring.Name
	case access&classfile.AccProtected != 0:
		if classfile.SamePackage(from.Name, declaring.Name) {
			return true
		}
		if !c.walker.IsSubclassOrSelf(from, declaring.Name) {
			return false
		}
		// Instance members additionally require the symbolic reference's
		// owner to be D or a subclass/superclass of D.
		if refOwner == from.Name {
			return true
		}
		if refTarget, ok := c.resolveQuiet(refOwner); ok {
			if c.walker.IsSubclassOrSelf(refTarget, from.Name) || c.walker.IsSubclassOrSelf(from, refTarget.Name) {
				return true
			}
		}
		return false
	default: // default (package-private) access
		return classfile.SamePackage(from.Name, declaring.Name)
	}
}

// resolveQuiet resolves a class without reporting problems — used by
// accessibility's secondary owner check, which must not itself produce
// a ClassNotFound when the primary resolution already succeeded.
func (c *Context) resolveQuiet(name string) (*classfile.ClassNode, bool) {
	res := c.Classes.Find(name)
	if res.Kind == resolver.Found {
		return res.Class, true
	}
	return nil, false
}
