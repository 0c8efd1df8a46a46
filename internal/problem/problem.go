// Package problem defines the closed set of defect kinds this verifier
// can report, plus the deprecated/experimental/internal usage records
// that are emitted alongside problems but are not themselves defects.
//
// Problems are tagged variants, not a class hierarchy: one Problem
// struct tagged by Kind, where each Kind fills only the fields its
// rendering needs, and the rendering layer is expected to switch on Kind
// rather than use dynamic dispatch.
package problem

import "github.com/Ololoshechkin/plugin-verifier/internal/symref"

// Kind enumerates the system's public contract: every defect category
// this engine can report (spec.md §3).
type Kind int

const (
	ClassNotFound Kind = iota
	PackageNotFound
	InvalidClassFile
	FailedToReadClassFile
	IllegalClassAccess
	MethodNotFound
	IllegalMethodAccess
	AbstractMethodInvocation
	OverridingFinalMethod
	MethodNotImplemented
	MultipleDefaultImplementations
	InvokeStaticOnInstanceMethod
	InvokeVirtualOnStaticMethod
	InvokeSpecialOnStaticMethod
	InvokeInterfaceOnStaticMethod
	InvokeInterfaceOnPrivateMethod
	InvokeClassMethodOnInterface
	IncompatibleClassToInterfaceChange
	IncompatibleInterfaceToClassChange
	InheritFromFinalClass
	SuperClassBecameInterface
	SuperInterfaceBecameClass
	InterfaceInstantiation
	AbstractClassInstantiation
	FieldNotFound
	IllegalFieldAccess
	StaticAccessOfInstanceField
	InstanceAccessOfStaticField
	ChangeFinalField
)

func (k Kind) String() string {
	switch k {
	case ClassNotFound:
		return "ClassNotFound"
	case PackageNotFound:
		return "PackageNotFound"
	case InvalidClassFile:
		return "InvalidClassFile"
	case FailedToReadClassFile:
		return "FailedToReadClassFile"
	case IllegalClassAccess:
		return "IllegalClassAccess"
	case MethodNotFound:
		return "MethodNotFound"
	case IllegalMethodAccess:
		return "IllegalMethodAccess"
	case AbstractMethodInvocation:
		return "AbstractMethodInvocation"
	case OverridingFinalMethod:
		return "OverridingFinalMethod"
	case MethodNotImplemented:
		return "MethodNotImplemented"
	case MultipleDefaultImplementations:
		return "MultipleDefaultImplementations"
	case InvokeStaticOnInstanceMethod:
		return "InvokeStaticOnInstanceMethod"
	case InvokeVirtualOnStaticMethod:
		return "InvokeVirtualOnStaticMethod"
	case InvokeSpecialOnStaticMethod:
		return "InvokeSpecialOnStaticMethod"
	case InvokeInterfaceOnStaticMethod:
		return "InvokeInterfaceOnStaticMethod"
	case InvokeInterfaceOnPrivateMethod:
		return "InvokeInterfaceOnPrivateMethod"
	case InvokeClassMethodOnInterface:
		return "InvokeClassMethodOnInterface"
	case IncompatibleClassToInterfaceChange:
		return "IncompatibleClassToInterfaceChange"
	case IncompatibleInterfaceToClassChange:
		return "IncompatibleInterfaceToClassChange"
	case InheritFromFinalClass:
		return "InheritFromFinalClass"
	case SuperClassBecameInterface:
		return "SuperClassBecameInterface"
	case SuperInterfaceBecameClass:
		return "SuperInterfaceBecameClass"
	case InterfaceInstantiation:
		return "InterfaceInstantiation"
	case AbstractClassInstantiation:
		return "AbstractClassInstantiation"
	case FieldNotFound:
		return "FieldNotFound"
	case IllegalFieldAccess:
		return "IllegalFieldAccess"
	case StaticAccessOfInstanceField:
		return "StaticAccessOfInstanceField"
	case InstanceAccessOfStaticField:
		return "InstanceAccessOfStaticField"
	case ChangeFinalField:
		return "ChangeFinalField"
	default:
		return "Unknown"
	}
}

// AccessLevel distinguishes which accessibility rule was violated, for
// the IllegalClassAccess/IllegalMethodAccess/IllegalFieldAccess kinds.
type AccessLevel int

const (
	AccessPrivate AccessLevel = iota
	AccessProtected
	AccessPackagePrivate
)

func (l AccessLevel) String() string {
	switch l {
	case AccessPrivate:
		return "private"
	case AccessProtected:
		return "protected"
	case AccessPackagePrivate:
		return "package-private"
	default:
		return "unknown"
	}
}

// Problem is one reported defect. Every Kind uses a subset of these
// fields; the set is closed and the rendering layer switches on Kind.
type Problem struct {
	Kind Kind

	// The enclosing Location this problem was found at (a class, method,
	// field, or instruction location).
	At symref.Location

	// The unresolved or resolved reference this problem is about.
	Ref symref.Reference

	// Second reference, for problems that relate two things (e.g. an
	// overriding method and the final method it overrides).
	Ref2 symref.Reference

	Access AccessLevel // IllegalClassAccess / IllegalMethodAccess / IllegalFieldAccess

	Reason string // FailedToReadClassFile / InvalidClassFile

	// PackageNotFound only: the common package prefix and the
	// ClassNotFound problems it rolls up. Children are retained for
	// detail views even though they are hidden from the top-level list.
	PackagePrefix string
	Children      []Problem
}

// ShortDescription is a one-line human summary, independent of Location
// detail (for listings).
func (p Problem) ShortDescription() string {
	switch p.Kind {
	case ClassNotFound:
		return "class " + p.Ref.Owner + " not found"
	case PackageNotFound:
		return "package " + p.PackagePrefix + " not found"
	case InvalidClassFile:
		return "invalid class file " + p.Ref.Owner
	case FailedToReadClassFile:
		return "failed to read class file " + p.Ref.Owner
	case IllegalClassAccess, IllegalMethodAccess, IllegalFieldAccess:
		return "illegal access to " + p.Ref.String() + " (" + p.Access.String() + ")"
	case MethodNotFound:
		return "method " + p.Ref.String() + " not found"
	case AbstractMethodInvocation:
		return "invocation of abstract method " + p.Ref.String()
	case OverridingFinalMethod:
		return "overriding final method " + p.Ref2.String()
	case MethodNotImplemented:
		return "method not implemented: " + p.Ref.String()
	case MultipleDefaultImplementations:
		return "multiple default implementations of " + p.Ref.String()
	case InvokeStaticOnInstanceMethod:
		return "invokestatic on instance method " + p.Ref.String()
	case InvokeVirtualOnStaticMethod:
		return "invokevirtual on static method " + p.Ref.String()
	case InvokeSpecialOnStaticMethod:
		return "invokespecial on static method " + p.Ref.String()
	case InvokeInterfaceOnStaticMethod:
		return "invokeinterface on static method " + p.Ref.String()
	case InvokeInterfaceOnPrivateMethod:
		return "invokeinterface on private method " + p.Ref.String()
	case InvokeClassMethodOnInterface:
		return "invocation of a class method on an interface " + p.Ref.String()
	case IncompatibleClassToInterfaceChange:
		return "class became an interface: " + p.Ref.Owner
	case IncompatibleInterfaceToClassChange:
		return "interface became a class: " + p.Ref.Owner
	case InheritFromFinalClass:
		return "inherits from final class " + p.Ref.Owner
	case SuperClassBecameInterface:
		return "superclass became an interface: " + p.Ref.Owner
	case SuperInterfaceBecameClass:
		return "superinterface became a class: " + p.Ref.Owner
	case InterfaceInstantiation:
		return "instantiation of an interface " + p.Ref.Owner
	case AbstractClassInstantiation:
		return "instantiation of an abstract class " + p.Ref.Owner
	case FieldNotFound:
		return "field " + p.Ref.String() + " not found"
	case StaticAccessOfInstanceField:
		return "static access of instance field " + p.Ref.String()
	case InstanceAccessOfStaticField:
		return "instance access of static field " + p.Ref.String()
	case ChangeFinalField:
		return "write to final field " + p.Ref.String()
	default:
		return p.Kind.String()
	}
}

// FullDescription adds the enclosing Location to ShortDescription.
func (p Problem) FullDescription() string {
	return p.ShortDescription() + " (at " + p.At.String() + ")"
}

// CanonicalKey is the (kind-tag, canonical-form-of-fields) tuple the
// registrar dedups on: a Problem is produced at most once per
// (kind, references, enclosing location) within a single run.
type CanonicalKey struct {
	Kind   Kind
	At     symref.Location
	Ref    symref.Reference
	Ref2   symref.Reference
	Access AccessLevel
	Prefix string
}

func (p Problem) CanonicalKey() CanonicalKey {
	return CanonicalKey{
		Kind:   p.Kind,
		At:     p.At,
		Ref:    p.Ref,
		Ref2:   p.Ref2,
		Access: p.Access,
		Prefix: p.PackagePrefix,
	}
}
