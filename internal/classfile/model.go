// Package classfile provides the immutable in-memory view of a loaded
// JVM class: its name, access flags, hierarchy, fields, methods and the
// instructions inside each method body. Nothing here executes bytecode;
// it only exposes the structure the verifiers need to walk.
package classfile

// AccessFlags are the raw u2 access_flags bits carried by classes,
// fields and methods (JVM spec tables 4.1-B, 4.5-A, 4.6-A).
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccVolatile     AccessFlags = 0x0040
	AccBridge       AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
)

// ClassNode is one loaded class, immutable once produced by a Resolver.
// It is owned by the Resolver that read it and must remain valid for the
// lifetime of the verification run that requested it.
type ClassNode struct {
	Name       string // internal name, e.g. "pkg/Sub/Name"
	Access     AccessFlags
	Super      string // "" only for java/lang/Object
	Interfaces []string
	Fields     []*FieldNode
	Methods    []*MethodNode

	MajorVersion uint16
	MinorVersion uint16

	Deprecated   bool
	Experimental bool
	Internal     bool
}

func (c *ClassNode) IsInterface() bool { return c.Access&AccInterface != 0 }
func (c *ClassNode) IsAbstract() bool  { return c.Access&AccAbstract != 0 }
func (c *ClassNode) IsFinal() bool     { return c.Access&AccFinal != 0 }
func (c *ClassNode) IsPublic() bool    { return c.Access&AccPublic != 0 }

// FindMethod returns the method declared directly on this class matching
// (name, desc), or nil. It does not walk the hierarchy.
func (c *ClassNode) FindMethod(name, desc string) *MethodNode {
	for _, m := range c.Methods {
		if m.Name == name && m.Desc == desc {
			return m
		}
	}
	return nil
}

// FindMethodsByName returns every method declared directly on this class
// with the given name, regardless of descriptor (used by signature-
// polymorphic detection, which must see all overloads of the name first).
func (c *ClassNode) FindMethodsByName(name string) []*MethodNode {
	var out []*MethodNode
	for _, m := range c.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// FindField returns the field declared directly on this class matching
// (name, desc), or nil.
func (c *ClassNode) FindField(name, desc string) *FieldNode {
	for _, f := range c.Fields {
		if f.Name == name && f.Desc == desc {
			return f
		}
	}
	return nil
}

// MethodNode is subordinate to its owning ClassNode.
type MethodNode struct {
	Owner        *ClassNode
	Name         string
	Desc         string
	Access       AccessFlags
	Instructions []Instruction
	Deprecated   bool
}

func (m *MethodNode) IsStatic() bool    { return m.Access&AccStatic != 0 }
func (m *MethodNode) IsPrivate() bool   { return m.Access&AccPrivate != 0 }
func (m *MethodNode) IsPublic() bool    { return m.Access&AccPublic != 0 }
func (m *MethodNode) IsProtected() bool { return m.Access&AccProtected != 0 }
func (m *MethodNode) IsFinal() bool     { return m.Access&AccFinal != 0 }
func (m *MethodNode) IsAbstract() bool  { return m.Access&AccAbstract != 0 }
func (m *MethodNode) IsNative() bool    { return m.Access&AccNative != 0 }
func (m *MethodNode) IsVarargs() bool   { return m.Access&AccVarargs != 0 }
func (m *MethodNode) IsBridge() bool    { return m.Access&AccBridge != 0 }

func (m *MethodNode) IsDefaultAccess() bool {
	return m.Access&(AccPublic|AccProtected|AccPrivate) == 0
}

func (m *MethodNode) IsConstructor() bool {
	return m.Name == "<init>"
}

func (m *MethodNode) IsClassInit() bool {
	return m.Name == "<clinit>"
}

// FieldNode is subordinate to its owning ClassNode.
type FieldNode struct {
	Owner      *ClassNode
	Name       string
	Desc       string
	Access     AccessFlags
	Deprecated bool
	// ConstantValue holds the ConstantValue attribute, if any (nil otherwise).
	ConstantValue any
}

func (f *FieldNode) IsStatic() bool  { return f.Access&AccStatic != 0 }
func (f *FieldNode) IsFinal() bool   { return f.Access&AccFinal != 0 }
func (f *FieldNode) IsPublic() bool  { return f.Access&AccPublic != 0 }
func (f *FieldNode) IsPrivate() bool { return f.Access&AccPrivate != 0 }

func (f *FieldNode) IsProtected() bool { return f.Access&AccProtected != 0 }

func (f *FieldNode) IsDefaultAccess() bool {
	return f.Access&(AccPublic|AccProtected|AccPrivate) == 0
}
