// Package symref holds the value types that name things in bytecode
// before and after resolution: symbolic references (as encoded in the
// constant pool, prior to resolution) and concrete locations (where in
// the plugin a defect was found). Both have value semantics — equality
// is by fields, which is what the problem registrar's dedup key relies on.
package symref

// Kind tags a SymbolicReference's variant.
type Kind int

const (
	KindClass Kind = iota
	KindMethod
	KindField
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	default:
		return "unknown"
	}
}

// Reference is a (class | method | field) symbolic reference: a name and
// descriptor pair naming something in bytecode, prior to resolution.
type Reference struct {
	Kind  Kind
	Owner string // internal class name; for KindClass this is the class itself
	Name  string // empty for KindClass
	Desc  string // empty for KindClass and for KindField's use as "any member"
}

func Class(name string) Reference {
	return Reference{Kind: KindClass, Owner: name}
}

func Method(owner, name, desc string) Reference {
	return Reference{Kind: KindMethod, Owner: owner, Name: name, Desc: desc}
}

func Field(owner, name, desc string) Reference {
	return Reference{Kind: KindField, Owner: owner, Name: name, Desc: desc}
}

func (r Reference) String() string {
	switch r.Kind {
	case KindClass:
		return r.Owner
	case KindMethod:
		return r.Owner + "." + r.Name + r.Desc
	case KindField:
		return r.Owner + "." + r.Name + " " + r.Desc
	default:
		return "?"
	}
}
