package symref

import "strconv"

// LocationKind tags a Location's variant.
type LocationKind int

const (
	LocationClass LocationKind = iota
	LocationMethod
	LocationField
	LocationInstruction
)

// Location is the concrete source of a finding: value semantics,
// equality by fields, used both as the dedup key's enclosing-location
// component and for rendering "where" in a report.
type Location struct {
	Kind LocationKind

	Class string // internal class name, always set

	// Method/Instruction locations only.
	MethodName string
	MethodDesc string

	// Instruction locations only: the instruction's ordinal among all
	// bytecode instructions of the method (classfile.Instruction.Index),
	// and the opcode's mnemonic for display.
	InstructionIndex int
	Opcode           string

	// Field locations only.
	FieldName string
	FieldDesc string
}

func InClass(class string) Location {
	return Location{Kind: LocationClass, Class: class}
}

func InMethod(class, name, desc string) Location {
	return Location{Kind: LocationMethod, Class: class, MethodName: name, MethodDesc: desc}
}

func InField(class, name, desc string) Location {
	return Location{Kind: LocationField, Class: class, FieldName: name, FieldDesc: desc}
}

func InInstruction(class, methodName, methodDesc string, index int, opcode string) Location {
	return Location{
		Kind:             LocationInstruction,
		Class:            class,
		MethodName:       methodName,
		MethodDesc:       methodDesc,
		InstructionIndex: index,
		Opcode:           opcode,
	}
}

func (l Location) String() string {
	switch l.Kind {
	case LocationClass:
		return l.Class
	case LocationMethod:
		return l.Class + "." + l.MethodName + l.MethodDesc
	case LocationField:
		return l.Class + "." + l.FieldName + " " + l.FieldDesc
	case LocationInstruction:
		return l.Class + "." + l.MethodName + l.MethodDesc + "#" + l.Opcode + "@" + strconv.Itoa(l.InstructionIndex)
	default:
		return "?"
	}
}
