package classfile

import (
	"bytes"
	"fmt"
	"io"
)

const classMagic = 0xCAFEBABE

// MinSupportedMajorVersion is the lowest class file major version this
// engine accepts, per spec.md §6 ("Standard JVM class file, major
// versions >= 45").
const MinSupportedMajorVersion = 45

// InvalidClassFileError wraps a structural decoding failure with the
// name asm-style tools report it under; callers turn this into an
// InvalidClassFile problem rather than propagating it as a Go error
// across class boundaries.
type InvalidClassFileError struct {
	Reason string
}

func (e *InvalidClassFileError) Error() string { return e.Reason }

// Parse decodes one .class file's bytes into a ClassNode. It is the only
// place in this repository that understands the raw class file layout.
func Parse(r io.Reader) (*ClassNode, error) {
	br := NewBinaryReader(r)

	magic, err := br.U4()
	if err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != classMagic {
		return nil, &InvalidClassFileError{Reason: fmt.Sprintf("bad magic 0x%08X", magic)}
	}

	minor, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read minor_version: %w", err)
	}
	major, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read major_version: %w", err)
	}
	if major < MinSupportedMajorVersion {
		return nil, &InvalidClassFileError{Reason: fmt.Sprintf("unsupported major version %d", major)}
	}

	cp, err := readConstantPool(br)
	if err != nil {
		return nil, &InvalidClassFileError{Reason: err.Error()}
	}

	accessFlags, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read access_flags: %w", err)
	}

	thisClassIdx, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read this_class: %w", err)
	}
	thisName, err := cp.classNameAt(thisClassIdx)
	if err != nil {
		return nil, &InvalidClassFileError{Reason: err.Error()}
	}

	superClassIdx, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read super_class: %w", err)
	}
	superName, err := cp.classNameAt(superClassIdx)
	if err != nil {
		return nil, &InvalidClassFileError{Reason: err.Error()}
	}

	ifaceCount, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read interfaces_count: %w", err)
	}
	interfaces := make([]string, 0, ifaceCount)
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := br.U2()
		if err != nil {
			return nil, fmt.Errorf("failed to read interface index %d: %w", i, err)
		}
		name, err := cp.classNameAt(idx)
		if err != nil {
			return nil, &InvalidClassFileError{Reason: err.Error()}
		}
		interfaces = append(interfaces, name)
	}

	class := &ClassNode{
		Name:         thisName,
		Access:       AccessFlags(accessFlags),
		Super:        superName,
		Interfaces:   interfaces,
		MajorVersion: major,
		MinorVersion: minor,
	}

	fieldCount, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read fields_count: %w", err)
	}
	for i := 0; i < int(fieldCount); i++ {
		f, err := readField(br, cp, class)
		if err != nil {
			return nil, &InvalidClassFileError{Reason: fmt.Sprintf("field %d: %v", i, err)}
		}
		class.Fields = append(class.Fields, f)
	}

	methodCount, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read methods_count: %w", err)
	}
	for i := 0; i < int(methodCount); i++ {
		m, err := readMethod(br, cp, class)
		if err != nil {
			return nil, &InvalidClassFileError{Reason: fmt.Sprintf("method %d: %v", i, err)}
		}
		class.Methods = append(class.Methods, m)
	}

	classAttrCount, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read class attributes_count: %w", err)
	}
	for i := 0; i < int(classAttrCount); i++ {
		name, data, err := readAttribute(br, cp)
		if err != nil {
			return nil, &InvalidClassFileError{Reason: fmt.Sprintf("class attribute %d: %v", i, err)}
		}
		switch name {
		case "Deprecated":
			class.Deprecated = true
		case "RuntimeVisibleAnnotations":
			if hasJetBrainsMarkerAnnotation(data) {
				class.Experimental = true
			}
		}
	}

	return class, nil
}

// readAttribute reads one generic attribute_info structure and returns
// its name and raw body; callers decide which names to interpret.
func readAttribute(br *BinaryReader, cp constantPool) (string, []byte, error) {
	nameIdx, err := br.U2()
	if err != nil {
		return "", nil, fmt.Errorf("failed to read attribute_name_index: %w", err)
	}
	name, err := cp.utf8At(nameIdx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve attribute name: %w", err)
	}
	length, err := br.U4()
	if err != nil {
		return "", nil, fmt.Errorf("failed to read attribute_length: %w", err)
	}
	data, err := br.Bytes(int(length))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read attribute body of %q: %w", name, err)
	}
	return name, data, nil
}

func readField(br *BinaryReader, cp constantPool, owner *ClassNode) (*FieldNode, error) {
	accessFlags, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read access_flags: %w", err)
	}
	nameIdx, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read name_index: %w", err)
	}
	name, err := cp.utf8At(nameIdx)
	if err != nil {
		return nil, err
	}
	descIdx, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor_index: %w", err)
	}
	desc, err := cp.utf8At(descIdx)
	if err != nil {
		return nil, err
	}

	field := &FieldNode{Owner: owner, Name: name, Desc: desc, Access: AccessFlags(accessFlags)}

	attrCount, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read field attributes_count: %w", err)
	}
	for i := 0; i < int(attrCount); i++ {
		attrName, data, err := readAttribute(br, cp)
		if err != nil {
			return nil, err
		}
		switch attrName {
		case "Deprecated":
			field.Deprecated = true
		case "ConstantValue":
			if len(data) == 2 {
				idx := u2At(data, 0)
				field.ConstantValue = idx
			}
		}
	}
	return field, nil
}

func readMethod(br *BinaryReader, cp constantPool, owner *ClassNode) (*MethodNode, error) {
	accessFlags, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read access_flags: %w", err)
	}
	nameIdx, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read name_index: %w", err)
	}
	name, err := cp.utf8At(nameIdx)
	if err != nil {
		return nil, err
	}
	descIdx, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor_index: %w", err)
	}
	desc, err := cp.utf8At(descIdx)
	if err != nil {
		return nil, err
	}

	method := &MethodNode{Owner: owner, Name: name, Desc: desc, Access: AccessFlags(accessFlags)}

	attrCount, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read method attributes_count: %w", err)
	}
	for i := 0; i < int(attrCount); i++ {
		attrName, data, err := readAttribute(br, cp)
		if err != nil {
			return nil, err
		}
		switch attrName {
		case "Deprecated":
			method.Deprecated = true
		case "Code":
			insns, err := decodeMethodCode(data, cp)
			if err != nil {
				return nil, fmt.Errorf("method %s%s: %w", name, desc, err)
			}
			method.Instructions = insns
		}
	}
	return method, nil
}

// decodeMethodCode parses a raw Code attribute body down to its bytecode
// and hands it to decodeCode.
//
//	u2 max_stack
//	u2 max_locals
//	u4 code_length
//	u1 code[code_length]
//	u2 exception_table_length
//	exception_table[...]
//	u2 attributes_count
//	attributes[...]
func decodeMethodCode(data []byte, cp constantPool) ([]Instruction, error) {
	br := NewBinaryReader(bytes.NewReader(data))
	if _, err := br.U2(); err != nil { // max_stack
		return nil, err
	}
	if _, err := br.U2(); err != nil { // max_locals
		return nil, err
	}
	codeLen, err := br.U4()
	if err != nil {
		return nil, err
	}
	code, err := br.Bytes(int(codeLen))
	if err != nil {
		return nil, fmt.Errorf("failed to read code[%d]: %w", codeLen, err)
	}
	return decodeCode(code, cp)
}

// hasJetBrainsMarkerAnnotation is a light heuristic used only to populate
// the ClassNode.Experimental marker: it looks for an "Experimental"
// substring inside a RuntimeVisibleAnnotations attribute's raw bytes,
// rather than fully decoding the annotation structure (which carries no
// information this verifier's problems depend on beyond presence).
func hasJetBrainsMarkerAnnotation(data []byte) bool {
	const marker = "Experimental"
	return indexOfBytes(data, []byte(marker)) >= 0
}

func indexOfBytes(haystack, needle []byte) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == string(needle) {
			return i
		}
	}
	return -1
}
