package classfile

import "fmt"

// constantKind is the u1 tag of a constant_pool entry (JVM spec §4.4).
type constantKind uint8

const (
	ctUtf8               constantKind = 1
	ctInteger            constantKind = 3
	ctFloat              constantKind = 4
	ctLong               constantKind = 5
	ctDouble             constantKind = 6
	ctClass              constantKind = 7
	ctString             constantKind = 8
	ctFieldref           constantKind = 9
	ctMethodref          constantKind = 10
	ctInterfaceMethodref constantKind = 11
	ctNameAndType        constantKind = 12
	ctMethodHandle       constantKind = 15
	ctMethodType         constantKind = 16
	ctDynamic            constantKind = 17
	ctInvokeDynamic      constantKind = 18
	ctModule             constantKind = 19
	ctPackage            constantKind = 20

	// ctPlaceholder marks the unusable second slot that long/double
	// constants occupy in the 1-indexed constant pool (JVM spec §4.4.5).
	ctPlaceholder constantKind = 255
)

type cpEntry struct {
	kind constantKind

	utf8 string // ctUtf8

	nameIndex  uint16 // ctClass
	classIndex uint16 // ctFieldref/Methodref/InterfaceMethodref
	natIndex   uint16 // ctFieldref/Methodref/InterfaceMethodref: name_and_type_index

	ntNameIndex uint16 // ctNameAndType
	ntDescIndex uint16 // ctNameAndType
}

type constantPool []cpEntry

func (cp constantPool) utf8At(idx uint16) (string, error) {
	if int(idx) >= len(cp) {
		return "", fmt.Errorf("constant pool index %d out of range", idx)
	}
	e := cp[idx]
	if e.kind != ctUtf8 {
		return "", fmt.Errorf("constant pool index %d is not Utf8 (tag %d)", idx, e.kind)
	}
	return e.utf8, nil
}

func (cp constantPool) classNameAt(idx uint16) (string, error) {
	if idx == 0 {
		return "", nil
	}
	if int(idx) >= len(cp) {
		return "", fmt.Errorf("constant pool index %d out of range", idx)
	}
	e := cp[idx]
	if e.kind != ctClass {
		return "", fmt.Errorf("constant pool index %d is not Class (tag %d)", idx, e.kind)
	}
	return cp.utf8At(e.nameIndex)
}

// nameAndType returns (name, descriptor) for a NameAndType entry.
func (cp constantPool) nameAndType(idx uint16) (string, string, error) {
	if int(idx) >= len(cp) {
		return "", "", fmt.Errorf("constant pool index %d out of range", idx)
	}
	e := cp[idx]
	if e.kind != ctNameAndType {
		return "", "", fmt.Errorf("constant pool index %d is not NameAndType (tag %d)", idx, e.kind)
	}
	name, err := cp.utf8At(e.ntNameIndex)
	if err != nil {
		return "", "", err
	}
	desc, err := cp.utf8At(e.ntDescIndex)
	if err != nil {
		return "", "", err
	}
	return name, desc, nil
}

// ref resolves a Fieldref/Methodref/InterfaceMethodref entry to
// (ownerClass, name, descriptor, isInterfaceMethod).
func (cp constantPool) ref(idx uint16) (owner, name, desc string, isItf bool, err error) {
	if int(idx) >= len(cp) {
		return "", "", "", false, fmt.Errorf("constant pool index %d out of range", idx)
	}
	e := cp[idx]
	switch e.kind {
	case ctFieldref, ctMethodref, ctInterfaceMethodref:
	default:
		return "", "", "", false, fmt.Errorf("constant pool index %d is not a ref (tag %d)", idx, e.kind)
	}
	owner, err = cp.classNameAt(e.classIndex)
	if err != nil {
		return "", "", "", false, err
	}
	name, desc, err = cp.nameAndType(e.natIndex)
	if err != nil {
		return "", "", "", false, err
	}
	return owner, name, desc, e.kind == ctInterfaceMethodref, nil
}

func readConstantPool(br *BinaryReader) (constantPool, error) {
	count, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("failed to read constant_pool_count: %w", err)
	}

	cp := make(constantPool, count)
	for i := 1; i < int(count); i++ {
		tag, err := br.U1()
		if err != nil {
			return nil, fmt.Errorf("failed to read constant pool tag at index %d: %w", i, err)
		}

		var e cpEntry
		e.kind = constantKind(tag)

		switch e.kind {
		case ctUtf8:
			length, err := br.U2()
			if err != nil {
				return nil, fmt.Errorf("failed to read Utf8 length at index %d: %w", i, err)
			}
			buf, err := br.Bytes(int(length))
			if err != nil {
				return nil, fmt.Errorf("failed to read Utf8 bytes at index %d: %w", i, err)
			}
			e.utf8 = string(buf)
		case ctInteger, ctFloat:
			if err := br.Skip(4); err != nil {
				return nil, err
			}
		case ctLong, ctDouble:
			if err := br.Skip(8); err != nil {
				return nil, err
			}
			// 8-byte constants occupy two consecutive pool slots; the
			// second slot is reserved and unusable (JVM spec §4.4.5).
			if i+1 < int(count) {
				cp[i+1] = cpEntry{kind: ctPlaceholder}
				i++
			}
		case ctClass, ctString, ctMethodType, ctModule, ctPackage:
			idx, err := br.U2()
			if err != nil {
				return nil, fmt.Errorf("failed to read index at constant pool %d: %w", i, err)
			}
			e.nameIndex = idx
		case ctFieldref, ctMethodref, ctInterfaceMethodref:
			classIdx, err := br.U2()
			if err != nil {
				return nil, err
			}
			natIdx, err := br.U2()
			if err != nil {
				return nil, err
			}
			e.classIndex = classIdx
			e.natIndex = natIdx
		case ctNameAndType:
			nameIdx, err := br.U2()
			if err != nil {
				return nil, err
			}
			descIdx, err := br.U2()
			if err != nil {
				return nil, err
			}
			e.ntNameIndex = nameIdx
			e.ntDescIndex = descIdx
		case ctMethodHandle:
			if err := br.Skip(1); err != nil {
				return nil, err
			}
			if _, err := br.U2(); err != nil {
				return nil, err
			}
		case ctDynamic, ctInvokeDynamic:
			if _, err := br.U2(); err != nil {
				return nil, err
			}
			if _, err := br.U2(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported constant pool tag %d at index %d", tag, i)
		}

		cp[i] = e
	}

	return cp, nil
}
