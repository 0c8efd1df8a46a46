package classfile

import (
	"encoding/binary"
	"fmt"
)

// decodeCode walks one method's raw Code attribute bytes and extracts the
// Instructions the verifiers care about: method invokes, field accesses,
// type-bearing operations (new/checkcast/instanceof/anewarray/
// multianewarray) and ldc-of-a-class. Control-flow instructions
// (branches, switches, returns) are skipped correctly for byte-accounting
// purposes but never represented, per the data model.
func decodeCode(code []byte, cp constantPool) ([]Instruction, error) {
	var out []Instruction
	pc := 0
	idx := 0
	for pc < len(code) {
		opcode := Opcode(code[pc])
		start := pc

		switch opcode {
		case 0x00, // nop
			0x01,                         // aconst_null
			0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, // iconst_m1..5
			0x09, 0x0A, // lconst_0,1
			0x0B, 0x0C, 0x0D, // fconst_0..2
			0x0E, 0x0F, // dconst_0,1
			0x1A, 0x1B, 0x1C, 0x1D, // iload_0..3
			0x1E, 0x1F, 0x20, 0x21, // lload_0..3
			0x22, 0x23, 0x24, 0x25, // fload_0..3
			0x26, 0x27, 0x28, 0x29, // dload_0..3
			0x2A, 0x2B, 0x2C, 0x2D, // aload_0..3
			0x2E, 0x2F, 0x30, 0x31, 0x32, 0x33, 0x34, 0x35, // *aload
			0x3B, 0x3C, 0x3D, 0x3E, // istore_0..3
			0x3F, 0x40, 0x41, 0x42, // lstore_0..3
			0x43, 0x44, 0x45, 0x46, // fstore_0..3
			0x47, 0x48, 0x49, 0x4A, // dstore_0..3
			0x4B, 0x4C, 0x4D, 0x4E, // astore_0..3
			0x4F, 0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, // *astore
			0x57, 0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F, // stack ops
			0x60, 0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67, // add/sub
			0x68, 0x69, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F, // mul/div
			0x70, 0x71, 0x72, 0x73, // rem
			0x74, 0x75, 0x76, 0x77, // neg
			0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, // shifts
			0x7E, 0x7F, 0x80, 0x81, 0x82, 0x83, // bitwise
			0x85, 0x86, 0x87, 0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8E, 0x8F, 0x90, // conversions
			0x91, 0x92, 0x93, // i2b,i2c,i2s
			0x94, 0x95, 0x96, 0x97, 0x98, // compares
			0xAC, 0xAD, 0xAE, 0xAF, 0xB0, 0xB1, // returns
			0xBE, 0xBF, // arraylength, athrow
			0xC2, 0xC3: // monitorenter/exit
			pc++

		case 0x10, 0x12, 0xBC: // bipush, ldc, newarray
			if opcode == 0x12 {
				if err := decodeLdc(code, pc, cp, idx, &out, false); err != nil {
					return nil, err
				}
			}
			pc += 2

		case 0x11, 0x13, 0x14, // sipush, ldc_w, ldc2_w
			0x15, 0x16, 0x17, 0x18, 0x19, // *load index
			0x36, 0x37, 0x38, 0x39, 0x3A, // *store index
			0xA9: // ret
			if opcode == 0x13 {
				if err := decodeLdc(code, pc, cp, idx, &out, true); err != nil {
					return nil, err
				}
			}
			if opcode == 0xA9 || opcode == 0x15 || opcode == 0x16 || opcode == 0x17 || opcode == 0x18 || opcode == 0x19 ||
				opcode == 0x36 || opcode == 0x37 || opcode == 0x38 || opcode == 0x39 || opcode == 0x3A {
				pc += 2
			} else {
				pc += 3
			}

		case 0x99, 0x9A, 0x9B, 0x9C, 0x9D, 0x9E, // if<cond>
			0x9F, 0xA0, 0xA1, 0xA2, 0xA3, 0xA4, // if_icmp<cond>
			0xA5, 0xA6, // if_acmp<cond>
			0xA7, 0xA8, // goto, jsr
			0xC6, 0xC7: // ifnull, ifnonnull
			pc += 3

		case 0x84: // iinc
			pc += 3

		case 0xAA: // tableswitch
			n, err := tableSwitchLen(code, pc)
			if err != nil {
				return nil, err
			}
			pc += n

		case 0xAB: // lookupswitch
			n, err := lookupSwitchLen(code, pc)
			if err != nil {
				return nil, err
			}
			pc += n

		case OpGetStatic, OpPutStatic, OpGetField, OpPutField:
			if err := decodeFieldAccess(code, pc, cp, opcode, idx, &out); err != nil {
				return nil, err
			}
			pc += 3

		case OpInvokeVirtual, OpInvokeSpecial, OpInvokeStatic:
			if err := decodeInvoke(code, pc, cp, opcode, idx, &out); err != nil {
				return nil, err
			}
			pc += 3

		case OpInvokeInterface:
			if err := decodeInvoke(code, pc, cp, opcode, idx, &out); err != nil {
				return nil, err
			}
			pc += 5

		case OpInvokeDynamic:
			pc += 5

		case OpNew:
			if err := decodeTypeOp(code, pc, cp, opcode, idx, &out); err != nil {
				return nil, err
			}
			pc += 3

		case OpANewArray:
			if err := decodeTypeOp(code, pc, cp, opcode, idx, &out); err != nil {
				return nil, err
			}
			pc += 3

		case OpCheckCast, OpInstanceOf:
			if err := decodeTypeOp(code, pc, cp, opcode, idx, &out); err != nil {
				return nil, err
			}
			pc += 3

		case OpMultiANewArray:
			if err := decodeMultiANewArray(code, pc, cp, idx, &out); err != nil {
				return nil, err
			}
			pc += 4

		case 0xC4: // wide
			n, err := wideLen(code, pc)
			if err != nil {
				return nil, err
			}
			pc += n

		case 0xC8, 0xC9: // goto_w, jsr_w
			pc += 5

		default:
			return nil, fmt.Errorf("unrecognized opcode 0x%02X at pc %d", opcode, pc)
		}

		if pc == start {
			return nil, fmt.Errorf("decoder made no progress at pc %d (opcode 0x%02X)", pc, opcode)
		}
		idx++
	}
	return out, nil
}

func u2At(code []byte, pc int) uint16 {
	return binary.BigEndian.Uint16(code[pc : pc+2])
}

func decodeFieldAccess(code []byte, pc int, cp constantPool, op Opcode, idx int, out *[]Instruction) error {
	cpIdx := u2At(code, pc+1)
	owner, name, desc, _, err := cp.ref(cpIdx)
	if err != nil {
		return fmt.Errorf("at pc %d: %w", pc, err)
	}
	*out = append(*out, Instruction{Index: idx, Opcode: op, Owner: owner, Name: name, Desc: desc})
	return nil
}

func decodeInvoke(code []byte, pc int, cp constantPool, op Opcode, idx int, out *[]Instruction) error {
	cpIdx := u2At(code, pc+1)
	owner, name, desc, isItf, err := cp.ref(cpIdx)
	if err != nil {
		return fmt.Errorf("at pc %d: %w", pc, err)
	}
	*out = append(*out, Instruction{Index: idx, Opcode: op, Owner: owner, Name: name, Desc: desc, IsItf: isItf})
	return nil
}

func decodeTypeOp(code []byte, pc int, cp constantPool, op Opcode, idx int, out *[]Instruction) error {
	cpIdx := u2At(code, pc+1)
	name, err := cp.classNameAt(cpIdx)
	if err != nil {
		return fmt.Errorf("at pc %d: %w", pc, err)
	}
	if op == OpANewArray && IsArray(name) {
		if name, err = ExtractClassNameFromTypeDescriptor(name); err != nil {
			return fmt.Errorf("at pc %d: %w", pc, err)
		}
	}
	*out = append(*out, Instruction{Index: idx, Opcode: op, TypeName: name})
	return nil
}

func decodeMultiANewArray(code []byte, pc int, cp constantPool, idx int, out *[]Instruction) error {
	cpIdx := u2At(code, pc+1)
	name, err := cp.classNameAt(cpIdx)
	if err != nil {
		return fmt.Errorf("at pc %d: %w", pc, err)
	}
	dims := int(code[pc+3])
	name, err = ExtractClassNameFromTypeDescriptor(name)
	if err != nil {
		return fmt.Errorf("at pc %d: %w", pc, err)
	}
	*out = append(*out, Instruction{Index: idx, Opcode: OpMultiANewArray, TypeName: name, Dimensions: dims})
	return nil
}

func decodeLdc(code []byte, pc int, cp constantPool, idx int, out *[]Instruction, wide bool) error {
	var cpIdx uint16
	if wide {
		cpIdx = u2At(code, pc+1)
	} else {
		cpIdx = uint16(code[pc+1])
	}
	if int(cpIdx) >= len(cp) || cp[cpIdx].kind != ctClass {
		return nil // ldc of a non-class constant: not interesting to this analysis
	}
	name, err := cp.classNameAt(cpIdx)
	if err != nil {
		return fmt.Errorf("at pc %d: %w", pc, err)
	}
	*out = append(*out, Instruction{Index: idx, Opcode: OpLdc, TypeName: name})
	return nil
}

func tableSwitchLen(code []byte, pc int) (int, error) {
	base := pc + 1
	pad := (4 - base%4) % 4
	base += pad
	if base+12 > len(code) {
		return 0, fmt.Errorf("truncated tableswitch at pc %d", pc)
	}
	low := int32(binary.BigEndian.Uint32(code[base+4 : base+8]))
	high := int32(binary.BigEndian.Uint32(code[base+8 : base+12]))
	n := int(high-low) + 1
	if n < 0 {
		return 0, fmt.Errorf("invalid tableswitch range at pc %d", pc)
	}
	total := (base + 12 + n*4) - pc
	return total, nil
}

func lookupSwitchLen(code []byte, pc int) (int, error) {
	base := pc + 1
	pad := (4 - base%4) % 4
	base += pad
	if base+8 > len(code) {
		return 0, fmt.Errorf("truncated lookupswitch at pc %d", pc)
	}
	npairs := int32(binary.BigEndian.Uint32(code[base+4 : base+8]))
	if npairs < 0 {
		return 0, fmt.Errorf("invalid lookupswitch npairs at pc %d", pc)
	}
	total := (base + 8 + int(npairs)*8) - pc
	return total, nil
}

func wideLen(code []byte, pc int) (int, error) {
	if pc+1 >= len(code) {
		return 0, fmt.Errorf("truncated wide instruction at pc %d", pc)
	}
	sub := code[pc+1]
	if sub == 0x84 { // iinc
		return 6, nil
	}
	return 4, nil
}
