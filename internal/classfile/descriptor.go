package classfile

import (
	"fmt"
	"strings"
)

// Descriptor parsing is centralized here, per DESIGN NOTES, with an
// exhaustive unit test covering nested array markers ("[[...").

// descriptorParamTypesRaw splits a method descriptor "(Lx/Y;I)Lx/Z;" into
// its raw parameter type descriptors, not resolving them further.
func descriptorParamTypesRaw(desc string) ([]string, error) {
	i := strings.IndexByte(desc, '(')
	j := strings.IndexByte(desc, ')')
	if i != 0 || j < 0 || j <= i {
		return nil, fmt.Errorf("malformed method descriptor %q", desc)
	}
	body := desc[i+1 : j]

	var params []string
	for len(body) > 0 {
		t, rest, err := takeOneType(body)
		if err != nil {
			return nil, fmt.Errorf("malformed method descriptor %q: %w", desc, err)
		}
		params = append(params, t)
		body = rest
	}
	return params, nil
}

// DescriptorParameterTypes returns the raw type descriptor of each formal
// parameter of a method descriptor, in order.
func DescriptorParameterTypes(desc string) ([]string, error) {
	return descriptorParamTypesRaw(desc)
}

// DescriptorReturnType returns the raw return-type descriptor of a method
// descriptor ("V" for void).
func DescriptorReturnType(desc string) (string, error) {
	j := strings.IndexByte(desc, ')')
	if j < 0 || j+1 > len(desc) {
		return "", fmt.Errorf("malformed method descriptor %q", desc)
	}
	ret := desc[j+1:]
	t, rest, err := takeOneType(ret)
	if err != nil {
		return "", fmt.Errorf("malformed method descriptor %q: %w", desc, err)
	}
	if rest != "" {
		return "", fmt.Errorf("malformed method descriptor %q: trailing data after return type", desc)
	}
	return t, nil
}

// takeOneType consumes exactly one field-descriptor's worth of characters
// from the front of s and returns it along with the remainder.
func takeOneType(s string) (string, string, error) {
	if s == "" {
		return "", "", fmt.Errorf("empty type")
	}

	depth := 0
	for depth < len(s) && s[depth] == '[' {
		depth++
	}
	if depth >= len(s) {
		return "", "", fmt.Errorf("unterminated array descriptor")
	}

	switch s[depth] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 'V':
		return s[:depth+1], s[depth+1:], nil
	case 'L':
		end := strings.IndexByte(s[depth:], ';')
		if end < 0 {
			return "", "", fmt.Errorf("unterminated class type descriptor")
		}
		return s[:depth+end+1], s[depth+end+1:], nil
	default:
		return "", "", fmt.Errorf("unknown type tag %q", s[depth])
	}
}

// IsPrimitive reports whether a raw type descriptor names a primitive
// type (including void). Primitive types are never reported as missing.
func IsPrimitive(t string) bool {
	if len(t) != 1 {
		return false
	}
	switch t[0] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 'V':
		return true
	}
	return false
}

// IsArray reports whether a raw type descriptor is an array type.
func IsArray(t string) bool {
	return strings.HasPrefix(t, "[")
}

// ArrayElementType strips exactly one array dimension. Callers that need
// the eventual element type should loop until IsArray returns false.
func ArrayElementType(t string) (string, error) {
	if !IsArray(t) {
		return "", fmt.Errorf("not an array descriptor: %q", t)
	}
	_, rest, err := takeOneType(t[1:])
	_ = rest
	if err != nil {
		return "", err
	}
	return t[1:], nil
}

// ExtractClassNameFromTypeDescriptor resolves a raw type descriptor to the
// internal class name it presence-checks against, or "" for a primitive.
// Array descriptors resolve to their element type for presence checks.
func ExtractClassNameFromTypeDescriptor(t string) (string, error) {
	for IsArray(t) {
		next, err := ArrayElementType(t)
		if err != nil {
			return "", err
		}
		t = next
	}
	if IsPrimitive(t) {
		return "", nil
	}
	if strings.HasPrefix(t, "L") && strings.HasSuffix(t, ";") {
		return t[1 : len(t)-1], nil
	}
	return "", fmt.Errorf("unrecognized type descriptor %q", t)
}
