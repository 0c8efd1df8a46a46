package classfile

import "strings"

func IsPublic(a AccessFlags) bool    { return a&AccPublic != 0 }
func IsProtected(a AccessFlags) bool { return a&AccProtected != 0 }
func IsPrivate(a AccessFlags) bool   { return a&AccPrivate != 0 }
func IsStatic(a AccessFlags) bool    { return a&AccStatic != 0 }
func IsFinal(a AccessFlags) bool     { return a&AccFinal != 0 }
func IsAbstract(a AccessFlags) bool  { return a&AccAbstract != 0 }
func IsInterfaceFlag(a AccessFlags) bool { return a&AccInterface != 0 }
func IsSynthetic(a AccessFlags) bool { return a&AccSynthetic != 0 }
func IsBridge(a AccessFlags) bool    { return a&AccBridge != 0 }

// IsDefaultAccess reports package-private access: none of public,
// protected or private is set.
func IsDefaultAccess(a AccessFlags) bool {
	return a&(AccPublic|AccProtected|AccPrivate) == 0
}

// SamePackage strips the last '/'-delimited segment of each internal
// class name and compares the remainder.
func SamePackage(a, b string) bool {
	return packageOf(a) == packageOf(b)
}

func packageOf(internalName string) string {
	i := strings.LastIndexByte(internalName, '/')
	if i < 0 {
		return ""
	}
	return internalName[:i]
}
