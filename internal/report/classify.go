package report

import "github.com/Ololoshechkin/plugin-verifier/internal/problem"

// isCritical is a purely cosmetic split used to color the problem list:
// unresolvable references, read errors and access violations render
// critical (red),
// everything else (behavioral incompatibilities the plugin can often
// still run under) renders as a warning (orange).
func isCritical(k problem.Kind) bool {
	switch k {
	case problem.ClassNotFound,
		problem.PackageNotFound,
		problem.MethodNotFound,
		problem.FieldNotFound,
		problem.InvalidClassFile,
		problem.FailedToReadClassFile,
		problem.IllegalClassAccess,
		problem.IllegalMethodAccess,
		problem.IllegalFieldAccess:
		return true
	default:
		return false
	}
}
