package problem

import "github.com/Ololoshechkin/plugin-verifier/internal/symref"

// UsageKind distinguishes why a resolved reference was flagged.
type UsageKind int

const (
	UsageDeprecated UsageKind = iota
	UsageExperimental
	UsageInternal
)

func (k UsageKind) String() string {
	switch k {
	case UsageDeprecated:
		return "deprecated"
	case UsageExperimental:
		return "experimental"
	case UsageInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Usage records a single resolved reference to a deprecated, experimental
// or internal API element. Usages are not problems: they are only
// produced when VerifierParameters.FindDeprecatedAPIUsages is set, and
// they are never filtered or deduplicated by the registrar.
type Usage struct {
	Kind UsageKind
	At   symref.Location
	Ref  symref.Reference
}
