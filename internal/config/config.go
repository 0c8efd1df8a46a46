// Package config loads VerifierParameters from a TOML config file, the
// way the CLI accepts a --config flag instead of repeating every flag
// by hand. Grounded on the pack's BurntSushi/toml convention (chazu-
// maggie, code-watch both load their settings this way).
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/Ololoshechkin/plugin-verifier/internal/engine"
)

// verifierParametersTOML mirrors engine.VerifierParameters field for
// field, using snake_case keys matching spec.md §6's names.
type verifierParametersTOML struct {
	ExternalClassPrefixes   []string `toml:"external_class_prefixes"`
	ExternalClasspath       []string `toml:"external_classpath"`
	FindDeprecatedAPIUsages bool     `toml:"find_deprecated_api_usages"`
	ProblemFilters          []string `toml:"problem_filters"`
}

// Load reads a VerifierParameters document from path.
func Load(path string) (engine.VerifierParameters, error) {
	var doc verifierParametersTOML
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return engine.VerifierParameters{}, fmt.Errorf("failed to load verifier config %s: %w", path, err)
	}
	return engine.VerifierParameters{
		ExternalClassPrefixes:   doc.ExternalClassPrefixes,
		ExternalClasspath:       doc.ExternalClasspath,
		FindDeprecatedAPIUsages: doc.FindDeprecatedAPIUsages,
		ProblemFilterGlobs:      doc.ProblemFilters,
	}, nil
}

// Default returns the zero-value VerifierParameters used when no
// --config flag is given: no external prefixes, no usage tracking, no
// filters.
func Default() engine.VerifierParameters {
	return engine.VerifierParameters{}
}
