package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ParsesRecognizedOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verifier.toml")
	doc := `
external_class_prefixes = ["org/unknown/"]
external_classpath = ["/opt/extra-classes"]
find_deprecated_api_usages = true
problem_filters = ["com/internal/**"]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	params, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"org/unknown/"}, params.ExternalClassPrefixes)
	assert.Equal(t, []string{"/opt/extra-classes"}, params.ExternalClasspath)
	assert.True(t, params.FindDeprecatedAPIUsages)
	assert.Equal(t, []string{"com/internal/**"}, params.ProblemFilterGlobs)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDefault_IsZeroValue(t *testing.T) {
	d := Default()
	assert.Empty(t, d.ExternalClassPrefixes)
	assert.False(t, d.FindDeprecatedAPIUsages)
}
