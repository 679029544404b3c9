package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProperties(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compare.properties")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProperties_Full(t *testing.T) {
	path := writeProperties(t, `ignore.attributes=lastLogon, logonTime ,modifyTimestamp
ignore.attribute.prefixes=msDS-
match.attribute=workforceID,employeeNumber
generate.deletes=true
`)

	cfg, err := LoadProperties(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"lastLogon", "logonTime", "modifyTimestamp"}, cfg.IgnoreAttributes)
	assert.Equal(t, []string{"msDS-"}, cfg.IgnoreAttributePrefixes)
	assert.Equal(t, "workforceID", cfg.MatchAttributeLeft)
	assert.Equal(t, "employeeNumber", cfg.MatchAttributeRight)
	assert.True(t, cfg.GenerateDeletes)
}

func TestLoadProperties_SingleMatchAttributeUsedForBothSides(t *testing.T) {
	path := writeProperties(t, "match.attribute=workforceID\n")

	cfg, err := LoadProperties(path)
	require.NoError(t, err)
	assert.Equal(t, "workforceID", cfg.MatchAttributeLeft)
	assert.Equal(t, "workforceID", cfg.MatchAttributeRight)
}

func TestLoadProperties_Defaults(t *testing.T) {
	path := writeProperties(t, "ignore.attributes=lastLogon\n")

	cfg, err := LoadProperties(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.MatchAttributeLeft)
	assert.Empty(t, cfg.MatchAttributeRight)
	assert.False(t, cfg.GenerateDeletes)
	assert.Empty(t, cfg.IgnoreAttributePrefixes)
}

func TestLoadProperties_Invalid(t *testing.T) {
	for name, content := range map[string]string{
		"empty right match name":      "match.attribute=workforceID,\n",
		"deletes without matching":    "generate.deletes=true\n",
		"generate-deletes not a bool": "match.attribute=x\ngenerate.deletes=maybe\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadProperties(writeProperties(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadProperties_MissingFile(t *testing.T) {
	_, err := LoadProperties(filepath.Join(t.TempDir(), "nope.properties"))
	assert.Error(t, err)
}
