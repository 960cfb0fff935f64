package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidIdentifier(t *testing.T) {
	cases := map[string]bool{
		"fastc":   true,
		"_fastc":  true,
		"fastc2":  true,
		"":        false,
		"2fastc":  false,
		"fa-stc":  false,
		"fa stc":  false,
	}
	for name, want := range cases {
		assert.Equal(t, want, IsValidIdentifier(name), "name=%q", name)
	}
}

func TestInit_ScaffoldsManifestAndSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init("demo", dir))

	mod, profile, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "demo", mod.Name)
	assert.Equal(t, []string{"src"}, mod.SourceRoots)
	assert.Equal(t, "debug", profile.Name)
	assert.Equal(t, SafetyStandard, profile.SafetyLevel)

	_, err = os.Stat(filepath.Join(dir, "src", "main.fc"))
	assert.NoError(t, err)
}

func TestInit_RejectsInvalidName(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, Init("2bad", dir))
}

func TestInit_RefusesToOverwriteExistingManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init("demo", dir))
	assert.Error(t, Init("demo", dir))
}

func TestLoad_SelectsNamedProfileOverDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init("demo", dir))

	_, profile, err := Load(dir, "release")
	require.NoError(t, err)
	assert.Equal(t, "release", profile.Name)
	assert.Equal(t, SafetyCritical, profile.SafetyLevel)
	assert.True(t, profile.Strict)
}

func TestLoad_UnknownProfileIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init("demo", dir))

	_, _, err := Load(dir, "nonexistent")
	assert.Error(t, err)
}

func TestLoad_MissingManifestIsAnError(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Load(dir, "")
	assert.Error(t, err)
}
