package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeUserConfig(t *testing.T, contents string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".vinegraph")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o600))
}

func TestDefaultUserConfig_SeedsDefaultProfile(t *testing.T) {
	cfg := DefaultUserConfig()

	assert.Equal(t, "default", cfg.CurrentProfile)
	_, ok := cfg.Profiles["default"]
	assert.True(t, ok)
	require.NoError(t, cfg.Validate())
}

func TestProfile_Validate(t *testing.T) {
	assert.NoError(t, Profile{}.Validate())
	assert.NoError(t, Profile{Host: "h", Port: 8182, Output: "json"}.Validate())

	err := Profile{Port: 70000}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	err = Profile{Output: "csv"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table or json")
}

func TestLoadUserConfig_RejectsInvalidProfile(t *testing.T) {
	writeUserConfig(t, "current-profile: bad\nprofiles:\n  bad:\n    port: -1\n")

	_, err := LoadUserConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `profile "bad"`)
}

func TestLoadUserConfig_Roundtrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultUserConfig()
	cfg.Profiles["prod"] = Profile{Host: "prod.example.com", Port: 8182, Output: "json"}
	cfg.CurrentProfile = "prod"
	require.NoError(t, SaveUserConfig(cfg))

	loaded, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "prod", loaded.CurrentProfile)
	assert.Equal(t, cfg.Profiles["prod"], loaded.Profiles["prod"])
}

func TestUserConfig_ProfileNamesSorted(t *testing.T) {
	cfg := &UserConfig{Profiles: map[string]Profile{
		"zeta": {}, "alpha": {}, "mid": {},
	}}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, cfg.ProfileNames())
}

func TestRootCmd_BrokenConfigSurfaces(t *testing.T) {
	writeUserConfig(t, "profiles:\n  oops:\n    output: xml\n")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"version"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `profile "oops"`)
}

func TestSetProfileCmd_RejectsInvalidPort(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	cmd.SetArgs([]string{"config", "set-profile", "--name", "bad", "--port", "99999"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}
