package clientcli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libris-io/libris/clientcli"
)

func TestConfigFile_ProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := &clientcli.ConfigFile{}
	require.NoError(t, cfg.AddProfile(clientcli.Profile{
		Name:     "local",
		Endpoint: "http://localhost:3042",
		Email:    "ada@example.com",
		Token:    "saved-token",
		Default:  true,
	}))
	require.NoError(t, cfg.AddProfile(clientcli.Profile{
		Name:     "prod",
		Endpoint: "https://libris.example.com",
	}))

	require.NoError(t, cfg.Save(path))

	loaded, err := clientcli.LoadConfigFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Profiles, 2)

	p, err := loaded.GetProfile("local")
	require.NoError(t, err)
	assert.Equal(t, "saved-token", p.Token)
	assert.Equal(t, "ada@example.com", p.Email)
}

func TestConfigFile_AddDuplicate(t *testing.T) {
	cfg := &clientcli.ConfigFile{}
	require.NoError(t, cfg.AddProfile(clientcli.Profile{Name: "local"}))

	err := cfg.AddProfile(clientcli.Profile{Name: "local"})
	assert.ErrorIs(t, err, clientcli.ErrProfileExists)
}

func TestConfigFile_GetDefaultProfile(t *testing.T) {
	cfg := &clientcli.ConfigFile{
		Profiles: []clientcli.Profile{
			{Name: "a", Endpoint: "http://a"},
			{Name: "b", Endpoint: "http://b", Default: true},
		},
	}

	p, err := cfg.GetDefaultProfile()
	require.NoError(t, err)
	assert.Equal(t, "b", p.Name)

	// Empty name resolves through the default
	p, err = cfg.GetProfile("")
	require.NoError(t, err)
	assert.Equal(t, "b", p.Name)
}

func TestConfigFile_GetDefaultProfile_FallsBackToFirst(t *testing.T) {
	cfg := &clientcli.ConfigFile{
		Profiles: []clientcli.Profile{
			{Name: "a"},
			{Name: "b"},
		},
	}

	p, err := cfg.GetDefaultProfile()
	require.NoError(t, err)
	assert.Equal(t, "a", p.Name)
}

func TestConfigFile_SetDefault(t *testing.T) {
	cfg := &clientcli.ConfigFile{
		Profiles: []clientcli.Profile{
			{Name: "a", Default: true},
			{Name: "b"},
		},
	}

	require.NoError(t, cfg.SetDefault("b"))
	assert.False(t, cfg.Profiles[0].Default)
	assert.True(t, cfg.Profiles[1].Default)

	assert.ErrorIs(t, cfg.SetDefault("missing"), clientcli.ErrProfileNotFound)
}

func TestConfigFile_RemoveProfile(t *testing.T) {
	cfg := &clientcli.ConfigFile{
		Profiles: []clientcli.Profile{{Name: "a"}, {Name: "b"}},
	}

	require.NoError(t, cfg.RemoveProfile("a"))
	assert.Equal(t, []string{"b"}, cfg.ProfileNames())

	assert.ErrorIs(t, cfg.RemoveProfile("a"), clientcli.ErrProfileNotFound)
}

func TestConfigFile_Empty(t *testing.T) {
	cfg := &clientcli.ConfigFile{}

	_, err := cfg.GetProfile("any")
	assert.ErrorIs(t, err, clientcli.ErrNoProfiles)
}

func TestMergeConfig(t *testing.T) {
	fileCfg := &clientcli.Config{Endpoint: "http://file", Token: "file-token"}
	envCfg := &clientcli.Config{Token: "env-token"}
	flagCfg := &clientcli.Config{Endpoint: "http://flag"}

	merged := clientcli.MergeConfig(fileCfg, envCfg, flagCfg)
	assert.Equal(t, "http://flag", merged.Endpoint)
	assert.Equal(t, "env-token", merged.Token)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LIBRIS_ENDPOINT", "http://env:3042")
	t.Setenv("LIBRIS_TOKEN", "env-token")

	cfg := clientcli.ConfigFromEnv()
	assert.Equal(t, "http://env:3042", cfg.Endpoint)
	assert.Equal(t, "env-token", cfg.Token)
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := (&clientcli.Config{}).WithDefaults()
	assert.Equal(t, clientcli.DefaultEndpoint, cfg.Endpoint)

	cfg = (&clientcli.Config{Endpoint: "http://custom"}).WithDefaults()
	assert.Equal(t, "http://custom", cfg.Endpoint)
}

func TestConfigFile_SavedWithRestrictivePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := &clientcli.ConfigFile{Profiles: []clientcli.Profile{{Name: "local", Token: "secret"}}}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
