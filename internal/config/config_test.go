package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvSource, EnvMountPoint, EnvOneFileSystem, EnvBannedTypes, EnvLogLevel} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	assert.Empty(t, cfg.Source)
	assert.Empty(t, cfg.MountPoint)
	assert.Empty(t, cfg.BannedTypes)
	assert.False(t, cfg.OneFileSystem)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSource, "/data")
	t.Setenv(EnvMountPoint, "/mnt/view")
	t.Setenv(EnvOneFileSystem, "true")
	t.Setenv(EnvBannedTypes, "bc")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg := FromEnv()
	assert.Equal(t, "/data", cfg.Source)
	assert.Equal(t, "/mnt/view", cfg.MountPoint)
	assert.True(t, cfg.OneFileSystem)
	assert.Equal(t, "bc", cfg.BannedTypes)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid",
			cfg:     Config{Source: dir, MountPoint: "/mnt/view"},
			wantErr: false,
		},
		{
			name:    "missing source",
			cfg:     Config{MountPoint: "/mnt/view"},
			wantErr: true,
		},
		{
			name:    "missing mount point",
			cfg:     Config{Source: dir},
			wantErr: true,
		},
		{
			name:    "source does not exist",
			cfg:     Config{Source: filepath.Join(dir, "nope"), MountPoint: "/mnt/view"},
			wantErr: true,
		},
		{
			name:    "source is a file",
			cfg:     Config{Source: file, MountPoint: "/mnt/view"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMissingPathsError(t *testing.T) {
	cfg := Config{}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingPath)
}
