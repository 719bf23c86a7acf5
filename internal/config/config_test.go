package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallek/depad/internal/config"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	conf, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), conf)
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "ciphertextFile: /tmp/lab.txt\nthreshold: 0.85\nworkers: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	conf, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lab.txt", conf.CiphertextFile)
	assert.Equal(t, 0.85, conf.Threshold)
	assert.Equal(t, 2, conf.Workers)
	// Unset fields keep defaults.
	assert.Equal(t, config.Defaults().SessionDir, conf.SessionDir)
	assert.Equal(t, config.Defaults().MinimumFreeMB, conf.MinimumFreeMB)
}

func TestLoadRejectsBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
