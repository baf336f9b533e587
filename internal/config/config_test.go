package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), conf)
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, "port: 9090\nauthToken: sekrit\nerrorCorrection: advanced\n")
	conf, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, conf.Port)
	require.Equal(t, "sekrit", conf.AuthToken)
	require.Equal(t, "advanced", conf.ErrorCorrection)
	require.Equal(t, "0.0.0.0", conf.Host)
	require.Equal(t, 480, conf.BaseLength)
	require.Equal(t, "0.0.0.0:9090", conf.Addr())
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeConfig(t, "errorCorrection: maximum\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "port: 70000\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "port: [nope\n"))
	require.Error(t, err)
}
