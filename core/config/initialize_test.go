package config

import (
	"io/ioutil"
	"log"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	if _, err := Initialize(tempDir, log.New(ioutil.Discard, "", 0)); err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	cfg, err := Load(filepath.Join(tempDir, ConfigurationName))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("HostSigner", func(t *testing.T) {
		signer, err := cfg.HostSigner()
		require.NoError(t, err)
		assert.Equal(t, "ssh-ed25519", signer.PublicKey().Type())
	})

	t.Run("ScriptsFs", func(t *testing.T) {
		scripts, err := cfg.ScriptsFs()
		require.NoError(t, err)

		contents, err := afero.ReadFile(scripts, StartupName)
		require.NoError(t, err)
		assert.Equal(t, defaultStartupSequence, contents)
	})

	t.Run("SSHRootFs", func(t *testing.T) {
		root, err := cfg.SSHRootFs()
		require.NoError(t, err)

		ok, err := afero.DirExists(root, "/")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("OpenEventLog", func(t *testing.T) {
		fd, err := cfg.OpenEventLog()
		assert.Nil(t, err)
		fd.Close()

		fd, err = cfg.ReadEventLog()
		assert.Nil(t, err)
		fd.Close()
	})
}

func TestInitializeFs_keepsExistingFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := log.New(ioutil.Discard, "", 0)

	require.NoError(t, InitializeFs(fs, logger))
	key, err := afero.ReadFile(fs, PrivateKeyName)
	require.NoError(t, err)

	custom := []byte("prompt: \"> \"\n")
	require.NoError(t, afero.WriteFile(fs, ConfigurationName, custom, 0644))

	require.NoError(t, InitializeFs(fs, logger))

	gotKey, err := afero.ReadFile(fs, PrivateKeyName)
	require.NoError(t, err)
	assert.Equal(t, key, gotKey, "host key regenerated")

	gotConfig, err := afero.ReadFile(fs, ConfigurationName)
	require.NoError(t, err)
	assert.Equal(t, custom, gotConfig)
}
