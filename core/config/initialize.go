package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	gossh "golang.org/x/crypto/ssh"
)

// Initialize writes a default configuration into dir and loads it. Existing
// files are left alone.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	fs := afero.NewBasePathFs(afero.NewOsFs(), abs)
	if err := InitializeFs(fs, logger); err != nil {
		return nil, err
	}

	logger.Printf("Configuration written to %s\n", filepath.Join(abs, ConfigurationName))
	return LoadFs(fs)
}

// InitializeFs writes a default configuration to the root of fs.
func InitializeFs(fs afero.Fs, logger *log.Logger) error {
	if err := writeIfMissing(fs, logger, ConfigurationName, defaultConfigData, 0644); err != nil {
		return err
	}

	if ok, err := afero.Exists(fs, PrivateKeyName); err != nil {
		return err
	} else if ok {
		logger.Printf("%s already exists, skipping\n", PrivateKeyName)
	} else {
		logger.Println("Generating host key...")
		keyPem, err := newPrivateKeyPem()
		if err != nil {
			return err
		}
		if err := afero.WriteFile(fs, PrivateKeyName, keyPem, 0600); err != nil {
			return err
		}
	}

	if err := fs.MkdirAll(ScriptsDirName, 0755); err != nil {
		return err
	}
	startup := filepath.Join(ScriptsDirName, StartupName)
	if err := writeIfMissing(fs, logger, startup, defaultStartupSequence, 0644); err != nil {
		return err
	}

	return fs.MkdirAll(Default().SSHRoot, 0755)
}

func writeIfMissing(fs afero.Fs, logger *log.Logger, name string, data []byte, perm os.FileMode) error {
	ok, err := afero.Exists(fs, name)
	switch {
	case err != nil:
		return err
	case ok:
		logger.Printf("%s already exists, skipping\n", name)
		return nil
	}

	logger.Printf("Writing %s\n", name)
	return afero.WriteFile(fs, name, data, perm)
}

func newPrivateKeyPem() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	block, err := gossh.MarshalPrivateKey(priv, "dosh host key")
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(block), nil
}
