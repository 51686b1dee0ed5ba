// Package config holds the dosh configuration directory: config.yaml, the SSH
// host key, startup scripts and the event log.
package config

import (
	_ "embed"
	"errors"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	gossh "golang.org/x/crypto/ssh"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte

	//go:embed default/Startup-Sequence
	defaultStartupSequence []byte
)

const (
	ConfigurationName = "config.yaml"
	PrivateKeyName    = "private_key"
	// ScriptsDirName is the directory assigned to S:.
	ScriptsDirName = "s"
	StartupName    = "Startup-Sequence"
)

// ErrNoConfigDir is returned when the configuration isn't backed by a
// directory.
var ErrNoConfigDir = errors.New("configuration has no directory")

type Configuration struct {
	configFs afero.Fs

	Prompt          string   `json:"prompt" validate:"max=63"`
	FailAt          int      `json:"fail_at" validate:"gte=1"`
	DefaultPath     []string `json:"default_path" validate:"max=16"`
	StartupSequence string   `json:"startup_sequence"`
	Banner          string   `json:"banner"`
	EventLog        string   `json:"event_log"`

	SSHPort       int      `json:"ssh_port" validate:"gte=0,lte=65535"`
	SSHRoot       string   `json:"ssh_root" validate:"required"`
	SSHOutputRate int64    `json:"ssh_output_rate" validate:"gte=0"`
	Passwords     []string `json:"passwords" validate:"unique"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() (afero.Fs, error) {
	if c.configFs == nil {
		return nil, ErrNoConfigDir
	}
	return c.configFs, nil
}

// HasDir is true if the configuration was loaded from a directory.
func (c *Configuration) HasDir() bool {
	return c.configFs != nil
}

// PrivateKeyPem returns the bytes of the private key.
func (c *Configuration) PrivateKeyPem() ([]byte, error) {
	fs, err := c.fs()
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(fs, PrivateKeyName)
}

// HostSigner parses the SSH host key.
func (c *Configuration) HostSigner() (gossh.Signer, error) {
	keyPem, err := c.PrivateKeyPem()
	if err != nil {
		return nil, err
	}
	return gossh.ParsePrivateKey(keyPem)
}

// ScriptsFs returns the directory assigned to S:.
func (c *Configuration) ScriptsFs() (afero.Fs, error) {
	fs, err := c.fs()
	if err != nil {
		return nil, err
	}
	return afero.NewBasePathFs(fs, ScriptsDirName), nil
}

// SSHRootFs returns the directory served to SSH sessions.
func (c *Configuration) SSHRootFs() (afero.Fs, error) {
	fs, err := c.fs()
	if err != nil {
		return nil, err
	}
	return afero.NewBasePathFs(fs, c.SSHRoot), nil
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	fs, err := c.fs()
	if err != nil {
		return nil, err
	}
	if c.EventLog == "" {
		return nil, os.ErrNotExist
	}
	return fs.OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	fs, err := c.fs()
	if err != nil {
		return nil, err
	}
	if c.EventLog == "" {
		return nil, os.ErrNotExist
	}
	return fs.Open(c.EventLog)
}

// GetPasswords returns the passwords accepted for SSH logins.
func (c *Configuration) GetPasswords() []string {
	out := make([]string, len(c.Passwords))
	copy(out, c.Passwords)
	return out
}

// Default returns the built-in configuration, it isn't backed by a directory.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
