package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefault(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := Default()

	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.HasDir())
	assert.Equal(t, "%N.%S> ", cfg.Prompt)
	assert.Equal(t, 10, cfg.FailAt)
	assert.Equal(t, []string{"C:"}, cfg.DefaultPath)

	_, err := cfg.OpenEventLog()
	assert.ErrorIs(t, err, ErrNoConfigDir)
	_, err = cfg.ScriptsFs()
	assert.ErrorIs(t, err, ErrNoConfigDir)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Configuration)
		field  string
	}{
		"zero fail_at":    {func(c *Configuration) { c.FailAt = 0 }, "fail_at"},
		"port too large":  {func(c *Configuration) { c.SSHPort = 70000 }, "ssh_port"},
		"negative rate":   {func(c *Configuration) { c.SSHOutputRate = -5 }, "ssh_output_rate"},
		"duplicate pass":  {func(c *Configuration) { c.Passwords = []string{"a", "a"} }, "passwords"},
		"prompt too long": {func(c *Configuration) { c.Prompt = strings.Repeat("x", 64) }, "prompt"},
		"path too long":   {func(c *Configuration) { c.DefaultPath = make([]string, 17) }, "default_path"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestLoadFs(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := LoadFs(fs)
	assert.Error(t, err, "missing config")

	require.NoError(t, afero.WriteFile(fs, ConfigurationName, []byte("prompt: \"> \"\nunknown_field: 1\n"), 0644))
	_, err = LoadFs(fs)
	assert.Error(t, err, "unknown fields are rejected")

	require.NoError(t, afero.WriteFile(fs, ConfigurationName, []byte("fail_at: -3\n"), 0644))
	_, err = LoadFs(fs)
	assert.Error(t, err, "invalid values are rejected")

	require.NoError(t, afero.WriteFile(fs, ConfigurationName, []byte("prompt: \"%R> \"\nevent_log: log.jsonl\n"), 0644))
	cfg, err := LoadFs(fs)
	require.NoError(t, err)
	assert.True(t, cfg.HasDir())
	assert.Equal(t, "%R> ", cfg.Prompt)
	assert.Equal(t, 10, cfg.FailAt, "missing fields keep defaults")

	fd, err := cfg.OpenEventLog()
	require.NoError(t, err)
	_, err = fd.WriteString("{}\n")
	assert.NoError(t, err)
	assert.NoError(t, fd.Close())

	contents, err := afero.ReadFile(fs, "log.jsonl")
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(contents))
}
