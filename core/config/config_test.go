package config

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
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

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := defaultConfig()
	assert.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.HistoryPath())
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Configuration){
		"missing-prompt": func(c *Configuration) { c.Prompt = "" },
		"negative-rate":  func(c *Configuration) { c.PipeRateLimit = -1 },
		"bad-port":       func(c *Configuration) { c.SSHPort = 70000 },
		"dupe-passwords": func(c *Configuration) { c.SSHPasswords = []string{"a", "a"} },
		"empty-variable": func(c *Configuration) { c.Variables = map[string]string{"": "x"} },
	}

	for tn, mutate := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPasswordAllowed(t *testing.T) {
	cfg := defaultConfig()
	cfg.SSHPasswords = []string{"secret"}

	assert.True(t, cfg.PasswordAllowed("secret"))
	assert.False(t, cfg.PasswordAllowed("guess"))

	cfg.AllowAnyPassword = true
	assert.True(t, cfg.PasswordAllowed("guess"))
}

func TestSortedVariables(t *testing.T) {
	cfg := defaultConfig()
	cfg.Variables = map[string]string{"b": "2", "a": "1=1"}

	assert.Equal(t, []string{"a=1=1", "b=2"}, cfg.SortedVariables())
}

func TestOpenRootFs(t *testing.T) {
	cfg := defaultConfig()

	_, err := cfg.OpenRootFs()
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.NoError(t, afero.WriteFile(cfg.fs(), "rootfs.tar", []byte("tar"), 0600))
	cfg.RootFs = "rootfs.tar"

	fd, err := cfg.OpenRootFs()
	assert.NoError(t, err)
	defer fd.Close()
	contents, err := afero.ReadAll(fd)
	assert.NoError(t, err)
	assert.Equal(t, "tar", string(contents))
}
