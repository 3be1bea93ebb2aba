package config

import (
	"crypto/subtle"
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	LogsDirName       = "session_logs"
	PrivateKeyName    = "private_key"
	AppLogName        = "app.log"
)

type Configuration struct {
	configFs afero.Fs
	dir      string

	Prompt            string            `json:"prompt" validate:"required"`
	HistoryFile       string            `json:"history_file"`
	Echo              bool              `json:"echo"`
	Color             bool              `json:"color"`
	PipeRateLimit     int64             `json:"pipe_rate_limit" validate:"gte=0"`
	ImportEnvironment bool              `json:"import_environment"`
	Variables         map[string]string `json:"variables" validate:"dive,keys,required,endkeys"`
	Startup           []string          `json:"startup"`
	RootFs            string            `json:"root_fs"`

	SSHPort          int      `json:"ssh_port" validate:"gte=0,lte=65535"`
	SSHBanner        string   `json:"ssh_banner"`
	SSHPasswords     []string `json:"ssh_passwords" validate:"unique"`
	AllowAnyPassword bool     `json:"allow_any_password"`
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

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewMemMapFs()
	}
	return c.configFs
}

// Dir returns the directory the configuration was loaded from, it's empty
// for the built-in defaults.
func (c *Configuration) Dir() string {
	return c.dir
}

// HistoryPath returns the absolute path of the console history or empty if
// history shouldn't be saved.
func (c *Configuration) HistoryPath() string {
	switch {
	case c.HistoryFile == "", c.dir == "" && !filepath.IsAbs(c.HistoryFile):
		return ""
	case filepath.IsAbs(c.HistoryFile):
		return c.HistoryFile
	default:
		return filepath.Join(c.dir, c.HistoryFile)
	}
}

// SortedVariables returns the configured variables as KEY=value pairs in a
// stable order.
func (c *Configuration) SortedVariables() []string {
	var out []string
	for k, v := range c.Variables {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// CreateSessionLog creates a transcript file with the given name.
func (c *Configuration) CreateSessionLog(name string) (afero.File, error) {
	if err := c.fs().MkdirAll(LogsDirName, 0700); err != nil {
		return nil, err
	}
	toCreate := filepath.Join(LogsDirName, name)
	return c.fs().Create(toCreate)
}

// OpenRootFs opens the tarball sessions use as their filesystem. It returns
// os.ErrNotExist if none is configured.
func (c *Configuration) OpenRootFs() (afero.File, error) {
	if c.RootFs == "" {
		return nil, os.ErrNotExist
	}
	if filepath.IsAbs(c.RootFs) {
		return afero.NewOsFs().Open(c.RootFs)
	}
	return c.fs().Open(c.RootFs)
}

// PrivateKeyPem returns the bytes of the private key.
func (c *Configuration) PrivateKeyPem() ([]byte, error) {
	return afero.ReadFile(c.fs(), PrivateKeyName)
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_RDONLY, 0600)
}

// PasswordAllowed checks a remote console login.
func (c *Configuration) PasswordAllowed(password string) bool {
	if c.AllowAnyPassword {
		return true
	}
	allowed := false
	for _, p := range c.SSHPasswords {
		if subtle.ConstantTimeCompare([]byte(p), []byte(password)) == 1 {
			allowed = true
		}
	}
	return allowed
}

// Default returns the built-in configuration backed by an in-memory
// filesystem.
func Default() *Configuration {
	return defaultConfig()
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	out.configFs = afero.NewMemMapFs()
	return &out
}
