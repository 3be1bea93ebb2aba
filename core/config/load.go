package config

import (
	"log"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	out, err := LoadFs(afero.NewBasePathFs(afero.NewOsFs(), abs))
	if err != nil {
		return nil, err
	}
	out.dir = abs
	return out, nil
}

// LoadFs loads the configuration from the root of a filesystem.
func LoadFs(configFs afero.Fs) (*Configuration, error) {
	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}

	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", ConfigurationName)
	}
	if err := out.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", ConfigurationName)
	}

	out.configFs = configFs
	return &out, nil
}

// Initialize writes a default configuration to dir, files that already
// exist are left alone.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	configFs := afero.NewBasePathFs(afero.NewOsFs(), dir)
	if err := initializeFs(configFs, logger); err != nil {
		return nil, err
	}
	return Load(dir)
}

func initializeFs(configFs afero.Fs, logger *log.Logger) error {
	if err := configFs.MkdirAll(LogsDirName, 0700); err != nil {
		return err
	}

	if err := writeIfMissing(configFs, ConfigurationName, defaultConfigData, logger); err != nil {
		return err
	}

	keyPem, err := GeneratePrivateKeyPem()
	if err != nil {
		return err
	}
	return writeIfMissing(configFs, PrivateKeyName, keyPem, logger)
}

func writeIfMissing(configFs afero.Fs, name string, data []byte, logger *log.Logger) error {
	exists, err := afero.Exists(configFs, name)
	switch {
	case err != nil:
		return err
	case exists:
		logger.Printf("%s already exists, skipping", name)
		return nil
	}

	logger.Printf("writing %s", name)
	return afero.WriteFile(configFs, name, data, 0600)
}
