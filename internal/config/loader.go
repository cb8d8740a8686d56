package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// PathEnv names the config file when no explicit path is given.
	PathEnv = "CONFIG_PATH"
	// DefaultPath is optional: when it does not exist only ENV and
	// env-default tags apply.
	DefaultPath = "./config.yaml"
)

// Load is LoadFrom with the path taken from CONFIG_PATH.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(PathEnv))
}

// LoadFrom reads path (YAML) and then the environment, which wins. An empty
// path falls back to DefaultPath. A named file that does not exist is an
// error. The result is validated.
func LoadFrom(path string) (*Config, error) {
	file, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if file != "" {
		err = cleanenv.ReadConfig(file, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", describeSource(file), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// resolvePath returns the file to read, or "" for environment only.
func resolvePath(path string) (string, error) {
	if path == "" {
		if _, err := os.Stat(DefaultPath); errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return DefaultPath, nil
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("config: file %s: %w", path, err)
	}
	return path, nil
}

func describeSource(file string) string {
	if file == "" {
		return "env"
	}
	return file
}

// WriteUsage lists every environment variable with its default and
// description.
func WriteUsage(w io.Writer) {
	var cfg Config
	header := "Environment variables (override " + DefaultPath + "):"
	cleanenv.FUsage(w, &cfg, &header)()
}
