// Package config decodes typed configuration groups from the process
// environment, optionally seeded from a .env file first.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const defaultEnvFile = ".env"

var (
	envFilePath string
	seedOnce    sync.Once
	seedErr     error
)

// MustNew panics when the environment cannot satisfy the group T.
// Startup is the only place misconfiguration is allowed to be fatal.
func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(fmt.Sprintf("config %q: %v", prefix, err))
	}
	return conf
}

// New seeds the environment from the -env file (or ./.env when present)
// exactly once per process, then decodes the group tagged with prefix.
func New[T any](prefix string) (*T, error) {
	seedOnce.Do(func() { seedErr = seedEnvironment() })
	if seedErr != nil {
		return nil, fmt.Errorf("seed environment: %w", seedErr)
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func seedEnvironment() error {
	path := resolveEnvPath()
	if path == "" {
		switch info, err := os.Stat(defaultEnvFile); {
		case errors.Is(err, os.ErrNotExist):
			return nil
		case err != nil:
			return err
		case info.IsDir():
			return nil
		}
		path = defaultEnvFile
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	for k, v := range viper.AllSettings() {
		if err := os.Setenv(strings.ToUpper(k), fmt.Sprint(v)); err != nil {
			return err
		}
	}
	return nil
}

func resolveEnvPath() string {
	if flag.Lookup("env") == nil {
		flag.StringVar(&envFilePath, "env", "", "path to an env file exported before decoding")
	}
	if !flag.Parsed() {
		flag.Parse()
	}
	return strings.TrimSpace(envFilePath)
}
