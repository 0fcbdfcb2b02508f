// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// fileConfig is the optional on-disk configuration. It provides
// defaults below explicit options and above environment discovery.
type fileConfig struct {
	Socket          string `toml:"socket"`
	Cookie          string `toml:"cookie"`
	DefaultSink     string `toml:"default-sink"`
	ApplicationName string `toml:"application-name"`
}

const configFile = "client.toml"

// readFileConfig loads client.toml from the config directory. A
// missing file is not an error; a malformed one is.
func readFileConfig() (*fileConfig, error) {
	f := filepath.Join(configDir(), configFile)
	ok, err := exists(f)
	if err != nil || !ok {
		return nil, err
	}
	var cfg fileConfig
	if _, err := toml.DecodeFile(f, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configDir() string {
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", filepath.Join(os.Getenv("HOME"), ".config")), "pulsenative")
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func xdgOrFallback(xdg string, fallback string) string {
	dir := os.Getenv(xdg)
	if dir != "" {
		if ok, err := exists(dir); ok && err == nil {
			return dir
		}
	}
	return fallback
}
