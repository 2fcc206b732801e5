package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/frida-labs/devkit/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyRoot              = "root"
	KeyAssetsDir         = "assets_dir"
	KeyCatalog           = "catalog"
	KeyLogLevel          = "log_level"
	KeyMSVCDir           = "msvc_dir"
	KeyWindowsSDKDir     = "windows_sdk_dir"
	KeyWindowsSDKVersion = "windows_sdk_version"
)

// Keys lists every key accepted by `devkit config set`.
var Keys = []string{
	KeyRoot,
	KeyAssetsDir,
	KeyCatalog,
	KeyLogLevel,
	KeyMSVCDir,
	KeyWindowsSDKDir,
	KeyWindowsSDKVersion,
}

// Settings is the resolved configuration for one invocation.
type Settings struct {
	// Root is the source tree whose build/ directory holds the upstream artifacts.
	Root string
	// AssetsDir overrides the embedded example templates when set.
	AssetsDir string
	// Catalog overrides the embedded kit catalog when set.
	Catalog  string
	LogLevel string

	MSVCDir           string
	WindowsSDKDir     string
	WindowsSDKVersion string
}

// Dir returns the path to the devkit config directory (~/.devkit/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.devkit/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	viper.SetDefault(KeyLogLevel, "info")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Resolve snapshots the loaded configuration into Settings. A relative or
// empty root is resolved against the current working directory.
func Resolve() (Settings, error) {
	s := Settings{
		Root:              viper.GetString(KeyRoot),
		AssetsDir:         viper.GetString(KeyAssetsDir),
		Catalog:           viper.GetString(KeyCatalog),
		LogLevel:          viper.GetString(KeyLogLevel),
		MSVCDir:           viper.GetString(KeyMSVCDir),
		WindowsSDKDir:     viper.GetString(KeyWindowsSDKDir),
		WindowsSDKVersion: viper.GetString(KeyWindowsSDKVersion),
	}

	if s.Root == "" {
		s.Root = "."
	}
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return Settings{}, fmt.Errorf("resolving root %s: %w", s.Root, err)
	}
	s.Root = root

	return s, nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
