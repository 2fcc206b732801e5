package devkit

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/frida-labs/devkit/internal/platform"
)

//go:embed assets
var embeddedAssets embed.FS

// DefaultAssets returns the example templates and project files built into
// the binary.
func DefaultAssets() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// LoadAssets returns the assets in dir, or the built-in ones when dir is empty.
func LoadAssets(dir string) fs.FS {
	if dir == "" {
		return DefaultAssets()
	}
	return os.DirFS(dir)
}

// ExampleTemplate reads the example source for kitName and flavor
// ("unix" or "windows").
func ExampleTemplate(assets fs.FS, kitName, flavor string) (string, error) {
	name := fmt.Sprintf("%s-example-%s.c", kitName, flavor)
	data, err := fs.ReadFile(assets, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &platform.MissingArtifactError{Kind: "example template", Path: name}
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}

// ProjectAssets lists the Visual Studio files shipped with kitName's
// Windows example.
func ProjectAssets(assets fs.FS, kitName string) ([]string, error) {
	var names []string
	for _, pattern := range []string{kitName + "-*.sln", kitName + "-*.vcxproj*"} {
		matches, err := fs.Glob(assets, pattern)
		if err != nil {
			return nil, err
		}
		names = append(names, matches...)
	}
	return names, nil
}

// copyAsset copies one asset into dir under its base name.
func copyAsset(assets fs.FS, name, dir string) (string, error) {
	data, err := fs.ReadFile(assets, name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	base := path.Base(name)
	if err := os.WriteFile(filepath.Join(dir, base), data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", base, err)
	}
	return base, nil
}
