package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Flavor selects the full or the thin (single architecture) build.
type Flavor string

const (
	FlavorFull Flavor = ""
	FlavorThin Flavor = "_thin"
)

// FlavorFor returns the flavor for the --thin flag.
func FlavorFor(thin bool) Flavor {
	if thin {
		return FlavorThin
	}
	return FlavorFull
}

// Layout locates upstream artifacts inside a source tree.
type Layout struct {
	Root   string
	Host   Host
	Flavor Flavor
}

// EnvScript is the shell script exporting the host's Unix build environment.
func (l Layout) EnvScript() string {
	return filepath.Join(l.Root, "build", fmt.Sprintf("frida%s-env-%s.rc", l.Flavor, l.Host))
}

// IncludeDir is the install tree's public include directory.
func (l Layout) IncludeDir() string {
	parts := []string{l.Root, "build", fmt.Sprintf("frida%s-%s", l.Flavor, l.Host)}
	if l.Host.OS == "ios" {
		parts = append(parts, "usr")
	}
	return filepath.Join(append(parts, "include")...)
}

// MSBuildConfig names the Visual Studio configuration the host builds with.
func (l Layout) MSBuildConfig() string {
	if l.Host.Arch == "x86_64" {
		return "x64-Release"
	}
	return "Win32-Release"
}

// ArchSuffix distinguishes the per-architecture Windows project outputs.
func (l Layout) ArchSuffix() string {
	if l.Host.Arch == "x86_64" {
		return "-64"
	}
	return "-32"
}

// Expand resolves a catalog path template against the root.
func (l Layout) Expand(template string) string {
	r := strings.NewReplacer("{config}", l.MSBuildConfig(), "{suffix}", l.ArchSuffix())
	return filepath.Join(l.Root, filepath.FromSlash(r.Replace(template)))
}

// SDKDir is the prebuilt Windows SDK for the host's configuration.
func (l Layout) SDKDir() string {
	return filepath.Join(l.Root, "build", "sdk-windows", l.MSBuildConfig())
}

// SDKLib returns the path of an SDK archive.
func (l Layout) SDKLib(name string) string {
	return filepath.Join(l.SDKDir(), "lib", filepath.FromSlash(name))
}

// BuildProps is the MSBuild property sheet holding the build's feature switches.
func (l Layout) BuildProps() string {
	return filepath.Join(l.Root, "releng", "frida.props")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
