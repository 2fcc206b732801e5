package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MSVC is an installed Visual C++ toolset, e.g.
// C:\Program Files\Microsoft Visual Studio\2022\Community\VC\Tools\MSVC\14.38.33130.
type MSVC struct {
	Dir string
}

// WindowsSDK is an installed Windows 10+ SDK.
type WindowsSDK struct {
	Dir     string
	Version string
}

// msvcInstallGlobs are searched when no toolset is configured.
var msvcInstallGlobs = []string{
	`C:\Program Files\Microsoft Visual Studio\*\*\VC\Tools\MSVC\*`,
	`C:\Program Files (x86)\Microsoft Visual Studio\*\*\VC\Tools\MSVC\*`,
}

const defaultWindowsSDKDir = `C:\Program Files (x86)\Windows Kits\10`

// ToolPath returns the path of an x86-hosted MSVC tool targeting host.
func (m *MSVC) ToolPath(host, tool string) string {
	return filepath.Join(m.Dir, "bin", "HostX86", targetArch(host), tool)
}

// RuntimeDir is the working directory MSVC tools are run from so they find
// their DLLs.
func (m *MSVC) RuntimeDir() string {
	return filepath.Join(m.Dir, "bin", "HostX86", "x86")
}

// IncludeDir returns the toolset's C runtime include directory.
func (m *MSVC) IncludeDir() string {
	return filepath.Join(m.Dir, "include")
}

// UCRTIncludeDir returns the SDK's universal C runtime include directory.
func (s *WindowsSDK) UCRTIncludeDir() string {
	return filepath.Join(s.Dir, "Include", s.Version, "ucrt")
}

func targetArch(host string) string {
	if host == "windows-x86_64" {
		return "x64"
	}
	return "x86"
}

// LocateMSVC returns the configured toolset, then VCToolsInstallDir, then
// the highest installed version found under the standard install locations.
func LocateMSVC(configured string) (*MSVC, error) {
	if configured != "" {
		return &MSVC{Dir: configured}, nil
	}
	if dir := os.Getenv("VCToolsInstallDir"); dir != "" {
		return &MSVC{Dir: strings.TrimRight(dir, `\/`)}, nil
	}

	var candidates []string
	for _, pattern := range msvcInstallGlobs {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", pattern, err)
		}
		candidates = append(candidates, matches...)
	}

	dir, err := HighestVersionDir(candidates)
	if err != nil {
		return nil, fmt.Errorf("locating MSVC: %w", err)
	}
	return &MSVC{Dir: dir}, nil
}

// LocateWindowsSDK returns the configured SDK, then the one announced by
// WindowsSdkDir/WindowsSDKVersion, then the highest version installed in
// the default location.
func LocateWindowsSDK(configuredDir, configuredVersion string) (*WindowsSDK, error) {
	dir := configuredDir
	version := configuredVersion
	if dir == "" {
		dir = strings.TrimRight(os.Getenv("WindowsSdkDir"), `\/`)
	}
	if version == "" {
		version = strings.TrimRight(os.Getenv("WindowsSDKVersion"), `\/`)
	}
	if dir == "" {
		dir = defaultWindowsSDKDir
	}

	if version == "" {
		entries, err := filepath.Glob(filepath.Join(dir, "Include", "*"))
		if err != nil {
			return nil, fmt.Errorf("searching Windows SDK versions: %w", err)
		}
		highest, err := HighestVersionDir(entries)
		if err != nil {
			return nil, fmt.Errorf("locating Windows SDK in %s: %w", dir, err)
		}
		version = filepath.Base(highest)
	}

	return &WindowsSDK{Dir: dir, Version: version}, nil
}

type versionedDir struct {
	path     string
	version  *semver.Version
	revision int
}

// HighestVersionDir returns the directory whose base name is the highest
// version. Names may carry a fourth component (10.0.22621.0), which breaks
// ties between equal major.minor.patch. Names that are not versions are ignored.
func HighestVersionDir(dirs []string) (string, error) {
	var parsed []versionedDir
	for _, dir := range dirs {
		v, rev, ok := parseToolVersion(filepath.Base(dir))
		if !ok {
			continue
		}
		parsed = append(parsed, versionedDir{path: dir, version: v, revision: rev})
	}
	if len(parsed) == 0 {
		return "", fmt.Errorf("no versioned directory among %d candidates", len(dirs))
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		if c := parsed[i].version.Compare(parsed[j].version); c != 0 {
			return c > 0
		}
		return parsed[i].revision > parsed[j].revision
	})
	return parsed[0].path, nil
}

func parseToolVersion(name string) (*semver.Version, int, bool) {
	parts := strings.Split(name, ".")
	rev := 0
	if len(parts) == 4 {
		n, err := strconv.Atoi(parts[3])
		if err != nil {
			return nil, 0, false
		}
		rev = n
		parts = parts[:3]
	}
	v, err := semver.StrictNewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil, 0, false
	}
	return v, rev, true
}
