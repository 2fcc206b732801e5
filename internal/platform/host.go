package platform

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/frida-labs/devkit/internal/kit"
)

// ErrUnsupportedHost is returned for host identifiers outside the catalog.
var ErrUnsupportedHost = errors.New("unsupported host")

// Host is a target identifier such as "linux-x86_64" or "ios-arm64e".
type Host struct {
	OS   string
	Arch string
}

// ParseHost splits id into its operating system and architecture and
// checks both against spec.
func ParseHost(id string, spec kit.HostSpec) (Host, error) {
	osName, arch, ok := strings.Cut(id, "-")
	if !ok || osName == "" || arch == "" {
		return Host{}, fmt.Errorf("%w: %q is not <os>-<arch>", ErrUnsupportedHost, id)
	}
	if !slices.Contains(spec.OS, osName) {
		return Host{}, fmt.Errorf("%w: unknown operating system %q in %q", ErrUnsupportedHost, osName, id)
	}
	if !slices.Contains(spec.Arch, arch) {
		return Host{}, fmt.Errorf("%w: unknown architecture %q in %q", ErrUnsupportedHost, arch, id)
	}
	return Host{OS: osName, Arch: arch}, nil
}

func (h Host) String() string {
	return h.OS + "-" + h.Arch
}

// IsWindows reports whether the host is built with MSVC.
func (h Host) IsWindows() bool {
	return h.OS == "windows"
}

// IsApple reports whether the host is built with an Xcode toolchain.
func (h Host) IsApple() bool {
	return h.OS == "macos" || h.OS == "ios"
}

// CompilerName is the compiler suggested in the example's build command.
func (h Host) CompilerName() string {
	switch h.OS {
	case "macos", "ios", "android":
		return "clang"
	}
	return "gcc"
}
