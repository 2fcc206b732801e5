package devkit

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/frida-labs/devkit/internal/branding"
	"github.com/frida-labs/devkit/internal/header"
)

// ExampleBuild is what the example's compile command is made of.
type ExampleBuild struct {
	CC          string
	CFlags      string
	LDFlags     string
	Source      string
	LibraryName string
}

// Program is the executable name the example builds to.
func (b ExampleBuild) Program() string {
	return strings.TrimSuffix(b.Source, filepath.Ext(b.Source))
}

// UnixExample prefixes template with a comment showing how to compile it
// against the devkit.
func UnixExample(b ExampleBuild, template string) string {
	preamble := fmt.Sprintf(`/*
 * Compile with:
 *
 * %s %s %s -o %s -L. -l%s %s
 *
 * Visit %s to learn more about Frida.
 */`, b.CC, b.CFlags, b.Source, b.Program(), b.LibraryName, b.LDFlags, branding.Website())
	return preamble + "\n\n" + template
}

// TweakFlags turns the build environment's compiler and linker flags into
// ones a devkit consumer can use. Forced includes and duplicates are dropped
// from cflags. From ldflags, flags already present in cflags, library
// search paths and repeated libraries are dropped, an Apple sysroot becomes
// an xcrun lookup, and consecutive -Wl, flags are merged into one.
func TweakFlags(cflags, ldflags string) (string, string) {
	var compile []string
	pending := strings.Fields(cflags)
	for i := 0; i < len(pending); i++ {
		if pending[i] == "-include" {
			i++
			continue
		}
		compile = append(compile, pending[i])
	}
	compile = header.Deduplicate(compile)

	existing := make(map[string]bool, len(compile))
	for _, flag := range compile {
		existing[flag] = true
	}

	var link []string
	seen := make(map[string]bool)
	pending = strings.Fields(ldflags)
	for i := 0; i < len(pending); i++ {
		flag := pending[i]
		if (flag == "-arch" || flag == "-isysroot") && existing[flag] {
			i++
			continue
		}

		switch {
		case flag == "-isysroot":
			i++
			if i < len(pending) {
				if sdk := appleSDK(pending[i]); sdk != "" {
					link = append(link, fmt.Sprintf(`-isysroot "$(xcrun --sdk %s --show-sdk-path)"`, sdk))
				}
			}
			continue
		case flag == "-L":
			i++
			continue
		case strings.HasPrefix(flag, "-L"):
			continue
		case strings.HasPrefix(flag, "-l"), flag == "-pthread":
			if seen[flag] {
				continue
			}
			seen[flag] = true
		}
		link = append(link, flag)
	}

	var merged []string
	for i := 0; i < len(link); {
		var raw []string
		for i < len(link) && strings.HasPrefix(link[i], "-Wl,") {
			raw = append(raw, strings.TrimPrefix(link[i], "-Wl,"))
			i++
		}
		if len(raw) > 0 {
			flag := "-Wl," + strings.Join(raw, ",")
			if strings.Contains(flag, "--icf=") {
				merged = append(merged, "-fuse-ld=gold")
			}
			merged = append(merged, flag)
		}

		if i < len(link) {
			if !existing[link[i]] {
				merged = append(merged, link[i])
			}
			i++
		}
	}

	return strings.Join(compile, " "), strings.Join(merged, " ")
}

func appleSDK(sysroot string) string {
	switch {
	case strings.Contains(sysroot, "MacOSX"):
		return "macosx"
	case strings.Contains(sysroot, "iPhoneOS"):
		return "iphoneos"
	}
	return ""
}
