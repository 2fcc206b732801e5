package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/frida-labs/devkit/internal/archive"
	"github.com/frida-labs/devkit/internal/header"
	"github.com/frida-labs/devkit/internal/kit"
	"github.com/frida-labs/devkit/internal/toolchain"
)

// Unix builds devkits from an autotools/meson style install tree.
type Unix struct {
	layout Layout
	opts   Options
}

func (u *Unix) Host() Host          { return u.layout.Host }
func (u *Unix) Layout() Layout      { return u.layout }
func (*Unix) ExampleFlavor() string { return "unix" }

func (u *Unix) ResolveToolchain(ctx context.Context) (toolchain.Toolchain, error) {
	path := u.layout.EnvScript()
	if err := RequireFile("environment script", path); err != nil {
		return toolchain.Toolchain{}, err
	}

	tc, err := toolchain.ProbeUnix(ctx, u.layout.Host.String(), string(u.layout.Flavor), toolchain.EnvScript{Path: path}, u.opts.Exec)
	if err != nil {
		return toolchain.Toolchain{}, fmt.Errorf("probing %s: %w", path, err)
	}
	if tc.AR == "" {
		return toolchain.Toolchain{}, fmt.Errorf("%s does not define %s", path, toolchain.VarAR)
	}

	u.opts.Logger.Debug("resolved toolchain", "ar", tc.AR, "nm", tc.NM, "objcopy", tc.Objcopy, "cc", tc.CC)
	return tc, nil
}

func (*Unix) LibraryFilename(k *kit.Kit) string {
	return "lib" + k.Name + ".a"
}

func (u *Unix) Inputs(ctx context.Context, tc toolchain.Toolchain, k *kit.Kit) (Inputs, error) {
	out, err := tc.Env.Capture(ctx, "$"+toolchain.VarPkgConfig+" --static --libs "+k.Package)
	if err != nil {
		return Inputs{}, fmt.Errorf("querying libraries of %s: %w", k.Package, err)
	}

	parsed := ParseLinkFlags(out)
	archives, unresolved := ResolveLibraries(parsed.Names, parsed.Dirs)
	own := "-l" + k.Package
	if slices.Contains(unresolved, own) || !slices.Contains(parsed.Names, k.Package) {
		return Inputs{}, &MissingArtifactError{Kind: "archive", Path: ownArchivePath(k.Package, parsed.Dirs)}
	}
	archives = append(archives, cxxRuntimeArchives(archives)...)

	flags := append(unresolved, parsed.LinkerFlags...)
	u.opts.Logger.Debug("resolved library closure", "package", k.Package, "archives", len(archives), "flags", flags)
	return Inputs{Archives: archives, LinkFlags: flags}, nil
}

func (u *Unix) Merger(ctx context.Context, tc toolchain.Toolchain, tempDir string) archive.Strategy {
	switch {
	case archive.SupportsMRI(ctx, tc.Exec, tc.AR):
		return &archive.MRI{AR: tc.AR, Exec: tc.Exec}
	case u.layout.Host.IsApple():
		return archive.Libtool(tc.Exec)
	default:
		return &archive.Repack{AR: tc.AR, Exec: tc.Exec, TempDir: tempDir}
	}
}

func (u *Unix) UmbrellaHeader(k *kit.Kit) (string, error) {
	return filepath.Join(append([]string{u.layout.IncludeDir()}, k.Umbrella...)...), nil
}

func (u *Unix) Universe(ctx context.Context, tc toolchain.Toolchain, k *kit.Kit, umbrella string) ([]string, error) {
	quoted, err := toolchain.Quote(umbrella)
	if err != nil {
		return nil, err
	}

	command := fmt.Sprintf("$%s $%s -E -M $($%s --cflags %s) %s",
		toolchain.VarCC, toolchain.VarCFlags, toolchain.VarPkgConfig, k.Package, quoted)
	out, err := tc.Env.Capture(ctx, command)
	if err != nil {
		return nil, fmt.Errorf("listing headers of %s: %w", umbrella, err)
	}

	return header.UnderRoot(header.ParseMakeRule(out), u.layout.Root), nil
}

func (*Unix) LinkPragmas(*kit.Kit) string {
	return ""
}

// LinkFlags is pkg-config's --libs output split by meaning.
type LinkFlags struct {
	Dirs        []string
	Names       []string
	LinkerFlags []string
}

// ParseLinkFlags splits `pkg-config --static --libs` output into library
// directories, library names and the -Wl,... and -pthread flags.
func ParseLinkFlags(out string) LinkFlags {
	var parsed LinkFlags
	for _, flag := range strings.Fields(out) {
		switch {
		case strings.HasPrefix(flag, "-L"):
			parsed.Dirs = append(parsed.Dirs, flag[2:])
		case strings.HasPrefix(flag, "-l"):
			parsed.Names = append(parsed.Names, flag[2:])
		case strings.HasPrefix(flag, "-Wl"), flag == "-pthread":
			parsed.LinkerFlags = append(parsed.LinkerFlags, flag)
		}
	}
	return parsed
}

// ResolveLibraries maps each name to the first dirs entry holding
// lib<name>.a. Names without a static archive come back as -l flags.
func ResolveLibraries(names, dirs []string) (paths []string, unresolved []string) {
	for _, name := range names {
		found := ""
		for _, dir := range dirs {
			candidate := filepath.Join(dir, "lib"+name+".a")
			if fileExists(candidate) {
				found = candidate
				break
			}
		}
		if found == "" {
			unresolved = append(unresolved, "-l"+name)
			continue
		}
		paths = append(paths, found)
	}
	return header.Deduplicate(paths), unresolved
}

// ownArchivePath is where the package's own archive was expected.
func ownArchivePath(pkg string, dirs []string) string {
	name := "lib" + pkg + ".a"
	if len(dirs) == 0 {
		return name
	}
	return filepath.Join(dirs[0], name)
}

// cxxRuntimeArchives returns the C++ runtime archives shipped next to V8,
// which it needs but pkg-config does not list.
func cxxRuntimeArchives(archives []string) []string {
	for _, path := range archives {
		if strings.HasPrefix(filepath.Base(path), "libv8") {
			matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "c++", "*.a"))
			return matches
		}
	}
	return nil
}
