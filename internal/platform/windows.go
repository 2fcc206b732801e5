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

// Windows builds devkits from an MSBuild tree and the prebuilt SDK.
type Windows struct {
	layout Layout
	opts   Options
}

func (w *Windows) Host() Host          { return w.layout.Host }
func (w *Windows) Layout() Layout      { return w.layout }
func (*Windows) ExampleFlavor() string { return "windows" }

func (w *Windows) ResolveToolchain(context.Context) (toolchain.Toolchain, error) {
	s := w.opts.Settings

	msvc, err := toolchain.LocateMSVC(s.MSVCDir)
	if err != nil {
		return toolchain.Toolchain{}, err
	}
	sdk, err := toolchain.LocateWindowsSDK(s.WindowsSDKDir, s.WindowsSDKVersion)
	if err != nil {
		return toolchain.Toolchain{}, err
	}

	w.opts.Logger.Debug("resolved toolchain", "msvc", msvc.Dir, "sdk", sdk.Dir, "sdk_version", sdk.Version)
	return toolchain.Toolchain{
		Host:       w.layout.Host.String(),
		Flavor:     string(w.layout.Flavor),
		MSVC:       msvc,
		WindowsSDK: sdk,
		Exec:       w.opts.Exec,
	}, nil
}

func (*Windows) LibraryFilename(k *kit.Kit) string {
	return k.Name + ".lib"
}

func (w *Windows) Inputs(_ context.Context, _ toolchain.Toolchain, k *kit.Kit) (Inputs, error) {
	features, err := ReadFeatures(w.layout.BuildProps())
	if err != nil {
		return Inputs{}, err
	}

	refs, err := w.opts.Catalog.WindowsClosure(k, features)
	if err != nil {
		return Inputs{}, err
	}

	var in Inputs
	for _, ref := range refs {
		var path string
		if ref.SDK {
			path = w.layout.SDKLib(ref.Path)
		} else {
			path = w.layout.Expand(ref.Path)
		}
		if err := RequireFile("archive", path); err != nil {
			return Inputs{}, err
		}
		in.Archives = append(in.Archives, path)
		in.LinkFlags = append(in.LinkFlags, filepath.Base(path))
	}

	w.opts.Logger.Debug("resolved library closure", "kit", k.Name, "archives", len(in.Archives), "v8", features["v8"])
	return in, nil
}

func (w *Windows) Merger(_ context.Context, tc toolchain.Toolchain, _ string) archive.Strategy {
	host := w.layout.Host.String()
	return archive.LibExe(tc.MSVC.ToolPath(host, "lib.exe"), tc.MSVC.RuntimeDir(), tc.Exec)
}

func (w *Windows) UmbrellaHeader(k *kit.Kit) (string, error) {
	if k.Windows == nil {
		return "", fmt.Errorf("kit %q has no Windows layout", k.Name)
	}
	return w.layout.Expand(k.Windows.Umbrella), nil
}

func (w *Windows) Universe(ctx context.Context, tc toolchain.Toolchain, k *kit.Kit, umbrella string) ([]string, error) {
	args := []string{"/nologo", "/E", umbrella}
	for _, dir := range w.includeDirs(tc, k) {
		args = append(args, "/I"+dir)
	}

	out, err := tc.Run(ctx, toolchain.Command{
		Path: tc.MSVC.ToolPath(w.layout.Host.String(), "cl.exe"),
		Args: args,
		Dir:  tc.MSVC.RuntimeDir(),
	})
	if err != nil {
		return nil, fmt.Errorf("preprocessing %s: %w", umbrella, err)
	}

	return header.ParseLineMarkers(string(out), w.layout.Root), nil
}

func (w *Windows) includeDirs(tc toolchain.Toolchain, k *kit.Kit) []string {
	sdk := w.layout.SDKDir()
	dirs := []string{
		tc.MSVC.IncludeDir(),
		tc.WindowsSDK.UCRTIncludeDir(),
		filepath.Join(sdk, "lib", "glib-2.0", "include"),
		filepath.Join(sdk, "include", "glib-2.0"),
		filepath.Join(sdk, "include", "json-glib-1.0"),
		filepath.Join(sdk, "include", "capstone"),
	}
	if k.Windows != nil {
		for _, dir := range k.Windows.IncludeDirs {
			dirs = append(dirs, w.layout.Expand(dir))
		}
	}
	return dirs
}

func (w *Windows) LinkPragmas(k *kit.Kit) string {
	var deps []string
	if k.Windows != nil {
		deps = slices.Clone(k.Windows.SystemLibs)
	}
	slices.Sort(deps)

	lines := make([]string, 0, len(deps))
	for _, dep := range deps {
		lines = append(lines, pragma(dep+".lib"))
	}
	return pragma(w.LibraryFilename(k)) + "\n\n" + strings.Join(lines, "\n") + "\n\n"
}

func pragma(lib string) string {
	return fmt.Sprintf("#pragma comment(lib, %q)", lib)
}
