package platform

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/frida-labs/devkit/internal/archive"
	"github.com/frida-labs/devkit/internal/config"
	"github.com/frida-labs/devkit/internal/kit"
	"github.com/frida-labs/devkit/internal/toolchain"
)

// Inputs is a kit's link closure: the archives merged into the devkit
// library and the flags a consumer still needs to link against it.
type Inputs struct {
	Archives  []string
	LinkFlags []string
}

// Platform is the host-specific half of devkit generation.
type Platform interface {
	Host() Host
	Layout() Layout
	// ResolveToolchain locates the tools used for the host.
	ResolveToolchain(ctx context.Context) (toolchain.Toolchain, error)
	// LibraryFilename is the devkit library's file name.
	LibraryFilename(k *kit.Kit) string
	// Inputs resolves the ordered archive closure of k.
	Inputs(ctx context.Context, tc toolchain.Toolchain, k *kit.Kit) (Inputs, error)
	// Merger picks the archive merge strategy for the toolchain.
	Merger(ctx context.Context, tc toolchain.Toolchain, tempDir string) archive.Strategy
	// UmbrellaHeader is the path of k's top-level public header.
	UmbrellaHeader(k *kit.Kit) (string, error)
	// Universe lists every header file reachable from umbrella.
	Universe(ctx context.Context, tc toolchain.Toolchain, k *kit.Kit, umbrella string) ([]string, error)
	// LinkPragmas returns header lines that make the compiler pull in the
	// devkit library and its system dependencies, if the host supports that.
	LinkPragmas(k *kit.Kit) string
	// ExampleFlavor selects the example template, "unix" or "windows".
	ExampleFlavor() string
}

// Options carries what every platform needs besides the host.
type Options struct {
	Settings config.Settings
	Catalog  *kit.Catalog
	Exec     toolchain.Executor
	Logger   *log.Logger
}

// New returns the platform for host.
func New(host Host, flavor Flavor, opts Options) Platform {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	layout := Layout{Root: opts.Settings.Root, Host: host, Flavor: flavor}
	if host.IsWindows() {
		return &Windows{layout: layout, opts: opts}
	}
	return &Unix{layout: layout, opts: opts}
}
