package devkit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/frida-labs/devkit/internal/archive"
	"github.com/frida-labs/devkit/internal/config"
	"github.com/frida-labs/devkit/internal/header"
	"github.com/frida-labs/devkit/internal/kit"
	"github.com/frida-labs/devkit/internal/platform"
	"github.com/frida-labs/devkit/internal/symbols"
	"github.com/frida-labs/devkit/internal/toolchain"
)

// Request names the devkit to generate.
type Request struct {
	Kit    string
	Host   string
	Flavor platform.Flavor
	OutDir string
}

// Result describes a generated devkit. File names are relative to OutDir.
type Result struct {
	OutDir  string
	Header  string
	Library string
	Example string
	// Extras are additional project files shipped with the example.
	Extras []string

	Merger string
	// Isolated is false when the host lacks the tools to rename symbols.
	Isolated bool
	Mappings []symbols.Mapping
	Public   []symbols.Mapping
}

// Files returns every generated file name, header first.
func (r *Result) Files() []string {
	return append([]string{r.Header, r.Library, r.Example}, r.Extras...)
}

// Assembler generates devkits.
type Assembler struct {
	Catalog  *kit.Catalog
	Settings config.Settings
	Assets   fs.FS
	Exec     toolchain.Executor
	Logger   *log.Logger
}

// New returns an assembler using the system executor and the configured
// example assets.
func New(catalog *kit.Catalog, settings config.Settings, logger *log.Logger) *Assembler {
	return &Assembler{
		Catalog:  catalog,
		Settings: settings,
		Assets:   LoadAssets(settings.AssetsDir),
		Exec:     &toolchain.SystemExecutor{Logger: logger},
		Logger:   logger,
	}
}

func (a *Assembler) logger() *log.Logger {
	if a.Logger == nil {
		return log.Default()
	}
	return a.Logger
}

// Target resolves the kit and host of a request, rejecting anything the
// catalog does not support.
func (a *Assembler) Target(kitName, hostID string) (*kit.Kit, platform.Host, error) {
	k, err := a.Catalog.Lookup(kitName)
	if err != nil {
		return nil, platform.Host{}, err
	}
	host, err := platform.ParseHost(hostID, a.Catalog.Hosts)
	if err != nil {
		return nil, platform.Host{}, err
	}
	if host.IsWindows() && k.Windows == nil {
		return nil, platform.Host{}, fmt.Errorf("%w: %s has no Windows build", kit.ErrUnsupportedKit, k.Name)
	}
	return k, host, nil
}

// Platform returns the platform for host.
func (a *Assembler) Platform(host platform.Host, flavor platform.Flavor) platform.Platform {
	return platform.New(host, flavor, platform.Options{
		Settings: a.Settings,
		Catalog:  a.Catalog,
		Exec:     a.Exec,
		Logger:   a.Logger,
	})
}

// Policy returns the catalog's symbol isolation policy.
func (a *Assembler) Policy() symbols.Policy {
	s := a.Catalog.Symbols
	return symbols.Policy{
		RenamePrefix:   s.RenamePrefix,
		OwnPrefixes:    s.OwnPrefixes,
		PublicPrefixes: s.PublicPrefixes,
	}
}

// Generate builds the devkit described by req into req.OutDir. Nothing is
// written to OutDir unless every step succeeds.
func (a *Assembler) Generate(ctx context.Context, req Request) (*Result, error) {
	k, host, err := a.Target(req.Kit, req.Host)
	if err != nil {
		return nil, err
	}

	outDir, err := filepath.Abs(req.OutDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	stage, err := os.MkdirTemp(outDir, ".devkit-stage-")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(stage)

	logger := a.logger().With("kit", k.Name, "host", host.String())
	p := a.Platform(host, req.Flavor)

	tc, err := p.ResolveToolchain(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving toolchain: %w", err)
	}

	result := &Result{
		OutDir:  outDir,
		Header:  k.Name + ".h",
		Library: p.LibraryFilename(k),
		Example: k.Name + "-example.c",
	}

	in, err := p.Inputs(ctx, tc, k)
	if err != nil {
		return nil, fmt.Errorf("resolving libraries: %w", err)
	}

	libPath := filepath.Join(stage, result.Library)
	merger := p.Merger(ctx, tc, stage)
	result.Merger = merger.Name()
	if err := archive.Merge(ctx, merger, in.Archives, libPath); err != nil {
		return nil, err
	}
	logger.Info("merged archives", "count", len(in.Archives), "strategy", merger.Name())

	if err := a.isolate(ctx, logger, tc, libPath, result); err != nil {
		return nil, err
	}

	umbrella, err := p.UmbrellaHeader(k)
	if err != nil {
		return nil, err
	}
	if err := platform.RequireFile("umbrella header", umbrella); err != nil {
		return nil, err
	}

	body, err := a.flatten(ctx, p, tc, k, umbrella)
	if err != nil {
		return nil, err
	}

	text := ComposeHeader(body, HeaderParts{
		StaticDefines: k.StaticDefines,
		LinkPragmas:   p.LinkPragmas(k),
		Renamed:       len(result.Mappings) > 0,
		Public:        result.Public,
		Guard:         a.Catalog.Symbols.MappingsGuard,
	})
	if err := os.WriteFile(filepath.Join(stage, result.Header), []byte(text), 0644); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	if err := a.writeExample(p, tc, k, in, stage, result); err != nil {
		return nil, err
	}

	if err := commit(stage, outDir, result.Files()); err != nil {
		return nil, err
	}
	logger.Info("generated devkit", "dir", outDir, "files", strings.Join(result.Files(), ", "))
	return result, nil
}

func (a *Assembler) isolate(ctx context.Context, logger *log.Logger, tc toolchain.Toolchain, libPath string, result *Result) error {
	if !tc.CanIsolate() {
		logger.Warn("symbol isolation skipped: toolchain has no nm/objcopy; third-party symbols keep their names")
		return nil
	}

	policy := a.Policy()
	mappings, err := symbols.Isolate(ctx, tc.Exec, tc.NM, tc.Objcopy, libPath, policy)
	if err != nil {
		return err
	}
	result.Isolated = true
	result.Mappings = mappings
	result.Public = policy.Public(mappings)
	logger.Info("isolated third-party symbols", "renamed", len(mappings), "public", len(result.Public))
	return nil
}

func (a *Assembler) flatten(ctx context.Context, p platform.Platform, tc toolchain.Toolchain, k *kit.Kit, umbrella string) (string, error) {
	universe, err := p.Universe(ctx, tc, k, umbrella)
	if err != nil {
		return "", err
	}

	var extras []string
	for _, extra := range k.ExtraHeaders {
		if !extra.AppliesTo(p.Host().OS) {
			continue
		}
		path := filepath.Join(filepath.Dir(umbrella), extra.Name)
		if err := platform.RequireFile("extra header", path); err != nil {
			return "", err
		}
		extras = append(extras, path)
	}

	f := &header.Flattener{Universe: universe}
	body, err := f.Flatten(umbrella, extras...)
	if err != nil {
		return "", fmt.Errorf("flattening %s: %w", umbrella, err)
	}
	return body, nil
}

func (a *Assembler) writeExample(p platform.Platform, tc toolchain.Toolchain, k *kit.Kit, in platform.Inputs, stage string, result *Result) error {
	template, err := ExampleTemplate(a.Assets, k.Name, p.ExampleFlavor())
	if err != nil {
		return err
	}

	example := template
	if p.ExampleFlavor() == "unix" {
		ldflags := strings.TrimSpace(strings.Join(in.LinkFlags, " ") + " " + tc.LDFlags)
		cflags, ldflags := TweakFlags(tc.CFlags, ldflags)
		example = UnixExample(ExampleBuild{
			CC:          p.Host().CompilerName(),
			CFlags:      cflags,
			LDFlags:     ldflags,
			Source:      result.Example,
			LibraryName: k.Name,
		}, template)
	} else {
		assets, err := ProjectAssets(a.Assets, k.Name)
		if err != nil {
			return err
		}
		for _, name := range assets {
			base, err := copyAsset(a.Assets, name, stage)
			if err != nil {
				return err
			}
			result.Extras = append(result.Extras, base)
		}
	}

	if err := os.WriteFile(filepath.Join(stage, result.Example), []byte(example), 0644); err != nil {
		return fmt.Errorf("writing example: %w", err)
	}
	return nil
}

// commit moves the staged files into outDir. Files they replace are set
// aside in the stage first and put back if any move fails, so outDir holds
// either the previous outputs or the complete new set.
func commit(stage, outDir string, names []string) (err error) {
	previous, err := os.MkdirTemp(stage, "previous-")
	if err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}

	var saved, installed []string
	defer func() {
		if err == nil {
			return
		}
		for _, name := range installed {
			os.Remove(filepath.Join(outDir, name))
		}
		for _, name := range saved {
			os.Rename(filepath.Join(previous, name), filepath.Join(outDir, name))
		}
	}()

	for _, name := range names {
		dst := filepath.Join(outDir, name)
		if _, statErr := os.Lstat(dst); statErr == nil {
			if err = os.Rename(dst, filepath.Join(previous, name)); err != nil {
				return fmt.Errorf("replacing %s: %w", name, err)
			}
			saved = append(saved, name)
		}
		if err = os.Rename(filepath.Join(stage, name), dst); err != nil {
			return fmt.Errorf("installing %s: %w", name, err)
		}
		installed = append(installed, name)
	}
	return nil
}

// IsMissingArtifact reports whether err is caused by a missing upstream input.
func IsMissingArtifact(err error) bool {
	var missing *platform.MissingArtifactError
	return errors.As(err, &missing)
}
