package platform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/frida-labs/devkit/internal/config"
	"github.com/frida-labs/devkit/internal/kit"
	"github.com/frida-labs/devkit/internal/toolchain"
)

type fakeExec struct {
	outputs map[string]string
	calls   []toolchain.Command
}

func (f *fakeExec) Run(_ context.Context, cmd toolchain.Command) ([]byte, error) {
	f.calls = append(f.calls, cmd)
	return []byte(f.outputs[filepath.Base(cmd.Path)]), nil
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("!<arch>\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func lookupKit(t *testing.T, name string) (*kit.Catalog, *kit.Kit) {
	t.Helper()
	cat, err := kit.Default()
	if err != nil {
		t.Fatal(err)
	}
	k, err := cat.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return cat, k
}

func newUnix(t *testing.T, root string, host Host, exec toolchain.Executor) *Unix {
	t.Helper()
	cat, _ := lookupKit(t, "frida-gum")
	p := New(host, FlavorFull, Options{
		Settings: config.Settings{Root: root},
		Catalog:  cat,
		Exec:     exec,
		Logger:   log.New(os.Stderr),
	})
	u, ok := p.(*Unix)
	if !ok {
		t.Fatalf("New(%s) = %T, want *Unix", host, p)
	}
	return u
}

// writeEnv writes a build environment script whose tools are shell
// functions, so sourcing it needs nothing from the system.
func writeEnv(t *testing.T, root string, host Host, body string) {
	t.Helper()
	path := Layout{Root: root, Host: host}.EnvScript()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParseLinkFlags(t *testing.T) {
	parsed := ParseLinkFlags("-L/sdk/lib -L/build/lib -lfrida-gum-1.0 -lglib-2.0 -pthread -Wl,--export-dynamic -lm -ldl -O2\n")

	want := LinkFlags{
		Dirs:        []string{"/sdk/lib", "/build/lib"},
		Names:       []string{"frida-gum-1.0", "glib-2.0", "m", "dl"},
		LinkerFlags: []string{"-pthread", "-Wl,--export-dynamic"},
	}
	if !reflect.DeepEqual(parsed, want) {
		t.Errorf("ParseLinkFlags =\n%+v\nwant\n%+v", parsed, want)
	}
}

func TestResolveLibraries(t *testing.T) {
	tmp := t.TempDir()
	first := filepath.Join(tmp, "first")
	second := filepath.Join(tmp, "second")
	touch(t, filepath.Join(first, "libglib-2.0.a"))
	touch(t, filepath.Join(second, "libglib-2.0.a"))
	touch(t, filepath.Join(second, "libffi.a"))

	paths, unresolved := ResolveLibraries([]string{"glib-2.0", "ffi", "m", "glib-2.0"}, []string{first, second})

	wantPaths := []string{filepath.Join(first, "libglib-2.0.a"), filepath.Join(second, "libffi.a")}
	if !reflect.DeepEqual(paths, wantPaths) {
		t.Errorf("paths = %v, want %v", paths, wantPaths)
	}
	if !reflect.DeepEqual(unresolved, []string{"-lm"}) {
		t.Errorf("unresolved = %v, want [-lm]", unresolved)
	}
}

func TestCxxRuntimeArchives(t *testing.T) {
	tmp := t.TempDir()
	v8 := filepath.Join(tmp, "libv8-10.0.a")
	touch(t, v8)
	touch(t, filepath.Join(tmp, "c++", "libc++.a"))
	touch(t, filepath.Join(tmp, "c++", "libc++abi.a"))

	got := cxxRuntimeArchives([]string{filepath.Join(tmp, "libglib-2.0.a"), v8})

	want := []string{filepath.Join(tmp, "c++", "libc++.a"), filepath.Join(tmp, "c++", "libc++abi.a")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cxxRuntimeArchives = %v, want %v", got, want)
	}
	if extra := cxxRuntimeArchives([]string{filepath.Join(tmp, "libglib-2.0.a")}); extra != nil {
		t.Errorf("expected no runtime archives without V8, got %v", extra)
	}
}

func TestUnixResolveToolchainMissingEnv(t *testing.T) {
	u := newUnix(t, t.TempDir(), Host{OS: "linux", Arch: "x86_64"}, &fakeExec{})

	_, err := u.ResolveToolchain(context.Background())
	var missing *MissingArtifactError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingArtifactError, got %v", err)
	}
}

func TestUnixInputsAndUniverse(t *testing.T) {
	root := t.TempDir()
	host := Host{OS: "linux", Arch: "x86_64"}
	lib := filepath.Join(root, "build", "frida-linux-x86_64", "lib")
	touch(t, filepath.Join(lib, "libfrida-gum-1.0.a"))
	touch(t, filepath.Join(lib, "libglib-2.0.a"))

	include := Layout{Root: root, Host: host}.IncludeDir()
	umbrella := filepath.Join(include, "frida-1.0", "gum", "gum.h")

	writeEnv(t, root, host, strings.NewReplacer("@LIB@", lib, "@INC@", include).Replace(`
fake_pkg_config() {
  if [ "$1" = "--cflags" ]; then
    echo "-I@INC@/frida-1.0"
  else
    echo "-L@LIB@ -lfrida-gum-1.0 -lglib-2.0 -lm -pthread -Wl,--gc-sections"
  fi
}
fake_cc() {
  printf '%s\n' "gum.o: $5 \\" "  @INC@/frida-1.0/gum/gumdefs.h /usr/include/stdio.h"
}
AR=ar
NM=nm
OBJCOPY=objcopy
CC=fake_cc
CFLAGS=-Os
LDFLAGS=-Wl,--gc-sections
PKG_CONFIG=fake_pkg_config
`))

	u := newUnix(t, root, host, &fakeExec{})
	_, k := lookupKit(t, "frida-gum")
	ctx := context.Background()

	tc, err := u.ResolveToolchain(ctx)
	if err != nil {
		t.Fatalf("ResolveToolchain: %v", err)
	}
	if tc.AR != "ar" || tc.CC != "fake_cc" || !tc.CanIsolate() {
		t.Errorf("toolchain = %+v", tc)
	}

	in, err := u.Inputs(ctx, tc, k)
	if err != nil {
		t.Fatalf("Inputs: %v", err)
	}
	wantArchives := []string{filepath.Join(lib, "libfrida-gum-1.0.a"), filepath.Join(lib, "libglib-2.0.a")}
	if !reflect.DeepEqual(in.Archives, wantArchives) {
		t.Errorf("Archives = %v, want %v", in.Archives, wantArchives)
	}
	if !reflect.DeepEqual(in.LinkFlags, []string{"-lm", "-pthread", "-Wl,--gc-sections"}) {
		t.Errorf("LinkFlags = %v", in.LinkFlags)
	}

	got, err := u.UmbrellaHeader(k)
	if err != nil || got != umbrella {
		t.Fatalf("UmbrellaHeader = %q, %v; want %q", got, err, umbrella)
	}

	universe, err := u.Universe(ctx, tc, k, umbrella)
	if err != nil {
		t.Fatalf("Universe: %v", err)
	}
	wantUniverse := []string{umbrella, filepath.Join(include, "frida-1.0", "gum", "gumdefs.h")}
	if !reflect.DeepEqual(universe, wantUniverse) {
		t.Errorf("Universe = %v, want %v", universe, wantUniverse)
	}
}

func TestUnixInputsMissingOwnArchive(t *testing.T) {
	root := t.TempDir()
	host := Host{OS: "linux", Arch: "x86_64"}
	lib := filepath.Join(root, "build", "frida-linux-x86_64", "lib")
	touch(t, filepath.Join(lib, "libglib-2.0.a"))

	writeEnv(t, root, host, strings.ReplaceAll(`
fake_pkg_config() {
  echo "-L@LIB@ -lfrida-gum-1.0 -lglib-2.0"
}
AR=ar
PKG_CONFIG=fake_pkg_config
`, "@LIB@", lib))

	u := newUnix(t, root, host, &fakeExec{})
	_, k := lookupKit(t, "frida-gum")
	ctx := context.Background()
	tc, err := u.ResolveToolchain(ctx)
	if err != nil {
		t.Fatalf("ResolveToolchain: %v", err)
	}

	in, err := u.Inputs(ctx, tc, k)
	var missing *MissingArtifactError
	if !errors.As(err, &missing) {
		t.Fatalf("Inputs = %+v, %v; want MissingArtifactError", in, err)
	}
	if want := filepath.Join(lib, "libfrida-gum-1.0.a"); missing.Kind != "archive" || missing.Path != want {
		t.Errorf("missing = %+v, want archive %s", missing, want)
	}
}

func TestUnixMerger(t *testing.T) {
	ctx := context.Background()
	tc := toolchain.Toolchain{AR: "ar"}

	tests := []struct {
		name string
		host Host
		help string
		want string
	}{
		{"mri", Host{OS: "linux", Arch: "x86_64"}, "  -M [<mri-script]  - process an MRI script", "ar -M"},
		{"libtool", Host{OS: "macos", Arch: "arm64"}, "usage: ar -d [-TLsv] archive file ...", "xcrun"},
		{"repack", Host{OS: "android", Arch: "arm64"}, "usage: ar", "ar x/rcs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExec{outputs: map[string]string{"ar": tt.help}}
			tc.Exec = exec
			u := newUnix(t, t.TempDir(), tt.host, exec)

			s := u.Merger(ctx, tc, "")
			if s.Name() != tt.want {
				t.Errorf("Merger = %s, want %s", s.Name(), tt.want)
			}
		})
	}
}

func TestUnixLibraryAndPragmas(t *testing.T) {
	u := newUnix(t, t.TempDir(), Host{OS: "linux", Arch: "x86"}, &fakeExec{})
	_, k := lookupKit(t, "frida-core")

	if got := u.LibraryFilename(k); got != "libfrida-core.a" {
		t.Errorf("LibraryFilename = %q", got)
	}
	if got := u.LinkPragmas(k); got != "" {
		t.Errorf("LinkPragmas = %q, want empty", got)
	}
	if got := u.ExampleFlavor(); got != "unix" {
		t.Errorf("ExampleFlavor = %q", got)
	}
}
