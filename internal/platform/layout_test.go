package platform

import (
	"path/filepath"
	"testing"
)

func TestLayoutUnixPaths(t *testing.T) {
	l := Layout{Root: "/src/frida", Host: Host{OS: "linux", Arch: "x86_64"}, Flavor: FlavorThin}

	if got, want := l.EnvScript(), "/src/frida/build/frida_thin-env-linux-x86_64.rc"; got != filepath.FromSlash(want) {
		t.Errorf("EnvScript() = %q, want %q", got, want)
	}
	if got, want := l.IncludeDir(), "/src/frida/build/frida_thin-linux-x86_64/include"; got != filepath.FromSlash(want) {
		t.Errorf("IncludeDir() = %q, want %q", got, want)
	}
}

func TestLayoutIOSUsesUsrPrefix(t *testing.T) {
	l := Layout{Root: "/src/frida", Host: Host{OS: "ios", Arch: "arm64"}, Flavor: FlavorFor(false)}

	if got, want := l.IncludeDir(), "/src/frida/build/frida-ios-arm64/usr/include"; got != filepath.FromSlash(want) {
		t.Errorf("IncludeDir() = %q, want %q", got, want)
	}
}

func TestLayoutWindowsPaths(t *testing.T) {
	tests := []struct {
		arch    string
		library string
		sdkLib  string
	}{
		{"x86_64", "/src/frida/build/tmp-windows/x64-Release/gum-64/gum-64.lib", "/src/frida/build/sdk-windows/x64-Release/lib/gio/modules/libgioopenssl.a"},
		{"x86", "/src/frida/build/tmp-windows/Win32-Release/gum-32/gum-32.lib", "/src/frida/build/sdk-windows/Win32-Release/lib/gio/modules/libgioopenssl.a"},
	}
	for _, tt := range tests {
		l := Layout{Root: "/src/frida", Host: Host{OS: "windows", Arch: tt.arch}}

		if got := l.Expand("build/tmp-windows/{config}/gum{suffix}/gum{suffix}.lib"); got != filepath.FromSlash(tt.library) {
			t.Errorf("%s: Expand() = %q, want %q", tt.arch, got, tt.library)
		}
		if got := l.SDKLib("gio/modules/libgioopenssl.a"); got != filepath.FromSlash(tt.sdkLib) {
			t.Errorf("%s: SDKLib() = %q, want %q", tt.arch, got, tt.sdkLib)
		}
	}
}
