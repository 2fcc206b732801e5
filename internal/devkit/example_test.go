package devkit

import (
	"strings"
	"testing"
)

func TestTweakFlagsApple(t *testing.T) {
	sdk := "/Applications/Xcode.app/Contents/Developer/Platforms/MacOSX.platform/Developer/SDKs/MacOSX.sdk"
	cflags := "-arch arm64 -isysroot " + sdk + " -include config.h -Os -Os"
	ldflags := "-arch arm64 -isysroot " + sdk + " -L/build/lib -L /sdk/lib -lglib-2.0 -lglib-2.0 -pthread -pthread " +
		"-Wl,-dead_strip -Wl,--icf=all -Os -lresolv"

	gotC, gotL := TweakFlags(cflags, ldflags)

	if want := "-arch arm64 -isysroot " + sdk + " -Os"; gotC != want {
		t.Errorf("cflags = %q, want %q", gotC, want)
	}
	if want := "-lglib-2.0 -pthread -fuse-ld=gold -Wl,-dead_strip,--icf=all -lresolv"; gotL != want {
		t.Errorf("ldflags = %q, want %q", gotL, want)
	}
}

func TestTweakFlagsRewritesSysroot(t *testing.T) {
	tests := []struct {
		sysroot string
		want    string
	}{
		{"/SDKs/iPhoneOS16.0.sdk", `-isysroot "$(xcrun --sdk iphoneos --show-sdk-path)" -lz`},
		{"/SDKs/MacOSX13.sdk", `-isysroot "$(xcrun --sdk macosx --show-sdk-path)" -lz`},
		{"/opt/sysroot", "-lz"},
	}
	for _, tt := range tests {
		_, got := TweakFlags("-Os", "-isysroot "+tt.sysroot+" -lz")
		if got != tt.want {
			t.Errorf("sysroot %s: ldflags = %q, want %q", tt.sysroot, got, tt.want)
		}
	}
}

func TestTweakFlagsMergesWlRuns(t *testing.T) {
	_, got := TweakFlags("", "-Wl,--gc-sections -Wl,-z,noexecstack -ldl -Wl,--as-needed")

	if want := "-Wl,--gc-sections,-z,noexecstack -ldl -Wl,--as-needed"; got != want {
		t.Errorf("ldflags = %q, want %q", got, want)
	}
}

func TestUnixExample(t *testing.T) {
	got := UnixExample(ExampleBuild{
		CC:          "clang",
		CFlags:      "-Os",
		LDFlags:     "-ldl -pthread",
		Source:      "frida-core-example.c",
		LibraryName: "frida-core",
	}, "int main (void) { return 0; }\n")

	want := "/*\n" +
		" * Compile with:\n" +
		" *\n" +
		" * clang -Os frida-core-example.c -o frida-core-example -L. -lfrida-core -ldl -pthread\n" +
		" *\n" +
		" * Visit https://frida.re to learn more about Frida.\n" +
		" */\n\n" +
		"int main (void) { return 0; }\n"
	if got != want {
		t.Errorf("UnixExample =\n%s\nwant\n%s", got, want)
	}
}

func TestExampleTemplates(t *testing.T) {
	assets := DefaultAssets()
	for _, kitName := range []string{"frida-gum", "frida-gumjs", "frida-core"} {
		for _, flavor := range []string{"unix", "windows"} {
			text, err := ExampleTemplate(assets, kitName, flavor)
			if err != nil {
				t.Fatalf("ExampleTemplate(%s, %s): %v", kitName, flavor, err)
			}
			if !strings.Contains(text, `#include "`+kitName+`.h"`) {
				t.Errorf("%s-%s template does not include the devkit header", kitName, flavor)
			}
		}

		names, err := ProjectAssets(assets, kitName)
		if err != nil {
			t.Fatal(err)
		}
		if len(names) != 3 {
			t.Errorf("ProjectAssets(%s) = %v, want .sln, .vcxproj and .vcxproj.filters", kitName, names)
		}
	}
}

func TestExampleTemplateMissing(t *testing.T) {
	_, err := ExampleTemplate(DefaultAssets(), "frida-nope", "unix")
	if !IsMissingArtifact(err) {
		t.Errorf("expected missing artifact error, got %v", err)
	}
}
