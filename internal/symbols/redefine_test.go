package symbols

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/frida-labs/devkit/internal/toolchain"
)

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}

func TestRenamesFile(t *testing.T) {
	got := RenamesFile([]Mapping{
		{Original: "g_free", Renamed: "_frida_g_free"},
		{Original: "inflate", Renamed: "_frida_inflate"},
	})
	want := "g_free _frida_g_free\ninflate _frida_inflate\n"
	if got != want {
		t.Errorf("RenamesFile = %q, want %q", got, want)
	}
}

func TestRedefineEmptyMappingSkipsObjcopy(t *testing.T) {
	tools := &fakeTools{}

	if err := Redefine(context.Background(), tools, "objcopy", "/out/lib.a", nil); err != nil {
		t.Fatalf("Redefine: %v", err)
	}
	if len(tools.calls) != 0 {
		t.Errorf("expected no tool calls, got %v", tools.calls)
	}
}

func TestIsolate(t *testing.T) {
	tools := &fakeTools{nmOutput: sampleNM}

	mappings, err := Isolate(context.Background(), tools, "nm", "objcopy", "/out/libfrida-gum.a", testPolicy)
	if err != nil {
		t.Fatalf("Isolate: %v", err)
	}

	want := "g_object_new _frida_g_object_new\n" +
		"g_param_spec_types _frida_g_param_spec_types\n" +
		"json_node_count _frida_json_node_count\n"
	if tools.renames != want {
		t.Errorf("renames file = %q, want %q", tools.renames, want)
	}
	if len(mappings) != 3 {
		t.Errorf("len(mappings) = %d, want 3", len(mappings))
	}

	last := tools.calls[len(tools.calls)-1]
	if last.Path != "objcopy" || last.Args[1] != "/out/libfrida-gum.a" {
		t.Errorf("objcopy call = %v", last)
	}
}

func TestIsolateToolFailure(t *testing.T) {
	tools := &fakeTools{nmOutput: sampleNM, failOn: "objcopy"}

	_, err := Isolate(context.Background(), tools, "nm", "objcopy", "/out/libfrida-gum.a", testPolicy)
	var toolErr *toolchain.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if toolErr.Tool != "objcopy" {
		t.Errorf("Tool = %q", toolErr.Tool)
	}
}
