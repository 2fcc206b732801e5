package devkit

import (
	"context"
	"errors"
	"testing"

	"github.com/frida-labs/devkit/internal/platform"
	"github.com/frida-labs/devkit/internal/toolchain"
)

func TestDiagnoseUnix(t *testing.T) {
	f := newFixture(t, true)

	d, err := f.asm.Diagnose(context.Background(), "linux-x86_64", platform.FlavorFull)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}

	if !d.Isolation {
		t.Error("expected isolation to be available")
	}
	checks := make(map[string]Check)
	for _, c := range d.Checks {
		checks[c.Name] = c
	}
	if len(checks) != 5 {
		t.Fatalf("checks = %+v", d.Checks)
	}
	// The fixture's compiler is a shell function, not a program on PATH.
	if cc := checks[toolchain.VarCC]; cc.OK || cc.Detail != "fake_cc not found" {
		t.Errorf("CC check = %+v", cc)
	}
	if d.OK() || d.Merger != "" {
		t.Errorf("incomplete toolchain reported as usable: %+v", d)
	}
}

func TestDiagnoseDegraded(t *testing.T) {
	f := newFixture(t, false)

	d, err := f.asm.Diagnose(context.Background(), "linux-x86_64", platform.FlavorFull)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if d.Isolation {
		t.Error("isolation reported without objcopy")
	}
	for _, c := range d.Checks {
		if c.Name == toolchain.VarObjcopy && (c.OK || c.Detail != "not set") {
			t.Errorf("OBJCOPY check = %+v", c)
		}
	}
}

func TestDiagnoseUnknownHost(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.asm.Diagnose(context.Background(), "plan9-x86", platform.FlavorFull)
	if !errors.Is(err, platform.ErrUnsupportedHost) {
		t.Errorf("err = %v, want ErrUnsupportedHost", err)
	}
}
