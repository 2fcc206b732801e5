package devkit

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/frida-labs/devkit/internal/platform"
	"github.com/frida-labs/devkit/internal/toolchain"
)

// Check is one line of a toolchain diagnosis.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Diagnosis reports what generating a devkit for a host would use.
type Diagnosis struct {
	Host      platform.Host
	Toolchain toolchain.Toolchain
	Checks    []Check
	Merger    string
	// Isolation is false when symbol renaming would be skipped.
	Isolation bool
}

// OK reports whether every check passed.
func (d *Diagnosis) OK() bool {
	for _, c := range d.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Diagnose resolves the toolchain for hostID and checks that its tools are
// present, without building anything.
func (a *Assembler) Diagnose(ctx context.Context, hostID string, flavor platform.Flavor) (*Diagnosis, error) {
	host, err := platform.ParseHost(hostID, a.Catalog.Hosts)
	if err != nil {
		return nil, err
	}

	p := a.Platform(host, flavor)
	tc, err := p.ResolveToolchain(ctx)
	if err != nil {
		return nil, err
	}

	d := &Diagnosis{Host: host, Toolchain: tc, Isolation: tc.CanIsolate()}
	if host.IsWindows() {
		d.Checks = append(d.Checks,
			fileCheck("cl.exe", tc.MSVC.ToolPath(host.String(), "cl.exe")),
			fileCheck("lib.exe", tc.MSVC.ToolPath(host.String(), "lib.exe")),
			dirCheck("Windows SDK "+tc.WindowsSDK.Version, tc.WindowsSDK.UCRTIncludeDir()),
		)
	} else {
		d.Checks = append(d.Checks,
			toolCheck(toolchain.VarAR, tc.AR),
			toolCheck(toolchain.VarNM, tc.NM),
			toolCheck(toolchain.VarObjcopy, tc.Objcopy),
			toolCheck(toolchain.VarCC, tc.CC),
			toolCheck(toolchain.VarPkgConfig, tc.PkgConfig),
		)
	}

	if d.OK() {
		d.Merger = p.Merger(ctx, tc, "").Name()
	}
	return d, nil
}

func toolCheck(name, command string) Check {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Check{Name: name, Detail: "not set"}
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return Check{Name: name, Detail: fields[0] + " not found"}
	}
	return Check{Name: name, OK: true, Detail: path}
}

func fileCheck(name, path string) Check {
	if err := platform.RequireFile(name, path); err != nil {
		return Check{Name: name, Detail: err.Error()}
	}
	return Check{Name: name, OK: true, Detail: path}
}

func dirCheck(name, path string) Check {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return Check{Name: name, Detail: path + " not found"}
	}
	return Check{Name: name, OK: true, Detail: path}
}
