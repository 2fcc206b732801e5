package devkit

import (
	"context"
	"fmt"

	"github.com/frida-labs/devkit/internal/platform"
	"github.com/frida-labs/devkit/internal/symbols"
)

// PlanIsolation lists the renames isolating archivePath would apply with
// the host's nm, without modifying the archive.
func (a *Assembler) PlanIsolation(ctx context.Context, archivePath, hostID string, flavor platform.Flavor) ([]symbols.Mapping, error) {
	host, err := platform.ParseHost(hostID, a.Catalog.Hosts)
	if err != nil {
		return nil, err
	}
	if err := platform.RequireFile("archive", archivePath); err != nil {
		return nil, err
	}

	tc, err := a.Platform(host, flavor).ResolveToolchain(ctx)
	if err != nil {
		return nil, err
	}
	if tc.NM == "" {
		return nil, fmt.Errorf("toolchain for %s has no nm", host)
	}

	records, err := symbols.List(ctx, tc.Exec, tc.NM, archivePath)
	if err != nil {
		return nil, err
	}
	return a.Policy().Plan(records), nil
}
