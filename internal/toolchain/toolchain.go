package toolchain

import "context"

// Toolchain is the resolved set of tools for one target host. It is an
// immutable value: resolve it once and pass it along.
type Toolchain struct {
	Host   string
	Flavor string

	// Env is the build environment script on Unix hosts.
	Env EnvScript

	AR        string
	NM        string
	Objcopy   string
	CC        string
	CFlags    string
	LDFlags   string
	PkgConfig string

	// Windows hosts.
	MSVC       *MSVC
	WindowsSDK *WindowsSDK

	Exec Executor
}

// Unix tool variables read from the environment script.
const (
	VarAR        = "AR"
	VarNM        = "NM"
	VarObjcopy   = "OBJCOPY"
	VarCC        = "CC"
	VarCFlags    = "CFLAGS"
	VarLDFlags   = "LDFLAGS"
	VarPkgConfig = "PKG_CONFIG"
)

// ProbeUnix sources env and fills the Unix tool fields from its variables.
func ProbeUnix(ctx context.Context, host, flavor string, env EnvScript, exec Executor) (Toolchain, error) {
	vars, err := env.Probe(ctx, VarAR, VarNM, VarObjcopy, VarCC, VarCFlags, VarLDFlags, VarPkgConfig)
	if err != nil {
		return Toolchain{}, err
	}

	return Toolchain{
		Host:      host,
		Flavor:    flavor,
		Env:       env,
		AR:        vars[VarAR],
		NM:        vars[VarNM],
		Objcopy:   vars[VarObjcopy],
		CC:        vars[VarCC],
		CFlags:    vars[VarCFlags],
		LDFlags:   vars[VarLDFlags],
		PkgConfig: vars[VarPkgConfig],
		Exec:      exec,
	}, nil
}

// CanIsolate reports whether both the symbol dumper and the symbol
// redefiner are available.
func (t Toolchain) CanIsolate() bool {
	return t.NM != "" && t.Objcopy != ""
}

// Run executes cmd with the toolchain's executor.
func (t Toolchain) Run(ctx context.Context, cmd Command) ([]byte, error) {
	return t.Exec.Run(ctx, cmd)
}
