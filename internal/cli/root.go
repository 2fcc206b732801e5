package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/frida-labs/devkit/internal/branding"
	"github.com/frida-labs/devkit/internal/config"
	"github.com/frida-labs/devkit/internal/devkit"
	"github.com/frida-labs/devkit/internal/kit"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: TitleStyle.Render(branding.DisplayName()) + `

Bundles one kit's prebuilt static libraries and public headers into a
self-contained devkit: a single merged library with third-party symbols
isolated, one flattened header, and a ready-to-build example program.

` + SubtitleStyle.Render("Examples:") + `
  devkit generate frida-core linux-x86_64 ./out
  devkit generate frida-gum ios-arm64 ./out --thin
  devkit doctor android-arm64
  devkit kits`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every tool invocation")
}

// Execute runs the root command with build info injected via ldflags.
// Interrupts cancel the running pipeline.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithCommit(commit),
		fang.WithNotifySignal(os.Interrupt),
	)
}

func versionString() string {
	if buildVersion == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", buildVersion, buildCommit, buildDate)
}

// session is the per-invocation state commands share.
type session struct {
	settings config.Settings
	logger   *log.Logger
	catalog  *kit.Catalog
}

func newSession() (*session, error) {
	config.Load()
	settings, err := config.Resolve()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(settings.LogLevel)
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(settings)
	if err != nil {
		return nil, err
	}
	return &session{settings: settings, logger: logger, catalog: catalog}, nil
}

func newLogger(level string) (*log.Logger, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: branding.CLIName()})
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return logger, nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", config.KeyLogLevel, level, err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}

func loadCatalog(settings config.Settings) (*kit.Catalog, error) {
	if settings.Catalog != "" {
		return kit.LoadFile(settings.Catalog)
	}
	return kit.Default()
}

func (s *session) assembler() *devkit.Assembler {
	return devkit.New(s.catalog, s.settings, s.logger)
}
