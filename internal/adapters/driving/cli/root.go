// Package cli provides the pagebridge command line interface.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagebridge/internal/core/ports/driving"
	"github.com/custodia-labs/pagebridge/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by commands. Set by SetServices or by the builder.
var (
	transformService driving.TransformService
	analysisService  driving.AnalysisService
	catalogService   driving.CatalogService
	settingsService  driving.SettingsService
	batchService     driving.BatchService
)

// Services bundles the driving ports the commands call.
type Services struct {
	Transform driving.TransformService
	Analysis  driving.AnalysisService
	Catalog   driving.CatalogService
	Settings  driving.SettingsService
	Batch     driving.BatchService
}

// Builder creates the services once flags are parsed. configDir is the
// --config-dir value, empty for the default. The returned func releases
// whatever the services hold open.
type Builder func(configDir string) (*Services, func() error, error)

var (
	builder Builder
	release func() error

	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "pagebridge",
	Short: "Zone-aware transforms for page-builder documents",
	Long: `pagebridge rewrites WordPress page-builder documents without losing
the settings it does not understand.

Every element is split into zones (content, styling, structural,
behavioral, meta). Transforms only touch the zones you select; everything
else is written back byte for byte, in its original key order.

Supported page builders: Elementor, Gutenberg, Divi, WPBakery and Avada.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.pagebridge)")
}

// SetServices installs the services commands call.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	transformService = s.Transform
	analysisService = s.Analysis
	catalogService = s.Catalog
	settingsService = s.Settings
	batchService = s.Batch
}

// SetBuilder installs the function that creates services before a
// command runs.
func SetBuilder(b Builder) {
	builder = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Command output goes to stdout, errors and
// run summaries to stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return run(ctx)
}

// run executes the root command, then releases what the builder opened,
// including when the command fails.
func run(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if relErr := releaseServices(); relErr != nil {
		return errors.Join(err, relErr)
	}
	return err
}

func releaseServices() error {
	if release == nil {
		return nil
	}
	err := release()
	release = nil
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if builder == nil || cmd.Name() == versionCmd.Name() {
		return nil
	}

	s, closeFn, err := builder(configDir)
	if err != nil {
		return err
	}
	SetServices(s)
	release = closeFn
	logger.Debug("Services ready (config dir %q)", configDir)
	return nil
}
