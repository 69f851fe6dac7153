package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure classifier, cache, storage and output settings.

Settings live in config.toml under the configuration directory and can be
edited by hand. Use "settings validate" after editing.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsBackendCmd = &cobra.Command{
	Use:   "backend <sqlite|memory>",
	Short: "Set the history storage backend",
	Long: `Set where transform history is kept.

Available backends:
  sqlite - Persistent history in a local database file
  memory - History is discarded when the command exits`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsBackend,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsValidate,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsBackendCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	p := newPainter(cmd.OutOrStdout())
	p.title("[Classifier]")
	p.field("Override suffixes", strings.Join(settings.Classifier.Suffixes, " "))
	if len(settings.Classifier.Rules) == 0 {
		p.field("Rules", "(none)")
	}
	for _, r := range settings.Classifier.Rules {
		p.field("Rule", r)
	}
	cmd.Println()

	p.title("[Cache]")
	size := fmt.Sprintf("%d outcomes", settings.Cache.Size)
	if settings.Cache.Size == 0 {
		size = "disabled"
	}
	p.field("Size", size)
	cmd.Println()

	p.title("[Storage]")
	p.field("Backend", settings.Storage.Backend.Description())
	dir := settings.Storage.Dir
	if dir == "" {
		dir = "(default)"
	}
	p.field("Directory", dir)
	cmd.Println()

	p.title("[Output]")
	p.field("Indent JSON", settings.Output.Indent)
	return nil
}

func runSettingsBackend(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	backend := domain.StorageBackend(strings.ToLower(args[0]))
	if err := settingsService.SetStorageBackend(backend); err != nil {
		return fmt.Errorf("failed to set backend: %w", err)
	}

	cmd.Printf("Storage backend set to: %s\n", backend.Description())
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	p := newPainter(cmd.OutOrStdout())
	if err := settingsService.Validate(); err != nil {
		cmd.Println(p.failure("Invalid settings"))
		return err
	}
	cmd.Println(p.success("Settings are valid"))
	return nil
}
