package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagebridge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagebridge/internal/convert"
	"github.com/custodia-labs/pagebridge/internal/core/engine"
	"github.com/custodia-labs/pagebridge/internal/core/services"
	"github.com/custodia-labs/pagebridge/internal/transformers"
)

// page has seven attribute keys, two of them content.
const page = `[{"id":"s1","elType":"section","settings":{"background_color":"#fff","padding":"10"},"elements":[` +
	`{"id":"c1","elType":"column","settings":{"_column_size":100},"elements":[` +
	`{"id":"w1","elType":"widget","widgetType":"heading","settings":{"title":"Hello","header_size":"h2"},"elements":[]},` +
	`{"id":"w2","elType":"widget","widgetType":"text-editor","settings":{"editor":"<p>Body copy</p>","entrance_animation":"fadeIn"},"elements":[]}` +
	`]}]}]`

// setupTestServices installs real services backed by in-memory stores.
// Call the returned function to restore the previous state.
func setupTestServices() func() {
	adapters := services.NewAdapterRegistry()
	eng := engine.New(nil)
	conv := convert.New(nil)
	reg := transformers.NewDefaultRegistry()
	transform := services.NewTransformService(adapters, eng, conv, reg, memory.NewRunStore())

	oldBuilder := builder
	builder = nil
	SetServices(&Services{
		Transform: transform,
		Analysis:  services.NewAnalysisService(adapters, eng, services.DefaultPreviewLength),
		Catalog:   services.NewCatalogService(adapters, conv, reg),
		Settings:  services.NewSettingsService(memory.NewConfigStore(nil)),
		Batch:     services.NewBatchRunner(adapters, transform),
	})

	return func() {
		SetServices(nil)
		builder = oldBuilder
	}
}

// resetFlags restores flag variables and clears their Changed marks;
// cobra keeps both between executions, and required-flag checks read
// Changed.
func resetFlags() {
	clearChanged(rootCmd)
	verbose = false
	configDir = ""
	transformZones = "content"
	transformTransformer = "identity"
	transformSet = nil
	transformOutput = ""
	siteZones = "content"
	siteTransformer = "identity"
	siteSet = nil
	siteOut = ""
	siteJobs = 1
	siteWatch = false
	analyzeJSON = false
	zonesFormat = "yaml"
	stylesFormat = "css"
	historyLimit = 20
	historyJSON = false
}

func clearChanged(cmd *cobra.Command) {
	unset := func(f *pflag.Flag) { f.Changed = false }
	cmd.Flags().VisitAll(unset)
	cmd.PersistentFlags().VisitAll(unset)
	for _, sub := range cmd.Commands() {
		clearChanged(sub)
	}
}

// execute runs the root command with args and stdin, returning what was
// written to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags()
	}()

	err := run(context.Background())
	return stdout.String(), stderr.String(), err
}

// writePage writes data to name under a temp dir and returns its path.
func writePage(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}
