package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driving"
)

// stdinName is the file argument that reads standard input.
const stdinName = "-"

var (
	transformZones       string
	transformTransformer string
	transformSet         []string
	transformOutput      string
)

var transformCmd = &cobra.Command{
	Use:   "transform <source> <target> <file>",
	Short: "Transform one document",
	Long: `Parse a document written for the source page builder, rewrite the
selected zones and write it for the target page builder.

Keys outside the selected zones are copied unchanged. Use "-" as the file
to read standard input.

Examples:
  # Uppercase all visible text, keep everything else
  pagebridge transform elementor elementor page.json --transformer uppercase

  # Convert an Elementor export to Gutenberg block markup
  pagebridge transform elementor gutenberg page.json -o page.html

  # Replace text in content and meta zones
  pagebridge transform divi divi page.divi --zones content,meta \
    --transformer replace --set find=Acme --set replace=Initech`,
	Args: cobra.ExactArgs(3),
	RunE: runTransform,
}

func init() {
	addTransformFlags(transformCmd, &transformZones, &transformTransformer, &transformSet)
	transformCmd.Flags().StringVarP(&transformOutput, "output", "o", "", "write the result to this file (default stdout)")
	rootCmd.AddCommand(transformCmd)
}

// addTransformFlags registers the flags shared by transform commands.
func addTransformFlags(cmd *cobra.Command, zones, transformer *string, set *[]string) {
	cmd.Flags().StringVarP(zones, "zones", "z", "content", `zones the transformer may rewrite ("all" for every zone)`)
	cmd.Flags().StringVarP(transformer, "transformer", "t", "identity", "transformer to apply")
	cmd.Flags().StringArrayVar(set, "set", nil, "transformer setting as key=value (repeatable)")
}

func runTransform(cmd *cobra.Command, args []string) error {
	if transformService == nil {
		return errors.New("transform service not configured")
	}

	data, err := readInput(cmd, args[2])
	if err != nil {
		return err
	}

	req, err := buildRequest(args[0], args[1], transformZones, transformTransformer, transformSet)
	if err != nil {
		return err
	}
	req.Input = args[2]
	req.Data = data

	outcome, err := transformService.Transform(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}

	if transformOutput != "" {
		if err := os.WriteFile(transformOutput, outcome.Output, 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	} else if _, err := cmd.OutOrStdout().Write(outcome.Output); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	printOutcome(cmd.ErrOrStderr(), outcome)
	return nil
}

// printOutcome writes a short summary of a run.
func printOutcome(w io.Writer, outcome *domain.TransformOutcome) {
	p := newPainter(w)
	run := outcome.Run
	status := fmt.Sprintf("%.2f%% metadata preserved (%d/%d keys), %d zones modified",
		run.MetadataPreserved, run.KeysPreserved, run.KeysTotal, run.ZonesModified)
	if run.Cached {
		status += " " + p.muted("[cached]")
	}
	fmt.Fprintln(w, p.success(status))
	for _, u := range outcome.Unmapped {
		fmt.Fprintln(w, p.warning("unmapped: "+u))
	}
}

// buildRequest assembles a request from command arguments and flags.
func buildRequest(source, target, zones, transformer string, set []string) (driving.TransformRequest, error) {
	zs, err := domain.ParseZoneSet(zones)
	if err != nil {
		return driving.TransformRequest{}, fmt.Errorf("parsing --zones: %w", err)
	}
	cfg, err := parseSettings(set)
	if err != nil {
		return driving.TransformRequest{}, err
	}
	return driving.TransformRequest{
		Source:      source,
		Target:      target,
		Zones:       zs,
		Transformer: transformer,
		Config:      cfg,
	}, nil
}

// parseSettings turns key=value pairs into a transformer config.
// Values stay strings; transformers coerce them.
func parseSettings(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	cfg := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: --set %q must be key=value", domain.ErrInvalidInput, pair)
		}
		cfg[key] = value
	}
	return cfg, nil
}

// readInput reads a file argument, or standard input for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == stdinName {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}
