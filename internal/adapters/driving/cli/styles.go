package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/styles"
)

var stylesFormat string

var stylesCmd = &cobra.Command{
	Use:   "styles <framework> <file>",
	Short: "Extract the design tokens of a document",
	Long: `Collect the colours, font families and spacing values used in the
styling zones of a document, together with Elementor kit globals, and print
them as CSS custom properties.

Use --format json or yaml for the token list with use counts.`,
	Args: cobra.ExactArgs(2),
	RunE: runStyles,
}

func init() {
	stylesCmd.Flags().StringVarP(&stylesFormat, "format", "f", "css", "output format: css, json or yaml")
	rootCmd.AddCommand(stylesCmd)
}

func runStyles(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}
	switch stylesFormat {
	case "css", "json", "yaml":
	default:
		return fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, stylesFormat)
	}

	data, err := readInput(cmd, args[1])
	if err != nil {
		return err
	}

	tokens, err := analysisService.Styles(cmd.Context(), args[0], data)
	if err != nil {
		return fmt.Errorf("styles failed: %w", err)
	}

	var out []byte
	switch stylesFormat {
	case "css":
		out = []byte(styles.CSS(tokens))
	case "json":
		out, err = json.MarshalIndent(tokens, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(tokens)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}
	cmd.Print(string(out))
	return nil
}
