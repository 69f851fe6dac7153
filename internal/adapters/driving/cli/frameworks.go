package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var frameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "List supported page builders and transformers",
	Args:  cobra.NoArgs,
	RunE:  runFrameworks,
}

func init() {
	rootCmd.AddCommand(frameworksCmd)
}

func runFrameworks(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	p := newPainter(cmd.OutOrStdout())
	p.title("Page builders")
	for _, f := range catalogService.Frameworks() {
		cmd.Printf("  %-10s %s\n", f.Name, strings.Join(f.Extensions, " "))
		if len(f.Kinds) > 0 {
			cmd.Printf("  %-10s %s\n", "", p.muted("converts: "+strings.Join(f.Kinds, ", ")))
		}
	}
	cmd.Println()

	p.title("Transformers")
	for _, name := range catalogService.Transformers() {
		cmd.Printf("  %s\n", name)
	}
	return nil
}
