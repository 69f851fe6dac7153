package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent transform runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if transformService == nil {
		return errors.New("transform service not configured")
	}

	runs, err := transformService.History(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(runs) == 0 {
		cmd.Println("No transform runs recorded.")
		return nil
	}

	p := newPainter(cmd.OutOrStdout())
	for i := range runs {
		r := &runs[i]
		cached := ""
		if r.Cached {
			cached = " " + p.muted("[cached]")
		}
		cmd.Printf("%s  %s  %s -> %s  %s [%s]  %.2f%%%s\n",
			p.muted(r.CreatedAt.Local().Format(time.DateTime)),
			r.ID[:min(8, len(r.ID))],
			r.Source, r.Target,
			r.Transformer, r.Zones,
			r.MetadataPreserved, cached)
		cmd.Printf("    %s\n", r.Input)
	}
	return nil
}
