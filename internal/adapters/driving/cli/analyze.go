package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <framework> <file>",
	Short: "Summarise the zones of a document",
	Long: `Classify every element of a document and report how its keys are
spread over zones, plus the visible text a content transform would touch.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	data, err := readInput(cmd, args[1])
	if err != nil {
		return err
	}

	a, err := analysisService.Analyze(cmd.Context(), args[0], data)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if analyzeJSON {
		out, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal analysis: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	printAnalysis(cmd, a)
	return nil
}

func printAnalysis(cmd *cobra.Command, a *domain.Analysis) {
	p := newPainter(cmd.OutOrStdout())

	p.title("Document")
	p.field("Elements", a.TotalElements)
	p.field("Zones", a.TotalZones)
	p.field("Keys", a.TotalKeys)
	cmd.Println()

	p.title("Zones")
	for _, t := range domain.AllZones().Types() {
		name := t.String()
		p.field(name, fmt.Sprintf("%d zones, %d keys", a.ZonesByType[name], a.KeysByType[name]))
	}
	cmd.Println()

	p.title("Element types")
	types := make([]string, 0, len(a.ElementTypes))
	for t := range a.ElementTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		p.field(t, a.ElementTypes[t])
	}

	if len(a.ContentItems) == 0 {
		return
	}
	cmd.Println()
	p.title("Content")
	for _, item := range a.ContentItems {
		cmd.Printf("  %s %s %s\n", p.muted("["+item.Path.String()+"]"), item.Key+":", item.Value)
	}
}
