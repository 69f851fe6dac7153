package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

var zonesFormat string

var zonesCmd = &cobra.Command{
	Use:   "zones <framework> <file>",
	Short: "Dump the zone map of a document",
	Long: `Print every element with the keys assigned to each of its zones, in
document order. Useful to check how a custom classifier rule applies.`,
	Args: cobra.ExactArgs(2),
	RunE: runZones,
}

func init() {
	zonesCmd.Flags().StringVarP(&zonesFormat, "format", "f", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(zonesCmd)
}

type zoneDump struct {
	Zone    string   `json:"zone" yaml:"zone"`
	Keys    []string `json:"keys" yaml:"keys,flow"`
	Content bool     `json:"content,omitempty" yaml:"content,omitempty"`
}

type elementDump struct {
	Path  string     `json:"path" yaml:"path"`
	Type  string     `json:"type" yaml:"type"`
	Zones []zoneDump `json:"zones" yaml:"zones"`
}

func dumpZones(elements []domain.ElementZones) []elementDump {
	out := make([]elementDump, len(elements))
	for i, el := range elements {
		d := elementDump{Path: el.Path.String(), Type: el.Type, Zones: make([]zoneDump, len(el.Zones))}
		for j, z := range el.Zones {
			keys := z.Keys()
			if keys == nil {
				keys = []string{}
			}
			d.Zones[j] = zoneDump{Zone: z.Type.String(), Keys: keys, Content: z.Content != nil}
		}
		out[i] = d
	}
	return out
}

func runZones(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	var marshal func(any) ([]byte, error)
	switch zonesFormat {
	case "yaml":
		marshal = func(v any) ([]byte, error) {
			var buf bytes.Buffer
			enc := yaml.NewEncoder(&buf)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), enc.Close()
		}
	case "json":
		marshal = func(v any) ([]byte, error) {
			b, err := json.MarshalIndent(v, "", "  ")
			return append(b, '\n'), err
		}
	default:
		return fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, zonesFormat)
	}

	data, err := readInput(cmd, args[1])
	if err != nil {
		return err
	}

	elements, err := analysisService.Zones(cmd.Context(), args[0], data)
	if err != nil {
		return fmt.Errorf("zones failed: %w", err)
	}

	out, err := marshal(dumpZones(elements))
	if err != nil {
		return fmt.Errorf("failed to marshal zones: %w", err)
	}
	cmd.Print(string(out))
	return nil
}
