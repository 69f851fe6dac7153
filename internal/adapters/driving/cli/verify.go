package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <framework> <file>",
	Short: "Check that a document round-trips losslessly",
	Long: `Run an identity transform over every zone, serialize, parse again and
compare. Exits with an error when the round trip changes the document.`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	data, err := readInput(cmd, args[1])
	if err != nil {
		return err
	}

	v, err := analysisService.Verify(cmd.Context(), args[0], data)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	p := newPainter(cmd.OutOrStdout())
	p.field("Elements", v.Elements)
	p.field("Keys", v.Keys)
	p.field("Byte identical", v.ByteIdentical)
	p.field("Metadata preserved", fmt.Sprintf("%.2f%% (content transform)", v.MetadataPreserved))

	if !v.Lossless {
		cmd.Println(p.failure("NOT LOSSLESS: first difference at " + v.FirstDifference))
		return fmt.Errorf("round trip differs at %s", v.FirstDifference)
	}
	cmd.Println(p.success("Lossless"))
	return nil
}
