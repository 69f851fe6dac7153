package cli

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagebridge/internal/core/ports/driving"
)

var (
	siteZones       string
	siteTransformer string
	siteSet         []string
	siteOut         string
	siteJobs        int
	siteWatch       bool
)

var siteCmd = &cobra.Command{
	Use:   "transform-site <source> <target> <dir>",
	Short: "Transform every document in a site export",
	Long: `Transform every source document under a directory, writing results
to --out with the same relative layout. Output files take the target page
builder's extension.

With --watch the command keeps running and transforms files as they are
created or saved, until interrupted.

Examples:
  pagebridge transform-site elementor gutenberg ./export --out ./blocks
  pagebridge transform-site divi divi ./site --out ./clean \
    --transformer sanitize --zones all --watch`,
	Args: cobra.ExactArgs(3),
	RunE: runSite,
}

func init() {
	addTransformFlags(siteCmd, &siteZones, &siteTransformer, &siteSet)
	siteCmd.Flags().StringVar(&siteOut, "out", "", "output directory (required)")
	siteCmd.Flags().IntVarP(&siteJobs, "jobs", "j", runtime.NumCPU(), "files transformed in parallel")
	siteCmd.Flags().BoolVarP(&siteWatch, "watch", "w", false, "keep watching for changes")
	_ = siteCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(siteCmd)
}

func runSite(cmd *cobra.Command, args []string) error {
	if batchService == nil {
		return errors.New("batch service not configured")
	}

	template, err := buildRequest(args[0], args[1], siteZones, siteTransformer, siteSet)
	if err != nil {
		return err
	}
	req := driving.BatchRequest{
		Dir:      args[2],
		OutDir:   siteOut,
		Jobs:     siteJobs,
		Template: template,
	}

	out := cmd.OutOrStdout()
	if siteWatch {
		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", req.Dir)
		return batchService.Watch(cmd.Context(), req, func(r driving.BatchResult) {
			printBatchResult(out, r)
		})
	}

	results, err := batchService.Run(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("transform-site failed: %w", err)
	}

	failed := 0
	for _, r := range results {
		printBatchResult(out, r)
		if r.Err != nil {
			failed++
		}
	}
	fmt.Fprintf(out, "%d files, %d failed\n", len(results), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func printBatchResult(w io.Writer, r driving.BatchResult) {
	p := newPainter(w)
	if r.Err != nil {
		fmt.Fprintf(w, "%s %s: %v\n", p.failure("fail"), r.Input, r.Err)
		return
	}
	fmt.Fprintf(w, "%s   %s -> %s %s\n", p.success("ok"), r.Input, r.Output,
		p.muted(fmt.Sprintf("(%.2f%%)", r.Run.MetadataPreserved)))
}
