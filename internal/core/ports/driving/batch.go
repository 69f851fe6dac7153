package driving

import (
	"context"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// BatchRequest describes a transform over every matching file in a
// directory tree.
type BatchRequest struct {
	// Dir is the site export to read.
	Dir string

	// OutDir receives the output tree. Relative paths are kept and the
	// extension is switched to the target's first extension.
	OutDir string

	// Jobs bounds concurrent transforms. Zero or less means one.
	Jobs int

	// Template carries source, target, zones, transformer and config.
	// Input and Data are filled per file.
	Template TransformRequest
}

// BatchResult is the outcome for one file.
type BatchResult struct {
	Input  string
	Output string
	Run    *domain.TransformRun
	Err    error
}

// BatchService transforms whole site exports.
type BatchService interface {
	// Run transforms every matching file once. A failing file does not stop
	// the batch; its error is reported in its result.
	Run(ctx context.Context, req BatchRequest) ([]BatchResult, error)

	// Watch transforms matching files as they are written until ctx is
	// done. Each result is passed to fn.
	Watch(ctx context.Context, req BatchRequest, fn func(BatchResult)) error
}
