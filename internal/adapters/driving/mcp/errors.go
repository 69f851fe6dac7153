// Package mcp provides an MCP (Model Context Protocol) server adapter for
// pagebridge. It lets AI assistants analyze, verify and transform
// page-builder documents.
package mcp

import "errors"

// ErrMissingTransformService is returned when the transform service is not provided.
var ErrMissingTransformService = errors.New("mcp: transform service is required")

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")
