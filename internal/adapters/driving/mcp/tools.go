package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driving"
	"github.com/custodia-labs/pagebridge/internal/styles"
)

// DocumentInput names a document and the dialect it is written in.
type DocumentInput struct {
	Framework string `json:"framework" jsonschema:"page-builder dialect: elementor, gutenberg, divi, wpbakery, avada or bootstrap"`
	Document  string `json:"document" jsonschema:"the raw document (Elementor JSON, block markup, shortcodes or HTML)"`
}

// AnalyzeOutput is the output schema for the analyze tool.
type AnalyzeOutput struct {
	TotalElements int                 `json:"total_elements"`
	TotalZones    int                 `json:"total_zones"`
	TotalKeys     int                 `json:"total_keys"`
	ZonesByType   map[string]int      `json:"zones_by_type"`
	KeysByType    map[string]int      `json:"keys_by_type"`
	ElementTypes  map[string]int      `json:"element_types"`
	ContentItems  []ContentItemOutput `json:"content_items"`
}

// ContentItemOutput is one piece of visible text.
type ContentItemOutput struct {
	Path        string `json:"path"`
	ElementType string `json:"element_type"`
	Key         string `json:"key"`
	Value       string `json:"value"`
}

// VerifyOutput is the output schema for the verify tool.
type VerifyOutput struct {
	Lossless          bool    `json:"lossless"`
	ByteIdentical     bool    `json:"byte_identical"`
	MetadataPreserved float64 `json:"metadata_preserved"`
	Elements          int     `json:"elements"`
	Keys              int     `json:"keys"`
	FirstDifference   string  `json:"first_difference,omitempty"`
}

// StylesOutput is the output schema for the styles tool.
type StylesOutput struct {
	Colors  []domain.Token `json:"colors"`
	Fonts   []domain.Token `json:"fonts"`
	Spacing []domain.Token `json:"spacing"`
	CSS     string         `json:"css"`
}

// TransformInput is the input schema for the transform tool.
type TransformInput struct {
	Source      string         `json:"source" jsonschema:"dialect the document is written in"`
	Target      string         `json:"target,omitempty" jsonschema:"dialect to write (default: source)"`
	Document    string         `json:"document" jsonschema:"the raw document"`
	Zones       string         `json:"zones,omitempty" jsonschema:"comma-separated zones the transformer may rewrite (default: content)"`
	Transformer string         `json:"transformer,omitempty" jsonschema:"registered transformer name (default: identity)"`
	Config      map[string]any `json:"config,omitempty" jsonschema:"transformer settings"`
}

// TransformOutput is the output schema for the transform tool.
type TransformOutput struct {
	Output            string   `json:"output"`
	RunID             string   `json:"run_id"`
	MetadataPreserved float64  `json:"metadata_preserved"`
	KeysTotal         int      `json:"keys_total"`
	KeysPreserved     int      `json:"keys_preserved"`
	ZonesModified     []string `json:"zones_modified"`
	Unmapped          []string `json:"unmapped,omitempty"`
	Cached            bool     `json:"cached"`
}

// FrameworksInput takes no arguments.
type FrameworksInput struct{}

// FrameworksOutput is the output schema for the frameworks tool.
type FrameworksOutput struct {
	Frameworks   []driving.FrameworkInfo `json:"frameworks"`
	Transformers []string                `json:"transformers"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze",
		Description: "Classify a page-builder document into zones and list its visible text",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "verify",
		Description: "Check that a document survives an identity transform unchanged",
	}, s.handleVerify)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "styles",
		Description: "Extract the colours, fonts and spacing of a document as design tokens and CSS variables",
	}, s.handleStyles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "transform",
		Description: "Rewrite selected zones of a document and optionally convert it to another page builder",
	}, s.handleTransform)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "frameworks",
		Description: "List supported page builders and transformers",
	}, s.handleFrameworks)
}

// handleAnalyze handles the analyze tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	a, err := s.ports.Analysis.Analyze(ctx, input.Framework, []byte(input.Document))
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	output := AnalyzeOutput{
		TotalElements: a.TotalElements,
		TotalZones:    a.TotalZones,
		TotalKeys:     a.TotalKeys,
		ZonesByType:   a.ZonesByType,
		KeysByType:    a.KeysByType,
		ElementTypes:  a.ElementTypes,
		ContentItems:  make([]ContentItemOutput, len(a.ContentItems)),
	}
	for i, item := range a.ContentItems {
		output.ContentItems[i] = ContentItemOutput{
			Path:        item.Path.String(),
			ElementType: item.ElementType,
			Key:         item.Key,
			Value:       item.Value,
		}
	}

	return nil, output, nil
}

// handleVerify handles the verify tool invocation.
func (s *Server) handleVerify(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, VerifyOutput, error) {
	v, err := s.ports.Analysis.Verify(ctx, input.Framework, []byte(input.Document))
	if err != nil {
		return nil, VerifyOutput{}, err
	}

	return nil, VerifyOutput{
		Lossless:          v.Lossless,
		ByteIdentical:     v.ByteIdentical,
		MetadataPreserved: v.MetadataPreserved,
		Elements:          v.Elements,
		Keys:              v.Keys,
		FirstDifference:   v.FirstDifference,
	}, nil
}

// handleStyles handles the styles tool invocation.
func (s *Server) handleStyles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, StylesOutput, error) {
	t, err := s.ports.Analysis.Styles(ctx, input.Framework, []byte(input.Document))
	if err != nil {
		return nil, StylesOutput{}, err
	}

	return nil, StylesOutput{
		Colors:  t.Colors,
		Fonts:   t.Fonts,
		Spacing: t.Spacing,
		CSS:     styles.CSS(t),
	}, nil
}

// handleTransform handles the transform tool invocation.
func (s *Server) handleTransform(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TransformInput,
) (*mcp.CallToolResult, TransformOutput, error) {
	zones := domain.NewZoneSet(domain.ZoneContent)
	if input.Zones != "" {
		var err error
		zones, err = domain.ParseZoneSet(input.Zones)
		if err != nil {
			return nil, TransformOutput{}, fmt.Errorf("parsing zones: %w", err)
		}
	}

	outcome, err := s.ports.Transform.Transform(ctx, driving.TransformRequest{
		Input:       "mcp",
		Data:        []byte(input.Document),
		Source:      input.Source,
		Target:      input.Target,
		Zones:       zones,
		Transformer: input.Transformer,
		Config:      input.Config,
	})
	if err != nil {
		return nil, TransformOutput{}, err
	}

	modified := outcome.ZonesModified
	if modified == nil {
		modified = []string{}
	}
	return nil, TransformOutput{
		Output:            string(outcome.Output),
		RunID:             outcome.Run.ID,
		MetadataPreserved: outcome.Run.MetadataPreserved,
		KeysTotal:         outcome.Run.KeysTotal,
		KeysPreserved:     outcome.Run.KeysPreserved,
		ZonesModified:     modified,
		Unmapped:          outcome.Unmapped,
		Cached:            outcome.Run.Cached,
	}, nil
}

// handleFrameworks handles the frameworks tool invocation.
func (s *Server) handleFrameworks(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ FrameworksInput,
) (*mcp.CallToolResult, FrameworksOutput, error) {
	output := FrameworksOutput{
		Frameworks:   []driving.FrameworkInfo{},
		Transformers: []string{},
	}
	if s.ports.Catalog != nil {
		output.Frameworks = s.ports.Catalog.Frameworks()
		output.Transformers = s.ports.Catalog.Transformers()
	}
	return nil, output, nil
}
