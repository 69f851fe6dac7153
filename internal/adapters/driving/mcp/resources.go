package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for pagebridge resources.
	uriScheme = "pagebridge://"

	// historyLimit caps the runs listed by the history resource.
	historyLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for recent transform runs.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recent transform runs, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	// Template for one framework's details.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "frameworks/{name}",
		Name:        "framework",
		Description: "Extensions and convertible kinds of a page builder",
		MIMEType:    "application/json",
	}, s.handleFrameworkResource)
}

// handleHistoryResource returns recent transform runs.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	runs, err := s.ports.Transform.History(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	// Build simplified run list.
	type runInfo struct {
		ID                string  `json:"id"`
		Input             string  `json:"input"`
		Source            string  `json:"source"`
		Target            string  `json:"target"`
		Zones             string  `json:"zones"`
		Transformer       string  `json:"transformer"`
		MetadataPreserved float64 `json:"metadata_preserved"`
		Cached            bool    `json:"cached"`
		CreatedAt         string  `json:"created_at"`
	}

	infos := make([]runInfo, len(runs))
	for i := range runs {
		infos[i] = runInfo{
			ID:                runs[i].ID,
			Input:             runs[i].Input,
			Source:            runs[i].Source,
			Target:            runs[i].Target,
			Zones:             runs[i].Zones.String(),
			Transformer:       runs[i].Transformer,
			MetadataPreserved: runs[i].MetadataPreserved,
			Cached:            runs[i].Cached,
			CreatedAt:         runs[i].CreatedAt.Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleFrameworkResource returns the catalog entry for one framework.
func (s *Server) handleFrameworkResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract name from URI: pagebridge://frameworks/{name}
	name := extractFrameworkName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	for _, info := range s.ports.Catalog.Frameworks() {
		if info.Name != name {
			continue
		}
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling framework: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}

	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// extractFrameworkName extracts the name from a URI like pagebridge://frameworks/{name}.
func extractFrameworkName(uri string) string {
	const prefix = uriScheme + "frameworks/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name := strings.TrimPrefix(uri, prefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return strings.ToLower(name)
}
