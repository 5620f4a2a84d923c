package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for tutorbot resources.
	uriScheme = "tutorbot://"

	jsonMIME = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "subjects",
		Name:        "subjects",
		Description: "Subjects the assistant can switch to, with record counts",
		MIMEType:    jsonMIME,
	}, s.handleSubjectsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "knowledge/{subject}",
		Name:        "subject-knowledge",
		Description: "Question and answer records of one subject",
		MIMEType:    jsonMIME,
	}, s.handleKnowledgeResource)
}

// subjectInfo is the JSON shape of one subject in the subjects resource.
type subjectInfo struct {
	Subject   string `json:"subject"`
	Default   bool   `json:"default"`
	Records   int    `json:"records"`
	Questions int    `json:"questions"`
	Corrupt   bool   `json:"corrupt,omitempty"`
}

// handleSubjectsResource lists the subject catalog.
func (s *Server) handleSubjectsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Knowledge == nil {
		return jsonResult(req.Params.URI, []subjectInfo{})
	}

	summaries, err := s.ports.Knowledge.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing subjects: %w", err)
	}

	infos := make([]subjectInfo, len(summaries))
	for i, sum := range summaries {
		infos[i] = subjectInfo{
			Subject:   sum.Subject.String(),
			Default:   sum.IsDefault,
			Records:   sum.Records,
			Questions: sum.Questions,
			Corrupt:   sum.Corrupt,
		}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleKnowledgeResource returns the records of one subject.
func (s *Server) handleKnowledgeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Knowledge == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	subject := extractSubject(req.Params.URI)
	if subject == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	kb, err := s.ports.Knowledge.Get(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownSubject) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("loading %s: %w", subject, err)
	}

	records := kb.Records
	if records == nil {
		records = []domain.KnowledgeRecord{}
	}
	return jsonResult(req.Params.URI, records)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIME,
			Text:     string(data),
		}},
	}, nil
}

// extractSubject extracts the subject from a URI like tutorbot://knowledge/{subject}.
func extractSubject(uri string) domain.Subject {
	const prefix = uriScheme + "knowledge/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name := strings.TrimPrefix(uri, prefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return domain.Subject(strings.ToLower(name))
}
