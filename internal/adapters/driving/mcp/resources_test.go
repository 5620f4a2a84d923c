package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
)

func TestExtractSubject(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected domain.Subject
	}{
		{name: "valid knowledge URI", uri: "tutorbot://knowledge/java", expected: "java"},
		{name: "upper case is folded", uri: "tutorbot://knowledge/DBMS", expected: "dbms"},
		{name: "invalid prefix", uri: "file://knowledge/java", expected: ""},
		{name: "nested path", uri: "tutorbot://knowledge/java/extra", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractSubject(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func newResourceServer(t *testing.T, knowledge *mockKnowledgeService) *Server {
	t.Helper()
	ports := &Ports{Sessions: newMockSessionRegistry(nil)}
	if knowledge != nil {
		ports.Knowledge = knowledge
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleSubjectsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil knowledge service returns empty list", func(t *testing.T) {
		server := newResourceServer(t, nil)

		result, err := server.handleSubjectsResource(ctx, makeReadResourceRequest("tutorbot://subjects"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns subjects", func(t *testing.T) {
		server := newResourceServer(t, &mockKnowledgeService{
			summaries: []driving.SubjectSummary{
				{Subject: "default", IsDefault: true, Records: 2, Questions: 5},
				{Subject: "java", Records: 1, Questions: 1},
				{Subject: "dbms", Corrupt: true},
			},
		})

		result, err := server.handleSubjectsResource(ctx, makeReadResourceRequest("tutorbot://subjects"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var infos []subjectInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
		assert.Equal(t, []subjectInfo{
			{Subject: "default", Default: true, Records: 2, Questions: 5},
			{Subject: "java", Records: 1, Questions: 1},
			{Subject: "dbms", Corrupt: true},
		}, infos)
	})

	t.Run("list failure", func(t *testing.T) {
		server := newResourceServer(t, &mockKnowledgeService{err: errors.New("boom")})

		_, err := server.handleSubjectsResource(ctx, makeReadResourceRequest("tutorbot://subjects"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing subjects")
	})
}

func TestServer_handleKnowledgeResource(t *testing.T) {
	ctx := context.Background()
	records := []domain.KnowledgeRecord{{Questions: []string{"what is jvm"}, Answer: "The Java virtual machine."}}

	t.Run("returns records", func(t *testing.T) {
		server := newResourceServer(t, &mockKnowledgeService{
			bases: map[domain.Subject]domain.KnowledgeBase{"java": {Subject: "java", Records: records}},
		})

		result, err := server.handleKnowledgeResource(ctx, makeReadResourceRequest("tutorbot://knowledge/java"))

		require.NoError(t, err)
		var got []domain.KnowledgeRecord
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Equal(t, records, got)
	})

	t.Run("empty subject is an empty array", func(t *testing.T) {
		server := newResourceServer(t, &mockKnowledgeService{
			bases: map[domain.Subject]domain.KnowledgeBase{"ai": domain.EmptyKnowledgeBase("ai")},
		})

		result, err := server.handleKnowledgeResource(ctx, makeReadResourceRequest("tutorbot://knowledge/ai"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("unknown subject is not found", func(t *testing.T) {
		server := newResourceServer(t, &mockKnowledgeService{})

		_, err := server.handleKnowledgeResource(ctx, makeReadResourceRequest("tutorbot://knowledge/rust"))

		require.Error(t, err)
	})

	t.Run("nil knowledge service is not found", func(t *testing.T) {
		server := newResourceServer(t, nil)

		_, err := server.handleKnowledgeResource(ctx, makeReadResourceRequest("tutorbot://knowledge/java"))

		require.Error(t, err)
	})

	t.Run("corrupt subject reports error", func(t *testing.T) {
		server := newResourceServer(t, &mockKnowledgeService{err: domain.ErrKnowledgeBaseCorrupt})

		_, err := server.handleKnowledgeResource(ctx, makeReadResourceRequest("tutorbot://knowledge/java"))

		assert.ErrorIs(t, err, domain.ErrKnowledgeBaseCorrupt)
	})
}
