// Package samples embeds a starter knowledge base for every built-in subject.
//
// The data seeds a fresh knowledge directory, the in-memory demo store and
// the SQLite database, so a new installation can answer questions at once.
package samples

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driven"
)

//go:embed data/*.json
var data embed.FS

const dataDir = "data"

// Subjects returns the subjects with sample data, sorted by name.
func Subjects() []domain.Subject {
	entries, err := fs.ReadDir(data, dataDir)
	if err != nil {
		return nil
	}

	subjects := make([]domain.Subject, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			subjects = append(subjects, domain.Subject(strings.TrimSuffix(name, ".json")))
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i] < subjects[j] })
	return subjects
}

// Raw returns the sample file for a subject as stored on disk.
func Raw(subject domain.Subject) ([]byte, error) {
	b, err := data.ReadFile(path.Join(dataDir, subject.String()+".json"))
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", subject, domain.ErrNotFound)
	}
	return b, nil
}

// Load decodes the sample knowledge base for a subject.
func Load(subject domain.Subject) (domain.KnowledgeBase, error) {
	raw, err := Raw(subject)
	if err != nil {
		return domain.KnowledgeBase{}, err
	}

	var records []domain.KnowledgeRecord
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&records); err != nil {
		return domain.KnowledgeBase{}, fmt.Errorf("sample %s: %w: %w", subject, domain.ErrKnowledgeBaseCorrupt, err)
	}
	return domain.KnowledgeBase{Subject: subject, Records: records}, nil
}

// Seed replaces every sample subject in the writer with its sample data.
// It returns the number of subjects written.
func Seed(ctx context.Context, writer driven.KnowledgeWriter) (int, error) {
	subjects := Subjects()
	for _, subject := range subjects {
		kb, err := Load(subject)
		if err != nil {
			return 0, err
		}
		if err := writer.Replace(ctx, kb); err != nil {
			return 0, fmt.Errorf("seed %s: %w", subject, err)
		}
	}
	return len(subjects), nil
}
