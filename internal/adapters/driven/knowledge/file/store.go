package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driven"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.KnowledgeStore  = (*Store)(nil)
	_ driven.KnowledgeWriter = (*Store)(nil)
)

const fileExt = ".json"

// Store loads subject knowledge bases from JSON files in a directory.
type Store struct {
	dir string
}

// NewStore creates a file-based knowledge store.
// If dir is empty, defaults to ~/.tutorbot/knowledge.
//
// The constructor does not touch the filesystem; a missing directory
// simply means every subject is empty.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".tutorbot", "knowledge")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the knowledge directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file holding a subject's records.
func (s *Store) Path(subject domain.Subject) string {
	return filepath.Join(s.dir, subject.String()+fileExt)
}

// Load reads a subject's records from disk.
func (s *Store) Load(ctx context.Context, subject domain.Subject) (domain.KnowledgeBase, error) {
	if err := ctx.Err(); err != nil {
		return domain.KnowledgeBase{}, err
	}
	if !subject.IsValid() {
		return domain.KnowledgeBase{}, fmt.Errorf("subject %q: %w", subject, domain.ErrInvalidInput)
	}

	path := s.Path(subject)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("No knowledge file for %s at %s", subject, path)
			return domain.EmptyKnowledgeBase(subject), nil
		}
		return domain.KnowledgeBase{}, fmt.Errorf("read %s: %w", path, err)
	}

	records, err := decode(raw)
	if err != nil {
		return domain.KnowledgeBase{}, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("Loaded %d records for %s from %s", len(records), subject, path)
	return domain.KnowledgeBase{Subject: subject, Records: records}, nil
}

// Subjects lists subjects that have a knowledge file, sorted by name.
func (s *Store) Subjects(_ context.Context) ([]domain.Subject, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	var subjects []domain.Subject
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		subjects = append(subjects, domain.Subject(strings.TrimSuffix(name, fileExt)))
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i] < subjects[j] })
	return subjects, nil
}

// Replace writes kb as the subject's knowledge file. The file is written
// to a temporary name first and renamed into place, so a concurrent Load
// never sees a partial file.
func (s *Store) Replace(ctx context.Context, kb domain.KnowledgeBase) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !kb.Subject.IsValid() {
		return fmt.Errorf("subject %q: %w", kb.Subject, domain.ErrInvalidInput)
	}
	if err := domain.ValidateRecords(kb.Records); err != nil {
		return err
	}

	records := kb.Records
	if records == nil {
		records = []domain.KnowledgeRecord{}
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", kb.Subject, err)
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create knowledge directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+kb.Subject.String()+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after rename

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}

	path := s.Path(kb.Subject)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	logger.Info("Wrote %d records for %s to %s", kb.Len(), kb.Subject, path)
	return nil
}

// decode parses a knowledge file. Anything but an array of records with
// questions is corrupt.
func decode(raw []byte) ([]domain.KnowledgeRecord, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("empty file: %w", domain.ErrKnowledgeBaseCorrupt)
	}

	var records []domain.KnowledgeRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrKnowledgeBaseCorrupt, err)
	}
	if err := domain.ValidateRecords(records); err != nil {
		return nil, err
	}
	if records == nil {
		// "null" decodes to a nil slice; treat it like an empty array.
		records = []domain.KnowledgeRecord{}
	}
	return records, nil
}
