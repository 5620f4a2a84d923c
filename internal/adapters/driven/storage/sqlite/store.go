package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/tutorbot/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driven"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// databaseFile is the database file name inside the data directory.
const databaseFile = "knowledge.db"

// Store is a SQLite-backed knowledge store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.tutorbot/data/knowledge.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tutorbot", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, databaseFile)

	// Pragmas in the DSN apply to every pooled connection, not just the
	// first one.
	db, err := sql.Open("sqlite", dbPath+
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Debug("Opened knowledge database %s", dbPath)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// KnowledgeStore returns a KnowledgeStore interface backed by this store.
func (s *Store) KnowledgeStore() driven.KnowledgeStore {
	return &knowledgeStore{store: s}
}

// KnowledgeWriter returns a KnowledgeWriter interface backed by this store.
func (s *Store) KnowledgeWriter() driven.KnowledgeWriter {
	return &knowledgeStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_knowledge.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		logger.Debug("Applied migration %s", name)
	}

	return nil
}

// schemaVersion returns the highest applied migration.
func (s *Store) schemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

// ==================== Knowledge Store ====================

// knowledgeStore implements driven.KnowledgeStore and driven.KnowledgeWriter.
type knowledgeStore struct {
	store *Store
}

var (
	_ driven.KnowledgeStore  = (*knowledgeStore)(nil)
	_ driven.KnowledgeWriter = (*knowledgeStore)(nil)
)

// Load reads a subject's records in stored order.
// A subject with no rows yields an empty knowledge base.
func (s *knowledgeStore) Load(ctx context.Context, subject domain.Subject) (domain.KnowledgeBase, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT r.id, r.answer, q.question
		FROM knowledge_records r
		LEFT JOIN knowledge_questions q ON q.record_id = r.id
		WHERE r.subject = ?
		ORDER BY r.position, q.position
	`, subject.String())
	if err != nil {
		return domain.KnowledgeBase{}, fmt.Errorf("query %s: %w", subject, err)
	}
	defer rows.Close()

	kb := domain.EmptyKnowledgeBase(subject)
	lastID := int64(-1)
	for rows.Next() {
		var (
			id       int64
			answer   string
			question sql.NullString
		)
		if err := rows.Scan(&id, &answer, &question); err != nil {
			return domain.KnowledgeBase{}, fmt.Errorf("scan %s: %w", subject, err)
		}
		if id != lastID {
			kb.Records = append(kb.Records, domain.KnowledgeRecord{Answer: answer})
			lastID = id
		}
		if question.Valid {
			last := &kb.Records[len(kb.Records)-1]
			last.Questions = append(last.Questions, question.String)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.KnowledgeBase{}, fmt.Errorf("read %s: %w", subject, err)
	}

	if err := domain.ValidateRecords(kb.Records); err != nil {
		return domain.KnowledgeBase{}, fmt.Errorf("subject %s: %w", subject, err)
	}

	if kb.IsEmpty() {
		logger.Debug("No records stored for %s", subject)
	}
	return kb, nil
}

// Subjects lists subjects with stored records, sorted by name.
func (s *knowledgeStore) Subjects(ctx context.Context) ([]domain.Subject, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT DISTINCT subject FROM knowledge_records ORDER BY subject")
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, domain.Subject(name))
	}
	return subjects, rows.Err()
}

// Replace swaps a subject's records for kb's in one transaction.
func (s *knowledgeStore) Replace(ctx context.Context, kb domain.KnowledgeBase) error {
	if err := domain.ValidateRecords(kb.Records); err != nil {
		return err
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM knowledge_questions WHERE record_id IN (
			SELECT id FROM knowledge_records WHERE subject = ?
		)`, kb.Subject.String()); err != nil {
		return fmt.Errorf("clear %s questions: %w", kb.Subject, err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM knowledge_records WHERE subject = ?", kb.Subject.String()); err != nil {
		return fmt.Errorf("clear %s: %w", kb.Subject, err)
	}

	recordStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO knowledge_records (subject, position, answer) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer recordStmt.Close()

	questionStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO knowledge_questions (record_id, position, question) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare question insert: %w", err)
	}
	defer questionStmt.Close()

	for i, record := range kb.Records {
		res, err := recordStmt.ExecContext(ctx, kb.Subject.String(), i, record.Answer)
		if err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
		recordID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("record %d id: %w", i, err)
		}
		for j, question := range record.Questions {
			if _, err := questionStmt.ExecContext(ctx, recordID, j, question); err != nil {
				return fmt.Errorf("insert question %d of record %d: %w", j, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", kb.Subject, err)
	}

	logger.Debug("Stored %d records for %s", len(kb.Records), kb.Subject)
	return nil
}
