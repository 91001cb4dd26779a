package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/cmosher01/Gedcom-Web-View/internal/domain"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// ErrNotFound is returned when a file is not in the directory.
var ErrNotFound = errors.New("not found")

// Store is the directory of loaded files and the people in them, used for
// cross-file lookups and name search
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// AddFile records a loaded file, replacing any earlier record of the same name
func (s *Store) AddFile(f domain.GedcomFile) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO files (name, description, people, loaded_at) VALUES (?, ?, ?, ?)",
		f.Name, f.Description, f.People, f.LoadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

// GetFile retrieves one file record
func (s *Store) GetFile(name string) (*domain.GedcomFile, error) {
	var f domain.GedcomFile
	err := s.db.QueryRow(
		"SELECT name, description, people, loaded_at FROM files WHERE name = ?",
		name,
	).Scan(&f.Name, &f.Description, &f.People, &f.LoadedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get file %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	return &f, nil
}

// ListFiles returns all files ordered by name
func (s *Store) ListFiles() ([]domain.GedcomFile, error) {
	rows, err := s.db.Query(
		"SELECT name, description, people, loaded_at FROM files ORDER BY name COLLATE NOCASE, name",
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []domain.GedcomFile
	for rows.Next() {
		var f domain.GedcomFile
		if err := rows.Scan(&f.Name, &f.Description, &f.People, &f.LoadedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

// AddPeople replaces the people recorded for a file, in one transaction
func (s *Store) AddPeople(file string, people []domain.PersonRef) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM people WHERE file = ?", file); err != nil {
		return fmt.Errorf("clear people: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT OR REPLACE INTO people (file, person_id, uuid, name, search_name) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("prepare insert person: %w", err)
	}
	defer stmt.Close()

	for _, p := range people {
		if _, err := stmt.Exec(file, p.PersonID, p.UUID, p.Name, domain.PlainName(p.Name)); err != nil {
			return fmt.Errorf("insert person %s: %w", p.PersonID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit people: %w", err)
	}
	return nil
}

// CrossReferences returns the other files holding a person with the same
// UUID, ordered by name
func (s *Store) CrossReferences(file string, id uuid.UUID) ([]string, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := s.db.Query(
		"SELECT DISTINCT file FROM people WHERE uuid = ? AND file <> ? ORDER BY file",
		id, file,
	)
	if err != nil {
		return nil, fmt.Errorf("cross references: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan file name: %w", err)
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

// likeEscaper makes LIKE wildcards in a query match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// SearchPeople performs a simple name search across all files
func (s *Store) SearchPeople(query string, limit int) ([]domain.PersonRef, error) {
	rows, err := s.db.Query(
		"SELECT uuid, file, person_id, name FROM people WHERE search_name LIKE ? ESCAPE '\\' ORDER BY search_name, file, person_id LIMIT ?",
		"%"+likeEscaper.Replace(domain.PlainName(query))+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search people: %w", err)
	}
	defer rows.Close()

	var people []domain.PersonRef
	for rows.Next() {
		var p domain.PersonRef
		if err := rows.Scan(&p.UUID, &p.File, &p.PersonID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, p)
	}

	return people, rows.Err()
}
