package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ExportKind is what an export contains.
type ExportKind string

const (
	// ExportKindSentence is a plain-text sentence export.
	ExportKindSentence ExportKind = "sentence"
	// ExportKindLog is a letter log export.
	ExportKindLog ExportKind = "log"
)

// Export is an archived export.
type Export struct {
	ID        string
	Kind      ExportKind
	Path      string
	Sentence  string
	Entries   int
	CreatedAt time.Time
}

// Letter is one row of an archived letter log. Letters reads rows back
// ordered by Sequence.
type Letter struct {
	Sequence  int
	Timestamp string
	Letter    string
}

// ExportRepository provides access to archived exports.
type ExportRepository struct {
	db *sql.DB
}

// Exports returns the export repository for this store.
func (s *Store) Exports() *ExportRepository {
	return &ExportRepository{db: s.db}
}

// Create inserts an export and its letters in a single transaction.
// Letters may be empty for sentence exports.
func (r *ExportRepository) Create(e *Export, letters []Letter) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.Entries = len(letters)

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO exports (id, kind, path, sentence, entries, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Path, e.Sentence, e.Entries, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	if len(letters) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO export_letters (export_id, sequence, timestamp_iso, letter) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, l := range letters {
			if _, err := stmt.Exec(e.ID, l.Sequence, l.Timestamp, l.Letter); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetByID retrieves an export by its ID.
func (r *ExportRepository) GetByID(id string) (*Export, error) {
	e := &Export{}
	var kind string

	err := r.db.QueryRow(
		`SELECT id, kind, path, sentence, entries, created_at
		 FROM exports WHERE id = ?`,
		id,
	).Scan(&e.ID, &kind, &e.Path, &e.Sentence, &e.Entries, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	e.Kind = ExportKind(kind)
	return e, nil
}

// List retrieves all exports, newest first.
func (r *ExportRepository) List() ([]*Export, error) {
	rows, err := r.db.Query(
		`SELECT id, kind, path, sentence, entries, created_at
		 FROM exports ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exports []*Export
	for rows.Next() {
		e := &Export{}
		var kind string

		if err := rows.Scan(&e.ID, &kind, &e.Path, &e.Sentence, &e.Entries, &e.CreatedAt); err != nil {
			return nil, err
		}

		e.Kind = ExportKind(kind)
		exports = append(exports, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exports, nil
}

// Letters retrieves the letters of a log export in order.
func (r *ExportRepository) Letters(exportID string) ([]Letter, error) {
	rows, err := r.db.Query(
		`SELECT sequence, timestamp_iso, letter
		 FROM export_letters
		 WHERE export_id = ?
		 ORDER BY sequence`,
		exportID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var letters []Letter
	for rows.Next() {
		var l Letter
		if err := rows.Scan(&l.Sequence, &l.Timestamp, &l.Letter); err != nil {
			return nil, err
		}
		letters = append(letters, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return letters, nil
}

// Delete removes an export and its letters.
func (r *ExportRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM exports WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
