// Package sqlite provides SQLite database writing for peptide maps
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pepmap/pepmap/pkg/core"
	"github.com/pepmap/pepmap/pkg/table"
	_ "github.com/mattn/go-sqlite3"
)

// Date format for HeaderTable (ISO 8601)
const headerDateFormat = "2006-01-02"

// Writer handles writing peptide maps to SQLite database files
type Writer struct {
	db          *sql.DB
	outputPath  string
	proteinStmt *sql.Stmt
	peptideStmt *sql.Stmt
	proteinID   int
	peptideID   int
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		proteinID:  1,
		peptideID:  1,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ProteinTable (
		ProteinId INTEGER PRIMARY KEY,
		Accession TEXT,
		UniprotURL TEXT,
		PeptideCount INTEGER
	);

	CREATE TABLE IF NOT EXISTS PeptideTable (
		PeptideId INTEGER PRIMARY KEY,
		ProteinId INTEGER REFERENCES ProteinTable(ProteinId),
		Sequence TEXT,
		Position INTEGER
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		NoofProteins INTEGER,
		NoofPeptides INTEGER,
		Description TEXT
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.proteinStmt, err = w.db.Prepare(`
		INSERT INTO ProteinTable (ProteinId, Accession, UniprotURL, PeptideCount)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare protein statement: %w", err)
	}

	w.peptideStmt, err = w.db.Prepare(`
		INSERT INTO PeptideTable (PeptideId, ProteinId, Sequence, Position)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare peptide statement: %w", err)
	}

	return nil
}

// WriteProtein writes one protein code and its peptide list to the database
func (w *Writer) WriteProtein(code string, peptides []string) error {
	_, err := w.proteinStmt.Exec(
		w.proteinID,                 // ProteinId
		code,                        // Accession
		table.UniprotURIPrefix+code, // UniprotURL
		len(peptides),               // PeptideCount
	)
	if err != nil {
		return fmt.Errorf("failed to insert protein %s: %w", code, err)
	}

	for i, seq := range peptides {
		_, err := w.peptideStmt.Exec(
			w.peptideID, // PeptideId
			w.proteinID, // ProteinId
			seq,         // Sequence
			i,           // Position (first-occurrence order)
		)
		if err != nil {
			return fmt.Errorf("failed to insert peptide %s: %w", seq, err)
		}
		w.peptideID++
	}

	w.proteinID++
	return nil
}

// WriteMap writes an entire peptide map, proteins in sorted accession order
func (w *Writer) WriteMap(m core.PeptideMap) error {
	for _, code := range m.Proteins() {
		if err := w.WriteProtein(code, m[code]); err != nil {
			return err
		}
	}
	return nil
}

// Finalize writes the header table and closes the database
func (w *Writer) Finalize() error {
	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, NoofProteins, NoofPeptides, Description)
		VALUES (?, ?, ?, ?, ?)
	`, 1, time.Now().Format(headerDateFormat), w.proteinID-1, w.peptideID-1, "")
	if err != nil {
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Close prepared statements
	if w.proteinStmt != nil {
		w.proteinStmt.Close()
	}
	if w.peptideStmt != nil {
		w.peptideStmt.Close()
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
