package scenario

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"
)

// ErrRevisionMismatch means an envelope was produced by a database at a
// different schema revision than the importing one. Run migrations on one
// side first.
var ErrRevisionMismatch = errors.New("schema revision mismatch")

// envelope is the gzip-compressed JSON document a scenario travels in. Ids
// inside the graph are the exporting database's; the importer remaps them.
type envelope struct {
	SchemaRevision string    `json:"schema_revision"`
	ExportedAt     time.Time `json:"exported_at"`
	Graph          graph     `json:"graph"`
}

// stampedRevision reads the migration stamp, or "" when nothing was applied.
func stampedRevision(db *gorm.DB) (string, error) {
	if !db.Migrator().HasTable("schema_version") {
		return "", nil
	}
	var revision string
	err := db.Raw("SELECT revision FROM schema_version").Scan(&revision).Error
	if err != nil {
		return "", fmt.Errorf("reading schema_version: %w", err)
	}
	return revision, nil
}

// Export writes one scenario with all its rows to w as a gzip-compressed JSON
// envelope carrying the database's schema revision.
func Export(ctx context.Context, db *gorm.DB, scenarioID int64, w io.Writer) error {
	db = db.WithContext(ctx)
	revision, err := stampedRevision(db)
	if err != nil {
		return err
	}
	g, err := load(db, scenarioID)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(w)
	enc := json.NewEncoder(zw)
	if err := enc.Encode(envelope{
		SchemaRevision: revision,
		ExportedAt:     time.Now().UTC(),
		Graph:          *g,
	}); err != nil {
		return fmt.Errorf("encoding envelope: %w", err)
	}
	return zw.Close()
}

// Import reads an envelope and inserts its scenario as a new root scenario.
// The envelope must come from a database at the same schema revision.
func Import(ctx context.Context, db *gorm.DB, r io.Reader) (int64, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("reading envelope: %w", err)
	}
	defer zr.Close()
	var env envelope
	if err := json.NewDecoder(zr).Decode(&env); err != nil {
		return 0, fmt.Errorf("decoding envelope: %w", err)
	}
	db = db.WithContext(ctx)
	revision, err := stampedRevision(db)
	if err != nil {
		return 0, err
	}
	if env.SchemaRevision != revision {
		return 0, fmt.Errorf("%w: envelope at %q, database at %q",
			ErrRevisionMismatch, env.SchemaRevision, revision)
	}
	var newID int64
	err = db.Transaction(func(tx *gorm.DB) error {
		newID, err = insert(tx, &env.Graph, nil)
		return err
	})
	if err != nil {
		return 0, err
	}
	return newID, nil
}
