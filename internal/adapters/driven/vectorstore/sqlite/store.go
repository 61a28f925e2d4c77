// Package sqlite persists the vector index in a single SQLite database file.
//
// The file is self-describing: an index_meta row records the embedding
// model, its dimensionality and the build time, and Open refuses files
// whose embedding configuration does not match the active one. All writes
// happen inside one transaction, so an interrupted build never leaves a
// file that Open would report as valid.
//
// Similarity search itself runs over an in-memory copy of the entries
// (the corpus is one manual, small enough for an exact scan); SQLite is
// the durability layer, not the query engine.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// schemaVersion is bumped when the on-disk layout changes.
const schemaVersion = 1

// Store is a SQLite-backed implementation of driven.VectorStore.
type Store struct {
	db      *sql.DB
	path    string
	mem     *memory.Store
	model   string
	builtAt time.Time
}

// Exists reports whether an index file is present at path.
// It only checks presence; Open still validates the content.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Create creates a new, empty index file at path for the given embedding
// configuration, replacing any previous index wholesale. The index only
// becomes loadable once BulkAdd has committed.
func Create(path, model string, dimensions int) (*Store, error) {
	if model == "" || dimensions <= 0 {
		return nil, fmt.Errorf("%w: embedding model and dimensions are required", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	// Rebuilds replace the previous index wholesale.
	for _, stale := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing stale index: %w", err)
		}
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}

	return &Store{
		db:    db,
		path:  path,
		mem:   memory.New(dimensions),
		model: model,
	}, nil
}

// Open loads a previously built index from path.
// Returns domain.ErrIndexNotFound when the file is missing or was never
// finalised, and domain.ErrDimensionMismatch when the persisted embedding
// configuration differs from the requested one.
func Open(path, model string, dimensions int) (*Store, error) {
	if !Exists(path) {
		return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, path)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	var (
		version     int
		storedModel string
		storedDims  int
		builtAt     string
	)
	row := db.QueryRow("SELECT schema_version, embedding_model, dimensions, built_at FROM index_meta WHERE id = 1")
	if err := row.Scan(&version, &storedModel, &storedDims, &builtAt); err != nil {
		db.Close()
		// Missing table or missing row: the file is not a finalised index.
		return nil, fmt.Errorf("%w: %s: no index metadata", domain.ErrIndexNotFound, path)
	}

	if version != schemaVersion {
		db.Close()
		return nil, fmt.Errorf("%w: %s: unsupported schema version %d", domain.ErrIndexNotFound, path, version)
	}
	if model != "" && storedModel != model {
		db.Close()
		return nil, fmt.Errorf("%w: index built with model %q, configured model is %q",
			domain.ErrDimensionMismatch, storedModel, model)
	}
	if dimensions > 0 && storedDims != dimensions {
		db.Close()
		return nil, fmt.Errorf("%w: index has %d dimensions, configured model has %d",
			domain.ErrDimensionMismatch, storedDims, dimensions)
	}

	s := &Store{
		db:    db,
		path:  path,
		mem:   memory.New(storedDims),
		model: storedModel,
	}
	if t, err := time.Parse(time.RFC3339, builtAt); err == nil {
		s.builtAt = t
	}

	if err := s.loadChunks(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// schemaSQL defines the on-disk layout. Insertion order is preserved via
// the implicit rowid, which is how similarity ties stay deterministic.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS index_meta (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	schema_version INTEGER NOT NULL,
	embedding_model TEXT NOT NULL,
	dimensions INTEGER NOT NULL,
	built_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS chunks (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	source_uri TEXT NOT NULL,
	position INTEGER NOT NULL,
	content TEXT NOT NULL,
	embedding BLOB NOT NULL
);
`

// openDB opens the database with WAL mode for better concurrency.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	return db, nil
}

// BulkAdd stores all chunks and finalises the index in one transaction.
// Either every chunk and the index metadata are committed together, or
// the file stays unloadable.
func (s *Store) BulkAdd(ctx context.Context, chunks []domain.Chunk) error {
	for i := range chunks {
		if len(chunks[i].Embedding) != s.mem.Dimensions() {
			return fmt.Errorf("%w: chunk %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, chunks[i].ID, len(chunks[i].Embedding), s.mem.Dimensions())
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning index transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for i := range chunks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chunks (id, document_id, source_uri, position, content, embedding)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			chunks[i].ID, chunks[i].DocumentID, chunks[i].SourceURI,
			chunks[i].Position, chunks[i].Content, float32SliceToBytes(chunks[i].Embedding))
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunks[i].ID, err)
		}
	}

	builtAt := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO index_meta (id, schema_version, embedding_model, dimensions, built_at)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET built_at = excluded.built_at`,
		schemaVersion, s.model, s.mem.Dimensions(), builtAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing index metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}

	s.builtAt = builtAt
	return s.mem.BulkAdd(ctx, chunks)
}

// Search returns up to k chunks ranked by descending similarity.
func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]domain.ScoredChunk, error) {
	return s.mem.Search(ctx, embedding, k)
}

// Count returns the number of stored entries.
func (s *Store) Count() int {
	return s.mem.Count()
}

// Dimensions returns the embedding vector size recorded at build time.
func (s *Store) Dimensions() int {
	return s.mem.Dimensions()
}

// Model returns the embedding model recorded at build time.
func (s *Store) Model() string {
	return s.model
}

// BuiltAt returns when the index was finalised.
func (s *Store) BuiltAt() time.Time {
	return s.builtAt
}

// Path returns the index file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// loadChunks reads every entry into the in-memory store, preserving
// insertion order.
func (s *Store) loadChunks() error {
	rows, err := s.db.Query(
		"SELECT id, document_id, source_uri, position, content, embedding FROM chunks ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("reading chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.SourceURI,
			&chunk.Position, &chunk.Content, &blob); err != nil {
			return fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(blob)
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating chunks: %w", err)
	}

	if err := s.mem.BulkAdd(context.Background(), chunks); err != nil {
		if errors.Is(err, domain.ErrDimensionMismatch) {
			return fmt.Errorf("%w: %s: corrupt embedding data", domain.ErrIndexNotFound, s.path)
		}
		return err
	}
	return nil
}

// float32SliceToBytes converts a []float32 to little-endian bytes.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
