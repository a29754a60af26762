package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dtroode/portfolio-server/internal/model"
)

var _ model.DocumentStore = (*DocumentRepository)(nil)

// DocumentRepository keeps documents in a local sqlite file.
type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

// Ping checks the database file is reachable.
func (r *DocumentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *DocumentRepository) Get(ctx context.Context, collection, id string) (model.Document, error) {
	const query = `SELECT data FROM documents WHERE collection = ? AND id = ?`

	var raw string
	err := r.db.QueryRowContext(ctx, query, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	return decodeDocument(raw)
}

func (r *DocumentRepository) List(ctx context.Context, collection string) ([]model.StoredDocument, error) {
	const query = `SELECT id, data FROM documents WHERE collection = ? ORDER BY created_at, rowid`

	rows, err := r.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []model.StoredDocument{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}

		data, err := decodeDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("document %s/%s: %w", collection, id, err)
		}
		docs = append(docs, model.StoredDocument{ID: id, Data: data})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

func (r *DocumentRepository) Set(ctx context.Context, collection, id string, doc model.Document) error {
	const query = `
		INSERT INTO documents (collection, id, data)
		VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE
		SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, collection, id, string(raw))
	return err
}

func (r *DocumentRepository) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM documents WHERE collection = ? AND id = ?`
	_, err := r.db.ExecContext(ctx, query, collection, id)
	return err
}

func decodeDocument(raw string) (model.Document, error) {
	doc := model.Document{}
	if raw == "" {
		return doc, nil
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
