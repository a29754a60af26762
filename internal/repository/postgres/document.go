package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/portfolio-server/internal/model"
)

var _ model.DocumentStore = (*DocumentRepository)(nil)

type DocumentRepository struct {
	db *Connection
}

func NewDocumentRepository(db *Connection) *DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

func (r *DocumentRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *DocumentRepository) Get(ctx context.Context, collection, id string) (model.Document, error) {
	const query = `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	var raw []byte
	err := r.db.QueryRow(ctx, query, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	return decodeDocument(raw)
}

func (r *DocumentRepository) List(ctx context.Context, collection string) ([]model.StoredDocument, error) {
	const query = `
		SELECT id, data
		FROM documents
		WHERE collection = $1
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []model.StoredDocument{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
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

// Set writes doc under id, replacing whatever was stored there.
func (r *DocumentRepository) Set(ctx context.Context, collection, id string, doc model.Document) error {
	const query = `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()`

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = r.db.Exec(ctx, query, collection, id, string(raw))
	return err
}

// Delete removes the document. Deleting a missing document is not an error.
func (r *DocumentRepository) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, collection, id)
	return err
}

func decodeDocument(raw []byte) (model.Document, error) {
	doc := model.Document{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
