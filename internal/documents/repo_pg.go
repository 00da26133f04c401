package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    account_id,
    title,
    file_name,
    mime_type,
    size_bytes,
    storage_key,
    extracted_text,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, $8)`

	var storageKey sql.NullString
	if doc.StorageKey != "" {
		storageKey = sql.NullString{String: doc.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.AccountID,
		doc.Title,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		storageKey,
		doc.CreatedAt,
	)
	return err
}

// GetByID fetches a document by ID scoped to its owning account.
func (r *PGRepo) GetByID(ctx context.Context, accountID, documentID string) (Document, error) {
	const query = `
SELECT id, account_id, title, file_name, mime_type, size_bytes, storage_key, extracted_text, created_at
FROM documents
WHERE account_id = $1 AND id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, accountID, documentID)
	doc, err := scanDocument(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByAccount lists documents ordered newest-first.
func (r *PGRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, account_id, title, file_name, mime_type, size_bytes, storage_key, extracted_text, created_at
FROM documents
WHERE account_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// SetExtractedText fills extracted text only when the column is still NULL.
func (r *PGRepo) SetExtractedText(ctx context.Context, accountID, documentID, text string) (bool, error) {
	const query = `
UPDATE documents
SET extracted_text = $3
WHERE account_id = $1 AND id = $2 AND extracted_text IS NULL`
	res, err := r.DB.ExecContext(ctx, query, accountID, documentID, text)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanDocument(scan func(dest ...any) error) (Document, error) {
	var doc Document
	var mimeType sql.NullString
	var storageKey sql.NullString
	var extractedText sql.NullString
	err := scan(
		&doc.ID,
		&doc.AccountID,
		&doc.Title,
		&doc.FileName,
		&mimeType,
		&doc.SizeBytes,
		&storageKey,
		&extractedText,
		&doc.CreatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if mimeType.Valid {
		doc.MimeType = mimeType.String
	}
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
	}
	if extractedText.Valid {
		doc.ExtractedText = extractedText.String
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
