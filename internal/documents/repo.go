package documents

import "context"

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, accountID, documentID string) (Document, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]Document, error)
	// SetExtractedText fills extracted text at most once. It reports false
	// without writing when text is already present.
	SetExtractedText(ctx context.Context, accountID, documentID, text string) (bool, error)
}
