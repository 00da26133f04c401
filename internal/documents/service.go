package documents

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"curriculum-backend/internal/extract"
	"curriculum-backend/internal/shared/storage/object"
)

// Extraction output is capped to keep prompts and rows bounded on large uploads.
const maxExtractedChars = 100000

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	// OnExtracted runs after text is first written for a document, so
	// downstream caches keyed by the document can drop stale entries.
	OnExtracted func(accountID, documentID string)
}

// Upload saves the file to object storage and records the document.
func (s *Service) Upload(ctx context.Context, accountID, fileName string, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, accountID, fileName, r)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		Title:      titleFromFileName(fileName),
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	return doc, nil
}

// Get fetches a document scoped to its owner.
func (s *Service) Get(ctx context.Context, accountID, documentID string) (Document, error) {
	if accountID == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, accountID, documentID)
}

// List returns the account's documents, newest first.
func (s *Service) List(ctx context.Context, accountID string, limit, offset int) ([]Document, error) {
	if accountID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByAccount(ctx, accountID, limit, offset)
}

// ExtractText pulls text out of the stored PDF and fills the document's
// extracted text at most once. It reports false when text was already
// present, in which case nothing is re-extracted or overwritten.
func (s *Service) ExtractText(ctx context.Context, accountID, documentID string) (bool, error) {
	doc, err := s.Repo.GetByID(ctx, accountID, documentID)
	if err != nil {
		return false, err
	}
	if doc.ExtractedText != "" {
		return false, nil
	}
	if doc.StorageKey == "" {
		return false, fmt.Errorf("document %s has no stored file", documentID)
	}

	text, err := extract.FromStoredObject(ctx, s.Store, doc.StorageKey, doc.MimeType)
	if err != nil {
		return false, err
	}
	if len(text) > maxExtractedChars {
		text = text[:maxExtractedChars]
	}

	wrote, err := s.Repo.SetExtractedText(ctx, accountID, documentID, text)
	if err != nil {
		return false, err
	}
	// A concurrent extraction may have filled the column first; that run won.
	if wrote && s.OnExtracted != nil {
		s.OnExtracted(accountID, documentID)
	}
	return wrote, nil
}

func titleFromFileName(fileName string) string {
	base := filepath.Base(fileName)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(title) == "" {
		return base
	}
	return title
}
