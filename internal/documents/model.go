package documents

import "time"

// Document represents an uploaded curriculum owned by an account.
type Document struct {
	ID            string
	AccountID     string
	Title         string
	FileName      string
	MimeType      string
	SizeBytes     int64
	StorageKey    string
	ExtractedText string
	CreatedAt     time.Time
}

// CurriculumText returns the text generation should run against: the
// extracted text when present, else the title as a degraded input.
func (d Document) CurriculumText() string {
	if d.ExtractedText != "" {
		return d.ExtractedText
	}
	return d.Title
}
