package extract

import (
	"context"
	"strings"
	"testing"
)

func TestFromBytesRejectsNonPDFMime(t *testing.T) {
	cases := []string{
		"text/plain",
		"application/zip",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"",
	}
	for _, mime := range cases {
		_, err := FromBytes(context.Background(), []byte("hello"), mime)
		if err == nil {
			t.Fatalf("mime %q: expected unsupported mime error", mime)
		}
		if !strings.Contains(err.Error(), "unsupported mime type") {
			t.Fatalf("mime %q: unexpected error: %v", mime, err)
		}
	}
}

func TestFromBytesNormalizesMimeParameters(t *testing.T) {
	// The charset parameter must not defeat the PDF check; garbage bytes
	// should then fail inside the PDF parser, not at the mime gate.
	_, err := FromBytes(context.Background(), []byte("not a pdf"), "application/pdf; charset=binary")
	if err == nil {
		t.Fatalf("expected parse error for garbage bytes")
	}
	if strings.Contains(err.Error(), "unsupported mime type") {
		t.Fatalf("mime with parameters should pass the gate, got: %v", err)
	}
}
