package generate

import (
	"context"
	"fmt"
	"io"

	"curriculum-backend/internal/accounts"
	"curriculum-backend/internal/curriculum"
	"curriculum-backend/internal/documents"
	"curriculum-backend/internal/llm"
	"curriculum-backend/internal/shared/metrics"
	"curriculum-backend/internal/shared/telemetry"
)

// Each generation, regardless of type, costs one credit.
const generationCost = 1

// Service orchestrates a generation: document lookup, credit debit,
// prompt construction, and the provider stream.
type Service struct {
	Documents *documents.Service
	Accounts  *accounts.Service
	Cache     *curriculum.Cache
	Client    llm.StreamClient
}

// Request describes one generation call.
type Request struct {
	DocumentID string
	Type       string
	Weeks      int
}

// Start runs every fallible step that precedes the first streamed byte and
// returns the open provider stream. The credit is debited before the stream
// is opened; a provider failure anywhere before the first fragment arrives
// refunds it. Start waits for that first fragment itself, so a caller that
// gets a stream back can commit the response status.
func (s *Service) Start(ctx context.Context, accountID string, req Request) (llm.Stream, error) {
	if req.DocumentID == "" {
		return nil, ErrInvalidInput
	}

	text, err := s.curriculumText(ctx, accountID, req.DocumentID)
	if err != nil {
		return nil, err
	}

	if err := s.Accounts.Charge(ctx, accountID, generationCost); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(req.Type, text, req.Weeks)

	stream, err := s.Client.StreamGenerate(ctx, prompt)
	if err != nil {
		s.Accounts.Refund(ctx, accountID, generationCost)
		telemetry.Error("llm stream open failed", map[string]any{
			"accountId":  accountID,
			"documentId": req.DocumentID,
			"type":       req.Type,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	// Pull the first fragment here so a stream that opens and then dies
	// without producing output still counts as a start failure.
	first, recvErr := stream.Recv()
	if recvErr != nil && recvErr != io.EOF {
		stream.Close()
		s.Accounts.Refund(ctx, accountID, generationCost)
		telemetry.Error("llm stream failed before first fragment", map[string]any{
			"accountId":  accountID,
			"documentId": req.DocumentID,
			"type":       req.Type,
			"error":      recvErr.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, recvErr)
	}

	metrics.IncGenerationStarted()
	return &peekedStream{first: first, peekErr: recvErr, rest: stream}, nil
}

// peekedStream replays the fragment Start consumed while probing the
// provider, then hands off to the underlying stream.
type peekedStream struct {
	first   string
	peekErr error
	served  bool
	rest    llm.Stream
}

func (p *peekedStream) Recv() (string, error) {
	if !p.served {
		p.served = true
		if p.peekErr != nil {
			return "", p.peekErr
		}
		return p.first, nil
	}
	return p.rest.Recv()
}

func (p *peekedStream) Close() error {
	return p.rest.Close()
}

// InvalidateDocument drops any cached curriculum text for the document.
func (s *Service) InvalidateDocument(accountID, documentID string) {
	if s.Cache != nil {
		s.Cache.Invalidate(cacheKey(accountID, documentID))
	}
}

func (s *Service) curriculumText(ctx context.Context, accountID, documentID string) (string, error) {
	compute := func(ctx context.Context) (string, error) {
		doc, err := s.Documents.Get(ctx, accountID, documentID)
		if err != nil {
			return "", err
		}
		return doc.CurriculumText(), nil
	}
	if s.Cache == nil {
		return compute(ctx)
	}
	return s.Cache.Get(ctx, cacheKey(accountID, documentID), compute)
}

func cacheKey(accountID, documentID string) string {
	return accountID + ":" + documentID
}
