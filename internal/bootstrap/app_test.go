package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"curriculum-backend/internal/accounts"
	"curriculum-backend/internal/documents"
	"curriculum-backend/internal/llm"
	sharedauth "curriculum-backend/internal/shared/auth"
	"curriculum-backend/internal/shared/config"
)

type fixedStream struct {
	fragments []string
	idx       int
}

func (s *fixedStream) Recv() (string, error) {
	if s.idx < len(s.fragments) {
		fragment := s.fragments[s.idx]
		s.idx++
		return fragment, nil
	}
	return "", io.EOF
}

func (s *fixedStream) Close() error { return nil }

type fixedClient struct {
	fragments []string
}

func (c *fixedClient) StreamGenerate(context.Context, string) (llm.Stream, error) {
	return &fixedStream{fragments: c.fragments}, nil
}

func devConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		CORSAllowOrigin: []string{"http://localhost:3000"},
		InitialCredits:  5,
		CacheTTLSeconds: 3600,
		CacheMaxEntries: 1024,
		LLMProvider:     "openai",
	}
}

func bearerToken(t *testing.T, sub string) string {
	t.Helper()
	token, err := sharedauth.SignJWT(sharedauth.Claims{Sub: sub, Email: "u@example.com"})
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return "Bearer " + token
}

func TestBuildWithoutDatabaseUsesMemoryRepos(t *testing.T) {
	app, err := Build(devConfig(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if app.DB != nil {
		t.Fatalf("expected no database in dev without DATABASE_URL")
	}
	if _, ok := app.AccountsRepo.(*accounts.MemoryRepo); !ok {
		t.Fatalf("expected memory accounts repo, got %T", app.AccountsRepo)
	}
	if _, ok := app.DocumentsRepo.(*documents.MemoryRepo); !ok {
		t.Fatalf("expected memory documents repo, got %T", app.DocumentsRepo)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.Code)
	}
}

func TestProtectedRoutesRejectAnonymousCalls(t *testing.T) {
	app, err := Build(devConfig(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/documents"},
		{http.MethodPost, "/api/v1/generate"},
		{http.MethodPost, "/api/v1/checkout"},
		{http.MethodGet, "/api/v1/me"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		app.Router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestUploadGenerateFlowEndToEnd(t *testing.T) {
	app, err := Build(devConfig(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	app.GenerateService.Client = &fixedClient{fragments: []string{"Week 1: ", "Intro."}}

	accountID := "google:e2e"
	if _, err := app.AccountsService.Ensure(context.Background(), accounts.Account{
		ID:    accountID,
		Email: "u@example.com",
	}, 5); err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	token := bearerToken(t, accountID)

	// Upload a document through the real multipart route.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "algebra.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 minimal")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	uploadReq := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	uploadReq.Header.Set("Content-Type", mw.FormDataContentType())
	uploadReq.Header.Set("Authorization", token)
	uploadResp := httptest.NewRecorder()
	app.Router.ServeHTTP(uploadResp, uploadReq)
	if uploadResp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", uploadResp.Code, uploadResp.Body.String())
	}

	var uploaded struct {
		DocumentID string `json:"documentId"`
		Title      string `json:"title"`
	}
	if err := json.Unmarshal(uploadResp.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if uploaded.DocumentID == "" || uploaded.Title != "algebra" {
		t.Fatalf("unexpected upload response %+v", uploaded)
	}

	// Generate against the uploaded document.
	body := `{"documentId":"` + uploaded.DocumentID + `","type":"lesson"}`
	genReq := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(body))
	genReq.Header.Set("Content-Type", "application/json")
	genReq.Header.Set("Authorization", token)
	genResp := httptest.NewRecorder()
	app.Router.ServeHTTP(genResp, genReq)
	if genResp.Code != http.StatusOK {
		t.Fatalf("generate: expected 200, got %d: %s", genResp.Code, genResp.Body.String())
	}
	if got := genResp.Body.String(); got != "Week 1: Intro." {
		t.Fatalf("unexpected generation body %q", got)
	}

	// The /me route reflects the spent credit.
	meReq := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	meReq.Header.Set("Authorization", token)
	meResp := httptest.NewRecorder()
	app.Router.ServeHTTP(meResp, meReq)
	if meResp.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", meResp.Code, meResp.Body.String())
	}
	var me struct {
		AccountID string `json:"accountId"`
		Credits   int    `json:"credits"`
	}
	if err := json.Unmarshal(meResp.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	if me.AccountID != accountID || me.Credits != 4 {
		t.Fatalf("expected 4 credits after one generation, got %+v", me)
	}
}
