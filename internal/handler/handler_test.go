package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/Kross8/rag-api/internal/adapter/store"
	"github.com/Kross8/rag-api/internal/port"
	"github.com/Kross8/rag-api/internal/service"
)

type fakeEmbedder struct {
	vector []float32
}

func (f *fakeEmbedder) Dimension() int { return len(f.vector) }

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

type fakeCompleter struct {
	responses []string
	calls     int
}

func (f *fakeCompleter) ModelName() string { return "fake-model" }

func (f *fakeCompleter) Complete(_ context.Context, _ []port.Message, _ float64) (string, error) {
	resp := f.responses[f.calls%len(f.responses)]
	f.calls++
	return resp, nil
}

func newTestApp(completer *fakeCompleter) (*fiber.App, *store.MemoryStore) {
	mem := store.NewMemoryStore(2)
	embedder := &fakeEmbedder{vector: []float32{1, 0}}

	ingestService := service.NewIngestService(embedder, mem, 50)
	queryService := service.NewQueryService(embedder, mem, completer, 3, 0.7, 0.0)

	app := fiber.New()
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})
	api := app.Group("/api/v1")
	NewIngestHandler(ingestService).Register(api)
	NewQueryHandler(queryService).Register(api)
	return app, mem
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("failed to decode response json: %v", err)
	}
	return data
}

func TestHealth_OK(t *testing.T) {
	app, _ := newTestApp(&fakeCompleter{responses: []string{"ok"}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if data := decodeBody(t, resp); data["status"] != "healthy" {
		t.Fatalf("expected status 'healthy', got %v", data["status"])
	}
}

func TestIngest_StoresChunk(t *testing.T) {
	app, mem := newTestApp(&fakeCompleter{responses: []string{"ok"}})

	body, _ := json.Marshal(map[string]string{"text": "The Eiffel Tower is in Paris."})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	data := decodeBody(t, resp)
	if id, ok := data["id"].(string); !ok || id == "" {
		t.Fatalf("expected a chunk id, got %v", data["id"])
	}
	if mem.Len() != 1 {
		t.Fatalf("expected one stored chunk, got %d", mem.Len())
	}
}

func TestIngest_EmptyTextRejected(t *testing.T) {
	app, _ := newTestApp(&fakeCompleter{responses: []string{"ok"}})

	body, _ := json.Marshal(map[string]string{"text": "   "})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty text, got %d", resp.StatusCode)
	}
}

func TestQuery_EndToEndGrounded(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"The Eiffel Tower is in Paris.", "YES"}}
	app, _ := newTestApp(completer)

	ingestBody, _ := json.Marshal(map[string]string{"text": "The Eiffel Tower is in Paris.", "source": "manual"})
	ingestReq := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewReader(ingestBody))
	ingestReq.Header.Set("Content-Type", "application/json")
	if _, err := app.Test(ingestReq); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	queryBody, _ := json.Marshal(map[string]string{"question": "Where is the Eiffel Tower?"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewReader(queryBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	data := decodeBody(t, resp)
	if data["question"] != "Where is the Eiffel Tower?" {
		t.Fatalf("question not echoed: %v", data["question"])
	}
	if data["is_safe"] != true {
		t.Fatalf("expected is_safe = true, got %v", data["is_safe"])
	}
	if data["answer"] != "The Eiffel Tower is in Paris." {
		t.Fatalf("expected the generated answer, got %v", data["answer"])
	}
	contexts, ok := data["contexts"].([]any)
	if !ok || len(contexts) != 1 {
		t.Fatalf("expected one retrieved context, got %v", data["contexts"])
	}
}

func TestQuery_UngroundedAnswerRedacted(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"The tower is 330 meters tall.", "NO"}}
	app, _ := newTestApp(completer)

	body, _ := json.Marshal(map[string]string{"question": "How tall is the tower?"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	data := decodeBody(t, resp)
	if data["is_safe"] != false {
		t.Fatalf("expected is_safe = false, got %v", data["is_safe"])
	}
	if data["answer"] != service.RefusalAnswer {
		t.Fatalf("expected the fixed refusal sentence, got %v", data["answer"])
	}
}

func TestQuery_EmptyQuestionRejected(t *testing.T) {
	app, _ := newTestApp(&fakeCompleter{responses: []string{"ok"}})

	body, _ := json.Marshal(map[string]string{"question": ""})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty question, got %d", resp.StatusCode)
	}
}

func TestUpload_MissingFileRejected(t *testing.T) {
	app, _ := newTestApp(&fakeCompleter{responses: []string{"ok"}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without a file field, got %d", resp.StatusCode)
	}
}

func TestUpload_UnparseableDocumentReturnsStructuredError(t *testing.T) {
	app, _ := newTestApp(&fakeCompleter{responses: []string{"ok"}})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "broken.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("this is not a pdf document")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an unparseable document, got %d", resp.StatusCode)
	}
	data := decodeBody(t, resp)
	if msg, ok := data["error"].(string); !ok || msg == "" {
		t.Fatalf("expected a structured error message, got %v", data)
	}
}
