package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hearing/internal/adapter/analyzer"
	"hearing/internal/adapter/cache"
	"hearing/internal/adapter/source"
	"hearing/internal/domain"
	"hearing/internal/port"
	"hearing/internal/usecase"
)

const transcript = "    Chairman Crapo. The hearing will come to order." +
	"    Mr. Marcus. Thank you, Chairman." +
	"    Senator Brown. Why Libra? Why now?" +
	"    Chairman Crapo. Thank you."

func newTestServer(maxUpload int64) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := source.NewLoader(source.NewRegistry(nil, "    "), source.NewFetcher(time.Second), "", "", log)
	tokenizers := func(titles []string) port.Tokenizer { return analyzer.NewTokenizer(titles) }
	return NewServer(loader, tokenizers, cache.NewReportCache(8, time.Minute), Options{
		Titles:         []string{"Mr.", "Chairman", "Senator", "Chairwoman"},
		Analyze:        usecase.DefaultAnalyzeOptions(),
		MaxUploadBytes: maxUpload,
	}, log)
}

func decodeAnalysis(t *testing.T, rec *httptest.ResponseRecorder) domain.Analysis {
	t.Helper()
	var a domain.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return a
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestAnalyze_RawBody(t *testing.T) {
	srv := newTestServer(0)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze?format=text", strings.NewReader(transcript))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Cache") != "miss" {
		t.Errorf("expected cache miss on first request")
	}
	a := decodeAnalysis(t, rec)
	if len(a.Transcript) != 3 || len(a.Report.Speakers) != 3 {
		t.Fatalf("unexpected analysis %+v", a)
	}
	if a.Report.Speakers[2].Speaker != "Senator Brown" || a.Report.Speakers[2].Questions != 2 {
		t.Errorf("unexpected row %+v", a.Report.Speakers[2])
	}

	// Identical request is served from the cache.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze?format=text", strings.NewReader(transcript)))
	if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "hit" {
		t.Errorf("expected cache hit, got %d %q", rec.Code, rec.Header().Get("X-Cache"))
	}

	// Changing options changes the key.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze?format=text&flush_trailing=true", strings.NewReader(transcript)))
	if rec.Header().Get("X-Cache") != "miss" {
		t.Error("expected cache miss for different options")
	}
	if a := decodeAnalysis(t, rec); len(a.Transcript) != 4 {
		t.Errorf("expected trailing turn to be flushed, got %d turns", len(a.Transcript))
	}
}

func TestAnalyze_Multipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "../hearing.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("    Senator John Smith. Thank you.    Senator Jane Doe. You're welcome?"))
	mw.WriteField("title", "Senator")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestServer(0).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	a := decodeAnalysis(t, rec)
	if len(a.Transcript) != 1 || a.Transcript[0].Speaker != "Senator John Smith" || a.Transcript[0].Text != "Thank you." {
		t.Errorf("unexpected transcript %+v", a.Transcript)
	}
	if a.Title != "hearing" {
		t.Errorf("expected title from sanitized filename, got %q", a.Title)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name string
		url  string
		body string
		want int
	}{
		{"no speakers", "/api/analyze?format=text", "Nobody speaks here.", http.StatusUnprocessableEntity},
		{"missing format", "/api/analyze", transcript, http.StatusBadRequest},
		{"unsupported format", "/api/analyze?format=csv", transcript, http.StatusBadRequest},
		{"bad option", "/api/analyze?format=text&word_split=regex", transcript, http.StatusBadRequest},
		{"too large", "/api/analyze?format=text", strings.Repeat("x", 2048), http.StatusRequestEntityTooLarge},
	}
	srv := newTestServer(1024)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.url, strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("expected json error body, got %s", rec.Body.String())
			}
		})
	}
}

func TestPatterns(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patterns?title=Senator", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Titles   []string                `json:"titles"`
		Patterns []domain.SpeakerPattern `json:"patterns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Patterns) != 2 || resp.Patterns[1].Name != "Title-1" || len(resp.Patterns[1].Constraints) != 4 {
		t.Errorf("unexpected patterns %+v", resp.Patterns)
	}
}

func TestInvalidateCache(t *testing.T) {
	srv := newTestServer(0)
	srv.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/analyze?format=text", strings.NewReader(transcript)))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cache", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"dropped":1`) {
		t.Errorf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"../../etc/passwd": "passwd",
		"hearing.htm":      "hearing.htm",
		"a..b.txt":         "a_b.txt",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
