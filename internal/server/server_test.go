package server

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/server/ratelimit"
	"github.com/jonathan/resume-parser/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore is an in-memory ParseStore
type mockStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*db.ParseRecord
	pingErr error
	saveErr error
	filters db.ParseFilters
}

func newMockStore() *mockStore {
	return &mockStore{records: make(map[uuid.UUID]*db.ParseRecord)}
}

func (m *mockStore) SaveParse(_ context.Context, meta *ingestion.Metadata, result *types.ParseResult) (uuid.UUID, error) {
	if m.saveErr != nil {
		return uuid.Nil, m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.records[id] = &db.ParseRecord{ID: id, Filename: meta.Filename, Format: string(meta.Format), FileHash: meta.Hash, Result: result}
	return id, nil
}

func (m *mockStore) GetParse(_ context.Context, id uuid.UUID) (*db.ParseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id], nil
}

func (m *mockStore) ListParses(_ context.Context, filters db.ParseFilters) ([]db.ParseSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = filters
	out := []db.ParseSummary{}
	for _, rec := range m.records {
		out = append(out, db.ParseSummary{ID: rec.ID, Filename: rec.Filename, Format: rec.Format})
	}
	return out, nil
}

func (m *mockStore) DeleteParse(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("%w: %s", db.ErrParseNotFound, id)
	}
	delete(m.records, id)
	return nil
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	if opts.RateLimit == nil {
		opts.RateLimit = &ratelimit.Config{Enabled: false}
	}
	s := New(Config{Port: 0, MaxUploadBytes: 64 << 10}, opts)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func buildDOCX(t *testing.T, lines ...string) []byte {
	t.Helper()

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, line := range lines {
		body.WriteString(`<w:p><w:r><w:t>` + line + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func sampleDOCX(t *testing.T) []byte {
	return buildDOCX(t,
		"Jane Doe",
		"jane@example.com",
		"Skills",
		"Languages: Go, Python",
	)
}

// uploadRequest builds a multipart upload; an empty field name sends no file part
func uploadRequest(t *testing.T, path, field, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestParseResume_Success(t *testing.T) {
	store := newMockStore()
	s := newTestServer(t, Options{Store: store})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, uploadRequest(t, "/parse-resume", "file", "jane.docx", sampleDOCX(t)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result types.ParseResult
	decodeJSON(t, w, &result)
	require.NotNil(t, result.ContactInfo.Email)
	assert.Equal(t, "jane@example.com", *result.ContactInfo.Email)
	assert.Len(t, result.Skills, 2)

	id, err := uuid.Parse(w.Header().Get("X-Parse-ID"))
	require.NoError(t, err)
	assert.Contains(t, store.records, id)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestParseResume_StoreFailureStillReturnsResult(t *testing.T) {
	store := newMockStore()
	store.saveErr = errors.New("connection refused")
	s := newTestServer(t, Options{Store: store})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, uploadRequest(t, "/parse-resume", "file", "jane.docx", sampleDOCX(t)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Parse-ID"))
}

func TestParseResume_Errors(t *testing.T) {
	s := newTestServer(t, Options{})

	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing file",
			req:        func(t *testing.T) *http.Request { return uploadRequest(t, "/parse-resume", "", "", nil) },
			wantStatus: http.StatusBadRequest,
			wantError:  "file",
		},
		{
			name: "unsupported extension",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/parse-resume", "file", "notes.txt", []byte("hi"))
			},
			wantStatus: http.StatusBadRequest,
			wantError:  ".txt",
		},
		{
			name:       "empty file",
			req:        func(t *testing.T) *http.Request { return uploadRequest(t, "/parse-resume", "file", "empty.pdf", nil) },
			wantStatus: http.StatusBadRequest,
			wantError:  "empty",
		},
		{
			name: "too large",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/parse-resume", "file", "big.pdf", bytes.Repeat([]byte("a"), 200<<10))
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "too large",
		},
		{
			name: "corrupt pdf",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/parse-resume", "file", "cv.pdf", []byte("not a pdf at all"))
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "not multipart",
			req: func(*testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/parse-resume", strings.NewReader("{}"))
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, tt.req(t))

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			var resp map[string]string
			decodeJSON(t, w, &resp)
			assert.Contains(t, resp["error"], tt.wantError)
		})
	}
}

func TestParseResumeStream(t *testing.T) {
	store := newMockStore()
	s := newTestServer(t, Options{Store: store})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	req := uploadRequest(t, "/parse-resume/stream", "file", "jane.docx", sampleDOCX(t))
	httpReq, err := http.NewRequest(http.MethodPost, ts.URL+"/parse-resume/stream", req.Body)
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", req.Header.Get("Content-Type"))

	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var events []string
	var lastData string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
		}
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			lastData = data
		}
	}
	require.NoError(t, scanner.Err())

	require.NotEmpty(t, events)
	assert.Equal(t, eventComplete, events[len(events)-1])
	assert.Contains(t, events, eventProgress)

	var final types.ParseResponse
	require.NoError(t, json.Unmarshal([]byte(lastData), &final))
	assert.NotEmpty(t, final.ID)
	require.NotNil(t, final.Result)
	assert.Equal(t, "jane@example.com", *final.Result.ContactInfo.Email)
}

func TestParseResumeStream_ExtractionErrorEvent(t *testing.T) {
	s := newTestServer(t, Options{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, uploadRequest(t, "/parse-resume/stream", "file", "cv.pdf", []byte("not a pdf at all")))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "event: error")
	assert.Contains(t, body, `"status":422`)
}

func TestParses_Endpoints(t *testing.T) {
	store := newMockStore()
	s := newTestServer(t, Options{Store: store})
	id, err := store.SaveParse(context.Background(), &ingestion.Metadata{Filename: "jane.pdf", Format: "pdf"}, types.NewParseResult())
	require.NoError(t, err)

	t.Run("get", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parses/"+id.String(), nil))
		require.Equal(t, http.StatusOK, w.Code)
		var rec db.ParseRecord
		decodeJSON(t, w, &rec)
		assert.Equal(t, "jane.pdf", rec.Filename)
	})

	t.Run("get missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parses/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get bad id", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parses/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parses?limit=5&offset=10&format=pdf", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Parses []db.ParseSummary `json:"parses"`
			Count  int               `json:"count"`
		}
		decodeJSON(t, w, &resp)
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, db.ParseFilters{Format: "pdf", Limit: 5, Offset: 10}, store.filters)
	})

	t.Run("list bad limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parses?limit=-1", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/parses/"+id.String(), nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		decodeJSON(t, w, &resp)
		assert.Equal(t, "deleted", resp["status"])

		w = httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parses/"+id.String(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/parses/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete bad id", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/parses/42", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestParses_StorageDisabled(t *testing.T) {
	s := newTestServer(t, Options{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parses", nil))
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name        string
		store       *mockStore
		wantStatus  int
		wantStorage string
	}{
		{name: "no storage", wantStatus: http.StatusOK, wantStorage: "disabled"},
		{name: "storage ok", store: newMockStore(), wantStatus: http.StatusOK, wantStorage: "ok"},
		{name: "storage down", store: &mockStore{pingErr: errors.New("down")}, wantStatus: http.StatusServiceUnavailable, wantStorage: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{}
			if tt.store != nil {
				opts.Store = tt.store
			}
			s := newTestServer(t, opts)

			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp map[string]string
			decodeJSON(t, w, &resp)
			assert.Equal(t, tt.wantStorage, resp["storage"])
		})
	}
}

func TestAuthRequiredWhenConfigured(t *testing.T) {
	jwtCfg := &config.JWTConfig{Secret: "test-secret-key-0123456789", ExpirationHours: 1}
	var logs bytes.Buffer
	s := newTestServer(t, Options{JWT: jwtCfg, Logger: slog.New(slog.NewTextHandler(&logs, nil))})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, uploadRequest(t, "/parse-resume", "file", "jane.docx", sampleDOCX(t)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := NewJWTService(jwtCfg).GenerateToken("tester")
	require.NoError(t, err)
	req := uploadRequest(t, "/parse-resume", "file", "jane.docx", sampleDOCX(t))
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "subject=tester")

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code, "health stays public")
}

func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer(t, Options{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/parses", Method: "GET", Limit: 1, Window: time.Hour, Burst: 1},
		},
	}})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parses", nil))
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parses", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Options{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/parse-resume", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
