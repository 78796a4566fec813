package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/extract"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/server/middleware"
	"github.com/jonathan/resume-parser/internal/types"
)

// multipartOverhead is the allowance for multipart boundaries and headers on top of the file limit
const multipartOverhead = 64 << 10

// upload is a validated document received from a client
type upload struct {
	data []byte
	meta *ingestion.Metadata
}

// readUpload reads and validates the multipart "file" field
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return nil, &types.SizeLimitError{Size: r.ContentLength, Limit: s.maxUpload}
		}
		return nil, &ErrValidation{Field: "file", Message: "invalid multipart form"}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, &ErrValidation{Field: "file", Message: "a file upload is required"}
	}
	defer func() { _ = file.Close() }()

	req := &types.ParseRequest{Filename: header.Filename, Size: header.Size, MaxSize: s.maxUpload}
	if err := req.Validate(); err != nil {
		var sizeErr *types.SizeLimitError
		if errors.As(err, &sizeErr) {
			return nil, sizeErr
		}
		return nil, validationError(err)
	}

	format, err := extract.FormatFromFilename(header.Filename)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return &upload{data: data, meta: ingestion.NewMetadata(data, header.Filename, format)}, nil
}

// validationError converts validator errors on ParseRequest into an ErrValidation
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Field() {
		case "Filename":
			return &ErrValidation{Field: "filename", Message: "a filename is required (max 255 characters)"}
		case "Size":
			return &ErrValidation{Field: "file", Message: "file is empty"}
		}
		return &ErrValidation{Field: strings.ToLower(fe.Field()), Message: fe.Tag()}
	}
	return &ErrValidation{Field: "file", Message: err.Error()}
}

// requestSubject returns the authenticated token subject, or "anonymous" when auth is off
func requestSubject(r *http.Request) string {
	subject, err := middleware.GetSubject(r)
	if err != nil {
		return "anonymous"
	}
	return subject
}

// saveParse stores the result when storage is configured. Storage failures are
// logged and do not fail the request.
func (s *Server) saveParse(ctx context.Context, meta *ingestion.Metadata, result *types.ParseResult) (uuid.UUID, bool) {
	if s.store == nil {
		return uuid.Nil, false
	}
	id, err := s.store.SaveParse(ctx, meta, result)
	if err != nil {
		s.logger.Error("failed to store parse", "filename", meta.Filename, "error", err)
		return uuid.Nil, false
	}
	return id, true
}

// handleParseResume parses an uploaded PDF or DOCX and returns the ParseResult
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.parser.Parse(r.Context(), up.data, up.meta.Filename)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("parsed upload", "filename", up.meta.Filename, "subject", requestSubject(r), "warnings", len(result.Warnings))

	if id, ok := s.saveParse(r.Context(), up.meta, result); ok {
		w.Header().Set("X-Parse-ID", id.String())
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleParseResumeStream parses an upload and streams progress as Server-Sent Events
func (s *Server) handleParseResumeStream(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	parser := pipeline.New(pipeline.Options{
		Logger:  s.logger,
		Cleaner: s.cleaner,
		OnProgress: func(event pipeline.ProgressEvent) {
			if err := sse.WriteEvent(eventProgress, event); err != nil {
				s.logger.Warn("failed to write SSE event", "step", event.Step, "error", err)
			}
		},
	})

	result, err := parser.Parse(r.Context(), up.data, up.meta.Filename)
	if err != nil {
		_ = sse.WriteError(err)
		return
	}

	resp := types.ParseResponse{Result: result}
	if id, ok := s.saveParse(r.Context(), up.meta, result); ok {
		resp.ID = id.String()
	}
	_ = sse.WriteComplete(resp)
}

// handleGetParse returns a stored parse by ID
func (s *Server) handleGetParse(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrStorageDisabled{})
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	rec, err := s.store.GetParse(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rec == nil {
		s.writeError(w, &ErrNotFound{Resource: "parse", ID: idStr})
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleDeleteParse removes a stored parse
func (s *Server) handleDeleteParse(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrStorageDisabled{})
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	if err := s.store.DeleteParse(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrParseNotFound) {
			s.writeError(w, &ErrNotFound{Resource: "parse", ID: idStr})
			return
		}
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted", "id": idStr})
}

// handleListParses lists stored parses, newest first
func (s *Server) handleListParses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrStorageDisabled{})
		return
	}

	q := r.URL.Query()
	filters := db.ParseFilters{
		Filename: q.Get("filename"),
		Format:   q.Get("format"),
	}
	for name, dst := range map[string]*int{"limit": &filters.Limit, "offset": &filters.Offset} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				s.writeError(w, &ErrValidation{Field: name, Message: "must be a non-negative integer"})
				return
			}
			*dst = n
		}
	}

	parses, err := s.store.ListParses(r.Context(), filters)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"parses": parses, "count": len(parses)})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "storage": "disabled"}
	status := http.StatusOK

	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			s.logger.Warn("storage health check failed", "error", err)
			resp["status"] = "degraded"
			resp["storage"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			resp["storage"] = "ok"
		}
	}
	s.jsonResponse(w, status, resp)
}
