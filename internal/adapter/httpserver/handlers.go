package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/talentsift/resume-parser/internal/config"
	"github.com/talentsift/resume-parser/internal/domain"
	"github.com/talentsift/resume-parser/internal/usecase"
)

const defaultListLimit = 20

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Uploads    usecase.UploadService
	Results    usecase.ResultService
	Enhancer   usecase.EnhanceService
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
	KafkaCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, uploads usecase.UploadService, results usecase.ResultService, enhancer usecase.EnhanceService, dbCheck, redisCheck, kafkaCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Uploads: uploads, Results: results, Enhancer: enhancer, DBCheck: dbCheck, RedisCheck: redisCheck, KafkaCheck: kafkaCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

func acceptsJSON(r *http.Request) bool {
	a := r.Header.Get("Accept")
	return a == "" || a == "*/*" || strings.Contains(a, "application/json")
}

// UploadHandler handles multipart upload of one resume file.
func (s *Server) UploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(r) {
			writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "not acceptable"}})
			return
		}
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		// Allow some multipart overhead above the file cap; the use case
		// enforces the exact per-file limit.
		maxBytes := s.Cfg.MaxUploadBytes()
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes*2)
		if err := r.ParseMultipartForm(maxBytes * 2); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeError(w, r, fmt.Errorf("%w: body exceeds %d MB", domain.ErrFileTooLarge, s.Cfg.MaxUploadMB), nil)
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: file field required", domain.ErrInvalidArgument), map[string]string{"field": "file"})
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: read upload: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		id, err := s.Uploads.Ingest(r.Context(), data, header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id, "status": string(domain.StatusPending)})
	}
}

// ResultHandler returns the processing status and, when completed, the
// parsed resume with scores. Supports If-None-Match / 304.
func (s *Server) ResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(r) {
			writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "not acceptable"}})
			return
		}
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, r, fmt.Errorf("%w: id missing", domain.ErrInvalidArgument), nil)
			return
		}
		status, body, etag, err := s.Results.Fetch(r.Context(), id, r.Header.Get("If-None-Match"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.Header().Set("ETag", etag)
		if status == http.StatusNotModified {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, body)
	}
}

// ListHandler returns newest-first resume summaries.
func (s *Server) ListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultListLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", domain.ErrInvalidArgument), map[string]string{"limit": v})
				return
			}
			if n > 100 {
				n = 100
			}
			limit = n
		}
		out, err := s.Results.List(r.Context(), limit)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"resumes": out})
	}
}

type enhanceRequest struct {
	Resume domain.ParsedResume `json:"resume" validate:"required"`
}

// EnhanceHandler rewrites resume content for impact. AI trouble degrades
// to a deterministic fallback inside the use case, so this endpoint only
// fails on malformed input.
func (s *Server) EnhanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(r) {
			writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "not acceptable"}})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var req enhanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			verrs := map[string]string{}
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range ve {
					verrs[strings.ToLower(fe.Field())] = fe.Tag()
				}
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}
		enh, err := s.Enhancer.Enhance(r.Context(), req.Resume)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, enh)
	}
}

// HealthzHandler reports process liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler probes DB, Redis and Kafka.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	probe := func(ctx context.Context, name string, fn func(context.Context) error) check {
		if err := fn(ctx); err != nil {
			return check{Name: name, OK: false, Details: err.Error()}
		}
		return check{Name: name, OK: true}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 3)
		if s.DBCheck != nil {
			checks = append(checks, probe(ctx, "db", s.DBCheck))
		}
		if s.RedisCheck != nil {
			checks = append(checks, probe(ctx, "redis", s.RedisCheck))
		}
		if s.KafkaCheck != nil {
			checks = append(checks, probe(ctx, "kafka", s.KafkaCheck))
		}
		st := http.StatusOK
		for _, c := range checks {
			if !c.OK {
				st = http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
