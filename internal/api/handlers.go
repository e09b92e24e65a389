package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"hearing/internal/adapter/cache"
	"hearing/internal/adapter/nlp"
	"hearing/internal/adapter/source"
	"hearing/internal/adapter/speaker"
	"hearing/internal/usecase"
)

// upload is a transcript received in an analyze request.
type upload struct {
	data     []byte
	filename string
	format   string
	titles   []string
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	up, status, err := s.readUpload(r)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	opts, err := s.analyzeOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := cache.Key(up.data,
		up.format,
		up.filename,
		strings.Join(up.titles, "\x1f"),
		strconv.FormatBool(opts.FlushTrailing),
		string(opts.WordSplit),
		strconv.Itoa(opts.Precision),
	)
	if s.cache != nil {
		if analysis, ok := s.cache.Get(key); ok {
			w.Header().Set("X-Cache", "hit")
			writeJSON(w, http.StatusOK, analysis)
			return
		}
	}

	doc, err := s.loader.Parse(bytes.NewReader(up.data), up.filename, up.format)
	if err != nil {
		switch {
		case errors.Is(err, source.ErrMarkerNotFound):
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			jsonError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	log := s.log.With("filename", up.filename, "format", up.format)
	matcher := speaker.NewMatcher(speaker.BuildPatterns(up.titles))
	uc := usecase.NewAnalyzeUseCase(s.tokenizers(up.titles), matcher, opts, log)

	analysis, err := uc.Analyze(r.Context(), doc, nil)
	if err != nil {
		var statusErr *nlp.StatusError
		switch {
		case errors.Is(err, usecase.ErrNoSpeakers):
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.As(err, &statusErr):
			jsonError(w, err.Error(), http.StatusBadGateway)
		default:
			log.Error("analysis failed", "error", err)
			jsonError(w, "analysis failed: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	if s.cache != nil {
		s.cache.Put(key, analysis)
	}
	w.Header().Set("X-Cache", "miss")
	writeJSON(w, http.StatusOK, analysis)
}

// readUpload accepts either a multipart form with a "file" field or a raw
// body with a ?format= query parameter.
func (s *Server) readUpload(r *http.Request) (*upload, int, error) {
	up := &upload{}

	var body io.Reader
	var values map[string][]string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, uploadErrorStatus(err), fmt.Errorf("invalid multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("file is required: %w", err)
		}
		defer file.Close()

		body = file
		up.filename = sanitizeFilename(header.Filename)
		values = r.MultipartForm.Value
	} else {
		body = r.Body
		up.filename = sanitizeFilename(r.URL.Query().Get("filename"))
	}

	data, err := io.ReadAll(io.LimitReader(body, s.opts.MaxUploadBytes+1))
	if err != nil {
		return nil, uploadErrorStatus(err), fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.opts.MaxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.opts.MaxUploadBytes)
	}
	up.data = data

	query := r.URL.Query()
	up.format = firstValue(values["format"], query.Get("format"))
	if up.format == "" && up.filename == "" {
		return nil, http.StatusBadRequest, errors.New("format or filename is required")
	}

	up.titles = s.opts.Titles
	if titles := append(values["title"], query["title"]...); len(titles) > 0 {
		up.titles = titles
	}
	return up, http.StatusOK, nil
}

func (s *Server) analyzeOptions(r *http.Request) (usecase.AnalyzeOptions, error) {
	opts := s.opts.Analyze
	q := r.URL.Query()
	if v := q.Get("flush_trailing"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid flush_trailing %q", v)
		}
		opts.FlushTrailing = b
	}
	if v := q.Get("word_split"); v != "" {
		switch usecase.WordSplit(v) {
		case usecase.SplitSpace, usecase.SplitFields:
			opts.WordSplit = usecase.WordSplit(v)
		default:
			return opts, fmt.Errorf("invalid word_split %q", v)
		}
	}
	return opts, nil
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	titles := s.opts.Titles
	if q := r.URL.Query()["title"]; len(q) > 0 {
		titles = q
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"titles":   titles,
		"patterns": speaker.BuildPatterns(titles),
	})
}

func (s *Server) handleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	dropped := 0
	if s.cache != nil {
		dropped = s.cache.Size()
		s.cache.Invalidate()
	}
	writeJSON(w, http.StatusOK, map[string]any{"dropped": dropped})
}

func uploadErrorStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func firstValue(values []string, fallback string) string {
	if len(values) > 0 && values[0] != "" {
		return values[0]
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	if name == "" {
		return ""
	}
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
