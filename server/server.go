// Package server exposes the tokenizer as a JSON HTTP API.
//
// Endpoints:
//
//	POST /api/analyze  body: {"text":"...","mode":"A|B|C","sentences":false}
//	POST /api/split    body: {"text":"...","mode":"C","index":0,"split_mode":"A"}
//	GET  /api/lookup?text=<text>
//	GET  /healthz
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/cors"

	"morphparse/config"
	"morphparse/lookup"
	"morphparse/model"
	"morphparse/tokenize"
)

const requestIDHeader = "X-Request-ID"

type analyzeRequest struct {
	Text      string `json:"text"`
	Mode      string `json:"mode"`
	Sentences bool   `json:"sentences"`
}

type analyzeResponse struct {
	model.Analysis
	Sentences [][]model.Token `json:"sentences,omitempty"`
}

type splitRequest struct {
	Text      string `json:"text"`
	Mode      string `json:"mode"`
	Index     int    `json:"index"`
	SplitMode string `json:"split_mode"`
}

type splitResponse struct {
	Morpheme model.Token     `json:"morpheme"`
	Mode     model.SplitMode `json:"mode"`
	Tokens   []model.Token   `json:"tokens"`
}

type lookupResponse struct {
	Text       string             `json:"text"`
	Candidates []lookup.Candidate `json:"candidates"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Server holds the shared tokenizer and the analysis cache.
type Server struct {
	tok     *tokenize.Tokenizer
	cache   *lru.Cache[string, analyzeResponse]
	logger  *log.Logger
	maxBody int64
	handler http.Handler
}

// New builds the handler chain: request ids, then CORS, then the routes.
func New(tok *tokenize.Tokenizer, cfg config.Server, logger *log.Logger) (*Server, error) {
	if tok == nil {
		return nil, errors.New("server: nil tokenizer")
	}
	if logger == nil {
		logger = log.Default()
	}
	cache, err := lru.New[string, analyzeResponse](max(cfg.CacheSize, 1))
	if err != nil {
		return nil, fmt.Errorf("server: cache: %w", err)
	}
	s := &Server{tok: tok, cache: cache, logger: logger, maxBody: cfg.MaxBodyBytes}
	if s.maxBody <= 0 {
		s.maxBody = config.Defaults().Server.MaxBodyBytes
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/split", s.handleSplit)
	mux.HandleFunc("GET /api/lookup", s.handleLookup)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	s.handler = s.withRequestID(c.Handler(mux))
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Printf("[SERVER] listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	}
}

type ctxKey struct{}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		s.logger.Printf("[SERVER] %s %s %s %d %s", id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrDictionaryUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[SERVER] encode error: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Printf("[SERVER] %s: %v", requestID(r), err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: requestID(r)})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &model.InvalidInputError{Offset: -1, Reason: fmt.Sprintf("request body: %v", err)}
	}
	return nil
}

func parseMode(s string) (model.SplitMode, error) {
	m, err := model.ParseSplitMode(s)
	if err != nil {
		return m, &model.InvalidInputError{Offset: -1, Reason: err.Error()}
	}
	return m, nil
}

func (s *Server) analyze(mode model.SplitMode, text string, sentences bool) (analyzeResponse, error) {
	key := fmt.Sprintf("%v\x00%t\x00%s", mode, sentences, text)
	if res, ok := s.cache.Get(key); ok {
		return res, nil
	}
	res := analyzeResponse{Analysis: model.Analysis{Text: text, Mode: mode}}
	if sentences {
		sents, err := s.tok.TokenizeSentences(mode, text)
		if err != nil {
			return res, err
		}
		res.Tokens = []model.Token{}
		for _, ms := range sents {
			recs := ms.Records()
			res.Sentences = append(res.Sentences, recs)
			res.Tokens = append(res.Tokens, recs...)
		}
	} else {
		ms, err := s.tok.Tokenize(mode, text)
		if err != nil {
			return res, err
		}
		res.Tokens = ms.Records()
	}
	s.cache.Add(key, res)
	return res, nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Text == "" {
		s.writeError(w, r, &model.InvalidInputError{Offset: -1, Reason: "missing 'text'"})
		return
	}
	mode, err := parseMode(req.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.analyze(mode, req.Text, req.Sentences)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res.ID = requestID(r)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := parseMode(req.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	splitMode, err := parseMode(req.SplitMode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ms, err := s.tok.Tokenize(mode, req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Index < 0 || req.Index >= len(ms) {
		s.writeError(w, r, &model.InvalidInputError{Offset: -1, Reason: fmt.Sprintf("index %d out of range [0,%d)", req.Index, len(ms))})
		return
	}
	m := ms[req.Index]
	writeJSON(w, http.StatusOK, splitResponse{
		Morpheme: m.Record(),
		Mode:     splitMode,
		Tokens:   m.Split(splitMode).Records(),
	})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		s.writeError(w, r, &model.InvalidInputError{Offset: -1, Reason: "missing 'text' query parameter"})
		return
	}
	cands := lookup.Candidates(s.tok.Lexicon(), s.tok.Grammar(), text)
	if cands == nil {
		cands = []lookup.Candidate{}
	}
	writeJSON(w, http.StatusOK, lookupResponse{Text: text, Candidates: cands})
}
