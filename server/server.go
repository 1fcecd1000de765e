package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/areibman/vibeshift/generator"
	"github.com/areibman/vibeshift/report"
)

// Runner executes a single generation request.
type Runner interface {
	Run(ctx context.Context, req generator.Request) (*generator.Run, error)
}

type Server struct {
	runner       Runner
	defaultModel string
	store        *runStore
	logger       *zap.Logger
	timeout      time.Duration

	// runs share one registry document, so only one may be in flight.
	runMu sync.Mutex
}

type runStore struct {
	mu   sync.Mutex
	runs map[string]*generator.Run
}

func newStore() *runStore {
	return &runStore{runs: make(map[string]*generator.Run)}
}

func (s *runStore) set(run *generator.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
}

func (s *runStore) get(id string) (*generator.Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	return run, ok
}

// Options configure New.
type Options struct {
	DefaultModel string
	Logger       *zap.Logger
	// Timeout bounds one generation request; zero means 10 minutes.
	Timeout time.Duration
}

func New(runner Runner, opts Options) (*Server, error) {
	if runner == nil {
		return nil, errors.New("generation runner required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Minute
	}
	return &Server{
		runner:       runner,
		defaultModel: opts.DefaultModel,
		store:        newStore(),
		logger:       opts.Logger,
		timeout:      opts.Timeout,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generations", s.handleGenerationCreate)
	mux.HandleFunc("/api/generations/", s.handleGenerationByID)
	return s.logMiddleware(mux)
}

// --- Handlers ---

type generationResp struct {
	Run   *generator.Run `json:"run"`
	Error string         `json:"error,omitempty"`
}

func (s *Server) handleGenerationCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req generator.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := generator.ValidateName(generator.NormalizeName(req.Name)); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Prompt != "" {
		req.Prompt = generator.NormalizePrompt(req.Prompt)
	}
	if req.Model == "" {
		req.Model = s.defaultModel
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	s.runMu.Lock()
	run, err := s.runner.Run(ctx, req)
	s.runMu.Unlock()

	if run == nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.store.set(run)
	resp := generationResp{Run: run}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, statusFor(err), resp)
}

func (s *Server) handleGenerationByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/generations/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	run, ok := s.store.get(id)
	if !ok {
		http.Error(w, "generation not found", http.StatusNotFound)
		return
	}

	switch sub {
	case "":
		resp := generationResp{Run: run, Error: run.Err}
		writeJSON(w, http.StatusOK, resp)
	case "report":
		page, err := report.HTML(run)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	default:
		http.NotFound(w, r)
	}
}

// --- Helpers ---

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, generator.ErrCredential):
		return http.StatusBadGateway
	case errors.Is(err, generator.ErrPatch):
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
