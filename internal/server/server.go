// Package server hosts independent simulation sessions over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"evogame/internal/engine"
	"evogame/internal/logging"
	"evogame/internal/model"
)

const (
	maxBodyBytes = 1 << 20
	// maxRunRounds bounds a single run request; longer runs take several calls.
	maxRunRounds = 100_000
)

type Server struct {
	logger    *slog.Logger
	sessions  *sessionRegistry
	startTime time.Time
}

func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		logger:    logger,
		sessions:  newSessionRegistry(logger),
		startTime: time.Now(),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Post("/step", s.handleStep)
			r.Post("/run", s.handleRun)
			r.Get("/history", s.handleHistory)
			r.Get("/population", s.handlePopulation)
			r.Delete("/", s.handleDelete)
		})
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type createSessionResponse struct {
	ID     string              `json:"id"`
	Params model.Params        `json:"params"`
	Record model.HistoryRecord `json:"record"`
}

type runResponse struct {
	ID      string                `json:"id"`
	Round   int                   `json:"round"`
	Records []model.HistoryRecord `json:"records"`
}

type historyResponse struct {
	ID      string                `json:"id"`
	Params  model.Params          `json:"params"`
	History []model.HistoryRecord `json:"history"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.count(),
		"uptime":   time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"sessions": s.sessions.ids()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, APIError{Type: ErrTypeBadRequest, Message: err.Error()})
		return
	}
	p, err := decodeParams(body)
	if err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			s.fail(w, r, err)
			return
		}
		s.writeError(w, r, http.StatusBadRequest, APIError{Type: ErrTypeBadRequest, Message: err.Error()})
		return
	}

	sess, rec, err := s.sessions.create(p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("session created", "session", sess.id, "rule", p.Rule, "population", p.PopulationSize)
	s.writeJSON(w, http.StatusCreated, createSessionResponse{ID: sess.id, Params: p, Record: rec})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var rec model.HistoryRecord
	err := sess.with(func(e *engine.Engine) error {
		var err error
		rec, err = e.Step()
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// handleRun steps ?rounds=n times, or to the configured horizon when rounds
// is absent. It stops early, keeping the rounds already played, when the
// request is cancelled.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	rounds := -1
	if raw := r.URL.Query().Get("rounds"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxRunRounds {
			s.writeError(w, r, http.StatusBadRequest, APIError{
				Type:    ErrTypeValidation,
				Message: fmt.Sprintf("rounds must be an integer in [0, %d], got %q", maxRunRounds, raw),
				Field:   "rounds",
			})
			return
		}
		rounds = n
	}

	resp := runResponse{ID: sess.id}
	ctx := r.Context()
	err := sess.with(func(e *engine.Engine) error {
		if rounds < 0 {
			p, err := e.Params()
			if err != nil {
				return err
			}
			rounds = min(max(p.Horizon()-e.Round(), 0), maxRunRounds)
		}
		resp.Records = make([]model.HistoryRecord, 0, rounds)
		for i := 0; i < rounds; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := e.Step()
			if err != nil {
				return err
			}
			resp.Records = append(resp.Records, rec)
		}
		resp.Round = e.Round()
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	resp := historyResponse{ID: sess.id}
	err := sess.with(func(e *engine.Engine) error {
		p, err := e.Params()
		if err != nil {
			return err
		}
		resp.Params = p
		resp.History = e.History()
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePopulation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var pop engine.Population
	err := sess.with(func(e *engine.Engine) error {
		var err error
		pop, err = e.Population()
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pop)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.remove(id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("session deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return sess, true
}

// decodeParams reads the rule first so that omitted fields take that rule's
// defaults.
func decodeParams(body []byte) (model.Params, error) {
	var head struct {
		Rule string `json:"rule"`
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &head); err != nil {
			return model.Params{}, fmt.Errorf("decode params: %w", err)
		}
	}

	p := engine.DefaultSocialParams()
	if head.Rule != "" {
		rule, err := model.ParseRule(head.Rule)
		if err != nil {
			return model.Params{}, err
		}
		if rule == model.RuleGenetic {
			p = engine.DefaultGeneticParams()
		}
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &p); err != nil {
			// Malformed group sizes fail here, before Validate sees them.
			if errors.Is(err, model.ErrInvalidGroupSize) {
				return model.Params{}, &engine.ValidationError{
					Field:      "group_size",
					Constraint: `must be "all" or an integer`,
					Value:      err.Error(),
				}
			}
			return model.Params{}, fmt.Errorf("decode params: %w", err)
		}
	}
	if p.Arena.Enabled {
		if p.Arena.Width == 0 {
			p.Arena.Width = engine.DefaultArenaWidth
		}
		if p.Arena.Height == 0 {
			p.Arena.Height = engine.DefaultArenaHeight
		}
	}
	return p, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	s.writeError(w, r, status, body)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, body APIError) {
	body.RequestID = middleware.GetReqID(r.Context())
	s.writeJSON(w, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
