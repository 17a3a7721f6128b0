// Package server exposes seedrand engines over HTTP.
//
// POST /v1/draw creates or restores an engine, draws values and returns
// them together with the descriptor of the engine's new position, so a
// client can resume the same stream with a later request.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/opd-ai/go-seedrand"
	"github.com/opd-ai/go-seedrand/internal/config"
)

// maxBodyBytes bounds the size of a draw request.
const maxBodyBytes = 1 << 16

// DrawRequest is the body of POST /v1/draw. When Descriptor is set the
// engine is restored from it and Seed is ignored.
type DrawRequest struct {
	Seed       string               `json:"seed"`
	SeedType   string               `json:"seed_type"`
	Kind       string               `json:"kind"`
	N          int                  `json:"n"`
	Jump       int64                `json:"jump"`
	Descriptor *seedrand.Descriptor `json:"descriptor,omitempty"`
}

// DrawResponse is the reply to POST /v1/draw.
type DrawResponse struct {
	Kind       string              `json:"kind"`
	Values     []string            `json:"values"`
	Descriptor seedrand.Descriptor `json:"descriptor"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP draw service.
type Server struct {
	router   chi.Router
	server   *http.Server
	log        zerolog.Logger
	maxCount   int
	maxAdvance int64
}

// New creates a server from cfg. It does not start listening.
func New(cfg config.ServerConfig, log zerolog.Logger) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		log:        log,
		maxCount:   cfg.MaxCount,
		maxAdvance: cfg.MaxAdvance,
	}
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	s.router.Use(chimid.RequestID)
	s.router.Use(accessLog(log))
	s.router.Use(chimid.Recoverer)
	s.router.Use(Compression)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/v1/draw", s.handleDraw)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Run listens and serves until Shutdown is called.
func (s *Server) Run() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	var req DrawRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	resp, err := s.draw(req)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// draw executes one request against a fresh engine.
func (s *Server) draw(req DrawRequest) (*DrawResponse, error) {
	if req.N < 0 || req.N > s.maxCount {
		return nil, fmt.Errorf("n must be in [0,%d], got %d", s.maxCount, req.N)
	}
	kindName := req.Kind
	if kindName == "" {
		kindName = seedrand.KindFloat64.String()
	}
	kind, err := seedrand.ParseKind(kindName)
	if err != nil {
		return nil, err
	}

	var e *seedrand.Engine
	if req.Descriptor != nil {
		if err := s.checkAdvance(*req.Descriptor); err != nil {
			return nil, err
		}
		e, err = seedrand.Restore(*req.Descriptor)
	} else {
		var seed any
		if seed, err = config.ParseSeed(req.Seed, req.SeedType); err == nil {
			e, err = seedrand.New(seed)
		}
	}
	if err != nil {
		return nil, err
	}
	if req.Jump != 0 {
		if err := e.Jump(req.Jump); err != nil {
			return nil, err
		}
	}

	text, err := e.AppendText(nil, kind, req.N)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, req.N)
	for _, line := range bytes.Split(bytes.TrimSuffix(text, []byte("\n")), []byte("\n")) {
		if len(line) > 0 {
			values = append(values, string(line))
		}
	}
	return &DrawResponse{Kind: kind.String(), Values: values, Descriptor: e.Descriptor()}, nil
}

// checkAdvance rejects descriptors whose positions would take Restore
// longer to reach than the configured limit allows. Restore discards
// output linearly up to the largest position.
func (s *Server) checkAdvance(d seedrand.Descriptor) error {
	positions := []int64{d.Adv}
	if d.Vals != nil {
		positions = append(positions, d.Vals.Adv)
	}
	if d.Ints != nil {
		positions = append(positions, d.Ints.Adv)
	}
	for _, adv := range positions {
		if adv > s.maxAdvance {
			return fmt.Errorf("descriptor position %d exceeds limit %d", adv, s.maxAdvance)
		}
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.log.Debug().Err(err).Str("request_id", chimid.GetReqID(r.Context())).Msg("draw rejected")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// accessLog logs one line per request at a level chosen by status.
func accessLog(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			var ev *zerolog.Event
			switch {
			case status >= 500:
				ev = log.Error()
			case status >= 400:
				ev = log.Warn()
			default:
				ev = log.Info()
			}
			ev.Int("status", status).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", chimid.GetReqID(r.Context())).
				Dur("latency", time.Since(start)).
				Msg("http.access")
		})
	}
}
