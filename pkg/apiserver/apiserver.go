// Package apiserver exposes the codec over HTTP. Payloads travel as multipart
// uploads on encode and as JSON sequence lists on decode; the health endpoint
// is unauthenticated so load balancers can probe it.
package apiserver

import (
	"log/slog"
	"net/http"

	dnacodec "github.com/seqforge/dna-codec"
	"github.com/seqforge/dna-codec/pkg/constraints"
	"github.com/seqforge/dna-codec/pkg/ecc"
)

const defaultMaxUpload = 32 << 20

type Server struct {
	mux       *http.ServeMux
	codec     *dnacodec.Codec
	log       *slog.Logger
	auth      AuthFunc
	maxUpload int64

	defaultBaseLength int
	defaultLevel      ecc.Level
	policy            constraints.Policy
}

func New(codec *dnacodec.Codec, opts ...Option) *Server {
	s := &Server{
		mux:               http.NewServeMux(),
		codec:             codec,
		log:               slog.Default(),
		auth:              defaultAuth,
		maxUpload:         defaultMaxUpload,
		defaultBaseLength: dnacodec.DefaultBaseLength,
		defaultLevel:      ecc.Basic,
		policy:            constraints.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /encode", s.handleEncode)
	s.mux.HandleFunc("POST /decode", s.handleDecode)
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "*"
	} else {
		w.Header().Set("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	w.Header().Set("Access-Control-Max-Age", "86400")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.URL.Path != "/health" {
		if err := s.auth(r); err != nil {
			s.log.Warn("authentication failed", "error", err, "path", r.URL.Path)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: http.StatusText(http.StatusUnauthorized)})
			return
		}
	}

	s.mux.ServeHTTP(w, r)
}

func defaultAuth(*http.Request) error {
	return nil
}
