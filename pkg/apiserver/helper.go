package apiserver

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/seqforge/dna-codec/pkg/constraints"
	"github.com/seqforge/dna-codec/pkg/ecc"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.log = logger
		}
	}
}

func WithAuth(auth AuthFunc) Option {
	return func(s *Server) {
		if auth != nil {
			s.auth = auth
		}
	}
}

// WithAuthToken requires a bearer token on every endpoint except /health. An
// empty token leaves the server open.
func WithAuthToken(token string) Option {
	return func(s *Server) {
		if token == "" {
			return
		}
		s.auth = func(r *http.Request) error {
			presented := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				return fmt.Errorf("invalid bearer token")
			}
			return nil
		}
	}
}

func WithMaxUpload(bytes int64) Option {
	return func(s *Server) {
		if bytes > 0 {
			s.maxUpload = bytes
		}
	}
}

// WithDefaults sets the encoding parameters used when a request leaves them
// unspecified.
func WithDefaults(baseLength int, level ecc.Level) Option {
	return func(s *Server) {
		if baseLength > 0 {
			s.defaultBaseLength = baseLength
		}
		if level.Valid() {
			s.defaultLevel = level
		}
	}
}

func WithConstraintPolicy(policy constraints.Policy) Option {
	return func(s *Server) {
		s.policy = policy
	}
}
