// Package dnacodec converts binary payloads into nucleotide sequences and
// back. The pipeline chunks the (optionally encrypted) payload, prefixes each
// chunk with a fixed metadata header, appends Reed-Solomon redundancy, and
// maps the protected block onto the {A,T,C,G} alphabet two bits per symbol.
// Decoding reverses the pipeline and tolerates bounded corruption per chunk.
//
// The codec is a pure transform: no state survives a call, no I/O happens
// inside it, and every entity it returns is freshly constructed.
package dnacodec

import (
	"log/slog"
	"os"

	workerpool "github.com/seqforge/dna-codec/pkg/workerPool"
)

// Config configures a Codec handle.
type Config struct {
	// Logger is an optional structured logger. If nil, a stderr logger is used.
	Logger *slog.Logger
	// Workers bounds the per-chunk fan-out. If below one, the pool sizes
	// itself from the CPU count.
	Workers int
}

// Codec owns the worker pool shared by encode and decode calls. A single
// handle is safe for concurrent use; per-call parameters travel in
// EncodeOptions and DecodeOptions, never on the handle.
type Codec struct {
	log  *slog.Logger
	pool *workerpool.Pool
}

func defaultLogger() *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(h)
}

// New constructs a codec handle and starts its worker pool.
func New(conf Config) *Codec {
	if conf.Logger == nil {
		conf.Logger = defaultLogger()
	}
	return &Codec{
		log:  conf.Logger,
		pool: workerpool.New(conf.Workers),
	}
}

// Close stops the worker pool. The handle must not be used afterwards.
func (c *Codec) Close() {
	c.pool.Close()
}
