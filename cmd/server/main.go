package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dnacodec "github.com/seqforge/dna-codec"
	"github.com/seqforge/dna-codec/internal/config"
	"github.com/seqforge/dna-codec/pkg/apiserver"
	"github.com/seqforge/dna-codec/pkg/ecc"
	"github.com/seqforge/dna-codec/pkg/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(logging.ParseLevel(conf.LogLevel))

	level, err := ecc.ParseLevel(conf.ErrorCorrection)
	if err != nil {
		logger.Error("invalid error correction level", "error", err)
		os.Exit(1)
	}

	codec := dnacodec.New(dnacodec.Config{
		Logger:  logger,
		Workers: conf.Workers,
	})
	defer codec.Close()

	server := apiserver.New(codec,
		apiserver.WithLogger(logger),
		apiserver.WithAuthToken(conf.AuthToken),
		apiserver.WithMaxUpload(int64(conf.MaxUploadMB)<<20),
		apiserver.WithDefaults(conf.BaseLength, level),
	)

	httpServer := &http.Server{
		Addr:              conf.Addr(),
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			"addr", conf.Addr(),
			"baseLength", conf.BaseLength,
			"errorCorrection", level.String(),
			"authEnabled", conf.AuthToken != "",
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
		logger.Info("server stopped")
	}
}
