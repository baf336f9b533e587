package apiserver

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	dnacodec "github.com/seqforge/dna-codec"
	"github.com/seqforge/dna-codec/pkg/codecerr"
	"github.com/seqforge/dna-codec/pkg/constraints"
	"github.com/seqforge/dna-codec/pkg/ecc"
)

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "multipart/form-data") {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: "expected multipart/form-data"})
		return
	}

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("failed to parse multipart form: %v", err)})
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file field is required"})
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, s.maxUpload+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("failed to read file: %v", err)})
		return
	}
	if int64(len(payload)) > s.maxUpload {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Error: fmt.Sprintf("upload exceeds %d bytes", s.maxUpload),
		})
		return
	}

	opts := dnacodec.EncodeOptions{
		Password:   r.FormValue("password"),
		BaseLength: s.defaultBaseLength,
		Level:      s.defaultLevel,
	}
	if v := strings.TrimSpace(r.FormValue("base_length")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid base_length: %v", err)})
			return
		}
		opts.BaseLength = n
	}
	if v := strings.TrimSpace(r.FormValue("error_correction")); v != "" {
		level, err := ecc.ParseLevel(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		opts.Level = level
	}

	result, err := s.codec.Encode(r.Context(), payload, opts)
	if err != nil {
		s.writeCodecError(w, r, "encode", err)
		return
	}

	archive, err := zipSequences(result.Sequences)
	if err != nil {
		s.log.Error("failed to build sequence archive", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
		return
	}

	writeJSON(w, http.StatusOK, encodeResponse{
		Sequences: result.Sequences,
		Metadata: encodeMetadata{
			Metadata:        result.Metadata,
			ErrorCorrection: result.Metadata.Level.String(),
		},
		ZipFile:              base64.StdEncoding.EncodeToString(archive),
		ConstraintViolations: constraints.CheckAll(result.Sequences, s.policy),
	})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, s.maxUpload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	opts := dnacodec.DecodeOptions{Password: req.Password, Level: s.defaultLevel}
	if v := strings.TrimSpace(req.ErrorCorrection); v != "" {
		level, err := ecc.ParseLevel(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		opts.Level = level
	}

	payload, err := s.codec.Decode(r.Context(), req.Sequences, opts)
	if err != nil {
		s.writeCodecError(w, r, "decode", err)
		return
	}

	writeJSON(w, http.StatusOK, decodeResponse{
		DecodedData: base64.StdEncoding.EncodeToString(payload),
		DecodedSize: len(payload),
		IsEncrypted: req.Password != "",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy"})
}

// writeCodecError maps the codec's error taxonomy onto HTTP statuses. Caller
// mistakes are 400, credential problems 401, and damage the redundancy could
// not absorb 422, since the request itself was well formed.
func (s *Server) writeCodecError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError

	var confErr *codecerr.ConfigurationError
	var valErr *codecerr.ValidationError
	var authErr *codecerr.AuthenticationError
	var uncErr *codecerr.UncorrectableError
	var sumErr *codecerr.ChecksumMismatchError
	var missErr *codecerr.MissingChunkError
	var report *codecerr.DecodeReport

	// A multi-failure report is judged as a whole before its constituents:
	// it always means the sequence set could not be decoded.
	switch {
	case errors.As(err, &report):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &authErr):
		status = http.StatusUnauthorized
	case errors.As(err, &uncErr), errors.As(err, &sumErr), errors.As(err, &missErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &confErr), errors.As(err, &valErr):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "op", op, "error", err, "path", r.URL.Path)
		writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// zipSequences packages the sequences as numbered text files for download.
func zipSequences(sequences []string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, seq := range sequences {
		f, err := zw.Create(fmt.Sprintf("sequence_%d.txt", i))
		if err != nil {
			return nil, fmt.Errorf("create archive entry %d: %w", i, err)
		}
		if _, err := f.Write([]byte(seq)); err != nil {
			return nil, fmt.Errorf("write archive entry %d: %w", i, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
