package apiserver

import (
	"net/http"

	dnacodec "github.com/seqforge/dna-codec"
	"github.com/seqforge/dna-codec/pkg/constraints"
)

type encodeResponse struct {
	Sequences            []string                `json:"sequences"`
	Metadata             encodeMetadata          `json:"metadata"`
	ZipFile              string                  `json:"zip_file"`
	ConstraintViolations []constraints.Violation `json:"constraint_violations,omitempty"`
}

type encodeMetadata struct {
	dnacodec.Metadata
	ErrorCorrection string `json:"error_correction"`
}

type decodeRequest struct {
	Sequences       []string `json:"sequences"`
	Password        string   `json:"password,omitempty"`
	ErrorCorrection string   `json:"error_correction,omitempty"`
}

type decodeResponse struct {
	DecodedData string `json:"decoded_data"`
	DecodedSize int    `json:"decoded_size"`
	IsEncrypted bool   `json:"is_encrypted"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type AuthFunc func(req *http.Request) error

type Option func(*Server)
