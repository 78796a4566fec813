// Package ingestion loads resume documents and records metadata about them.
package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jonathan/resume-parser/internal/extract"
)

// Metadata contains metadata about an ingested resume document
type Metadata struct {
	Filename  string         `json:"filename"`
	Format    extract.Format `json:"format"`
	Size      int64          `json:"size"`
	Timestamp string         `json:"timestamp"` // RFC3339 format
	Hash      string         `json:"hash"`      // SHA256 hex digest of the raw bytes
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(data []byte, filename string, format extract.Format) *Metadata {
	return &Metadata{
		Filename:  filename,
		Format:    format,
		Size:      int64(len(data)),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ComputeHash(data),
	}
}

// ComputeHash computes SHA256 hash of content and returns hex string
func ComputeHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
