package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-parser/internal/types"
)

// ParseRecord is a stored parse result
type ParseRecord struct {
	ID        uuid.UUID          `json:"id"`
	Filename  string             `json:"filename"`
	Format    string             `json:"format"`
	SizeBytes int64              `json:"size_bytes"`
	FileHash  string             `json:"file_hash"`
	Result    *types.ParseResult `json:"result,omitempty"`
	Warnings  int                `json:"warnings"`
	CreatedAt time.Time          `json:"created_at"`
}

// ParseSummary is a lightweight view of a stored parse for listing
type ParseSummary struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	Format    string    `json:"format"`
	FileHash  string    `json:"file_hash"`
	Warnings  int       `json:"warnings"`
	CreatedAt time.Time `json:"created_at"`
}

// ParseFilters holds optional filters for listing parses
type ParseFilters struct {
	Filename string
	Format   string
	Limit    int
	Offset   int
}

// Default and maximum page sizes for ListParses
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// normalize clamps the limit and offset to their allowed ranges
func (f ParseFilters) normalize() ParseFilters {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
