// Package archive persists simulation runs: the encoded result document of
// each run plus enough metadata to list and retrieve it later.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cypress/internal/model"
)

// Run is one archived simulation run. Payload holds the encoded result
// document; listings omit it.
type Run struct {
	SchemaVersion int        `json:"schema_version"`
	CodecVersion  int        `json:"codec_version"`
	ID            string     `json:"id"`
	Simulator     string     `json:"simulator"`
	CreatedAt     time.Time  `json:"created_at"`
	Duration      model.Real `json:"duration"`
	Payload       []byte     `json:"payload,omitempty"`

	// PayloadSize is derived on load so listings can report sizes without
	// carrying the payload itself.
	PayloadSize int64 `json:"payload_size,omitempty"`
}

// Store defines the persistence operations for archived runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context) ([]Run, error)
	DeleteRun(ctx context.Context, id string) error
	Reset(ctx context.Context) error
}

// NewRunID mints a fresh archive identifier.
func NewRunID() string {
	return uuid.NewString()
}
