package projects

import (
	"context"
	"errors"
	"time"
)

// Project is a named bag of source files owned by one user. The files
// mapping is the single source of truth for a project's contents; every
// save replaces it wholesale.
type Project struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"ownerId"`
	Files     map[string]string `json:"files"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

var (
	ErrNotFound      = errors.New("project not found")
	ErrOwnerRequired = errors.New("owner id required")
	ErrEmptyFiles    = errors.New("files must be a non-empty mapping")
)

// Store is the persistence contract the HTTP layer works against.
type Store interface {
	Create(ctx context.Context, ownerID string) (*Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	SaveFiles(ctx context.Context, id string, files map[string]string) (*Project, error)
}
