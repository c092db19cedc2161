package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo persists projects in Postgres. The files mapping is stored as a
// single JSONB document, mirroring the opaque blob the API exposes.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, ownerID string) (*Project, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrOwnerRequired
	}

	p := &Project{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Files:   DefaultFiles(),
	}
	blob, err := json.Marshal(p.Files)
	if err != nil {
		return nil, fmt.Errorf("marshal files: %w", err)
	}

	const q = `
insert into projects (id, owner_id, files)
values ($1::uuid, $2, $3::jsonb)
returning created_at, updated_at;
`
	if err := r.db.QueryRow(ctx, q, p.ID, p.OwnerID, blob).
		Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Project, error) {
	// A malformed id cannot resolve to a record; callers get not-found,
	// never a server error.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	const q = `
select id::text, owner_id, files, created_at, updated_at
from projects
where id = $1::uuid;
`
	var p Project
	var blob []byte
	err := r.db.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.OwnerID, &blob, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select project: %w", err)
	}
	if err := json.Unmarshal(blob, &p.Files); err != nil {
		return nil, fmt.Errorf("unmarshal files: %w", err)
	}
	return &p, nil
}

// SaveFiles replaces the stored file set wholesale and bumps updated_at.
func (r *Repo) SaveFiles(ctx context.Context, id string, files map[string]string) (*Project, error) {
	if len(files) == 0 {
		return nil, ErrEmptyFiles
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	blob, err := json.Marshal(files)
	if err != nil {
		return nil, fmt.Errorf("marshal files: %w", err)
	}

	const q = `
update projects
set files = $2::jsonb, updated_at = now()
where id = $1::uuid
returning id::text, owner_id, created_at, updated_at;
`
	var p Project
	err = r.db.QueryRow(ctx, q, id, blob).
		Scan(&p.ID, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	p.Files = files
	return &p, nil
}

// CountOrphans counts projects that were created before the cutoff and
// never saved again. The bootstrap race in older clients produced these.
func (r *Repo) CountOrphans(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
select count(*)
from projects
where updated_at = created_at and created_at < $1;
`
	var n int64
	if err := r.db.QueryRow(ctx, q, cutoff).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orphans: %w", err)
	}
	return n, nil
}

// PurgeOrphans deletes never-saved projects older than the cutoff.
func (r *Repo) PurgeOrphans(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
delete from projects
where updated_at = created_at and created_at < $1;
`
	ct, err := r.db.Exec(ctx, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge orphans: %w", err)
	}
	return ct.RowsAffected(), nil
}
