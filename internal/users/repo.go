package users

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Ensure upserts a user row keyed by email and returns its id. Real
// credential handling lives nowhere in this system; the row only anchors
// project ownership.
func (r *Repo) Ensure(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("email required")
	}

	const q = `
insert into users (email, updated_at)
values ($1, now())
on conflict (email) do update
set updated_at = now()
returning id::text;
`
	var id string
	if err := r.db.QueryRow(ctx, q, email).Scan(&id); err != nil {
		return "", fmt.Errorf("ensure user: %w", err)
	}
	return id, nil
}
