package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/presensia/presensia-backend/internal/model"
)

// PersonRepository handles registered-identity data access.
type PersonRepository struct {
	pool *pgxpool.Pool
}

// NewPersonRepository creates a new PersonRepository.
func NewPersonRepository(pool *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

// GetByNameRole retrieves a person by the unique (name, role) pair.
// Returns pgx.ErrNoRows if absent.
func (r *PersonRepository) GetByNameRole(ctx context.Context, name string, role model.Role) (*model.Person, error) {
	p := &model.Person{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, role, created_at FROM people WHERE name = $1 AND role = $2`,
		name, role,
	).Scan(&p.ID, &p.Name, &p.Role, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Upsert registers a person if not already present. Registering an existing
// (name, role) pair is a no-op that returns the stored row.
func (r *PersonRepository) Upsert(ctx context.Context, p *model.Person) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO people (name, role)
		 VALUES ($1, $2)
		 ON CONFLICT (name, role) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, created_at`,
		p.Name, p.Role,
	).Scan(&p.ID, &p.CreatedAt)
}

// List returns all registered people ordered by role then name.
func (r *PersonRepository) List(ctx context.Context) ([]model.Person, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, role, created_at FROM people ORDER BY role ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		var p model.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.CreatedAt); err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}
