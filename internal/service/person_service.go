package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/presensia/presensia-backend/internal/model"
)

// PersonStore is the identity access the person service needs. Satisfied by
// repository.PersonRepository.
type PersonStore interface {
	Upsert(ctx context.Context, p *model.Person) error
	List(ctx context.Context) ([]model.Person, error)
}

// PersonService handles identity registration. Face image enrollment lives
// in the external matching service; this side only records who is known.
type PersonService struct {
	people PersonStore
	log    zerolog.Logger
}

// NewPersonService creates a PersonService.
func NewPersonService(people PersonStore, log zerolog.Logger) *PersonService {
	return &PersonService{people: people, log: log.With().Str("component", "person_service").Logger()}
}

// Register upserts a person by (name, role). Registering the same pair twice
// returns the stored row without creating a duplicate.
func (s *PersonService) Register(ctx context.Context, name string, role model.Role) (*model.Person, error) {
	p := &model.Person{Name: name, Role: role}
	if err := s.people.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("register person: %w", err)
	}
	s.log.Info().Str("name", p.Name).Str("role", string(p.Role)).Msg("Person registered")
	return p, nil
}

// List returns all registered people.
func (s *PersonService) List(ctx context.Context) ([]model.Person, error) {
	people, err := s.people.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return people, nil
}
