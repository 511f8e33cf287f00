package members

import (
	"context"
)

// Service exposes member reads.
type Service struct {
	repo Repository
}

// NewService creates a new member service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all members, shareholders or not.
func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}
