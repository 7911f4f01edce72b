package business

import "context"

type Repository interface {
	GetProfile(ctx context.Context) (*Profile, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (*Profile, error) {
	return s.repo.GetProfile(ctx)
}
