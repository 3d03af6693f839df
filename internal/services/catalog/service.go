package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgrepo "github.com/LV27VELASCO/ApiFamaYa/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrServiceNotFound = errors.New("service not found")
)

type Store interface {
	FindServiceBySlug(ctx context.Context, slug string) (pgrepo.ServiceRecord, error)
	ListServices(ctx context.Context) ([]pgrepo.ServiceRecord, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) ServiceBySlug(ctx context.Context, slug string) (pgrepo.ServiceRecord, error) {
	if s.store == nil {
		return pgrepo.ServiceRecord{}, fmt.Errorf("catalog store is nil")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return pgrepo.ServiceRecord{}, ErrValidation
	}

	record, err := s.store.FindServiceBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgrepo.ErrServiceNotFound) {
			return pgrepo.ServiceRecord{}, ErrServiceNotFound
		}
		return pgrepo.ServiceRecord{}, err
	}

	return record, nil
}

func (s *Service) AllServices(ctx context.Context) ([]pgrepo.ServiceRecord, error) {
	if s.store == nil {
		return nil, fmt.Errorf("catalog store is nil")
	}

	records, err := s.store.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrServiceNotFound
	}

	return records, nil
}
