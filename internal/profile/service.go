package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prashant0268/shamyraweb/internal/domain"
	"github.com/prashant0268/shamyraweb/internal/identity"
	"github.com/prashant0268/shamyraweb/internal/repository"
)

type Store interface {
	SaveProfile(ctx context.Context, userID string, update domain.ProfileUpdate) error
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
}

type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) Save(ctx context.Context, session identity.Session, update domain.ProfileUpdate) error {
	if !session.Authenticated() {
		return identity.ErrUnauthenticated
	}

	if err := s.store.SaveProfile(ctx, session.UserID, update); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	s.log.Info("profile saved", "user_id", session.UserID)
	return nil
}

// Get returns the stored profile, or an empty profile for a user who
// has never saved one.
func (s *Service) Get(ctx context.Context, session identity.Session) (*domain.Profile, error) {
	if !session.Authenticated() {
		return nil, identity.ErrUnauthenticated
	}

	p, err := s.store.GetProfile(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return &domain.Profile{UserID: session.UserID}, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}
