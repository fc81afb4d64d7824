package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MutationObserver is notified once per mutating call with the operation name and its outcome.
type MutationObserver interface {
	ObserveMutation(op, outcome string)
}

// Service validates requests before they reach the Repository. Uniqueness is left to the
// storage constraint so that concurrent adds of one name resolve to exactly one winner.
type Service struct {
	repo     Repository
	logger   *zap.Logger
	observer MutationObserver
}

func NewService(repo Repository, logger *zap.Logger, observer MutationObserver) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		logger:   logger.With(zap.String("component", "inventory")),
		observer: observer,
	}
}

func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

func (s *Service) Add(ctx context.Context, name string, quantity int) error {
	if err := validate(name, quantity); err != nil {
		s.observe("add", err)
		return err
	}
	err := s.repo.Add(ctx, name, quantity)
	s.observe("add", err)
	if err != nil {
		return err
	}
	s.logger.Info("item_added", zap.String("name", name), zap.Int("quantity", quantity))
	return nil
}

// Remove always succeeds for a well-formed name, whether or not the record existed.
func (s *Service) Remove(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		s.observe("remove", err)
		return err
	}
	err := s.repo.Remove(ctx, name)
	s.observe("remove", err)
	if err != nil {
		return err
	}
	s.logger.Info("item_removed", zap.String("name", name))
	return nil
}

func (s *Service) UpdateQuantity(ctx context.Context, name string, quantity int) error {
	if err := validate(name, quantity); err != nil {
		s.observe("update", err)
		return err
	}
	err := s.repo.UpdateQuantity(ctx, name, quantity)
	s.observe("update", err)
	if err != nil {
		return err
	}
	s.logger.Info("quantity_updated", zap.String("name", name), zap.Int("quantity", quantity))
	return nil
}

func (s *Service) observe(op string, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveMutation(op, Outcome(err))
}

// Outcome returns a low-cardinality label for err.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func validate(name string, quantity int) error {
	if err := validateName(name); err != nil {
		return err
	}
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must be a non-negative integer", ErrInvalidInput)
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return nil
}
