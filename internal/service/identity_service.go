package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Tasks/internal/cache"
	dom "Tasks/internal/domain"
	"Tasks/internal/repo"
	"Tasks/internal/utils"

	"github.com/jackc/pgx/v5"
)

// IdentityService mirrors identity provider users into the local users table.
type IdentityService struct {
	users repo.UserRepo
	cache *cache.TodoCache
}

// NewIdentityService returns a new IdentityService. If c is nil, no cache
// invalidation happens on user deletion.
func NewIdentityService(users repo.UserRepo, c *cache.TodoCache) *IdentityService {
	return &IdentityService{users: users, cache: c}
}

// Apply handles one verified event. Unknown event types are ignored.
func (s *IdentityService) Apply(ctx context.Context, evt dom.IdentityEvent) (dom.MirrorResult, error) {
	switch evt.Type {
	case dom.EventUserCreated:
		return s.created(ctx, evt)
	case dom.EventUserUpdated:
		return s.updated(ctx, evt)
	case dom.EventUserDeleted:
		return s.deleted(ctx, evt)
	default:
		return dom.MirrorIgnored, nil
	}
}

func (s *IdentityService) created(ctx context.Context, evt dom.IdentityEvent) (dom.MirrorResult, error) {
	if err := validateMirrorEvent(evt, true); err != nil {
		return dom.MirrorIgnored, err
	}
	_, err := s.users.Create(ctx, evt.UserID, evt.PrimaryEmail)
	if err == nil {
		return dom.MirrorCreated, nil
	}
	if !utils.IsPGUniqueViolation(err) {
		return dom.MirrorIgnored, fmt.Errorf("create user: %w", err)
	}
	// Redelivered event: the id is already mirrored.
	_, getErr := s.users.GetByID(ctx, evt.UserID)
	switch {
	case getErr == nil:
		return dom.MirrorExisted, nil
	case errors.Is(getErr, pgx.ErrNoRows):
		return dom.MirrorIgnored, fmt.Errorf("%w: email %s belongs to another user", ErrValidation, evt.PrimaryEmail)
	}
	return dom.MirrorIgnored, fmt.Errorf("get user: %w", getErr)
}

func (s *IdentityService) updated(ctx context.Context, evt dom.IdentityEvent) (dom.MirrorResult, error) {
	if err := validateMirrorEvent(evt, true); err != nil {
		return dom.MirrorIgnored, err
	}
	if _, err := s.users.Upsert(ctx, evt.UserID, evt.PrimaryEmail); err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.MirrorIgnored, fmt.Errorf("%w: email %s belongs to another user", ErrValidation, evt.PrimaryEmail)
		}
		return dom.MirrorIgnored, fmt.Errorf("upsert user: %w", err)
	}
	return dom.MirrorUpdated, nil
}

func (s *IdentityService) deleted(ctx context.Context, evt dom.IdentityEvent) (dom.MirrorResult, error) {
	if err := validateMirrorEvent(evt, false); err != nil {
		return dom.MirrorIgnored, err
	}
	if err := s.users.Delete(ctx, evt.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.MirrorMissing, nil
		}
		return dom.MirrorIgnored, fmt.Errorf("delete user: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, evt.UserID)
	}
	return dom.MirrorDeleted, nil
}

func validateMirrorEvent(evt dom.IdentityEvent, needEmail bool) error {
	if strings.TrimSpace(evt.UserID) == "" {
		return fmt.Errorf("%w: %s event without user id", ErrValidation, evt.Type)
	}
	if needEmail && strings.TrimSpace(evt.PrimaryEmail) == "" {
		return fmt.Errorf("%w: no primary email in %s event", ErrValidation, evt.Type)
	}
	return nil
}
