package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dom "Tasks/internal/domain"
	"Tasks/internal/repo"

	"github.com/jackc/pgx/v5"
)

// SubscriptionService owns the paid entitlement of a user. Expiry is lazy:
// every read compares subscription_ends with the clock and persists the lapse,
// there is no background sweep.
type SubscriptionService struct {
	users repo.UserRepo
	now   func() time.Time
}

// NewSubscriptionService returns a new SubscriptionService.
func NewSubscriptionService(users repo.UserRepo) *SubscriptionService {
	return &SubscriptionService{users: users, now: func() time.Time { return time.Now().UTC() }}
}

// Status returns the caller's subscription after applying expiry.
func (s *SubscriptionService) Status(ctx context.Context, userID string) (dom.Subscription, error) {
	u, err := s.current(ctx, userID)
	if err != nil {
		return dom.Subscription{}, err
	}
	return u.Subscription(), nil
}

// Entitled reports whether the user may hold an unlimited number of todos.
func (s *SubscriptionService) Entitled(ctx context.Context, userID string) (bool, error) {
	u, err := s.current(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.IsSubscribed, nil
}

// Activate starts or renews a one month subscription from now.
func (s *SubscriptionService) Activate(ctx context.Context, userID string) (dom.Subscription, error) {
	if userID == "" {
		return dom.Subscription{}, ErrUnauthenticated
	}
	ends := periodEnd(s.now())
	u, err := s.users.SetSubscription(ctx, userID, true, &ends)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Subscription{}, ErrNotFound
		}
		return dom.Subscription{}, fmt.Errorf("activate subscription: %w", err)
	}
	return u.Subscription(), nil
}

// SetForEmail is the admin override: enabling grants a one month window,
// disabling clears it.
func (s *SubscriptionService) SetForEmail(ctx context.Context, email string, subscribed bool) (dom.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return dom.User{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, fmt.Errorf("get user by email: %w", err)
	}
	var ends *time.Time
	if subscribed {
		t := periodEnd(s.now())
		ends = &t
	}
	u, err = s.users.SetSubscription(ctx, u.ID, subscribed, ends)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, fmt.Errorf("set subscription: %w", err)
	}
	return u, nil
}

// Refresh applies expiry to an already loaded user.
func (s *SubscriptionService) Refresh(ctx context.Context, u dom.User) (dom.User, error) {
	if !u.Expired(s.now()) {
		return u, nil
	}
	if err := s.users.ExpireSubscription(ctx, u.ID, s.now()); err != nil {
		return dom.User{}, fmt.Errorf("expire subscription: %w", err)
	}
	u.IsSubscribed = false
	u.SubscriptionEnds = nil
	return u, nil
}

func (s *SubscriptionService) current(ctx context.Context, userID string) (dom.User, error) {
	if userID == "" {
		return dom.User{}, ErrUnauthenticated
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, fmt.Errorf("get user: %w", err)
	}
	return s.Refresh(ctx, u)
}

// periodEnd adds one calendar month. Day overflow normalizes forward, so
// Jan 31 becomes Mar 3 (or Mar 2 in a leap year).
func periodEnd(from time.Time) time.Time {
	return from.AddDate(0, 1, 0)
}
