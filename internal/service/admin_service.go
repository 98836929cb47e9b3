package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dom "Tasks/internal/domain"
	"Tasks/internal/repo"

	"github.com/jackc/pgx/v5"
)

// AdminService is the cross-user surface used by administrators. It does not
// check roles itself; the access gate only routes admins here.
type AdminService struct {
	users repo.UserRepo
	todos *TodoService
	subs  *SubscriptionService
}

// NewAdminService returns a new AdminService.
func NewAdminService(users repo.UserRepo, todos *TodoService, subs *SubscriptionService) *AdminService {
	return &AdminService{users: users, todos: todos, subs: subs}
}

// FindByEmail returns the user with that email and a page of their todos. An
// unknown email yields a lookup with a nil User and no todos.
func (s *AdminService) FindByEmail(ctx context.Context, email string, page int) (dom.UserLookup, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return dom.UserLookup{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if page < 1 {
		page = 1
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.UserLookup{Todos: dom.TodoPage{Todos: []dom.Todo{}, CurrentPage: page}}, nil
		}
		return dom.UserLookup{}, fmt.Errorf("get user by email: %w", err)
	}
	if u, err = s.subs.Refresh(ctx, u); err != nil {
		return dom.UserLookup{}, err
	}
	todos, err := s.todos.List(ctx, u.ID, page, "")
	if err != nil {
		return dom.UserLookup{}, err
	}
	return dom.UserLookup{User: &u, Todos: todos}, nil
}

func (s *AdminService) SetSubscription(ctx context.Context, email string, subscribed bool) (dom.User, error) {
	return s.subs.SetForEmail(ctx, email, subscribed)
}

// UpdateTodo and DeleteTodo act on any todo id, not only those of the user
// currently looked up.
func (s *AdminService) UpdateTodo(ctx context.Context, todoID string, completed bool) (dom.Todo, error) {
	return s.todos.UpdateAny(ctx, todoID, completed)
}

func (s *AdminService) DeleteTodo(ctx context.Context, todoID string) error {
	return s.todos.DeleteAny(ctx, todoID)
}
