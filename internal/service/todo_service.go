package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"Tasks/internal/cache"
	dom "Tasks/internal/domain"
	"Tasks/internal/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

// MaxTitleLength bounds a todo title, counted in runes after trimming.
const MaxTitleLength = 200

// Entitlements decides whether a user is exempt from the free todo limit.
type Entitlements interface {
	Entitled(ctx context.Context, userID string) (bool, error)
}

// TodoLimits configures the free tier and pagination.
type TodoLimits struct {
	FreeLimit int
	PageSize  int
}

// DefaultTodoLimits is three todos for free users, ten per page.
var DefaultTodoLimits = TodoLimits{FreeLimit: 3, PageSize: 10}

type TodoService struct {
	repo   repo.TodoRepo
	subs   Entitlements
	cache  *cache.TodoCache
	limits TodoLimits
	sf     singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, subs Entitlements, c *cache.TodoCache, limits TodoLimits) *TodoService {
	if limits.PageSize <= 0 {
		limits.PageSize = DefaultTodoLimits.PageSize
	}
	if limits.FreeLimit < 0 {
		limits.FreeLimit = 0
	}
	return &TodoService{repo: r, subs: subs, cache: c, limits: limits}
}

// List returns one page of the user's todos whose title contains search,
// ignoring case. Pages start at 1; lower values are clamped.
func (s *TodoService) List(ctx context.Context, userID string, page int, search string) (dom.TodoPage, error) {
	if userID == "" {
		return dom.TodoPage{}, ErrUnauthenticated
	}
	if page < 1 {
		page = 1
	}
	search = strings.TrimSpace(search)

	if s.cache == nil {
		return s.loadPage(ctx, userID, page, search)
	}
	// The generation is read before the database so that a write committing
	// mid-load leaves this page under a generation nobody reads any more.
	gen, err := s.cache.Generation(ctx, userID)
	if err != nil {
		return s.loadPage(ctx, userID, page, search)
	}
	v, err, _ := s.sf.Do(cache.PageKey(userID, gen, page, search), func() (interface{}, error) {
		if p, ok, err := s.cache.GetPage(ctx, userID, gen, page, search); err == nil && ok {
			return p, nil
		}
		p, err := s.loadPage(ctx, userID, page, search)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetPage(ctx, userID, gen, search, p)
		return p, nil
	})
	if err != nil {
		return dom.TodoPage{}, err
	}
	return v.(dom.TodoPage), nil
}

func (s *TodoService) loadPage(ctx context.Context, userID string, page int, search string) (dom.TodoPage, error) {
	size := s.limits.PageSize
	total, err := s.repo.CountByUser(ctx, userID, search)
	if err != nil {
		return dom.TodoPage{}, fmt.Errorf("count todos: %w", err)
	}
	out := dom.TodoPage{
		Todos:       []dom.Todo{},
		TotalPages:  (total + size - 1) / size,
		CurrentPage: page,
	}
	if page > out.TotalPages {
		return out, nil
	}
	list, err := s.repo.ListByUser(ctx, userID, search, size, (page-1)*size)
	if err != nil {
		return dom.TodoPage{}, fmt.Errorf("list todos: %w", err)
	}
	if list != nil {
		out.Todos = list
	}
	return out, nil
}

// Create adds a todo for userID. Users without an active subscription are
// refused once they own FreeLimit todos.
func (s *TodoService) Create(ctx context.Context, userID, title string) (dom.Todo, error) {
	if userID == "" {
		return dom.Todo{}, ErrUnauthenticated
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Todo{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return dom.Todo{}, fmt.Errorf("%w: title must be at most %d characters", ErrValidation, MaxTitleLength)
	}

	entitled, err := s.subs.Entitled(ctx, userID)
	if err != nil {
		return dom.Todo{}, err
	}
	limit := s.limits.FreeLimit
	if entitled {
		limit = repo.NoLimit
	}

	t, err := s.repo.CreateWithinLimit(ctx, dom.Todo{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
	}, limit)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrLimitReached):
			return dom.Todo{}, fmt.Errorf("%w: free users can only create up to %d todos, subscribe for more", ErrQuotaExceeded, s.limits.FreeLimit)
		case errors.Is(err, pgx.ErrNoRows):
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Update sets the completion flag of a todo owned by requesterID.
func (s *TodoService) Update(ctx context.Context, requesterID, id string, completed bool) (dom.Todo, error) {
	if _, err := s.owned(ctx, requesterID, id); err != nil {
		return dom.Todo{}, err
	}
	return s.setCompleted(ctx, id, completed)
}

// Delete removes a todo owned by requesterID.
func (s *TodoService) Delete(ctx context.Context, requesterID, id string) error {
	t, err := s.owned(ctx, requesterID, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, t)
}

// UpdateAny sets the completion flag of any todo. Callers must have checked
// the admin role.
func (s *TodoService) UpdateAny(ctx context.Context, id string, completed bool) (dom.Todo, error) {
	if _, err := s.find(ctx, id); err != nil {
		return dom.Todo{}, err
	}
	return s.setCompleted(ctx, id, completed)
}

// DeleteAny removes any todo. Callers must have checked the admin role.
func (s *TodoService) DeleteAny(ctx context.Context, id string) error {
	t, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, t)
}

// owned loads the todo and checks it belongs to requesterID. Ownership is
// read from the database on every call.
func (s *TodoService) owned(ctx context.Context, requesterID, id string) (dom.Todo, error) {
	if requesterID == "" {
		return dom.Todo{}, ErrUnauthenticated
	}
	t, err := s.find(ctx, id)
	if err != nil {
		return dom.Todo{}, err
	}
	if t.UserID != requesterID {
		return dom.Todo{}, ErrForbidden
	}
	return t, nil
}

func (s *TodoService) find(ctx context.Context, id string) (dom.Todo, error) {
	// Ids are UUIDs; anything else cannot exist.
	if _, err := uuid.Parse(id); err != nil {
		return dom.Todo{}, ErrNotFound
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

func (s *TodoService) setCompleted(ctx context.Context, id string, completed bool) (dom.Todo, error) {
	t, err := s.repo.SetCompleted(ctx, id, completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	s.invalidateCache(ctx, t.UserID)
	return t, nil
}

func (s *TodoService) delete(ctx context.Context, t dom.Todo) error {
	if err := s.repo.Delete(ctx, t.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete todo: %w", err)
	}
	s.invalidateCache(ctx, t.UserID)
	return nil
}

func (s *TodoService) invalidateCache(ctx context.Context, userID string) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}
