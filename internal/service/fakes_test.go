package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	dom "Tasks/internal/domain"
	"Tasks/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore backs both fake repositories so that deleting a user cascades to
// its todos the way the foreign key does in Postgres.
type memStore struct {
	mu    sync.Mutex
	users map[string]dom.User
	todos map[string]dom.Todo
	seq   int
	err   error // returned by every call when set

	expireCalls int
}

func newMemStore() *memStore {
	return &memStore{users: map[string]dom.User{}, todos: map[string]dom.Todo{}}
}

func (m *memStore) userRepo() *fakeUsers { return &fakeUsers{m} }
func (m *memStore) todoRepo() *fakeTodos { return &fakeTodos{m} }

func (m *memStore) addUser(id, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = dom.User{ID: id, Email: email}
}

func (m *memStore) todosOf(userID string) []dom.Todo {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []dom.Todo
	for _, t := range m.todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

var uniqueViolation = &pgconn.PgError{Code: "23505"}

type fakeUsers struct{ *memStore }

func (f *fakeUsers) Create(ctx context.Context, id, email string) (dom.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return dom.User{}, f.err
	}
	if _, ok := f.users[id]; ok {
		return dom.User{}, uniqueViolation
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return dom.User{}, uniqueViolation
		}
	}
	u := dom.User{ID: id, Email: email}
	f.users[id] = u
	return u, nil
}

func (f *fakeUsers) Upsert(ctx context.Context, id, email string) (dom.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return dom.User{}, f.err
	}
	u := f.users[id]
	u.ID, u.Email = id, email
	f.users[id] = u
	return u, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (dom.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return dom.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return dom.User{}, f.err
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (f *fakeUsers) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	for tid, t := range f.todos {
		if t.UserID == id {
			delete(f.todos, tid)
		}
	}
	return nil
}

func (f *fakeUsers) SetSubscription(ctx context.Context, id string, subscribed bool, ends *time.Time) (dom.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return dom.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	u.IsSubscribed, u.SubscriptionEnds = subscribed, ends
	f.users[id] = u
	return u, nil
}

func (f *fakeUsers) ExpireSubscription(ctx context.Context, id string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.expireCalls++
	u, ok := f.users[id]
	if ok && u.SubscriptionEnds != nil && u.SubscriptionEnds.Before(now) {
		u.IsSubscribed, u.SubscriptionEnds = false, nil
		f.users[id] = u
	}
	return nil
}

type fakeTodos struct{ *memStore }

var baseTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func (f *fakeTodos) CreateWithinLimit(ctx context.Context, t dom.Todo, limit int) (dom.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return dom.Todo{}, f.err
	}
	if _, ok := f.users[t.UserID]; !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	if limit != repo.NoLimit {
		n := 0
		for _, existing := range f.todos {
			if existing.UserID == t.UserID {
				n++
			}
		}
		if n >= limit {
			return dom.Todo{}, repo.ErrLimitReached
		}
	}
	f.seq++
	t.CreatedAt = baseTime.Add(time.Duration(f.seq) * time.Second)
	t.UpdatedAt = t.CreatedAt
	f.todos[t.ID] = t
	return t, nil
}

func (f *fakeTodos) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return dom.Todo{}, f.err
	}
	t, ok := f.todos[id]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	return t, nil
}

func (f *fakeTodos) matching(userID, search string) []dom.Todo {
	var out []dom.Todo
	for _, t := range f.todos {
		if t.UserID == userID && strings.Contains(strings.ToLower(t.Title), strings.ToLower(search)) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeTodos) ListByUser(ctx context.Context, userID, search string, limit, offset int) ([]dom.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	all := f.matching(userID, search)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeTodos) CountByUser(ctx context.Context, userID, search string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return len(f.matching(userID, search)), nil
}

func (f *fakeTodos) SetCompleted(ctx context.Context, id string, completed bool) (dom.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return dom.Todo{}, f.err
	}
	t, ok := f.todos[id]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.Completed = completed
	f.todos[id] = t
	return t, nil
}

func (f *fakeTodos) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.todos[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.todos, id)
	return nil
}

// fixedClock pins SubscriptionService.now for a test.
func fixedClock(s *SubscriptionService, now time.Time) {
	s.now = func() time.Time { return now }
}

type services struct {
	store *memStore
	subs  *SubscriptionService
	todos *TodoService
	admin *AdminService
	ident *IdentityService
}

func newServices() services {
	store := newMemStore()
	users := store.userRepo()
	subs := NewSubscriptionService(users)
	todos := NewTodoService(store.todoRepo(), subs, nil, DefaultTodoLimits)
	return services{
		store: store,
		subs:  subs,
		todos: todos,
		admin: NewAdminService(users, todos, subs),
		ident: NewIdentityService(users, nil),
	}
}
