package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	dom "Tasks/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyPagePrefix = "todo:page:"
	keyGenPrefix  = "todo:gen:"
)

// TodoCache caches paginated todo listings per user in Redis. Every page key
// carries the user's generation; InvalidateUser bumps it, so a page computed
// before a write can be stored but is never read again.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

type cachedTodo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type cachedPage struct {
	Todos       []cachedTodo `json:"todos"`
	TotalPages  int          `json:"total_pages"`
	CurrentPage int          `json:"current_page"`
}

// Generation returns the user's current cache generation. Read it before
// loading from the database and pass it to GetPage and SetPage.
func (c *TodoCache) Generation(ctx context.Context, userID string) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// GetPage returns the cached page, or ok=false on a miss.
func (c *TodoCache) GetPage(ctx context.Context, userID string, gen int64, page int, search string) (dom.TodoPage, bool, error) {
	b, err := c.rdb.Get(ctx, PageKey(userID, gen, page, search)).Bytes()
	if err == redis.Nil {
		return dom.TodoPage{}, false, nil
	}
	if err != nil {
		return dom.TodoPage{}, false, err
	}
	var cp cachedPage
	if err := json.Unmarshal(b, &cp); err != nil {
		return dom.TodoPage{}, false, err
	}
	out := dom.TodoPage{
		Todos:       make([]dom.Todo, len(cp.Todos)),
		TotalPages:  cp.TotalPages,
		CurrentPage: cp.CurrentPage,
	}
	for i, t := range cp.Todos {
		out.Todos[i] = dom.Todo(t)
	}
	return out, true, nil
}

// SetPage stores a page computed under generation gen.
func (c *TodoCache) SetPage(ctx context.Context, userID string, gen int64, search string, p dom.TodoPage) error {
	cp := cachedPage{
		Todos:       make([]cachedTodo, len(p.Todos)),
		TotalPages:  p.TotalPages,
		CurrentPage: p.CurrentPage,
	}
	for i, t := range p.Todos {
		cp.Todos[i] = cachedTodo(t)
	}
	b, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, PageKey(userID, gen, p.CurrentPage, search), b, c.ttl).Err()
}

// InvalidateUser bumps the user's generation, then drops the pages it
// orphaned. The generation key has no TTL: letting it lapse would reuse old
// generations.
func (c *TodoCache) InvalidateUser(ctx context.Context, userID string) error {
	if err := c.rdb.Incr(ctx, genKey(userID)).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, userPattern(userID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// PageKey is the Redis key of one cached page. The search term is normalized
// the same way the list query treats it (trimmed, case-insensitive). User id
// and search are query-escaped so neither can contain the ':' separator.
func PageKey(userID string, gen int64, page int, search string) string {
	return keyPagePrefix + url.QueryEscape(userID) + ":" +
		strconv.FormatInt(gen, 10) + ":" + strconv.Itoa(page) + ":" +
		url.QueryEscape(normalizeQuery(search))
}

func genKey(userID string) string {
	return keyGenPrefix + url.QueryEscape(userID)
}

// userPattern matches every page key of userID and nothing else. Escaped ids
// hold no glob metacharacters.
func userPattern(userID string) string {
	return keyPagePrefix + url.QueryEscape(userID) + ":*"
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
