package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Tasks/internal/auth"
	dom "Tasks/internal/domain"

	"github.com/gin-gonic/gin"
)

type stubTodos struct {
	page    dom.TodoPage
	todo    dom.Todo
	err     error
	gotUser string
	gotPage int
	gotID   string
	gotDone bool
	gotQ    string
}

func (s *stubTodos) List(_ context.Context, userID string, page int, search string) (dom.TodoPage, error) {
	s.gotUser, s.gotPage, s.gotQ = userID, page, search
	return s.page, s.err
}

func (s *stubTodos) Create(_ context.Context, userID, title string) (dom.Todo, error) {
	s.gotUser = userID
	if s.err != nil {
		return dom.Todo{}, s.err
	}
	t := s.todo
	t.UserID, t.Title = userID, title
	return t, nil
}

func (s *stubTodos) Update(_ context.Context, requesterID, id string, completed bool) (dom.Todo, error) {
	s.gotUser, s.gotID, s.gotDone = requesterID, id, completed
	return s.todo, s.err
}

func (s *stubTodos) Delete(_ context.Context, requesterID, id string) error {
	s.gotUser, s.gotID = requesterID, id
	return s.err
}

type stubSubs struct {
	sub       dom.Subscription
	err       error
	activated string
}

func (s *stubSubs) Status(context.Context, string) (dom.Subscription, error) {
	return s.sub, s.err
}

func (s *stubSubs) Activate(_ context.Context, userID string) (dom.Subscription, error) {
	s.activated = userID
	return s.sub, s.err
}

type stubAdmin struct {
	lookup     dom.UserLookup
	user       dom.User
	todo       dom.Todo
	err        error
	gotEmail   string
	gotPage    int
	subscribed *bool
	todoID     string
	completed  *bool
	deleted    string
}

func (s *stubAdmin) FindByEmail(_ context.Context, email string, page int) (dom.UserLookup, error) {
	s.gotEmail, s.gotPage = email, page
	return s.lookup, s.err
}

func (s *stubAdmin) SetSubscription(_ context.Context, email string, subscribed bool) (dom.User, error) {
	s.gotEmail, s.subscribed = email, &subscribed
	return s.user, s.err
}

func (s *stubAdmin) UpdateTodo(_ context.Context, todoID string, completed bool) (dom.Todo, error) {
	s.todoID, s.completed = todoID, &completed
	return s.todo, s.err
}

func (s *stubAdmin) DeleteTodo(_ context.Context, todoID string) error {
	s.deleted = todoID
	return s.err
}

// newRouter returns an engine whose requests run as id.
func newRouter(id auth.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetIdentity(c, id)
		c.Next()
	})
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}
