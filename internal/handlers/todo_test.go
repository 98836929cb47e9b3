package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"Tasks/internal/auth"
	dom "Tasks/internal/domain"
	"Tasks/internal/dto"
	"Tasks/internal/service"

	"github.com/gin-gonic/gin"
)

var alice = auth.Identity{UserID: "user_alice", Role: auth.RoleUser}

func todoRouter(svc *stubTodos) *gin.Engine {
	r := newRouter(alice)
	h := NewTodoHandler(svc)
	r.GET("/api/todos", h.List)
	r.POST("/api/todos", h.Create)
	r.PUT("/api/todos/:id", h.Update)
	r.DELETE("/api/todos/:id", h.Delete)
	return r
}

func TestTodoListPassesQuery(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := &stubTodos{page: dom.TodoPage{
		Todos:       []dom.Todo{{ID: "t1", UserID: "user_alice", Title: "milk", CreatedAt: now, UpdatedAt: now}},
		TotalPages:  3,
		CurrentPage: 2,
	}}
	w := do(t, todoRouter(svc), http.MethodGet, "/api/todos?page=2&search=mi", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if svc.gotUser != "user_alice" || svc.gotPage != 2 || svc.gotQ != "mi" {
		t.Errorf("service got user=%q page=%d q=%q", svc.gotUser, svc.gotPage, svc.gotQ)
	}
	resp := decode[dto.ListTodosResponse](t, w)
	if resp.TotalPages != 3 || resp.CurrentPage != 2 || len(resp.Todos) != 1 {
		t.Fatalf("unexpected page %+v", resp)
	}
	if resp.Todos[0].UserID != "user_alice" || resp.Todos[0].Title != "milk" {
		t.Errorf("unexpected todo %+v", resp.Todos[0])
	}
}

func TestTodoListPageDefaultsAndValidation(t *testing.T) {
	svc := &stubTodos{page: dom.TodoPage{Todos: []dom.Todo{}, CurrentPage: 1}}
	r := todoRouter(svc)

	if w := do(t, r, http.MethodGet, "/api/todos", nil); w.Code != http.StatusOK || svc.gotPage != 1 {
		t.Fatalf("no page: status %d, page %d", w.Code, svc.gotPage)
	}
	if w := do(t, r, http.MethodGet, "/api/todos?page=0", nil); w.Code != http.StatusOK || svc.gotPage != 0 {
		t.Fatalf("page=0 should reach the service for clamping: status %d, page %d", w.Code, svc.gotPage)
	}
	w := do(t, r, http.MethodGet, "/api/todos?page=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("page=abc: status %d", w.Code)
	}
	if resp := decode[dto.ErrorResponse](t, w); resp.Error == "" {
		t.Error("expected error message")
	}
}

func TestTodoListEmptyIsArray(t *testing.T) {
	svc := &stubTodos{page: dom.TodoPage{CurrentPage: 1}}
	w := do(t, todoRouter(svc), http.MethodGet, "/api/todos", nil)
	raw := decode[map[string]any](t, w)
	if _, ok := raw["todos"].([]any); !ok {
		t.Fatalf("todos = %#v, want []", raw["todos"])
	}
}

func TestTodoCreate(t *testing.T) {
	svc := &stubTodos{todo: dom.Todo{ID: "t1"}}
	w := do(t, todoRouter(svc), http.MethodPost, "/api/todos", dto.CreateTodoRequest{Title: "Buy milk"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	resp := decode[dto.TodoResponse](t, w)
	if resp.ID != "t1" || resp.Title != "Buy milk" || resp.UserID != "user_alice" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestTodoCreateErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		err    error
		status int
	}{
		{"missing title", map[string]any{}, nil, http.StatusBadRequest},
		{"blank title", dto.CreateTodoRequest{Title: "  "}, fmt.Errorf("%w: title is required", service.ErrValidation), http.StatusBadRequest},
		{"quota", dto.CreateTodoRequest{Title: "x"}, fmt.Errorf("%w: free users can only create up to 3 todos", service.ErrQuotaExceeded), http.StatusForbidden},
		{"unknown user", dto.CreateTodoRequest{Title: "x"}, service.ErrNotFound, http.StatusNotFound},
		{"unauthenticated", dto.CreateTodoRequest{Title: "x"}, service.ErrUnauthenticated, http.StatusUnauthorized},
		{"storage", dto.CreateTodoRequest{Title: "x"}, errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, todoRouter(&stubTodos{err: tt.err}), http.MethodPost, "/api/todos", tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			resp := decode[dto.ErrorResponse](t, w)
			if resp.Error == "" {
				t.Fatal("empty error message")
			}
			if tt.status == http.StatusInternalServerError && resp.Error != "internal server error" {
				t.Errorf("internal error leaked: %q", resp.Error)
			}
		})
	}
}

func TestTodoUpdate(t *testing.T) {
	svc := &stubTodos{todo: dom.Todo{ID: "t1", Completed: true}}
	w := do(t, todoRouter(svc), http.MethodPut, "/api/todos/t1", map[string]bool{"completed": true})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if svc.gotID != "t1" || !svc.gotDone || svc.gotUser != "user_alice" {
		t.Errorf("service got id=%q done=%v user=%q", svc.gotID, svc.gotDone, svc.gotUser)
	}
	if resp := decode[dto.TodoResponse](t, w); !resp.Completed {
		t.Error("expected completed todo")
	}
}

func TestTodoUpdateRequiresCompleted(t *testing.T) {
	w := do(t, todoRouter(&stubTodos{}), http.MethodPut, "/api/todos/t1", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestTodoUpdateForbidden(t *testing.T) {
	w := do(t, todoRouter(&stubTodos{err: service.ErrForbidden}), http.MethodPut, "/api/todos/t1", map[string]bool{"completed": false})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestTodoDelete(t *testing.T) {
	svc := &stubTodos{}
	w := do(t, todoRouter(svc), http.MethodDelete, "/api/todos/t9", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if svc.gotID != "t9" {
		t.Errorf("deleted %q", svc.gotID)
	}
	if resp := decode[dto.MessageResponse](t, w); resp.Message == "" {
		t.Error("expected acknowledgement message")
	}

	w = do(t, todoRouter(&stubTodos{err: service.ErrNotFound}), http.MethodDelete, "/api/todos/t9", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing todo: status = %d", w.Code)
	}
}

func TestTodoCreateLengthIsCheckedAfterTrim(t *testing.T) {
	svc := &stubTodos{todo: dom.Todo{ID: "t1"}}
	padded := "  " + strings.Repeat("a", service.MaxTitleLength) + "  "
	w := do(t, todoRouter(svc), http.MethodPost, "/api/todos", dto.CreateTodoRequest{Title: padded})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	if svc.gotUser != "user_alice" {
		t.Error("request did not reach the service")
	}
}
