package handlers

import (
	"context"
	"net/http"

	"Tasks/internal/auth"
	dom "Tasks/internal/domain"
	"Tasks/internal/dto"

	"github.com/gin-gonic/gin"
)

// Todos is the part of service.TodoService the todo endpoints use.
type Todos interface {
	List(ctx context.Context, userID string, page int, search string) (dom.TodoPage, error)
	Create(ctx context.Context, userID, title string) (dom.Todo, error)
	Update(ctx context.Context, requesterID, id string, completed bool) (dom.Todo, error)
	Delete(ctx context.Context, requesterID, id string) error
}

type TodoHandler struct {
	svc Todos
}

func NewTodoHandler(svc Todos) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// List godoc
// @Summary      List the caller's todos
// @Description  Newest first, 10 per page. search filters titles case-insensitively.
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number, starting at 1"
// @Param        search  query     string  false  "Title substring"
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	id := auth.IdentityFromContext(c)
	p, err := h.svc.List(c.Request.Context(), id.UserID, page, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageToResponse(p))
}

// Create godoc
// @Summary      Create a todo
// @Description  Free users may own at most 3 todos.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	id := auth.IdentityFromContext(c)
	t, err := h.svc.Create(c.Request.Context(), id.UserID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todoToResponse(t))
}

// Update godoc
// @Summary      Set a todo's completed flag
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Completed flag"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	id := auth.IdentityFromContext(c)
	t, err := h.svc.Update(c.Request.Context(), id.UserID, c.Param("id"), *req.Completed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id := auth.IdentityFromContext(c)
	if err := h.svc.Delete(c.Request.Context(), id.UserID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "todo deleted"})
}
