package handlers

import (
	"context"
	"net/http"

	dom "Tasks/internal/domain"
	"Tasks/internal/dto"

	"github.com/gin-gonic/gin"
)

type Admin interface {
	FindByEmail(ctx context.Context, email string, page int) (dom.UserLookup, error)
	SetSubscription(ctx context.Context, email string, subscribed bool) (dom.User, error)
	UpdateTodo(ctx context.Context, todoID string, completed bool) (dom.Todo, error)
	DeleteTodo(ctx context.Context, todoID string) error
}

type AdminHandler struct {
	svc Admin
}

func NewAdminHandler(svc Admin) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Lookup godoc
// @Summary      Find a user by email
// @Description  Returns the user with one page of their todos, or user=null.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  true   "User email"
// @Param        page   query     int     false  "Todo page"
// @Success      200  {object}  dto.AdminLookupResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /admin [get]
func (h *AdminHandler) Lookup(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	l, err := h.svc.FindByEmail(c.Request.Context(), c.Query("email"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lookupToResponse(l))
}

// Update godoc
// @Summary      Toggle a todo or a user's subscription
// @Description  With todoId set, sets that todo's completed flag to todoCompleted and returns the todo.
// @Description  Otherwise sets the subscription of the user with email to isSubscribed and returns the user.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.AdminUpdateRequest  true  "Update"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /admin [put]
func (h *AdminHandler) Update(c *gin.Context) {
	var req dto.AdminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	ctx := c.Request.Context()

	switch {
	case req.TodoID != nil:
		if req.TodoCompleted == nil {
			abort(c, http.StatusBadRequest, "todoCompleted is required with todoId")
			return
		}
		t, err := h.svc.UpdateTodo(ctx, *req.TodoID, *req.TodoCompleted)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, todoToResponse(t))
	case req.IsSubscribed != nil:
		u, err := h.svc.SetSubscription(ctx, req.Email, *req.IsSubscribed)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, userToResponse(u))
	default:
		abort(c, http.StatusBadRequest, "either todoId or isSubscribed is required")
	}
}

// Delete godoc
// @Summary      Delete any todo
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.AdminDeleteRequest  true  "Todo to delete"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /admin [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	var req dto.AdminDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteTodo(c.Request.Context(), req.TodoID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "todo deleted"})
}
