package handlers

import (
	"context"
	"net/http"

	"Tasks/internal/auth"
	dom "Tasks/internal/domain"
	"Tasks/internal/dto"

	"github.com/gin-gonic/gin"
)

type Subscriptions interface {
	Status(ctx context.Context, userID string) (dom.Subscription, error)
	Activate(ctx context.Context, userID string) (dom.Subscription, error)
}

type SubscriptionHandler struct {
	svc Subscriptions
}

func NewSubscriptionHandler(svc Subscriptions) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// Get godoc
// @Summary      Current subscription status
// @Description  An elapsed subscription is reported as inactive.
// @Tags         subscription
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SubscriptionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /subscription [get]
func (h *SubscriptionHandler) Get(c *gin.Context) {
	id := auth.IdentityFromContext(c)
	s, err := h.svc.Status(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subscriptionToResponse(s))
}

// Activate godoc
// @Summary      Start a one-month subscription
// @Description  No payment is taken. The period starts now.
// @Tags         subscription
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ActivateSubscriptionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /subscription [post]
func (h *SubscriptionHandler) Activate(c *gin.Context) {
	id := auth.IdentityFromContext(c)
	s, err := h.svc.Activate(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ActivateSubscriptionResponse{
		Message:              "subscription activated",
		SubscriptionResponse: subscriptionToResponse(s),
	})
}
