package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dom "Tasks/internal/domain"
	"Tasks/internal/dto"
	"Tasks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxWebhookBody = 1 << 20

type SignatureVerifier interface {
	Verify(body []byte, headers http.Header) error
}

type IdentityMirror interface {
	Apply(ctx context.Context, evt dom.IdentityEvent) (dom.MirrorResult, error)
}

type WebhookHandler struct {
	verifier SignatureVerifier
	mirror   IdentityMirror
}

func NewWebhookHandler(verifier SignatureVerifier, mirror IdentityMirror) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, mirror: mirror}
}

// Receive godoc
// @Summary      Identity provider webhook
// @Description  Mirrors user.created, user.updated and user.deleted events. The body must carry a valid svix signature.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        svix-id         header  string  true  "Message id"
// @Param        svix-timestamp  header  string  true  "Unix timestamp"
// @Param        svix-signature  header  string  true  "Signature"
// @Param        body            body    dto.WebhookEvent  true  "Event"
// @Success      200  {object}  dto.MessageResponse
// @Success      201  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /webhooks [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		abort(c, http.StatusBadRequest, "unreadable body")
		return
	}
	if err := h.verifier.Verify(body, c.Request.Header); err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("webhook rejected")
		abort(c, http.StatusBadRequest, "invalid signature")
		return
	}
	var evt dto.WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		abort(c, http.StatusBadRequest, "invalid payload")
		return
	}

	res, err := h.mirror.Apply(c.Request.Context(), eventToDomain(evt))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, err)
		return
	}
	zerolog.Ctx(c.Request.Context()).Info().
		Str("type", evt.Type).
		Str("user_id", evt.Data.ID).
		Msg("webhook applied")

	status, msg := mirrorOutcome(res)
	c.JSON(status, dto.MessageResponse{Message: msg})
}

func mirrorOutcome(r dom.MirrorResult) (int, string) {
	switch r {
	case dom.MirrorCreated:
		return http.StatusCreated, "user created"
	case dom.MirrorExisted:
		return http.StatusOK, "user already exists"
	case dom.MirrorUpdated:
		return http.StatusOK, "user updated"
	case dom.MirrorDeleted:
		return http.StatusOK, "user deleted"
	case dom.MirrorMissing:
		return http.StatusOK, "user not found"
	default:
		return http.StatusOK, "event ignored"
	}
}
