package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"Tasks/internal/auth"
	dom "Tasks/internal/domain"
	"Tasks/internal/service"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"
)

const webhookSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

type stubMirror struct {
	res dom.MirrorResult
	err error
	got []dom.IdentityEvent
}

func (m *stubMirror) Apply(_ context.Context, evt dom.IdentityEvent) (dom.MirrorResult, error) {
	m.got = append(m.got, evt)
	return m.res, m.err
}

func webhookRouter(t *testing.T, m *stubMirror) *gin.Engine {
	t.Helper()
	v, err := auth.NewWebhookVerifier(webhookSecret)
	if err != nil {
		t.Fatalf("NewWebhookVerifier: %v", err)
	}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/webhooks", NewWebhookHandler(v, m).Receive)
	return r
}

func postSigned(t *testing.T, r http.Handler, body string, sign bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if sign {
		wh, err := svix.NewWebhook(webhookSecret)
		if err != nil {
			t.Fatal(err)
		}
		now := time.Now()
		sig, err := wh.Sign("msg_42", now, []byte(body))
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("svix-id", "msg_42")
		req.Header.Set("svix-timestamp", strconv.FormatInt(now.Unix(), 10))
		req.Header.Set("svix-signature", sig)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const createdEvent = `{
	"type": "user.created",
	"data": {
		"id": "user_2abc",
		"primary_email_address_id": "idn_2",
		"email_addresses": [
			{"id": "idn_1", "email_address": "old@example.com"},
			{"id": "idn_2", "email_address": "new@example.com"}
		]
	}
}`

func TestWebhookCreated(t *testing.T) {
	m := &stubMirror{res: dom.MirrorCreated}
	w := postSigned(t, webhookRouter(t, m), createdEvent, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if len(m.got) != 1 {
		t.Fatalf("applied %d events", len(m.got))
	}
	want := dom.IdentityEvent{Type: dom.EventUserCreated, UserID: "user_2abc", PrimaryEmail: "new@example.com"}
	if m.got[0] != want {
		t.Errorf("event = %+v, want %+v", m.got[0], want)
	}
}

func TestWebhookOutcomes(t *testing.T) {
	tests := []struct {
		res    dom.MirrorResult
		status int
	}{
		{dom.MirrorExisted, http.StatusOK},
		{dom.MirrorUpdated, http.StatusOK},
		{dom.MirrorDeleted, http.StatusOK},
		{dom.MirrorMissing, http.StatusOK},
		{dom.MirrorIgnored, http.StatusOK},
	}
	for _, tt := range tests {
		w := postSigned(t, webhookRouter(t, &stubMirror{res: tt.res}), createdEvent, true)
		if w.Code != tt.status {
			t.Errorf("result %d: status = %d, want %d", tt.res, w.Code, tt.status)
		}
	}
}

func TestWebhookRejectsUnsigned(t *testing.T) {
	m := &stubMirror{}
	w := postSigned(t, webhookRouter(t, m), createdEvent, false)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(m.got) != 0 {
		t.Fatal("unsigned event must not be applied")
	}
}

func TestWebhookRejectsBadJSON(t *testing.T) {
	m := &stubMirror{}
	if w := postSigned(t, webhookRouter(t, m), `{"type":`, true); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(m.got) != 0 {
		t.Fatal("malformed event must not be applied")
	}
}

func TestWebhookErrors(t *testing.T) {
	invalid := &stubMirror{err: fmt.Errorf("%w: no primary email", service.ErrValidation)}
	if w := postSigned(t, webhookRouter(t, invalid), createdEvent, true); w.Code != http.StatusBadRequest {
		t.Errorf("validation: status = %d, want 400", w.Code)
	}
	broken := &stubMirror{err: errors.New("db down")}
	if w := postSigned(t, webhookRouter(t, broken), createdEvent, true); w.Code != http.StatusInternalServerError {
		t.Errorf("storage: status = %d, want 500", w.Code)
	}
}
