package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) PingContext(context.Context) error { return p.err }

func serve(h *Handler) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", h.Check)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	return w
}

func TestCheck_OK(t *testing.T) {
	if w := serve(New(&fakePinger{})); w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestCheck_NilPinger(t *testing.T) {
	if w := serve(New(nil)); w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	w := serve(New(&fakePinger{err: errors.New("dial refused")}))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", w.Code)
	}
}
