package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/louisbranch/liftboard/internal/services/web/platform/errors"
)

func TestChainAppliesMiddlewareInOrder(t *testing.T) {
	t.Parallel()

	called := ""
	mw1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called += "1"
			next.ServeHTTP(w, r)
		})
	}
	mw2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called += "2"
			next.ServeHTTP(w, r)
		})
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called += "h"
		w.WriteHeader(http.StatusNoContent)
	}), mw1, nil, mw2)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if called != "12h" {
		t.Fatalf("call order = %q, want %q", called, "12h")
	}
}

func TestChainHandlesNilHandler(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Chain(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/no-route", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestMethodNotAllowedWritesAllowHeaderAndStatus(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	MethodNotAllowed(http.MethodPost).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/likePost/p1", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
	if got := rr.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("Allow = %q, want %q", got, http.MethodPost)
	}
}

func TestRequestIDAddsULIDWhenMissing(t *testing.T) {
	t.Parallel()

	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r)
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if _, err := ulid.Parse(seen); err != nil {
		t.Fatalf("request id %q is not a ULID: %v", seen, err)
	}
	if got := rr.Header().Get(RequestIDHeader); got != seen {
		t.Fatalf("response request id = %q, want %q", got, seen)
	}
}

func TestRequestIDPreservesIncomingHeader(t *testing.T) {
	t.Parallel()

	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(RequestIDHeader); got != "req-123" {
			t.Errorf("request id = %q, want %q", got, "req-123")
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get(RequestIDHeader); got != "req-123" {
		t.Fatalf("response request id = %q, want %q", got, "req-123")
	}
}

func TestRecoverPanicLogsAndReturnsInternalServerError(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	h := RecoverPanic(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	entries := logs.FilterMessage("panic recovered").All()
	if len(entries) != 1 {
		t.Fatalf("panic log entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/panic" || fields["request_id"] != "req-123" {
		t.Fatalf("panic log fields = %v", fields)
	}
}

func TestPrefersJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		accept string
		want   bool
	}{
		{accept: "", want: false},
		{accept: "application/json", want: true},
		{accept: "text/plain", want: false},
		{accept: "*/*", want: false},
		{accept: "text/plain;q=0.5, application/json", want: true},
		{accept: "application/json;q=0.2, text/plain;q=0.9", want: false},
		{accept: "text/html", want: false},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodPost, "/likePost/p1", nil)
		if tc.accept != "" {
			req.Header.Set("Accept", tc.accept)
		}
		if got := PrefersJSON(req); got != tc.want {
			t.Fatalf("PrefersJSON(%q) = %v, want %v", tc.accept, got, tc.want)
		}
	}
}

func TestWriteMessageNegotiates(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/likePost/p1", nil)
	rr := httptest.NewRecorder()
	WriteMessage(rr, req, http.StatusUnauthorized, "Sign in to like")
	if rr.Code != http.StatusUnauthorized || rr.Body.String() != "Sign in to like" {
		t.Fatalf("text response = %d %q", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Fatalf("content-type = %q", got)
	}

	req.Header.Set("Accept", "application/json")
	rr = httptest.NewRecorder()
	WriteMessage(rr, req, http.StatusUnauthorized, "Sign in to like")
	if got := strings.TrimSpace(rr.Body.String()); got != `{"error":"Sign in to like"}` {
		t.Fatalf("json body = %q", got)
	}
}

func TestWriteJSONSetsContentTypeAndBody(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	err := WriteJSON(rr, http.StatusCreated, struct {
		Likes int  `json:"likes"`
		Liked bool `json:"liked"`
	}{Likes: 3, Liked: true})
	if err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content-type = %q, want %q", got, "application/json")
	}
	if body := rr.Body.String(); body != `{"likes":3,"liked":true}` {
		t.Fatalf("body = %q", body)
	}
}

func TestWriteErrorUsesTypedStatusAndHidesUntyped(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()
	WriteError(rr, req, apperrors.E(apperrors.KindForbidden, "Must be owner to delete"))
	if rr.Code != http.StatusForbidden || rr.Body.String() != "Must be owner to delete" {
		t.Fatalf("typed error = %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	WriteError(rr, req, errors.New("database is locked"))
	if rr.Code != http.StatusInternalServerError || strings.Contains(rr.Body.String(), "locked") {
		t.Fatalf("untyped error = %d %q", rr.Code, rr.Body.String())
	}
}

func TestWriteRedirectUsesSeeOther(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteRedirect(rr, httptest.NewRequest(http.MethodPost, "/submitPost", nil), "/post/p1")
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if got := rr.Header().Get("Location"); got != "/post/p1" {
		t.Fatalf("Location = %q", got)
	}

	rr = httptest.NewRecorder()
	WriteRedirect(rr, nil, "/")
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("nil request redirect = %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestWritersRequireWriter(t *testing.T) {
	t.Parallel()

	if err := WriteJSON(nil, http.StatusOK, nil); err == nil {
		t.Fatal("expected WriteJSON(nil) error")
	}
	if err := WriteHTML(nil, http.StatusOK, nil); err == nil {
		t.Fatal("expected WriteHTML(nil) error")
	}
	if err := WriteText(nil, http.StatusOK, ""); err == nil {
		t.Fatal("expected WriteText(nil) error")
	}
	WriteError(nil, nil, errors.New("ignored"))
	WriteRedirect(nil, nil, "/ignored")
	WriteMessage(nil, nil, http.StatusOK, "ignored")
}
