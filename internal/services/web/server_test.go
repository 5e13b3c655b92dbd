package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/louisbranch/liftboard/internal/platform/ratelimit"
	"github.com/louisbranch/liftboard/internal/services/web/platform/httpx"
	"github.com/louisbranch/liftboard/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/liftboard/internal/testkit/boardtest"
)

const origin = "http://board.example.test"

func TestNewServerValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(Config{}); err == nil {
		t.Fatal("expected missing address error")
	}
	if _, err := NewServer(Config{HTTPAddr: ":0"}); err == nil {
		t.Fatal("expected missing service error")
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	env := boardtest.New(t, 0)
	server, err := NewServer(Config{HTTPAddr: "127.0.0.1:0", Service: env.Service})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, listener) }()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + listener.Addr().String() + "/up")
	if err != nil {
		cancel()
		t.Fatalf("GET /up: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	client.CloseIdleConnections()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		cancel()
		t.Fatalf("health = %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get(httpx.RequestIDHeader) == "" {
		t.Error("expected request id header")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

type browser struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (b *browser) do(method string, target string, form url.Values, accept string) *httptest.ResponseRecorder {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, origin+target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if method == http.MethodPost {
		req.Header.Set("Origin", origin)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rr := httptest.NewRecorder()
	b.handler.ServeHTTP(rr, req)
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name != sessioncookie.Name {
			continue
		}
		if cookie.MaxAge < 0 {
			b.cookie = nil
		} else {
			b.cookie = &http.Cookie{Name: cookie.Name, Value: cookie.Value}
		}
	}
	return rr
}

func TestBoardFlow(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	author := env.SignUp(t, "ana")
	post := env.Post(t, author, "Heavy single")

	core, logs := observer.New(zap.InfoLevel)
	handler, err := NewHandler(Config{Service: env.Service, Logger: zap.New(core)})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	b := &browser{t: t, handler: handler}

	if rr := b.do(http.MethodPost, "/likePost/"+post.ID, nil, ""); rr.Code != http.StatusUnauthorized || rr.Body.String() != "Sign in to like" {
		t.Fatalf("anonymous like = %d %q", rr.Code, rr.Body.String())
	}
	rr := b.do(http.MethodPost, "/signupForm", url.Values{"handle": {"bob"}, "name": {"Bob"}, "password": {boardtest.Password}}, "")
	if rr.Code != http.StatusSeeOther || b.cookie == nil {
		t.Fatalf("signup = %d (%q)", rr.Code, rr.Body.String())
	}

	rr = b.do(http.MethodPost, "/likePost/"+post.ID, nil, "application/json")
	if rr.Code != http.StatusCreated || rr.Body.String() != `{"likes":1,"liked":true}` {
		t.Fatalf("like = %d %q", rr.Code, rr.Body.String())
	}

	rr = b.do(http.MethodGet, "/post/"+post.ID, nil, "")
	doc, err := goquery.NewDocumentFromReader(rr.Body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if count, _ := doc.Find("#likeCounter").Attr("count"); count != "1" {
		t.Fatalf("counter = %q", count)
	}
	if !doc.Find("#like").HasClass("liked") {
		t.Fatal("like button should be marked liked")
	}

	if rr := b.do(http.MethodPost, "/logout", nil, ""); rr.Code != http.StatusSeeOther || b.cookie != nil {
		t.Fatalf("logout = %d cookie=%v", rr.Code, b.cookie)
	}
	if rr := b.do(http.MethodGet, "/nowhere", nil, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("missing page = %d", rr.Code)
	}
	if logs.FilterMessage("http request").Len() == 0 {
		t.Fatal("expected request logs")
	}
}

func TestCrossOriginCookieMutationIsRejected(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	ana := env.SignUp(t, "ana")
	post := env.Post(t, ana, "Clean")
	handler, err := NewHandler(Config{Service: env.Service})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, origin+"/likePost/"+post.ID, nil)
	req.Header.Set("Origin", "https://evil.example.test")
	req.AddCookie(ana.Cookie())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestMutationsAreRateLimited(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	handler, err := NewHandler(Config{
		Service:   env.Service,
		RateLimit: ratelimit.WindowParameters{Duration: time.Minute, RequestCount: 1},
	})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	b := &browser{t: t, handler: handler}
	if rr := b.do(http.MethodPost, "/likePost/p1", nil, ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("first = %d", rr.Code)
	}
	if rr := b.do(http.MethodPost, "/likePost/p1", nil, ""); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second = %d", rr.Code)
	}
	if rr := b.do(http.MethodGet, "/up", nil, ""); rr.Code != http.StatusOK {
		t.Fatalf("reads stay open = %d", rr.Code)
	}
}

func TestClientBuildSwitchesLoader(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	handler, err := NewHandler(Config{Service: env.Service, WASMDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rr.Body.String(), "/client/wasm_exec.js") {
		t.Fatal("expected wasm loader")
	}
}
