package composition

import (
	"net/http"
	"net/http/httptest"
	"testing"

	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/platform/requestmeta"
)

type stubModule struct {
	id     string
	routes []module.Route
}

func (s stubModule) ID() string { return s.id }

func (s stubModule) Routes() ([]module.Route, error) { return s.routes, nil }

type stubRegistry struct {
	got     module.Dependencies
	modules []module.Module
}

func (r *stubRegistry) Build(deps module.Dependencies) []module.Module {
	r.got = deps
	return r.modules
}

func TestComposeAppHandlerUsesRegistry(t *testing.T) {
	t.Parallel()

	reg := &stubRegistry{modules: []module.Module{
		stubModule{id: "feed", routes: []module.Route{module.Get("/{$}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})}},
	}}
	h, err := ComposeAppHandler(ComposeInput{
		Dependencies: module.Dependencies{SchemePolicy: requestmeta.SchemePolicy{TrustForwardedProto: true}, ClientEnabled: true},
		Registry:     reg,
	})
	if err != nil {
		t.Fatalf("ComposeAppHandler() error = %v", err)
	}
	if !reg.got.SchemePolicy.TrustForwardedProto || !reg.got.ClientEnabled {
		t.Fatalf("registry deps = %+v", reg.got)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("root status = %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", rr.Code)
	}
}

func TestComposeAppHandlerDefaultRegistry(t *testing.T) {
	t.Parallel()

	h, err := ComposeAppHandler(ComposeInput{})
	if err != nil {
		t.Fatalf("ComposeAppHandler() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/up", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("health = %d %q", rr.Code, rr.Body.String())
	}
}
