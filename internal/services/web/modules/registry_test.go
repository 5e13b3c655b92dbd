package modules

import (
	"testing"

	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/static"
)

func TestRegistryModulesHaveUniqueIDsAndRoutes(t *testing.T) {
	t.Parallel()

	assets, err := static.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	built := NewRegistry().Build(module.Dependencies{Assets: assets, WASMDir: t.TempDir()})

	ids := map[string]bool{}
	routes := map[string]string{}
	for _, feature := range built {
		if ids[feature.ID()] {
			t.Fatalf("duplicate module id %q", feature.ID())
		}
		ids[feature.ID()] = true
		featureRoutes, err := feature.Routes()
		if err != nil {
			t.Fatalf("%s routes: %v", feature.ID(), err)
		}
		for _, route := range featureRoutes {
			key := route.Method + " " + route.Pattern
			if owner, ok := routes[key]; ok {
				t.Fatalf("%s duplicates %s owned by %s", feature.ID(), key, owner)
			}
			routes[key] = feature.ID()
		}
	}

	for _, key := range []string{
		"GET /{$}",
		"GET /post/{id}",
		"GET /user/{id}",
		"GET /upload/post/{id}",
		"GET /submit",
		"POST /submitPost",
		"POST /likePost/{id}",
		"POST /removeLike/{id}",
		"POST /deletePost/{id}",
		"POST /deleteUser/{id}",
		"POST /deleteComment/{id}",
		"POST /submitComment/{postID}",
		"GET /login",
		"POST /loginSubmit",
		"POST /logout",
		"GET /signup",
		"POST /signupForm",
		"GET /handleExists/{handle}",
		"GET /admin",
		"GET /public/",
		"GET /client/",
		"GET /up",
	} {
		if _, ok := routes[key]; !ok {
			t.Fatalf("missing route %s", key)
		}
	}
}
