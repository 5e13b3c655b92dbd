package app

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/louisbranch/liftboard/internal/platform/ratelimit"
	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/platform/httpx"
	"github.com/louisbranch/liftboard/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/liftboard/internal/services/web/platform/sessioncookie"
)

// TooManyRequestsMessage is the body of a throttled mutation.
const TooManyRequestsMessage = "Too many requests"

// ComposeInput carries modules and shared composition contracts.
type ComposeInput struct {
	Modules             []module.Module
	RequestSchemePolicy requestmeta.SchemePolicy
	// Limiter throttles mutation routes per client address. Nil disables it.
	Limiter *ratelimit.Limiter
	// NotFound answers every request no route matches.
	NotFound http.Handler
}

// Compose builds a root HTTP handler from module routes.
func Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)

	guard := wrapMutation(input.RequestSchemePolicy, input.Limiter)
	for _, feature := range input.Modules {
		if feature == nil {
			return nil, fmt.Errorf("module is nil")
		}
		routes, err := feature.Routes()
		if err != nil {
			return nil, fmt.Errorf("routes for module %q: %w", feature.ID(), err)
		}
		for _, route := range routes {
			if err := mountRoute(root, feature.ID(), route, seen, guard); err != nil {
				return nil, err
			}
		}
	}

	notFound := input.NotFound
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}
	root.Handle("/", notFound)
	return root, nil
}

func mountRoute(root *http.ServeMux, owner string, route module.Route, seen map[string]string, guard func(http.Handler) http.Handler) error {
	method := strings.ToUpper(strings.TrimSpace(route.Method))
	if method == "" {
		return fmt.Errorf("module %q route %q: method is required", owner, route.Pattern)
	}
	if err := validatePattern(route.Pattern); err != nil {
		return fmt.Errorf("module %q has invalid pattern %q: %w", owner, route.Pattern, err)
	}
	if route.Handler == nil {
		return fmt.Errorf("module %q route %s %s: handler is required", owner, method, route.Pattern)
	}
	key := method + " " + route.Pattern
	if previous, ok := seen[key]; ok {
		return fmt.Errorf("module %q duplicates route %q owned by module %q", owner, key, previous)
	}
	seen[key] = owner

	handler := route.Handler
	if route.Mutation {
		handler = guard(handler)
	}
	root.Handle(key, handler)
	return nil
}

func validatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("pattern is required")
	}
	if strings.TrimSpace(pattern) != pattern {
		return fmt.Errorf("pattern must not include surrounding whitespace")
	}
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("pattern must begin with /")
	}
	return nil
}

func wrapMutation(policy requestmeta.SchemePolicy, limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	csrfWrap := requireCookieSessionSameOrigin(policy)
	limitWrap := limitByClient(policy, limiter)
	return func(next http.Handler) http.Handler {
		return limitWrap(csrfWrap(next))
	}
}

func requireCookieSessionSameOrigin(policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !requestmeta.HasSameOriginProofWithPolicy(r, policy) {
				httpx.WriteMessage(w, r, http.StatusForbidden, http.StatusText(http.StatusForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func limitByClient(policy requestmeta.SchemePolicy, limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, wait := limiter.Allow(requestmeta.ClientAddr(r, policy))
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				httpx.WriteMessage(w, r, http.StatusTooManyRequests, TooManyRequestsMessage)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}
