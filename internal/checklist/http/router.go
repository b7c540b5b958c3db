package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/opsnorth/secchecklist/internal/checklist/service"
	"github.com/opsnorth/secchecklist/internal/checklist/store"
	"github.com/opsnorth/secchecklist/pkg/httpx"
	"github.com/opsnorth/secchecklist/pkg/jwtx"
	"github.com/opsnorth/secchecklist/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	AccountService   *service.AccountService
	SelectionService *service.SelectionService
	CatalogService   *service.CatalogService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerCatalog()
	r.registerSelections()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Credential endpoints get strict per-IP limits (brute force prevention).
	signupHandler := &SignupHandler{Accounts: r.AccountService}
	r.Mux.Handle("POST /api/signup",
		httpx.Chain(signupHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	loginHandler := &LoginHandler{Accounts: r.AccountService}
	r.Mux.Handle("POST /api/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	validateHandler := &ValidateTokenHandler{}
	r.Mux.Handle("POST /api/validate-token",
		httpx.Chain(validateHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByEmail(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerCatalog() {
	h := &CatalogHandler{Catalog: r.CatalogService}

	// Read-only projections over the in-memory reference tables.
	for pattern, handler := range map[string]http.HandlerFunc{
		"GET /api/levels":        h.HandleLevels,
		"GET /api/control-areas": h.HandleControlAreas,
		"GET /api/controls":      h.HandleControls,
		"GET /api/applications":  h.HandleApplications,
	} {
		r.Mux.Handle(pattern,
			httpx.Chain(handler,
				httpx.AuthnMiddleware(r.verifier),
				httpx.RateLimitByEmail(httpx.LenientLimit),
			),
		)
	}
}

func (r *Router) registerSelections() {
	h := &SelectionsHandler{Selections: r.SelectionService}

	r.Mux.Handle("POST /api/store-selections",
		httpx.Chain(http.HandlerFunc(h.HandleStore),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByEmail(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /api/get-selections",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByEmail(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health probes may be polled frequently; lenient per-IP limits.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
