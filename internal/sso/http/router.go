package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/signonhq/signon/internal/sso/service"
	"github.com/signonhq/signon/internal/sso/store"
	"github.com/signonhq/signon/pkg/httpx"
	"github.com/signonhq/signon/pkg/slogx"

	_ "github.com/signonhq/signon/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	AppService  *service.AppService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTokens()
	r.registerUsers()
	r.registerApps()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			SignOn Single Sign-On API
//	@version		0.1.0
//	@description	Minimal single sign-on service issuing opaque session tokens.
//	@description
//	@description				Registration is invite-only: an administrator mints a single-use
//	@description				registration token bound to an email address, and the holder redeems
//	@description				it to create an account.
//
//	@contact.name				SignOn Team
//	@contact.url				https://github.com/signonhq/signon
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Opaque session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /login - strict rate limit by IP (credential guessing surface)
	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - moderate rate limit, no session required (idempotent)
	logoutHandler := &LogoutHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /session - requires a valid session token
	sessionHandler := &SessionHandler{}
	r.Mux.Handle("GET /v1/session",
		httpx.Chain(sessionHandler,
			SessionMiddleware(r.AuthService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerTokens() {
	// POST /tokens/registration - admin only, moderate rate limit
	mintHandler := &MintTokenHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/tokens/registration",
		httpx.Chain(mintHandler,
			SessionMiddleware(r.AuthService),
			RequireAdmin(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	// GET /users - admin only, moderate rate limit
	usersHandler := &UsersHandler{Store: r.store}
	r.Mux.Handle("GET /v1/users",
		httpx.Chain(usersHandler,
			SessionMiddleware(r.AuthService),
			RequireAdmin(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerApps() {
	h := &AppsHandler{AppService: r.AppService}

	admin := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			SessionMiddleware(r.AuthService),
			RequireAdmin(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/apps", admin(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /v1/apps", admin(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("DELETE /v1/apps/{id}", admin(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
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
