package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/signonhq/signon/internal/sso/domain"
	"github.com/signonhq/signon/internal/sso/service"
	"github.com/signonhq/signon/pkg/httpx"
	"github.com/signonhq/signon/pkg/ssoclient"
)

// SessionCookie is the cookie the login handler sets and the session
// middleware reads. A bearer Authorization header works equally.
const SessionCookie = "sso_token"

type ctxKey string

const ctxKeyUser ctxKey = "user"

func userFromCtx(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKeyUser).(domain.User)
	return u, ok
}

// sessionToken extracts the opaque credential from the request, preferring
// the Authorization header over the cookie.
func sessionToken(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// SessionMiddleware authenticates the request's session token and injects
// the resolved user into the context.
func SessionMiddleware(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				httpx.WriteJSON(w, http.StatusUnauthorized, ssoclient.ErrorResponse{
					Error:            "unauthorized",
					ErrorDescription: "missing session token",
				})
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates an endpoint behind the authenticated user's admin flag.
// Must run inside SessionMiddleware.
func RequireAdmin() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userFromCtx(r.Context())
			if !ok || !user.Admin {
				httpx.WriteJSON(w, http.StatusForbidden, ssoclient.ErrorResponse{
					Error:            "forbidden",
					ErrorDescription: "administrator access required",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTokenNotExist):
		httpx.WriteJSON(w, http.StatusUnauthorized, ssoclient.ErrorResponse{
			Error:            "invalid_token",
			ErrorDescription: "session token does not exist",
		})
	case errors.Is(err, service.ErrTokenExpired):
		httpx.WriteJSON(w, http.StatusUnauthorized, ssoclient.ErrorResponse{
			Error:            "invalid_token",
			ErrorDescription: "session token has expired",
		})
	case errors.Is(err, service.ErrUserNotExist):
		httpx.WriteJSON(w, http.StatusUnauthorized, ssoclient.ErrorResponse{
			Error:            "invalid_token",
			ErrorDescription: "user for this session no longer exists",
		})
	default:
		httpx.WriteJSON(w, http.StatusInternalServerError, ssoclient.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "failed to authenticate session",
		})
	}
}
