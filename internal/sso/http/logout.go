package http

import (
	"net/http"
	"time"

	"github.com/signonhq/signon/internal/sso/service"
	"github.com/signonhq/signon/pkg/httpx"
	"github.com/signonhq/signon/pkg/slogx"
	"github.com/signonhq/signon/pkg/ssoclient"
)

type LogoutHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Logout
//	@Description	Invalidate the current session token and clear the cookie. Idempotent.
//	@Tags			Auth
//	@Produce		json
//	@Success		204
//	@Router			/v1/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if token := sessionToken(r); token != "" {
		if err := h.AuthService.InvalidateToken(ctx, token); err != nil {
			slogx.FromContext(ctx).Error("logout failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, ssoclient.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "failed to log out",
			})
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}
