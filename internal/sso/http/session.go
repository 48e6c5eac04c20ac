package http

import (
	"net/http"

	"github.com/signonhq/signon/pkg/httpx"
	"github.com/signonhq/signon/pkg/ssoclient"
)

type SessionHandler struct{}

// ServeHTTP godoc
//
//	@Summary		Current session
//	@Description	Return the user bound to the presented session token.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	ssoclient.SessionResponse
//	@Failure		401	{object}	ssoclient.ErrorResponse
//	@Router			/v1/session [get].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromCtx(r.Context())
	if !ok {
		// SessionMiddleware guarantees this; reaching here is a wiring bug.
		httpx.WriteJSON(w, http.StatusUnauthorized, ssoclient.ErrorResponse{
			Error: "unauthorized",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ssoclient.SessionResponse{
		Email:     user.Email,
		Name:      user.Name,
		Admin:     user.Admin,
		CreatedAt: user.CreatedAt,
	})
}
