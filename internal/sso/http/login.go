package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signonhq/signon/internal/sso/service"
	"github.com/signonhq/signon/pkg/httpx"
	"github.com/signonhq/signon/pkg/slogx"
	"github.com/signonhq/signon/pkg/ssoclient"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Login
//	@Description	Verify credentials and issue a session token. The token is returned in the body and set as a cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ssoclient.LoginRequest	true	"credentials"
//	@Success		200		{object}	ssoclient.LoginResponse
//	@Failure		401		{object}	ssoclient.ErrorResponse
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req ssoclient.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ssoclient.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "malformed JSON body",
		})
		return
	}

	token, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			httpx.WriteJSON(w, http.StatusUnauthorized, ssoclient.ErrorResponse{
				Error:            "invalid_credentials",
				ErrorDescription: "no user with that email",
			})
		case errors.Is(err, service.ErrInvalidPassword):
			httpx.WriteJSON(w, http.StatusUnauthorized, ssoclient.ErrorResponse{
				Error:            "invalid_credentials",
				ErrorDescription: "wrong password",
			})
		default:
			log.Error("login failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, ssoclient.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "failed to log in",
			})
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token.Value,
		Path:     "/",
		Expires:  *token.Expiration,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	httpx.WriteJSON(w, http.StatusOK, ssoclient.LoginResponse{
		Token:     token.Value,
		ExpiresAt: *token.Expiration,
	})
}
