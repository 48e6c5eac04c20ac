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

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Register
//	@Description	Redeem a registration token and create the user account it was issued for.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	ssoclient.RegisterRequest	true	"registration token and user details"
//	@Success		201
//	@Failure		400	{object}	ssoclient.ErrorResponse
//	@Failure		409	{object}	ssoclient.ErrorResponse
//	@Router			/v1/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req ssoclient.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ssoclient.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "malformed JSON body",
		})
		return
	}

	err := h.AuthService.Register(ctx, req.Token, service.RegisterRequest{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			httpx.WriteJSON(w, http.StatusBadRequest, ssoclient.ErrorResponse{
				Error:            "validation_failed",
				ErrorDescription: vErr.Reason,
				Field:            vErr.Field,
			})
		case errors.Is(err, service.ErrTokenNotExist):
			httpx.WriteJSON(w, http.StatusBadRequest, ssoclient.ErrorResponse{
				Error:            "invalid_token",
				ErrorDescription: "registration token does not exist",
			})
		case errors.Is(err, service.ErrTokenExpired):
			httpx.WriteJSON(w, http.StatusBadRequest, ssoclient.ErrorResponse{
				Error:            "invalid_token",
				ErrorDescription: "registration token has expired",
			})
		case errors.Is(err, service.ErrEmailMismatch):
			httpx.WriteJSON(w, http.StatusBadRequest, ssoclient.ErrorResponse{
				Error:            "invalid_token",
				ErrorDescription: "registration token was issued for a different email",
			})
		case errors.Is(err, service.ErrEmailAlreadyExist):
			httpx.WriteJSON(w, http.StatusConflict, ssoclient.ErrorResponse{
				Error:            "email_taken",
				ErrorDescription: "a user with that email already exists",
			})
		default:
			log.Error("registration failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, ssoclient.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "failed to register",
			})
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
}
