package http

import (
	"encoding/json"
	"net/http"

	"github.com/signonhq/signon/internal/sso/service"
	"github.com/signonhq/signon/pkg/httpx"
	"github.com/signonhq/signon/pkg/slogx"
	"github.com/signonhq/signon/pkg/ssoclient"
)

type MintTokenHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Mint registration token
//	@Description	Create a single-use registration token bound to an email. Admin only.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ssoclient.MintTokenRequest	true	"recipient email"
//	@Success		201		{object}	ssoclient.MintTokenResponse
//	@Failure		400		{object}	ssoclient.ErrorResponse
//	@Failure		403		{object}	ssoclient.ErrorResponse
//	@Router			/v1/tokens/registration [post].
func (h *MintTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ssoclient.MintTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ssoclient.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "email is required",
		})
		return
	}

	token, err := h.AuthService.CreateRegistrationToken(ctx, req.Email)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to mint registration token", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ssoclient.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "failed to create registration token",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, ssoclient.MintTokenResponse{
		Token:     token.Value,
		Email:     token.UserEmail,
		ExpiresAt: *token.Expiration,
	})
}
