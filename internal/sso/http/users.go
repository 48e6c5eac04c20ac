package http

import (
	"net/http"

	"github.com/signonhq/signon/internal/sso/store"
	"github.com/signonhq/signon/pkg/httpx"
	"github.com/signonhq/signon/pkg/slogx"
	"github.com/signonhq/signon/pkg/ssoclient"
)

type UsersHandler struct {
	Store store.Store
}

// ServeHTTP godoc
//
//	@Summary		List users
//	@Description	Return all registered users. Admin only.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{array}		ssoclient.UserResponse
//	@Failure		403	{object}	ssoclient.ErrorResponse
//	@Router			/v1/users [get].
func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.Store.Users().List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list users", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ssoclient.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "failed to list users",
		})
		return
	}

	out := make([]ssoclient.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ssoclient.UserResponse{
			Email:     u.Email,
			Name:      u.Name,
			Admin:     u.Admin,
			CreatedAt: u.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
