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

type AppsHandler struct {
	AppService *service.AppService
}

// HandleCreate godoc
//
//	@Summary		Register application
//	@Description	Register a client application. The client secret is returned once. Admin only.
//	@Tags			Apps
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ssoclient.CreateAppRequest	true	"application details"
//	@Success		201		{object}	ssoclient.AppResponse
//	@Failure		400		{object}	ssoclient.ErrorResponse
//	@Failure		409		{object}	ssoclient.ErrorResponse
//	@Router			/v1/apps [post].
func (h *AppsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req ssoclient.CreateAppRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ssoclient.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "malformed JSON body",
		})
		return
	}

	app, secret, err := h.AppService.Create(ctx, req.Name, req.BaseURL)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			httpx.WriteJSON(w, http.StatusBadRequest, ssoclient.ErrorResponse{
				Error:            "validation_failed",
				ErrorDescription: vErr.Reason,
				Field:            vErr.Field,
			})
		case errors.Is(err, service.ErrAppAlreadyExists):
			httpx.WriteJSON(w, http.StatusConflict, ssoclient.ErrorResponse{
				Error:            "name_taken",
				ErrorDescription: "an application with that name already exists",
			})
		default:
			log.Error("failed to create application", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, ssoclient.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "failed to create application",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, ssoclient.AppResponse{
		ID:           app.ID,
		Name:         app.Name,
		BaseURL:      app.BaseURL,
		ClientSecret: secret,
		CreatedAt:    app.CreatedAt,
	})
}

// HandleList godoc
//
//	@Summary		List applications
//	@Tags			Apps
//	@Produce		json
//	@Success		200	{array}	ssoclient.AppResponse
//	@Router			/v1/apps [get].
func (h *AppsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apps, err := h.AppService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list applications", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ssoclient.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "failed to list applications",
		})
		return
	}

	out := make([]ssoclient.AppResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, ssoclient.AppResponse{
			ID:        a.ID,
			Name:      a.Name,
			BaseURL:   a.BaseURL,
			CreatedAt: a.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete godoc
//
//	@Summary		Delete application
//	@Tags			Apps
//	@Produce		json
//	@Param			id	path	string	true	"application id"
//	@Success		204
//	@Failure		404	{object}	ssoclient.ErrorResponse
//	@Router			/v1/apps/{id} [delete].
func (h *AppsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := r.PathValue("id")
	if err := h.AppService.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrAppNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, ssoclient.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "no application with that id",
			})
			return
		}
		slogx.FromContext(ctx).Error("failed to delete application", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ssoclient.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "failed to delete application",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
