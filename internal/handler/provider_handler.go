package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/abenezer/localserve/internal/errors"
	"github.com/abenezer/localserve/internal/middleware"
	"github.com/abenezer/localserve/internal/models"
	"github.com/abenezer/localserve/internal/service"
	"github.com/abenezer/localserve/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type ProviderHandler struct {
	providerService service.ProviderService
	validate        *validator.Validate
}

func NewProviderHandler(providerService service.ProviderService) *ProviderHandler {
	return &ProviderHandler{
		providerService: providerService,
		validate:        validator.New(),
	}
}

func (h *ProviderHandler) RegisterRoutes(r chi.Router, authenticate func(http.Handler) http.Handler) {
	r.Route("/providers", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Group(func(r chi.Router) {
			r.Use(authenticate, middleware.RequireRoles(models.RoleProvider))
			r.Get("/me", h.GetMyProfile)
			r.Put("/me", h.UpdateMyProfile)
		})
		r.Get("/{id}", h.GetDetail)
	})
}

// GET /api/providers?service=&location=
func (h *ProviderHandler) Search(w http.ResponseWriter, r *http.Request) {
	listings, err := h.providerService.Search(r.Context(),
		r.URL.Query().Get("service"), r.URL.Query().Get("location"))
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, listings)
}

// GET /api/providers/{id}
func (h *ProviderHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid provider id")
		return
	}

	detail, err := h.providerService.GetDetail(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, detail)
}

// GET /api/providers/me
func (h *ProviderHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.Error(w, apperrors.Unauthorized("missing bearer token"))
		return
	}

	profile, err := h.providerService.GetMyProfile(r.Context(), claims.UserID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, profile)
}

// PUT /api/providers/me
func (h *ProviderHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.Error(w, apperrors.Unauthorized("missing bearer token"))
		return
	}

	var req models.UpdateProviderProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	created, err := h.providerService.UpdateMyProfile(r.Context(), claims.UserID, &req)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if created != nil {
		utils.Success(w, http.StatusOK, map[string]interface{}{
			"message":         "service change request submitted, waiting for admin approval",
			"pending_request": created,
		})
		return
	}

	utils.Message(w, http.StatusOK, "profile updated successfully")
}
