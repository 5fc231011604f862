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

type AdminHandler struct {
	adminService service.AdminService
	validate     *validator.Validate
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		validate:     validator.New(),
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router, authenticate func(http.Handler) http.Handler) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticate, middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
		r.Get("/providers", h.ListProviders)
		r.Patch("/providers/{id}/status", h.UpdateProviderStatus)
		r.Get("/users", h.ListUsers)
		r.Get("/service-change-requests", h.ListServiceChangeRequests)
		r.Patch("/service-change-requests/{id}", h.ResolveServiceChange)
		r.With(middleware.RequireRoles(models.RoleSuperAdmin)).Post("/create-admin", h.CreateAdmin)
	})
}

// GET /api/admin/providers?region=
func (h *AdminHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.Error(w, apperrors.Unauthorized("missing bearer token"))
		return
	}

	listings, err := h.adminService.ListProviders(r.Context(), claims, r.URL.Query().Get("region"))
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, listings)
}

// GET /api/admin/users?region=&role=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.Error(w, apperrors.Unauthorized("missing bearer token"))
		return
	}

	users, err := h.adminService.ListUsers(r.Context(), claims,
		r.URL.Query().Get("region"), r.URL.Query().Get("role"))
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, user.ToResponse())
	}
	utils.Success(w, http.StatusOK, responses)
}

// PATCH /api/admin/providers/{id}/status
func (h *AdminHandler) UpdateProviderStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.Error(w, apperrors.Unauthorized("missing bearer token"))
		return
	}

	id := chi.URLParam(r, "id")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid provider id")
		return
	}

	var req models.UpdateProviderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	if err := h.adminService.SetProviderStatus(r.Context(), claims, id, req.Status); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Message(w, http.StatusOK, "status updated successfully")
}

// GET /api/admin/service-change-requests?region=
func (h *AdminHandler) ListServiceChangeRequests(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.Error(w, apperrors.Unauthorized("missing bearer token"))
		return
	}

	listings, err := h.adminService.ListServiceChangeRequests(r.Context(), claims, r.URL.Query().Get("region"))
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, listings)
}

// PATCH /api/admin/service-change-requests/{id}
func (h *AdminHandler) ResolveServiceChange(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.Error(w, apperrors.Unauthorized("missing bearer token"))
		return
	}

	id := chi.URLParam(r, "id")
	if !utils.IsValidUUID(id) {
		utils.BadRequest(w, "invalid request id")
		return
	}

	var req models.ResolveServiceChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	if err := h.adminService.ResolveServiceChange(r.Context(), claims, id, req.Status); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Message(w, http.StatusOK, "request resolved successfully")
}

// POST /api/admin/create-admin
func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	if err := h.adminService.CreateAdmin(r.Context(), &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Message(w, http.StatusCreated, "admin created successfully")
}
