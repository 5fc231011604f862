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

type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router, authenticate func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/regions", h.Regions)
		r.With(authenticate).Put("/profile", h.UpdateProfile)
	})
}

// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Created(w, user)
}

// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, resp)
}

// GET /api/auth/regions
func (h *AuthHandler) Regions(w http.ResponseWriter, r *http.Request) {
	names, err := h.authService.ListRegions(r.Context())
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, names)
}

// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.Error(w, apperrors.Unauthorized("missing bearer token"))
		return
	}

	var req models.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	if err := h.authService.UpdateAccount(r.Context(), claims.UserID, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Message(w, http.StatusOK, "profile updated successfully")
}
