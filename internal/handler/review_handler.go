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

type ReviewHandler struct {
	reviewService service.ReviewService
	validate      *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validate:      validator.New(),
	}
}

func (h *ReviewHandler) RegisterRoutes(r chi.Router, authenticate func(http.Handler) http.Handler) {
	r.Route("/reviews", func(r chi.Router) {
		r.Use(authenticate)
		r.With(middleware.RequireRoles(models.RoleCustomer)).Post("/", h.Create)
		r.Get("/my-reviews", h.ListMine)
	})
}

// POST /api/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.Error(w, apperrors.Unauthorized("missing bearer token"))
		return
	}

	var req models.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	review, err := h.reviewService.Create(r.Context(), claims.UserID, &req)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Created(w, review)
}

// GET /api/reviews/my-reviews
func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.Error(w, apperrors.Unauthorized("missing bearer token"))
		return
	}

	reviews, err := h.reviewService.ListMine(r.Context(), claims.UserID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, reviews)
}
