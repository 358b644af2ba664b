package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/repository"
	"github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/httputil"
)

// Handler serves the caller's own profile. Profile writes stay with the
// backend's auth layer.
type Handler struct {
	repo repository.ProfileRepository
}

func NewHandler(repo repository.ProfileRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.GetProfile)
}

func (h *Handler) GetProfile(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.Unauthorized("you must be logged in"))
		return
	}

	profile, err := h.repo.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.RespondWithError(c, errors.NotFound("profile", err))
		return
	}
	httputil.RespondWithSuccess(c, profile)
}
