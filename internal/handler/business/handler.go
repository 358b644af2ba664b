package business

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/service/directory"
	"github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/httputil"
)

type Handler struct {
	service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	businesses := r.Group("/businesses")
	{
		businesses.GET("", h.ListBusinesses)
		businesses.GET("/:id", h.GetBusiness)
		businesses.GET("/:id/services", h.ListServices)
	}
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/businesses/services", h.SaveServices)
}

func (h *Handler) ListBusinesses(c *gin.Context) {
	businesses, err := h.service.ListBusinesses(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, errors.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, businesses)
}

func (h *Handler) GetBusiness(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid business ID", err))
		return
	}

	business, err := h.service.GetBusiness(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, errors.NotFound("business", err))
		return
	}
	httputil.RespondWithSuccess(c, business)
}

func (h *Handler) ListServices(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid business ID", err))
		return
	}

	business, err := h.service.GetBusiness(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, errors.NotFound("business", err))
		return
	}
	httputil.RespondWithSuccess(c, business.Services)
}

// SaveServices declares or updates the caller's offerings through the
// save_business_services procedure.
func (h *Handler) SaveServices(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.Unauthorized("you must be logged in"))
		return
	}
	if model.UserRole(claims.Role) != model.UserRoleBusiness {
		httputil.RespondWithError(c, errors.Forbidden("only business accounts can declare services"))
		return
	}

	var req model.SaveBusinessServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	result, err := h.service.SaveServices(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		httputil.RespondWithError(c, errors.Remote("", err))
		return
	}
	httputil.RespondWithCreated(c, result)
}
