package booking

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookingflow "github.com/bookline/booking-api/internal/booking"
	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/schedule"
	"github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/httputil"
	"github.com/bookline/booking-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

type Handler struct {
	slots      *bookingflow.SlotService
	workflow   *bookingflow.Workflow
	businesses bookingflow.BusinessSource
	metrics    *metrics.Metrics
}

func NewHandler(slots *bookingflow.SlotService, workflow *bookingflow.Workflow, businesses bookingflow.BusinessSource, m *metrics.Metrics) *Handler {
	return &Handler{
		slots:      slots,
		workflow:   workflow,
		businesses: businesses,
		metrics:    m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/businesses/:id/slots", h.GetSlots)
	r.POST("/bookings", h.CreateBooking)
}

// GetSlots renders one eligible date's availability.
func (h *Handler) GetSlots(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.Unauthorized("you must be logged in"))
		return
	}

	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid business ID", err))
		return
	}

	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid date format, expected YYYY-MM-DD", err))
		return
	}

	slots, err := h.slots.GetSlots(c.Request.Context(), claims.UserID, businessID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	day := schedule.NewPicker(slots)
	httputil.RespondWithSuccess(c, model.DaySchedule{
		Date:            date.Format(dateLayout),
		Slots:           day.Slots(),
		SelectableCount: day.SelectableCount(),
	})
}

// CreateBooking submits one booking attempt. All validation failures
// happen before the backend is called; a failed submission leaves the
// caller free to retry with the same payload.
func (h *Handler) CreateBooking(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		// Fail before any backend work; the submitted payload stays
		// valid for a retry after login.
		httputil.RespondWithError(c, errors.Unauthorized("you must be logged in to book an appointment"))
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid date format, expected YYYY-MM-DD", err))
		return
	}

	wfReq := &bookingflow.Request{
		CustomerID: claims.UserID,
		BusinessID: req.BusinessID,
		Date:       date,
		Time:       req.Time,
	}

	selection, err := h.buildSelection(c, req.BusinessID, req.ServiceIDs)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	wfReq.Selection = selection

	apt, err := h.workflow.Submit(c.Request.Context(), wfReq)
	if err != nil {
		h.metrics.BookingsSubmitted.WithLabelValues("error").Inc()
		httputil.RespondWithError(c, err)
		return
	}

	h.metrics.BookingsSubmitted.WithLabelValues("success").Inc()
	httputil.RespondWithCreated(c, apt)
}

// buildSelection recreates the cart from the business's offered
// services, preserving the original list order.
func (h *Handler) buildSelection(c *gin.Context, businessID uuid.UUID, serviceIDs []uuid.UUID) (*bookingflow.Selection, error) {
	if businessID == uuid.Nil {
		// The workflow reports the missing business itself.
		return bookingflow.NewSelection(nil), nil
	}

	business, err := h.businesses.GetBusiness(c.Request.Context(), businessID)
	if err != nil {
		return nil, errors.NotFound("business", err)
	}

	selection := bookingflow.NewSelection(business.Services)
	for _, id := range serviceIDs {
		selection.Toggle(id)
	}
	return selection, nil
}
