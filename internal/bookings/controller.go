package bookings

import (
	"errors"
	"net/http"

	"campusevents/internal/shared/middleware"
	"campusevents/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (ctrl *Controller) Submit(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Not authenticated", nil, nil)
		return
	}

	var req SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	email, _ := c.Get("user_email")
	userEmail, _ := email.(string)

	booking, err := ctrl.service.Submit(c.Request.Context(), userID, userEmail, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Auditorium booking request submitted", booking, nil)
}

func (ctrl *Controller) UpdateStatus(c *gin.Context) {
	reviewerID, err := middleware.CurrentUserID(c)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Not authenticated", nil, nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := ctrl.service.UpdateStatus(c.Request.Context(), bookingID, reviewerID, req)
	if err != nil {
		// A conflict at approval time force-rejects the booking; return the
		// final state alongside the conflict so the reviewer sees both
		if errors.Is(err, ErrPromotionConflict) {
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), booking, nil)
			return
		}
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking updated", booking, nil)
}

func (ctrl *Controller) GetBooking(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Not authenticated", nil, nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	role := middleware.CurrentUserRole(c)
	booking, err := ctrl.service.GetBooking(c.Request.Context(), bookingID, userID, role.IsPrivileged() || role.CanReviewBookings())
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

func (ctrl *Controller) MyBookings(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Not authenticated", nil, nil)
		return
	}

	list, err := ctrl.service.MyBookings(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", list, nil)
}

func (ctrl *Controller) ListBookings(c *gin.Context) {
	list, err := ctrl.service.ListBookings(c.Request.Context(), c.Query("department"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", list, nil)
}
