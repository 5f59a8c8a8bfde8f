package bookings

import (
	"net/http"

	"villagestay/internal/shared/utils/response"
	"villagestay/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller interface defines the contract for booking HTTP handlers
type Controller interface {
	CreateBooking(c *gin.Context)
	GetBooking(c *gin.Context)
	CompletePayment(c *gin.Context)
	CancelBooking(c *gin.Context)
	CompleteBooking(c *gin.Context)
	GetMyBookings(c *gin.Context)
	GetHostBookings(c *gin.Context)
	GetAllBookings(c *gin.Context)
}

type controller struct {
	service Service
}

// NewController creates a new booking controller instance
func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateBooking(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	result, err := ctrl.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Booking created, complete payment to confirm", result)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	result, err := ctrl.service.GetBooking(c.Request.Context(), userID, role, bookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Booking retrieved successfully", result)
}

func (ctrl *controller) CompletePayment(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	result, err := ctrl.service.CompletePayment(c.Request.Context(), userID, bookingID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Payment completed, booking confirmed", result)
}

func (ctrl *controller) CancelBooking(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
			return
		}
	}

	result, err := ctrl.service.CancelBooking(c.Request.Context(), userID, role, bookingID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Booking cancelled successfully", result)
}

func (ctrl *controller) CompleteBooking(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	result, err := ctrl.service.CompleteBooking(c.Request.Context(), userID, role, bookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Booking completed successfully", result)
}

func (ctrl *controller) GetMyBookings(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := ctrl.service.GetUserBookings(c.Request.Context(), userID, query)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Bookings retrieved successfully", result)
}

func (ctrl *controller) GetHostBookings(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := ctrl.service.GetHostBookings(c.Request.Context(), userID, query)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Bookings retrieved successfully", result)
}

func (ctrl *controller) GetAllBookings(c *gin.Context) {
	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := ctrl.service.GetAllBookings(c.Request.Context(), query)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Bookings retrieved successfully", result)
}

func currentUser(c *gin.Context) (uuid.UUID, users.Role, bool) {
	rawID, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, "", false
	}
	idStr, ok := rawID.(string)
	if !ok {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, "", false
	}

	role := users.Role("")
	if rawRole, exists := c.Get("user_role"); exists {
		if roleStr, ok := rawRole.(string); ok {
			role = users.Role(roleStr)
		}
	}

	return id, role, true
}
