package listings

import (
	"net/http"

	"villagestay/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller interface defines the contract for listing HTTP handlers
type Controller interface {
	CreateListing(c *gin.Context)
	GetListing(c *gin.Context)
	UpdateListing(c *gin.Context)
	DeleteListing(c *gin.Context)
	ListListings(c *gin.Context)
	GetMyListings(c *gin.Context)
	CheckAvailability(c *gin.Context)
	UpdateAvailability(c *gin.Context)
	ApproveListing(c *gin.Context)
	RejectListing(c *gin.Context)
}

type controller struct {
	service Service
}

// NewController creates a new listing controller instance
func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateListing(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	listing, err := ctrl.service.CreateListing(c.Request.Context(), hostID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Listing created, pending approval", ToResponse(listing))
}

func (ctrl *controller) GetListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid listing ID", nil)
		return
	}

	listing, err := ctrl.service.GetListing(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Listing retrieved successfully", ToResponse(listing))
}

func (ctrl *controller) UpdateListing(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid listing ID", nil)
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	listing, err := ctrl.service.UpdateListing(c.Request.Context(), hostID, id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Listing updated successfully", ToResponse(listing))
}

func (ctrl *controller) DeleteListing(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid listing ID", nil)
		return
	}

	if err := ctrl.service.DeactivateListing(c.Request.Context(), hostID, id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Listing deactivated successfully", nil)
}

func (ctrl *controller) ListListings(c *gin.Context) {
	var query ListingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := ctrl.service.ListListings(c.Request.Context(), query)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Listings retrieved successfully", result)
}

func (ctrl *controller) GetMyListings(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var query ListingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	query.HostID = hostID.String()
	query.IncludeUnapproved = true

	result, err := ctrl.service.ListListings(c.Request.Context(), query)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Listings retrieved successfully", result)
}

func (ctrl *controller) CheckAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid listing ID", nil)
		return
	}

	var query AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	checkIn, checkOut, err := parseRange(query.CheckIn, query.CheckOut)
	if err != nil {
		response.FromError(c, err)
		return
	}

	available, err := ctrl.service.IsAvailable(c.Request.Context(), id, checkIn, checkOut)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Availability checked successfully", AvailabilityResponse{
		ListingID:   id.String(),
		CheckIn:     query.CheckIn,
		CheckOut:    query.CheckOut,
		IsAvailable: available,
	})
}

func (ctrl *controller) UpdateAvailability(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid listing ID", nil)
		return
	}

	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	if err := ctrl.service.UpdateAvailability(c.Request.Context(), hostID, id, req); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Availability updated successfully", nil)
}

func (ctrl *controller) ApproveListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid listing ID", nil)
		return
	}

	if err := ctrl.service.ApproveListing(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Listing approved successfully", nil)
}

func (ctrl *controller) RejectListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid listing ID", nil)
		return
	}

	if err := ctrl.service.RejectListing(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Listing rejected", nil)
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
