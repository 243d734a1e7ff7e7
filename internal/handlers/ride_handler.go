package handlers

import (
	"shareride/internal/middleware"
	"shareride/internal/models"
	"shareride/internal/services"
	"shareride/internal/utils"
	"shareride/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideHandler struct {
	rideService *services.RideService
}

func NewRideHandler(rideService *services.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

func parseObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

// RequestRide handles POST /rides/request
func (h *RideHandler) RequestRide(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req validators.RequestRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateRequestRideRequest(&req); errs != nil {
		utils.BadRequestResponse(c, errs.Error())
		return
	}

	result, err := h.rideService.RequestRide(c.Request.Context(), userID, services.RequestRideInput{
		Pickup:            models.NewPoint(req.Pickup.Longitude, req.Pickup.Latitude, req.Pickup.Address),
		Dropoff:           models.NewPoint(req.Dropoff.Longitude, req.Dropoff.Latitude, req.Dropoff.Address),
		RideType:          models.RideType(req.RideType),
		EstimatedDistance: req.EstimatedDistance,
		EstimatedDuration: req.EstimatedDuration,
		Seats:             req.Seats,
		PaymentMethod:     models.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Ride requested", result)
}

// PublishOffer handles POST /rides/offers
func (h *RideHandler) PublishOffer(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req validators.PublishOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidatePublishOfferRequest(&req); errs != nil {
		utils.BadRequestResponse(c, errs.Error())
		return
	}

	ride, err := h.rideService.PublishOffer(c.Request.Context(), userID, services.PublishOfferInput{
		Pickup:            models.NewPoint(req.Pickup.Longitude, req.Pickup.Latitude, req.Pickup.Address),
		Dropoff:           models.NewPoint(req.Dropoff.Longitude, req.Dropoff.Latitude, req.Dropoff.Address),
		RideType:          models.RideType(req.RideType),
		EstimatedDistance: req.EstimatedDistance,
		EstimatedDuration: req.EstimatedDuration,
		Seats:             req.Seats,
		RoutePolyline:     req.RoutePolyline,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Offer published", ride)
}

// ListOffers handles GET /rides/offers
func (h *RideHandler) ListOffers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	rides, total, err := h.rideService.ListOpenOffers(c.Request.Context(), params)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", rides, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetRide handles GET /rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	rideID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	ride, err := h.rideService.GetRide(c.Request.Context(), rideID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "", ride)
}

// ListMyRides handles GET /rides
func (h *RideHandler) ListMyRides(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	rides, total, err := h.rideService.ListRiderRides(c.Request.Context(), userID, params)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", rides, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// AcceptRide handles POST /rides/:id/accept
func (h *RideHandler) AcceptRide(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	rideID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	ride, err := h.rideService.AcceptRide(c.Request.Context(), userID, rideID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride accepted", ride)
}

// DriverArrived handles POST /rides/:id/arrived
func (h *RideHandler) DriverArrived(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	rideID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	ride, err := h.rideService.DriverArrived(c.Request.Context(), userID, rideID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Arrival recorded", ride)
}

// StartRide handles POST /rides/:id/start
func (h *RideHandler) StartRide(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	rideID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	ride, err := h.rideService.StartRide(c.Request.Context(), userID, rideID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride started", ride)
}

// CompleteRide handles POST /rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	rideID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	ride, err := h.rideService.CompleteRide(c.Request.Context(), userID, rideID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride completed", ride)
}

// CancelRide handles POST /rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	rideID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req validators.CancelRideRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request body")
			return
		}
	}

	ride, err := h.rideService.CancelRide(c.Request.Context(), userID, rideID, req.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride cancelled", ride)
}

// RateRide handles POST /rides/:id/rate
func (h *RideHandler) RateRide(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	rideID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req validators.RateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateRateRideRequest(&req); errs != nil {
		utils.BadRequestResponse(c, errs.Error())
		return
	}

	// The rating side follows the caller's role: drivers rate the rider,
	// everyone else rates the driver.
	ratedBy := models.UserRoleUser
	if role := c.GetString(middleware.ContextRoleKey); role == string(models.UserRoleDriver) {
		if ride, err := h.rideService.GetRide(c.Request.Context(), rideID); err == nil && ride.RiderID != userID {
			ratedBy = models.UserRoleDriver
		}
	}

	ride, err := h.rideService.RateRide(c.Request.Context(), userID, rideID, services.RateRideInput{
		Rating:  req.Rating,
		Comment: req.Comment,
		RatedBy: ratedBy,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rating recorded", ride)
}
