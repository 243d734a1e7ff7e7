package handlers

import (
	"strconv"

	"shareride/internal/middleware"
	"shareride/internal/models"
	"shareride/internal/services"
	"shareride/internal/utils"
	"shareride/internal/validators"

	"github.com/gin-gonic/gin"
)

type DriverHandler struct {
	driverService *services.DriverService
}

func NewDriverHandler(driverService *services.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// Register handles POST /drivers/register
func (h *DriverHandler) Register(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req validators.RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateRegisterDriverRequest(&req); errs != nil {
		utils.BadRequestResponse(c, errs.Error())
		return
	}

	driver, err := h.driverService.RegisterDriver(c.Request.Context(), userID, services.RegisterDriverInput{
		LicenseNumber: req.LicenseNumber,
		LicenseExpiry: req.LicenseExpiry,
		Vehicle: models.Vehicle{
			Make:        req.Vehicle.Make,
			Model:       req.Vehicle.Model,
			Year:        req.Vehicle.Year,
			Color:       req.Vehicle.Color,
			PlateNumber: req.Vehicle.PlateNumber,
		},
		RideType: models.RideType(req.RideType),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Driver registered", driver)
}

// GetProfile handles GET /drivers/profile
func (h *DriverHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	driver, err := h.driverService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "", driver)
}

// SetAvailability handles PUT /drivers/availability
func (h *DriverHandler) SetAvailability(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req validators.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAvailable == nil {
		utils.BadRequestResponse(c, "is_available is required")
		return
	}

	driver, err := h.driverService.SetAvailability(c.Request.Context(), userID, *req.IsAvailable)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Availability updated", driver)
}

// UpdateLocation handles PUT /drivers/location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req validators.LocationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateLocationUpdateRequest(&req); errs != nil {
		utils.BadRequestResponse(c, errs.Error())
		return
	}

	if err := h.driverService.UpdateLocation(c.Request.Context(), userID, req.Longitude, req.Latitude, req.Address); err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Location updated", nil)
}

// Nearby handles GET /drivers/nearby
func (h *DriverHandler) Nearby(c *gin.Context) {
	lng, errLng := strconv.ParseFloat(c.Query("longitude"), 64)
	lat, errLat := strconv.ParseFloat(c.Query("latitude"), 64)
	if errLng != nil || errLat != nil {
		utils.BadRequestResponse(c, "longitude and latitude query parameters are required")
		return
	}

	radiusKM, _ := strconv.ParseFloat(c.DefaultQuery("radius_km", "0"), 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)
	rideType := models.RideType(c.Query("ride_type"))

	drivers, err := h.driverService.NearbyDrivers(c.Request.Context(), lng, lat, radiusKM, rideType, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", drivers, &utils.Meta{Count: len(drivers)})
}

// Earnings handles GET /drivers/earnings
func (h *DriverHandler) Earnings(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	driver, err := h.driverService.Earnings(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "", gin.H{
		"earnings":        driver.Earnings,
		"completed_rides": driver.CompletedRides,
		"rating":          driver.Rating,
	})
}
