package routes

import (
	"shareride/internal/handlers"
	"shareride/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupDriverRoutes sets up driver profile and discovery routes
func SetupDriverRoutes(r *gin.RouterGroup, driverHandler *handlers.DriverHandler, jwtSecret string) {
	drivers := r.Group("/drivers")
	drivers.Use(middleware.AuthRequired(jwtSecret))
	{
		// Any authenticated user may register as a driver or browse nearby
		drivers.POST("/register", driverHandler.Register)
		drivers.GET("/nearby", driverHandler.Nearby)
	}

	profile := r.Group("/drivers")
	profile.Use(middleware.AuthRequired(jwtSecret), middleware.DriverRequired())
	{
		profile.GET("/profile", driverHandler.GetProfile)
		profile.PUT("/availability", driverHandler.SetAvailability)
		profile.PUT("/location", driverHandler.UpdateLocation)
		profile.GET("/earnings", driverHandler.Earnings)
	}
}
