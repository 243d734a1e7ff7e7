package routes

import (
	"shareride/internal/handlers"
	"shareride/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRideRoutes sets up the ride lifecycle and shared offer routes
func SetupRideRoutes(r *gin.RouterGroup, rideHandler *handlers.RideHandler, requestHandler *handlers.RideRequestHandler, jwtSecret string) {
	rides := r.Group("/rides")
	rides.Use(middleware.AuthRequired(jwtSecret))
	{
		rides.POST("/request", rideHandler.RequestRide)
		rides.GET("", rideHandler.ListMyRides)
		rides.GET("/offers", rideHandler.ListOffers)
		rides.GET("/:id", rideHandler.GetRide)
		rides.POST("/:id/cancel", rideHandler.CancelRide)
		rides.POST("/:id/rate", rideHandler.RateRide)

		// Shared offer join protocol
		rides.POST("/:id/join", requestHandler.RequestToJoin)
		rides.GET("/:id/requests", requestHandler.ListForRide)
	}

	driverRides := r.Group("/rides")
	driverRides.Use(middleware.AuthRequired(jwtSecret), middleware.DriverRequired())
	{
		driverRides.POST("/offers", rideHandler.PublishOffer)
		driverRides.POST("/:id/accept", rideHandler.AcceptRide)
		driverRides.POST("/:id/arrived", rideHandler.DriverArrived)
		driverRides.POST("/:id/start", rideHandler.StartRide)
		driverRides.POST("/:id/complete", rideHandler.CompleteRide)
	}

	requests := r.Group("/ride-requests")
	requests.Use(middleware.AuthRequired(jwtSecret))
	{
		requests.GET("", requestHandler.ListMine)
		requests.GET("/:id", requestHandler.GetRequest)
		requests.POST("/:id/cancel", requestHandler.Cancel)
	}

	driverRequests := r.Group("/ride-requests")
	driverRequests.Use(middleware.AuthRequired(jwtSecret), middleware.DriverRequired())
	{
		driverRequests.POST("/:id/respond", requestHandler.Respond)
	}
}
