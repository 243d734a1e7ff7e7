package utils

import "time"

// Application Constants
const (
	AppName    = "ShareRide"
	AppVersion = "1.0.0"

	APIBasePath = "/api/v1"

	// Response statuses
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"

	// Default values
	DefaultCurrency = "PKR"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8

	// Ride Constants
	DriverSearchRadiusKM       = 5.0
	MaxRideDistanceKM          = 500.0
	MaxSeatsPerRide            = 6
	DefaultCancellationReason  = "No reason provided"
	StaleDriverLocationTimeout = 10 * time.Minute

	// Fare Constants
	BaseFarePerSeat    = 226.0
	TimeFarePerKM      = 2.5
	TaxRate            = 0.10
	DefaultRatePerKM   = 15.0
	RatePerKMEconomy   = 15.0
	RatePerKMComfort   = 20.0
	RatePerKMSUV       = 25.0
	RatePerKMPremium   = 30.0

	// Rating Constants
	MinRating = 1.0
	MaxRating = 5.0
)

// Error Messages
const (
	ErrValidationFailed = "Validation failed"
	ErrUnauthorized     = "Authentication required"
	ErrForbidden        = "You do not have permission to perform this action"
	ErrInternalServer   = "Something went wrong, please try again later"
)
