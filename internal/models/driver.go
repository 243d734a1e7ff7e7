package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Vehicle struct {
	Make        string `json:"make" bson:"make" validate:"required"`
	Model       string `json:"model" bson:"model" validate:"required"`
	Year        int    `json:"year" bson:"year"`
	Color       string `json:"color" bson:"color"`
	PlateNumber string `json:"plate_number" bson:"plate_number" validate:"required"`
}

type DriverDocument struct {
	Name       string    `json:"name" bson:"name"`
	URL        string    `json:"url" bson:"url"`
	IsVerified bool      `json:"is_verified" bson:"is_verified" default:"false"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// Earnings accumulates completed-ride fares. CurrentWeek/CurrentMonth are
// rolled over externally; the lifecycle manager only increments.
type Earnings struct {
	Total        float64 `json:"total" bson:"total" default:"0"`
	CurrentWeek  float64 `json:"current_week" bson:"current_week" default:"0"`
	CurrentMonth float64 `json:"current_month" bson:"current_month" default:"0"`
}

// Driver is the role-specific profile attached 1:1 to a user with role
// driver. A driver with ActiveRideID set always has IsAvailable=false.
type Driver struct {
	ID                 primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID             primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	LicenseNumber      string              `json:"license_number" bson:"license_number" validate:"required"`
	LicenseExpiry      time.Time           `json:"license_expiry" bson:"license_expiry"`
	Vehicle            Vehicle             `json:"vehicle" bson:"vehicle" validate:"required"`
	RideType           RideType            `json:"ride_type" bson:"ride_type" validate:"required"`
	CurrentLocation    *Location           `json:"current_location" bson:"current_location"`
	LastLocationUpdate *time.Time          `json:"last_location_update" bson:"last_location_update"`
	IsAvailable        bool                `json:"is_available" bson:"is_available" default:"false"`
	ActiveRideID       *primitive.ObjectID `json:"active_ride_id" bson:"active_ride_id"`
	Earnings           Earnings            `json:"earnings" bson:"earnings"`
	CompletedRides     int64               `json:"completed_rides" bson:"completed_rides" default:"0"`
	Rating             RatingAggregate     `json:"rating" bson:"rating"`
	Documents          []DriverDocument    `json:"documents" bson:"documents"`
	CreatedAt          time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at" bson:"updated_at"`
}
