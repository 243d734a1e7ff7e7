package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideStatus string
type RideType string
type PaymentMethod string
type PaymentStatus string

const (
	// Passenger flow. A ride moves forward through these in order;
	// cancelled is reachable from any non-terminal status.
	RideStatusRequested       RideStatus = "requested"
	RideStatusSearchingDriver RideStatus = "searching_driver"
	RideStatusDriverAssigned  RideStatus = "driver_assigned"
	RideStatusDriverArrived   RideStatus = "driver_arrived"
	RideStatusInProgress      RideStatus = "in_progress"
	RideStatusCompleted       RideStatus = "completed"
	RideStatusCancelled       RideStatus = "cancelled"

	// Shared-offer flow. An offer is joinable only while open; it shares
	// in_progress and the terminal statuses with the passenger flow.
	RideStatusOpen RideStatus = "open"

	RideTypeEconomy RideType = "economy"
	RideTypeComfort RideType = "comfort"
	RideTypeSUV     RideType = "suv"
	RideTypePremium RideType = "premium"

	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"

	CancelledByRider  = "rider"
	CancelledByDriver = "driver"
)

// RideRating is one side of the bidirectional rating pair on a completed ride.
type RideRating struct {
	Rating  float64   `json:"rating" bson:"rating" validate:"min=1,max=5"`
	Comment string    `json:"comment" bson:"comment"`
	RatedAt time.Time `json:"rated_at" bson:"rated_at"`
}

// Ride represents one trip in the passenger flow, or one published offer in
// the shared flow. Offers carry seat counts and a ride_request id list; the
// passenger flow leaves those at their zero values.
type Ride struct {
	ID                 primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	RideNumber         string               `json:"ride_number" bson:"ride_number"`
	RiderID            primitive.ObjectID   `json:"rider_id" bson:"rider_id" validate:"required"`
	DriverID           *primitive.ObjectID  `json:"driver_id" bson:"driver_id"`
	RideType           RideType             `json:"ride_type" bson:"ride_type" validate:"required"`
	Status             RideStatus           `json:"status" bson:"status" default:"requested"`
	PickupLocation     Location             `json:"pickup_location" bson:"pickup_location" validate:"required"`
	DropoffLocation    Location             `json:"dropoff_location" bson:"dropoff_location" validate:"required"`
	EstimatedDistance  float64              `json:"estimated_distance" bson:"estimated_distance"` // kilometers
	EstimatedDuration  int                  `json:"estimated_duration" bson:"estimated_duration"` // minutes
	TotalSeats         int                  `json:"total_seats" bson:"total_seats"`
	AvailableSeats     int                  `json:"available_seats" bson:"available_seats"`
	Fare               Fare                 `json:"fare" bson:"fare"`
	ActualFare         float64              `json:"actual_fare" bson:"actual_fare"` // 0 until completed
	PaymentMethod      PaymentMethod        `json:"payment_method" bson:"payment_method" default:"cash"`
	PaymentStatus      PaymentStatus        `json:"payment_status" bson:"payment_status" default:"pending"`
	RequestedAt        time.Time            `json:"requested_at" bson:"requested_at"`
	AcceptedAt         *time.Time           `json:"accepted_at" bson:"accepted_at"`
	DriverArrivedAt    *time.Time           `json:"driver_arrived_at" bson:"driver_arrived_at"`
	StartedAt          *time.Time           `json:"started_at" bson:"started_at"`
	CompletedAt        *time.Time           `json:"completed_at" bson:"completed_at"`
	CancelledAt        *time.Time           `json:"cancelled_at" bson:"cancelled_at"`
	CancellationReason string               `json:"cancellation_reason" bson:"cancellation_reason"`
	CancelledBy        string               `json:"cancelled_by" bson:"cancelled_by"`
	RoutePolyline      string               `json:"route_polyline" bson:"route_polyline"`
	UserToDriverRating *RideRating          `json:"user_to_driver_rating" bson:"user_to_driver_rating"`
	DriverToUserRating *RideRating          `json:"driver_to_user_rating" bson:"driver_to_user_rating"`
	RideRequestIDs     []primitive.ObjectID `json:"ride_request_ids" bson:"ride_request_ids"`
	CreatedAt          time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at" bson:"updated_at"`
}

// IsTerminal reports whether no further status mutation is permitted.
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// Acceptable reports whether a driver may still accept the ride.
func (s RideStatus) Acceptable() bool {
	return s == RideStatusRequested || s == RideStatusSearchingDriver
}

func (r *Ride) IsSharedOffer() bool {
	return r.TotalSeats > 0
}
