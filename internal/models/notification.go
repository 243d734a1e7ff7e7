package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeRideRequestReceived  NotificationType = "ride_request_received"
	NotificationTypeRideRequestAccepted  NotificationType = "ride_request_accepted"
	NotificationTypeRideRequestRejected  NotificationType = "ride_request_rejected"
	NotificationTypeRideRequestCancelled NotificationType = "ride_request_cancelled"
	NotificationTypeRideAccepted         NotificationType = "ride_accepted"
	NotificationTypeRideCancelled        NotificationType = "ride_cancelled"
	NotificationTypeRideCompleted        NotificationType = "ride_completed"
	NotificationTypeGeneral              NotificationType = "general"
)

// Notification is a persisted in-app record; delivery channels (push, SMS)
// are out of scope.
type Notification struct {
	ID        primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID     `json:"user_id" bson:"user_id" validate:"required"`
	Type      NotificationType       `json:"type" bson:"type" validate:"required"`
	Title     string                 `json:"title" bson:"title" validate:"required"`
	Message   string                 `json:"message" bson:"message" validate:"required"`
	Data      map[string]interface{} `json:"data" bson:"data"`
	IsRead    bool                   `json:"is_read" bson:"is_read" default:"false"`
	ReadAt    *time.Time             `json:"read_at" bson:"read_at"`
	CreatedAt time.Time              `json:"created_at" bson:"created_at"`
}
