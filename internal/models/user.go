package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	UserRoleUser   UserRole = "user"
	UserRoleDriver UserRole = "driver"
	UserRoleAdmin  UserRole = "admin"
)

// RatingAggregate is a running average maintained incrementally as ratings
// arrive: (average*count + new) / (count+1), average kept to 1 decimal.
type RatingAggregate struct {
	Average float64 `json:"average" bson:"average" default:"0"`
	Count   int64   `json:"count" bson:"count" default:"0"`
}

type SavedAddress struct {
	Label    string   `json:"label" bson:"label"`
	Location Location `json:"location" bson:"location"`
}

type SavedPaymentMethod struct {
	Type      PaymentMethod `json:"type" bson:"type"`
	Label     string        `json:"label" bson:"label"`
	IsDefault bool          `json:"is_default" bson:"is_default" default:"false"`
}

type User struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	FirstName      string               `json:"first_name" bson:"first_name" validate:"required,min=2,max=50"`
	LastName       string               `json:"last_name" bson:"last_name" validate:"required,min=2,max=50"`
	Email          string               `json:"email" bson:"email" validate:"required,email"`
	Phone          string               `json:"phone" bson:"phone"`
	Password       string               `json:"-" bson:"password"`
	Role           UserRole             `json:"role" bson:"role" default:"user"`
	Location       *Location            `json:"location" bson:"location"`
	SavedAddresses []SavedAddress       `json:"saved_addresses" bson:"saved_addresses"`
	PaymentMethods []SavedPaymentMethod `json:"payment_methods" bson:"payment_methods"`
	Rating         RatingAggregate      `json:"rating" bson:"rating"`
	RideIDs        []primitive.ObjectID `json:"ride_ids" bson:"ride_ids"`
	IsActive       bool                 `json:"is_active" bson:"is_active" default:"true"`
	LastLoginAt    *time.Time           `json:"last_login_at" bson:"last_login_at"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}
