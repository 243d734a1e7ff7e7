package validators

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("strong_password", validateStrongPassword)
	validate.RegisterValidation("coordinates", validateCoordinates)
	validate.RegisterValidation("rating_value", validateRatingValue)
	validate.RegisterValidation("future_date", validateFutureDate)
	validate.RegisterValidation("ride_type", validateRideType)
	validate.RegisterValidation("license_plate", validateLicensePlate)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// ValidateStruct validates a request struct and returns per-field errors.
func ValidateStruct(s interface{}) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors ValidationErrors
	for _, fieldErr := range err.(validator.ValidationErrors) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   strings.ToLower(fieldErr.Field()),
			Tag:     fieldErr.Tag(),
			Message: messageFor(fieldErr),
		})
	}
	return validationErrors
}

func messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "object_id":
		return "must be a valid object ID"
	case "phone_number":
		return "must be a valid phone number"
	case "strong_password":
		return "must be at least 8 characters with upper, lower and digit"
	case "coordinates":
		return "must be a [longitude, latitude] pair"
	case "rating_value":
		return "must be between 1.0 and 5.0"
	case "future_date":
		return "must be a date in the future"
	case "ride_type":
		return "must be one of economy, comfort, suv, premium"
	case "license_plate":
		return "must be a valid license plate"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	_, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

func validatePhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

func validateCoordinates(fl validator.FieldLevel) bool {
	coords, ok := fl.Field().Interface().([]float64)
	if !ok || len(coords) != 2 {
		return false
	}
	lng, lat := coords[0], coords[1]
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

func validateRatingValue(fl validator.FieldLevel) bool {
	rating := fl.Field().Float()
	return rating >= 1.0 && rating <= 5.0
}

func validateFutureDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return date.After(time.Now())
}

func validateRideType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "economy", "comfort", "suv", "premium":
		return true
	}
	return false
}

var plateRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 -]{1,9}$`)

func validateLicensePlate(fl validator.FieldLevel) bool {
	return plateRegex.MatchString(strings.ToUpper(fl.Field().String()))
}
