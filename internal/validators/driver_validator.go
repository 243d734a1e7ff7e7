package validators

import "time"

type VehicleRequest struct {
	Make        string `json:"make" validate:"required,min=2,max=50"`
	Model       string `json:"model" validate:"required,min=1,max=50"`
	Year        int    `json:"year" validate:"omitempty,min=1990,max=2030"`
	Color       string `json:"color" validate:"omitempty,max=30"`
	PlateNumber string `json:"plate_number" validate:"required,license_plate"`
}

type RegisterDriverRequest struct {
	LicenseNumber string         `json:"license_number" validate:"required,min=5,max=20"`
	LicenseExpiry time.Time      `json:"license_expiry" validate:"required,future_date"`
	Vehicle       VehicleRequest `json:"vehicle" validate:"required"`
	RideType      string         `json:"ride_type" validate:"required,ride_type"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

type LocationUpdateRequest struct {
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Address   string  `json:"address" validate:"omitempty,max=200"`
}

func ValidateRegisterDriverRequest(req *RegisterDriverRequest) ValidationErrors {
	errs := ValidateStruct(req)
	errs = append(errs, ValidateStruct(&req.Vehicle)...)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateLocationUpdateRequest(req *LocationUpdateRequest) ValidationErrors {
	return ValidateStruct(req)
}
