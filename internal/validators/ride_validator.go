package validators

// LocationRequest is the wire form of a GeoJSON point.
type LocationRequest struct {
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Address   string  `json:"address" validate:"omitempty,max=200"`
}

type RequestRideRequest struct {
	Pickup            LocationRequest `json:"pickup" validate:"required"`
	Dropoff           LocationRequest `json:"dropoff" validate:"required"`
	RideType          string          `json:"ride_type" validate:"required,ride_type"`
	EstimatedDistance float64         `json:"estimated_distance" validate:"required,gt=0,lte=500"`
	EstimatedDuration int             `json:"estimated_duration" validate:"omitempty,gte=0"`
	Seats             int             `json:"seats" validate:"omitempty,min=1,max=6"`
	PaymentMethod     string          `json:"payment_method" validate:"omitempty,oneof=cash card wallet"`
}

type PublishOfferRequest struct {
	Pickup            LocationRequest `json:"pickup" validate:"required"`
	Dropoff           LocationRequest `json:"dropoff" validate:"required"`
	RideType          string          `json:"ride_type" validate:"required,ride_type"`
	EstimatedDistance float64         `json:"estimated_distance" validate:"required,gt=0,lte=500"`
	EstimatedDuration int             `json:"estimated_duration" validate:"omitempty,gte=0"`
	Seats             int             `json:"seats" validate:"required,min=1,max=6"`
	RoutePolyline     string          `json:"route_polyline" validate:"omitempty,max=10000"`
}

type CancelRideRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type RateRideRequest struct {
	Rating  float64 `json:"rating" validate:"required,rating_value"`
	Comment string  `json:"comment" validate:"omitempty,max=500"`
}

type JoinRideRequest struct {
	Seats   int    `json:"seats" validate:"omitempty,min=1,max=6"`
	Message string `json:"message" validate:"omitempty,max=500"`
}

type RespondToRequestRequest struct {
	Accept  bool   `json:"accept"`
	Message string `json:"message" validate:"omitempty,max=500"`
}

func ValidateRequestRideRequest(req *RequestRideRequest) ValidationErrors {
	errs := ValidateStruct(req)
	errs = append(errs, ValidateStruct(&req.Pickup)...)
	errs = append(errs, ValidateStruct(&req.Dropoff)...)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidatePublishOfferRequest(req *PublishOfferRequest) ValidationErrors {
	errs := ValidateStruct(req)
	errs = append(errs, ValidateStruct(&req.Pickup)...)
	errs = append(errs, ValidateStruct(&req.Dropoff)...)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateRateRideRequest(req *RateRideRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateJoinRideRequest(req *JoinRideRequest) ValidationErrors {
	return ValidateStruct(req)
}
