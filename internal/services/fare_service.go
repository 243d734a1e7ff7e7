package services

import (
	"shareride/internal/models"
	"shareride/internal/utils"
)

// FareService computes fare breakdowns. It is pure and deterministic:
// the same (distance, ride type, seats) always prices the same.
type FareService struct {
	currency string
}

func NewFareService(currency string) *FareService {
	if currency == "" {
		currency = utils.DefaultCurrency
	}
	return &FareService{currency: currency}
}

// CalculateFare prices a ride. Base fare scales with seats, distance fare
// with the per-km rate of the ride type, time fare with distance, and tax
// is 10% on top of the three. Every amount is rounded to 2 decimals.
func (s *FareService) CalculateFare(distanceKM float64, rideType models.RideType, seats int) models.Fare {
	if seats < 1 {
		seats = 1
	}

	base := utils.BaseFarePerSeat * float64(seats)
	distance := distanceKM * ratePerKM(rideType)
	timeFare := distanceKM * utils.TimeFarePerKM
	tax := utils.TaxRate * (base + distance + timeFare)

	base = utils.Round2(base)
	distance = utils.Round2(distance)
	timeFare = utils.Round2(timeFare)
	tax = utils.Round2(tax)

	return models.Fare{
		Base:     base,
		Distance: distance,
		Time:     timeFare,
		Tax:      tax,
		Total:    utils.Round2(base + distance + timeFare + tax),
		Currency: s.currency,
	}
}

// SeatFare prices a join request on a shared offer: the offer's total fare
// divided evenly across its published seats, times the seats requested.
func (s *FareService) SeatFare(ride *models.Ride, seats int) float64 {
	if ride.TotalSeats < 1 {
		return 0
	}
	perSeat := utils.Round2(ride.Fare.Total / float64(ride.TotalSeats))
	return utils.Round2(perSeat * float64(seats))
}

func ratePerKM(rideType models.RideType) float64 {
	switch rideType {
	case models.RideTypeEconomy:
		return utils.RatePerKMEconomy
	case models.RideTypeComfort:
		return utils.RatePerKMComfort
	case models.RideTypeSUV:
		return utils.RatePerKMSUV
	case models.RideTypePremium:
		return utils.RatePerKMPremium
	default:
		return utils.DefaultRatePerKM
	}
}
