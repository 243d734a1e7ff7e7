package services

import (
	"testing"

	"shareride/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFareEconomyWorkedExample(t *testing.T) {
	svc := NewFareService("PKR")

	// 10 km economy, 1 seat:
	// base 226, distance 150, time 25, tax 40.10, total 441.10
	fare := svc.CalculateFare(10, models.RideTypeEconomy, 1)

	assert.Equal(t, 226.0, fare.Base)
	assert.Equal(t, 150.0, fare.Distance)
	assert.Equal(t, 25.0, fare.Time)
	assert.Equal(t, 40.1, fare.Tax)
	assert.Equal(t, 441.1, fare.Total)
	assert.Equal(t, "PKR", fare.Currency)
}

func TestCalculateFareBaseScalesWithSeats(t *testing.T) {
	svc := NewFareService("PKR")

	one := svc.CalculateFare(10, models.RideTypeEconomy, 1)
	three := svc.CalculateFare(10, models.RideTypeEconomy, 3)

	assert.Equal(t, 226.0*3, three.Base)
	assert.Equal(t, one.Distance, three.Distance)
	assert.Equal(t, one.Time, three.Time)
	assert.Greater(t, three.Total, one.Total)
}

func TestCalculateFareRideTypeRates(t *testing.T) {
	svc := NewFareService("PKR")

	cases := []struct {
		rideType models.RideType
		distance float64
	}{
		{models.RideTypeEconomy, 150.0},
		{models.RideTypeComfort, 200.0},
		{models.RideTypeSUV, 250.0},
		{models.RideTypePremium, 300.0},
		{models.RideType("unknown"), 150.0},
	}
	for _, tc := range cases {
		fare := svc.CalculateFare(10, tc.rideType, 1)
		assert.Equal(t, tc.distance, fare.Distance, "ride type %s", tc.rideType)
	}
}

func TestCalculateFareMonotonicInDistance(t *testing.T) {
	svc := NewFareService("PKR")

	previous := 0.0
	for _, distance := range []float64{1, 5, 10, 50, 100} {
		fare := svc.CalculateFare(distance, models.RideTypeComfort, 1)
		require.Greater(t, fare.Total, previous)
		previous = fare.Total
	}
}

func TestCalculateFareSeatsFloorAtOne(t *testing.T) {
	svc := NewFareService("PKR")

	zero := svc.CalculateFare(10, models.RideTypeEconomy, 0)
	one := svc.CalculateFare(10, models.RideTypeEconomy, 1)

	assert.Equal(t, one, zero)
}

func TestCalculateFareTotalIsSumOfComponents(t *testing.T) {
	svc := NewFareService("PKR")

	fare := svc.CalculateFare(7.3, models.RideTypeSUV, 2)
	assert.InDelta(t, fare.Base+fare.Distance+fare.Time+fare.Tax, fare.Total, 0.001)
}

func TestSeatFareSplitsOfferEvenly(t *testing.T) {
	svc := NewFareService("PKR")

	ride := &models.Ride{
		TotalSeats: 4,
		Fare:       svc.CalculateFare(12, models.RideTypeEconomy, 4),
	}

	perSeat := svc.SeatFare(ride, 1)
	twoSeats := svc.SeatFare(ride, 2)

	assert.Greater(t, perSeat, 0.0)
	assert.InDelta(t, perSeat*2, twoSeats, 0.001)
	assert.LessOrEqual(t, svc.SeatFare(ride, 4), ride.Fare.Total+0.02)
}

func TestSeatFareZeroSeatOffer(t *testing.T) {
	svc := NewFareService("PKR")
	assert.Equal(t, 0.0, svc.SeatFare(&models.Ride{}, 1))
}
