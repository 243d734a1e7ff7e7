package services

import (
	"context"
	"testing"
	"time"

	"shareride/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDriverPromotesRole(t *testing.T) {
	env := newTestEnv()
	user := env.newUser("driver@example.com")

	driver, err := env.driverSvc.RegisterDriver(context.Background(), user.ID, RegisterDriverInput{
		LicenseNumber: "LIC-12345",
		LicenseExpiry: time.Now().AddDate(2, 0, 0),
		Vehicle:       models.Vehicle{Make: "Suzuki", Model: "Alto", PlateNumber: "KHI-786"},
		RideType:      models.RideTypeEconomy,
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, driver.UserID)
	assert.False(t, driver.IsAvailable, "new drivers start offline")
	assert.Nil(t, driver.ActiveRideID)

	promoted, _ := env.users.GetByID(context.Background(), user.ID)
	assert.Equal(t, models.UserRoleDriver, promoted.Role)
}

func TestRegisterDriverTwiceRejected(t *testing.T) {
	env := newTestEnv()
	user := env.newUser("driver@example.com")

	input := RegisterDriverInput{
		LicenseNumber: "LIC-12345",
		Vehicle:       models.Vehicle{Make: "Suzuki", Model: "Alto", PlateNumber: "KHI-786"},
		RideType:      models.RideTypeEconomy,
	}
	_, err := env.driverSvc.RegisterDriver(context.Background(), user.ID, input)
	require.NoError(t, err)

	_, err = env.driverSvc.RegisterDriver(context.Background(), user.ID, input)
	assert.ErrorIs(t, err, ErrDriverExists)
}

func TestSetAvailabilityToggles(t *testing.T) {
	env := newTestEnv()
	driverUser, _ := env.newOnlineDriver("driver@example.com", models.RideTypeEconomy)

	driver, err := env.driverSvc.SetAvailability(context.Background(), driverUser.ID, false)
	require.NoError(t, err)
	assert.False(t, driver.IsAvailable)

	driver, err = env.driverSvc.SetAvailability(context.Background(), driverUser.ID, true)
	require.NoError(t, err)
	assert.True(t, driver.IsAvailable)
}

func TestSetAvailabilityBlockedMidRide(t *testing.T) {
	env := newTestEnv()
	rider := env.newUser("rider@example.com")
	driverUser, _ := env.newOnlineDriver("driver@example.com", models.RideTypeEconomy)
	ride := env.newRequestedRide(rider.ID)

	_, err := env.rideSvc.AcceptRide(context.Background(), driverUser.ID, ride.ID)
	require.NoError(t, err)

	_, err = env.driverSvc.SetAvailability(context.Background(), driverUser.ID, true)
	assert.ErrorIs(t, err, ErrDriverBusy)
}

func TestNearbyDriversFiltersOfflineAndBusy(t *testing.T) {
	env := newTestEnv()
	env.newOnlineDriver("online@example.com", models.RideTypeEconomy)
	offlineUser, _ := env.newOnlineDriver("offline@example.com", models.RideTypeEconomy)
	busyUser, _ := env.newOnlineDriver("busy@example.com", models.RideTypeEconomy)
	env.newOnlineDriver("suv@example.com", models.RideTypeSUV)

	_, err := env.driverSvc.SetAvailability(context.Background(), offlineUser.ID, false)
	require.NoError(t, err)

	rider := env.newUser("rider@example.com")
	ride := env.newRequestedRide(rider.ID)
	_, err = env.rideSvc.AcceptRide(context.Background(), busyUser.ID, ride.ID)
	require.NoError(t, err)

	economy, err := env.driverSvc.NearbyDrivers(context.Background(), 67.0, 24.86, 5, models.RideTypeEconomy, 20)
	require.NoError(t, err)
	assert.Len(t, economy, 1)

	all, err := env.driverSvc.NearbyDrivers(context.Background(), 67.0, 24.86, 5, "", 20)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateLocationRequiresProfile(t *testing.T) {
	env := newTestEnv()
	user := env.newUser("user@example.com")

	err := env.driverSvc.UpdateLocation(context.Background(), user.ID, 67.0, 24.86, "Clifton")
	assert.ErrorIs(t, err, ErrNotADriver)
}

func TestEarningsAccumulateAcrossRides(t *testing.T) {
	env := newTestEnv()
	driverUser, driver := env.newOnlineDriver("driver@example.com", models.RideTypeEconomy)

	expected := 0.0
	for i := 0; i < 2; i++ {
		rider := env.newUser(string(rune('a'+i)) + "@example.com")
		ride := env.newRequestedRide(rider.ID)
		_, err := env.rideSvc.AcceptRide(context.Background(), driverUser.ID, ride.ID)
		require.NoError(t, err)
		_, err = env.rideSvc.DriverArrived(context.Background(), driverUser.ID, ride.ID)
		require.NoError(t, err)
		_, err = env.rideSvc.StartRide(context.Background(), driverUser.ID, ride.ID)
		require.NoError(t, err)
		completed, err := env.rideSvc.CompleteRide(context.Background(), driverUser.ID, ride.ID)
		require.NoError(t, err)
		expected += completed.ActualFare
	}

	earned, err := env.driverSvc.Earnings(context.Background(), driverUser.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, earned.Earnings.Total)
	assert.Equal(t, expected, earned.Earnings.CurrentWeek)
	assert.Equal(t, expected, earned.Earnings.CurrentMonth)
	assert.EqualValues(t, 2, earned.CompletedRides)
	assert.Equal(t, driver.ID, earned.ID)
}
