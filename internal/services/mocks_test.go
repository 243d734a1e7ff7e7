package services

import (
	"context"
	"sync"
	"time"

	"shareride/internal/models"
	"shareride/internal/repositories"
	"shareride/internal/utils"
	"shareride/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories with the same conditional-update semantics as the
// MongoDB implementations: every precondition is checked under one lock, so
// concurrent tests exercise the same single-winner guarantees.

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.IsActive = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "first_name":
			user.FirstName = value.(string)
		case "last_name":
			user.LastName = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "role":
			user.Role = value.(models.UserRole)
		case "last_login_at":
			at := value.(time.Time)
			user.LastLoginAt = &at
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (r *memUserRepo) AppendRideID(_ context.Context, userID, rideID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, existing := range user.RideIDs {
		if existing == rideID {
			return nil
		}
	}
	user.RideIDs = append(user.RideIDs, rideID)
	return nil
}

func (r *memUserRepo) UpdateRating(_ context.Context, id primitive.ObjectID, average float64, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Rating = models.RatingAggregate{Average: average, Count: count}
	return nil
}

func (r *memUserRepo) Deactivate(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.IsActive = false
	return nil
}

type memDriverRepo struct {
	mu      sync.Mutex
	drivers map[primitive.ObjectID]*models.Driver
}

func newMemDriverRepo() *memDriverRepo {
	return &memDriverRepo{drivers: make(map[primitive.ObjectID]*models.Driver)}
}

func (r *memDriverRepo) Create(_ context.Context, driver *models.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.drivers {
		if existing.UserID == driver.UserID {
			return repositories.ErrDuplicate
		}
	}
	driver.ID = primitive.NewObjectID()
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = driver.CreatedAt
	copied := *driver
	r.drivers[driver.ID] = &copied
	return nil
}

func (r *memDriverRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *driver
	return &copied, nil
}

func (r *memDriverRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, driver := range r.drivers {
		if driver.UserID == userID {
			copied := *driver
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memDriverRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[id]; !ok {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *memDriverRepo) UpdateLocation(_ context.Context, id primitive.ObjectID, location *models.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return repositories.ErrNotFound
	}
	now := time.Now()
	driver.CurrentLocation = location
	driver.LastLocationUpdate = &now
	return nil
}

func (r *memDriverRepo) matching(rideType models.RideType) []*models.Driver {
	var matched []*models.Driver
	for _, driver := range r.drivers {
		if !driver.IsAvailable || driver.ActiveRideID != nil || driver.CurrentLocation == nil {
			continue
		}
		if rideType != "" && driver.RideType != rideType {
			continue
		}
		copied := *driver
		matched = append(matched, &copied)
	}
	return matched
}

func (r *memDriverRepo) CountNearby(_ context.Context, _, _, _ float64, rideType models.RideType) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(rideType))), nil
}

func (r *memDriverRepo) GetNearby(_ context.Context, _, _, _ float64, rideType models.RideType, limit int64) ([]*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := r.matching(rideType)
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memDriverRepo) ClaimForRide(_ context.Context, driverID, rideID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[driverID]
	if !ok || !driver.IsAvailable || driver.ActiveRideID != nil {
		return repositories.ErrNotFound
	}
	driver.IsAvailable = false
	driver.ActiveRideID = &rideID
	return nil
}

func (r *memDriverRepo) ReleaseFromRide(_ context.Context, driverID, rideID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[driverID]
	if !ok || driver.ActiveRideID == nil || *driver.ActiveRideID != rideID {
		return repositories.ErrNotFound
	}
	driver.ActiveRideID = nil
	driver.IsAvailable = true
	return nil
}

func (r *memDriverRepo) CompleteActiveRide(_ context.Context, driverID, rideID primitive.ObjectID, fare float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[driverID]
	if !ok || driver.ActiveRideID == nil || *driver.ActiveRideID != rideID {
		return repositories.ErrNotFound
	}
	driver.ActiveRideID = nil
	driver.IsAvailable = true
	driver.CompletedRides++
	driver.Earnings.Total += fare
	driver.Earnings.CurrentWeek += fare
	driver.Earnings.CurrentMonth += fare
	return nil
}

func (r *memDriverRepo) SetAvailability(_ context.Context, driverID primitive.ObjectID, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[driverID]
	if !ok || driver.ActiveRideID != nil {
		return repositories.ErrNotFound
	}
	driver.IsAvailable = available
	return nil
}

func (r *memDriverRepo) UpdateRating(_ context.Context, id primitive.ObjectID, average float64, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return repositories.ErrNotFound
	}
	driver.Rating = models.RatingAggregate{Average: average, Count: count}
	return nil
}

type memRideRepo struct {
	mu    sync.Mutex
	rides map[primitive.ObjectID]*models.Ride

	// beforeReserveSeats, when set, runs before the seat decrement takes
	// the lock. Lets tests interleave another mutation at that point.
	beforeReserveSeats func()
}

func newMemRideRepo() *memRideRepo {
	return &memRideRepo{rides: make(map[primitive.ObjectID]*models.Ride)}
}

func (r *memRideRepo) Create(_ context.Context, ride *models.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride.ID = primitive.NewObjectID()
	if ride.RideNumber == "" {
		ride.RideNumber = utils.NewRideNumber()
	}
	ride.RequestedAt = time.Now()
	ride.CreatedAt = ride.RequestedAt
	ride.UpdatedAt = ride.RequestedAt
	copied := *ride
	r.rides[ride.ID] = &copied
	return nil
}

func (r *memRideRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *ride
	return &copied, nil
}

func (r *memRideRepo) AssignDriver(_ context.Context, rideID, driverID primitive.ObjectID) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[rideID]
	if !ok || !ride.Status.Acceptable() || ride.DriverID != nil {
		return nil, repositories.ErrNotFound
	}
	now := time.Now()
	ride.DriverID = &driverID
	ride.Status = models.RideStatusDriverAssigned
	ride.AcceptedAt = &now
	ride.UpdatedAt = now
	copied := *ride
	return &copied, nil
}

func (r *memRideRepo) UpdateStatusIf(_ context.Context, rideID primitive.ObjectID, from []models.RideStatus, to models.RideStatus, set map[string]interface{}) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[rideID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	matched := false
	for _, status := range from {
		if ride.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return nil, repositories.ErrNotFound
	}
	ride.Status = to
	for key, value := range set {
		switch key {
		case "driver_arrived_at":
			at := value.(time.Time)
			ride.DriverArrivedAt = &at
		case "started_at":
			at := value.(time.Time)
			ride.StartedAt = &at
		case "completed_at":
			at := value.(time.Time)
			ride.CompletedAt = &at
		case "cancelled_at":
			at := value.(time.Time)
			ride.CancelledAt = &at
		case "actual_fare":
			ride.ActualFare = value.(float64)
		case "payment_status":
			ride.PaymentStatus = value.(models.PaymentStatus)
		case "cancellation_reason":
			ride.CancellationReason = value.(string)
		case "cancelled_by":
			ride.CancelledBy = value.(string)
		}
	}
	ride.UpdatedAt = time.Now()
	copied := *ride
	return &copied, nil
}

func (r *memRideRepo) SetRating(_ context.Context, rideID primitive.ObjectID, field string, rating *models.RideRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[rideID]
	if !ok || ride.Status != models.RideStatusCompleted {
		return repositories.ErrNotFound
	}
	switch field {
	case "user_to_driver_rating":
		if ride.UserToDriverRating != nil {
			return repositories.ErrNotFound
		}
		ride.UserToDriverRating = rating
	case "driver_to_user_rating":
		if ride.DriverToUserRating != nil {
			return repositories.ErrNotFound
		}
		ride.DriverToUserRating = rating
	default:
		return repositories.ErrNotFound
	}
	return nil
}

func (r *memRideRepo) ReserveSeats(_ context.Context, rideID primitive.ObjectID, seats int) (*models.Ride, error) {
	if r.beforeReserveSeats != nil {
		r.beforeReserveSeats()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[rideID]
	if !ok || ride.Status != models.RideStatusOpen || ride.AvailableSeats < seats {
		return nil, repositories.ErrNotFound
	}
	ride.AvailableSeats -= seats
	copied := *ride
	return &copied, nil
}

func (r *memRideRepo) RestoreSeats(_ context.Context, rideID primitive.ObjectID, seats int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[rideID]
	if !ok {
		return repositories.ErrNotFound
	}
	ride.AvailableSeats += seats
	if ride.AvailableSeats > ride.TotalSeats {
		ride.AvailableSeats = ride.TotalSeats
	}
	return nil
}

func (r *memRideRepo) AppendRequestID(_ context.Context, rideID, requestID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[rideID]
	if !ok {
		return repositories.ErrNotFound
	}
	ride.RideRequestIDs = append(ride.RideRequestIDs, requestID)
	return nil
}

func (r *memRideRepo) ListByRider(_ context.Context, riderID primitive.ObjectID, _ utils.PaginationParams) ([]*models.Ride, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rides []*models.Ride
	for _, ride := range r.rides {
		if ride.RiderID == riderID {
			copied := *ride
			rides = append(rides, &copied)
		}
	}
	return rides, int64(len(rides)), nil
}

func (r *memRideRepo) ListOpenOffers(_ context.Context, _ utils.PaginationParams) ([]*models.Ride, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rides []*models.Ride
	for _, ride := range r.rides {
		if ride.Status == models.RideStatusOpen && ride.AvailableSeats > 0 {
			copied := *ride
			rides = append(rides, &copied)
		}
	}
	return rides, int64(len(rides)), nil
}

type memRequestRepo struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*models.RideRequest
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[primitive.ObjectID]*models.RideRequest)}
}

func (r *memRequestRepo) Create(_ context.Context, request *models.RideRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.RideID == request.RideID && existing.PassengerID == request.PassengerID && existing.Status.IsActive() {
			return repositories.ErrDuplicate
		}
	}
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	copied := *request
	r.requests[request.ID] = &copied
	return nil
}

func (r *memRequestRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.RideRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *memRequestRepo) GetActiveByRideAndPassenger(_ context.Context, rideID, passengerID primitive.ObjectID) (*models.RideRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, request := range r.requests {
		if request.RideID == rideID && request.PassengerID == passengerID && request.Status.IsActive() {
			copied := *request
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memRequestRepo) UpdateStatusIf(_ context.Context, id primitive.ObjectID, from, to models.RideRequestStatus, driverMessage string) (*models.RideRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok || request.Status != from {
		return nil, repositories.ErrNotFound
	}
	now := time.Now()
	request.Status = to
	request.RespondedAt = &now
	if driverMessage != "" {
		request.DriverMessage = driverMessage
	}
	request.UpdatedAt = now
	copied := *request
	return &copied, nil
}

func (r *memRequestRepo) ListByRide(_ context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var requests []*models.RideRequest
	for _, request := range r.requests {
		if request.RideID == rideID {
			copied := *request
			requests = append(requests, &copied)
		}
	}
	return requests, nil
}

func (r *memRequestRepo) ListByPassenger(_ context.Context, passengerID primitive.ObjectID, _ utils.PaginationParams) ([]*models.RideRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var requests []*models.RideRequest
	for _, request := range r.requests {
		if request.PassengerID == passengerID {
			copied := *request
			requests = append(requests, &copied)
		}
	}
	return requests, int64(len(requests)), nil
}

type memNotificationRepo struct {
	mu            sync.Mutex
	notifications map[primitive.ObjectID]*models.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{notifications: make(map[primitive.ObjectID]*models.Notification)}
}

func (r *memNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	copied := *notification
	r.notifications[notification.ID] = &copied
	return nil
}

func (r *memNotificationRepo) ListByUser(_ context.Context, userID primitive.ObjectID, _ utils.PaginationParams) ([]*models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var notifications []*models.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			copied := *notification
			notifications = append(notifications, &copied)
		}
	}
	return notifications, int64(len(notifications)), nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification, ok := r.notifications[id]
	if !ok || notification.UserID != userID {
		return repositories.ErrNotFound
	}
	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	return nil
}

func primitiveNewID() primitive.ObjectID {
	return primitive.NewObjectID()
}

func paginationDefaults() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, PageSize: utils.DefaultPageSize}
}

// testEnv wires every service against the in-memory repositories.
type testEnv struct {
	users         *memUserRepo
	drivers       *memDriverRepo
	rides         *memRideRepo
	requests      *memRequestRepo
	notifications *memNotificationRepo

	auth        *AuthService
	userSvc     *UserService
	driverSvc   *DriverService
	rideSvc     *RideService
	requestSvc  *RideRequestService
	fareSvc     *FareService
	notifySvc   *NotificationService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:         newMemUserRepo(),
		drivers:       newMemDriverRepo(),
		rides:         newMemRideRepo(),
		requests:      newMemRequestRepo(),
		notifications: newMemNotificationRepo(),
	}

	log := logger.NewNopLogger()
	env.fareSvc = NewFareService("PKR")
	env.notifySvc = NewNotificationService(env.notifications, log)
	env.auth = NewAuthService(env.users, "test-secret", log)
	env.userSvc = NewUserService(env.users, log)
	env.driverSvc = NewDriverService(env.drivers, env.users, log)
	env.rideSvc = NewRideService(env.rides, env.drivers, env.users, env.requests, env.fareSvc, env.notifySvc, log)
	env.requestSvc = NewRideRequestService(env.requests, env.rides, env.drivers, env.fareSvc, env.notifySvc, log)

	return env
}

func (env *testEnv) newUser(email string) *models.User {
	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "hash",
		Role:      models.UserRoleUser,
	}
	if err := env.users.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

// newOnlineDriver creates a driver user with an available, located driver
// profile ready to accept rides.
func (env *testEnv) newOnlineDriver(email string, rideType models.RideType) (*models.User, *models.Driver) {
	user := env.newUser(email)
	user.Role = models.UserRoleDriver
	_ = env.users.Update(context.Background(), user.ID, map[string]interface{}{"role": models.UserRoleDriver})

	driver := &models.Driver{
		UserID:        user.ID,
		LicenseNumber: "LIC-" + email,
		Vehicle:       models.Vehicle{Make: "Toyota", Model: "Corolla", PlateNumber: "ABC-123"},
		RideType:      rideType,
		IsAvailable:   true,
	}
	if err := env.drivers.Create(context.Background(), driver); err != nil {
		panic(err)
	}
	location := models.NewPoint(67.0011, 24.8607, "Karachi")
	_ = env.drivers.UpdateLocation(context.Background(), driver.ID, &location)
	driver, _ = env.drivers.GetByID(context.Background(), driver.ID)
	return user, driver
}

func (env *testEnv) newRequestedRide(riderID primitive.ObjectID) *models.Ride {
	result, err := env.rideSvc.RequestRide(context.Background(), riderID, RequestRideInput{
		Pickup:            models.NewPoint(67.0011, 24.8607, "Saddar"),
		Dropoff:           models.NewPoint(67.0822, 24.9056, "Gulshan"),
		RideType:          models.RideTypeEconomy,
		EstimatedDistance: 10,
		EstimatedDuration: 25,
		Seats:             1,
	})
	if err != nil {
		panic(err)
	}
	return result.Ride
}

func (env *testEnv) newOpenOffer(driverUserID primitive.ObjectID, seats int) *models.Ride {
	ride, err := env.rideSvc.PublishOffer(context.Background(), driverUserID, PublishOfferInput{
		Pickup:            models.NewPoint(67.0011, 24.8607, "Saddar"),
		Dropoff:           models.NewPoint(67.0822, 24.9056, "Gulshan"),
		RideType:          models.RideTypeEconomy,
		EstimatedDistance: 12,
		EstimatedDuration: 30,
		Seats:             seats,
	})
	if err != nil {
		panic(err)
	}
	return ride
}
