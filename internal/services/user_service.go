package services

import (
	"context"
	"errors"

	"shareride/internal/models"
	"shareride/internal/repositories"
	"shareride/internal/repositories/interfaces"
	"shareride/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users  interfaces.UserRepository
	logger *logger.Logger
}

func NewUserService(users interfaces.UserRepository, log *logger.Logger) *UserService {
	return &UserService{users: users, logger: log.WithComponent("user_service")}
}

func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateProfileInput struct {
	FirstName      *string
	LastName       *string
	Phone          *string
	Location       *models.Location
	SavedAddresses []models.SavedAddress
	PaymentMethods []models.SavedPaymentMethod
}

// UpdateProfile applies the provided fields only. Email, password and role
// are managed elsewhere and cannot be changed here.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*models.User, error) {
	updates := map[string]interface{}{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Location != nil {
		updates["location"] = input.Location
	}
	if input.SavedAddresses != nil {
		updates["saved_addresses"] = input.SavedAddresses
	}
	if input.PaymentMethods != nil {
		updates["payment_methods"] = input.PaymentMethods
	}

	if len(updates) > 0 {
		if err := s.users.Update(ctx, userID, updates); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	return s.GetProfile(ctx, userID)
}

// Deactivate soft-deletes the account. History stays intact.
func (s *UserService) Deactivate(ctx context.Context, userID primitive.ObjectID) error {
	err := s.users.Deactivate(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrUserNotFound
	}
	if err == nil {
		s.logger.WithUserID(userID).Info("account deactivated")
	}
	return err
}
