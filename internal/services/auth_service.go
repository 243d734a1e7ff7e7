package services

import (
	"context"
	"errors"
	"time"

	"shareride/internal/models"
	"shareride/internal/repositories"
	"shareride/internal/repositories/interfaces"
	"shareride/internal/utils"
	"shareride/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users     interfaces.UserRepository
	jwtSecret string
	logger    *logger.Logger
}

func NewAuthService(users interfaces.UserRepository, jwtSecret string, log *logger.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		logger:    log.WithComponent("auth_service"),
	}
}

type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Role      models.UserRole
}

type AuthResult struct {
	User   *models.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.UserRoleUser
	}

	user := &models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  string(hash),
		Role:      role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	s.logger.WithUserID(user.ID).WithField("role", user.Role).Info("user signed up")

	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.users.Update(ctx, user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		s.logger.WithError(err).WithUserID(user.ID).Warn("failed to stamp last login")
	}
	user.LastLoginAt = &now

	return &AuthResult{User: user, Tokens: tokens}, nil
}
