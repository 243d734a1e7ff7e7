package handlers

import (
	"errors"

	"shareride/internal/middleware"
	"shareride/internal/models"
	"shareride/internal/services"
	"shareride/internal/utils"
	"shareride/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	jwtSecret   string
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		jwtSecret:   jwtSecret,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req validators.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateSignupRequest(&req); errs != nil {
		utils.BadRequestResponse(c, errs.Error())
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      models.UserRole(req.Role),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Account created", result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req validators.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateLoginRequest(&req); errs != nil {
		utils.BadRequestResponse(c, errs.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Logged in", result)
}

// RefreshToken handles POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req validators.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateStruct(&req); errs != nil {
		utils.BadRequestResponse(c, errs.Error())
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken, h.jwtSecret)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) {
			utils.UnauthorizedResponse(c, "Invalid or expired refresh token")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.UnauthorizedResponse(c, "Invalid user ID in token")
		return
	}

	// Re-read the user so a role change or deactivation takes effect on
	// refresh rather than living until token expiry.
	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !user.IsActive {
		utils.UnauthorizedResponse(c, "Account is deactivated")
		return
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, h.jwtSecret)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Token refreshed", tokens)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "", user)
}
