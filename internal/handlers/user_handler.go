package handlers

import (
	"shareride/internal/middleware"
	"shareride/internal/models"
	"shareride/internal/services"
	"shareride/internal/utils"
	"shareride/internal/validators"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile handles GET /users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
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

// UpdateProfile handles PUT /users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req validators.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateUpdateProfileRequest(&req); errs != nil {
		utils.BadRequestResponse(c, errs.Error())
		return
	}

	input := services.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if req.Location != nil {
		location := models.NewPoint(req.Location.Longitude, req.Location.Latitude, req.Location.Address)
		input.Location = &location
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated", user)
}

// Deactivate handles DELETE /users/profile
func (h *UserHandler) Deactivate(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), userID); err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Account deactivated", nil)
}
