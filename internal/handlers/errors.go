package handlers

import (
	"errors"
	"net/http"

	"shareride/internal/services"
	"shareride/internal/utils"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps domain errors onto the HTTP taxonomy. Unknown
// errors become opaque 500s; the details stay in the logs.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrDriverNotFound),
		errors.Is(err, services.ErrRideNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		utils.FailResponse(c, http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrNotAuthorized):
		utils.ForbiddenResponse(c, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, err.Error())

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrDriverExists),
		errors.Is(err, services.ErrDuplicateRequest),
		errors.Is(err, services.ErrAlreadyRated),
		errors.Is(err, services.ErrRideAlreadyTaken):
		utils.ConflictResponse(c, err.Error())

	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrDriverUnavailable),
		errors.Is(err, services.ErrDriverBusy),
		errors.Is(err, services.ErrRideNotJoinable),
		errors.Is(err, services.ErrInsufficientSeats),
		errors.Is(err, services.ErrOwnOffer),
		errors.Is(err, services.ErrRequestNotPending),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrNotADriver):
		utils.BadRequestResponse(c, err.Error())

	default:
		utils.InternalServerErrorResponse(c)
	}
}
