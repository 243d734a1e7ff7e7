package handlers

import (
	"shareride/internal/middleware"
	"shareride/internal/services"
	"shareride/internal/utils"
	"shareride/internal/validators"

	"github.com/gin-gonic/gin"
)

type RideRequestHandler struct {
	requestService *services.RideRequestService
}

func NewRideRequestHandler(requestService *services.RideRequestService) *RideRequestHandler {
	return &RideRequestHandler{requestService: requestService}
}

// RequestToJoin handles POST /rides/:id/join
func (h *RideRequestHandler) RequestToJoin(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	rideID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req validators.JoinRideRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request body")
			return
		}
		if errs := validators.ValidateJoinRideRequest(&req); errs != nil {
			utils.BadRequestResponse(c, errs.Error())
			return
		}
	}

	request, err := h.requestService.RequestToJoin(c.Request.Context(), userID, rideID, services.JoinRequestInput{
		Seats:   req.Seats,
		Message: req.Message,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Join request sent", request)
}

// ListForRide handles GET /rides/:id/requests
func (h *RideRequestHandler) ListForRide(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	rideID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	requests, err := h.requestService.ListForRide(c.Request.Context(), userID, rideID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "", requests)
}

// ListMine handles GET /ride-requests
func (h *RideRequestHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	requests, total, err := h.requestService.ListForPassenger(c.Request.Context(), userID, params)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", requests, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetRequest handles GET /ride-requests/:id
func (h *RideRequestHandler) GetRequest(c *gin.Context) {
	requestID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	request, err := h.requestService.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "", request)
}

// Respond handles POST /ride-requests/:id/respond
func (h *RideRequestHandler) Respond(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	requestID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req validators.RespondToRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	request, err := h.requestService.RespondToRequest(c.Request.Context(), userID, requestID, req.Accept, req.Message)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	message := "Request rejected"
	if req.Accept {
		message = "Request accepted"
	}
	utils.SuccessResponse(c, message, request)
}

// Cancel handles POST /ride-requests/:id/cancel
func (h *RideRequestHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	requestID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	request, err := h.requestService.CancelRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Request cancelled", request)
}
