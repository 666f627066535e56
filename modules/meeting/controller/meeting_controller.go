package controller

import (
	"event-networking-api/core/constants"
	"event-networking-api/core/controller"
	"event-networking-api/core/errors"
	"event-networking-api/core/utils"
	"event-networking-api/modules/meeting/dto"
	"event-networking-api/modules/meeting/service"

	"github.com/labstack/echo/v4"
)

// MeetingController handles meeting negotiation HTTP requests.
type MeetingController struct {
	controller.BaseController
	MeetingService service.MeetingServiceInterface
}

func NewMeetingController(svc service.MeetingServiceInterface) *MeetingController {
	return &MeetingController{
		BaseController: controller.NewBaseController(),
		MeetingService: svc,
	}
}

// actorFromContext extracts the authenticated actor from the JWT claims.
func (c *MeetingController) actorFromContext(ctx echo.Context) (service.Actor, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return service.Actor{}, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return service.Actor{}, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return service.Actor{ID: claims.ActorID, Role: claims.Role, Admin: claims.IsAdmin}, nil
}

// Create handles POST /events/:eventId/meetings
// @Summary Request a meeting
// @Description Open a one-to-one meeting request toward another participant
// @Tags Meetings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param request body dto.CreateMeetingRequest true "Meeting request"
// @Success 200 {object} dto.MeetingResponse
// @Failure 409 {object} errors.AppError
// @Router /private/events/{eventId}/meetings [post]
func (c *MeetingController) Create(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.Create(ctx.Request().Context(), ctx.Param("eventId"), actor, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Meeting requested")
}

// List handles GET /events/:eventId/meetings
// @Summary List my meetings
// @Tags Meetings
// @Security BearerAuth
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {array} dto.MeetingResponse
// @Router /private/events/{eventId}/meetings [get]
func (c *MeetingController) List(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.MeetingService.ListByActor(ctx.Request().Context(), ctx.Param("eventId"), actor.ID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// Get handles GET /meetings/:id
// @Summary Get a meeting
// @Tags Meetings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Router /private/meetings/{id} [get]
func (c *MeetingController) Get(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.MeetingService.Get(ctx.Request().Context(), ctx.Param("id"), actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// Propose handles POST /meetings/:id/propose
// @Summary Propose a reschedule
// @Description Offer an alternate slot; capacity is only taken at confirm time
// @Tags Meetings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.ProposeRequest true "Proposed slot"
// @Success 200 {object} dto.MeetingResponse
// @Failure 409 {object} errors.AppError
// @Router /private/meetings/{id}/propose [post]
func (c *MeetingController) Propose(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ProposeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.Propose(ctx.Request().Context(), ctx.Param("id"), actor, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Reschedule proposed")
}

// Confirm handles POST /meetings/:id/confirm
// @Summary Confirm a rescheduled meeting
// @Tags Meetings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Failure 409 {object} errors.AppError
// @Router /private/meetings/{id}/confirm [post]
func (c *MeetingController) Confirm(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.MeetingService.Confirm(ctx.Request().Context(), ctx.Param("id"), actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Meeting confirmed")
}

// Reject handles POST /meetings/:id/reject
// @Summary Reject a meeting request
// @Tags Meetings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Router /private/meetings/{id}/reject [post]
func (c *MeetingController) Reject(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.MeetingService.Reject(ctx.Request().Context(), ctx.Param("id"), actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Meeting rejected")
}

// Cancel handles POST /meetings/:id/cancel
// @Summary Cancel a confirmed or rescheduled meeting
// @Tags Meetings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Router /private/meetings/{id}/cancel [post]
func (c *MeetingController) Cancel(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.MeetingService.Cancel(ctx.Request().Context(), ctx.Param("id"), actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Meeting cancelled")
}

// Delete handles DELETE /meetings/:id
// @Summary Discard a closed meeting thread
// @Description Only the party who did not reject/cancel may discard the thread
// @Tags Meetings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{id} [delete]
func (c *MeetingController) Delete(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	if appErr := c.MeetingService.Delete(ctx.Request().Context(), ctx.Param("id"), actor); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Meeting thread deleted")
}

// SetTable handles PUT /meetings/:id/table
// @Summary Override the table assignment
// @Tags Meetings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.SetTableRequest true "Target table"
// @Success 200 {object} dto.MeetingResponse
// @Failure 409 {object} errors.AppError
// @Router /private/meetings/{id}/table [put]
func (c *MeetingController) SetTable(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SetTableRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.SetTable(ctx.Request().Context(), ctx.Param("id"), actor, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Table assigned")
}

// SetJoinLink handles PUT /meetings/:id/join-link
// @Summary Store the virtual-room link
// @Description Write-once; repeated calls return the stored link unchanged
// @Tags Meetings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.SetJoinLinkRequest true "Join link"
// @Success 200 {object} dto.MeetingResponse
// @Router /private/meetings/{id}/join-link [put]
func (c *MeetingController) SetJoinLink(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SetJoinLinkRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.SetJoinLink(ctx.Request().Context(), ctx.Param("id"), actor, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Join link stored")
}
