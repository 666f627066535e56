package controller

import (
	"event-networking-api/core/constants"
	"event-networking-api/core/controller"
	"event-networking-api/core/errors"
	"event-networking-api/core/utils"
	"event-networking-api/modules/attendance/dto"
	"event-networking-api/modules/attendance/service"

	"github.com/labstack/echo/v4"
)

// AttendanceController handles badge-scan HTTP requests.
type AttendanceController struct {
	controller.BaseController
	AttendanceService service.AttendanceServiceInterface
}

func NewAttendanceController(svc service.AttendanceServiceInterface) *AttendanceController {
	return &AttendanceController{
		BaseController:    controller.NewBaseController(),
		AttendanceService: svc,
	}
}

func (c *AttendanceController) actorID(ctx echo.Context) (string, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok {
		return "", false
	}
	return claims.ActorID, true
}

// Preview handles GET /meetings/:id/attendance
// @Summary Preview attendance state
// @Description Read-only view shown before committing a scan
// @Tags Attendance
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.PreviewResponse
// @Router /private/meetings/{id}/attendance [get]
func (c *AttendanceController) Preview(ctx echo.Context) error {
	actorID, ok := c.actorID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.AttendanceService.Preview(ctx.Request().Context(), ctx.Param("id"), actorID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// Confirm handles POST /meetings/:id/attendance
// @Summary Commit a badge scan
// @Description Idempotent; a scan on an unconfirmed meeting is recorded with a warning
// @Tags Attendance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.ConfirmScanRequest true "Scan metadata"
// @Success 200 {object} dto.ConfirmResponse
// @Router /private/meetings/{id}/attendance [post]
func (c *AttendanceController) Confirm(ctx echo.Context) error {
	actorID, ok := c.actorID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ConfirmScanRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AttendanceService.Confirm(ctx.Request().Context(), ctx.Param("id"), actorID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Scan recorded")
}
