package controller

import (
	"time"

	"event-networking-api/core/controller"
	"event-networking-api/core/errors"
	"event-networking-api/modules/slot/dto"
	"event-networking-api/modules/slot/service"

	"github.com/labstack/echo/v4"
)

// SlotController handles the capacity dashboard and admin slot configuration.
type SlotController struct {
	controller.BaseController
	SlotService service.SlotServiceInterface
}

func NewSlotController(svc service.SlotServiceInterface) *SlotController {
	return &SlotController{
		BaseController: controller.NewBaseController(),
		SlotService:    svc,
	}
}

// ListUsage handles GET /events/:eventId/slots/usage
// @Summary Slot usage rollup
// @Description Per-slot seat usage for the operator capacity dashboard
// @Tags Slots
// @Security BearerAuth
// @Produce json
// @Param eventId path string true "Event ID"
// @Param from query string false "RFC3339 range start (default now)"
// @Param to query string false "RFC3339 range end (default +24h)"
// @Success 200 {object} dto.UsageResponse
// @Router /private/events/{eventId}/slots/usage [get]
func (c *SlotController) ListUsage(ctx echo.Context) error {
	eventID := ctx.Param("eventId")
	if eventID == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Event ID is required")
	}

	from := time.Now().UTC()
	if raw := ctx.QueryParam("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "from must be an RFC3339 timestamp")
		}
		from = parsed
	}

	to := from.Add(24 * time.Hour)
	if raw := ctx.QueryParam("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "to must be an RFC3339 timestamp")
		}
		to = parsed
	}

	result, appErr := c.SlotService.ListUsage(ctx.Request().Context(), eventID, from, to)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// ConfigureSlot handles PUT /events/:eventId/slots
// @Summary Configure slot capacity
// @Description Pre-seed or resize seat capacity and table pool for one slot
// @Tags Slots
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param request body dto.ConfigureSlotRequest true "Capacity settings"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/events/{eventId}/slots [put]
func (c *SlotController) ConfigureSlot(ctx echo.Context) error {
	eventID := ctx.Param("eventId")
	if eventID == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Event ID is required")
	}

	var req dto.ConfigureSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	if appErr := c.SlotService.ConfigureSlot(ctx.Request().Context(), eventID, &req); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Slot configured")
}
