package controller

import (
	"strconv"

	"event-networking-api/core/controller"
	"event-networking-api/core/errors"
	"event-networking-api/modules/suggestion/service"

	"github.com/labstack/echo/v4"
)

// SuggestionController handles the operator matchmaking feed.
type SuggestionController struct {
	controller.BaseController
	SuggestionService service.SuggestionServiceInterface
}

func NewSuggestionController(svc service.SuggestionServiceInterface) *SuggestionController {
	return &SuggestionController{
		BaseController:    controller.NewBaseController(),
		SuggestionService: svc,
	}
}

// NextBatch handles GET /events/:eventId/suggestions
// @Summary Next pairing suggestions
// @Description Scored candidate pairs for the operator to turn into meeting requests
// @Tags Suggestions
// @Security BearerAuth
// @Produce json
// @Param eventId path string true "Event ID"
// @Param count query int false "Batch size (default 10)"
// @Success 200 {object} dto.SuggestionsResponse
// @Router /private/events/{eventId}/suggestions [get]
func (c *SuggestionController) NextBatch(ctx echo.Context) error {
	eventID := ctx.Param("eventId")
	if eventID == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Event ID is required")
	}

	count, _ := strconv.Atoi(ctx.QueryParam("count"))

	result, appErr := c.SuggestionService.NextBatch(ctx.Request().Context(), eventID, count)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
