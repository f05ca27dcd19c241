package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/continuum-journal/continuum/internal/services"
	"github.com/continuum-journal/continuum/internal/utils"
)

// ThoughtHandler handles the flat thought collection, addressing
// thoughts directly rather than through their entries
type ThoughtHandler struct {
	Content *services.Content
}

// ListThoughts handles GET /api/thoughts
// @Summary List thoughts
// @Description List the thoughts visible to the authenticated user, newest first
// @Tags Thoughts
// @Produce json
// @Param page query int false "1-based page number"
// @Param start_date query string false "Inclusive lower creation bound, YYYY-MM-DD"
// @Param end_date query string false "Inclusive upper creation bound, YYYY-MM-DD"
// @Param tags query string false "Comma-separated tag ids; thoughts must carry at least one"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /thoughts [get]
func (h *ThoughtHandler) ListThoughts(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	filters := services.ThoughtFilters{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		TagIDs:    parseTagIDs(c),
	}
	page := pageParam(c)

	thoughts, count, err := h.Content.ListThoughts(subject, filters, page)
	if err != nil {
		return serviceError(c, err, "listThoughts")
	}

	return utils.SuccessResponse(c, listEnvelope(count, page, thoughts), fiber.StatusOK)
}

// GetThought handles GET /api/thoughts/:thought
// @Summary Get a thought
// @Description Get a single thought visible to the authenticated user
// @Tags Thoughts
// @Produce json
// @Param thought path string true "Thought ID"
// @Success 200 {object} models.Thought
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /thoughts/{thought} [get]
func (h *ThoughtHandler) GetThought(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	thoughtID, err := uuidParam(c, "thought")
	if err != nil {
		return utils.NotFoundResponse(c, "thought not found")
	}

	thought, err := h.Content.GetThought(subject, thoughtID)
	if err != nil {
		return serviceError(c, err, "getThought")
	}

	return utils.SuccessResponse(c, thought, fiber.StatusOK)
}

// UpdateThought handles PUT /api/thoughts/:thought
// @Summary Update a thought
// @Description Rewrite a thought's content; long enough edits are re-analysed in the background
// @Tags Thoughts
// @Accept json
// @Produce json
// @Param thought path string true "Thought ID"
// @Param body body thoughtBody true "Thought content and optional tag ids"
// @Success 200 {object} models.Thought
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /thoughts/{thought} [put]
func (h *ThoughtHandler) UpdateThought(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	thoughtID, err := uuidParam(c, "thought")
	if err != nil {
		return utils.NotFoundResponse(c, "thought not found")
	}

	var body thoughtBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "journal.validation.input")
	}

	thought, err := h.Content.UpdateThought(subject, thoughtID, body.Content, body.tagIDs())
	if err != nil {
		return serviceError(c, err, "updateThought")
	}

	return utils.SuccessResponse(c, thought, fiber.StatusOK)
}

// DeleteThought handles DELETE /api/thoughts/:thought
// @Summary Delete a thought
// @Description Delete a thought the authenticated user may remove
// @Tags Thoughts
// @Produce json
// @Param thought path string true "Thought ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /thoughts/{thought} [delete]
func (h *ThoughtHandler) DeleteThought(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	thoughtID, err := uuidParam(c, "thought")
	if err != nil {
		return utils.NotFoundResponse(c, "thought not found")
	}

	if err := h.Content.RemoveThought(subject, thoughtID); err != nil {
		return serviceError(c, err, "deleteThought")
	}

	return utils.DeleteSuccessResponse(c)
}
