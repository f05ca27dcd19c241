package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/continuum-journal/continuum/internal/services"
	"github.com/continuum-journal/continuum/internal/utils"
)

// TagHandler handles tag routes
type TagHandler struct {
	Content *services.Content
}

type tagBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Colour      string `json:"colour"`
}

// CreateTag handles POST /api/tags
// @Summary Create a tag
// @Description Create a tag owned by the authenticated user
// @Tags Tags
// @Accept json
// @Produce json
// @Param body body tagBody true "Tag fields"
// @Success 201 {object} models.Tag
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tags [post]
func (h *TagHandler) CreateTag(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	var body tagBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "journal.validation.input")
	}

	tag, err := h.Content.CreateTag(subject, body.Name, body.Description, body.Colour)
	if err != nil {
		return serviceError(c, err, "createTag")
	}

	return utils.SuccessResponse(c, tag, fiber.StatusCreated)
}

// ListTags handles GET /api/tags
// @Summary List tags
// @Description List the tags visible to the authenticated user
// @Tags Tags
// @Produce json
// @Param page query int false "1-based page number"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tags [get]
func (h *TagHandler) ListTags(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	page := pageParam(c)
	tags, count, err := h.Content.ListTags(subject, page)
	if err != nil {
		return serviceError(c, err, "listTags")
	}

	return utils.SuccessResponse(c, listEnvelope(count, page, tags), fiber.StatusOK)
}

// GetTag handles GET /api/tags/:tag
// @Summary Get a tag
// @Description Get a single tag visible to the authenticated user
// @Tags Tags
// @Produce json
// @Param tag path string true "Tag ID"
// @Success 200 {object} models.Tag
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tags/{tag} [get]
func (h *TagHandler) GetTag(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	tagID, err := uuidParam(c, "tag")
	if err != nil {
		return utils.NotFoundResponse(c, "tag not found")
	}

	tag, err := h.Content.GetTag(subject, tagID)
	if err != nil {
		return serviceError(c, err, "getTag")
	}

	return utils.SuccessResponse(c, tag, fiber.StatusOK)
}

// UpdateTag handles PUT /api/tags/:tag
// @Summary Update a tag
// @Description Update a tag visible to the authenticated user
// @Tags Tags
// @Accept json
// @Produce json
// @Param tag path string true "Tag ID"
// @Param body body tagBody true "Tag fields"
// @Success 200 {object} models.Tag
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tags/{tag} [put]
func (h *TagHandler) UpdateTag(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	tagID, err := uuidParam(c, "tag")
	if err != nil {
		return utils.NotFoundResponse(c, "tag not found")
	}

	var body tagBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "journal.validation.input")
	}

	tag, err := h.Content.UpdateTag(subject, tagID, body.Name, body.Description, body.Colour)
	if err != nil {
		return serviceError(c, err, "updateTag")
	}

	return utils.SuccessResponse(c, tag, fiber.StatusOK)
}

// DeleteTag handles DELETE /api/tags/:tag
// @Summary Delete a tag
// @Description Delete a tag and detach it from thoughts and tasks
// @Tags Tags
// @Produce json
// @Param tag path string true "Tag ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tags/{tag} [delete]
func (h *TagHandler) DeleteTag(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	tagID, err := uuidParam(c, "tag")
	if err != nil {
		return utils.NotFoundResponse(c, "tag not found")
	}

	if err := h.Content.DeleteTag(subject, tagID); err != nil {
		return serviceError(c, err, "deleteTag")
	}

	return utils.DeleteSuccessResponse(c)
}
