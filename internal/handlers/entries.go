package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/continuum-journal/continuum/internal/services"
	"github.com/continuum-journal/continuum/internal/types"
	"github.com/continuum-journal/continuum/internal/utils"
)

// EntryHandler handles entry routes, including the thoughts nested under
// an entry
type EntryHandler struct {
	Content *services.Content
}

type entryBody struct {
	Date string `json:"date"`
}

type thoughtBody struct {
	Content string                     `json:"content"`
	Tags    *types.FlexList[uuid.UUID] `json:"tags"`
}

// tagIDs returns nil when the field was absent, signalling the service
// to leave tag links untouched.
func (b *thoughtBody) tagIDs() *[]uuid.UUID {
	if b.Tags == nil {
		return nil
	}
	ids := b.Tags.Slice()
	return &ids
}

// CreateEntry handles POST /api/entries
// @Summary Create an entry
// @Description Create a dated journal entry
// @Tags Entries
// @Accept json
// @Produce json
// @Param body body entryBody true "Entry date, YYYY-MM-DD"
// @Success 201 {object} models.Entry
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /entries [post]
func (h *EntryHandler) CreateEntry(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	var body entryBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "journal.validation.input")
	}

	entry, err := h.Content.CreateEntry(subject, body.Date)
	if err != nil {
		return serviceError(c, err, "createEntry")
	}

	return utils.SuccessResponse(c, entry, fiber.StatusCreated)
}

// ListEntries handles GET /api/entries
// @Summary List entries
// @Description List the entries visible to the authenticated user, newest date first
// @Tags Entries
// @Produce json
// @Param page query int false "1-based page number"
// @Param search query string false "Match entries whose thoughts contain this text"
// @Param start_date query string false "Inclusive lower date bound, YYYY-MM-DD"
// @Param end_date query string false "Inclusive upper date bound, YYYY-MM-DD"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /entries [get]
func (h *EntryHandler) ListEntries(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	filters := services.EntryFilters{
		Search:    c.Query("search"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	page := pageParam(c)

	entries, count, err := h.Content.ListEntries(subject, filters, page)
	if err != nil {
		return serviceError(c, err, "listEntries")
	}

	return utils.SuccessResponse(c, listEnvelope(count, page, entries), fiber.StatusOK)
}

// GetEntry handles GET /api/entries/:entry
// @Summary Get an entry
// @Description Get an entry with its thoughts in the order they were written
// @Tags Entries
// @Produce json
// @Param entry path string true "Entry ID"
// @Success 200 {object} models.Entry
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /entries/{entry} [get]
func (h *EntryHandler) GetEntry(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	entryID, err := uuidParam(c, "entry")
	if err != nil {
		return utils.NotFoundResponse(c, "entry not found")
	}

	entry, err := h.Content.GetEntry(subject, entryID)
	if err != nil {
		return serviceError(c, err, "getEntry")
	}

	return utils.SuccessResponse(c, entry, fiber.StatusOK)
}

// DeleteEntry handles DELETE /api/entries/:entry
// @Summary Delete an entry
// @Description Delete an entry and every thought inside it
// @Tags Entries
// @Produce json
// @Param entry path string true "Entry ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /entries/{entry} [delete]
func (h *EntryHandler) DeleteEntry(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	entryID, err := uuidParam(c, "entry")
	if err != nil {
		return utils.NotFoundResponse(c, "entry not found")
	}

	if err := h.Content.DeleteEntry(subject, entryID); err != nil {
		return serviceError(c, err, "deleteEntry")
	}

	return utils.DeleteSuccessResponse(c)
}

// AddThought handles POST /api/entries/:entry/thoughts
// @Summary Add a thought to an entry
// @Description Append a thought to an entry visible to the authenticated user
// @Tags Entries
// @Accept json
// @Produce json
// @Param entry path string true "Entry ID"
// @Param body body thoughtBody true "Thought content and optional tag ids"
// @Success 201 {object} models.Thought
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /entries/{entry}/thoughts [post]
func (h *EntryHandler) AddThought(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	entryID, err := uuidParam(c, "entry")
	if err != nil {
		return utils.NotFoundResponse(c, "entry not found")
	}

	var body thoughtBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "journal.validation.input")
	}

	var tagIDs []uuid.UUID
	if body.Tags != nil {
		tagIDs = body.Tags.Slice()
	}

	thought, err := h.Content.AddThought(subject, entryID, body.Content, tagIDs)
	if err != nil {
		return serviceError(c, err, "addThought")
	}

	return utils.SuccessResponse(c, thought, fiber.StatusCreated)
}

// EditThought handles PUT /api/entries/:entry/thoughts/:thought
// @Summary Edit a thought in an entry
// @Description Rewrite a thought's content; long enough edits are re-analysed in the background
// @Tags Entries
// @Accept json
// @Produce json
// @Param entry path string true "Entry ID"
// @Param thought path string true "Thought ID"
// @Param body body thoughtBody true "Thought content and optional tag ids"
// @Success 200 {object} models.Thought
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /entries/{entry}/thoughts/{thought} [put]
func (h *EntryHandler) EditThought(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	entryID, err := uuidParam(c, "entry")
	if err != nil {
		return utils.NotFoundResponse(c, "entry not found")
	}
	thoughtID, err := uuidParam(c, "thought")
	if err != nil {
		return utils.NotFoundResponse(c, "thought not found")
	}

	var body thoughtBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "journal.validation.input")
	}

	thought, err := h.Content.EditThought(subject, entryID, thoughtID, body.Content, body.tagIDs())
	if err != nil {
		return serviceError(c, err, "editThought")
	}

	return utils.SuccessResponse(c, thought, fiber.StatusOK)
}

// DeleteThought handles DELETE /api/entries/:entry/thoughts/:thought
// @Summary Delete a thought from an entry
// @Description Delete a thought the authenticated user may remove
// @Tags Entries
// @Produce json
// @Param entry path string true "Entry ID"
// @Param thought path string true "Thought ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /entries/{entry}/thoughts/{thought} [delete]
func (h *EntryHandler) DeleteThought(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	entryID, err := uuidParam(c, "entry")
	if err != nil {
		return utils.NotFoundResponse(c, "entry not found")
	}
	thoughtID, err := uuidParam(c, "thought")
	if err != nil {
		return utils.NotFoundResponse(c, "thought not found")
	}

	if err := h.Content.DeleteThought(subject, entryID, thoughtID); err != nil {
		return serviceError(c, err, "deleteThought")
	}

	return utils.DeleteSuccessResponse(c)
}
