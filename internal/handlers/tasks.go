package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/continuum-journal/continuum/internal/services"
	"github.com/continuum-journal/continuum/internal/types"
	"github.com/continuum-journal/continuum/internal/utils"
)

// TaskHandler handles task routes
type TaskHandler struct {
	Content *services.Content
}

type taskBody struct {
	Name        string                    `json:"name"`
	Notes       string                    `json:"notes"`
	Snooze      *time.Time                `json:"snooze"`
	IsEvergreen bool                      `json:"is_evergreen"`
	IsCompleted bool                      `json:"is_completed"`
	IsIdeal     bool                      `json:"is_ideal"`
	Tags        types.FlexList[uuid.UUID] `json:"tags"`
}

func (b *taskBody) input() services.TaskInput {
	return services.TaskInput{
		Name:        b.Name,
		Notes:       b.Notes,
		Snooze:      b.Snooze,
		IsEvergreen: b.IsEvergreen,
		IsCompleted: b.IsCompleted,
		IsIdeal:     b.IsIdeal,
		TagIDs:      b.Tags.Slice(),
	}
}

// CreateTask handles POST /api/tasks
// @Summary Create a task
// @Description Create a task owned by the authenticated user
// @Tags Tasks
// @Accept json
// @Produce json
// @Param body body taskBody true "Task fields"
// @Success 201 {object} models.Task
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	var body taskBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "journal.validation.input")
	}

	task, err := h.Content.CreateTask(subject, body.input())
	if err != nil {
		return serviceError(c, err, "createTask")
	}

	return utils.SuccessResponse(c, task, fiber.StatusCreated)
}

// ListActiveTasks handles GET /api/tasks
// @Summary List active tasks
// @Description List up to ten unsnoozed tasks, least recently touched first
// @Tags Tasks
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tasks [get]
func (h *TaskHandler) ListActiveTasks(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	tasks, err := h.Content.ListActiveTasks(subject)
	if err != nil {
		return serviceError(c, err, "listActiveTasks")
	}

	return utils.SuccessResponse(c, fiber.Map{"results": tasks}, fiber.StatusOK)
}

// GetTask handles GET /api/tasks/:task
// @Summary Get a task
// @Description Get a single task visible to the authenticated user
// @Tags Tasks
// @Produce json
// @Param task path string true "Task ID"
// @Success 200 {object} models.Task
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tasks/{task} [get]
func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	taskID, err := uuidParam(c, "task")
	if err != nil {
		return utils.NotFoundResponse(c, "task not found")
	}

	task, err := h.Content.GetTask(subject, taskID)
	if err != nil {
		return serviceError(c, err, "getTask")
	}

	return utils.SuccessResponse(c, task, fiber.StatusOK)
}

// UpdateTask handles PUT /api/tasks/:task
// @Summary Update a task
// @Description Rewrite the caller-writable fields of a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task path string true "Task ID"
// @Param body body taskBody true "Task fields"
// @Success 200 {object} models.Task
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tasks/{task} [put]
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	taskID, err := uuidParam(c, "task")
	if err != nil {
		return utils.NotFoundResponse(c, "task not found")
	}

	var body taskBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "journal.validation.input")
	}

	task, err := h.Content.UpdateTask(subject, taskID, body.input())
	if err != nil {
		return serviceError(c, err, "updateTask")
	}

	return utils.SuccessResponse(c, task, fiber.StatusOK)
}

// DeleteTask handles DELETE /api/tasks/:task
// @Summary Delete a task
// @Description Delete a task visible to the authenticated user
// @Tags Tasks
// @Produce json
// @Param task path string true "Task ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tasks/{task} [delete]
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	subject, err := subjectID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "journal.authorization.user")
	}

	taskID, err := uuidParam(c, "task")
	if err != nil {
		return utils.NotFoundResponse(c, "task not found")
	}

	if err := h.Content.DeleteTask(subject, taskID); err != nil {
		return serviceError(c, err, "deleteTask")
	}

	return utils.DeleteSuccessResponse(c)
}
