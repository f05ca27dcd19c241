package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/continuum-journal/continuum/internal/apperror"
	"github.com/continuum-journal/continuum/internal/models"
	"github.com/continuum-journal/continuum/internal/utils"
)

// subjectID extracts the authenticated user's id from context (set by
// auth middleware)
func subjectID(c *fiber.Ctx) (uuid.UUID, error) {
	user := c.Locals("user")
	if user == nil {
		return uuid.Nil, fmt.Errorf("user not found in context")
	}

	u, ok := user.(*models.User)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid user data format")
	}

	return u.ID, nil
}

// pageParam reads the 1-based page query parameter
func pageParam(c *fiber.Ctx) int {
	return c.QueryInt("page", 1)
}

// uuidParam parses a path parameter as a UUID
func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id", name)
	}
	return id, nil
}

// parseTagIDs extracts tag ids from query parameters, supporting both
// multiple 'tags' keys and comma-separated values. Unparseable ids are
// dropped.
func parseTagIDs(c *fiber.Ctx) []uuid.UUID {
	idMap := make(map[uuid.UUID]struct{})

	args := c.Context().QueryArgs()
	for key, value := range args.All() {
		if string(key) == "tags" {
			vals := strings.Split(string(value), ",")
			for _, v := range vals {
				id, err := uuid.Parse(strings.TrimSpace(v))
				if err != nil {
					continue
				}
				idMap[id] = struct{}{}
			}
		}
	}

	if len(idMap) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(idMap))
	for id := range idMap {
		ids = append(ids, id)
	}

	return ids
}

// serviceError maps a service-layer error to the response envelope.
// Missing and unauthorized objects both arrive as not-found, so neither
// response shape leaks whether the object exists.
func serviceError(c *fiber.Ctx, err error, operation string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			return utils.NotFoundResponse(c, appErr.Message)
		case errors.Is(err, apperror.ErrValidation):
			return utils.ValidationErrorResponse(c, appErr.Field, appErr.Message)
		case errors.Is(err, apperror.ErrAuth):
			return utils.ErrorResponse(c, appErr.Message, fiber.StatusUnauthorized, "journal.authorization.user")
		}
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, operation)
}

// listEnvelope is the shape every paginated collection responds with
func listEnvelope(count int64, page int, results interface{}) fiber.Map {
	return fiber.Map{
		"count":   count,
		"page":    page,
		"results": results,
	}
}
