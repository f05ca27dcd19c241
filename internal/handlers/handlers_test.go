package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/continuum-journal/continuum/internal/database"
	"github.com/continuum-journal/continuum/internal/enrichment"
	"github.com/continuum-journal/continuum/internal/handlers"
	"github.com/continuum-journal/continuum/internal/models"
	"github.com/continuum-journal/continuum/internal/services"
)

// setupApp wires a Fiber app over an in-memory database with the given
// user pre-authenticated, bypassing the identity provider.
func setupApp(t *testing.T) (*fiber.App, *services.Content, *models.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	user := &models.User{Sub: uuid.New().String(), Email: "alice@example.com"}
	require.NoError(t, db.Create(user).Error)

	content := services.NewContent(db, enrichment.NewQueue(32), zerolog.Nop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", user)
		return c.Next()
	})

	tagHandler := &handlers.TagHandler{Content: content}
	entryHandler := &handlers.EntryHandler{Content: content}
	thoughtHandler := &handlers.ThoughtHandler{Content: content}
	taskHandler := &handlers.TaskHandler{Content: content}

	api := app.Group("/api")
	api.Post("/tags", tagHandler.CreateTag)
	api.Get("/tags", tagHandler.ListTags)
	api.Get("/tags/:tag", tagHandler.GetTag)
	api.Post("/entries", entryHandler.CreateEntry)
	api.Get("/entries/:entry", entryHandler.GetEntry)
	api.Post("/entries/:entry/thoughts", entryHandler.AddThought)
	api.Get("/thoughts", thoughtHandler.ListThoughts)
	api.Post("/tasks", taskHandler.CreateTask)
	api.Get("/tasks", taskHandler.ListActiveTasks)

	return app, content, user
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) map[string]interface{} {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestCreateAndGetTag(t *testing.T) {
	app, _, _ := setupApp(t)

	created := postJSON(t, app, "/api/tags", map[string]string{
		"name":   "work",
		"colour": "blue",
	})
	tagID, _ := created["id"].(string)
	require.NotEmpty(t, tagID)

	req := httptest.NewRequest("GET", "/api/tags/"+tagID, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "work", got["name"])
	assert.Equal(t, "blue", got["colour"])
}

func TestCreateTagValidationError(t *testing.T) {
	app, _, _ := setupApp(t)

	body, _ := json.Marshal(map[string]string{"name": ""})
	req := httptest.NewRequest("POST", "/api/tags", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, false, result["ok"])
	assert.Equal(t, "name", result["field"])
}

func TestGetUnknownTagReturns404(t *testing.T) {
	app, _, _ := setupApp(t)

	req := httptest.NewRequest("GET", "/api/tags/"+uuid.New().String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInaccessibleEntryLooksMissing(t *testing.T) {
	app, content, _ := setupApp(t)

	// An entry owned by somebody else entirely.
	other := models.User{Sub: uuid.New().String()}
	require.NoError(t, content.DB().Create(&other).Error)
	entry, err := content.CreateEntry(other.ID, "2026-08-30")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/entries/"+entry.ID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAddThoughtAndListFlat(t *testing.T) {
	app, _, _ := setupApp(t)

	entry := postJSON(t, app, "/api/entries", map[string]string{"date": "2026-08-30"})
	entryID, _ := entry["id"].(string)
	require.NotEmpty(t, entryID)

	postJSON(t, app, fmt.Sprintf("/api/entries/%s/thoughts", entryID), map[string]interface{}{
		"content": "a first thought",
	})

	req := httptest.NewRequest("GET", "/api/thoughts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Count   int64                    `json:"count"`
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, int64(1), result.Count)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "a first thought", result.Results[0]["content"])
}

func TestCreateTaskAndListActive(t *testing.T) {
	app, _, _ := setupApp(t)

	postJSON(t, app, "/api/tasks", map[string]interface{}{"name": "water the plants"})

	req := httptest.NewRequest("GET", "/api/tasks", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Results, 1)
	assert.Equal(t, "water the plants", result.Results[0]["name"])
}
