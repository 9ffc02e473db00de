package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go-taskboard-ws/internal/handler"
	"go-taskboard-ws/internal/middleware"
	"go-taskboard-ws/internal/model"
	"go-taskboard-ws/internal/repository"
	"go-taskboard-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Role{}, &model.Permission{}, &model.Task{}))
	require.NoError(t, repository.NewPermissionRepo(db).SeedDefaults())

	userRepo := repository.NewUserRepo(db)
	taskRepo := repository.NewTaskRepo(db)
	authHandler := handler.NewAuthHandler(service.NewAuthService(userRepo))
	taskHandler := handler.NewTaskHandler(service.NewTaskService(taskRepo, nil))

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/auth/login", authHandler.Login)

	protected := api.Group("", middleware.RequireAuth())
	protected.Get("/tasks", taskHandler.ListTasks)
	protected.Get("/tasks/:id", taskHandler.GetTask)
	protected.Post("/tasks", middleware.RequirePermission(model.PermCreateTask), taskHandler.CreateTask)
	protected.Put("/tasks/:id", taskHandler.UpdateTask)
	protected.Delete("/tasks/:id", taskHandler.DeleteTask)

	return app, db
}

// provisionUser creates a user holding exactly the given permissions via a
// dedicated role, the way accounts are set up out-of-band.
func provisionUser(t *testing.T, db *gorm.DB, username string, permIDs ...uint) *model.User {
	t.Helper()

	var perms []model.Permission
	require.NoError(t, db.Where("id IN ?", permIDs).Find(&perms).Error)
	require.Len(t, perms, len(permIDs))

	role := model.Role{Name: username + "-role", Permissions: perms}
	require.NoError(t, db.Create(&role).Error)

	user := &model.User{Username: username, Roles: []model.Role{role}}
	require.NoError(t, user.SetPassword(username+"-pass"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func grantPermission(t *testing.T, db *gorm.DB, user *model.User, permID uint) {
	t.Helper()
	var perm model.Permission
	require.NoError(t, db.First(&perm, permID).Error)
	role := model.Role{Name: fmt.Sprintf("%s-grant-%d", user.Username, permID), Permissions: []model.Permission{perm}}
	require.NoError(t, db.Create(&role).Error)
	require.NoError(t, db.Model(user).Association("Roles").Append(&role))
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req, 10000)
	require.NoError(t, err)
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()
	return res, raw
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	res, raw := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, 200, res.StatusCode, "login failed: %s", raw)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestLoginMissingFields(t *testing.T) {
	app, _ := newTestApp(t)

	res, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice"})
	assert.Equal(t, 400, res.StatusCode)

	res, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"password": "x"})
	assert.Equal(t, 400, res.StatusCode)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	app, db := newTestApp(t)
	provisionUser(t, db, "alice", model.PermReadTask)

	unknownRes, unknownBody := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "nobody", "password": "whatever",
	})
	wrongRes, wrongBody := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alice", "password": "wrongpass",
	})

	assert.Equal(t, 401, unknownRes.StatusCode)
	assert.Equal(t, 401, wrongRes.StatusCode)
	assert.Equal(t, string(unknownBody), string(wrongBody))
}

func TestTasksRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	res, _ := doJSON(t, app, http.MethodGet, "/api/v1/tasks", "", nil)
	assert.Equal(t, 401, res.StatusCode)

	res, _ = doJSON(t, app, http.MethodGet, "/api/v1/tasks", "not-a-token", nil)
	assert.Equal(t, 401, res.StatusCode)
}

func TestCreateRequiresPermission(t *testing.T) {
	app, db := newTestApp(t)
	provisionUser(t, db, "reader", model.PermReadTask)
	token := login(t, app, "reader", "reader-pass")

	res, _ := doJSON(t, app, http.MethodPost, "/api/v1/tasks", token, map[string]string{"title": "nope"})
	assert.Equal(t, 403, res.StatusCode)
}

func TestListScopedToOwnTasks(t *testing.T) {
	app, db := newTestApp(t)
	provisionUser(t, db, "alice", model.PermCreateTask, model.PermReadTask)
	provisionUser(t, db, "bob", model.PermCreateTask, model.PermReadTask)
	aliceToken := login(t, app, "alice", "alice-pass")
	bobToken := login(t, app, "bob", "bob-pass")

	res, _ := doJSON(t, app, http.MethodPost, "/api/v1/tasks", aliceToken, map[string]string{"title": "alice task"})
	require.Equal(t, 201, res.StatusCode)
	res, _ = doJSON(t, app, http.MethodPost, "/api/v1/tasks", bobToken, map[string]string{"title": "bob task"})
	require.Equal(t, 201, res.StatusCode)

	// Without READ_ALL_TASKS a listing never contains another user's task.
	res, raw := doJSON(t, app, http.MethodGet, "/api/v1/tasks", aliceToken, nil)
	require.Equal(t, 200, res.StatusCode)

	var tasks []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(raw, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "alice task", tasks[0].Title)
}

func TestUpdatePartialMergeOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	provisionUser(t, db, "alice", model.PermCreateTask, model.PermReadTask, model.PermUpdateTask)
	token := login(t, app, "alice", "alice-pass")

	res, raw := doJSON(t, app, http.MethodPost, "/api/v1/tasks", token, map[string]string{
		"title":       "Buy milk",
		"description": "two liters",
	})
	require.Equal(t, 201, res.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))

	// Status-only update leaves the other fields untouched.
	res, raw = doJSON(t, app, http.MethodPut, "/api/v1/tasks/"+created.ID, token, map[string]string{"status": "completed"})
	require.Equal(t, 200, res.StatusCode)
	var updated struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, "two liters", updated.Description)
	assert.Equal(t, "completed", updated.Status)

	// An unrecognized status is rejected without mutating the record.
	res, _ = doJSON(t, app, http.MethodPut, "/api/v1/tasks/"+created.ID, token, map[string]string{
		"title":  "Buy oat milk",
		"status": "finished",
	})
	assert.Equal(t, 400, res.StatusCode)

	res, raw = doJSON(t, app, http.MethodGet, "/api/v1/tasks/"+created.ID, token, nil)
	require.Equal(t, 200, res.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, "completed", updated.Status)
}

func TestTaskLifecycle(t *testing.T) {
	app, db := newTestApp(t)
	userA := provisionUser(t, db, "usera", model.PermCreateTask, model.PermReadTask)
	provisionUser(t, db, "userb", model.PermReadAllTasks)
	tokenA := login(t, app, "usera", "usera-pass")
	tokenB := login(t, app, "userb", "userb-pass")

	// A creates a task; the creator is forced to A.
	res, raw := doJSON(t, app, http.MethodPost, "/api/v1/tasks", tokenA, map[string]string{"title": "Buy milk"})
	require.Equal(t, 201, res.StatusCode)
	var created struct {
		ID        string  `json:"id"`
		CreatedBy *string `json:"created_by"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, userA.ID.String(), *created.CreatedBy)

	// B holds READ_ALL_TASKS and sees it in a listing.
	res, raw = doJSON(t, app, http.MethodGet, "/api/v1/tasks", tokenB, nil)
	require.Equal(t, 200, res.StatusCode)
	var tasks []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(raw, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)

	// A lacks DELETE_TASK: 403.
	res, _ = doJSON(t, app, http.MethodDelete, "/api/v1/tasks/"+created.ID, tokenA, nil)
	assert.Equal(t, 403, res.StatusCode)

	// Grant DELETE_TASK and re-login; the old token keeps its issued
	// permission set, so a fresh one is needed.
	grantPermission(t, db, userA, model.PermDeleteTask)
	tokenA = login(t, app, "usera", "usera-pass")

	res, _ = doJSON(t, app, http.MethodDelete, "/api/v1/tasks/"+created.ID, tokenA, nil)
	assert.Equal(t, 204, res.StatusCode)

	// Soft-deleted: single read is 404, listing is empty, delete again 404.
	res, _ = doJSON(t, app, http.MethodGet, "/api/v1/tasks/"+created.ID, tokenA, nil)
	assert.Equal(t, 404, res.StatusCode)

	res, raw = doJSON(t, app, http.MethodGet, "/api/v1/tasks", tokenB, nil)
	require.Equal(t, 200, res.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &tasks))
	assert.Empty(t, tasks)

	res, _ = doJSON(t, app, http.MethodDelete, "/api/v1/tasks/"+created.ID, tokenA, nil)
	assert.Equal(t, 404, res.StatusCode)

	// The row itself persists for audit.
	var count int64
	require.NoError(t, db.Unscoped().Model(&model.Task{}).Where("is_deleted = ?", true).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetTaskForbiddenVsNotFound(t *testing.T) {
	app, db := newTestApp(t)
	provisionUser(t, db, "alice", model.PermCreateTask, model.PermReadTask)
	provisionUser(t, db, "bob", model.PermReadTask)
	aliceToken := login(t, app, "alice", "alice-pass")
	bobToken := login(t, app, "bob", "bob-pass")

	res, raw := doJSON(t, app, http.MethodPost, "/api/v1/tasks", aliceToken, map[string]string{"title": "private"})
	require.Equal(t, 201, res.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))

	// Exists but not bob's: 403.
	res, _ = doJSON(t, app, http.MethodGet, "/api/v1/tasks/"+created.ID, bobToken, nil)
	assert.Equal(t, 403, res.StatusCode)

	// Absent row: 404 even though bob could not have read it anyway.
	res, _ = doJSON(t, app, http.MethodGet, "/api/v1/tasks/6a146e5a-4f72-4e48-b327-cf0b40b3bb64", bobToken, nil)
	assert.Equal(t, 404, res.StatusCode)
}
