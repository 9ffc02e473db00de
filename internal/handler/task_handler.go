package handler

import (
	"errors"
	"log"

	"go-taskboard-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Helpers to pull caller identity from the JWT context (set by RequireAuth)
func getCallerID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, errors.New("no caller id in context")
	}
	return uuid.Parse(raw)
}

func getCallerName(c *fiber.Ctx) string {
	name, ok := c.Locals("username").(string)
	if !ok {
		return "unknown"
	}
	return name
}

func getPermissions(c *fiber.Ctx) []uint {
	perms, ok := c.Locals("user_permissions").([]uint)
	if !ok {
		return nil
	}
	return perms
}

// taskError maps service errors onto the response taxonomy. Unexpected
// faults become an opaque 500; detail goes to the server log only.
func taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	case errors.Is(err, service.ErrUnauthorized):
		return c.Status(403).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrValidation):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("task: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

// ListTasks returns the non-deleted tasks visible to the caller
// GET /api/v1/tasks
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	callerID, err := getCallerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	tasks, err := h.taskService.ListTasks(callerID, getPermissions(c))
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(tasks)
}

// GetTask returns a single task by ID
// GET /api/v1/tasks/:id
func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	callerID, err := getCallerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	task, err := h.taskService.GetTask(taskID, callerID, getPermissions(c))
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(task)
}

// CreateTask creates a task owned by the caller
// POST /api/v1/tasks
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var req service.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	callerID, err := getCallerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	task, err := h.taskService.CreateTask(&req, callerID, getCallerName(c), getPermissions(c))
	if err != nil {
		return taskError(c, err)
	}
	return c.Status(201).JSON(task)
}

// UpdateTask merges the supplied fields into an existing task
// PUT /api/v1/tasks/:id
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var req service.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	callerID, err := getCallerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	task, err := h.taskService.UpdateTask(taskID, &req, callerID, getCallerName(c), getPermissions(c))
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(task)
}

// DeleteTask soft-deletes a task
// DELETE /api/v1/tasks/:id
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	callerID, err := getCallerID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.taskService.SoftDeleteTask(taskID, callerID, getCallerName(c), getPermissions(c)); err != nil {
		return taskError(c, err)
	}
	return c.SendStatus(204)
}
