package webui

import (
	"bytes"
	"html/template"
	"log"
	"time"

	"go-taskboard-ws/pkg/client"
	"go-taskboard-ws/pkg/jwt"
	"go-taskboard-ws/web"

	"github.com/gofiber/fiber/v2"
)

const tokenCookie = "taskboard_token"

// Handler serves the server-rendered task board. It holds no state beyond
// the API client; the session lives entirely in the token cookie.
type Handler struct {
	api  *client.Client
	tmpl *template.Template
}

func New(api *client.Client) (*Handler, error) {
	tmpl, err := template.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{api: api, tmpl: tmpl}, nil
}

// Register wires the UI routes onto the app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/login", h.ShowLogin)
	app.Post("/login", h.Login)
	app.Post("/logout", h.Logout)
	app.Get("/", h.Board)
	app.Post("/tasks", h.CreateTask)
	app.Post("/tasks/:id", h.UpdateTask)
	app.Post("/tasks/:id/delete", h.DeleteTask)
}

func (h *Handler) render(c *fiber.Ctx, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("webui: render %s: %v", name, err)
		return c.Status(500).SendString("Internal Server Error")
	}
	c.Type("html")
	return c.Send(buf.Bytes())
}

// clearSession drops all local session state and forces re-authentication.
// Called whenever the API signals the token is invalid or access was denied.
func (h *Handler) clearSession(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// session decodes the cookie token. The decode is unverified on purpose:
// only the API holds the signing secret, and every mutation is re-checked
// there anyway.
func (h *Handler) session(c *fiber.Ctx) (token string, claims *jwt.Claims, ok bool) {
	token = c.Cookies(tokenCookie)
	if token == "" {
		return "", nil, false
	}
	claims, err := jwt.DecodeUnverified(token)
	if err != nil {
		return "", nil, false
	}
	return token, claims, true
}

// ShowLogin renders the sign-in page
// GET /login
func (h *Handler) ShowLogin(c *fiber.Ctx) error {
	if _, _, ok := h.session(c); ok {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return h.render(c, "login", fiber.Map{"Error": c.Query("error")})
}

// Login exchanges credentials for a token cookie
// POST /login
func (h *Handler) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return h.render(c, "login", fiber.Map{"Error": "Username and password are required"})
	}

	res, err := h.api.Login(username, password)
	if err != nil {
		if _, isAPIErr := err.(*client.APIError); isAPIErr {
			return h.render(c, "login", fiber.Map{"Error": "Invalid credentials"})
		}
		log.Printf("webui: login: %v", err)
		return h.render(c, "login", fiber.Map{"Error": "Login is unavailable right now"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     tokenCookie,
		Value:    res.Token,
		Expires:  time.Now().Add(time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout clears the session cookie
// POST /logout
func (h *Handler) Logout(c *fiber.Ctx) error {
	return h.clearSession(c)
}

// Board renders the task list with only the actions the token's permission
// set allows
// GET /
func (h *Handler) Board(c *fiber.Ctx) error {
	token, claims, ok := h.session(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	tasks, err := h.api.ListTasks(token)
	if err != nil {
		if client.IsAuthFailure(err) {
			return h.clearSession(c)
		}
		log.Printf("webui: list tasks: %v", err)
		return c.Status(502).SendString("Task service unavailable")
	}

	data := buildBoard(claims.Username, claims.UserID.String(), claims.Permissions, tasks)
	return h.render(c, "tasks", data)
}

// CreateTask submits a new task and returns to the board
// POST /tasks
func (h *Handler) CreateTask(c *fiber.Ctx) error {
	token, _, ok := h.session(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	_, err := h.api.CreateTask(token, client.CreateTaskRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Status:      c.FormValue("status"),
	})
	if client.IsAuthFailure(err) {
		return h.clearSession(c)
	}
	if err != nil {
		log.Printf("webui: create task: %v", err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// UpdateTask submits edited fields for one task
// POST /tasks/:id
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	token, _, ok := h.session(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	title := c.FormValue("title")
	description := c.FormValue("description")
	status := c.FormValue("status")

	_, err := h.api.UpdateTask(token, c.Params("id"), client.UpdateTaskRequest{
		Title:       &title,
		Description: &description,
		Status:      &status,
	})
	if client.IsAuthFailure(err) {
		return h.clearSession(c)
	}
	if err != nil {
		log.Printf("webui: update task: %v", err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// DeleteTask asks the API to soft-delete a task
// POST /tasks/:id/delete
func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	token, _, ok := h.session(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	err := h.api.DeleteTask(token, c.Params("id"))
	if client.IsAuthFailure(err) {
		return h.clearSession(c)
	}
	if err != nil {
		log.Printf("webui: delete task: %v", err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}
