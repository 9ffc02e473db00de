// Package client is a typed HTTP client for the task API, used by the web
// frontend and by integration tooling.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIError carries the status code of a non-2xx response so callers can
// react to 401/403 (forced re-authentication) differently from the rest.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// IsAuthFailure reports whether err is an APIError signaling an invalid
// token or denied access.
func IsAuthFailure(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Wire types mirror the API's JSON shapes.

type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedBy   *string   `json:"created_by"`
	Creator     *User     `json:"creator,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LoginResponse struct {
	Token       string `json:"token"`
	User        User   `json:"user"`
	Permissions []uint `json:"permissions"`
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (c *Client) Login(username, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTasks(token string) ([]Task, error) {
	var out []Task
	if err := c.do(http.MethodGet, "/api/v1/tasks", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTask(token, id string) (*Task, error) {
	var out Task
	if err := c.do(http.MethodGet, "/api/v1/tasks/"+id, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(token string, req CreateTaskRequest) (*Task, error) {
	var out Task
	if err := c.do(http.MethodPost, "/api/v1/tasks", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(token, id string, req UpdateTaskRequest) (*Task, error) {
	var out Task
	if err := c.do(http.MethodPut, "/api/v1/tasks/"+id, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(token, id string) error {
	return c.do(http.MethodDelete, "/api/v1/tasks/"+id, token, nil, nil)
}

func (c *Client) do(method, path, token string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = http.StatusText(res.StatusCode)
		}
		return &APIError{StatusCode: res.StatusCode, Message: errBody.Error}
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
