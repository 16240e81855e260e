package api

import (
	"net/url"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
// SecretCode is optional; a value matching the configured manager secret
// yields a manager account, anything else an executor account.
type RegisterRequest struct {
	Username   string `json:"username"  validate:"required,min=2,max=64"`
	Password   string `json:"password"  validate:"required,min=1,max=72"`
	FullName   string `json:"full_name" validate:"required,max=128"`
	SecretCode string `json:"secret_code"`
}

// DecodeForm populates the request from an urlencoded form.
func (req *RegisterRequest) DecodeForm(values url.Values) error {
	req.Username = values.Get("username")
	req.Password = values.Get("password")
	req.FullName = values.Get("full_name")
	req.SecretCode = values.Get("secret_code")
	return nil
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DecodeForm populates the request from an urlencoded form.
func (req *LoginRequest) DecodeForm(values url.Values) error {
	req.Username = values.Get("username")
	req.Password = values.Get("password")
	return nil
}

// CreateTaskRequest defines the payload for task creation.
// Deadline, when present, is a date (2006-01-02) or RFC 3339 timestamp.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=256"`
	Description string `json:"description" validate:"max=4096"`
	ExecutorID  string `json:"executor_id" validate:"required,uuid"`
	Deadline    string `json:"deadline"    validate:"omitempty"`
}

// DecodeForm populates the request from an urlencoded form.
func (req *CreateTaskRequest) DecodeForm(values url.Values) error {
	req.Title = values.Get("title")
	req.Description = values.Get("description")
	req.ExecutorID = values.Get("executor_id")
	req.Deadline = values.Get("deadline")
	return nil
}

// UpdateTaskRequest defines the payload for the full task update endpoint.
// All four mutable fields are written unconditionally.
type UpdateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=256"`
	Description string `json:"description" validate:"max=4096"`
	ExecutorID  string `json:"executor_id" validate:"required,uuid"`
	Status      string `json:"status"      validate:"required,oneof=new in_progress completed rejected"`
}

// DecodeForm populates the request from an urlencoded form.
func (req *UpdateTaskRequest) DecodeForm(values url.Values) error {
	req.Title = values.Get("title")
	req.Description = values.Get("description")
	req.ExecutorID = values.Get("executor_id")
	req.Status = values.Get("status")
	return nil
}

// SetStatusRequest defines the payload for the executor status endpoint.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new in_progress completed rejected"`
}

// DecodeForm populates the request from an urlencoded form.
func (req *SetStatusRequest) DecodeForm(values url.Values) error {
	req.Status = values.Get("status")
	return nil
}

// SuccessResponse is the minimal acknowledgement body most mutating
// endpoints return.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// CreateTaskResponse acknowledges task creation and carries the new ID.
type CreateTaskResponse struct {
	Success bool      `json:"success"`
	TaskID  uuid.UUID `json:"task_id"`
}

// IdentityResponse describes the authenticated user to the frontend.
type IdentityResponse struct {
	ID       uuid.UUID `json:"id"`
	Role     string    `json:"role"`
	FullName string    `json:"full_name"`
}

// ExecutorResponse is one entry of the executor picker list.
type ExecutorResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}
