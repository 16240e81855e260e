// Package api contains the HTTP handlers for the task tracker: auth
// (register, login, logout), task CRUD and status updates, and the small
// identity/executor data endpoints the frontend pages poll. Handlers
// decode and validate input, delegate every decision to the service
// layer, and translate its errors into sanitized responses.
package api
