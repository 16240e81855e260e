package api

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/taskdesk/taskdesk/internal/platform/logger"
	"github.com/taskdesk/taskdesk/web"
)

// PageHandler serves the embedded HTML pages.
type PageHandler struct {
	files fs.FS
}

// NewPageHandler creates a PageHandler backed by the embedded frontend.
func NewPageHandler() *PageHandler {
	return &PageHandler{files: web.Files}
}

// Tasks serves the task list page at GET /.
func (h *PageHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "tasks.html")
}

// Login serves the sign-in page at GET /login.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "login.html")
}

// Register serves the registration page at GET /register.
func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "register.html")
}

func (h *PageHandler) serve(w http.ResponseWriter, r *http.Request, name string) {
	data, err := fs.ReadFile(h.files, name)
	if err != nil {
		log := logger.FromContextOrDefault(r.Context(), slog.Default())
		log.Error("embedded page missing", slog.String("page", name), slog.String("error", err.Error()))
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Debug("failed to write page response", "error", err)
	}
}
