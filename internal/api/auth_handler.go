package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/taskdesk/taskdesk/internal/api/middleware"
	"github.com/taskdesk/taskdesk/internal/api/shared"
	"github.com/taskdesk/taskdesk/internal/platform/logger"
	"github.com/taskdesk/taskdesk/internal/service"
	"github.com/taskdesk/taskdesk/internal/session"
)

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	userService  service.UserService
	sessions     *session.Manager
	cookieSecure bool
	validator    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	sessions *session.Manager,
	cookieSecure bool,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		sessions:     sessions,
		cookieSecure: cookieSecure,
		validator:    validator.New(),
	}
}

// Register handles the POST /register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeRequest(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterInput{
		Username:   req.Username,
		Password:   req.Password,
		FullName:   req.FullName,
		SecretCode: req.SecretCode,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log := logger.FromContextOrDefault(r.Context(), slog.Default())
	log.Info("registration completed",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))

	shared.RespondWithJSON(w, r, http.StatusCreated, SuccessResponse{Success: true})
}

// Login handles the POST /login endpoint. A successful login always
// issues a fresh session token, so a cookie captured before login is
// worthless afterwards.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeRequest(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cookieValue, err := h.sessions.Login(r.Context(), session.Identity{
		UserID:   user.ID,
		Role:     user.Role,
		FullName: user.FullName,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}

	http.SetCookie(w, h.sessionCookie(cookieValue, int(h.sessions.TTL().Seconds())))
	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}

// Logout handles the GET /logout endpoint. Destroying an already-dead
// session is fine; the outcome is the same either way. A store failure
// is a server error: the session record is still live, so the handler
// must not clear the cookie and pretend the logout happened.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			HandleAPIError(w, r, err, "Failed to log out")
			return
		}
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
