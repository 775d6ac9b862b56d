// Package account implements registration, login, logout and profile routes.
package account

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skillconnect/internal/common/auth"
	"skillconnect/internal/common/config"
	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/common/response"
	"skillconnect/internal/models"
)

// UserStore is the account persistence surface.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// SessionStore mints and revokes session tokens.
type SessionStore interface {
	Create(ctx context.Context, userID string, role models.Role) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

type Handler struct {
	users    UserStore
	sessions SessionStore
	cfg      config.AuthConfig
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(users UserStore, sessions SessionStore, cfg config.AuthConfig, log logger.Logger) *Handler {
	return &Handler{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		errors:   errors.NewErrorHandler(log),
		logger:   log.WithFields(map[string]interface{}{"handler": "account"}),
	}
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.errors.WriteError(w, r, errors.NewValidationError("Invalid request body"))
		return
	}

	if err := validateRegister(&input); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), h.cfg.BcryptCost)
	if err != nil {
		h.errors.WriteError(w, r, errors.NewInternalError(err))
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: string(hash),
		Role:         input.Role,
		Skills:       input.Skills,
		Bio:          input.Bio,
		Experience:   input.Experience,
		Location:     input.Location,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.logger.Info("user registered", map[string]interface{}{
		"userId": user.ID,
		"role":   string(user.Role),
	})

	h.issueSession(w, r, user, http.StatusCreated)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.errors.WriteError(w, r, errors.NewValidationError("Invalid request body"))
		return
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		h.errors.WriteError(w, r, errors.NewValidationError("email and password are required"))
		return
	}

	user, err := h.users.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeResourceNotFound) {
			h.errors.WriteError(w, r, errors.NewValidationError("Invalid email or password"))
			return
		}
		h.errors.WriteError(w, r, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		h.errors.WriteError(w, r, errors.NewValidationError("Invalid email or password"))
		return
	}

	h.issueSession(w, r, user, http.StatusOK)
}

// Logout handles POST /api/auth/logout. Always succeeds, token or not.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cfg.CookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("session revoke failed", map[string]interface{}{"error": err.Error()})
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	response.OK(w, MessageOutput{OK: true, Message: "Logged out"})
}

// Profile handles GET /api/auth/profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		h.errors.WriteError(w, r, errors.NewAuthenticationError("Missing session token"))
		return
	}

	user, err := h.users.FindByID(r.Context(), principal.ID)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	response.OK(w, UserOutput{OK: true, User: user})
}

func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	session, err := h.sessions.Create(r.Context(), user.ID, user.Role)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	response.WriteJSON(w, status, UserOutput{OK: true, User: user})
}

func validateRegister(input *RegisterInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.NewValidationError("name is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return errors.NewValidationError("a valid email is required")
	}
	if len(input.Password) < 6 {
		return errors.NewValidationError("password must be at least 6 characters")
	}
	if !input.Role.Valid() {
		return errors.NewValidationError("role must be customer or worker")
	}
	return nil
}
