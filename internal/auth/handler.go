package auth

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nippo-cloud/nippo/internal/authz"
	"github.com/nippo-cloud/nippo/internal/platform/httpx"
	"github.com/nippo-cloud/nippo/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		csrfManager:    csrf,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/session", h.showSession)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type actorResponse struct {
	EmployeeID int64  `json:"employee_id"`
	Role       string `json:"role"`
	ManagerID  *int64 `json:"manager_id,omitempty"`
}

type sessionResponse struct {
	Actor     *actorResponse `json:"actor"`
	CSRFToken string         `json:"csrf_token"`
}

func toActorResponse(actor *authz.Actor) *actorResponse {
	if actor == nil {
		return nil
	}
	return &actorResponse{
		EmployeeID: actor.EmployeeID,
		Role:       string(actor.Role),
		ManagerID:  actor.ManagerID,
	}
}

// showSession returns the current actor plus the CSRF token clients
// must echo on mutating requests. Available to anonymous sessions so
// login itself can pass the CSRF check.
func (h *Handler) showSession(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, err := h.csrfManager.EnsureToken(r.Context(), sess)
	if err != nil {
		h.logger.Error("ensure csrf token", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "内部エラーが発生しました")
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{
		Actor:     toActorResponse(shared.ActorFromContext(r.Context())),
		CSRFToken: csrfToken,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "リクエストの形式が正しくありません")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	account, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "内部エラーが発生しました")
		return
	}
	sess.SetUser(strconv.FormatInt(account.ID, 10))

	expiresAt := time.Now().Add(h.sessionManager.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, account.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}

	role, err := authz.ParseRole(account.Role)
	if err != nil {
		h.logger.Error("parse role after login", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "内部エラーが発生しました")
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{
		Actor: toActorResponse(&authz.Actor{EmployeeID: account.ID, Role: role, ManagerID: account.ManagerID}),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
		h.sessionManager.Destroy(sess)
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
