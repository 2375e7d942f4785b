package employees

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nippo-cloud/nippo/internal/auth"
	"github.com/nippo-cloud/nippo/internal/platform/httpx"
	"github.com/nippo-cloud/nippo/internal/shared"
)

// Handler wires the employee directory endpoints. The whole surface is
// admin-only and guarded once at mount time.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authmw    auth.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authmw auth.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		authmw:    authmw,
		validator: validator.New(),
	}
}

// MountRoutes registers directory routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.authmw.RequireEmployeeManagement)
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListEmployeesRequest{}
	q := r.URL.Query()
	if role := q.Get("role"); role != "" {
		req.Role = &role
	}
	if active := q.Get("is_active"); active != "" {
		val := active == "true"
		req.IsActive = &val
	}
	if search := q.Get("search"); search != "" {
		req.Search = &search
	}
	req.Page, _ = strconv.Atoi(q.Get("page"))
	req.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	items, page, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list employees", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"employees":  items,
		"pagination": page,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "従業員IDが正しくありません")
		return
	}
	emp, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondEmployeeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, emp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "リクエストの形式が正しくありません")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	emp, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create employee", slog.Any("error", err))
		h.respondEmployeeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, emp)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "従業員IDが正しくありません")
		return
	}
	var req UpdateEmployeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "リクエストの形式が正しくありません")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	emp, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update employee", slog.Any("error", err), slog.Int64("id", id))
		h.respondEmployeeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, emp)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "従業員IDが正しくありません")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete employee", slog.Any("error", err), slog.Int64("id", id))
		h.respondEmployeeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) respondEmployeeError(w http.ResponseWriter, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "従業員が見つかりません")
		return
	}
	httpx.RespondError(w, err)
}
