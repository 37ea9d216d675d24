package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tesoro-admin/tesoro/internal/platform/httpx"
)

// Handler exposes the catalog hierarchy to the dashboard.
type Handler struct {
	logger   *slog.Logger
	repo     *Repository
	mutator  *Mutator
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, repo *Repository, mutator *Mutator) *Handler {
	return &Handler{logger: logger, repo: repo, mutator: mutator, validate: validator.New()}
}

// MountRoutes registers catalog endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/departments", h.listDepartments)
	r.Post("/departments", h.createDepartment)
	r.Route("/{ledger}", func(r chi.Router) {
		r.Get("/types", h.listTypes)
		r.Post("/types", h.createType)
		r.Patch("/types/{id}", h.updateType)
		r.Get("/sub-types", h.listSubTypes)
		r.Post("/sub-types", h.createSubType)
		r.Patch("/sub-types/{id}", h.updateSubType)
	})
}

type createDepartmentRequest struct {
	Name string `json:"name" validate:"required"`
}

type createTypeRequest struct {
	Name         string `json:"name" validate:"required"`
	DepartmentID int64  `json:"departmentId" validate:"required,gt=0"`
}

type updateTypeRequest struct {
	Name             string `json:"name" validate:"required"`
	DepartmentID     int64  `json:"departmentId" validate:"required,gt=0"`
	PrevDepartmentID int64  `json:"prevDepartmentId"`
}

type createSubTypeRequest struct {
	Name   string `json:"name" validate:"required"`
	TypeID int64  `json:"typeId" validate:"required,gt=0"`
}

type updateSubTypeRequest struct {
	Name       string `json:"name" validate:"required"`
	TypeID     int64  `json:"typeId" validate:"required,gt=0"`
	PrevTypeID int64  `json:"prevTypeId"`
}

func (h *Handler) listDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.repo.ListDepartments(r.Context())
	if err != nil {
		h.logger.Error("list departments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, departments)
}

func (h *Handler) createDepartment(w http.ResponseWriter, r *http.Request) {
	var req createDepartmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); len(fields) > 0 {
		httpx.FieldProblem(w, fields)
		return
	}
	created, err := h.mutator.CreateDepartment(r.Context(), req.Name)
	if err != nil {
		h.logger.Error("create department", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listTypes(w http.ResponseWriter, r *http.Request) {
	ledger, ok := h.ledger(w, r)
	if !ok {
		return
	}
	types, err := h.repo.ListTypes(r.Context(), ledger, queryID(r, "departmentId"))
	if err != nil {
		h.logger.Error("list types", slog.String("ledger", string(ledger)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if types == nil {
		types = []Type{}
	}
	httpx.JSON(w, http.StatusOK, types)
}

func (h *Handler) createType(w http.ResponseWriter, r *http.Request) {
	ledger, ok := h.ledger(w, r)
	if !ok {
		return
	}
	var req createTypeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); len(fields) > 0 {
		httpx.FieldProblem(w, fields)
		return
	}
	created, err := h.mutator.CreateType(r.Context(), ledger, req.Name, req.DepartmentID)
	if err != nil {
		h.logger.Error("create type", slog.String("ledger", string(ledger)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) updateType(w http.ResponseWriter, r *http.Request) {
	ledger, ok := h.ledger(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid type id")
		return
	}
	var req updateTypeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); len(fields) > 0 {
		httpx.FieldProblem(w, fields)
		return
	}
	updated, err := h.mutator.UpdateType(r.Context(), ledger, UpdateTypeInput{
		ID:               id,
		Name:             req.Name,
		DepartmentID:     req.DepartmentID,
		PrevDepartmentID: req.PrevDepartmentID,
	})
	if err != nil {
		h.logger.Error("update type", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) listSubTypes(w http.ResponseWriter, r *http.Request) {
	ledger, ok := h.ledger(w, r)
	if !ok {
		return
	}
	subTypes, err := h.repo.ListSubTypes(r.Context(), ledger, queryID(r, "typeId"))
	if err != nil {
		h.logger.Error("list sub-types", slog.String("ledger", string(ledger)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if subTypes == nil {
		subTypes = []SubType{}
	}
	httpx.JSON(w, http.StatusOK, subTypes)
}

func (h *Handler) createSubType(w http.ResponseWriter, r *http.Request) {
	ledger, ok := h.ledger(w, r)
	if !ok {
		return
	}
	var req createSubTypeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); len(fields) > 0 {
		httpx.FieldProblem(w, fields)
		return
	}
	created, err := h.mutator.CreateSubType(r.Context(), ledger, req.Name, req.TypeID)
	if err != nil {
		h.logger.Error("create sub-type", slog.String("ledger", string(ledger)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) updateSubType(w http.ResponseWriter, r *http.Request) {
	ledger, ok := h.ledger(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid sub-type id")
		return
	}
	var req updateSubTypeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); len(fields) > 0 {
		httpx.FieldProblem(w, fields)
		return
	}
	updated, err := h.mutator.UpdateSubType(r.Context(), ledger, UpdateSubTypeInput{
		ID:         id,
		Name:       req.Name,
		TypeID:     req.TypeID,
		PrevTypeID: req.PrevTypeID,
	})
	if err != nil {
		h.logger.Error("update sub-type", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) (Ledger, bool) {
	ledger, err := ParseLedger(chi.URLParam(r, "ledger"))
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		return "", false
	}
	return ledger, true
}

func (h *Handler) fieldErrors(payload any) map[string]string {
	err := h.validate.Struct(payload)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		fields[fieldErr.Field()] = fieldErr.Error()
	}
	return fields
}

// queryID parses an optional positive-integer query parameter; absence or
// garbage both read as "no parent selected".
func queryID(r *http.Request, name string) *int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
