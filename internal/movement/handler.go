package movement

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tesoro-admin/tesoro/internal/catalog"
	"github.com/tesoro-admin/tesoro/internal/money"
	"github.com/tesoro-admin/tesoro/internal/platform/httpx"
)

// Handler exposes movement recording to the dashboard.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers movement endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/{ledger}", h.create)
	r.Patch("/spend/{id}", h.amend)
}

type createRequest struct {
	Amount    string `json:"amount" validate:"required"`
	Date      string `json:"date"`
	SubTypeID int64  `json:"subTypeId" validate:"required,gt=0"`
}

type movementResponse struct {
	ID        int64  `json:"id"`
	Amount    string `json:"amount"`
	Date      string `json:"date,omitempty"`
	SubTypeID int64  `json:"subTypeId"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ledger, err := catalog.ParseLedger(chi.URLParam(r, "ledger"))
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); len(fields) > 0 {
		httpx.FieldProblem(w, fields)
		return
	}
	created, err := h.service.Create(r.Context(), ledger, CreateInput{
		Amount:    req.Amount,
		Date:      req.Date,
		SubTypeID: req.SubTypeID,
	})
	if err != nil {
		h.logger.Error("create movement", slog.String("ledger", string(ledger)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toMovementResponse(created))
}

func (h *Handler) amend(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid movement id")
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.fieldErrors(req); len(fields) > 0 {
		httpx.FieldProblem(w, fields)
		return
	}
	updated, err := h.service.Amend(r.Context(), AmendInput{
		ID:        id,
		Amount:    req.Amount,
		Date:      req.Date,
		SubTypeID: req.SubTypeID,
	})
	if err != nil {
		h.logger.Error("amend movement", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toMovementResponse(updated))
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

func toMovementResponse(m Movement) movementResponse {
	return movementResponse{
		ID:        m.ID,
		Amount:    money.ToWire(m.Amount),
		Date:      m.Date,
		SubTypeID: m.SubTypeID,
	}
}
