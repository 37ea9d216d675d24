package projection

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tesoro-admin/tesoro/internal/money"
	"github.com/tesoro-admin/tesoro/internal/platform/httpx"
)

// Handler exposes yearly projections to the dashboard.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers projection endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{year}", h.show)
	r.Put("/{year}/categories/{categoryID}", h.setCategoryAmount)
}

type viewResponse struct {
	ID         int64          `json:"id"`
	Year       int            `json:"year"`
	State      string         `json:"state"`
	Total      string         `json:"total"`
	Categories []lineResponse `json:"categories"`
}

type lineResponse struct {
	CategoryID int64   `json:"categoryId"`
	Name       string  `json:"name"`
	Amount     *string `json:"amount"`
}

type setAmountRequest struct {
	Amount string `json:"amount"`
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	year, ok := h.year(w, r)
	if !ok {
		return
	}
	view, err := h.service.LoadYear(r.Context(), year)
	if err != nil && view == nil {
		h.logger.Error("load projection", slog.Int("year", year), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if err != nil {
		// Reconciliation write failed; the computed total is still correct
		// locally, so the view is served and the sync failure logged once.
		h.logger.Warn("projection sync failed", slog.Int("year", year), slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, toResponse(view))
}

func (h *Handler) setCategoryAmount(w http.ResponseWriter, r *http.Request) {
	year, ok := h.year(w, r)
	if !ok {
		return
	}
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil || categoryID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid category id")
		return
	}
	var req setAmountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}

	view, err := h.service.LoadYear(r.Context(), year)
	if err != nil && view == nil {
		h.logger.Error("load projection", slog.Int("year", year), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.SetCategoryAmount(r.Context(), view, categoryID, req.Amount); err != nil {
		h.logger.Error("set category amount",
			slog.Int("year", year), slog.Int64("category_id", categoryID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(view))
}

func (h *Handler) year(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 9999 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid year")
		return 0, false
	}
	return year, true
}

func toResponse(view *View) viewResponse {
	resp := viewResponse{
		ID:         view.Projection.ID,
		Year:       view.Projection.Year,
		State:      view.Projection.State,
		Total:      money.ToWire(view.Total),
		Categories: make([]lineResponse, 0, len(view.Lines)),
	}
	for _, line := range view.Lines {
		lr := lineResponse{CategoryID: line.CategoryID, Name: line.Name}
		if line.Amount != nil {
			wire := money.ToWire(*line.Amount)
			lr.Amount = &wire
		}
		resp.Categories = append(resp.Categories, lr)
	}
	return resp
}
