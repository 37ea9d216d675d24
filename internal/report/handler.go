package report

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tesoro-admin/tesoro/internal/catalog"
	"github.com/tesoro-admin/tesoro/internal/money"
	"github.com/tesoro-admin/tesoro/internal/platform/httpx"
)

// Handler exposes ledger reports to the dashboard.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers report endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{ledger}", h.show)
}

type rowResponse struct {
	Department string `json:"department"`
	Type       string `json:"type"`
	SubType    string `json:"subType"`
	Date       string `json:"date"`
	Amount     string `json:"amount"`
}

type dimensionResponse struct {
	Name  string `json:"name"`
	Total string `json:"total"`
}

type reportResponse struct {
	Rows   []rowResponse `json:"rows"`
	Totals struct {
		Total        string              `json:"total"`
		ByDepartment []dimensionResponse `json:"byDepartment"`
		ByType       []dimensionResponse `json:"byType"`
	} `json:"totals"`
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	ledger, err := catalog.ParseLedger(chi.URLParam(r, "ledger"))
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}

	q := r.URL.Query()
	filters := Filters{
		Start:          q.Get("start"),
		End:            q.Get("end"),
		DepartmentName: q.Get("department"),
		TypeName:       q.Get("type"),
		SubTypeName:    q.Get("subType"),
	}

	report, err := h.service.GetReport(r.Context(), ledger, filters)
	if err != nil {
		h.logger.Error("build report", slog.String("ledger", string(ledger)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(report))
}

func toResponse(report *Report) reportResponse {
	var resp reportResponse
	resp.Rows = make([]rowResponse, 0, len(report.Rows))
	for _, row := range report.Rows {
		resp.Rows = append(resp.Rows, rowResponse{
			Department: row.Department,
			Type:       row.Type,
			SubType:    row.SubType,
			Date:       row.Date,
			Amount:     money.ToWire(row.Amount),
		})
	}
	resp.Totals.Total = money.ToWire(report.Totals.Total)
	resp.Totals.ByDepartment = dims(report.Totals.ByDepartment)
	resp.Totals.ByType = dims(report.Totals.ByType)
	return resp
}

func dims(totals []DimensionTotal) []dimensionResponse {
	out := make([]dimensionResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, dimensionResponse{Name: t.Name, Total: money.ToWire(t.Total)})
	}
	return out
}
