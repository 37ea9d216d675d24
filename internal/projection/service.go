package projection

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tesoro-admin/tesoro/internal/money"
	"github.com/tesoro-admin/tesoro/internal/observability"
	"github.com/tesoro-admin/tesoro/internal/platform/store"
)

// Service keeps yearly projection totals converged with the sum of their
// category amounts. Drift is corrected by writing the computed total back to
// the store, once per drifted load or edit, never when the values already
// match.
type Service struct {
	store   *store.Client
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService wires the store client. metrics may be nil.
func NewService(client *store.Client, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{store: client, logger: logger, metrics: metrics}
}

// LoadYear resolves the projection for a fiscal year, creating it when it
// does not exist yet, loads its category lines and reconciles the total.
func (s *Service) LoadYear(ctx context.Context, year int) (*View, error) {
	proj, err := s.resolve(ctx, year)
	if err != nil {
		return nil, err
	}

	lines, err := s.loadLines(ctx, proj.ID)
	if err != nil {
		return nil, err
	}

	view := &View{Projection: proj, Lines: lines}
	if err := s.reconcile(ctx, view); err != nil {
		return view, err
	}
	return view, nil
}

// SetCategoryAmount parses the user's input (digits only, blank reads as 0),
// writes the amount for one (projection, category) pair and re-reconciles the
// total. A failed write leaves the line at its prior value.
func (s *Service) SetCategoryAmount(ctx context.Context, view *View, categoryID int64, raw string) error {
	line := view.line(categoryID)
	if line == nil {
		return fmt.Errorf("projection: unknown category %d", categoryID)
	}

	amount := money.ParseUserAmount(raw)
	path := fmt.Sprintf("/projection/%d/category/%d/amount", view.Projection.ID, categoryID)
	payload := map[string]string{"amount": money.ToWire(amount)}
	if err := s.store.Patch(ctx, path, payload, nil); err != nil {
		return err
	}

	line.Amount = &amount
	return s.reconcile(ctx, view)
}

// reconcile recomputes the authoritative total and, only on divergence,
// patches the remote record and adopts the server's answer. The in-memory
// total always ends up at the computed value, even when the corrective write
// fails and the remote record stays stale until the next attempt.
func (s *Service) reconcile(ctx context.Context, view *View) error {
	total := decimal.Zero
	for _, line := range view.Lines {
		if line.Amount != nil {
			total = total.Add(*line.Amount)
		}
	}
	view.Total = total

	if total.Equal(view.Projection.Total) {
		return nil
	}

	s.logger.Info("projection total drifted",
		slog.Int("year", view.Projection.Year),
		slog.String("stored", money.ToWire(view.Projection.Total)),
		slog.String("computed", money.ToWire(total)),
	)

	path := "/projection/" + strconv.FormatInt(view.Projection.ID, 10)
	payload := map[string]string{"total_amount": money.ToWire(total)}
	var updated projectionWire
	if err := s.store.Patch(ctx, path, payload, &updated); err != nil {
		return fmt.Errorf("could not synchronize projection total: %w", err)
	}
	s.metrics.ObserveReconcileWrite()
	view.Projection = updated.toDomain()
	return nil
}

// resolve finds the year's projection or lazily creates it. At most one
// projection per year is a store-enforced invariant.
func (s *Service) resolve(ctx context.Context, year int) (Projection, error) {
	var all []projectionWire
	if err := s.store.Get(ctx, "/projection", nil, &all); err != nil {
		return Projection{}, err
	}
	for _, p := range all {
		if p.Year == year {
			return p.toDomain(), nil
		}
	}

	var created projectionWire
	if err := s.store.Post(ctx, "/projection", map[string]int{"year": year}, &created); err != nil {
		return Projection{}, err
	}
	return created.toDomain(), nil
}

func (s *Service) loadLines(ctx context.Context, projectionID int64) ([]CategoryLine, error) {
	query := url.Values{"projectionId": {strconv.FormatInt(projectionID, 10)}}
	var wires []categoryWire
	if err := s.store.Get(ctx, "/category", query, &wires); err != nil {
		return nil, err
	}
	lines := make([]CategoryLine, 0, len(wires))
	for _, w := range wires {
		lines = append(lines, w.toDomain())
	}
	return lines, nil
}

func (v *View) line(categoryID int64) *CategoryLine {
	for i := range v.Lines {
		if v.Lines[i].CategoryID == categoryID {
			return &v.Lines[i]
		}
	}
	return nil
}
