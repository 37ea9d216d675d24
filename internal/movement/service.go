package movement

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tesoro-admin/tesoro/internal/catalog"
	"github.com/tesoro-admin/tesoro/internal/money"
	"github.com/tesoro-admin/tesoro/internal/platform/httpx"
	"github.com/tesoro-admin/tesoro/internal/platform/store"
	"github.com/tesoro-admin/tesoro/internal/report"
)

// Service records movements on the budget store. Amounts cross the wire as
// fixed 2-decimal strings; every successful write bumps the report cache so
// no report built before the write can be served again.
type Service struct {
	store  *store.Client
	cache  *report.Cache
	logger *slog.Logger
}

func NewService(client *store.Client, cache *report.Cache, logger *slog.Logger) *Service {
	return &Service{store: client, cache: cache, logger: logger}
}

// CreateInput carries a new movement. Date is required on the real ledgers
// and ignored on the projected one.
type CreateInput struct {
	Amount    string
	Date      string
	SubTypeID int64
}

// AmendInput updates an existing spend movement in place.
type AmendInput struct {
	ID        int64
	Amount    string
	Date      string
	SubTypeID int64
}

// Create records a movement on a ledger.
func (s *Service) Create(ctx context.Context, ledger catalog.Ledger, in CreateInput) (Movement, error) {
	amount, ok := money.ParseDecimalInput(in.Amount)
	if !ok || !amount.IsPositive() {
		return Movement{}, fmt.Errorf("%w: amount must be a positive number", httpx.ErrValidation)
	}
	if in.SubTypeID <= 0 {
		return Movement{}, fmt.Errorf("%w: a sub-type must be selected", httpx.ErrValidation)
	}

	payload := map[string]any{
		"amount":    money.ToWire(amount),
		"subTypeId": in.SubTypeID,
	}
	if ledger != catalog.LedgerPSpend {
		date, err := validDate(in.Date)
		if err != nil {
			return Movement{}, err
		}
		payload["date"] = date
	}

	var created movementWire
	if err := s.store.Post(ctx, "/"+string(ledger), payload, &created); err != nil {
		return Movement{}, err
	}
	s.bump(ctx)
	return created.toDomain(), nil
}

// Amend updates the amount, date and sub-type of an existing spend. Only the
// spend ledger supports amendment on the store.
func (s *Service) Amend(ctx context.Context, in AmendInput) (Movement, error) {
	if in.ID <= 0 {
		return Movement{}, fmt.Errorf("%w: invalid movement id", httpx.ErrValidation)
	}
	amount, ok := money.ParseDecimalInput(in.Amount)
	if !ok || !amount.IsPositive() {
		return Movement{}, fmt.Errorf("%w: amount must be a positive number", httpx.ErrValidation)
	}
	if in.SubTypeID <= 0 {
		return Movement{}, fmt.Errorf("%w: a sub-type must be selected", httpx.ErrValidation)
	}
	date, err := validDate(in.Date)
	if err != nil {
		return Movement{}, err
	}

	payload := map[string]any{
		"amount":    money.ToWire(amount),
		"date":      date,
		"subTypeId": in.SubTypeID,
	}
	var updated movementWire
	path := "/spend/" + strconv.FormatInt(in.ID, 10)
	if err := s.store.Patch(ctx, path, payload, &updated); err != nil {
		return Movement{}, err
	}
	s.bump(ctx)
	return updated.toDomain(), nil
}

func (s *Service) bump(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		// Stale reports expire on their own TTL; a failed bump is not fatal.
		s.logger.Warn("report cache bump failed", slog.Any("error", err))
	}
}

func validDate(raw string) (string, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", httpx.ErrValidation)
	}
	return t.Format("2006-01-02"), nil
}
