package movement

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesoro-admin/tesoro/internal/catalog"
	"github.com/tesoro-admin/tesoro/internal/platform/httpx"
	"github.com/tesoro-admin/tesoro/internal/platform/store"
	"github.com/tesoro-admin/tesoro/internal/report"
)

type recordedRequest struct {
	method string
	path   string
	body   map[string]any
}

func newTestService(t *testing.T) (*Service, *[]recordedRequest, *report.Cache) {
	t.Helper()

	var mu sync.Mutex
	requests := &[]recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		*requests = append(*requests, recordedRequest{method: r.Method, path: r.URL.Path, body: body})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{"id": 42, "subTypeId": body["subTypeId"], "amount": body["amount"]}
		if date, ok := body["date"]; ok {
			resp["date"] = date
		}
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	cache := report.NewCache(redisClient, time.Minute)

	client := store.NewClient(srv.URL, time.Second)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(client, cache, logger), requests, cache
}

func TestCreateSerializesAmountWithTwoDecimals(t *testing.T) {
	svc, requests, _ := newTestService(t)

	created, err := svc.Create(context.Background(), catalog.LedgerIncome, CreateInput{
		Amount:    "1900",
		Date:      "2026-05-02",
		SubTypeID: 700,
	})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "POST", req.method)
	assert.Equal(t, "/income", req.path)
	assert.Equal(t, "1900.00", req.body["amount"])
	assert.Equal(t, "2026-05-02", req.body["date"])

	// Reloading the echoed wire amount recovers the numeric value.
	assert.Equal(t, "1900", created.Amount.String())
}

func TestProjectedSpendHasNoDate(t *testing.T) {
	svc, requests, _ := newTestService(t)

	_, err := svc.Create(context.Background(), catalog.LedgerPSpend, CreateInput{
		Amount:    "250,75",
		SubTypeID: 700,
	})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/p-spend", req.path)
	assert.Equal(t, "250.75", req.body["amount"])
	_, hasDate := req.body["date"]
	assert.False(t, hasDate)
}

func TestCreateValidation(t *testing.T) {
	svc, requests, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, catalog.LedgerIncome, CreateInput{Amount: "-5", Date: "2026-05-02", SubTypeID: 700})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, catalog.LedgerIncome, CreateInput{Amount: "10", Date: "2026-05-02", SubTypeID: 0})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, catalog.LedgerIncome, CreateInput{Amount: "10", Date: "02/05/2026", SubTypeID: 700})
	require.ErrorIs(t, err, httpx.ErrValidation)

	assert.Empty(t, *requests)
}

func TestAmendPatchesSpend(t *testing.T) {
	svc, requests, _ := newTestService(t)

	updated, err := svc.Amend(context.Background(), AmendInput{
		ID:        42,
		Amount:    "99.9",
		Date:      "2026-06-01",
		SubTypeID: 701,
	})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "PATCH", req.method)
	assert.Equal(t, "/spend/42", req.path)
	assert.Equal(t, "99.90", req.body["amount"])
	assert.Equal(t, int64(42), updated.ID)
}

func TestSuccessfulWriteBumpsReportCache(t *testing.T) {
	svc, _, cache := newTestService(t)
	ctx := context.Background()

	before, err := cache.Version(ctx)
	require.NoError(t, err)

	_, err = svc.Create(ctx, catalog.LedgerSpend, CreateInput{
		Amount:    "10",
		Date:      "2026-05-02",
		SubTypeID: 700,
	})
	require.NoError(t, err)

	after, err := cache.Version(ctx)
	require.NoError(t, err)
	assert.Greater(t, after, before)
}
