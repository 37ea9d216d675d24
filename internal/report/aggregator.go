package report

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tesoro-admin/tesoro/internal/catalog"
	"github.com/tesoro-admin/tesoro/internal/platform/httpx"
	"github.com/tesoro-admin/tesoro/internal/platform/store"
)

// Service builds ledger reports: it resolves free-text filter names to ids
// through the catalog, fetches rows and aggregates from the store and derives
// any aggregate the store omitted or zeroed.
type Service struct {
	store   *store.Client
	catalog *catalog.Repository
	cache   *Cache
	logger  *slog.Logger
}

func NewService(client *store.Client, repo *catalog.Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{store: client, catalog: repo, cache: cache, logger: logger}
}

// GetReport answers one report request. Only the real ledgers have a report
// endpoint on the store.
func (s *Service) GetReport(ctx context.Context, ledger catalog.Ledger, f Filters) (*Report, error) {
	if ledger != catalog.LedgerIncome && ledger != catalog.LedgerSpend {
		return nil, fmt.Errorf("%w: no report for ledger %q", httpx.ErrValidation, ledger)
	}

	departmentID, typeID, subTypeID, err := s.resolveFilters(ctx, ledger, f)
	if err != nil {
		return nil, err
	}

	key, err := s.cache.BuildKey(ctx,
		"report", string(ledger), f.Start, f.End,
		idToken(departmentID), idToken(typeID), idToken(subTypeID))
	if err != nil {
		return nil, err
	}

	var report Report
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (any, error) {
		return s.fetch(ctx, ledger, f, departmentID, typeID, subTypeID)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// resolveFilters turns names into ids, each level scoped to its resolved
// parent. An unresolved level drops itself and every descendant; there is no
// forced fallback to "all".
func (s *Service) resolveFilters(ctx context.Context, ledger catalog.Ledger, f Filters) (departmentID, typeID, subTypeID *int64, err error) {
	if f.DepartmentName == "" {
		return nil, nil, nil, nil
	}
	departments, err := s.catalog.ListDepartments(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	departmentID = Resolve(f.DepartmentName, departmentNames(departments))
	if departmentID == nil || f.TypeName == "" {
		return departmentID, nil, nil, nil
	}

	types, err := s.catalog.ListTypes(ctx, ledger, departmentID)
	if err != nil {
		return departmentID, nil, nil, err
	}
	typeID = Resolve(f.TypeName, typeNames(types))
	if typeID == nil || f.SubTypeName == "" {
		return departmentID, typeID, nil, nil
	}

	subTypes, err := s.catalog.ListSubTypes(ctx, ledger, typeID)
	if err != nil {
		return departmentID, typeID, nil, err
	}
	subTypeID = Resolve(f.SubTypeName, subTypeNames(subTypes))
	return departmentID, typeID, subTypeID, nil
}

func (s *Service) fetch(ctx context.Context, ledger catalog.Ledger, f Filters, departmentID, typeID, subTypeID *int64) (*Report, error) {
	query := url.Values{}
	if f.Start != "" {
		query.Set("start", f.Start)
	}
	if f.End != "" {
		query.Set("end", f.End)
	}
	setID(query, "departmentId", departmentID)
	setID(query, "typeId", typeID)
	setID(query, "subTypeId", subTypeID)

	var wire reportWire
	if err := s.store.Get(ctx, "/report/"+string(ledger)+"/full", query, &wire); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(wire.Rows))
	for _, rw := range wire.Rows {
		rows = append(rows, rw.normalize())
	}

	return &Report{Rows: rows, Totals: summarize(rows, wire.Totals)}, nil
}

// summarize trusts the store's aggregates only when usable: a positive total,
// non-empty groupings. Anything missing or zero is derived from the rows, so
// a non-zero report can never display a zero total just because the store
// omitted it.
func summarize(rows []Row, wire totalsWire) Summary {
	summary := Summary{
		Total:        coerceAmount(wire.Total),
		ByDepartment: backendDims(wire.ByDepartment, func(d dimWire) string { return displayName(d.Department) }),
		ByType:       backendDims(wire.ByType, func(d dimWire) string { return displayName(d.Type) }),
	}

	if !summary.Total.IsPositive() {
		summary.Total = sumRows(rows)
	}
	if len(summary.ByDepartment) == 0 {
		summary.ByDepartment = groupRows(rows, func(r Row) string { return r.Department })
	}
	if len(summary.ByType) == 0 {
		summary.ByType = groupRows(rows, func(r Row) string { return r.Type })
	}
	return summary
}

func backendDims(dims []dimWire, name func(dimWire) string) []DimensionTotal {
	if len(dims) == 0 {
		return nil
	}
	out := make([]DimensionTotal, 0, len(dims))
	for _, d := range dims {
		out = append(out, DimensionTotal{Name: name(d), Total: coerceAmount(d.Total)})
	}
	return out
}

func sumRows(rows []Row) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total
}

// groupRows derives dimension totals in first-seen order. Rows missing the
// dimension group under an em dash placeholder.
func groupRows(rows []Row, dimension func(Row) string) []DimensionTotal {
	totals := make([]DimensionTotal, 0)
	index := make(map[string]int)
	for _, r := range rows {
		name := dimension(r)
		if name == "" {
			name = "—"
		}
		i, ok := index[name]
		if !ok {
			index[name] = len(totals)
			totals = append(totals, DimensionTotal{Name: name})
			i = index[name]
		}
		totals[i].Total = totals[i].Total.Add(r.Amount)
	}
	return totals
}

func departmentNames(list []catalog.Department) []Named {
	out := make([]Named, 0, len(list))
	for _, d := range list {
		out = append(out, Named{ID: d.ID, Name: d.Name})
	}
	return out
}

func typeNames(list []catalog.Type) []Named {
	out := make([]Named, 0, len(list))
	for _, t := range list {
		out = append(out, Named{ID: t.ID, Name: t.Name})
	}
	return out
}

func subTypeNames(list []catalog.SubType) []Named {
	out := make([]Named, 0, len(list))
	for _, st := range list {
		out = append(out, Named{ID: st.ID, Name: st.Name})
	}
	return out
}

func idToken(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

func setID(query url.Values, name string, id *int64) {
	if id != nil {
		query.Set(name, strconv.FormatInt(*id, 10))
	}
}
