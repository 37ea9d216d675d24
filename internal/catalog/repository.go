package catalog

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/tesoro-admin/tesoro/internal/platform/keyed"
	"github.com/tesoro-admin/tesoro/internal/platform/store"
)

// Repository serves catalog reads from the budget store through a
// dependency-keyed cache. A child list is never fetched while its parent
// selection is absent; callers get an empty slice instead.
type Repository struct {
	store       *store.Client
	departments *keyed.Cache[[]Department]
	types       *keyed.Cache[[]Type]
	subTypes    *keyed.Cache[[]SubType]
}

// NewRepository wires the store client with per-entity caches sharing one
// staleness window. Catalogs change rarely relative to movements.
func NewRepository(client *store.Client, ttl time.Duration) *Repository {
	return &Repository{
		store:       client,
		departments: keyed.New[[]Department](ttl),
		types:       keyed.New[[]Type](ttl),
		subTypes:    keyed.New[[]SubType](ttl),
	}
}

const departmentsKey = "department:all"

// ListDepartments returns all departments, shared across ledgers.
func (r *Repository) ListDepartments(ctx context.Context) ([]Department, error) {
	out, err := r.departments.GetOrFetch(ctx, departmentsKey, func(ctx context.Context) ([]Department, error) {
		var out []Department
		if err := r.store.Get(ctx, "/department", nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	// Cloned so a caller mutating its slice cannot corrupt the cache entry.
	return slices.Clone(out), err
}

// ListTypes returns the types under a department for one ledger. A nil
// department resolves to an empty set without touching the store.
func (r *Repository) ListTypes(ctx context.Context, ledger Ledger, departmentID *int64) ([]Type, error) {
	if departmentID == nil {
		return nil, nil
	}
	key := typeKey(ledger, *departmentID)
	out, err := r.types.GetOrFetch(ctx, key, func(ctx context.Context) ([]Type, error) {
		query := url.Values{"departmentId": {strconv.FormatInt(*departmentID, 10)}}
		var out []Type
		if err := r.store.Get(ctx, ledger.typePath(), query, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	return slices.Clone(out), err
}

// ListSubTypes returns the sub-types under a type for one ledger. A nil type
// resolves to an empty set without touching the store.
func (r *Repository) ListSubTypes(ctx context.Context, ledger Ledger, typeID *int64) ([]SubType, error) {
	if typeID == nil {
		return nil, nil
	}
	key := subTypeKey(ledger, *typeID)
	out, err := r.subTypes.GetOrFetch(ctx, key, func(ctx context.Context) ([]SubType, error) {
		query := url.Values{"typeId": {strconv.FormatInt(*typeID, 10)}}
		var out []SubType
		if err := r.store.Get(ctx, ledger.subTypePath(), query, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	return slices.Clone(out), err
}

// InvalidateDepartments drops the cached department list.
func (r *Repository) InvalidateDepartments() {
	r.departments.Invalidate(departmentsKey)
}

// InvalidateTypes drops the cached type list of exactly one department.
func (r *Repository) InvalidateTypes(ledger Ledger, departmentID int64) {
	r.types.Invalidate(typeKey(ledger, departmentID))
}

// InvalidateSubTypes drops the cached sub-type list of exactly one type.
func (r *Repository) InvalidateSubTypes(ledger Ledger, typeID int64) {
	r.subTypes.Invalidate(subTypeKey(ledger, typeID))
}

// cachedTypes reports whether the type list for a department is currently
// cached. Test hook for the invalidation contract.
func (r *Repository) cachedTypes(ledger Ledger, departmentID int64) ([]Type, bool) {
	return r.types.Peek(typeKey(ledger, departmentID))
}

func typeKey(ledger Ledger, departmentID int64) string {
	return fmt.Sprintf("%s:type:%s", ledger, parentKey(&departmentID))
}

func subTypeKey(ledger Ledger, typeID int64) string {
	return fmt.Sprintf("%s:sub-type:%s", ledger, parentKey(&typeID))
}

// parentKey renders the dependency portion of a cache key; an absent parent
// maps to "none" so unfiltered and filtered reads can never collide.
func parentKey(id *int64) string {
	if id == nil {
		return "none"
	}
	return strconv.FormatInt(*id, 10)
}
