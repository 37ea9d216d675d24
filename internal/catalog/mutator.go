package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tesoro-admin/tesoro/internal/platform/httpx"
	"github.com/tesoro-admin/tesoro/internal/platform/store"
)

// Mutator writes catalog entities to the budget store and keeps the
// repository caches honest: each successful write invalidates exactly the
// cached list whose dependency key matches the affected parent.
type Mutator struct {
	store *store.Client
	repo  *Repository
}

// NewMutator wires the store client with the repository whose caches it owns.
func NewMutator(client *store.Client, repo *Repository) *Mutator {
	return &Mutator{store: client, repo: repo}
}

// UpdateTypeInput amends a type's name and/or parent. PrevDepartmentID is the
// parent the edit screen opened with; when reparenting, both the old and new
// department's cached lists are invalidated.
type UpdateTypeInput struct {
	ID               int64
	Name             string
	DepartmentID     int64
	PrevDepartmentID int64
}

// UpdateSubTypeInput amends a sub-type's name and/or parent.
type UpdateSubTypeInput struct {
	ID         int64
	Name       string
	TypeID     int64
	PrevTypeID int64
}

// CreateDepartment creates a department and returns the stored entity so the
// caller can auto-select it.
func (m *Mutator) CreateDepartment(ctx context.Context, name string) (Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Department{}, fmt.Errorf("%w: department name is required", httpx.ErrValidation)
	}
	var created Department
	if err := m.store.Post(ctx, "/department", map[string]string{"name": name}, &created); err != nil {
		return Department{}, err
	}
	m.repo.InvalidateDepartments()
	return created, nil
}

// CreateType creates a type under a department for one ledger.
func (m *Mutator) CreateType(ctx context.Context, ledger Ledger, name string, departmentID int64) (Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Type{}, fmt.Errorf("%w: type name is required", httpx.ErrValidation)
	}
	if departmentID <= 0 {
		return Type{}, fmt.Errorf("%w: a department must be selected", httpx.ErrValidation)
	}
	payload := map[string]any{"name": name, "departmentId": departmentID}
	var created Type
	if err := m.store.Post(ctx, ledger.typePath(), payload, &created); err != nil {
		return Type{}, err
	}
	m.repo.InvalidateTypes(ledger, departmentID)
	return created, nil
}

// CreateSubType creates a sub-type under a type for one ledger.
func (m *Mutator) CreateSubType(ctx context.Context, ledger Ledger, name string, typeID int64) (SubType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SubType{}, fmt.Errorf("%w: sub-type name is required", httpx.ErrValidation)
	}
	if typeID <= 0 {
		return SubType{}, fmt.Errorf("%w: a type must be selected", httpx.ErrValidation)
	}
	payload := map[string]any{"name": name, "typeId": typeID}
	var created SubType
	if err := m.store.Post(ctx, ledger.subTypePath(), payload, &created); err != nil {
		return SubType{}, err
	}
	m.repo.InvalidateSubTypes(ledger, typeID)
	return created, nil
}

// UpdateType renames and/or reparents a type.
func (m *Mutator) UpdateType(ctx context.Context, ledger Ledger, in UpdateTypeInput) (Type, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.ID <= 0 {
		return Type{}, fmt.Errorf("%w: invalid type id", httpx.ErrValidation)
	}
	if in.Name == "" {
		return Type{}, fmt.Errorf("%w: type name is required", httpx.ErrValidation)
	}
	if in.DepartmentID <= 0 {
		return Type{}, fmt.Errorf("%w: a department must be selected", httpx.ErrValidation)
	}
	payload := map[string]any{"name": in.Name, "departmentId": in.DepartmentID}
	var updated Type
	path := ledger.typePath() + "/" + strconv.FormatInt(in.ID, 10)
	if err := m.store.Patch(ctx, path, payload, &updated); err != nil {
		return Type{}, err
	}
	m.repo.InvalidateTypes(ledger, in.DepartmentID)
	if in.PrevDepartmentID > 0 && in.PrevDepartmentID != in.DepartmentID {
		m.repo.InvalidateTypes(ledger, in.PrevDepartmentID)
	}
	return updated, nil
}

// UpdateSubType renames and/or reparents a sub-type.
func (m *Mutator) UpdateSubType(ctx context.Context, ledger Ledger, in UpdateSubTypeInput) (SubType, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.ID <= 0 {
		return SubType{}, fmt.Errorf("%w: invalid sub-type id", httpx.ErrValidation)
	}
	if in.Name == "" {
		return SubType{}, fmt.Errorf("%w: sub-type name is required", httpx.ErrValidation)
	}
	if in.TypeID <= 0 {
		return SubType{}, fmt.Errorf("%w: a type must be selected", httpx.ErrValidation)
	}
	payload := map[string]any{"name": in.Name, "typeId": in.TypeID}
	var updated SubType
	path := ledger.subTypePath() + "/" + strconv.FormatInt(in.ID, 10)
	if err := m.store.Patch(ctx, path, payload, &updated); err != nil {
		return SubType{}, err
	}
	m.repo.InvalidateSubTypes(ledger, in.TypeID)
	if in.PrevTypeID > 0 && in.PrevTypeID != in.TypeID {
		m.repo.InvalidateSubTypes(ledger, in.PrevTypeID)
	}
	return updated, nil
}
