package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func id(v int64) *int64 { return &v }

func TestDepartmentChangeResetsDescendants(t *testing.T) {
	sel := NewSelection(id(1), id(10), id(100))

	changed := sel.SetDepartment(id(2))

	assert.True(t, changed)
	assert.Equal(t, int64(2), *sel.DepartmentID)
	assert.Nil(t, sel.TypeID)
	assert.Nil(t, sel.SubTypeID)
}

func TestTypeChangeResetsSubTypeOnly(t *testing.T) {
	sel := NewSelection(id(1), id(10), id(100))

	changed := sel.SetType(id(11))

	assert.True(t, changed)
	assert.Equal(t, int64(1), *sel.DepartmentID)
	assert.Equal(t, int64(11), *sel.TypeID)
	assert.Nil(t, sel.SubTypeID)
}

func TestInitialPopulationDoesNotReset(t *testing.T) {
	// A screen opened with programmatic defaults keeps the whole prefilled
	// sub-tree.
	sel := NewSelection(id(1), id(10), id(100))

	assert.Equal(t, int64(10), *sel.TypeID)
	assert.Equal(t, int64(100), *sel.SubTypeID)
}

func TestReselectingSameValueIsNoOp(t *testing.T) {
	sel := NewSelection(id(1), id(10), id(100))

	assert.False(t, sel.SetDepartment(id(1)))
	assert.Equal(t, int64(10), *sel.TypeID)
	assert.Equal(t, int64(100), *sel.SubTypeID)

	assert.False(t, sel.SetType(id(10)))
	assert.Equal(t, int64(100), *sel.SubTypeID)
}

func TestClearingDepartmentResetsDescendants(t *testing.T) {
	sel := NewSelection(id(1), id(10), id(100))

	changed := sel.SetDepartment(nil)

	assert.True(t, changed)
	assert.Nil(t, sel.DepartmentID)
	assert.Nil(t, sel.TypeID)
	assert.Nil(t, sel.SubTypeID)
}
