package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogList = []Named{
	{ID: 1, Name: "Finanzas"},
	{ID: 2, Name: "Operaciones"},
	{ID: 3, Name: "Educación"},
}

func TestExactMatchIsCaseInsensitive(t *testing.T) {
	got := Resolve("finanzas", catalogList)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), *got)
}

func TestSubstringFallback(t *testing.T) {
	got := Resolve("finan", catalogList)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), *got)
}

func TestNoMatchResolvesToNil(t *testing.T) {
	assert.Nil(t, Resolve("marketing", catalogList))
}

func TestEmptyInputResolvesToNil(t *testing.T) {
	assert.Nil(t, Resolve("", catalogList))
	assert.Nil(t, Resolve("   ", catalogList))
}

func TestDiacriticsAreIgnored(t *testing.T) {
	got := Resolve("educacion", catalogList)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), *got)

	got = Resolve("EDUCACIÓN", catalogList)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), *got)
}

func TestExactMatchBeatsEarlierSubstring(t *testing.T) {
	list := []Named{
		{ID: 1, Name: "Cuotas extraordinarias"},
		{ID: 2, Name: "Cuotas"},
	}
	got := Resolve("cuotas", list)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), *got)
}

func TestFirstSubstringMatchWinsInListOrder(t *testing.T) {
	list := []Named{
		{ID: 1, Name: "Cuotas anuales"},
		{ID: 2, Name: "Cuotas mensuales"},
	}
	got := Resolve("cuotas", list)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), *got)
}
