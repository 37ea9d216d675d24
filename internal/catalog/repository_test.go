package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesoro-admin/tesoro/internal/platform/store"
)

// fakeStore is an in-memory budget store behind httptest, counting hits per
// path+query so tests can assert which reads actually went to the wire.
type fakeStore struct {
	mu     sync.Mutex
	hits   map[string]int
	server *httptest.Server

	typesByDept map[string][]Type
}

func newFakeStore(t *testing.T) *fakeStore {
	t.Helper()
	fs := &fakeStore{
		hits: make(map[string]int),
		typesByDept: map[string][]Type{
			"7": {{ID: 70, Name: "Cuotas", DepartmentID: 7}},
			"8": {{ID: 80, Name: "Eventos", DepartmentID: 8}},
		},
	}
	fs.server = httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(fs.server.Close)
	return fs
}

func (fs *fakeStore) handle(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	key := r.Method + " " + r.URL.Path
	if q := r.URL.RawQuery; q != "" {
		key += "?" + q
	}
	fs.hits[key]++
	fs.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/department":
		_ = json.NewEncoder(w).Encode([]Department{{ID: 7, Name: "Finanzas"}, {ID: 8, Name: "Social"}})
	case r.Method == http.MethodGet && r.URL.Path == "/income-type":
		_ = json.NewEncoder(w).Encode(fs.typesByDept[r.URL.Query().Get("departmentId")])
	case r.Method == http.MethodGet && r.URL.Path == "/income-sub-type":
		_ = json.NewEncoder(w).Encode([]SubType{{ID: 700, Name: "Anual", TypeID: 70}})
	case r.Method == http.MethodPost && r.URL.Path == "/income-type":
		var in struct {
			Name         string `json:"name"`
			DepartmentID int64  `json:"departmentId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Type{ID: 99, Name: in.Name, DepartmentID: in.DepartmentID})
	case r.Method == http.MethodPatch && r.URL.Path == "/income-type/70":
		var in struct {
			Name         string `json:"name"`
			DepartmentID int64  `json:"departmentId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(Type{ID: 70, Name: in.Name, DepartmentID: in.DepartmentID})
	default:
		http.NotFound(w, r)
	}
}

func (fs *fakeStore) count(key string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[key]
}

func newTestRepo(t *testing.T) (*Repository, *fakeStore) {
	t.Helper()
	fs := newFakeStore(t)
	client := store.NewClient(fs.server.URL, time.Second)
	return NewRepository(client, time.Minute), fs
}

func TestChildReadGatedOnParent(t *testing.T) {
	repo, fs := newTestRepo(t)
	ctx := context.Background()

	types, err := repo.ListTypes(ctx, LedgerIncome, nil)
	require.NoError(t, err)
	assert.Empty(t, types)

	subTypes, err := repo.ListSubTypes(ctx, LedgerIncome, nil)
	require.NoError(t, err)
	assert.Empty(t, subTypes)

	// Nothing may have reached the wire.
	assert.Empty(t, fs.hits)
}

func TestReadsCachedPerDependencyKey(t *testing.T) {
	repo, fs := newTestRepo(t)
	ctx := context.Background()

	for range 3 {
		types, err := repo.ListTypes(ctx, LedgerIncome, id(7))
		require.NoError(t, err)
		require.Len(t, types, 1)
		assert.Equal(t, "Cuotas", types[0].Name)
	}
	assert.Equal(t, 1, fs.count("GET /income-type?departmentId=7"))

	_, err := repo.ListTypes(ctx, LedgerIncome, id(8))
	require.NoError(t, err)
	assert.Equal(t, 1, fs.count("GET /income-type?departmentId=8"))
}

func TestCallerMutationDoesNotCorruptCache(t *testing.T) {
	repo, fs := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.ListTypes(ctx, LedgerIncome, id(7))
	require.NoError(t, err)
	require.Len(t, first, 1)
	first[0].Name = "mutated"

	// The cached entry is served again, unaffected by the caller's edit and
	// without a second wire read.
	second, err := repo.ListTypes(ctx, LedgerIncome, id(7))
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Cuotas", second[0].Name)
	assert.Equal(t, 1, fs.count("GET /income-type?departmentId=7"))
}

func TestStalenessWindowExpires(t *testing.T) {
	fs := newFakeStore(t)
	client := store.NewClient(fs.server.URL, time.Second)
	repo := NewRepository(client, time.Nanosecond)
	ctx := context.Background()

	_, err := repo.ListDepartments(ctx)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = repo.ListDepartments(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, fs.count("GET /department"))
}
