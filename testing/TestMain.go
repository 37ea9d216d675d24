// Package testing pins test-safe process defaults. Test packages blank-import
// it so the defaults are in place before any code under test reads them: the
// worker entrypoint checks TESORO_TEST_MODE and refuses to start, and config
// loading needs a STORE_BASE_URL even though no test ever dials it.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("TESORO_TEST_MODE", "1")
		if os.Getenv("STORE_BASE_URL") == "" {
			// Port 0 never resolves to a live budget store.
			_ = os.Setenv("STORE_BASE_URL", "http://127.0.0.1:0")
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
