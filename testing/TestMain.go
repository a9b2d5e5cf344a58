// Package testing puts the process into test mode when imported for side
// effects, so binaries and helpers skip dialing Redis or Gotenberg.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("INSIGHTS_TEST_MODE", "1")
		_ = os.Setenv("GOTENBERG_URL", "http://127.0.0.1:0")
		_ = os.Unsetenv("REDIS_ADDR")
	})
}

func init() {
	ensureTestMode()
}

// TestMain can be delegated to from packages that need test mode before
// any init code reads the environment.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
