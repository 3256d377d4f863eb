package pipeline

import (
	"testing"

	"go.uber.org/goleak"
)

// Worker goroutines must all exit once Run returns.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
