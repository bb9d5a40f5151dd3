package testutil

import (
	"context"
	"testing"
	"time"
)

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// Context returns a context canceled when the test ends.
func Context(t *testing.T) context.Context {
	return testContext(t)
}
