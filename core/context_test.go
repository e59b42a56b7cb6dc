package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithRunID(WithSource(context.Background(), "app/main.py"), "run-1")

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := range numGoroutines {
		go func(id int) {
			defer wg.Done()
			assert.Equal(t, "app/main.py", sourceFrom(ctx), "Goroutine %d: source", id)
			assert.Equal(t, "run-1", runIDFrom(ctx), "Goroutine %d: run id", id)
		}(i)
	}
	wg.Wait()
}

// TestContextIsolation tests that different contexts maintain isolation.
func TestContextIsolation(t *testing.T) {
	base := context.Background()
	ctx1 := WithSource(base, "a.py")
	ctx2 := WithRunID(base, "run-2")

	assert.Equal(t, "a.py", sourceFrom(ctx1))
	assert.Empty(t, runIDFrom(ctx1))

	assert.Equal(t, defaultSource, sourceFrom(ctx2))
	assert.Equal(t, "run-2", runIDFrom(ctx2))

	// An empty source falls back to stdin
	assert.Equal(t, defaultSource, sourceFrom(WithSource(base, "")))
}
