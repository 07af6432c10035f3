package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIsMonotonic(t *testing.T) {
	gen := NewGenerator()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	gen.now = func() time.Time { return fixed }

	prev := gen.Next()
	for i := 0; i < 100; i++ {
		next := gen.Next()
		require.Equal(t, 1, next.Compare(prev), "ULIDs within one millisecond must still increase")
		prev = next
	}
}

func TestPrefixedIDs(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		prefix string
	}{
		{"run", NewRunID().String(), RunPrefix},
		{"download", NewDownloadID().String(), DownloadPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, strings.HasPrefix(tt.id, tt.prefix+"_"))
			assert.True(t, IsValid(tt.id))

			prefix, _, err := Split(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}

func TestRunIDTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := NewRunID().Time()
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = RunID("run_nope").Time()
	assert.Error(t, err)
}

func TestIsValid(t *testing.T) {
	bare := NewGenerator().Next().String()
	assert.True(t, IsValid(bare))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("run_"))
	assert.False(t, IsValid("run_not-a-ulid"))
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	const n = 200

	var mu sync.Mutex
	seen := make(map[string]struct{}, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := gen.Prefixed(RunPrefix)
			mu.Lock()
			seen[s] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}
