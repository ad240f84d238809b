package id

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oklog/ulid/v2"
)

func TestNew_ProducesValidULID(t *testing.T) {
	s := New()

	assert.Len(t, s, 26)
	_, err := ulid.ParseStrict(s)
	require.NoError(t, err)
}

func TestNew_IDsAreUniqueAndOrdered(t *testing.T) {
	const n = 1000

	ids := make([]string, n)
	seen := make(map[string]bool, n)
	for i := range ids {
		ids[i] = New()
		seen[ids[i]] = true
	}

	assert.Len(t, seen, n)
	// Generation order matches lexicographic order, which is what the run
	// journal's ORDER BY relies on.
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestNew_SafeForConcurrentUse(t *testing.T) {
	const workers = 8
	const perWorker = 200

	results := make(chan string, workers*perWorker)
	for w := 0; w < workers; w++ {
		go func() {
			for i := 0; i < perWorker; i++ {
				results <- New()
			}
		}()
	}

	seen := make(map[string]bool, workers*perWorker)
	for i := 0; i < workers*perWorker; i++ {
		seen[<-results] = true
	}
	assert.Len(t, seen, workers*perWorker)
}
