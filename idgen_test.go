package desim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// These exercise the two generator implementations directly rather than
// through UseSequentialIDGenerator/UseParallelIDGenerator, since those
// mutate process-global state and would make test order load-bearing.

func TestSequentialIDGeneratorProducesDistinctIncreasingIDs(t *testing.T) {
	g := &sequentialIDGenerator{}

	first := g.Generate()
	second := g.Generate()

	assert.NotEqual(t, first, second)
	assert.Equal(t, "1", first)
	assert.Equal(t, "2", second)
}

func TestParallelIDGeneratorProducesDistinctIDs(t *testing.T) {
	g := parallelIDGenerator{}

	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ids[g.Generate()] = true
	}

	assert.Len(t, ids, 100)
}

func TestGetIDGeneratorDefaultsToSequential(t *testing.T) {
	// GetIDGenerator lazily defaults the first time it's called in the
	// process; by this point in the suite something has likely already
	// called it (e.g. Environment.CreateTask). No test in this package
	// switches generators, so the default is still in place: assert that it
	// is the sequential one and is stable across calls.
	g1 := GetIDGenerator()
	g2 := GetIDGenerator()
	assert.IsType(t, &sequentialIDGenerator{}, g1)
	assert.Same(t, g1, g2)
}
