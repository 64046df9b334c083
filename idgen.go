package desim

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

var (
	idGeneratorMutex        sync.Mutex
	idGeneratorInstantiated bool
	idGenerator             IDGenerator
)

// IDGenerator produces the trace IDs attached to processes for
// logging/hook consumption; events carry no trace ID. It never influences scheduling order — that is
// always the separate, non-pluggable sequence_id counter on Environment.
type IDGenerator interface {
	Generate() string
}

// UseSequentialIDGenerator configures trace-ID generation to be sequential,
// which keeps logs byte-reproducible across runs. This is the default.
func UseSequentialIDGenerator() {
	setIDGenerator(&sequentialIDGenerator{})
}

// UseParallelIDGenerator configures trace-ID generation to use
// github.com/rs/xid. IDs are globally unique but not reproducible across
// runs; use this when embedding desim in a longer-lived program that
// correlates its own traces with the simulation's by ID rather than by
// sequence.
func UseParallelIDGenerator() {
	setIDGenerator(&parallelIDGenerator{})
}

func setIDGenerator(g IDGenerator) {
	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if idGeneratorInstantiated {
		panic("desim: cannot change id generator type after using it")
	}

	idGenerator = g
	idGeneratorInstantiated = true
}

// GetIDGenerator returns the ID generator in use, defaulting to sequential
// on first call.
func GetIDGenerator() IDGenerator {
	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if !idGeneratorInstantiated {
		idGenerator = &sequentialIDGenerator{}
		idGeneratorInstantiated = true
	}
	return idGenerator
}

type sequentialIDGenerator struct {
	next uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(atomic.AddUint64(&g.next, 1), 10)
}

type parallelIDGenerator struct{}

func (parallelIDGenerator) Generate() string {
	return xid.New().String()
}
