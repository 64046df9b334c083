// Package trace is desim's optional, compile-time-gated debug tracing
// surface (spec.md §6: "Debug tracing... is optional... not part of the
// behavioral contract"). It hooks an Environment and exports each process's
// real (wall-clock) execution time and resume count as a pprof profile, so
// a slow process body can be spotted with `go tool pprof` the way a Go
// program's own CPU profile would show a slow function. Virtual time isn't
// a useful unit here: a process's own execution between two suspension
// points never advances the virtual clock, by construction of the
// cooperative scheduler, so any such delta is always zero.
package trace

import (
	"io"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/tebeka/atexit"

	"github.com/go-desim/desim"
)

// BusyTimeHook is a desim.Hook that accumulates, per process name, the
// wall-clock time spent executing between a ProcessResume and its next
// ProcessSuspend (or completion), plus how many times it was resumed. It
// implements desim.Hook so it can be registered with Environment.AcceptHook
// directly.
type BusyTimeHook struct {
	mu sync.Mutex

	resumedAt map[string]time.Time
	busyNanos map[string]int64
	resumes   map[string]int64
}

// NewBusyTimeHook creates a hook ready to register against env.
func NewBusyTimeHook(env *desim.Environment) *BusyTimeHook {
	return &BusyTimeHook{
		resumedAt: make(map[string]time.Time),
		busyNanos: make(map[string]int64),
		resumes:   make(map[string]int64),
	}
}

// Func implements desim.Hook.
func (h *BusyTimeHook) Func(ctx desim.HookCtx) {
	p, ok := ctx.Item.(*desim.Process)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch ctx.Pos {
	case desim.HookPosProcessResume:
		h.resumedAt[p.Name()] = time.Now()
		h.resumes[p.Name()]++
	case desim.HookPosProcessSuspend:
		if start, ok := h.resumedAt[p.Name()]; ok {
			h.busyNanos[p.Name()] += time.Since(start).Nanoseconds()
			delete(h.resumedAt, p.Name())
		}
	}
}

// Profile builds a pprof profile.Profile with one sample per process,
// carrying both the accumulated wall-clock nanoseconds and the resume
// count as separate value columns.
func (h *BusyTimeHook) Profile() *profile.Profile {
	h.mu.Lock()
	defer h.mu.Unlock()

	prof := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "busy_time", Unit: "nanoseconds"},
			{Type: "resumes", Unit: "count"},
		},
		PeriodType: &profile.ValueType{Type: "busy_time", Unit: "nanoseconds"},
		Period:     1,
	}

	locID := uint64(1)
	funcID := uint64(1)
	for name, nanos := range h.busyNanos {
		fn := &profile.Function{ID: funcID, Name: name}
		loc := &profile.Location{
			ID:   locID,
			Line: []profile.Line{{Function: fn}},
		}
		prof.Function = append(prof.Function, fn)
		prof.Location = append(prof.Location, loc)
		prof.Sample = append(prof.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{nanos, h.resumes[name]},
		})
		locID++
		funcID++
	}

	return prof
}

// WriteTo serializes the current profile to w in pprof's gzip'd protobuf
// format.
func (h *BusyTimeHook) WriteTo(w io.Writer) error {
	return h.Profile().Write(w)
}

// RegisterFlushAtExit arranges for the hook's profile to be written to w
// when the embedding process exits, via atexit, so a simulation embedded in
// a longer-lived program doesn't lose its trace to an unclean shutdown
// (e.g. os.Exit called elsewhere before any explicit flush).
func (h *BusyTimeHook) RegisterFlushAtExit(w io.Writer) {
	atexit.Register(func() {
		_ = h.WriteTo(w)
	})
}
