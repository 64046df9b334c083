package desim

// Delay returns an Event that succeeds with a nil value exactly d ticks
// after it is created. Together with Environment.ScheduleEvent, which it
// wraps, it is how time passes in a simulation — every other wait
// (container/store admission, combinators, process completion) ultimately
// bottoms out in one or more such scheduled events, directly or
// transitively, the same way csimpy's timeout event is its one primitive
// time-based wait (csimpy_env.h). It is a thin wrapper over
// Environment.ScheduleEvent with the target time computed as now+d and the
// value fixed to nil.
func Delay(env *Environment, d VTime) *Event {
	if d < 0 {
		panic("desim: negative delay")
	}
	return env.ScheduleEvent(env.Now()+d, nil)
}
