package desim

import "fmt"

// InterruptError is the fault a Process receives when interrupted while
// suspended. It carries the caller-supplied Cause and the Process it was
// raised against. Process.Await returns it as its error, so the process
// body can check for a specific interrupt and keep running — the
// "recoverable fault" csimpy models with
// a C++ exception (regression_test.cpp exercises exactly this: a process
// catches its own interrupt and resumes other work).
type InterruptError struct {
	Cause   any
	Process *Process
}

func (e *InterruptError) Error() string {
	return fmt.Sprintf("desim: %s interrupted: %v", e.Process.name, e.Cause)
}
