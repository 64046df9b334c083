package desim

import (
	"log"
)

// LogHook is a Hook that records simulation activity through a *log.Logger.
type LogHook interface {
	Hook
}

// LogHookBase provides the common logic for LogHooks, the way
// sim.LogHookBase wraps a *log.Logger for akita's logging hooks.
type LogHookBase struct {
	*log.Logger
}

// eventLogHook logs every popped ticket's time and, for process resumptions,
// the process name. Environment.New installs no hooks; a caller registers
// this one with AcceptHook.
type eventLogHook struct {
	LogHookBase
}

// NewEventLogHook creates a LogHook that prints one line per handled item.
func NewEventLogHook(logger *log.Logger) LogHook {
	return &eventLogHook{LogHookBase{logger}}
}

func (h *eventLogHook) Func(ctx HookCtx) {
	if ctx.Pos != HookPosAfterEvent {
		return
	}

	switch item := ctx.Item.(type) {
	case *resumeTicket:
		if item.proc.label != "" {
			h.Printf("[%d] resume %s#%s (%s)", item.t, item.proc.name, item.proc.id, item.proc.label)
		} else {
			h.Printf("[%d] resume %s#%s", item.t, item.proc.name, item.proc.id)
		}
	default:
		h.Printf("[%d] %T", ctx.Domain.(*Environment).Now(), item)
	}
}
