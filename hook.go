package desim

// HookPos names a site in the engine where hooks may be invoked.
type HookPos struct {
	Name string
}

// HookCtx carries the information about a hook invocation site.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable is anything that accepts Hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// Hook is a short piece of program invoked by a Hookable at a HookPos.
type Hook interface {
	Func(ctx HookCtx)
}

// HookPosBeforeEvent fires before the engine hands a popped item to its
// handler.
var HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent fires after the engine has handled a popped item.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// HookPosProcessSuspend fires when a Process registers a wait and yields
// control back to the scheduler. Akita's flat, non-coroutine event model
// has no equivalent site; this is new surface the coroutine-process layer
// needs.
var HookPosProcessSuspend = &HookPos{Name: "ProcessSuspend"}

// HookPosProcessResume fires when a Process is handed control back.
var HookPosProcessResume = &HookPos{Name: "ProcessResume"}

// HookableBase provides the bookkeeping other types embed to satisfy
// Hookable.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase creates an empty HookableBase.
func NewHookableBase() *HookableBase {
	return &HookableBase{hooks: make([]Hook, 0)}
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// InvokeHook runs every registered hook with ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}

// NumHooks reports how many hooks are registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}
