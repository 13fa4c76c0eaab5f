// Package errs defines the three disjoint error kinds the compositor
// distinguishes (§7): protocol errors (client fault), backend errors
// (environment fault), and internal errors (compositor fault).
package errs

import "fmt"

// Protocol is a client-fault error: malformed message, invalid object,
// version mismatch, role conflict, or an interface-specific violation
// (e.g. a DMA-BUF parameter violation). The handler that produces one is
// responsible for closing the offending connection after emitting the
// carried error code against Object.
type Protocol struct {
	Interface string // e.g. "wl_surface", "xdg_surface"
	Object    uint32
	Code      uint32
	Message   string
}

func (e *Protocol) Error() string {
	return fmt.Sprintf("protocol error: %s#%d code=%d: %s", e.Interface, e.Object, e.Code, e.Message)
}

// Backend is an environment-fault error: a GPU import failed, a mode-set
// failed, an output disappeared mid-frame, or a fence wait timed out.
// Policy (§7): mark the affected scope degraded, retry transient failures
// with bounded attempts, never terminate the session for one fault.
type Backend struct {
	Scope string // "output:DP-1", "texture-import", ...
	Err   error
}

func (e *Backend) Error() string {
	return fmt.Sprintf("backend error [%s]: %v", e.Scope, e.Err)
}

func (e *Backend) Unwrap() error { return e.Err }

// Internal reports an invariant violation: a role set twice, a surface in
// two trees, a serial reused. Policy (§7): fail loudly in development;
// in production, log and contain to the offending client if possible.
type Internal struct {
	Invariant string
	Detail    string
}

func (e *Internal) Error() string {
	return fmt.Sprintf("internal invariant violated (%s): %s", e.Invariant, e.Detail)
}
