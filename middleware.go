package eventmux

import "context"

// chain composes an ordered middleware list with a terminal handler. The
// middleware functions themselves are shared across records; each run gets
// fresh call-tracking state.
//
// Ordering is onion-shaped: for middleware [m0, m1] and handler h, the
// observed order is m0-before, m1-before, h, m1-after, m0-after. A
// middleware that returns nil without calling next does not stop the
// chain — the remainder runs on its behalf. Errors unwind like ordinary
// returns: each enclosing middleware sees the error as next's return value.
type chain struct {
	mws     []Middleware
	handler Handler
}

func newChain(mws []Middleware, h Handler) *chain {
	return &chain{mws: mws, handler: h}
}

func (c *chain) run(ctx context.Context, rec *Record) error {
	cr := &chainRun{chain: c, rec: rec}
	return cr.call(ctx, 0)
}

// chainRun is the per-record invocation state of a chain.
type chainRun struct {
	*chain
	rec *Record

	// protocolErr records a contract violation anywhere in the chain.
	// Once set, the run fails with it no matter what the middleware
	// between the violation and the caller do with the error.
	protocolErr error
}

func (r *chainRun) call(ctx context.Context, i int) error {
	if i >= len(r.mws) {
		return r.handler.Handle(ctx, r.rec)
	}

	called := false
	next := Next(func(ctx context.Context) error {
		if called {
			err := &ProtocolError{Violation: "next() called multiple times"}
			if r.protocolErr == nil {
				r.protocolErr = err
			}
			return err
		}
		called = true
		return r.call(ctx, i+1)
	})

	err := r.mws[i](ctx, r.rec, next)
	if r.protocolErr != nil {
		return r.protocolErr
	}
	if err != nil {
		return err
	}
	if !called {
		// Auto-continue: the middleware completed without invoking the
		// rest of the chain, so run it on its behalf.
		return r.call(ctx, i+1)
	}
	return nil
}
