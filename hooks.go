package eventmux

import (
	"context"
	"time"
)

// OnDispatchFunc is called just before a record's middleware chain and
// handler execute. The key identifies the matched route: queue name, topic
// name, table/operation, or source/detail-type.
type OnDispatchFunc func(ctx context.Context, kind Kind, key string)

// OnSuccessFunc is called after a record completes successfully.
type OnSuccessFunc func(ctx context.Context, kind Kind, key string, duration time.Duration)

// OnFailureFunc is called after a record fails. For batch shapes the record
// is reported as a batch item failure; for single-event shapes the error
// fails the invocation.
type OnFailureFunc func(ctx context.Context, kind Kind, key string, err error, duration time.Duration)

// OnNotFoundFunc is called when a record matches no registered route. The
// record is handed to the not-found handler, if any, and counts as a
// success for batch reporting.
type OnNotFoundFunc func(ctx context.Context, kind Kind, key string)

// OnUnknownFunc is called when the invocation payload matches no known
// event shape.
type OnUnknownFunc func(ctx context.Context, raw []byte)

// hooks holds all configured hook functions.
type hooks struct {
	onDispatch []OnDispatchFunc
	onSuccess  []OnSuccessFunc
	onFailure  []OnFailureFunc
	onNotFound []OnNotFoundFunc
	onUnknown  []OnUnknownFunc
}

// WithOnDispatch adds a hook called just before each record's handler
// executes. Multiple hooks are called in order.
//
// Example:
//
//	eventmux.WithOnDispatch(func(ctx context.Context, kind eventmux.Kind, key string) {
//	    logger.Info("dispatching", "kind", kind.String(), "key", key)
//	})
func WithOnDispatch(fn OnDispatchFunc) Option {
	return func(b *Builder) {
		b.hooks.onDispatch = append(b.hooks.onDispatch, fn)
	}
}

// WithOnSuccess adds a hook called after a record completes successfully.
// Multiple hooks are called in order.
//
// Example:
//
//	eventmux.WithOnSuccess(func(ctx context.Context, kind eventmux.Kind, key string, d time.Duration) {
//	    metrics.Timing("eventmux.success", d, "kind:"+kind.String())
//	})
func WithOnSuccess(fn OnSuccessFunc) Option {
	return func(b *Builder) {
		b.hooks.onSuccess = append(b.hooks.onSuccess, fn)
	}
}

// WithOnFailure adds a hook called after a record fails. Multiple hooks are
// called in order.
func WithOnFailure(fn OnFailureFunc) Option {
	return func(b *Builder) {
		b.hooks.onFailure = append(b.hooks.onFailure, fn)
	}
}

// WithOnNotFound adds a hook called when a record matches no route.
// Multiple hooks are called in order.
func WithOnNotFound(fn OnNotFoundFunc) Option {
	return func(b *Builder) {
		b.hooks.onNotFound = append(b.hooks.onNotFound, fn)
	}
}

// WithOnUnknown adds a hook called when the payload matches no known shape.
// Multiple hooks are called in order.
func WithOnUnknown(fn OnUnknownFunc) Option {
	return func(b *Builder) {
		b.hooks.onUnknown = append(b.hooks.onUnknown, fn)
	}
}

func (h hooks) dispatch(ctx context.Context, kind Kind, key string) {
	for _, fn := range h.onDispatch {
		fn(ctx, kind, key)
	}
}

func (h hooks) success(ctx context.Context, kind Kind, key string, d time.Duration) {
	for _, fn := range h.onSuccess {
		fn(ctx, kind, key, d)
	}
}

func (h hooks) failure(ctx context.Context, kind Kind, key string, err error, d time.Duration) {
	for _, fn := range h.onFailure {
		fn(ctx, kind, key, err, d)
	}
}

func (h hooks) notFound(ctx context.Context, kind Kind, key string) {
	for _, fn := range h.onNotFound {
		fn(ctx, kind, key)
	}
}

func (h hooks) unknown(ctx context.Context, raw []byte) {
	for _, fn := range h.onUnknown {
		fn(ctx, raw)
	}
}
