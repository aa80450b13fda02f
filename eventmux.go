package eventmux

import (
	"context"
)

// Kind identifies the structural shape of an incoming Lambda payload.
type Kind int

const (
	// KindUnknown is the shape of a payload that matched no known event
	// structure. Unknown payloads are routed to the not-found handler by
	// default; see WithStrictClassification.
	KindUnknown Kind = iota

	// KindSQS is a queue event: a batch of independent SQS messages with
	// partial-failure reporting.
	KindSQS

	// KindSNS is a notification event: SNS records delivered without a
	// partial-failure protocol.
	KindSNS

	// KindDynamoDB is a stream event: a batch of DynamoDB change records
	// with partial-failure reporting.
	KindDynamoDB

	// KindEventBridge is a single structured event identified by its
	// source and detail-type.
	KindEventBridge
)

// String returns the kind name used in hooks and logs.
func (k Kind) String() string {
	switch k {
	case KindSQS:
		return "sqs"
	case KindSNS:
		return "sns"
	case KindDynamoDB:
		return "dynamodb"
	case KindEventBridge:
		return "eventbridge"
	default:
		return "unknown"
	}
}

// Handler processes one record or event.
//
// For batch shapes (SQS, DynamoDB streams) the handler is invoked once per
// record with a fresh Record; returning an error marks that record failed
// without affecting its siblings (subject to the batch mode, see SQSRoute).
//
// Example:
//
//	type OrderHandler struct {
//	    store OrderStore
//	}
//
//	func (h *OrderHandler) Handle(ctx context.Context, rec *eventmux.Record) error {
//	    order, ok := rec.SQS.Body.(map[string]any)
//	    if !ok {
//	        return fmt.Errorf("order payload is not JSON")
//	    }
//	    return h.store.Save(ctx, order)
//	}
type Handler interface {
	Handle(ctx context.Context, rec *Record) error
}

// HandlerFunc is a function adapter for Handler. Use for simple handlers
// that don't need a struct:
//
//	b.SQS(eventmux.SQSRoute{Queue: "orders"}, eventmux.HandlerFunc(func(ctx context.Context, rec *eventmux.Record) error {
//	    return nil
//	}))
type HandlerFunc func(ctx context.Context, rec *Record) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, rec *Record) error {
	return f(ctx, rec)
}

// Next continues the middleware chain. See Middleware.
type Next func(ctx context.Context) error

// Middleware wraps record processing with before and after phases.
//
// Middleware receive the record's context and a next function. Code before
// next runs before the rest of the chain; code after next runs once the
// rest of the chain (remaining middleware plus the handler) has completed.
// Middleware that return without calling next do not short-circuit: the
// composer invokes the remainder of the chain on their behalf. To stop the
// chain, return an error. Calling next more than once is a protocol
// violation and fails the record with a ProtocolError.
//
// Example:
//
//	func timing(ctx context.Context, rec *eventmux.Record, next eventmux.Next) error {
//	    start := time.Now()
//	    err := next(ctx)
//	    log.Printf("%s took %v", rec.Kind(), time.Since(start))
//	    return err
//	}
type Middleware func(ctx context.Context, rec *Record, next Next) error

// ErrorHandler decides the final outcome of a failed record.
//
// The returned error replaces the record's error: return nil to swallow the
// failure (the record counts as a success for batch reporting), or return
// the same or another error to keep the record failed. Protocol violations
// are an exception: the error handler observes them, but the record always
// fails. See WithErrorHandler.
type ErrorHandler func(ctx context.Context, rec *Record, err error) error
