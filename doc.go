// Package eventmux routes AWS Lambda invocation payloads to registered handlers.
//
// A single Lambda function often receives several event shapes: SQS batches,
// SNS notifications, DynamoDB stream batches, and EventBridge events. The
// eventmux package classifies the raw payload, matches each record against
// registered routes, runs the record through a middleware chain, and reports
// partial batch failures back to the platform — letting you focus on
// business logic.
//
// # Quick Start
//
// Build a mux, register routes, and hand it to the Lambda runtime:
//
//	b := eventmux.New()
//
//	b.SQS(eventmux.SQSRoute{Queue: "orders"}, eventmux.HandlerFunc(handleOrder))
//	b.Insert("users", eventmux.HandlerFunc(handleNewUser))
//	b.EventBridge(eventmux.EventBridgeRoute{
//	    Source:     "com.example.billing",
//	    DetailType: "InvoicePaid",
//	}, eventmux.HandlerFunc(handleInvoice))
//
//	lambda.Start(b.Build())
//
// # Classification
//
// The mux inspects the raw payload structurally before decoding it, the
// cheap-probe-then-parse strategy: a Records list whose first record names
// an aws:sqs or aws:dynamodb event source, or embeds an Sns envelope,
// selects the matching batch shape; a top-level object with source,
// detail-type, and detail fields is an EventBridge event. Payloads matching
// nothing go to the not-found handler, or fail with ErrUnknownEvent under
// WithStrictClassification.
//
// # Routing
//
// Each shape has its own route table. A route is an explicit matcher struct
// plus a handler; zero-valued matcher fields are wildcards and populated
// fields must match exactly. Routes are scanned in registration order and
// the first match wins — there is no specificity scoring, so register
// specific routes before catch-alls:
//
//	b.SQS(eventmux.SQSRoute{Queue: "orders"}, orderHandler) // wins for "orders"
//	b.SQS(eventmux.SQSRoute{}, catchAll)                    // everything else
//
// Records that match no route are handed to the handler registered with
// WithNotFound and count as successes for batch reporting.
//
// # Batches and Partial Failures
//
// SQS and DynamoDB stream events are batches of independent records. Each
// record gets a fresh Record context, and failed records are reported
// individually via the platform's batch-item-failure response so only those
// are redelivered.
//
// By default records are processed concurrently with full failure
// isolation. A route with Sequential set selects ordered processing: records
// run one at a time, and the first failure marks that record and every
// remaining record as failed, preserving upstream ordering. The mode for a
// whole batch is fixed by the first record's matched route.
//
// # Middleware
//
// Middleware wrap record processing in onion order with explicit before and
// after phases:
//
//	b.Use(func(ctx context.Context, rec *eventmux.Record, next eventmux.Next) error {
//	    rec.Set("start", time.Now())     // before
//	    err := next(ctx)                 // rest of the chain
//	    observe(rec, err)                // after
//	    return err
//	})
//
// Middleware that return without calling next do not short-circuit — the
// composer runs the remainder of the chain on their behalf. Calling next
// twice inside one invocation fails the record with a ProtocolError.
// UseFor scopes middleware to a single shape; global and scoped middleware
// interleave in registration order.
//
// # Error Handling
//
// A handler error marks its record failed. With WithErrorHandler, the error
// handler decides the final outcome: return nil to swallow the failure, or
// an error to keep the record failed. Protocol violations are the
// exception — they always fail the record. Non-batch shapes (SNS,
// EventBridge) have no partial-failure channel, so an unhandled error fails
// the whole invocation.
//
// # Hooks
//
// Hooks provide observability without coupling to a logging or metrics
// system:
//
//	b := eventmux.New(
//	    eventmux.WithOnSuccess(func(ctx context.Context, kind eventmux.Kind, key string, d time.Duration) {
//	        metrics.Timing("eventmux.success", d, "kind:"+kind.String())
//	    }),
//	    eventmux.WithOnFailure(func(ctx context.Context, kind eventmux.Kind, key string, err error, d time.Duration) {
//	        logger.Error("record failed", "kind", kind.String(), "key", key, "error", err)
//	    }),
//	)
//
// # Thread Safety
//
// All registration happens on the Builder before Build. The built Mux is an
// immutable snapshot, safe for concurrent use across interleaved record
// processing and warm invocations. Each record's key/value store is private
// to that record.
package eventmux
