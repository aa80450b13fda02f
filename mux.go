package eventmux

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

// Builder accumulates routes and middleware, then produces an immutable
// Mux with Build. All registration happens on the Builder; the Mux itself
// has no mutation API, so a built Mux is safe to share across concurrent
// record processing and warm invocations.
//
// Example:
//
//	b := eventmux.New(
//	    eventmux.WithErrorHandler(func(ctx context.Context, rec *eventmux.Record, err error) error {
//	        logger.Error("record failed", "error", err)
//	        return err
//	    }),
//	)
//	b.SQS(eventmux.SQSRoute{Queue: "orders"}, orderHandler)
//	b.SQS(eventmux.SQSRoute{}, catchAllHandler)
//	b.Insert("users", userCreatedHandler)
//	b.Use(tracing)
//
//	lambda.Start(b.Build())
type Builder struct {
	sqs         []sqsRoute
	sns         []snsRoute
	dynamodb    []dynamoDBRoute
	eventbridge []eventBridgeRoute

	middleware []middlewareEntry

	notFound       Handler
	errHandler     ErrorHandler
	strict         bool
	maxConcurrency int
	hooks          hooks
}

// middlewareEntry is a middleware plus an optional shape filter. A zero
// kind (KindUnknown) means global.
type middlewareEntry struct {
	kind Kind
	mw   Middleware
}

// Option configures a Builder.
type Option func(*Builder)

// New creates a Builder with the given options.
func New(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithNotFound sets the handler invoked for records that match no route and
// for unrecognized payloads (unless WithStrictClassification is set). Such
// records never count as batch failures.
func WithNotFound(h Handler) Option {
	return func(b *Builder) {
		b.notFound = h
	}
}

// WithErrorHandler sets the handler invoked when a record's middleware
// chain or handler fails. The error handler's return value becomes the
// record's outcome: return nil to swallow the failure, or an error to keep
// the record failed. Protocol violations are observed but always fail the
// record.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(b *Builder) {
		b.errHandler = fn
	}
}

// WithStrictClassification makes Invoke fail with ErrUnknownEvent for
// payloads matching no known shape, instead of degrading to the not-found
// handler.
func WithStrictClassification() Option {
	return func(b *Builder) {
		b.strict = true
	}
}

// WithMaxConcurrency bounds the number of records processed at once in
// concurrent batch mode. Zero (the default) means no bound.
func WithMaxConcurrency(n int) Option {
	return func(b *Builder) {
		b.maxConcurrency = n
	}
}

// SQS registers a handler for SQS messages matching the route. Routes are
// matched in registration order; the first match wins.
func (b *Builder) SQS(r SQSRoute, h Handler) *Builder {
	b.sqs = append(b.sqs, sqsRoute{SQSRoute: r, handler: h})
	return b
}

// SNS registers a handler for SNS notifications matching the route.
func (b *Builder) SNS(r SNSRoute, h Handler) *Builder {
	b.sns = append(b.sns, snsRoute{SNSRoute: r, handler: h})
	return b
}

// DynamoDB registers a handler for stream records matching the route.
func (b *Builder) DynamoDB(r DynamoDBRoute, h Handler) *Builder {
	b.dynamodb = append(b.dynamodb, dynamoDBRoute{DynamoDBRoute: r, handler: h})
	return b
}

// Insert registers a handler for INSERT stream records on the given table.
func (b *Builder) Insert(table string, h Handler) *Builder {
	return b.DynamoDB(DynamoDBRoute{Table: table, Operation: OpInsert}, h)
}

// Modify registers a handler for MODIFY stream records on the given table.
func (b *Builder) Modify(table string, h Handler) *Builder {
	return b.DynamoDB(DynamoDBRoute{Table: table, Operation: OpModify}, h)
}

// Remove registers a handler for REMOVE stream records on the given table.
func (b *Builder) Remove(table string, h Handler) *Builder {
	return b.DynamoDB(DynamoDBRoute{Table: table, Operation: OpRemove}, h)
}

// EventBridge registers a handler for events matching the route.
func (b *Builder) EventBridge(r EventBridgeRoute, h Handler) *Builder {
	b.eventbridge = append(b.eventbridge, eventBridgeRoute{EventBridgeRoute: r, handler: h})
	return b
}

// Use registers middleware applied to every record regardless of shape.
// Middleware run in registration order, outermost first.
func (b *Builder) Use(mw Middleware) *Builder {
	b.middleware = append(b.middleware, middlewareEntry{mw: mw})
	return b
}

// UseFor registers middleware applied only to records of the given shape.
// Global and shape-filtered middleware interleave in registration order.
func (b *Builder) UseFor(kind Kind, mw Middleware) *Builder {
	b.middleware = append(b.middleware, middlewareEntry{kind: kind, mw: mw})
	return b
}

// Build produces the immutable Mux. The Builder may be discarded afterward;
// further registration on it does not affect the built Mux.
func (b *Builder) Build() *Mux {
	m := &Mux{
		sqs:            append([]sqsRoute(nil), b.sqs...),
		sns:            append([]snsRoute(nil), b.sns...),
		dynamodb:       append([]dynamoDBRoute(nil), b.dynamodb...),
		eventbridge:    append([]eventBridgeRoute(nil), b.eventbridge...),
		chains:         make(map[Kind][]Middleware, 4),
		notFound:       b.notFound,
		errHandler:     b.errHandler,
		strict:         b.strict,
		maxConcurrency: b.maxConcurrency,
		hooks:          b.hooks,
	}
	for _, kind := range []Kind{KindSQS, KindSNS, KindDynamoDB, KindEventBridge} {
		var mws []Middleware
		for _, entry := range b.middleware {
			if entry.kind == KindUnknown || entry.kind == kind {
				mws = append(mws, entry.mw)
			}
		}
		m.chains[kind] = mws
	}
	return m
}

// Mux dispatches Lambda invocation payloads to registered handlers. It is
// an immutable snapshot produced by Builder.Build and is safe for
// concurrent use.
//
// Mux implements lambda.Handler, so it can be passed directly to
// lambda.Start.
type Mux struct {
	sqs         []sqsRoute
	sns         []snsRoute
	dynamodb    []dynamoDBRoute
	eventbridge []eventBridgeRoute

	// chains holds the middleware subset per shape: global plus
	// shape-filtered entries in registration order.
	chains map[Kind][]Middleware

	notFound       Handler
	errHandler     ErrorHandler
	strict         bool
	maxConcurrency int
	hooks          hooks
}

var _ lambda.Handler = (*Mux)(nil)

// Invoke classifies the raw payload, dispatches it, and returns the
// platform response. Batch shapes (SQS, DynamoDB streams) return a
// marshaled partial-batch-failure response; notification and single-event
// shapes return nil bytes. Invoke implements lambda.Handler.
func (m *Mux) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	switch Classify(payload) {
	case KindSQS:
		var event events.SQSEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("decode sqs event: %w", err)
		}
		resp, err := m.DispatchSQS(ctx, event)
		if err != nil {
			return nil, err
		}
		return json.Marshal(resp)

	case KindSNS:
		var event events.SNSEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("decode sns event: %w", err)
		}
		return nil, m.DispatchSNS(ctx, event)

	case KindDynamoDB:
		var event events.DynamoDBEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("decode dynamodb event: %w", err)
		}
		resp, err := m.DispatchDynamoDB(ctx, event)
		if err != nil {
			return nil, err
		}
		return json.Marshal(resp)

	case KindEventBridge:
		var event events.EventBridgeEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("decode eventbridge event: %w", err)
		}
		return nil, m.DispatchEventBridge(ctx, event)

	default:
		return nil, m.dispatchUnknown(ctx, payload)
	}
}

// DispatchSQS processes an SQS batch and reports per-record failures. The
// batch mode (sequential or concurrent) is fixed by the first record's
// matched route.
func (m *Mux) DispatchSQS(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	items := make([]batchItem, len(event.Records))
	for i, msg := range event.Records {
		rec := newSQSRecord(ctx, msg)
		item := batchItem{rec: rec, id: msg.MessageId, key: rec.SQS.QueueName}
		if rt, ok := matchSQS(m.sqs, rec.SQS.QueueName); ok {
			item.handler = rt.handler
			item.sequential = rt.Sequential
		}
		items[i] = item
	}

	resp := events.SQSEventResponse{BatchItemFailures: []events.SQSBatchItemFailure{}}
	for _, id := range m.runBatch(ctx, KindSQS, items) {
		resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: id})
	}
	return resp, nil
}

// DispatchDynamoDB processes a stream batch and reports per-record
// failures, with the same mode selection as DispatchSQS.
func (m *Mux) DispatchDynamoDB(ctx context.Context, event events.DynamoDBEvent) (events.DynamoDBEventResponse, error) {
	items := make([]batchItem, len(event.Records))
	for i, change := range event.Records {
		rec := newDynamoDBRecord(ctx, change)
		item := batchItem{
			rec: rec,
			id:  change.EventID,
			key: rec.DynamoDB.TableName + "/" + string(rec.DynamoDB.Operation),
		}
		if rt, ok := matchDynamoDB(m.dynamodb, rec.DynamoDB.TableName, rec.DynamoDB.Operation); ok {
			item.handler = rt.handler
			item.sequential = rt.Sequential
		}
		items[i] = item
	}

	resp := events.DynamoDBEventResponse{BatchItemFailures: []events.DynamoDBBatchItemFailure{}}
	for _, id := range m.runBatch(ctx, KindDynamoDB, items) {
		resp.BatchItemFailures = append(resp.BatchItemFailures, events.DynamoDBBatchItemFailure{ItemIdentifier: id})
	}
	return resp, nil
}

// DispatchSNS processes SNS notifications in delivery order. SNS has no
// partial-failure protocol: the first failed record fails the invocation.
func (m *Mux) DispatchSNS(ctx context.Context, event events.SNSEvent) error {
	for _, record := range event.Records {
		rec := newSNSRecord(ctx, record.SNS)
		item := batchItem{rec: rec, key: rec.SNS.TopicName}
		if rt, ok := matchSNS(m.sns, rec.SNS.TopicName); ok {
			item.handler = rt.handler
		}
		if err := m.process(ctx, KindSNS, item); err != nil {
			return err
		}
	}
	return nil
}

// DispatchEventBridge processes a single structured event. An unhandled
// error fails the invocation.
func (m *Mux) DispatchEventBridge(ctx context.Context, event events.EventBridgeEvent) error {
	rec := newEventBridgeRecord(ctx, event)
	item := batchItem{rec: rec, key: event.Source + "/" + event.DetailType}
	if rt, ok := matchEventBridge(m.eventbridge, event.Source, event.DetailType); ok {
		item.handler = rt.handler
	}
	return m.process(ctx, KindEventBridge, item)
}

// dispatchUnknown handles unclassifiable payloads: fail when strict,
// otherwise degrade to the not-found handler with a best-effort record.
func (m *Mux) dispatchUnknown(ctx context.Context, payload []byte) error {
	m.hooks.unknown(ctx, payload)
	if m.strict {
		return ErrUnknownEvent
	}
	if m.notFound == nil {
		return nil
	}
	return m.notFound.Handle(ctx, newUnknownRecord(ctx, payload))
}

// process runs one record through the not-found path or its middleware
// chain and handler, then applies the error-handler policy. It returns the
// record's final outcome.
func (m *Mux) process(ctx context.Context, kind Kind, item batchItem) error {
	if item.handler == nil {
		m.hooks.notFound(ctx, kind, item.key)
		if m.notFound != nil {
			if err := m.notFound.Handle(ctx, item.rec); err != nil {
				// Route misses are successes for batch purposes even when
				// the not-found handler itself errors.
				m.hooks.failure(ctx, kind, item.key, err, 0)
			}
		}
		return nil
	}

	m.hooks.dispatch(ctx, kind, item.key)
	start := time.Now()
	err := m.resolve(ctx, item.rec, newChain(m.chains[kind], item.handler).run(ctx, item.rec))
	duration := time.Since(start)

	if err != nil {
		m.hooks.failure(ctx, kind, item.key, err, duration)
	} else {
		m.hooks.success(ctx, kind, item.key, duration)
	}
	return err
}

// resolve applies the error-handler policy to a record's raw outcome.
func (m *Mux) resolve(ctx context.Context, rec *Record, err error) error {
	if err == nil {
		return nil
	}
	var perr *ProtocolError
	if errors.As(err, &perr) {
		// Protocol violations are surfaced to the error handler for
		// observation but always fail the record.
		if m.errHandler != nil {
			_ = m.errHandler(ctx, rec, err)
		}
		return err
	}
	if m.errHandler != nil {
		return m.errHandler(ctx, rec, err)
	}
	return err
}
