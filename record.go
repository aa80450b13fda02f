package eventmux

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// Record is the per-record processing context handed to middleware and
// handlers. Exactly one Record exists per record being processed; records
// are never shared or pooled.
//
// A Record carries three things: a private key/value store for handoff
// between middleware phases and the handler, borrowed invocation metadata,
// and a read-only shape-specific view. Exactly one of the view fields
// (SQS, SNS, DynamoDB, EventBridge) is non-nil, matching Kind. View fields
// are computed eagerly at construction.
type Record struct {
	kind   Kind
	raw    json.RawMessage
	meta   *lambdacontext.LambdaContext
	values map[string]any

	// SQS is set for KindSQS records.
	SQS *SQSRecord

	// SNS is set for KindSNS records.
	SNS *SNSRecord

	// DynamoDB is set for KindDynamoDB records.
	DynamoDB *DynamoDBRecord

	// EventBridge is set for KindEventBridge records.
	EventBridge *EventBridgeDetail
}

// Kind returns the record's shape.
func (r *Record) Kind() Kind { return r.kind }

// Raw returns the raw payload for KindUnknown records handed to the
// not-found handler. It is nil for recognized shapes, whose typed views
// carry the decoded data instead.
func (r *Record) Raw() json.RawMessage { return r.raw }

// Metadata returns the Lambda invocation metadata, or nil when the record
// was not produced inside a Lambda invocation (e.g. in tests).
func (r *Record) Metadata() *lambdacontext.LambdaContext { return r.meta }

// Get reads a value from the record's private store. The store is visible
// only to middleware and the handler processing this one record.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Set writes a value to the record's private store.
func (r *Record) Set(key string, v any) {
	r.values[key] = v
}

// SQSRecord is the typed view of one SQS message.
type SQSRecord struct {
	// Message is the raw message as delivered by Lambda.
	Message events.SQSMessage

	// QueueName is extracted from the message's event source ARN.
	QueueName string

	// Body is the decoded JSON body, or the raw body string when the body
	// is not valid JSON.
	Body any
}

// SNSRecord is the typed view of one SNS notification.
type SNSRecord struct {
	// Entity is the notification as delivered by Lambda.
	Entity events.SNSEntity

	// TopicName is extracted from the topic ARN.
	TopicName string

	// Subject is the notification subject, often empty.
	Subject string

	// Message is the decoded JSON message, or the raw message string when
	// it is not valid JSON.
	Message any

	// Timestamp is the publish time reported by SNS.
	Timestamp time.Time
}

// DynamoDBOperation is the change type of a stream record.
type DynamoDBOperation string

const (
	OpInsert DynamoDBOperation = "INSERT"
	OpModify DynamoDBOperation = "MODIFY"
	OpRemove DynamoDBOperation = "REMOVE"
)

// DynamoDBRecord is the typed view of one DynamoDB stream record. Keys and
// images are decoded from their attribute-value encoding into plain maps.
type DynamoDBRecord struct {
	// Change is the raw stream record as delivered by Lambda.
	Change events.DynamoDBEventRecord

	// TableName is extracted from the stream ARN.
	TableName string

	// Operation is the change type: INSERT, MODIFY, or REMOVE.
	Operation DynamoDBOperation

	// Keys is the decoded primary key of the changed item.
	Keys map[string]any

	// NewImage is the decoded post-change item, if the stream includes it.
	NewImage map[string]any

	// OldImage is the decoded pre-change item, if the stream includes it.
	OldImage map[string]any
}

// EventBridgeDetail is the typed view of a single EventBridge event.
type EventBridgeDetail struct {
	// Event is the raw event as delivered by Lambda.
	Event events.EventBridgeEvent

	// Source is the event's origin, e.g. "aws.ec2" or "com.example.orders".
	Source string

	// DetailType identifies the event within its source.
	DetailType string

	// Detail is the decoded detail payload, or the raw detail string when
	// it is not valid JSON.
	Detail any
}

func newRecord(ctx context.Context, kind Kind) *Record {
	meta, _ := lambdacontext.FromContext(ctx)
	return &Record{
		kind:   kind,
		meta:   meta,
		values: make(map[string]any),
	}
}

func newSQSRecord(ctx context.Context, msg events.SQSMessage) *Record {
	rec := newRecord(ctx, KindSQS)
	rec.SQS = &SQSRecord{
		Message:   msg,
		QueueName: arnResource(msg.EventSourceARN),
		Body:      decodeBody(msg.Body),
	}
	return rec
}

func newSNSRecord(ctx context.Context, entity events.SNSEntity) *Record {
	rec := newRecord(ctx, KindSNS)
	rec.SNS = &SNSRecord{
		Entity:    entity,
		TopicName: arnResource(entity.TopicArn),
		Subject:   entity.Subject,
		Message:   decodeBody(entity.Message),
		Timestamp: entity.Timestamp,
	}
	return rec
}

func newDynamoDBRecord(ctx context.Context, change events.DynamoDBEventRecord) *Record {
	rec := newRecord(ctx, KindDynamoDB)
	rec.DynamoDB = &DynamoDBRecord{
		Change:    change,
		TableName: tableFromStreamARN(change.EventSourceArn),
		Operation: DynamoDBOperation(change.EventName),
		Keys:      UnmarshalAttributeValues(change.Change.Keys),
		NewImage:  UnmarshalAttributeValues(change.Change.NewImage),
		OldImage:  UnmarshalAttributeValues(change.Change.OldImage),
	}
	return rec
}

func newEventBridgeRecord(ctx context.Context, event events.EventBridgeEvent) *Record {
	rec := newRecord(ctx, KindEventBridge)
	rec.EventBridge = &EventBridgeDetail{
		Event:      event,
		Source:     event.Source,
		DetailType: event.DetailType,
		Detail:     decodeBody(string(event.Detail)),
	}
	return rec
}

func newUnknownRecord(ctx context.Context, raw []byte) *Record {
	rec := newRecord(ctx, KindUnknown)
	rec.raw = raw
	return rec
}

// decodeBody decodes an embedded JSON payload. Bodies that are not valid
// JSON degrade to the raw string rather than failing.
func decodeBody(body string) any {
	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return body
	}
	return v
}
