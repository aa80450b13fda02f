package eventmux

// Route matchers are explicit structs: a zero-valued matcher field is a
// wildcard, and every populated field must equal the corresponding record
// key. Routes are scanned in registration order and the first match wins —
// register specific routes before catch-alls.

// SQSRoute matches SQS messages by queue name.
type SQSRoute struct {
	// Queue matches the queue name from the message's event source ARN.
	// Empty matches any queue.
	Queue string

	// Sequential selects ordered batch processing: records are handled one
	// at a time and the first failure marks that record and every remaining
	// record as failed. The mode for a whole batch is fixed by the first
	// record's matched route. Default is concurrent processing with
	// per-record failure isolation.
	Sequential bool
}

func (r SQSRoute) match(queue string) bool {
	return r.Queue == "" || r.Queue == queue
}

// SNSRoute matches SNS notifications by topic name.
type SNSRoute struct {
	// Topic matches the topic name from the notification's topic ARN.
	// Empty matches any topic.
	Topic string
}

func (r SNSRoute) match(topic string) bool {
	return r.Topic == "" || r.Topic == topic
}

// DynamoDBRoute matches stream records by table name and operation.
type DynamoDBRoute struct {
	// Table matches the table name from the stream ARN. Empty matches any
	// table.
	Table string

	// Operation matches the change type. Empty matches INSERT, MODIFY,
	// and REMOVE alike.
	Operation DynamoDBOperation

	// Sequential selects ordered batch processing; see SQSRoute.Sequential.
	Sequential bool
}

func (r DynamoDBRoute) match(table string, op DynamoDBOperation) bool {
	if r.Table != "" && r.Table != table {
		return false
	}
	return r.Operation == "" || r.Operation == op
}

// EventBridgeRoute matches events by source and detail-type.
type EventBridgeRoute struct {
	// Source matches the event's source field. Empty matches any source.
	Source string

	// DetailType matches the event's detail-type field. Empty matches any
	// detail-type.
	DetailType string
}

func (r EventBridgeRoute) match(source, detailType string) bool {
	if r.Source != "" && r.Source != source {
		return false
	}
	return r.DetailType == "" || r.DetailType == detailType
}

type sqsRoute struct {
	SQSRoute
	handler Handler
}

type snsRoute struct {
	SNSRoute
	handler Handler
}

type dynamoDBRoute struct {
	DynamoDBRoute
	handler Handler
}

type eventBridgeRoute struct {
	EventBridgeRoute
	handler Handler
}

func matchSQS(routes []sqsRoute, queue string) (sqsRoute, bool) {
	for _, rt := range routes {
		if rt.match(queue) {
			return rt, true
		}
	}
	return sqsRoute{}, false
}

func matchSNS(routes []snsRoute, topic string) (snsRoute, bool) {
	for _, rt := range routes {
		if rt.match(topic) {
			return rt, true
		}
	}
	return snsRoute{}, false
}

func matchDynamoDB(routes []dynamoDBRoute, table string, op DynamoDBOperation) (dynamoDBRoute, bool) {
	for _, rt := range routes {
		if rt.match(table, op) {
			return rt, true
		}
	}
	return dynamoDBRoute{}, false
}

func matchEventBridge(routes []eventBridgeRoute, source, detailType string) (eventBridgeRoute, bool) {
	for _, rt := range routes {
		if rt.match(source, detailType) {
			return rt, true
		}
	}
	return eventBridgeRoute{}, false
}
