package eventmux

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Kind
	}{
		{
			name: "sqs batch",
			raw:  `{"Records":[{"messageId":"1","eventSource":"aws:sqs","eventSourceARN":"arn:aws:sqs:us-east-1:123456789012:orders","body":"{}"}]}`,
			want: KindSQS,
		},
		{
			name: "sns notification",
			raw:  `{"Records":[{"EventSource":"aws:sns","Sns":{"TopicArn":"arn:aws:sns:us-east-1:123456789012:alerts","Message":"hi"}}]}`,
			want: KindSNS,
		},
		{
			name: "sns envelope without EventSource",
			raw:  `{"Records":[{"Sns":{"Message":"hi"}}]}`,
			want: KindSNS,
		},
		{
			name: "dynamodb stream batch",
			raw:  `{"Records":[{"eventID":"1","eventSource":"aws:dynamodb","eventSourceARN":"arn:aws:dynamodb:us-east-1:123456789012:table/orders/stream/2024"}]}`,
			want: KindDynamoDB,
		},
		{
			name: "eventbridge event",
			raw:  `{"source":"com.example.orders","detail-type":"OrderPlaced","detail":{"id":"1"}}`,
			want: KindEventBridge,
		},
		{
			name: "records with unknown event source",
			raw:  `{"Records":[{"eventSource":"aws:kinesis"}]}`,
			want: KindUnknown,
		},
		{
			name: "empty records list",
			raw:  `{"Records":[]}`,
			want: KindUnknown,
		},
		{
			name: "missing detail field",
			raw:  `{"source":"com.example","detail-type":"X"}`,
			want: KindUnknown,
		},
		{
			name: "plain object",
			raw:  `{"foo":"bar"}`,
			want: KindUnknown,
		},
		{
			name: "invalid JSON",
			raw:  `{not json`,
			want: KindUnknown,
		},
		{
			name: "empty input",
			raw:  ``,
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify([]byte(tt.raw)); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify_PrecedenceSQSBeforeSNS(t *testing.T) {
	// A record carrying both an SQS source tag and an embedded Sns field
	// (an SNS notification delivered through a queue) is still an SQS batch.
	raw := `{"Records":[{"eventSource":"aws:sqs","Sns":{"Message":"hi"},"body":"{}"}]}`
	if got := Classify([]byte(raw)); got != KindSQS {
		t.Errorf("Classify() = %v, want %v", got, KindSQS)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSQS, "sqs"},
		{KindSNS, "sns"},
		{KindDynamoDB, "dynamodb"},
		{KindEventBridge, "eventbridge"},
		{KindUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
