package eventmux

import (
	"github.com/tidwall/gjson"
)

// Classify determines the structural shape of a raw Lambda payload without
// fully decoding it. Classification is purely structural: it probes field
// presence and values, never unmarshals the whole document, and never
// fails — a payload that matches nothing is KindUnknown.
//
// Precedence for payloads carrying a Records list:
//
//  1. first record's eventSource is "aws:sqs" → KindSQS
//  2. first record embeds an Sns envelope → KindSNS
//  3. first record's eventSource is "aws:dynamodb" → KindDynamoDB
//
// A top-level object with source, detail-type, and detail fields is
// KindEventBridge. Anything else is KindUnknown.
func Classify(raw []byte) Kind {
	if !gjson.ValidBytes(raw) {
		return KindUnknown
	}

	if first := gjson.GetBytes(raw, "Records.0"); first.Exists() {
		switch {
		case first.Get("eventSource").String() == "aws:sqs":
			return KindSQS
		case first.Get("Sns").Exists(),
			first.Get("EventSource").String() == "aws:sns":
			return KindSNS
		case first.Get("eventSource").String() == "aws:dynamodb":
			return KindDynamoDB
		}
		return KindUnknown
	}

	if gjson.GetBytes(raw, "source").Exists() &&
		gjson.GetBytes(raw, "detail-type").Exists() &&
		gjson.GetBytes(raw, "detail").Exists() {
		return KindEventBridge
	}

	return KindUnknown
}
