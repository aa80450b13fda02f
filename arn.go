package eventmux

import "strings"

// arnResource returns the trailing resource element of an ARN, e.g. the
// queue name from arn:aws:sqs:us-east-1:123456789012:orders. Inputs that
// are not ARNs are returned unchanged.
func arnResource(arn string) string {
	if i := strings.LastIndex(arn, ":"); i >= 0 {
		return arn[i+1:]
	}
	return arn
}

// tableFromStreamARN extracts the table name from a DynamoDB stream ARN,
// e.g. arn:aws:dynamodb:us-east-1:123456789012:table/orders/stream/2024-01-01T00:00:00.000.
func tableFromStreamARN(arn string) string {
	res := arnResource(arn)
	parts := strings.Split(res, "/")
	if len(parts) >= 2 && parts[0] == "table" {
		return parts[1]
	}
	return res
}
