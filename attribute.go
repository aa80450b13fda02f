package eventmux

import (
	"strconv"

	"github.com/aws/aws-lambda-go/events"
)

// UnmarshalAttributeValue converts a DynamoDB attribute value into a plain
// Go value:
//
//	S    → string
//	N    → float64 (the raw number string when it exceeds float64)
//	B    → []byte
//	BOOL → bool
//	NULL → nil
//	SS   → []string
//	NS   → []float64
//	BS   → [][]byte
//	L    → []any
//	M    → map[string]any
//
// An unrecognized attribute type decodes to nil.
func UnmarshalAttributeValue(av events.DynamoDBAttributeValue) any {
	switch av.DataType() {
	case events.DataTypeString:
		return av.String()
	case events.DataTypeNumber:
		return decodeNumber(av.Number())
	case events.DataTypeBinary:
		return av.Binary()
	case events.DataTypeBoolean:
		return av.Boolean()
	case events.DataTypeNull:
		return nil
	case events.DataTypeStringSet:
		return av.StringSet()
	case events.DataTypeNumberSet:
		ns := av.NumberSet()
		out := make([]float64, 0, len(ns))
		for _, n := range ns {
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				continue
			}
			out = append(out, f)
		}
		return out
	case events.DataTypeBinarySet:
		return av.BinarySet()
	case events.DataTypeList:
		list := av.List()
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = UnmarshalAttributeValue(item)
		}
		return out
	case events.DataTypeMap:
		return UnmarshalAttributeValues(av.Map())
	default:
		return nil
	}
}

// UnmarshalAttributeValues converts a DynamoDB attribute map (stream image,
// key set) into a plain map. A nil input returns nil.
func UnmarshalAttributeValues(avs map[string]events.DynamoDBAttributeValue) map[string]any {
	if avs == nil {
		return nil
	}
	out := make(map[string]any, len(avs))
	for name, av := range avs {
		out[name] = UnmarshalAttributeValue(av)
	}
	return out
}

// decodeNumber parses a DynamoDB number string. DynamoDB numbers are
// arbitrary precision; values float64 cannot represent stay strings.
func decodeNumber(n string) any {
	f, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return n
	}
	return f
}
