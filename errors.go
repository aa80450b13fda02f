package eventmux

import "errors"

// ErrUnknownEvent is returned by Invoke when the payload matches no known
// event shape and the mux was built with WithStrictClassification.
var ErrUnknownEvent = errors.New("unrecognized event shape")

// ProtocolError reports a violation of the middleware chain contract, such
// as calling next more than once within a single middleware invocation. The
// affected record always fails with this error; a registered ErrorHandler
// observes it but cannot swallow it.
type ProtocolError struct {
	// Violation describes the broken rule.
	Violation string
}

func (e *ProtocolError) Error() string {
	return "middleware protocol: " + e.Violation
}
