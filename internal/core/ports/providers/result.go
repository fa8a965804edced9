package providers

// ResultKind tags the outcome of one upstream call.
type ResultKind int

const (
	// ResultOK means the payload is present and usable.
	ResultOK ResultKind = iota
	// ResultLimitReached means the provider refused the call because of a quota or rate limit.
	ResultLimitReached
	// ResultMalformed means the provider answered but the payload is unusable.
	ResultMalformed
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultLimitReached:
		return "limit_reached"
	case ResultMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of an upstream call. Payload is only meaningful when Kind is ResultOK;
// Detail carries the provider's explanation otherwise.
type Result[T any] struct {
	Kind    ResultKind
	Payload T
	Detail  string
}

// OK wraps a usable payload.
func OK[T any](payload T) Result[T] {
	return Result[T]{Kind: ResultOK, Payload: payload}
}

// LimitReached reports a quota refusal.
func LimitReached[T any](detail string) Result[T] {
	return Result[T]{Kind: ResultLimitReached, Detail: detail}
}

// Malformed reports an unusable payload.
func Malformed[T any](detail string) Result[T] {
	return Result[T]{Kind: ResultMalformed, Detail: detail}
}

// IsOK reports whether the payload can be used.
func (r Result[T]) IsOK() bool {
	return r.Kind == ResultOK
}
