package provider

// Result is the unified outcome of any adapter call. Adapters translate
// whatever their backend returns into this shape before it reaches the
// gateway, so the gateway never distinguishes how a failure was signalled.
type Result struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	Token         string         `json:"token,omitempty"`
	TransactionID string         `json:"transaction_id,omitempty"`
	Params        map[string]any `json:"params,omitempty"`
}

// StringParam returns the named top-level param if it is a string.
func (r *Result) StringParam(key string) string {
	if s, ok := r.Params[key].(string); ok {
		return s
	}
	return ""
}

// NestedString walks nested param maps and returns the string at the end of
// the key path, or "" if any step is missing or of the wrong shape.
func (r *Result) NestedString(keys ...string) string {
	var current any = r.Params
	for _, key := range keys {
		m, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = m[key]
	}
	s, _ := current.(string)
	return s
}

// Error is a provider-level failure: bad credentials, transport trouble, or
// a backend rejection that has no structured result.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Error codes shared across adapters.
const (
	ErrAuthFailed            = "auth_failed"
	ErrRequestFailed         = "request_failed"
	ErrResponseParseFailed   = "response_parse_failed"
	ErrOperationNotSupported = "operation_not_supported"
)
