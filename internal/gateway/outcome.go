package gateway

// PaymentError is one validation or provider violation. Source names the
// offending field, or "provider" when the backend rejected the call; Code is
// a short machine-readable reason.
type PaymentError struct {
	Source string `json:"source"`
	Code   string `json:"error_code"`
}

// InitiateResult is the outcome of a cardless setup. Errors non-empty means
// failure and no other field is populated.
type InitiateResult struct {
	Errors          []PaymentError `json:"payment_errors"`
	Token           string         `json:"token,omitempty"`
	ConfirmationURL string         `json:"confirm_initiation_url,omitempty"`
	InitiatedOn     string         `json:"initiated_on,omitempty"`
}

// PayResult is the outcome of pay_standard, pay_cardless and capture.
type PayResult struct {
	Errors     []PaymentError `json:"payment_errors"`
	PaymentID  string         `json:"payment_id,omitempty"`
	ExecutedOn string         `json:"executed_on,omitempty"`
}

// DetailsResult is the outcome of a detail lookup. A provider without the
// lookup capability yields empty Errors and an informational Details record;
// that is a third branch, not a failure.
type DetailsResult struct {
	Errors  []PaymentError `json:"errors"`
	Details map[string]any `json:"details,omitempty"`
}
