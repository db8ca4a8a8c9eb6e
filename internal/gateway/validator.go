package gateway

import "paygate/internal/provider"

// Validator checks requests against the per-operation rulesets. Every
// applicable rule is evaluated independently so callers get the complete
// violation list in one round trip; nothing short-circuits. The known
// provider set comes from the registry at construction and never changes.
type Validator struct {
	known map[provider.Type]struct{}
}

// NewValidator builds a validator over the registered provider types.
func NewValidator(types []provider.Type) *Validator {
	known := make(map[provider.Type]struct{}, len(types))
	for _, t := range types {
		known[t] = struct{}{}
	}
	return &Validator{known: known}
}

// ValidateInitiate checks a cardless setup request.
func (v *Validator) ValidateInitiate(req InitiateRequest) []PaymentError {
	errs := v.common(req.PaymentRequest)
	if intentInvalid(req.Intent) {
		errs = addError(errs, "intent", "invalid")
	}
	if req.ReturnURL == "" {
		errs = addError(errs, "return_url", "empty")
	}
	if req.CancelReturnURL == "" {
		errs = addError(errs, "cancel_return_url", "empty")
	}
	return errs
}

// ValidateStandard checks a card-present payment request. An absent card and
// a structurally malformed card are distinct violations, both reported under
// source payment_card.
func (v *Validator) ValidateStandard(req StandardRequest) []PaymentError {
	errs := v.common(req.PaymentRequest)
	if intentInvalid(req.Intent) {
		errs = addError(errs, "intent", "invalid")
	}
	if req.Card == nil {
		errs = addError(errs, "payment_card", "empty")
	} else if len(req.Card.MissingFields()) > 0 {
		errs = addError(errs, "payment_card", "invalid_input")
	}
	return errs
}

// ValidateCardless checks a token payment request.
func (v *Validator) ValidateCardless(req CardlessRequest) []PaymentError {
	errs := v.common(req.PaymentRequest)
	if req.PaymentID == "" {
		errs = addError(errs, "payment_id", "empty")
	}
	if req.PayerID == "" {
		errs = addError(errs, "payer_id", "empty")
	}
	if intentInvalid(req.Intent) {
		errs = addError(errs, "intent", "invalid")
	}
	return errs
}

// ValidateCapture checks a capture request. Capture is a single verb, so
// there is no intent rule.
func (v *Validator) ValidateCapture(req CaptureRequest) []PaymentError {
	errs := v.common(req.PaymentRequest)
	if req.PaymentID == "" {
		errs = addError(errs, "payment_id", "empty")
	}
	return errs
}

// ValidateDetails checks a detail lookup. The shared ruleset does not run
// here; only provider, identifier and id_type are checked.
func (v *Validator) ValidateDetails(req DetailsRequest) []PaymentError {
	errs := []PaymentError{}
	if v.providerInvalid(req.Provider) {
		errs = addError(errs, "provider", "invalid")
	}
	if req.Identifier == "" {
		errs = addError(errs, "identifier", "empty")
	}
	if req.IDType != IDTypeToken && req.IDType != IDTypeTransactionID {
		errs = addError(errs, "id_type", "invalid")
	}
	return errs
}

// common evaluates the rules shared by every operation except get_details.
func (v *Validator) common(req PaymentRequest) []PaymentError {
	errs := []PaymentError{}
	if v.providerInvalid(req.Provider) {
		errs = addError(errs, "provider", "invalid")
	}
	if req.PaymentSum == 0 {
		errs = addError(errs, "payment_sum", "empty")
	}
	if req.PaymentSum <= 0 {
		errs = addError(errs, "payment_sum", "invalid")
	}
	if req.Currency == "" {
		errs = addError(errs, "currency", "empty")
	}
	return errs
}

func (v *Validator) providerInvalid(value provider.Type) bool {
	if value == "" {
		return true
	}
	_, ok := v.known[value]
	return !ok
}

func intentInvalid(value Intent) bool {
	return value != IntentAuthorization && value != IntentPurchase
}

func addError(errs []PaymentError, source, code string) []PaymentError {
	return append(errs, PaymentError{Source: source, Code: code})
}
