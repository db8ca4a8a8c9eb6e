package gateway

import (
	"strings"

	"paygate/internal/provider"
)

// Re-export provider value types for transport convenience.
type (
	Card = provider.Card
	Item = provider.Item
)

// Intent says whether an operation only reserves funds or draws them in one
// step. The zero value is the "no intent" sentinel and never validates.
type Intent string

const (
	IntentNone          Intent = ""
	IntentAuthorization Intent = "authorization"
	IntentPurchase      Intent = "purchase"
)

// ParseIntent maps a wire value onto an Intent; unknown values map to
// IntentNone and are rejected by validation.
func ParseIntent(value string) Intent {
	switch strings.ToLower(value) {
	case "authorization":
		return IntentAuthorization
	case "purchase":
		return IntentPurchase
	default:
		return IntentNone
	}
}

// IDType selects how a detail lookup identifies a payment. The zero value is
// the "no identifier type" sentinel.
type IDType string

const (
	IDTypeNone          IDType = ""
	IDTypeToken         IDType = "token"
	IDTypeTransactionID IDType = "transaction_id"
)

// ParseIDType maps a wire value onto an IDType; unknown values map to
// IDTypeNone and are rejected by validation.
func ParseIDType(value string) IDType {
	switch strings.ToLower(value) {
	case "token":
		return IDTypeToken
	case "transaction_id":
		return IDTypeTransactionID
	default:
		return IDTypeNone
	}
}

// PaymentRequest holds the fields common to every money-moving operation.
// PaymentSum is a positive integer in the smallest currency unit.
type PaymentRequest struct {
	Provider   provider.Type
	PaymentSum int64
	Currency   string
}

// InitiateRequest sets up a cardless payment: the buyer authenticates on the
// provider side and comes back with a token for later confirmation.
type InitiateRequest struct {
	PaymentRequest
	Intent             Intent
	ReturnURL          string
	CancelReturnURL    string
	AllowGuestCheckout bool
	Items              []Item
}

// StandardRequest pays with raw card data.
type StandardRequest struct {
	PaymentRequest
	Intent Intent
	Card   *Card
	Items  []Item
}

// CardlessRequest pays with a previously initiated and confirmed token.
type CardlessRequest struct {
	PaymentRequest
	Intent    Intent
	PaymentID string
	PayerID   string
}

// CaptureRequest draws down a prior authorization, possibly partially.
type CaptureRequest struct {
	PaymentRequest
	PaymentID string
}

// DetailsRequest looks a payment up by token or transaction id. It carries
// no sum or currency; the shared validation rules do not apply to it.
type DetailsRequest struct {
	Provider   provider.Type
	Identifier string
	IDType     IDType
}
