package gateway

import (
	"testing"

	"paygate/internal/provider"

	"github.com/stretchr/testify/assert"
)

func newTestValidator() *Validator {
	return NewValidator([]provider.Type{provider.TypePaypalExpress, provider.TypeStripe})
}

func validCard() *Card {
	return &Card{
		Number:            "4111111111111111",
		FirstName:         "Jane",
		LastName:          "Doe",
		Month:             12,
		Year:              2031,
		VerificationValue: "123",
	}
}

func TestValidateCapture_UnregisteredProvider(t *testing.T) {
	v := newTestValidator()

	// "Stripe" (capitalized) is not a registered identifier.
	errs := v.ValidateCapture(CaptureRequest{
		PaymentRequest: PaymentRequest{Provider: "Stripe", PaymentSum: 500, Currency: "USD"},
		PaymentID:      "abc",
	})

	assert.Equal(t, []PaymentError{{Source: "provider", Code: "invalid"}}, errs)
}

func TestValidateStandard_MissingCard(t *testing.T) {
	v := newTestValidator()

	errs := v.ValidateStandard(StandardRequest{
		PaymentRequest: PaymentRequest{Provider: provider.TypePaypalExpress, PaymentSum: 1000, Currency: "USD"},
		Intent:         IntentPurchase,
		Card:           nil,
	})

	assert.Equal(t, []PaymentError{{Source: "payment_card", Code: "empty"}}, errs)
}

func TestValidateStandard_MalformedCard(t *testing.T) {
	v := newTestValidator()

	card := validCard()
	card.Number = ""
	card.Month = 0

	errs := v.ValidateStandard(StandardRequest{
		PaymentRequest: PaymentRequest{Provider: provider.TypePaypalExpress, PaymentSum: 1000, Currency: "USD"},
		Intent:         IntentAuthorization,
		Card:           card,
	})

	assert.Equal(t, []PaymentError{{Source: "payment_card", Code: "invalid_input"}}, errs)
}

func TestValidateCardless_EmptyPayerID(t *testing.T) {
	v := newTestValidator()

	errs := v.ValidateCardless(CardlessRequest{
		PaymentRequest: PaymentRequest{Provider: provider.TypePaypalExpress, PaymentSum: 200, Currency: "EUR"},
		Intent:         IntentAuthorization,
		PaymentID:      "tok1",
		PayerID:        "",
	})

	assert.Equal(t, []PaymentError{{Source: "payer_id", Code: "empty"}}, errs)
}

func TestValidateInitiate_ReportsAllViolationsInOnePass(t *testing.T) {
	v := newTestValidator()

	// Everything wrong at once: validation must not stop at the first rule.
	errs := v.ValidateInitiate(InitiateRequest{
		PaymentRequest: PaymentRequest{Provider: "nowhere", PaymentSum: 0, Currency: ""},
		Intent:         IntentNone,
	})

	assert.Equal(t, []PaymentError{
		{Source: "provider", Code: "invalid"},
		{Source: "payment_sum", Code: "empty"},
		{Source: "payment_sum", Code: "invalid"},
		{Source: "currency", Code: "empty"},
		{Source: "intent", Code: "invalid"},
		{Source: "return_url", Code: "empty"},
		{Source: "cancel_return_url", Code: "empty"},
	}, errs)
}

func TestValidateInitiate_Valid(t *testing.T) {
	v := newTestValidator()

	errs := v.ValidateInitiate(InitiateRequest{
		PaymentRequest:  PaymentRequest{Provider: provider.TypePaypalExpress, PaymentSum: 1500, Currency: "USD"},
		Intent:          IntentAuthorization,
		ReturnURL:       "https://shop.example/return",
		CancelReturnURL: "https://shop.example/cancel",
	})

	assert.Empty(t, errs)
}

func TestValidateCommon_NegativeSum(t *testing.T) {
	v := newTestValidator()

	errs := v.ValidateCapture(CaptureRequest{
		PaymentRequest: PaymentRequest{Provider: provider.TypeStripe, PaymentSum: -5, Currency: "USD"},
		PaymentID:      "ch_1",
	})

	assert.Equal(t, []PaymentError{{Source: "payment_sum", Code: "invalid"}}, errs)
}

func TestValidateCommon_ZeroSumIsBothEmptyAndInvalid(t *testing.T) {
	v := newTestValidator()

	// Zero trips both independent sum rules; each reports on its own.
	errs := v.ValidateCapture(CaptureRequest{
		PaymentRequest: PaymentRequest{Provider: provider.TypeStripe, PaymentSum: 0, Currency: "USD"},
		PaymentID:      "ch_1",
	})

	assert.Equal(t, []PaymentError{
		{Source: "payment_sum", Code: "empty"},
		{Source: "payment_sum", Code: "invalid"},
	}, errs)
}

func TestValidateDetails(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		req  DetailsRequest
		want []PaymentError
	}{
		{
			name: "valid token lookup",
			req:  DetailsRequest{Provider: provider.TypePaypalExpress, Identifier: "tok1", IDType: IDTypeToken},
			want: []PaymentError{},
		},
		{
			name: "no identifier type",
			req:  DetailsRequest{Provider: provider.TypePaypalExpress, Identifier: "tok1", IDType: IDTypeNone},
			want: []PaymentError{{Source: "id_type", Code: "invalid"}},
		},
		{
			name: "everything missing",
			req:  DetailsRequest{},
			want: []PaymentError{
				{Source: "provider", Code: "invalid"},
				{Source: "identifier", Code: "empty"},
				{Source: "id_type", Code: "invalid"},
			},
		},
		{
			// The shared ruleset does not apply: no sum or currency errors.
			name: "only details rules run",
			req:  DetailsRequest{Provider: provider.TypeStripe, Identifier: "tx1", IDType: IDTypeTransactionID},
			want: []PaymentError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.ValidateDetails(tt.req))
		})
	}
}

func TestValidation_Idempotent(t *testing.T) {
	v := newTestValidator()

	req := CardlessRequest{
		PaymentRequest: PaymentRequest{Provider: "unknown", PaymentSum: 0, Currency: ""},
		Intent:         IntentNone,
	}

	first := v.ValidateCardless(req)
	second := v.ValidateCardless(req)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestParseIntent(t *testing.T) {
	assert.Equal(t, IntentAuthorization, ParseIntent("AUTHORIZATION"))
	assert.Equal(t, IntentPurchase, ParseIntent("purchase"))
	assert.Equal(t, IntentNone, ParseIntent("NO_INTENT"))
	assert.Equal(t, IntentNone, ParseIntent(""))
}

func TestParseIDType(t *testing.T) {
	assert.Equal(t, IDTypeToken, ParseIDType("TOKEN"))
	assert.Equal(t, IDTypeTransactionID, ParseIDType("transaction_id"))
	assert.Equal(t, IDTypeNone, ParseIDType("NO_IDENTIFIER_TYPE"))
}
