package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	name string
	ops  []Operation
}

func (s *stubAdapter) Name() string                        { return s.name }
func (s *stubAdapter) SupportedOperations() []Operation    { return s.ops }
func (s *stubAdapter) ConfirmationURL(token string) string { return "" }

func (s *stubAdapter) SetupAuthorization(context.Context, int64, Options) (*Result, error) {
	return nil, nil
}
func (s *stubAdapter) SetupPurchase(context.Context, int64, Options) (*Result, error) {
	return nil, nil
}
func (s *stubAdapter) Authorize(context.Context, int64, *Card, Options) (*Result, error) {
	return nil, nil
}
func (s *stubAdapter) Purchase(context.Context, int64, *Card, Options) (*Result, error) {
	return nil, nil
}
func (s *stubAdapter) Capture(context.Context, int64, string, Options) (*Result, error) {
	return nil, nil
}
func (s *stubAdapter) DetailsFor(context.Context, string) (*Result, error)         { return nil, nil }
func (s *stubAdapter) TransactionDetails(context.Context, string) (*Result, error) { return nil, nil }

func TestBuildRegistry_SkipsFailedConstructors(t *testing.T) {
	configs := map[Type]Credentials{
		TypePaypalExpress: {"client_id": "id"},
		TypeStripe:        {},
		"unknown_backend": {"key": "value"},
	}
	constructors := map[Type]Constructor{
		TypePaypalExpress: func(Environment, Credentials, Deps) (Adapter, error) {
			return &stubAdapter{name: "paypal"}, nil
		},
		TypeStripe: func(Environment, Credentials, Deps) (Adapter, error) {
			return nil, errors.New("api_key is required")
		},
	}

	registry := BuildRegistry(EnvSandbox, configs, constructors, Deps{})

	// One good provider; the broken and the unknown one are excluded, and
	// construction as a whole still succeeded.
	require.Equal(t, []Type{TypePaypalExpress}, registry.Types())

	_, ok := registry.Get(TypePaypalExpress)
	assert.True(t, ok)
	_, ok = registry.Get(TypeStripe)
	assert.False(t, ok)

	_, err := registry.MustGet(TypeStripe)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "provider_not_found", perr.Code)
}

func TestBuildRegistry_Empty(t *testing.T) {
	registry := BuildRegistry(EnvSandbox, nil, nil, Deps{})
	assert.Empty(t, registry.Types())
}

func TestSupports(t *testing.T) {
	adapter := &stubAdapter{ops: []Operation{OpPayStandard, OpCapture}}
	assert.True(t, Supports(adapter, OpCapture))
	assert.False(t, Supports(adapter, OpDetails))
}

func TestResultNestedString(t *testing.T) {
	result := &Result{Params: map[string]any{
		"timestamp": "2026-08-30T10:00:00Z",
		"PaymentInfo": map[string]any{
			"PaymentDate": "2026-08-30T10:01:00Z",
		},
	}}

	assert.Equal(t, "2026-08-30T10:00:00Z", result.StringParam("timestamp"))
	assert.Equal(t, "2026-08-30T10:01:00Z", result.NestedString("PaymentInfo", "PaymentDate"))
	assert.Empty(t, result.NestedString("PaymentInfo", "Missing"))
	assert.Empty(t, result.NestedString("Missing", "PaymentDate"))
}

func TestCardMissingFields(t *testing.T) {
	complete := &Card{
		Number:            "4111111111111111",
		FirstName:         "Jane",
		LastName:          "Doe",
		Month:             6,
		Year:              2030,
		VerificationValue: "123",
	}
	assert.Empty(t, complete.MissingFields())

	incomplete := &Card{FirstName: "Jane", Month: 13}
	assert.ElementsMatch(t,
		[]string{"primary_number", "last_name", "month", "year", "verification_value"},
		incomplete.MissingFields())
}
