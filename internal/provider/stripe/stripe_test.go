package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paygate/internal/provider"
	"paygate/internal/provider/base"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAdapter(serverURL string) *Adapter {
	return &Adapter{
		apiKey: "sk_test_123",
		client: base.NewClient("stripe", serverURL, 5*time.Second),
	}
}

func testCard() *provider.Card {
	return &provider.Card{
		Number:            "4242424242424242",
		FirstName:         "Jane",
		LastName:          "Doe",
		Month:             12,
		Year:              2031,
		VerificationValue: "123",
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(provider.EnvSandbox, provider.Credentials{}, provider.Deps{})
	require.Error(t, err)

	adapter, err := New(provider.EnvSandbox, provider.Credentials{"api_key": "sk_test_123"}, provider.Deps{})
	require.NoError(t, err)
	assert.False(t, provider.Supports(adapter, provider.OpDetails))
	assert.True(t, provider.Supports(adapter, provider.OpPayStandard))
}

func TestAuthorize_SendsUncapturedCharge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "1000", r.FormValue("amount"))
		assert.Equal(t, "usd", r.FormValue("currency"))
		assert.Equal(t, "false", r.FormValue("capture"))
		assert.Equal(t, "4242424242424242", r.FormValue("card[number]"))
		json.NewEncoder(w).Encode(map[string]any{"id": "ch_1", "status": "succeeded"})
	}))
	defer srv.Close()

	a := testAdapter(srv.URL)
	result, err := a.Authorize(context.Background(), 1000, testCard(), provider.Options{Currency: "usd"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "ch_1", result.TransactionID)
}

func TestPurchase_ErrorObjectBecomesFailureResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Your card was declined."},
		})
	}))
	defer srv.Close()

	a := testAdapter(srv.URL)
	result, err := a.Purchase(context.Background(), 1000, testCard(), provider.Options{Currency: "usd"})

	require.NoError(t, err, "a declined charge is a result, not an error")
	assert.False(t, result.Success)
	assert.Equal(t, "Your card was declined.", result.Message)
}

func TestCapture_PostsToChargeCapture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/charges/ch_1/capture", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "300", r.FormValue("amount"))
		json.NewEncoder(w).Encode(map[string]any{"id": "ch_1", "status": "succeeded"})
	}))
	defer srv.Close()

	a := testAdapter(srv.URL)
	result, err := a.Capture(context.Background(), 300, "ch_1", provider.Options{Currency: "usd"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "ch_1", result.TransactionID)
}

func TestUnsupportedOperations(t *testing.T) {
	a := testAdapter("http://unused")

	_, err := a.SetupAuthorization(context.Background(), 100, provider.Options{})
	assertUnsupported(t, err)

	_, err = a.DetailsFor(context.Background(), "tok")
	assertUnsupported(t, err)

	// Token payments need a card-less flow Stripe does not offer here.
	_, err = a.Purchase(context.Background(), 100, nil, provider.Options{Token: "tok"})
	assertUnsupported(t, err)
}

func assertUnsupported(t *testing.T, err error) {
	t.Helper()
	var perr *provider.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, provider.ErrOperationNotSupported, perr.Code)
}
