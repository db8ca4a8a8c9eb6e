// Package stripe implements the card-processor adapter. Stripe only serves
// card-present flows here: no checkout setup, no token payments, and no
// detail lookup, so get_details requests against it short-circuit in the
// gateway without ever reaching this code.
package stripe

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"paygate/internal/provider"
	"paygate/internal/provider/base"

	"github.com/google/go-querystring/query"
)

const apiURL = "https://api.stripe.com"

// Adapter talks to the Stripe charges API.
type Adapter struct {
	apiKey string
	client *base.Client
}

// New constructs the adapter. Sandbox and production share endpoints; the
// configured key decides which mode the account runs in.
func New(_ provider.Environment, creds provider.Credentials, _ provider.Deps) (provider.Adapter, error) {
	apiKey := creds["api_key"]
	if apiKey == "" {
		return nil, fmt.Errorf("stripe: api_key is required")
	}

	return &Adapter{
		apiKey: apiKey,
		client: base.NewClient("stripe", apiURL, 30*time.Second),
	}, nil
}

func (a *Adapter) Name() string {
	return "Stripe"
}

func (a *Adapter) SupportedOperations() []provider.Operation {
	return []provider.Operation{
		provider.OpPayStandard,
		provider.OpCapture,
	}
}

// ConfirmationURL is empty: Stripe has no buyer redirect flow here.
func (a *Adapter) ConfirmationURL(string) string {
	return ""
}

func (a *Adapter) SetupAuthorization(context.Context, int64, provider.Options) (*provider.Result, error) {
	return nil, a.unsupported("checkout setup")
}

func (a *Adapter) SetupPurchase(context.Context, int64, provider.Options) (*provider.Result, error) {
	return nil, a.unsupported("checkout setup")
}

func (a *Adapter) Authorize(ctx context.Context, amount int64, card *provider.Card, opts provider.Options) (*provider.Result, error) {
	return a.charge(ctx, amount, card, opts, false)
}

func (a *Adapter) Purchase(ctx context.Context, amount int64, card *provider.Card, opts provider.Options) (*provider.Result, error) {
	return a.charge(ctx, amount, card, opts, true)
}

func (a *Adapter) Capture(ctx context.Context, amount int64, paymentID string, _ provider.Options) (*provider.Result, error) {
	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", amount))
	return a.post(ctx, "/v1/charges/"+url.PathEscape(paymentID)+"/capture", form)
}

func (a *Adapter) DetailsFor(context.Context, string) (*provider.Result, error) {
	return nil, a.unsupported("detail lookup")
}

func (a *Adapter) TransactionDetails(context.Context, string) (*provider.Result, error) {
	return nil, a.unsupported("detail lookup")
}

// chargeParams is the form-encoded charges payload.
type chargeParams struct {
	Amount      int64  `url:"amount"`
	Currency    string `url:"currency"`
	Capture     bool   `url:"capture"`
	Number      string `url:"card[number]"`
	ExpMonth    int    `url:"card[exp_month]"`
	ExpYear     int    `url:"card[exp_year]"`
	CVC         string `url:"card[cvc]"`
	Name        string `url:"card[name]"`
	Description string `url:"description,omitempty"`
}

func (a *Adapter) charge(ctx context.Context, amount int64, card *provider.Card, opts provider.Options, capture bool) (*provider.Result, error) {
	if card == nil {
		return nil, a.unsupported("token payments")
	}

	params := chargeParams{
		Amount:   amount,
		Currency: opts.Currency,
		Capture:  capture,
		Number:   card.Number,
		ExpMonth: card.Month,
		ExpYear:  card.Year,
		CVC:      card.VerificationValue,
		Name:     card.FirstName + " " + card.LastName,
	}
	if len(opts.Items) > 0 {
		params.Description = opts.Items[0].Name
	}

	form, err := query.Values(params)
	if err != nil {
		return nil, &provider.Error{Code: provider.ErrRequestFailed, Message: err.Error()}
	}
	return a.post(ctx, "/v1/charges", form)
}

func (a *Adapter) post(ctx context.Context, endpoint string, form url.Values) (*provider.Result, error) {
	resp, err := a.client.PostForm(ctx, endpoint, form, map[string]string{
		"Authorization": "Bearer " + a.apiKey,
	})
	if err != nil {
		return nil, &provider.Error{Code: provider.ErrRequestFailed, Message: err.Error()}
	}
	return decodeResult(resp)
}

func (a *Adapter) unsupported(what string) error {
	return &provider.Error{
		Code:    provider.ErrOperationNotSupported,
		Message: "Stripe does not support " + what,
	}
}

// decodeResult maps a charges response onto the unified result shape. Stripe
// signals failure either with an error object or a non-2xx status.
func decodeResult(resp *base.Response) (*provider.Result, error) {
	var params map[string]any
	if err := resp.Decode(&params); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrResponseParseFailed,
			Message: fmt.Sprintf("failed to parse stripe response: %v", err),
		}
	}

	result := &provider.Result{Params: params}
	result.TransactionID, _ = params["id"].(string)

	if errObj, ok := params["error"].(map[string]any); ok {
		result.Message, _ = errObj["message"].(string)
		return result, nil
	}
	if message, ok := params["failure_message"].(string); ok && message != "" {
		result.Message = message
		return result, nil
	}
	if !resp.IsSuccess() {
		result.Message = fmt.Sprintf("stripe returned status %d", resp.StatusCode)
		return result, nil
	}

	result.Success = true
	result.Message, _ = params["status"].(string)
	return result, nil
}
