// Package paypal implements the PayPal Express Checkout adapter. It is the
// only configured backend that supports detail lookup, and the reference
// backend for cardless flows: setup returns a token, the buyer confirms on
// the PayPal redirect page, and the token/payer-id pair pays later.
package paypal

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"paygate/internal/provider"
	"paygate/internal/provider/base"
)

const (
	sandboxAPIURL    = "https://api-m.sandbox.paypal.com"
	productionAPIURL = "https://api-m.paypal.com"

	sandboxWebHost    = "www.sandbox.paypal.com"
	productionWebHost = "www.paypal.com"
)

// Adapter talks to the PayPal REST surface.
type Adapter struct {
	env          provider.Environment
	clientID     string
	clientSecret string
	client       *base.Client
	tokens       provider.TokenStore
}

// New constructs the adapter. It fails when the credential set is
// incomplete; the registry logs the failure and leaves PayPal out.
func New(env provider.Environment, creds provider.Credentials, deps provider.Deps) (provider.Adapter, error) {
	clientID := creds["client_id"]
	clientSecret := creds["client_secret"]
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("paypal: client_id and client_secret are required")
	}

	apiURL := sandboxAPIURL
	if env == provider.EnvProduction {
		apiURL = productionAPIURL
	}

	return &Adapter{
		env:          env,
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       base.NewClient("paypal", apiURL, 30*time.Second),
		tokens:       deps.Tokens,
	}, nil
}

func (a *Adapter) Name() string {
	return "PayPal Express Checkout"
}

func (a *Adapter) SupportedOperations() []provider.Operation {
	return []provider.Operation{
		provider.OpInitiate,
		provider.OpPayStandard,
		provider.OpPayCardless,
		provider.OpCapture,
		provider.OpDetails,
	}
}

// ConfirmationURL points the buyer at the PayPal checkout page for a setup
// token.
func (a *Adapter) ConfirmationURL(token string) string {
	host := sandboxWebHost
	if a.env == provider.EnvProduction {
		host = productionWebHost
	}

	query := url.Values{}
	query.Set("cmd", "_express-checkout")
	query.Set("token", token)

	confirm := url.URL{
		Scheme:   "https",
		Host:     host,
		Path:     "/cgi-bin/webscr",
		RawQuery: query.Encode(),
	}
	return confirm.String()
}

func (a *Adapter) SetupAuthorization(ctx context.Context, amount int64, opts provider.Options) (*provider.Result, error) {
	return a.setup(ctx, "/v1/checkout/setup-authorization", amount, opts)
}

func (a *Adapter) SetupPurchase(ctx context.Context, amount int64, opts provider.Options) (*provider.Result, error) {
	return a.setup(ctx, "/v1/checkout/setup-purchase", amount, opts)
}

func (a *Adapter) setup(ctx context.Context, endpoint string, amount int64, opts provider.Options) (*provider.Result, error) {
	payload := map[string]any{
		"amount":               amount,
		"currency":             opts.Currency,
		"return_url":           opts.ReturnURL,
		"cancel_return_url":    opts.CancelReturnURL,
		"allow_guest_checkout": opts.AllowGuestCheckout,
	}
	if len(opts.Items) > 0 {
		payload["items"] = opts.Items
	}
	return a.post(ctx, endpoint, payload)
}

func (a *Adapter) Authorize(ctx context.Context, amount int64, card *provider.Card, opts provider.Options) (*provider.Result, error) {
	return a.pay(ctx, "/v1/payments/authorize", amount, card, opts)
}

func (a *Adapter) Purchase(ctx context.Context, amount int64, card *provider.Card, opts provider.Options) (*provider.Result, error) {
	return a.pay(ctx, "/v1/payments/purchase", amount, card, opts)
}

func (a *Adapter) pay(ctx context.Context, endpoint string, amount int64, card *provider.Card, opts provider.Options) (*provider.Result, error) {
	payload := map[string]any{
		"amount":   amount,
		"currency": opts.Currency,
	}
	if card != nil {
		payload["card"] = card
	} else {
		payload["token"] = opts.Token
		payload["payer_id"] = opts.PayerID
	}
	if len(opts.Items) > 0 {
		payload["items"] = opts.Items
	}
	return a.post(ctx, endpoint, payload)
}

func (a *Adapter) Capture(ctx context.Context, amount int64, paymentID string, opts provider.Options) (*provider.Result, error) {
	payload := map[string]any{
		"amount":         amount,
		"currency":       opts.Currency,
		"transaction_id": paymentID,
	}
	return a.post(ctx, "/v1/payments/capture", payload)
}

func (a *Adapter) DetailsFor(ctx context.Context, identifier string) (*provider.Result, error) {
	return a.get(ctx, "/v1/checkout/details?token="+url.QueryEscape(identifier))
}

func (a *Adapter) TransactionDetails(ctx context.Context, identifier string) (*provider.Result, error) {
	return a.get(ctx, "/v1/payments/"+url.PathEscape(identifier))
}

func (a *Adapter) post(ctx context.Context, endpoint string, payload map[string]any) (*provider.Result, error) {
	token, err := a.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.PostJSON(ctx, endpoint, payload, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		return nil, &provider.Error{Code: provider.ErrRequestFailed, Message: err.Error()}
	}
	return decodeResult(resp)
}

func (a *Adapter) get(ctx context.Context, endpoint string) (*provider.Result, error) {
	token, err := a.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Get(ctx, endpoint, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		return nil, &provider.Error{Code: provider.ErrRequestFailed, Message: err.Error()}
	}
	return decodeResult(resp)
}

// accessToken returns a cached OAuth token or fetches a fresh one via the
// client-credentials grant.
func (a *Adapter) accessToken(ctx context.Context) (string, error) {
	cacheKey := "paypal_express:" + string(a.env)
	if a.tokens != nil {
		if token, ok := a.tokens.Get(ctx, cacheKey); ok {
			return token, nil
		}
	}

	auth := base64.StdEncoding.EncodeToString([]byte(a.clientID + ":" + a.clientSecret))
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	resp, err := a.client.PostForm(ctx, "/v1/oauth2/token", form, map[string]string{
		"Authorization": "Basic " + auth,
	})
	if err != nil {
		return "", &provider.Error{Code: provider.ErrAuthFailed, Message: fmt.Sprintf("failed to get access token: %v", err)}
	}
	if !resp.IsSuccess() {
		return "", &provider.Error{Code: provider.ErrAuthFailed, Message: fmt.Sprintf("token endpoint returned status %d", resp.StatusCode)}
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := resp.Decode(&tokenResp); err != nil {
		return "", &provider.Error{Code: provider.ErrResponseParseFailed, Message: fmt.Sprintf("failed to parse token response: %v", err)}
	}

	if a.tokens != nil && tokenResp.ExpiresIn > 0 {
		// Refresh a little early rather than riding the token to expiry.
		ttl := time.Duration(tokenResp.ExpiresIn)*time.Second - 5*time.Minute
		if ttl > 0 {
			a.tokens.Set(ctx, cacheKey, tokenResp.AccessToken, ttl)
		}
	}
	return tokenResp.AccessToken, nil
}

// decodeResult maps a PayPal response body onto the unified result shape.
// The full decoded body is kept in Params; cardless payment timestamps live
// under PaymentInfo.PaymentDate in there.
func decodeResult(resp *base.Response) (*provider.Result, error) {
	var params map[string]any
	if err := resp.Decode(&params); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrResponseParseFailed,
			Message: fmt.Sprintf("failed to parse paypal response: %v", err),
		}
	}

	result := &provider.Result{Params: params}
	result.Token, _ = params["token"].(string)
	result.TransactionID, _ = params["transaction_id"].(string)
	result.Message, _ = params["message"].(string)

	ack, _ := params["ack"].(string)
	result.Success = strings.EqualFold(ack, "Success")
	if !result.Success && result.Message == "" {
		result.Message = fmt.Sprintf("paypal returned status %d", resp.StatusCode)
	}
	return result, nil
}
