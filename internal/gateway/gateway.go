// Package gateway is the payment orchestration core: it validates normalized
// payment requests, routes them to the configured provider backend, folds
// every provider failure into one uniform error shape, and emits an audit
// event for each completed attempt.
package gateway

import (
	"context"
	"encoding/json"
	"time"

	"paygate/internal/events"
	"paygate/internal/provider"

	"github.com/rs/zerolog/log"
)

// unsupportedDetailsMessage is returned when the chosen provider lacks the
// detail-lookup capability. Not an error: the caller gets empty errors and
// this informational record.
const unsupportedDetailsMessage = "unsupported"

// Gateway composes validator, registry and event sink. It is stateless
// across calls and safe for concurrent use once constructed.
type Gateway struct {
	validator *Validator
	registry  *provider.Registry
	sink      events.Sink
	topics    events.Topics
	now       func() time.Time
}

// New wires the orchestrator. The sink is injected, never global.
func New(validator *Validator, registry *provider.Registry, sink events.Sink, topics events.Topics) *Gateway {
	return &Gateway{
		validator: validator,
		registry:  registry,
		sink:      sink,
		topics:    topics,
		now:       time.Now,
	}
}

// Initiate authenticates the buyer with a cardless provider without moving
// money. The returned token and confirmation URL drive the later
// confirmation step.
func (g *Gateway) Initiate(ctx context.Context, req InitiateRequest) InitiateResult {
	errs := g.validator.ValidateInitiate(req)
	if len(errs) > 0 {
		return InitiateResult{Errors: errs}
	}

	adapter, err := g.registry.MustGet(req.Provider)
	if err != nil {
		return InitiateResult{Errors: addError(errs, "provider", "invalid")}
	}

	opts := provider.Options{
		Currency:           req.Currency,
		ReturnURL:          req.ReturnURL,
		CancelReturnURL:    req.CancelReturnURL,
		AllowGuestCheckout: req.AllowGuestCheckout,
		Items:              req.Items,
	}

	var result *provider.Result
	switch req.Intent {
	case IntentAuthorization:
		result, err = adapter.SetupAuthorization(ctx, req.PaymentSum, opts)
	case IntentPurchase:
		result, err = adapter.SetupPurchase(ctx, req.PaymentSum, opts)
	}
	if perr := providerFailure(result, err); perr != nil {
		logProviderFailure("initiate", req.Provider, *perr)
		return InitiateResult{Errors: append(errs, *perr)}
	}

	g.publishLog(ctx, result)

	return InitiateResult{
		Errors:          errs,
		Token:           result.Token,
		ConfirmationURL: adapter.ConfirmationURL(result.Token),
		InitiatedOn:     result.StringParam("timestamp"),
	}
}

// PayStandard authorizes or purchases with raw card data. ExecutedOn is
// server time for standard payments.
func (g *Gateway) PayStandard(ctx context.Context, req StandardRequest) PayResult {
	errs := g.validator.ValidateStandard(req)
	if len(errs) > 0 {
		return PayResult{Errors: errs}
	}

	adapter, err := g.registry.MustGet(req.Provider)
	if err != nil {
		return PayResult{Errors: addError(errs, "provider", "invalid")}
	}

	opts := provider.Options{
		Currency: req.Currency,
		Items:    req.Items,
	}

	var result *provider.Result
	switch req.Intent {
	case IntentAuthorization:
		result, err = adapter.Authorize(ctx, req.PaymentSum, req.Card, opts)
	case IntentPurchase:
		result, err = adapter.Purchase(ctx, req.PaymentSum, req.Card, opts)
	}
	if perr := providerFailure(result, err); perr != nil {
		logProviderFailure("pay_standard", req.Provider, *perr)
		return PayResult{Errors: append(errs, *perr)}
	}

	g.publishLog(ctx, result)

	return PayResult{
		Errors:     errs,
		PaymentID:  result.TransactionID,
		ExecutedOn: g.now().Format(time.RFC3339),
	}
}

// PayCardless authorizes or purchases with a confirmed setup token.
// ExecutedOn is the provider-reported payment date, not server time; the
// asymmetry with PayStandard is deliberate.
func (g *Gateway) PayCardless(ctx context.Context, req CardlessRequest) PayResult {
	errs := g.validator.ValidateCardless(req)
	if len(errs) > 0 {
		return PayResult{Errors: errs}
	}

	adapter, err := g.registry.MustGet(req.Provider)
	if err != nil {
		return PayResult{Errors: addError(errs, "provider", "invalid")}
	}

	opts := provider.Options{
		Currency: req.Currency,
		Token:    req.PaymentID,
		PayerID:  req.PayerID,
	}

	var result *provider.Result
	switch req.Intent {
	case IntentAuthorization:
		result, err = adapter.Authorize(ctx, req.PaymentSum, nil, opts)
	case IntentPurchase:
		result, err = adapter.Purchase(ctx, req.PaymentSum, nil, opts)
	}
	if perr := providerFailure(result, err); perr != nil {
		logProviderFailure("pay_cardless", req.Provider, *perr)
		return PayResult{Errors: append(errs, *perr)}
	}

	g.publishLog(ctx, result)

	return PayResult{
		Errors:     errs,
		PaymentID:  result.TransactionID,
		ExecutedOn: result.NestedString("PaymentInfo", "PaymentDate"),
	}
}

// Capture draws down a prior authorization; the captured sum may be less
// than the authorized one.
func (g *Gateway) Capture(ctx context.Context, req CaptureRequest) PayResult {
	errs := g.validator.ValidateCapture(req)
	if len(errs) > 0 {
		return PayResult{Errors: errs}
	}

	adapter, err := g.registry.MustGet(req.Provider)
	if err != nil {
		return PayResult{Errors: addError(errs, "provider", "invalid")}
	}

	opts := provider.Options{Currency: req.Currency}
	result, err := adapter.Capture(ctx, req.PaymentSum, req.PaymentID, opts)
	if perr := providerFailure(result, err); perr != nil {
		logProviderFailure("capture", req.Provider, *perr)
		return PayResult{Errors: append(errs, *perr)}
	}

	g.publishLog(ctx, result)

	return PayResult{
		Errors:     errs,
		PaymentID:  result.TransactionID,
		ExecutedOn: g.now().Format(time.RFC3339),
	}
}

// Details looks a payment up by token or transaction id. Unlike the other
// operations it never publishes an event, and a provider without the lookup
// capability yields an informational record instead of a failure.
func (g *Gateway) Details(ctx context.Context, req DetailsRequest) DetailsResult {
	errs := g.validator.ValidateDetails(req)
	if len(errs) > 0 {
		return DetailsResult{Errors: errs}
	}

	adapter, err := g.registry.MustGet(req.Provider)
	if err != nil {
		return DetailsResult{Errors: addError(errs, "provider", "invalid")}
	}

	if !provider.Supports(adapter, provider.OpDetails) {
		return DetailsResult{
			Errors:  errs,
			Details: map[string]any{"message": unsupportedDetailsMessage},
		}
	}

	var result *provider.Result
	switch req.IDType {
	case IDTypeToken:
		result, err = adapter.DetailsFor(ctx, req.Identifier)
	case IDTypeTransactionID:
		result, err = adapter.TransactionDetails(ctx, req.Identifier)
	}
	if perr := providerFailure(result, err); perr != nil {
		logProviderFailure("get_details", req.Provider, *perr)
		return DetailsResult{Errors: append(errs, *perr)}
	}

	return DetailsResult{Errors: errs, Details: result.Params}
}

// providerFailure folds the two provider failure channels into one shape:
// a raised error and a structured non-success result are indistinguishable
// to the caller.
func providerFailure(result *provider.Result, err error) *PaymentError {
	if err != nil {
		return &PaymentError{Source: "provider", Code: err.Error()}
	}
	if !result.Success {
		return &PaymentError{Source: "provider", Code: result.Message}
	}
	return nil
}

// publishLog emits the raw provider result to the log topic. Publication is
// fire-and-forget: a failed publish is logged and the payment outcome is
// still returned as success.
func (g *Gateway) publishLog(ctx context.Context, result *provider.Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		log.Warn().Err(err).Msg("failed to serialize provider result for audit log")
		return
	}
	if err := g.sink.Publish(ctx, g.topics.Log, payload); err != nil {
		log.Warn().Err(err).Msg("audit log publish failed")
	}
}

func logProviderFailure(operation string, providerType provider.Type, perr PaymentError) {
	log.Error().
		Str("operation", operation).
		Str("provider", string(providerType)).
		Str("reason", perr.Code).
		Msg("provider call failed")
}
