package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"paygate/internal/events"
	"paygate/internal/gateway"
	"paygate/internal/provider"

	"github.com/rs/zerolog/log"
)

// Service is the orchestration surface the transport depends on.
type Service interface {
	Initiate(ctx context.Context, req gateway.InitiateRequest) gateway.InitiateResult
	PayStandard(ctx context.Context, req gateway.StandardRequest) gateway.PayResult
	PayCardless(ctx context.Context, req gateway.CardlessRequest) gateway.PayResult
	Capture(ctx context.Context, req gateway.CaptureRequest) gateway.PayResult
	Details(ctx context.Context, req gateway.DetailsRequest) gateway.DetailsResult
}

// Payments exposes the five gateway operations over HTTP. Forwarding
// capture-equivalent responses to the results topic is a transport concern
// and lives here, not in the gateway: pay responses are forwarded only when
// the intent was purchase, capture responses always, the rest never.
type Payments struct {
	svc    Service
	sink   events.Sink
	topics events.Topics
}

func NewPayments(svc Service, sink events.Sink, topics events.Topics) *Payments {
	return &Payments{svc: svc, sink: sink, topics: topics}
}

type itemDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Amount      int64  `json:"amount"`
}

type cardDTO struct {
	PrimaryNumber     string `json:"primary_number"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Month             int    `json:"month"`
	Year              int    `json:"year"`
	VerificationValue string `json:"verification_value"`
}

type initiateDTO struct {
	Provider           string    `json:"provider"`
	Intent             string    `json:"intent"`
	PaymentSum         int64     `json:"payment_sum"`
	Currency           string    `json:"currency"`
	ReturnURL          string    `json:"return_url"`
	CancelReturnURL    string    `json:"cancel_return_url"`
	AllowGuestCheckout bool      `json:"allow_guest_checkout"`
	Items              []itemDTO `json:"items"`
}

type standardDTO struct {
	Provider    string    `json:"provider"`
	Intent      string    `json:"intent"`
	PaymentSum  int64     `json:"payment_sum"`
	Currency    string    `json:"currency"`
	PaymentCard *cardDTO  `json:"payment_card"`
	Items       []itemDTO `json:"items"`
}

type cardlessDTO struct {
	Provider   string `json:"provider"`
	Intent     string `json:"intent"`
	PaymentSum int64  `json:"payment_sum"`
	Currency   string `json:"currency"`
	PaymentID  string `json:"payment_id"`
	PayerID    string `json:"payer_id"`
}

type captureDTO struct {
	Provider   string `json:"provider"`
	PaymentSum int64  `json:"payment_sum"`
	Currency   string `json:"currency"`
	PaymentID  string `json:"payment_id"`
}

type detailsDTO struct {
	Provider   string `json:"provider"`
	Identifier string `json:"identifier"`
	IDType     string `json:"id_type"`
}

func (h *Payments) Initiate(w http.ResponseWriter, r *http.Request) {
	var in initiateDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	result := h.svc.Initiate(r.Context(), gateway.InitiateRequest{
		PaymentRequest:     commonFields(in.Provider, in.PaymentSum, in.Currency),
		Intent:             gateway.ParseIntent(in.Intent),
		ReturnURL:          in.ReturnURL,
		CancelReturnURL:    in.CancelReturnURL,
		AllowGuestCheckout: in.AllowGuestCheckout,
		Items:              convertItems(in.Items),
	})

	respondJSON(w, result)
}

func (h *Payments) PayStandard(w http.ResponseWriter, r *http.Request) {
	var in standardDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	intent := gateway.ParseIntent(in.Intent)
	result := h.svc.PayStandard(r.Context(), gateway.StandardRequest{
		PaymentRequest: commonFields(in.Provider, in.PaymentSum, in.Currency),
		Intent:         intent,
		Card:           convertCard(in.PaymentCard),
		Items:          convertItems(in.Items),
	})

	// Forward only if a capture was attempted.
	if intent == gateway.IntentPurchase {
		h.forwardResult(r.Context(), result)
	}
	respondJSON(w, result)
}

func (h *Payments) PayCardless(w http.ResponseWriter, r *http.Request) {
	var in cardlessDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	intent := gateway.ParseIntent(in.Intent)
	result := h.svc.PayCardless(r.Context(), gateway.CardlessRequest{
		PaymentRequest: commonFields(in.Provider, in.PaymentSum, in.Currency),
		Intent:         intent,
		PaymentID:      in.PaymentID,
		PayerID:        in.PayerID,
	})

	// Forward only if a capture was attempted.
	if intent == gateway.IntentPurchase {
		h.forwardResult(r.Context(), result)
	}
	respondJSON(w, result)
}

func (h *Payments) Capture(w http.ResponseWriter, r *http.Request) {
	var in captureDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	result := h.svc.Capture(r.Context(), gateway.CaptureRequest{
		PaymentRequest: commonFields(in.Provider, in.PaymentSum, in.Currency),
		PaymentID:      in.PaymentID,
	})

	h.forwardResult(r.Context(), result)
	respondJSON(w, result)
}

func (h *Payments) Details(w http.ResponseWriter, r *http.Request) {
	var in detailsDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	result := h.svc.Details(r.Context(), gateway.DetailsRequest{
		Provider:   provider.Type(in.Provider),
		Identifier: in.Identifier,
		IDType:     gateway.ParseIDType(in.IDType),
	})

	respondJSON(w, result)
}

// forwardResult publishes a pay/capture response to the results topic,
// best-effort.
func (h *Payments) forwardResult(ctx context.Context, result gateway.PayResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		log.Warn().Err(err).Msg("failed to serialize result for forwarding")
		return
	}
	if err := h.sink.Publish(ctx, h.topics.Results, payload); err != nil {
		log.Warn().Err(err).Msg("result forwarding failed")
	}
}

func commonFields(providerID string, sum int64, currency string) gateway.PaymentRequest {
	return gateway.PaymentRequest{
		Provider:   provider.Type(providerID),
		PaymentSum: sum,
		Currency:   currency,
	}
}

func convertCard(in *cardDTO) *gateway.Card {
	if in == nil {
		return nil
	}
	return &gateway.Card{
		Number:            in.PrimaryNumber,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Month:             in.Month,
		Year:              in.Year,
		VerificationValue: in.VerificationValue,
	}
}

func convertItems(in []itemDTO) []gateway.Item {
	if len(in) == 0 {
		return nil
	}
	items := make([]gateway.Item, 0, len(in))
	for _, item := range in {
		items = append(items, gateway.Item{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			Amount:      item.Amount,
		})
	}
	return items
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}
