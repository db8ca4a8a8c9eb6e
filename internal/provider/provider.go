package provider

import (
	"context"
	"time"
)

// Provider identification
type Type string

const (
	TypePaypalExpress Type = "paypal_express"
	TypeStripe        Type = "stripe"
)

// Environment selects the provider endpoints and credentials scope.
type Environment string

const (
	EnvSandbox    Environment = "sandbox"
	EnvProduction Environment = "production"
)

// Operations a provider can support
type Operation string

const (
	OpInitiate    Operation = "initiate"
	OpPayStandard Operation = "pay_standard"
	OpPayCardless Operation = "pay_cardless"
	OpCapture     Operation = "capture"
	OpDetails     Operation = "details"
)

// Credentials is the environment-scoped credential set for one provider,
// taken verbatim from configuration.
type Credentials map[string]string

// Card carries raw payment card data for standard flows.
type Card struct {
	Number            string `json:"primary_number"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Month             int    `json:"month"`
	Year              int    `json:"year"`
	VerificationValue string `json:"verification_value"`
}

// MissingFields reports which required card sub-fields are absent.
func (c *Card) MissingFields() []string {
	var missing []string
	if c.Number == "" {
		missing = append(missing, "primary_number")
	}
	if c.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if c.LastName == "" {
		missing = append(missing, "last_name")
	}
	if c.Month < 1 || c.Month > 12 {
		missing = append(missing, "month")
	}
	if c.Year == 0 {
		missing = append(missing, "year")
	}
	if c.VerificationValue == "" {
		missing = append(missing, "verification_value")
	}
	return missing
}

// Item is a single order line forwarded to providers that support itemized
// payments.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Amount      int64  `json:"amount"`
}

// Options carries the per-call options an adapter may need. Which fields are
// populated depends on the operation; adapters ignore what they don't use.
type Options struct {
	Currency           string
	ReturnURL          string
	CancelReturnURL    string
	AllowGuestCheckout bool
	Token              string
	PayerID            string
	Items              []Item
}

// TokenStore caches short-lived provider access tokens. A miss is never an
// error; adapters fall back to fetching a fresh token.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// Deps holds shared infrastructure handed to adapter constructors.
type Deps struct {
	Tokens TokenStore
}

// Adapter is the capability surface of one configured payment backend.
// Calls are synchronous and blocking; an adapter may enforce its own timeout
// but the core does not. A nil card on Authorize/Purchase selects the token
// flow using Options.Token and Options.PayerID.
type Adapter interface {
	Name() string
	SupportedOperations() []Operation

	// ConfirmationURL builds the buyer-facing redirect URL for a setup token.
	ConfirmationURL(token string) string

	SetupAuthorization(ctx context.Context, amount int64, opts Options) (*Result, error)
	SetupPurchase(ctx context.Context, amount int64, opts Options) (*Result, error)
	Authorize(ctx context.Context, amount int64, card *Card, opts Options) (*Result, error)
	Purchase(ctx context.Context, amount int64, card *Card, opts Options) (*Result, error)
	Capture(ctx context.Context, amount int64, paymentID string, opts Options) (*Result, error)
	DetailsFor(ctx context.Context, identifier string) (*Result, error)
	TransactionDetails(ctx context.Context, identifier string) (*Result, error)
}

// Supports reports whether the adapter advertises the given operation.
func Supports(a Adapter, op Operation) bool {
	for _, supported := range a.SupportedOperations() {
		if supported == op {
			return true
		}
	}
	return false
}
