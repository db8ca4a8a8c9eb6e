package httpx

import (
	"encoding/json"
	"net/http"

	"paygate/internal/http/handlers"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP surface over the payment gateway.
func NewRouter(payments *handlers.Payments) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Post("/initiate", payments.Initiate)
		r.Post("/standard", payments.PayStandard)
		r.Post("/cardless", payments.PayCardless)
		r.Post("/capture", payments.Capture)
		r.Post("/details", payments.Details)
	})

	return r
}
