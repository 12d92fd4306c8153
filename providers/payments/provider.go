package payments

import (
	"context"
	"strings"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/google/uuid"
)

// PaymentID identifies the attempt; providers key their idempotency on it, never on the order.
type CreateIntentInput struct {
	PaymentID uuid.UUID
	OrderID   uuid.UUID
	UserID    uuid.UUID
	AmountINR int64
	Currency  string
}

type VerifyInput struct {
	ProviderReference string
}

// RefundInput refunds the full captured amount when AmountINR is nil.
type RefundInput struct {
	ProviderReference string
	AmountINR         *int64
}

// Result is what a provider reports about a payment attempt.
type Result struct {
	Provider          string                 `json:"provider"`
	Status            models.PaymentStatus   `json:"status"`
	ProviderReference *string                `json:"provider_reference,omitempty"`
	ClientSecret      *string                `json:"client_secret,omitempty"`
	RedirectURL       *string                `json:"redirect_url,omitempty"`
	Meta              map[string]interface{} `json:"meta,omitempty"`
}

// Provider is implemented by every payment backend.
type Provider interface {
	Name() string
	CreatePaymentIntent(ctx context.Context, in CreateIntentInput) (Result, error)
	VerifyPayment(ctx context.Context, in VerifyInput) (Result, error)
	RefundPayment(ctx context.Context, in RefundInput) (Result, error)
}

const (
	ProviderStub   = "stub"
	ProviderStripe = "stripe"
)

// Registry resolves providers by the name recorded on a payment row.
type Registry struct {
	providers map[string]Provider
	active    Provider
}

// NewRegistry makes active the provider used for new payments. Every provider passed
// in, including active, can be resolved by name.
func NewRegistry(active Provider, others ...Provider) *Registry {
	r := &Registry{providers: map[string]Provider{}, active: active}
	for _, p := range append([]Provider{active}, others...) {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

func (r *Registry) Active() Provider {
	return r.active
}

// Lookup returns the provider registered under name, falling back to the active one.
func (r *Registry) Lookup(name string) Provider {
	if p, ok := r.providers[strings.ToLower(name)]; ok {
		return p
	}
	return r.active
}

// New builds the registry for the configured provider name. Unknown names select stub.
// The stub is always registered so demo payments recorded earlier stay verifiable.
func New(name, stripeKey string) *Registry {
	stub := NewStubProvider()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderStripe:
		return NewRegistry(NewStripeProvider(stripeKey), stub)
	default:
		return NewRegistry(stub)
	}
}
