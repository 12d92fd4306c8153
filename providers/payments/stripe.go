package payments

import (
	"context"
	"errors"
	"strings"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
)

var ErrStripeNotConfigured = errors.New("stripe api key not configured")

// StripeProvider talks to the Stripe PaymentIntents API. Amounts go over the wire in paise.
// Each provider owns its client so the package-level stripe.Key is never touched.
type StripeProvider struct {
	apiKey string
	api    *client.API
}

func NewStripeProvider(apiKey string) *StripeProvider {
	return NewStripeProviderWithBackends(apiKey, nil)
}

// NewStripeProviderWithBackends points the client at custom backends (nil for the defaults).
func NewStripeProviderWithBackends(apiKey string, backends *stripe.Backends) *StripeProvider {
	return &StripeProvider{apiKey: apiKey, api: client.New(apiKey, backends)}
}

func (p *StripeProvider) Name() string { return ProviderStripe }

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, in CreateIntentInput) (Result, error) {
	if p.apiKey == "" {
		return Result{}, ErrStripeNotConfigured
	}

	params := intentParams(in)
	params.Context = ctx

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return Result{}, err
	}
	return p.result(pi), nil
}

// intentParams keys the request on the payment attempt, so a retry for the same order
// opens a fresh PaymentIntent instead of replaying the previous one.
func intentParams(in CreateIntentInput) *stripe.PaymentIntentParams {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.AmountINR * 100),
		Currency: stripe.String(strings.ToLower(in.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_id", in.OrderID.String())
	params.AddMetadata("user_id", in.UserID.String())
	params.AddMetadata("payment_id", in.PaymentID.String())
	params.SetIdempotencyKey("payment-" + in.PaymentID.String())
	return params
}

func (p *StripeProvider) VerifyPayment(ctx context.Context, in VerifyInput) (Result, error) {
	if p.apiKey == "" {
		return Result{}, ErrStripeNotConfigured
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := p.api.PaymentIntents.Get(in.ProviderReference, params)
	if err != nil {
		return Result{}, err
	}
	return p.result(pi), nil
}

func (p *StripeProvider) RefundPayment(ctx context.Context, in RefundInput) (Result, error) {
	if p.apiKey == "" {
		return Result{}, ErrStripeNotConfigured
	}

	params := &stripe.RefundParams{PaymentIntent: stripe.String(in.ProviderReference)}
	if in.AmountINR != nil {
		params.Amount = stripe.Int64(*in.AmountINR * 100)
	}
	params.Context = ctx

	re, err := p.api.Refunds.New(params)
	if err != nil {
		return Result{}, err
	}

	status := models.PaymentStatusRefunded
	if re.Status == stripe.RefundStatusFailed || re.Status == stripe.RefundStatusCanceled {
		status = models.PaymentStatusFailed
	}
	ref := in.ProviderReference
	return Result{
		Provider:          ProviderStripe,
		Status:            status,
		ProviderReference: &ref,
		Meta: map[string]interface{}{
			"refundId":     re.ID,
			"refundStatus": string(re.Status),
			"amountPaise":  re.Amount,
		},
	}, nil
}

func (p *StripeProvider) result(pi *stripe.PaymentIntent) Result {
	ref := pi.ID
	res := Result{
		Provider:          ProviderStripe,
		Status:            MapStripeStatus(pi.Status),
		ProviderReference: &ref,
		Meta: map[string]interface{}{
			"stripeStatus": string(pi.Status),
			"amountPaise":  pi.Amount,
		},
	}
	if pi.ClientSecret != "" {
		secret := pi.ClientSecret
		res.ClientSecret = &secret
	}
	if pi.NextAction != nil && pi.NextAction.RedirectToURL != nil && pi.NextAction.RedirectToURL.URL != "" {
		url := pi.NextAction.RedirectToURL.URL
		res.RedirectURL = &url
	}
	return res
}

// MapStripeStatus folds PaymentIntent states into the payment status enum.
func MapStripeStatus(s stripe.PaymentIntentStatus) models.PaymentStatus {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return models.PaymentStatusSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return models.PaymentStatusFailed
	case stripe.PaymentIntentStatusRequiresPaymentMethod,
		stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresCapture,
		stripe.PaymentIntentStatusProcessing:
		return models.PaymentStatusRequiresAction
	default:
		return models.PaymentStatusCreated
	}
}
