package payments

import (
	"context"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/google/uuid"
)

// StubProvider approves everything. It backs demos and tests.
type StubProvider struct{}

func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

func (p *StubProvider) Name() string { return ProviderStub }

func (p *StubProvider) CreatePaymentIntent(_ context.Context, in CreateIntentInput) (Result, error) {
	ref := "stub_" + uuid.NewString()
	return Result{
		Provider:          ProviderStub,
		Status:            models.PaymentStatusSucceeded,
		ProviderReference: &ref,
		Meta: map[string]interface{}{
			"mode":      "demo",
			"orderId":   in.OrderID.String(),
			"amountInr": in.AmountINR,
		},
	}, nil
}

func (p *StubProvider) VerifyPayment(_ context.Context, in VerifyInput) (Result, error) {
	ref := in.ProviderReference
	return Result{
		Provider:          ProviderStub,
		Status:            models.PaymentStatusSucceeded,
		ProviderReference: &ref,
		Meta:              map[string]interface{}{"mode": "demo"},
	}, nil
}

func (p *StubProvider) RefundPayment(_ context.Context, in RefundInput) (Result, error) {
	ref := in.ProviderReference
	var amount interface{}
	if in.AmountINR != nil {
		amount = *in.AmountINR
	}
	return Result{
		Provider:          ProviderStub,
		Status:            models.PaymentStatusRefunded,
		ProviderReference: &ref,
		Meta:              map[string]interface{}{"mode": "demo", "amountInr": amount},
	}, nil
}
