// Package payments delegates payment capture to the external processor.
package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrRejected means the processor refused the request itself (bad amount,
// unsupported currency), as opposed to being unreachable.
var ErrRejected = errors.New("payments: rejected by processor")

// Intent is a created, unconfirmed payment.
type Intent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
	Currency     string
}

// Processor creates payment intents.
type Processor interface {
	CreateIntent(ctx context.Context, amountCents int64) (*Intent, error)
}

// ToCents converts a decimal price to minor units, rounding half away from zero.
func ToCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// Stripe is a Processor backed by the Stripe PaymentIntents API.
type Stripe struct {
	api      *client.API
	currency string
}

func NewStripe(secretKey, currency string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &Stripe{api: api, currency: currency}
}

func (s *Stripe) CreateIntent(ctx context.Context, amountCents int64) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(s.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) && serr.HTTPStatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", ErrRejected, serr.Msg)
		}
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}
