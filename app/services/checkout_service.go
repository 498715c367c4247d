package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shashiranjanraj/lojinha/app/models"
	"github.com/shashiranjanraj/lojinha/app/repositories"
	"github.com/shashiranjanraj/lojinha/pkg/event"
	"github.com/shashiranjanraj/lojinha/pkg/logger"
	"github.com/shashiranjanraj/lojinha/pkg/metrics"
)

type CheckoutRequest struct {
	Items         []models.Item
	Freight       float64
	PaymentMethod string
	CardData      *models.CardData
}

type CheckoutService struct {
	verifier TokenVerifier
	catalog  repositories.Catalog
	payments PaymentProcessor
	events   *event.Bus
}

// NewCheckoutService wires the service. events may be nil.
func NewCheckoutService(verifier TokenVerifier, catalog repositories.Catalog, payments PaymentProcessor, events *event.Bus) *CheckoutService {
	return &CheckoutService{verifier: verifier, catalog: catalog, payments: payments, events: events}
}

// Checkout verifies the token, prices every item and settles the payment.
// Either the whole order succeeds or nothing is returned.
func (s *CheckoutService) Checkout(ctx context.Context, token string, req CheckoutRequest) (models.Order, error) {
	user, err := s.verifier.VerifyToken(ctx, token)
	if err != nil {
		metrics.RecordCheckout(checkoutResult(err), paymentLabel(req.PaymentMethod), 0)
		return models.Order{}, err
	}
	return s.CheckoutAs(ctx, user, req)
}

// CheckoutAs runs the checkout for a user whose token was already verified.
func (s *CheckoutService) CheckoutAs(ctx context.Context, user models.User, req CheckoutRequest) (models.Order, error) {
	order, err := s.checkout(ctx, user, req)
	metrics.RecordCheckout(checkoutResult(err), paymentLabel(req.PaymentMethod), order.ValorFinal)
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// ValidateCheckout reports ErrInvalidCheckout for requests that can never
// succeed, before any product is looked up.
func ValidateCheckout(req CheckoutRequest) error {
	if len(req.Items) == 0 || req.Freight < 0 || req.PaymentMethod == "" {
		return ErrInvalidCheckout
	}
	for _, item := range req.Items {
		if item.Quantity < 0 {
			return ErrInvalidCheckout
		}
	}
	return nil
}

func (s *CheckoutService) checkout(ctx context.Context, user models.User, req CheckoutRequest) (models.Order, error) {
	if err := ValidateCheckout(req); err != nil {
		return models.Order{}, err
	}

	var subtotal float64
	for _, item := range req.Items {
		product, err := s.catalog.Find(ctx, item.ProductID)
		if errors.Is(err, repositories.ErrProductNotFound) {
			return models.Order{}, ErrProductNotFound
		}
		if err != nil {
			return models.Order{}, fmt.Errorf("services: checkout: %w", err)
		}

		subtotal += product.Price * float64(item.Quantity)
	}

	order := models.Order{
		UserID:        user.ID,
		Items:         append([]models.Item(nil), req.Items...),
		Freight:       req.Freight,
		PaymentMethod: req.PaymentMethod,
		ValorFinal:    round2(subtotal + req.Freight),
	}

	if err := s.payments.Process(ctx, order, req.CardData); err != nil {
		logger.WithCtx(ctx).Warn("payment declined", "user_id", user.ID, "error", err)
		return models.Order{}, ErrPaymentDeclined
	}

	if s.events != nil {
		s.events.Fire(ctx, EventOrderCheckedOut, order)
	}
	return order, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func checkoutResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrInvalidCheckout):
		return "invalid_checkout"
	case errors.Is(err, ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, ErrPaymentDeclined):
		return "payment_declined"
	default:
		return "error"
	}
}

// paymentLabel bounds the metric label to the known methods.
func paymentLabel(method string) string {
	switch method {
	case PaymentCreditCard, PaymentBoleto, PaymentPix:
		return method
	default:
		return "other"
	}
}
