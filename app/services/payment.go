package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/lojinha/app/models"
	"github.com/shashiranjanraj/lojinha/pkg/logger"
)

// Payment methods with dedicated handling. Any other string is accepted.
const (
	PaymentCreditCard = "credit_card"
	PaymentBoleto     = "boleto"
	PaymentPix        = "pix"
)

// PaymentProcessor settles an order. A non-nil error declines the checkout.
type PaymentProcessor interface {
	Process(ctx context.Context, order models.Order, card *models.CardData) error
}

// LoggingProcessor approves every payment and logs what a real gateway
// would receive. Card numbers are masked.
type LoggingProcessor struct{}

func (LoggingProcessor) Process(ctx context.Context, order models.Order, card *models.CardData) error {
	log := logger.WithCtx(ctx).With(
		"user_id", order.UserID,
		"payment_method", order.PaymentMethod,
		"valor_final", order.ValorFinal,
	)

	switch order.PaymentMethod {
	case PaymentCreditCard:
		if card == nil {
			log.Warn("credit card payment without card data")
			return nil
		}
		log.Info("charging credit card", "card", MaskCard(card.Number), "holder", card.Name)
	case PaymentBoleto, PaymentPix:
		log.Info("payment slip issued")
	default:
		log.Warn("unrecognised payment method accepted")
	}
	return nil
}

// MaskCard keeps only the last four digits.
func MaskCard(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}
