package controllers

import (
	"github.com/shashiranjanraj/lojinha/app/models"
	"github.com/shashiranjanraj/lojinha/app/services"
	"github.com/shashiranjanraj/lojinha/pkg/ctx"
)

// CheckoutInput is checked by services.ValidateCheckout, not by tags.
type CheckoutInput struct {
	Items         []models.Item    `json:"items"`
	Freight       float64          `json:"freight"`
	PaymentMethod string           `json:"paymentMethod"`
	CardData      *models.CardData `json:"cardData"`
}

type CheckoutController struct {
	checkout *services.CheckoutService
	verifier services.TokenVerifier
}

func NewCheckoutController(checkout *services.CheckoutService, verifier services.TokenVerifier) *CheckoutController {
	return &CheckoutController{checkout: checkout, verifier: verifier}
}

// Checkout handles POST /api/checkout. The token is checked before the body
// so an anonymous caller always gets 401.
func (cc *CheckoutController) Checkout(c *ctx.Context) {
	user, err := cc.verifier.VerifyToken(c.Context(), c.Token())
	if err != nil {
		fail(c, err)
		return
	}

	var in CheckoutInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := cc.checkout.CheckoutAs(c.Context(), user, services.CheckoutRequest{
		Items:         in.Items,
		Freight:       in.Freight,
		PaymentMethod: in.PaymentMethod,
		CardData:      in.CardData,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.Success(order)
}
