package model

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var cardValidator = validator.New()

// Card holds the payment form input. Validation runs locally before any
// network call so a bad card never reaches the payment endpoint.
type Card struct {
	Number     string `validate:"required,credit_card"`
	Expiry     string `validate:"required,datetime=01/06"`
	CVV        string `validate:"required,numeric,min=3,max=4"`
	HolderName string `validate:"required"`
}

// NewCard trims the raw form values and strips spaces from the card number.
func NewCard(number, expiry, cvv, holder string) Card {
	return Card{
		Number:     strings.ReplaceAll(strings.TrimSpace(number), " ", ""),
		Expiry:     strings.TrimSpace(expiry),
		CVV:        strings.TrimSpace(cvv),
		HolderName: strings.TrimSpace(holder),
	}
}

func (c Card) Validate() error {
	return cardValidator.Struct(c)
}

// Mask keeps only the last four digits for display and logs.
func (c Card) Mask() string {
	if len(c.Number) <= 4 {
		return c.Number
	}
	return "**** **** **** " + c.Number[len(c.Number)-4:]
}

// PaymentRequest binds the card to a purchase for the payment endpoint.
func (c Card) PaymentRequest(id PurchaseID) PaymentRequest {
	return PaymentRequest{
		PurchaseId:     id,
		CardNumber:     c.Number,
		ExpiryDate:     c.Expiry,
		CVV:            c.CVV,
		CardHolderName: c.HolderName,
	}
}
