package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment purposes. Each intent carries exactly one.
const (
	PaymentPurposeSignup  = "signup"
	PaymentPurposeLevelUp = "levelup"
)

// PaymentIntent is a pending charge handed to the external payment page.
// The engine never sees card details; it only learns whether the intent
// completed and with what provider reference.
type PaymentIntent struct {
	ID        string
	Purpose   string
	Email     string
	Amount    decimal.Decimal
	Currency  string
	CreatedAt time.Time
}
