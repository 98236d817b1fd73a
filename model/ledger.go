package model

import "github.com/shopspring/decimal"

// Transaction is one append-only ledger row. Amount is negative for
// withdrawals. Stored newest-first.
type Transaction struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Timestamp int64           `json:"timestamp"`
	Type      string          `json:"type"`
	Desc      string          `json:"desc"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
}
