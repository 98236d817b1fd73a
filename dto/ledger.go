package dto

import "github.com/Chucky-Funds/earnova/model"

// ==================== LEDGER DTOs ====================

type WithdrawRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	AccountName   string  `json:"account_name" validate:"required"`
	AccountNumber string  `json:"account_number" validate:"required,min=10,max=10"`
	BankName      string  `json:"bank_name" validate:"required"`
}

func (w WithdrawRequest) Validate() error {
	return GetValidator().Struct(w)
}

type WithdrawResponse struct {
	Transaction model.Transaction `json:"transaction"`
	NewBalance  string            `json:"new_balance"`
}

type TransactionsResponse struct {
	Balance      string              `json:"balance"`
	Transactions []model.Transaction `json:"transactions"`
}
