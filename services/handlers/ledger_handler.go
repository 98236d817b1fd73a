package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Chucky-Funds/earnova/dto"
	"github.com/Chucky-Funds/earnova/shared"
)

type LedgerHandler struct {
	ledgerSvc LedgerServiceInterface
}

func NewLedgerHandler(ledgerSvc LedgerServiceInterface) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

func (h *LedgerHandler) Transactions(c *fiber.Ctx) error {
	return shared.ResponseJSON(c, http.StatusOK, "Success", dto.TransactionsResponse{
		Balance:      h.ledgerSvc.Balance().String(),
		Transactions: h.ledgerSvc.Transactions(),
	})
}

// Withdraw records a Processing withdrawal against the balance.
func (h *LedgerHandler) Withdraw(c *fiber.Ctx) error {
	var req dto.WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	amount := decimal.NewFromFloat(req.Amount).Round(2)
	desc := fmt.Sprintf("Withdrawal to %s (%s, %s)", req.AccountName, req.BankName, req.AccountNumber)

	tx, err := h.ledgerSvc.DebitWithdrawal(amount, desc)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Withdrawal is being processed", dto.WithdrawResponse{
		Transaction: tx,
		NewBalance:  h.ledgerSvc.Balance().String(),
	})
}
