package services

import (
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

// MinWithdrawalLevel gates withdrawals to users who have paid their way to
// at least this effective level.
const MinWithdrawalLevel = 5

// LedgerService owns the balance, the completion counter and the
// append-only transaction list. Credits from task completions are bounds
// checked against the per-type reward tables before they touch the balance.
type LedgerService struct {
	context.DefaultService

	storeSvc       *StoreService
	progressionSvc *ProgressionService

	mu sync.Mutex

	now func() time.Time
}

const LEDGER_SVC = "ledger_svc"

// Id returns Service ID
func (svc LedgerService) Id() string {
	return LEDGER_SVC
}

func (svc *LedgerService) Configure(ctx *context.Context) error {
	svc.storeSvc = ctx.Service(STORE_SVC).(*StoreService)
	svc.progressionSvc = ctx.Service(PROGRESSION_SVC).(*ProgressionService)
	if svc.now == nil {
		svc.now = time.Now
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *LedgerService) Start() error {
	return nil
}

func (svc *LedgerService) Balance() decimal.Decimal {
	return svc.storeSvc.GetDecimal(shared.KeyBalance, decimal.Zero)
}

func (svc *LedgerService) CompletedCount() int {
	return svc.storeSvc.GetInt(shared.KeyCompletedCount, 0)
}

// Transactions returns the ledger newest-first.
func (svc *LedgerService) Transactions() []model.Transaction {
	var txs []model.Transaction
	svc.storeSvc.GetJSON(shared.KeyTransactions, &txs)
	return txs
}

func txTypeFor(t model.TaskType) string {
	switch t {
	case model.TaskVideo:
		return shared.TxTypeVideo
	case model.TaskSurvey:
		return shared.TxTypeSurvey
	case model.TaskWebsite:
		return shared.TxTypeWebsite
	}
	return string(t)
}

// CreditReward applies a completed task's reward: balance, completion
// counter, XP and a Completed ledger row, in that order. A reward outside
// the type's payout bounds is rejected without touching anything.
func (svc *LedgerService) CreditReward(t model.TaskType, desc string, reward model.TaskReward) (model.Transaction, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	min, max := model.AmountBounds(t)
	if reward.Amount.LessThan(min) || reward.Amount.GreaterThan(max) {
		log.WithFields(log.Fields{
			"type":   t,
			"amount": reward.Amount.String(),
		}).Warn("reward amount outside bounds, credit refused")
		return model.Transaction{}, shared.NewBadRequestError(nil, "reward amount out of range")
	}

	balance := svc.Balance().Add(reward.Amount)
	if err := svc.storeSvc.SetDecimal(shared.KeyBalance, balance); err != nil {
		return model.Transaction{}, shared.NewInternalError(err, "could not save balance")
	}
	svc.storeSvc.SetInt(shared.KeyCompletedCount, svc.CompletedCount()+1)
	svc.progressionSvc.GrantXP(reward.XP)

	tx := svc.appendTransaction(txTypeFor(t), desc, reward.Amount, shared.TxStatusCompleted)
	metricTasksCompleted.WithLabelValues(string(t)).Inc()

	return tx, nil
}

// DebitWithdrawal checks the level gate and balance, then records a
// Processing withdrawal with a negative amount.
func (svc *LedgerService) DebitWithdrawal(amount decimal.Decimal, desc string) (model.Transaction, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.progressionSvc.EffectiveLevel() < MinWithdrawalLevel {
		return model.Transaction{}, shared.NewForbiddenError(nil, "withdrawals unlock at level 5")
	}
	if !amount.IsPositive() {
		return model.Transaction{}, shared.NewBadRequestError(nil, "withdrawal amount must be positive")
	}

	balance := svc.Balance()
	if amount.GreaterThan(balance) {
		return model.Transaction{}, shared.NewBadRequestError(nil, "insufficient balance")
	}

	if err := svc.storeSvc.SetDecimal(shared.KeyBalance, balance.Sub(amount)); err != nil {
		return model.Transaction{}, shared.NewInternalError(err, "could not save balance")
	}

	tx := svc.appendTransaction(shared.TxTypeWithdrawal, desc, amount.Neg(), shared.TxStatusProcessing)
	metricWithdrawals.Inc()

	log.WithFields(log.Fields{
		"amount": amount.String(),
		"tx_id":  tx.ID,
	}).Info("withdrawal recorded")

	return tx, nil
}

func (svc *LedgerService) appendTransaction(txType, desc string, amount decimal.Decimal, status string) model.Transaction {
	now := svc.now()
	tx := model.Transaction{
		ID:        uuid.NewString(),
		Date:      now.Format("Jan 2, 2006"),
		Timestamp: now.Unix(),
		Type:      txType,
		Desc:      desc,
		Amount:    amount,
		Status:    status,
	}

	txs := svc.Transactions()
	txs = append([]model.Transaction{tx}, txs...)
	if err := svc.storeSvc.SetJSON(shared.KeyTransactions, txs); err != nil {
		log.WithError(err).Error("failed to persist transactions")
	}

	return tx
}
