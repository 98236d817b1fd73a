package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

func newTestLedger(t *testing.T) (*LedgerService, *ProgressionService, *StoreService) {
	store := newTestStore(t)
	progression := &ProgressionService{storeSvc: store}
	ledger := &LedgerService{
		storeSvc:       store,
		progressionSvc: progression,
		now:            fixedClock(time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)),
	}
	return ledger, progression, store
}

func TestCreditReward(t *testing.T) {
	ledger, progression, _ := newTestLedger(t)

	reward := model.TaskReward{Amount: decimal.RequireFromString("45.5"), XP: 12}
	tx, err := ledger.CreditReward(model.TaskVideo, "Some Video", reward)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}

	if !ledger.Balance().Equal(reward.Amount) {
		t.Errorf("balance = %s, want %s", ledger.Balance(), reward.Amount)
	}
	if ledger.CompletedCount() != 1 {
		t.Errorf("completed count = %d", ledger.CompletedCount())
	}
	if progression.XP() != 12 {
		t.Errorf("xp = %d", progression.XP())
	}
	if tx.Type != shared.TxTypeVideo || tx.Status != shared.TxStatusCompleted {
		t.Errorf("tx = %+v", tx)
	}
	if !tx.Amount.Equal(reward.Amount) {
		t.Errorf("tx amount = %s", tx.Amount)
	}
}

func TestCreditRewardOutOfBoundsRejected(t *testing.T) {
	ledger, progression, _ := newTestLedger(t)

	// video bounds are 5-400
	bad := model.TaskReward{Amount: decimal.NewFromInt(5000), XP: 10}
	if _, err := ledger.CreditReward(model.TaskVideo, "Inflated", bad); err == nil {
		t.Fatal("expected rejection")
	}

	// nothing mutated
	if !ledger.Balance().IsZero() {
		t.Errorf("balance = %s after rejected credit", ledger.Balance())
	}
	if ledger.CompletedCount() != 0 {
		t.Errorf("completed count = %d", ledger.CompletedCount())
	}
	if progression.XP() != 0 {
		t.Errorf("xp = %d", progression.XP())
	}
	if len(ledger.Transactions()) != 0 {
		t.Errorf("transactions = %d", len(ledger.Transactions()))
	}
}

func TestTransactionsNewestFirst(t *testing.T) {
	ledger, _, _ := newTestLedger(t)

	ledger.CreditReward(model.TaskVideo, "First", model.TaskReward{Amount: decimal.NewFromInt(10), XP: 3})
	ledger.CreditReward(model.TaskSurvey, "Second", model.TaskReward{Amount: decimal.NewFromInt(50), XP: 8})

	txs := ledger.Transactions()
	if len(txs) != 2 {
		t.Fatalf("got %d transactions", len(txs))
	}
	if txs[0].Desc != "Second" || txs[1].Desc != "First" {
		t.Errorf("order = [%s, %s]", txs[0].Desc, txs[1].Desc)
	}
}

func TestWithdrawalLevelGate(t *testing.T) {
	ledger, _, store := newTestLedger(t)

	store.SetDecimal(shared.KeyBalance, decimal.NewFromInt(5000))

	// level 1: refused
	_, err := ledger.DebitWithdrawal(decimal.NewFromInt(1000), "test")
	if err == nil {
		t.Fatal("withdrawal allowed below level 5")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 403 {
		t.Fatalf("err = %v", err)
	}
	if !ledger.Balance().Equal(decimal.NewFromInt(5000)) {
		t.Errorf("balance mutated by refused withdrawal")
	}
}

func TestWithdrawalAtLevel5(t *testing.T) {
	ledger, _, store := newTestLedger(t)

	// xp for level 5 and paid through 5
	store.SetInt(shared.KeyXP, model.XPFloorForLevel(5))
	store.SetInt(shared.KeyPaidLevel, 5)
	store.SetDecimal(shared.KeyBalance, decimal.NewFromInt(5000))

	tx, err := ledger.DebitWithdrawal(decimal.NewFromInt(3000), "Withdrawal to John (GTB, 0123456789)")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if !ledger.Balance().Equal(decimal.NewFromInt(2000)) {
		t.Errorf("balance = %s, want 2000", ledger.Balance())
	}
	if tx.Status != shared.TxStatusProcessing {
		t.Errorf("status = %s", tx.Status)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(-3000)) {
		t.Errorf("tx amount = %s, want -3000", tx.Amount)
	}

	// overdraw refused
	if _, err := ledger.DebitWithdrawal(decimal.NewFromInt(9999), "too much"); err == nil {
		t.Fatal("overdraw allowed")
	}
	// zero refused
	if _, err := ledger.DebitWithdrawal(decimal.Zero, "zero"); err == nil {
		t.Fatal("zero withdrawal allowed")
	}
}
