package services

import (
	"fmt"
	"sync"

	"github.com/alphabatem/common/context"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/Chucky-Funds/earnova/dto"
	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

// ProgressionService owns XP and the paid level. The working level used
// everywhere else is the XP level capped by the paid level, so earning XP
// past a level boundary never unlocks it without the upgrade fee.
type ProgressionService struct {
	context.DefaultService

	storeSvc   *StoreService
	paymentSvc *PaymentService
	configSvc  *ConfigService

	mu sync.Mutex
}

const PROGRESSION_SVC = "progression_svc"

// Id returns Service ID
func (svc ProgressionService) Id() string {
	return PROGRESSION_SVC
}

func (svc *ProgressionService) Configure(ctx *context.Context) error {
	svc.storeSvc = ctx.Service(STORE_SVC).(*StoreService)
	svc.paymentSvc = ctx.Service(PAYMENT_SVC).(*PaymentService)
	svc.configSvc = ctx.Service(CONFIG_SVC).(*ConfigService)

	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressionService) Start() error {
	return nil
}

func (svc *ProgressionService) XP() int {
	return svc.storeSvc.GetInt(shared.KeyXP, 0)
}

func (svc *ProgressionService) PaidLevel() int {
	lvl := svc.storeSvc.GetInt(shared.KeyPaidLevel, 1)
	if lvl < 1 {
		lvl = 1
	}
	if lvl > model.MaxLevel {
		lvl = model.MaxLevel
	}
	return lvl
}

func (svc *ProgressionService) EffectiveLevel() int {
	return model.EffectiveLevel(svc.XP(), svc.PaidLevel())
}

// XPLevel is the level earned by raw XP alone, ignoring the paid cap.
// Daily quotas key off this, not the effective level.
func (svc *ProgressionService) XPLevel() int {
	return model.LevelForXP(svc.XP())
}

func (svc *ProgressionService) UpgradeFee() decimal.Decimal {
	return svc.configSvc.LevelUpFee()
}

// GrantXP adds XP and returns the new total. Negative grants are ignored.
func (svc *ProgressionService) GrantXP(xp int) int {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if xp <= 0 {
		return svc.XP()
	}

	total := svc.XP() + xp
	if err := svc.storeSvc.SetInt(shared.KeyXP, total); err != nil {
		log.WithError(err).Error("failed to persist xp")
	}
	return total
}

func (svc *ProgressionService) Snapshot() dto.ProgressionSnapshot {
	xp := svc.XP()
	paid := svc.PaidLevel()
	xpLevel := model.LevelForXP(xp)
	effective := model.EffectiveLevel(xp, paid)

	floor := model.XPFloorForLevel(effective)
	ceiling := model.XPCeilingForLevel(effective)

	progress := 1.0
	if ceiling > floor {
		progress = float64(xp-floor) / float64(ceiling-floor)
		if progress < 0 {
			progress = 0
		}
		if progress > 1 {
			progress = 1
		}
	}

	return dto.ProgressionSnapshot{
		XP:             xp,
		XPLevel:        xpLevel,
		PaidLevel:      paid,
		EffectiveLevel: effective,
		NextLevelXP:    ceiling,
		LevelProgress:  progress,
	}
}

// CanUpgrade reports whether a paid upgrade is currently purchasable:
// XP must already sit at or above the next paid level's floor.
func (svc *ProgressionService) CanUpgrade() (bool, string) {
	paid := svc.PaidLevel()
	if paid >= model.MaxLevel {
		return false, "already at maximum level"
	}

	xp := svc.XP()
	if model.LevelForXP(xp) <= paid {
		needed := model.XPCeilingForLevel(paid) - xp
		return false, fmt.Sprintf("%d more XP needed for level %d", needed, paid+1)
	}

	return true, ""
}

// RequestUpgrade opens a payment intent for the level-up fee.
func (svc *ProgressionService) RequestUpgrade(email string) (*model.PaymentIntent, error) {
	ok, reason := svc.CanUpgrade()
	if !ok {
		return nil, shared.NewBadRequestError(nil, reason)
	}

	intent := svc.paymentSvc.CreateIntent(model.PaymentPurposeLevelUp, email, svc.configSvc.LevelUpFee())
	return intent, nil
}

// CompleteUpgrade applies a consumed level-up intent: exactly one paid
// level per completed payment, regardless of how far XP has run ahead.
func (svc *ProgressionService) CompleteUpgrade(intent *model.PaymentIntent, reference string) (int, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	paid := svc.PaidLevel()
	if paid >= model.MaxLevel {
		return paid, shared.NewBadRequestError(nil, "already at maximum level")
	}

	newPaid := paid + 1
	if err := svc.storeSvc.SetInt(shared.KeyPaidLevel, newPaid); err != nil {
		log.WithError(err).Error("failed to persist paid level")
		return paid, shared.NewInternalError(err, "could not save level upgrade")
	}

	log.WithFields(log.Fields{
		"paid_level": newPaid,
		"reference":  reference,
	}).Info("level upgrade completed")

	return newPaid, nil
}
