package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

// PaymentService tracks in-flight payment intents in volatile storage.
// An unfinished intent simply evaporates on restart and nothing downstream
// is affected.
type PaymentService struct {
	context.DefaultService

	sessionSvc *SessionService
	currency   string
}

const PAYMENT_SVC = "payment_svc"

// Id returns Service ID
func (svc PaymentService) Id() string {
	return PAYMENT_SVC
}

func (svc *PaymentService) Configure(ctx *context.Context) error {
	svc.sessionSvc = ctx.Service(SESSION_SVC).(*SessionService)
	svc.currency = ctx.Service(CONFIG_SVC).(*ConfigService).Get().Currency

	return svc.DefaultService.Configure(ctx)
}

func (svc *PaymentService) Start() error {
	return nil
}

// CreateIntent opens a new intent for the given purpose and amount.
func (svc *PaymentService) CreateIntent(purpose, email string, amount decimal.Decimal) *model.PaymentIntent {
	intent := &model.PaymentIntent{
		ID:        uuid.NewString(),
		Purpose:   purpose,
		Email:     email,
		Amount:    amount,
		Currency:  svc.currency,
		CreatedAt: time.Now(),
	}

	svc.sessionSvc.Set(shared.SessionKeyIntentPrefix+intent.ID, intent)

	log.WithFields(log.Fields{
		"intent_id": intent.ID,
		"purpose":   purpose,
		"amount":    amount.String(),
	}).Info("payment intent created")

	return intent
}

// Take consumes the intent. A second call with the same id fails, which is
// what makes completion idempotent at this layer.
func (svc *PaymentService) Take(intentID string) (*model.PaymentIntent, bool) {
	v, ok := svc.sessionSvc.Take(shared.SessionKeyIntentPrefix + intentID)
	if !ok {
		return nil, false
	}
	intent, ok := v.(*model.PaymentIntent)
	return intent, ok
}

// Cancel discards the intent without side effects, returning it so callers
// can undo whatever the intent was for.
func (svc *PaymentService) Cancel(intentID string) (*model.PaymentIntent, bool) {
	v, ok := svc.sessionSvc.Take(shared.SessionKeyIntentPrefix + intentID)
	if !ok {
		return nil, false
	}
	intent, ok := v.(*model.PaymentIntent)
	if ok {
		log.WithField("intent_id", intentID).Info("payment intent cancelled")
	}
	return intent, ok
}
