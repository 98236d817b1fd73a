package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/Chucky-Funds/earnova/dto"
	"github.com/Chucky-Funds/earnova/model"
)

type AccountServiceInterface interface {
	Register(req dto.RegisterRequest) (*model.PaymentIntent, error)
	CompleteSignup(intent *model.PaymentIntent, reference string) error
	DiscardPending(intent *model.PaymentIntent)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout()
	Profile(email string) (*dto.ProfileInfo, error)
	UpdateProfile(email string, req dto.UpdateProfileRequest) error
	ChangePassword(email string, req dto.ChangePasswordRequest) error
	DeleteAccount(email string) error
}

type PaymentServiceInterface interface {
	Take(intentID string) (*model.PaymentIntent, bool)
	Cancel(intentID string) (*model.PaymentIntent, bool)
}

type TaskServiceInterface interface {
	VideoPool() dto.TaskPoolResponse
	SurveyPool() dto.TaskPoolResponse
	WebsitePool() dto.TaskPoolResponse
	ReportVideoDuration(taskID string, minutes float64) error
	CompleteVideo(taskID string) (*dto.CompletionResponse, error)
	CompleteSurvey(taskID string, answers map[string]string) (*dto.CompletionResponse, error)
	StartWebsiteVisit(taskID string) (*dto.VisitStatusResponse, error)
	FinishWebsiteVisit() (*dto.CompletionResponse, error)
	CancelWebsiteVisit() error
}

type LedgerServiceInterface interface {
	Balance() decimal.Decimal
	CompletedCount() int
	Transactions() []model.Transaction
	DebitWithdrawal(amount decimal.Decimal, desc string) (model.Transaction, error)
}

type ProgressionServiceInterface interface {
	Snapshot() dto.ProgressionSnapshot
	EffectiveLevel() int
	CanUpgrade() (bool, string)
	UpgradeFee() decimal.Decimal
	RequestUpgrade(email string) (*model.PaymentIntent, error)
	CompleteUpgrade(intent *model.PaymentIntent, reference string) (int, error)
}

type QuotaServiceInterface interface {
	CurrentCount(t model.TaskType) int
	ResetCountdown() int
	Generation() int64
}

func intentResponse(intent *model.PaymentIntent) dto.PaymentIntentResponse {
	return dto.PaymentIntentResponse{
		IntentID: intent.ID,
		Purpose:  intent.Purpose,
		Amount:   intent.Amount.String(),
		Currency: intent.Currency,
	}
}
