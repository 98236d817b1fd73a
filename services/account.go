package services

import (
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/Chucky-Funds/earnova/dto"
	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

const (
	loginAttemptWindow = 15 * time.Minute
	loginAttemptLimit  = 10
)

// AccountService manages the stored accounts. A freshly registered account
// sits pending until its signup payment completes; until then it cannot
// log in, and cancelling the payment discards it entirely.
type AccountService struct {
	context.DefaultService

	storeSvc   *StoreService
	sessionSvc *SessionService
	jwtSvc     *JWTService
	paymentSvc *PaymentService
	configSvc  *ConfigService

	mu       sync.Mutex
	attempts map[string][]time.Time

	now func() time.Time
}

const ACCOUNT_SVC = "account_svc"

// Id returns Service ID
func (svc AccountService) Id() string {
	return ACCOUNT_SVC
}

func (svc *AccountService) Configure(ctx *context.Context) error {
	svc.storeSvc = ctx.Service(STORE_SVC).(*StoreService)
	svc.sessionSvc = ctx.Service(SESSION_SVC).(*SessionService)
	svc.jwtSvc = ctx.Service(JWT_SVC).(*JWTService)
	svc.paymentSvc = ctx.Service(PAYMENT_SVC).(*PaymentService)
	svc.configSvc = ctx.Service(CONFIG_SVC).(*ConfigService)

	svc.attempts = make(map[string][]time.Time)
	if svc.now == nil {
		svc.now = time.Now
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *AccountService) Start() error {
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (svc *AccountService) accounts() []model.Account {
	var accounts []model.Account
	svc.storeSvc.GetJSON(shared.KeyAccounts, &accounts)
	return accounts
}

func (svc *AccountService) saveAccounts(accounts []model.Account) error {
	return svc.storeSvc.SetJSON(shared.KeyAccounts, accounts)
}

func (svc *AccountService) find(email string) (model.Account, int, bool) {
	email = normalizeEmail(email)
	for i, a := range svc.accounts() {
		if normalizeEmail(a.Email) == email {
			return a, i, true
		}
	}
	return model.Account{}, 0, false
}

// ==================== REGISTRATION ====================

// Register stores a pending account and opens a signup payment intent.
func (svc *AccountService) Register(req dto.RegisterRequest) (*model.PaymentIntent, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	email := normalizeEmail(req.Email)
	if _, _, exists := svc.find(email); exists {
		return nil, shared.NewConflictError(nil, "an account with this email already exists")
	}

	accounts := append(svc.accounts(), model.Account{
		Name:      req.Name,
		Email:     email,
		Password:  req.Password,
		CreatedAt: svc.now().Unix(),
	})
	if err := svc.saveAccounts(accounts); err != nil {
		return nil, shared.NewInternalError(err, "could not save account")
	}

	intent := svc.paymentSvc.CreateIntent(model.PaymentPurposeSignup, email, svc.configSvc.SignupFee())

	log.WithField("email", email).Info("account registered, awaiting signup payment")
	return intent, nil
}

// CompleteSignup activates the pending account named by a consumed intent.
func (svc *AccountService) CompleteSignup(intent *model.PaymentIntent, reference string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	account, idx, ok := svc.find(intent.Email)
	if !ok {
		return shared.NewNotFoundError(nil, "account not found")
	}

	account.PaymentCompleted = true
	account.PaymentReference = reference

	accounts := svc.accounts()
	accounts[idx] = account
	if err := svc.saveAccounts(accounts); err != nil {
		return shared.NewInternalError(err, "could not save account")
	}

	log.WithFields(log.Fields{
		"email":     account.Email,
		"reference": reference,
	}).Info("signup payment completed")
	return nil
}

// DiscardPending removes the account a cancelled signup intent created,
// freeing the email for a fresh registration.
func (svc *AccountService) DiscardPending(intent *model.PaymentIntent) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	account, idx, ok := svc.find(intent.Email)
	if !ok || account.PaymentCompleted {
		return
	}

	accounts := svc.accounts()
	accounts = append(accounts[:idx], accounts[idx+1:]...)
	if err := svc.saveAccounts(accounts); err != nil {
		log.WithError(err).Error("failed to discard pending account")
		return
	}

	log.WithField("email", account.Email).Info("pending account discarded")
}

// ==================== LOGIN ====================

func (svc *AccountService) rateLimited(email string) bool {
	now := svc.now()
	cutoff := now.Add(-loginAttemptWindow)

	recent := svc.attempts[email][:0]
	for _, t := range svc.attempts[email] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	svc.attempts[email] = append(recent, now)

	return len(recent) >= loginAttemptLimit
}

func (svc *AccountService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	email := normalizeEmail(req.Email)
	if svc.rateLimited(email) {
		return nil, shared.NewTooManyRequestsError(nil, "too many login attempts, try again later")
	}

	account, _, ok := svc.find(email)
	if !ok || account.Password != req.Password {
		return nil, shared.NewUnauthorizedError(nil, "invalid email or password")
	}
	if !account.PaymentCompleted {
		return nil, shared.NewForbiddenError(nil, "signup payment not completed")
	}

	token, err := svc.jwtSvc.ToJWT(email)
	if err != nil {
		return nil, shared.NewInternalError(err, "could not issue token")
	}

	svc.sessionSvc.SetCurrentUser(email)
	delete(svc.attempts, email)

	return &dto.LoginResponse{
		Token: token,
		Profile: dto.ProfileInfo{
			Name:             account.Name,
			Email:            account.Email,
			PaymentCompleted: account.PaymentCompleted,
		},
	}, nil
}

func (svc *AccountService) Logout() {
	svc.sessionSvc.ClearCurrentUser()
}

// ==================== PROFILE ====================

func (svc *AccountService) Profile(email string) (*dto.ProfileInfo, error) {
	account, _, ok := svc.find(email)
	if !ok {
		return nil, shared.NewNotFoundError(nil, "account not found")
	}
	return &dto.ProfileInfo{
		Name:             account.Name,
		Email:            account.Email,
		PaymentCompleted: account.PaymentCompleted,
	}, nil
}

func (svc *AccountService) UpdateProfile(email string, req dto.UpdateProfileRequest) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	account, idx, ok := svc.find(email)
	if !ok {
		return shared.NewNotFoundError(nil, "account not found")
	}

	account.Name = req.Name
	accounts := svc.accounts()
	accounts[idx] = account
	return svc.saveAccounts(accounts)
}

func (svc *AccountService) ChangePassword(email string, req dto.ChangePasswordRequest) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	account, idx, ok := svc.find(email)
	if !ok {
		return shared.NewNotFoundError(nil, "account not found")
	}
	if account.Password != req.CurrentPassword {
		return shared.NewUnauthorizedError(nil, "current password is incorrect")
	}
	if req.NewPassword == req.CurrentPassword {
		return shared.NewBadRequestError(nil, "new password must differ from the current one")
	}

	account.Password = req.NewPassword
	accounts := svc.accounts()
	accounts[idx] = account
	return svc.saveAccounts(accounts)
}

// DeleteAccount removes the account and ends its session. Earnings and
// progression stay behind; they belong to the device, not the account.
func (svc *AccountService) DeleteAccount(email string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, idx, ok := svc.find(email)
	if !ok {
		return shared.NewNotFoundError(nil, "account not found")
	}

	accounts := svc.accounts()
	accounts = append(accounts[:idx], accounts[idx+1:]...)
	if err := svc.saveAccounts(accounts); err != nil {
		return shared.NewInternalError(err, "could not save accounts")
	}

	svc.sessionSvc.ClearCurrentUser()
	log.WithField("email", email).Info("account deleted")
	return nil
}
