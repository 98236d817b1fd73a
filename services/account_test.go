package services

import (
	"testing"
	"time"

	"github.com/Chucky-Funds/earnova/dto"
	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

func newTestAccount(t *testing.T) (*AccountService, *PaymentService, *SessionService) {
	store := newTestStore(t)
	session := newTestSession()
	payment := &PaymentService{sessionSvc: session, currency: "NGN"}
	cfg := &ConfigService{cfg: Config{SignupFee: 3000, LevelUpFee: 1000, Currency: "NGN"}}

	account := &AccountService{
		storeSvc:   store,
		sessionSvc: session,
		jwtSvc:     &JWTService{TokenDuration: time.Hour, jwtSecretKey: "test-secret"},
		paymentSvc: payment,
		configSvc:  cfg,
		attempts:   make(map[string][]time.Time),
		now:        fixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),
	}
	return account, payment, session
}

func register(t *testing.T, account *AccountService) *model.PaymentIntent {
	t.Helper()
	intent, err := account.Register(dto.RegisterRequest{
		Name:            "Ada",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return intent
}

func TestRegisterAndActivate(t *testing.T) {
	account, payment, _ := newTestAccount(t)

	intent := register(t, account)
	if intent.Purpose != model.PaymentPurposeSignup {
		t.Fatalf("purpose = %s", intent.Purpose)
	}
	if !intent.Amount.Equal(account.configSvc.SignupFee()) {
		t.Fatalf("fee = %s", intent.Amount)
	}

	// pending accounts cannot log in
	if _, err := account.Login(dto.LoginRequest{Email: "ada@example.com", Password: "secret1"}); err == nil {
		t.Fatal("pending account logged in")
	}

	taken, ok := payment.Take(intent.ID)
	if !ok {
		t.Fatal("intent missing")
	}
	if err := account.CompleteSignup(taken, "PSK-test"); err != nil {
		t.Fatalf("complete signup: %v", err)
	}

	resp, err := account.Login(dto.LoginRequest{Email: "ada@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Error("empty token")
	}
	if resp.Profile.Name != "Ada" {
		t.Errorf("profile name = %s", resp.Profile.Name)
	}

	// intent is consume-once
	if _, ok := payment.Take(intent.ID); ok {
		t.Fatal("intent consumed twice")
	}
}

func TestCancelledSignupDiscardsAccount(t *testing.T) {
	account, payment, _ := newTestAccount(t)

	intent := register(t, account)

	cancelled, ok := payment.Cancel(intent.ID)
	if !ok {
		t.Fatal("cancel failed")
	}
	account.DiscardPending(cancelled)

	// the email is free again
	if _, err := account.Register(dto.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "other66", ConfirmPassword: "other66",
	}); err != nil {
		t.Fatalf("re-register after cancel: %v", err)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	account, _, _ := newTestAccount(t)

	register(t, account)
	_, err := account.Register(dto.RegisterRequest{
		Name: "Imposter", Email: "ADA@example.com", Password: "xxxxxx", ConfirmPassword: "xxxxxx",
	})
	if err == nil {
		t.Fatal("duplicate email accepted")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	account, payment, _ := newTestAccount(t)

	intent := register(t, account)
	taken, _ := payment.Take(intent.ID)
	account.CompleteSignup(taken, "ref")

	if _, err := account.Login(dto.LoginRequest{Email: "ada@example.com", Password: "wrong"}); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestLoginRateLimit(t *testing.T) {
	account, _, _ := newTestAccount(t)

	for i := 0; i < loginAttemptLimit; i++ {
		account.Login(dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	}

	_, err := account.Login(dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	if err == nil {
		t.Fatal("expected error")
	}
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != 429 {
		t.Fatalf("err = %v", err)
	}
}

func TestChangePasswordAndProfile(t *testing.T) {
	account, payment, _ := newTestAccount(t)

	intent := register(t, account)
	taken, _ := payment.Take(intent.ID)
	account.CompleteSignup(taken, "ref")

	if err := account.ChangePassword("ada@example.com", dto.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "newpass", ConfirmPassword: "newpass",
	}); err == nil {
		t.Fatal("wrong current password accepted")
	}

	if err := account.ChangePassword("ada@example.com", dto.ChangePasswordRequest{
		CurrentPassword: "secret1", NewPassword: "newpass", ConfirmPassword: "newpass",
	}); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := account.Login(dto.LoginRequest{Email: "ada@example.com", Password: "newpass"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	if err := account.UpdateProfile("ada@example.com", dto.UpdateProfileRequest{Name: "Ada L."}); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	profile, err := account.Profile("ada@example.com")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Name != "Ada L." {
		t.Errorf("name = %s", profile.Name)
	}
}

func TestDeleteAccountEndsSession(t *testing.T) {
	account, payment, session := newTestAccount(t)

	intent := register(t, account)
	taken, _ := payment.Take(intent.ID)
	account.CompleteSignup(taken, "ref")
	account.Login(dto.LoginRequest{Email: "ada@example.com", Password: "secret1"})

	if _, ok := session.CurrentUser(); !ok {
		t.Fatal("no session after login")
	}

	if err := account.DeleteAccount("ada@example.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := session.CurrentUser(); ok {
		t.Fatal("session survived account deletion")
	}
	if _, err := account.Profile("ada@example.com"); err == nil {
		t.Fatal("deleted account still found")
	}
}
