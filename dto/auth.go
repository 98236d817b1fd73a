package dto

// ==================== AUTHENTICATION REQUEST DTOs ====================

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=60" example:"John Doe"`
	Email           string `json:"email" validate:"required,email" example:"user@example.com"`
	Password        string `json:"password" validate:"required,min=6" example:"secret1"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password" example:"secret1"`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" validate:"required" example:"secret1"`
}

func (l LoginRequest) Validate() error {
	return GetValidator().Struct(l)
}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2,max=60" example:"John Doe"`
}

func (u UpdateProfileRequest) Validate() error {
	return GetValidator().Struct(u)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required" example:"secret1"`
	NewPassword     string `json:"new_password" validate:"required,min=6" example:"secret2"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword" example:"secret2"`
}

func (c ChangePasswordRequest) Validate() error {
	return GetValidator().Struct(c)
}

// ==================== AUTHENTICATION RESPONSE DTOs ====================

type LoginResponse struct {
	Token   string      `json:"token"`
	Profile ProfileInfo `json:"profile"`
}

type ProfileInfo struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	PaymentCompleted bool   `json:"payment_completed"`
}

// ==================== PAYMENT DTOs ====================

type PaymentIntentResponse struct {
	IntentID string `json:"intent_id"`
	Purpose  string `json:"purpose"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type CompletePaymentRequest struct {
	Reference string `json:"reference" validate:"required" example:"PSK-8f3a1c"`
}

func (c CompletePaymentRequest) Validate() error {
	return GetValidator().Struct(c)
}
