package model

// Account is a registered user. Passwords are stored as entered; the store
// is a single-device local file, not a shared credential database.
type Account struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	PaymentCompleted bool   `json:"payment_completed"`
	PaymentReference string `json:"payment_reference,omitempty"`
	CreatedAt        int64  `json:"created_at"`
}
