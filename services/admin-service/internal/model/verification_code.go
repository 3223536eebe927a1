package model

import "time"

// CodePurpose identifies what a verification code proves. Only email
// confirmation exists today; the type is open for future purposes.
type CodePurpose string

const (
	PurposeEmailConfirmation CodePurpose = "email-confirmation"
)

// VerificationCode represents a one-time code bound to an admin user and a
// purpose. A nil ConsumedAt means the code has not been redeemed yet; once set
// the code is permanently inert.
type VerificationCode struct {
	Code        string      `bson:"_id"`
	AdminUserID string      `bson:"admin_user_id"`
	Purpose     CodePurpose `bson:"purpose"`
	CreatedAt   time.Time   `bson:"created_at"`
	ExpiresAt   time.Time   `bson:"expires_at"`
	ConsumedAt  *time.Time  `bson:"consumed_at,omitempty"`
}

// Active reports whether the code is still redeemable at the given instant.
func (c *VerificationCode) Active(now time.Time) bool {
	return c.ConsumedAt == nil && now.Before(c.ExpiresAt)
}
