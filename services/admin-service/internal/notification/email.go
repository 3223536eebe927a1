// Package notification builds and delivers admin account emails over the
// shared mailer.
package notification

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/perkhive/admin-management-api/services/admin-service/internal/config"
	"github.com/perkhive/admin-management-api/shared/mailer"
)

// EmailNotifier delivers admin account notifications over SMTP.
type EmailNotifier struct {
	mailer *mailer.Mailer
	logger *zerolog.Logger
	cfg    *config.AdminServiceConfig
}

// NewEmailNotifier creates a new EmailNotifier instance.
func NewEmailNotifier(m *mailer.Mailer, logger *zerolog.Logger, cfg *config.AdminServiceConfig) *EmailNotifier {
	return &EmailNotifier{
		mailer: m,
		logger: logger,
		cfg:    cfg,
	}
}

// SendVerificationCode emails the confirmation code to a freshly registered
// admin user.
func (n *EmailNotifier) SendVerificationCode(adminUserID, email, code string) error {
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>An administrator account was created for this email address.</p>
		<p>Please confirm the address with the following verification code:</p>

		<p><strong>%s</strong></p>

		<p>The code expires in %s. If you did not expect this email, you can
		safely ignore it.</p>

		<p>Thank you,</p>
		<p>Perkhive Back Office</p>
	`, code, n.cfg.VerificationCodeTTL)

	n.logger.Info().
		Str("admin_user_id", adminUserID).
		Msg("sending verification code email")

	return n.mailer.SendHTML([]string{email}, "Confirm your administrator account", htmlBody)
}

// SendPasswordChanged emails a notice that the account password was reset.
func (n *EmailNotifier) SendPasswordChanged(email string) error {
	htmlBody := `
		<p>Hi,</p>
		<p>The password of your administrator account was just changed.</p>
		<p>If this wasn't you, contact your platform administrator immediately.</p>

		<p>Thank you,</p>
		<p>Perkhive Back Office</p>
	`

	return n.mailer.SendHTML([]string{email}, "Your administrator password was changed", htmlBody)
}
