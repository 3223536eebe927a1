package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/perkhive/admin-management-api/services/admin-service/internal/config"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/model"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/repository"
)

// ConfirmError is the terminal state of a failed confirmation attempt. The
// kinds are distinct because they call for different remediation: a NotFound
// code should be re-checked for typos, an Expired or AlreadyConsumed one needs
// a fresh code.
type ConfirmError string

const (
	ConfirmErrorNotFound        ConfirmError = "NotFound"
	ConfirmErrorExpired         ConfirmError = "Expired"
	ConfirmErrorAlreadyConsumed ConfirmError = "AlreadyConsumed"
)

// VerificationResult is the tagged outcome of a confirmation attempt. Callers
// branch on it; confirmation failures are expected outcomes, not Go errors.
type VerificationResult struct {
	// Error is empty when the confirmation succeeded.
	Error ConfirmError

	// ExpiresAt carries the expiry that was in force, set only on success.
	ExpiresAt time.Time
}

// Succeeded reports whether the confirmation went through.
func (r VerificationResult) Succeeded() bool {
	return r.Error == ""
}

func succeededResult(expiresAt time.Time) VerificationResult {
	return VerificationResult{ExpiresAt: expiresAt}
}

func failedResult(err ConfirmError) VerificationResult {
	return VerificationResult{Error: err}
}

// EmailVerificationUsecase issues and redeems one-time email confirmation
// codes.
type EmailVerificationUsecase interface {
	// Issue creates a fresh code for the admin user, invalidating any code
	// that was still active for the same purpose.
	Issue(ctx context.Context, adminUserID string) (*model.VerificationCode, error)

	// Confirm redeems a code. The returned error is reserved for storage
	// failures; every expected outcome is expressed in the result.
	Confirm(ctx context.Context, code string) (VerificationResult, error)
}

type emailVerificationUsecase struct {
	codeRepo  repository.VerificationCodeRepository
	adminRepo repository.AdminUserRepository
	logger    *zerolog.Logger
	ttl       time.Duration
	now       func() time.Time
}

// NewEmailVerificationUsecase creates a new instance of EmailVerificationUsecase.
func NewEmailVerificationUsecase(
	codeRepo repository.VerificationCodeRepository,
	adminRepo repository.AdminUserRepository,
	logger *zerolog.Logger,
	cfg *config.AdminServiceConfig,
) EmailVerificationUsecase {
	return &emailVerificationUsecase{
		codeRepo:  codeRepo,
		adminRepo: adminRepo,
		logger:    logger,
		ttl:       cfg.VerificationCodeTTL,
		now:       time.Now,
	}
}

func (u *emailVerificationUsecase) Issue(ctx context.Context, adminUserID string) (*model.VerificationCode, error) {
	now := u.now()

	// Invalidate before inserting. The ordering matters: between the two
	// steps there is no active code for the pair, so at no point can two
	// codes be active at once.
	if err := u.codeRepo.InvalidateActive(ctx, adminUserID, model.PurposeEmailConfirmation, now); err != nil {
		return nil, err
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	return u.codeRepo.Create(ctx, &model.VerificationCode{
		Code:        code,
		AdminUserID: adminUserID,
		Purpose:     model.PurposeEmailConfirmation,
		CreatedAt:   now,
		ExpiresAt:   now.Add(u.ttl),
	})
}

func (u *emailVerificationUsecase) Confirm(ctx context.Context, code string) (VerificationResult, error) {
	vc, err := u.codeRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failedResult(ConfirmErrorNotFound), nil
		}
		return VerificationResult{}, err
	}

	if vc.ConsumedAt != nil {
		return failedResult(ConfirmErrorAlreadyConsumed), nil
	}

	now := u.now()
	if now.After(vc.ExpiresAt) {
		return failedResult(ConfirmErrorExpired), nil
	}

	// Compare-and-set consume: if another confirmation won the race between
	// the read above and this write, the filter no longer matches and the
	// loser reports AlreadyConsumed.
	consumed, err := u.codeRepo.Consume(ctx, code, now)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failedResult(ConfirmErrorAlreadyConsumed), nil
		}
		return VerificationResult{}, err
	}

	if _, err := u.adminRepo.Activate(ctx, consumed.AdminUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failedResult(ConfirmErrorNotFound), nil
		}
		return VerificationResult{}, err
	}

	u.logger.Info().
		Str("admin_user_id", consumed.AdminUserID).
		Msg("email verification code confirmed")

	return succeededResult(consumed.ExpiresAt), nil
}

// generateCode produces a cryptographically unpredictable code value.
func generateCode() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
