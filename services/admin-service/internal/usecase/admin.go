package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/perkhive/admin-management-api/services/admin-service/internal/config"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/model"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/permission"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/repository"
	"github.com/perkhive/admin-management-api/shared/security"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAdminNotFound   = errors.New("admin user not found")
	ErrDuplicateEmail  = errors.New("email is already registered")
)

// VerificationNotifier delivers account notifications to admin users.
// Delivery is fire-and-forget: a failure is logged and never rolls back the
// operation that triggered it.
type VerificationNotifier interface {
	SendVerificationCode(adminUserID, email, code string) error
	SendPasswordChanged(email string) error
}

// RegisterParams defines the parameters for admin registration.
type RegisterParams struct {
	Email       string
	Password    string
	Company     string
	Department  string
	FirstName   string
	LastName    string
	JobTitle    string
	PhoneNumber string
}

// PaginatedAdminUsers is one page of the admin listing together with the
// total matching count.
type PaginatedAdminUsers struct {
	Items       []*model.AdminUser
	CurrentPage int64
	PageSize    int64
	TotalCount  int64
}

// AdminUserUsecase defines the business logic for managing admin users.
type AdminUserUsecase interface {
	// Register creates an inactive admin user, issues an email confirmation
	// code and triggers its delivery.
	Register(ctx context.Context, params RegisterParams) (*model.AdminUser, error)

	// ConfirmEmail redeems a confirmation code and activates its owner.
	ConfirmEmail(ctx context.Context, code string) (VerificationResult, error)

	UpdateProfile(ctx context.Context, id string, params repository.UpdateProfileParams) (*model.AdminUser, error)

	// UpdatePermissions replaces the user's permission set. Any unknown
	// permission fails the whole call before storage is touched.
	UpdatePermissions(ctx context.Context, id string, perms []permission.Permission) (*model.AdminUser, error)

	GetAll(ctx context.Context, activeOnly bool) ([]*model.AdminUser, error)
	GetPaginated(ctx context.Context, page, pageSize int64, activeOnly bool) (*PaginatedAdminUsers, error)
	GetByEmail(ctx context.Context, email string, activeOnly bool) (*model.AdminUser, error)
	GetByID(ctx context.Context, id string) (*model.AdminUser, error)
	GetPermissions(ctx context.Context, id string) ([]permission.Permission, error)

	ResetPassword(ctx context.Context, id, newPassword string) (*model.AdminUser, error)
}

type adminUserUsecase struct {
	adminRepo   repository.AdminUserRepository
	verifier    EmailVerificationUsecase
	notifier    VerificationNotifier
	logger      *zerolog.Logger
	pageSizeMax int64
}

// NewAdminUserUsecase creates a new instance of AdminUserUsecase.
func NewAdminUserUsecase(
	adminRepo repository.AdminUserRepository,
	verifier EmailVerificationUsecase,
	notifier VerificationNotifier,
	logger *zerolog.Logger,
	cfg *config.AdminServiceConfig,
) AdminUserUsecase {
	return &adminUserUsecase{
		adminRepo:   adminRepo,
		verifier:    verifier,
		notifier:    notifier,
		logger:      logger,
		pageSizeMax: cfg.PageSizeMax,
	}
}

func (u *adminUserUsecase) Register(ctx context.Context, params RegisterParams) (*model.AdminUser, error) {
	if strings.TrimSpace(params.Email) == "" {
		return nil, fmt.Errorf("%w: email can't be empty", ErrInvalidArgument)
	}
	if params.Password == "" {
		return nil, fmt.Errorf("%w: password can't be empty", ErrInvalidArgument)
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	admin, err := u.adminRepo.Create(ctx, &model.AdminUser{
		Email:        params.Email,
		Company:      params.Company,
		Department:   params.Department,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		JobTitle:     params.JobTitle,
		PhoneNumber:  params.PhoneNumber,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	code, err := u.verifier.Issue(ctx, admin.ID)
	if err != nil {
		return nil, err
	}

	// Delivery failures never roll the registration back; the admin can
	// request a fresh code later.
	if err := u.notifier.SendVerificationCode(admin.ID, admin.Email, code.Code); err != nil {
		u.logger.Error().Err(err).
			Str("admin_user_id", admin.ID).
			Msg("failed to deliver verification code")
	}

	return admin, nil
}

func (u *adminUserUsecase) ConfirmEmail(ctx context.Context, code string) (VerificationResult, error) {
	if strings.TrimSpace(code) == "" {
		return VerificationResult{}, fmt.Errorf("%w: verification code can't be empty", ErrInvalidArgument)
	}

	return u.verifier.Confirm(ctx, code)
}

func (u *adminUserUsecase) UpdateProfile(
	ctx context.Context,
	id string,
	params repository.UpdateProfileParams,
) (*model.AdminUser, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: admin user id can't be empty", ErrInvalidArgument)
	}

	admin, err := u.adminRepo.UpdateProfile(ctx, id, params)
	if err != nil {
		return nil, mapNotFound(err)
	}

	return admin, nil
}

func (u *adminUserUsecase) UpdatePermissions(
	ctx context.Context,
	id string,
	perms []permission.Permission,
) (*model.AdminUser, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: admin user id can't be empty", ErrInvalidArgument)
	}

	// All-or-nothing: one unknown permission rejects the whole set before any
	// write happens.
	for _, p := range perms {
		if !permission.IsValid(p) {
			return nil, fmt.Errorf("%w: unknown permission %q", ErrInvalidArgument, p)
		}
	}

	admin, err := u.adminRepo.SetPermissions(ctx, id, dedupePermissions(perms))
	if err != nil {
		return nil, mapNotFound(err)
	}

	return admin, nil
}

func (u *adminUserUsecase) GetAll(ctx context.Context, activeOnly bool) ([]*model.AdminUser, error) {
	return u.adminRepo.List(ctx, activeOnly)
}

func (u *adminUserUsecase) GetPaginated(
	ctx context.Context,
	page, pageSize int64,
	activeOnly bool,
) (*PaginatedAdminUsers, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", ErrInvalidArgument)
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: page size must be positive", ErrInvalidArgument)
	}
	if pageSize > u.pageSizeMax {
		return nil, fmt.Errorf("%w: page size can't exceed %d", ErrInvalidArgument, u.pageSizeMax)
	}

	items, total, err := u.adminRepo.ListPaginated(ctx, page, pageSize, activeOnly)
	if err != nil {
		return nil, err
	}

	return &PaginatedAdminUsers{
		Items:       items,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalCount:  total,
	}, nil
}

func (u *adminUserUsecase) GetByEmail(ctx context.Context, email string, activeOnly bool) (*model.AdminUser, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email can't be empty", ErrInvalidArgument)
	}

	admin, err := u.adminRepo.GetByEmail(ctx, email, activeOnly)
	if err != nil {
		return nil, mapNotFound(err)
	}

	return admin, nil
}

func (u *adminUserUsecase) GetByID(ctx context.Context, id string) (*model.AdminUser, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: admin user id can't be empty", ErrInvalidArgument)
	}

	admin, err := u.adminRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	return admin, nil
}

func (u *adminUserUsecase) GetPermissions(ctx context.Context, id string) ([]permission.Permission, error) {
	admin, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return admin.Permissions, nil
}

func (u *adminUserUsecase) ResetPassword(ctx context.Context, id, newPassword string) (*model.AdminUser, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: admin user id can't be empty", ErrInvalidArgument)
	}
	if newPassword == "" {
		return nil, fmt.Errorf("%w: password can't be empty", ErrInvalidArgument)
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	admin, err := u.adminRepo.SetPasswordHash(ctx, id, passwordHash)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if err := u.notifier.SendPasswordChanged(admin.Email); err != nil {
		u.logger.Error().Err(err).
			Str("admin_user_id", admin.ID).
			Msg("failed to deliver password changed notice")
	}

	return admin, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAdminNotFound
	}
	return err
}

func dedupePermissions(perms []permission.Permission) []permission.Permission {
	seen := make(map[permission.Permission]bool, len(perms))
	out := make([]permission.Permission, 0, len(perms))
	for _, p := range perms {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
