package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/perkhive/admin-management-api/services/admin-service/internal/model"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/permission"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/repository"
)

// fakeAdminRepo is an in-memory AdminUserRepository honoring the same
// contracts as the mongo implementation: case-insensitive email uniqueness,
// per-record atomic writes, deterministic registration ordering.
type fakeAdminRepo struct {
	mu    sync.Mutex
	users map[string]*model.AdminUser
	order []string
	seq   int
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{users: map[string]*model.AdminUser{}}
}

func cloneUser(u *model.AdminUser) *model.AdminUser {
	clone := *u
	clone.Permissions = append([]permission.Permission{}, u.Permissions...)
	return &clone
}

func (r *fakeAdminRepo) Create(_ context.Context, user *model.AdminUser) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lower := strings.ToLower(user.Email)
	for _, existing := range r.users {
		if existing.EmailLower == lower {
			return nil, repository.ErrDuplicateEmail
		}
	}

	r.seq++
	user.ID = fmt.Sprintf("admin-%04d", r.seq)
	user.EmailLower = lower
	user.RegisteredAt = time.Now()
	if user.Permissions == nil {
		user.Permissions = []permission.Permission{}
	}

	r.users[user.ID] = cloneUser(user)
	r.order = append(r.order, user.ID)

	return cloneUser(user), nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id string) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *fakeAdminRepo) GetByEmail(_ context.Context, email string, activeOnly bool) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lower := strings.ToLower(email)
	for _, user := range r.users {
		if user.EmailLower == lower {
			if activeOnly && !user.IsActive {
				return nil, repository.ErrNotFound
			}
			return cloneUser(user), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAdminRepo) Activate(_ context.Context, id string) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.IsActive = true
	return cloneUser(user), nil
}

func (r *fakeAdminRepo) UpdateProfile(
	_ context.Context,
	id string,
	params repository.UpdateProfileParams,
) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if params.Company != nil {
		user.Company = *params.Company
	}
	if params.Department != nil {
		user.Department = *params.Department
	}
	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}
	if params.JobTitle != nil {
		user.JobTitle = *params.JobTitle
	}
	if params.PhoneNumber != nil {
		user.PhoneNumber = *params.PhoneNumber
	}
	if params.IsActive != nil {
		user.IsActive = *params.IsActive
	}

	return cloneUser(user), nil
}

func (r *fakeAdminRepo) SetPermissions(
	_ context.Context,
	id string,
	perms []permission.Permission,
) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.Permissions = append([]permission.Permission{}, perms...)
	return cloneUser(user), nil
}

func (r *fakeAdminRepo) SetPasswordHash(_ context.Context, id string, hash string) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.PasswordHash = hash
	return cloneUser(user), nil
}

func (r *fakeAdminRepo) List(_ context.Context, activeOnly bool) ([]*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.listLocked(activeOnly), nil
}

func (r *fakeAdminRepo) ListPaginated(
	_ context.Context,
	page, pageSize int64,
	activeOnly bool,
) ([]*model.AdminUser, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.listLocked(activeOnly)
	total := int64(len(all))

	start := (page - 1) * pageSize
	if start >= total {
		return []*model.AdminUser{}, total, nil
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	return all[start:end], total, nil
}

func (r *fakeAdminRepo) listLocked(activeOnly bool) []*model.AdminUser {
	out := []*model.AdminUser{}
	for _, id := range r.order {
		user := r.users[id]
		if activeOnly && !user.IsActive {
			continue
		}
		out = append(out, cloneUser(user))
	}
	return out
}

// fakeCodeRepo is an in-memory VerificationCodeRepository whose Consume is a
// mutex-guarded compare-and-set, mirroring the single-winner semantics of the
// mongo implementation.
type fakeCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*model.VerificationCode
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{codes: map[string]*model.VerificationCode{}}
}

func cloneCode(c *model.VerificationCode) *model.VerificationCode {
	clone := *c
	if c.ConsumedAt != nil {
		consumedAt := *c.ConsumedAt
		clone.ConsumedAt = &consumedAt
	}
	return &clone
}

func (r *fakeCodeRepo) Create(_ context.Context, code *model.VerificationCode) (*model.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codes[code.Code] = cloneCode(code)
	return cloneCode(code), nil
}

func (r *fakeCodeRepo) GetByCode(_ context.Context, code string) (*model.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vc, ok := r.codes[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneCode(vc), nil
}

func (r *fakeCodeRepo) Consume(_ context.Context, code string, now time.Time) (*model.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vc, ok := r.codes[code]
	if !ok || vc.ConsumedAt != nil {
		return nil, repository.ErrNotFound
	}

	consumedAt := now
	vc.ConsumedAt = &consumedAt
	return cloneCode(vc), nil
}

func (r *fakeCodeRepo) InvalidateActive(
	_ context.Context,
	adminUserID string,
	purpose model.CodePurpose,
	now time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, vc := range r.codes {
		if vc.AdminUserID == adminUserID && vc.Purpose == purpose && vc.ConsumedAt == nil {
			consumedAt := now
			vc.ConsumedAt = &consumedAt
		}
	}
	return nil
}

// activeCodes returns the unconsumed, unexpired codes for an admin user.
func (r *fakeCodeRepo) activeCodes(adminUserID string, now time.Time) []*model.VerificationCode {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*model.VerificationCode{}
	for _, vc := range r.codes {
		if vc.AdminUserID == adminUserID && vc.Active(now) {
			out = append(out, cloneCode(vc))
		}
	}
	return out
}

// fakeNotifier records notifications instead of delivering them.
type fakeNotifier struct {
	mu               sync.Mutex
	sentCodes        []string
	sentTo           []string
	passwordChanged  []string
	failNextDelivery bool
}

func (n *fakeNotifier) SendVerificationCode(_, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.failNextDelivery {
		n.failNextDelivery = false
		return fmt.Errorf("smtp unavailable")
	}

	n.sentCodes = append(n.sentCodes, code)
	n.sentTo = append(n.sentTo, email)
	return nil
}

func (n *fakeNotifier) SendPasswordChanged(email string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.passwordChanged = append(n.passwordChanged, email)
	return nil
}
