package handler

import (
	"time"

	"github.com/perkhive/admin-management-api/services/admin-service/internal/model"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/permission"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/repository"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/usecase"
)

type RegisterRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=8"`
	Company     string `json:"company"`
	Department  string `json:"department"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	JobTitle    string `json:"job_title"`
	PhoneNumber string `json:"phone_number"`
}

type ConfirmEmailRequest struct {
	VerificationCode string `json:"verification_code" validate:"required"`
}

type ConfirmEmailResponse struct {
	Succeeded bool       `json:"succeeded"`
	Error     string     `json:"error,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type UpdateAdminRequest struct {
	AdminUserID string  `json:"admin_user_id" validate:"required"`
	Company     *string `json:"company"`
	Department  *string `json:"department"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	JobTitle    *string `json:"job_title"`
	PhoneNumber *string `json:"phone_number"`
	IsActive    *bool   `json:"is_active"`
}

type UpdatePermissionsRequest struct {
	AdminUserID string   `json:"admin_user_id" validate:"required"`
	Permissions []string `json:"permissions"   validate:"required"`
}

type PaginationRequest struct {
	CurrentPage int64 `json:"current_page" validate:"required,min=1"`
	PageSize    int64 `json:"page_size"    validate:"required,min=1"`
	ActiveOnly  bool  `json:"active_only"`
}

type GetByEmailRequest struct {
	Email      string `json:"email" validate:"required,email"`
	ActiveOnly bool   `json:"active_only"`
}

type GetByIDRequest struct {
	AdminUserID string `json:"admin_user_id" validate:"required"`
}

type ResetPasswordRequest struct {
	AdminUserID string `json:"admin_user_id" validate:"required"`
	Password    string `json:"password"      validate:"required,min=8"`
}

type AdminUserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Company      string    `json:"company"`
	Department   string    `json:"department"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	JobTitle     string    `json:"job_title"`
	PhoneNumber  string    `json:"phone_number"`
	IsActive     bool      `json:"is_active"`
	Permissions  []string  `json:"permissions"`
	RegisteredAt time.Time `json:"registered_at"`
}

type PaginatedAdminUsersResponse struct {
	Items       []AdminUserResponse `json:"items"`
	CurrentPage int64               `json:"current_page"`
	PageSize    int64               `json:"page_size"`
	TotalCount  int64               `json:"total_count"`
}

type AutofillValuesResponse struct {
	Values []SuggestedValueMapping `json:"values"`
}

type SuggestedValueMapping struct {
	Type   string   `json:"type"`
	Values []string `json:"values"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Conversions between domain models and response payloads are written out by
// hand so renamed or added fields can never be dropped silently.

func toAdminUserResponse(u *model.AdminUser) AdminUserResponse {
	return AdminUserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Company:      u.Company,
		Department:   u.Department,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		JobTitle:     u.JobTitle,
		PhoneNumber:  u.PhoneNumber,
		IsActive:     u.IsActive,
		Permissions:  permissionsToStrings(u.Permissions),
		RegisteredAt: u.RegisteredAt,
	}
}

func toAdminUserResponses(users []*model.AdminUser) []AdminUserResponse {
	out := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toAdminUserResponse(u))
	}
	return out
}

func toConfirmEmailResponse(result usecase.VerificationResult) ConfirmEmailResponse {
	if !result.Succeeded() {
		return ConfirmEmailResponse{Error: string(result.Error)}
	}

	expiresAt := result.ExpiresAt
	return ConfirmEmailResponse{
		Succeeded: true,
		ExpiresAt: &expiresAt,
	}
}

func toUpdateProfileParams(req UpdateAdminRequest) repository.UpdateProfileParams {
	return repository.UpdateProfileParams{
		Company:     req.Company,
		Department:  req.Department,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		JobTitle:    req.JobTitle,
		PhoneNumber: req.PhoneNumber,
		IsActive:    req.IsActive,
	}
}

func toRegisterParams(req RegisterRequest) usecase.RegisterParams {
	return usecase.RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		Company:     req.Company,
		Department:  req.Department,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		JobTitle:    req.JobTitle,
		PhoneNumber: req.PhoneNumber,
	}
}

func toAutofillValuesResponse(suggestions []model.AutofillSuggestion) AutofillValuesResponse {
	values := make([]SuggestedValueMapping, 0, len(suggestions))
	for _, s := range suggestions {
		values = append(values, SuggestedValueMapping{
			Type:   string(s.Category),
			Values: s.Values,
		})
	}
	return AutofillValuesResponse{Values: values}
}

func permissionsToStrings(perms []permission.Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}

func stringsToPermissions(values []string) []permission.Permission {
	out := make([]permission.Permission, 0, len(values))
	for _, v := range values {
		out = append(out, permission.Permission(v))
	}
	return out
}
