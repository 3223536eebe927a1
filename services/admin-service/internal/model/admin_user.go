package model

import (
	"time"

	"github.com/perkhive/admin-management-api/services/admin-service/internal/permission"
)

// AdminUser represents a privileged back-office account. Admin users are never
// physically deleted; deactivation is expressed through IsActive so historical
// references stay resolvable.
type AdminUser struct {
	ID           string                  `bson:"_id"`
	Email        string                  `bson:"email"`
	EmailLower   string                  `bson:"email_lower"`
	Company      string                  `bson:"company"`
	Department   string                  `bson:"department"`
	FirstName    string                  `bson:"first_name"`
	LastName     string                  `bson:"last_name"`
	JobTitle     string                  `bson:"job_title"`
	PhoneNumber  string                  `bson:"phone_number"`
	IsActive     bool                    `bson:"is_active"`
	Permissions  []permission.Permission `bson:"permissions"`
	PasswordHash string                  `bson:"password_hash"`
	RegisteredAt time.Time               `bson:"registered_at"`
	CreatedAt    time.Time               `bson:"created_at"`
	UpdatedAt    time.Time               `bson:"updated_at"`
}

// HasPermission reports whether the admin user holds the given permission.
func (u *AdminUser) HasPermission(p permission.Permission) bool {
	for _, held := range u.Permissions {
		if held == p {
			return true
		}
	}
	return false
}
