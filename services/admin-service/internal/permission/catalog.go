// Package permission holds the closed catalog of admin capability grants.
// The catalog is fixed at compile time and never mutated at runtime, so
// membership checks are race-free without locking.
package permission

// Permission is a named capability grant. The service treats permissions as
// opaque tags; their semantics live with the features they gate.
type Permission string

const (
	Dashboard            Permission = "Dashboard"
	ManageAdmins         Permission = "AdminManagement"
	ManageCustomers      Permission = "CustomerManagement"
	ActionRules          Permission = "ActionRules"
	BlockchainOperations Permission = "BlockchainOperations"
	ProgramPartners      Permission = "ProgramPartners"
	Reports              Permission = "Reports"
	Settings             Permission = "Settings"
)

var catalog = map[Permission]struct{}{
	Dashboard:            {},
	ManageAdmins:         {},
	ManageCustomers:      {},
	ActionRules:          {},
	BlockchainOperations: {},
	ProgramPartners:      {},
	Reports:              {},
	Settings:             {},
}

// All returns every known permission. The returned slice is a copy; callers
// may reorder it freely.
func All() []Permission {
	all := make([]Permission, 0, len(catalog))
	for p := range catalog {
		all = append(all, p)
	}
	return all
}

// IsValid reports whether p is part of the catalog.
func IsValid(p Permission) bool {
	_, ok := catalog[p]
	return ok
}
