package model

// FieldCategory is the closed set of form fields the back office can offer
// autofill suggestions for.
type FieldCategory string

const (
	FieldCompany    FieldCategory = "Company"
	FieldDepartment FieldCategory = "Department"
	FieldJobTitle   FieldCategory = "JobTitle"
)

// AutofillSuggestion maps a field category to its candidate values, ordered by
// presentation priority.
type AutofillSuggestion struct {
	Category FieldCategory
	Values   []string
}
