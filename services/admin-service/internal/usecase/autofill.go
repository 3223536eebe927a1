package usecase

import (
	"context"

	"github.com/perkhive/admin-management-api/services/admin-service/internal/model"
)

// AutofillUsecase serves candidate values for known form field categories.
type AutofillUsecase interface {
	GetAll(ctx context.Context) ([]model.AutofillSuggestion, error)
}

// suggestions is loaded once at process start and never mutated, so reads are
// race-free. Value order is presentation priority.
var suggestions = []model.AutofillSuggestion{
	{
		Category: model.FieldCompany,
		Values:   []string{"Perkhive", "Perkhive Partners"},
	},
	{
		Category: model.FieldDepartment,
		Values: []string{
			"Operations",
			"Customer Support",
			"Finance",
			"Marketing",
			"Engineering",
			"Compliance",
		},
	},
	{
		Category: model.FieldJobTitle,
		Values: []string{
			"Administrator",
			"Operations Manager",
			"Support Agent",
			"Accountant",
			"Analyst",
		},
	},
}

type autofillUsecase struct{}

// NewAutofillUsecase creates a new instance of AutofillUsecase.
func NewAutofillUsecase() AutofillUsecase {
	return &autofillUsecase{}
}

func (u *autofillUsecase) GetAll(_ context.Context) ([]model.AutofillSuggestion, error) {
	out := make([]model.AutofillSuggestion, len(suggestions))
	copy(out, suggestions)
	return out, nil
}
