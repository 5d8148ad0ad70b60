package dataprocessing

import (
	"strings"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/config"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/pkg/contracts/domain"
)

// Column positions in the embedded tabular file
const (
	ColumnRegistration = 1
	ColumnDescription  = 3
	ColumnAmount       = 5
)

// ExpenseFilter decides which rows become ExpenseRecords
type ExpenseFilter struct {
	keywords         []string
	identifierSuffix string
	labelPrefix      string
}

// NewExpenseFilter creates a filter from the configured vocabulary
func NewExpenseFilter(cfg config.FilterConfig) *ExpenseFilter {
	keywords := make([]string, 0, len(cfg.Keywords))
	for _, k := range cfg.Keywords {
		if k = strings.ToUpper(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	return &ExpenseFilter{
		keywords:         keywords,
		identifierSuffix: cfg.IdentifierSuffix,
		labelPrefix:      cfg.LabelPrefix,
	}
}

// DefaultExpenseFilter matches EVENTO/SINISTRO and synthesizes identifiers
// with the standard suffix and prefix.
func DefaultExpenseFilter() *ExpenseFilter {
	return NewExpenseFilter(config.Default().Filter)
}

// Apply evaluates one row. Quarter and year always come from period.
func (f *ExpenseFilter) Apply(row domain.RawRow, period domain.Period) domain.RowResult {
	if len(row.Fields) < domain.MinRowFields {
		return domain.Drop(domain.DropReasonTooShort)
	}

	if !f.matchesCategory(row.Fields[ColumnDescription]) {
		return domain.Drop(domain.DropReasonCategoryMismatch)
	}

	amount, err := ParseLocaleDecimal(row.Fields[ColumnAmount])
	if err != nil {
		return domain.Drop(domain.DropReasonInvalidAmount)
	}
	if !amount.IsPositive() {
		return domain.Drop(domain.DropReasonNonPositiveAmount)
	}

	registration := row.Fields[ColumnRegistration]
	return domain.Qualify(domain.ExpenseRecord{
		Identifier: f.Identifier(registration),
		Label:      f.Label(registration),
		Quarter:    period.Quarter,
		Year:       period.Year,
		Amount:     amount,
	})
}

// Identifier synthesizes the CNPJ column from a registration number
func (f *ExpenseFilter) Identifier(registration string) string {
	return registration + f.identifierSuffix
}

// Label synthesizes the RazaoSocial column from a registration number
func (f *ExpenseFilter) Label(registration string) string {
	return f.labelPrefix + registration
}

func (f *ExpenseFilter) matchesCategory(description string) bool {
	upper := strings.ToUpper(description)
	for _, k := range f.keywords {
		if strings.Contains(upper, k) {
			return true
		}
	}
	return false
}
