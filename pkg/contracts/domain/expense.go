package domain

import (
	"github.com/shopspring/decimal"
)

// OutputHeader is the fixed first line of the consolidated file
var OutputHeader = []string{"CNPJ", "RazaoSocial", "Trimestre", "Ano", "ValorDespesas"}

// MinRowFields is the minimum number of fields a tabular row needs to be considered
const MinRowFields = 6

// Period identifies a reporting interval derived from an archive name
type Period struct {
	Quarter string `json:"quarter"` // e.g. "1T"
	Year    string `json:"year"`    // e.g. "2025"
}

// SentinelPeriod is used when an archive name does not carry a period
var SentinelPeriod = Period{Quarter: "0T", Year: "0000"}

// IsSentinel reports whether the period is the fallback value
func (p Period) IsSentinel() bool {
	return p == SentinelPeriod
}

// String renders the period as it appears in archive names ("1T2025")
func (p Period) String() string {
	return p.Quarter + p.Year
}

// ArchiveReference points at one staged archive and the period derived from its name
type ArchiveReference struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Period Period `json:"period"`
}

// RawRow is one split line of the embedded tabular file
type RawRow struct {
	Line   int      // 1-based line number inside the entry, header included
	Fields []string
}

// ExpenseRecord is a qualifying row ready for the consolidated output
type ExpenseRecord struct {
	Identifier string          `json:"identifier"`
	Label      string          `json:"label"`
	Quarter    string          `json:"quarter"`
	Year       string          `json:"year"`
	Amount     decimal.Decimal `json:"amount"`
}

// Fields returns the record in output column order with the amount fixed to two decimals
func (r ExpenseRecord) Fields() []string {
	return []string{r.Identifier, r.Label, r.Quarter, r.Year, r.Amount.StringFixed(2)}
}

// DropReason explains why a row produced no record
type DropReason string

const (
	DropReasonNone              DropReason = ""
	DropReasonTooShort          DropReason = "too_short"
	DropReasonCategoryMismatch  DropReason = "category_mismatch"
	DropReasonInvalidAmount     DropReason = "invalid_amount"
	DropReasonNonPositiveAmount DropReason = "non_positive_amount"
)

// RowResult is the outcome of filtering a single row: either a record or a drop reason
type RowResult struct {
	Record *ExpenseRecord
	Reason DropReason
}

// Qualified reports whether the row produced a record
func (r RowResult) Qualified() bool {
	return r.Record != nil
}

// Qualify wraps a record in a RowResult
func Qualify(record ExpenseRecord) RowResult {
	return RowResult{Record: &record}
}

// Drop builds a RowResult for a dropped row
func Drop(reason DropReason) RowResult {
	return RowResult{Reason: reason}
}
