package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExpenseRecord_Fields(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"two decimals kept", "1234.56", "1234.56"},
		{"pads to two decimals", "13.4", "13.40"},
		{"integer amount", "500", "500.00"},
		{"rounds half away from zero", "0.005", "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ExpenseRecord{
				Identifier: "123456000100",
				Label:      "OPERADORA 123456",
				Quarter:    "1T",
				Year:       "2025",
				Amount:     decimal.RequireFromString(tt.amount),
			}
			assert.Equal(t, []string{"123456000100", "OPERADORA 123456", "1T", "2025", tt.want}, r.Fields())
		})
	}
}

func TestPeriod(t *testing.T) {
	assert.True(t, SentinelPeriod.IsSentinel())
	assert.False(t, Period{Quarter: "1T", Year: "2025"}.IsSentinel())
	assert.Equal(t, "3T2024", Period{Quarter: "3T", Year: "2024"}.String())
}

func TestRowResult(t *testing.T) {
	dropped := Drop(DropReasonCategoryMismatch)
	assert.False(t, dropped.Qualified())
	assert.Equal(t, DropReasonCategoryMismatch, dropped.Reason)

	kept := Qualify(ExpenseRecord{Identifier: "1"})
	assert.True(t, kept.Qualified())
	assert.Equal(t, DropReasonNone, kept.Reason)
	assert.Equal(t, "1", kept.Record.Identifier)
}

func TestRunSummary(t *testing.T) {
	s := NewRunSummary("run-1")
	s.RecordDrop(DropReasonTooShort)
	s.RecordDrop(DropReasonTooShort)
	s.RecordDrop(DropReasonInvalidAmount)

	assert.Equal(t, 3, s.TotalDropped())
	assert.Equal(t, 2, s.Dropped[DropReasonTooShort])
	assert.Zero(t, s.Duration())
}
