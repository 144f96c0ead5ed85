package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"zero", "0", "₹0.00"},
		{"under a thousand", "950", "₹950.00"},
		{"thousand", "1000", "₹1,000.00"},
		{"lakh", "100000", "₹1,00,000.00"},
		{"typical rent", "1234567.89", "₹12,34,567.89"},
		{"crore", "12345678.90", "₹1,23,45,678.90"},
		{"large", "1234567890", "₹1,23,45,67,890.00"},
		{"negative", "-450000", "-₹4,50,000.00"},
		{"rounds to paise", "99.999", "₹100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, FormatINR(amount))
		})
	}
}
