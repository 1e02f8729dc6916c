package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNextPublicationState(t *testing.T) {
	tests := []struct {
		name         string
		count, max   int
		hasExclusive bool
		want         PublicationState
	}{
		{"fresh shared lead", 0, 4, false, PublicationAvailable},
		{"partially sold", 3, 4, false, PublicationAvailable},
		{"quota reached", 4, 4, false, PublicationExhausted},
		{"exclusive sold", 1, 4, true, PublicationExhausted},
		{"exclusive-only lead still open", 0, 0, false, PublicationAvailable},
		{"exclusive-only lead sold", 1, 0, true, PublicationExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextPublicationState(tt.count, tt.max, tt.hasExclusive))
		})
	}
}

func TestLeadRemainingShared(t *testing.T) {
	lead := NewLead("Kitchen remodel", decimal.NewFromInt(42000), 3)
	assert.Equal(t, PublicationAvailable, lead.PublicationState)
	assert.Equal(t, 3, lead.RemainingShared())

	lead.AllocationCount = 2
	assert.Equal(t, 1, lead.RemainingShared())

	lead.AllocationCount = 3
	assert.Equal(t, 0, lead.RemainingShared())

	lead.AllocationCount = 1
	lead.HasExclusive = true
	assert.Equal(t, 0, lead.RemainingShared())
}

func TestTransactionKindValid(t *testing.T) {
	assert.True(t, TransactionKindRecharge.Valid())
	assert.True(t, TransactionKindConsume.Valid())
	assert.True(t, TransactionKindAdjust.Valid())
	assert.False(t, TransactionKind("TRANSFER").Valid())
}
