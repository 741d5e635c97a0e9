package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentStatus_Classify(t *testing.T) {
	var tests = []struct {
		name     string
		current  PaymentStatus
		next     PaymentStatus
		expected Transition
	}{
		{"pending to complete", StatusPending, StatusComplete, TransitionApply},
		{"pending to failed", StatusPending, StatusFailed, TransitionApply},
		{"complete reapplied", StatusComplete, StatusComplete, TransitionNoop},
		{"failed reapplied", StatusFailed, StatusFailed, TransitionNoop},
		{"complete then failed", StatusComplete, StatusFailed, TransitionConflict},
		{"failed then complete", StatusFailed, StatusComplete, TransitionConflict},
		{"pending reapplied", StatusPending, StatusPending, TransitionNoop},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.current.Classify(tt.next))
		})
	}
}

func TestPaymentStatus_Terminal(t *testing.T) {
	require.False(t, StatusPending.Terminal())
	require.True(t, StatusComplete.Terminal())
	require.True(t, StatusFailed.Terminal())
}
