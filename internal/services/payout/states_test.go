package payout

import (
	"testing"

	"paygate/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    models.PayoutStatus
		to      models.PayoutStatus
		allowed bool
	}{
		{models.PayoutStatusPending, models.PayoutStatusProcessing, true},
		{models.PayoutStatusPending, models.PayoutStatusOnHold, true},
		{models.PayoutStatusPending, models.PayoutStatusInReview, true},
		{models.PayoutStatusPending, models.PayoutStatusSuccess, false},
		{models.PayoutStatusPending, models.PayoutStatusFailed, false},
		{models.PayoutStatusPending, models.PayoutStatusRetry, false},

		{models.PayoutStatusProcessing, models.PayoutStatusSuccess, true},
		{models.PayoutStatusProcessing, models.PayoutStatusFailed, true},
		{models.PayoutStatusProcessing, models.PayoutStatusRetry, true},
		{models.PayoutStatusProcessing, models.PayoutStatusOnHold, true},
		{models.PayoutStatusProcessing, models.PayoutStatusInReview, true},
		{models.PayoutStatusProcessing, models.PayoutStatusPending, false},

		{models.PayoutStatusRetry, models.PayoutStatusProcessing, true},
		{models.PayoutStatusRetry, models.PayoutStatusOnHold, true},
		{models.PayoutStatusRetry, models.PayoutStatusInReview, true},
		{models.PayoutStatusRetry, models.PayoutStatusSuccess, false},
		{models.PayoutStatusRetry, models.PayoutStatusFailed, false},

		{models.PayoutStatusOnHold, models.PayoutStatusProcessing, true},
		{models.PayoutStatusOnHold, models.PayoutStatusInReview, true},
		{models.PayoutStatusOnHold, models.PayoutStatusFailed, false},

		{models.PayoutStatusInReview, models.PayoutStatusProcessing, true},
		{models.PayoutStatusInReview, models.PayoutStatusFailed, true},
		{models.PayoutStatusInReview, models.PayoutStatusOnHold, true},
		{models.PayoutStatusInReview, models.PayoutStatusSuccess, false},

		// Terminal states have no outgoing edges.
		{models.PayoutStatusSuccess, models.PayoutStatusProcessing, false},
		{models.PayoutStatusSuccess, models.PayoutStatusFailed, false},
		{models.PayoutStatusFailed, models.PayoutStatusProcessing, false},
		{models.PayoutStatusFailed, models.PayoutStatusRetry, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

// Hold and flag apply to any payout that has not reached a terminal
// state.
func TestHoldAndFlagReachableFromEveryNonTerminalState(t *testing.T) {
	nonTerminal := []models.PayoutStatus{
		models.PayoutStatusPending,
		models.PayoutStatusProcessing,
		models.PayoutStatusRetry,
		models.PayoutStatusOnHold,
		models.PayoutStatusInReview,
	}
	for _, from := range nonTerminal {
		if from != models.PayoutStatusOnHold {
			assert.True(t, CanTransition(from, models.PayoutStatusOnHold), "%s -> ON_HOLD", from)
		}
		if from != models.PayoutStatusInReview {
			assert.True(t, CanTransition(from, models.PayoutStatusInReview), "%s -> IN_REVIEW", from)
		}
	}
}

func TestTerminalStatesMatchTransitionTable(t *testing.T) {
	all := []models.PayoutStatus{
		models.PayoutStatusPending,
		models.PayoutStatusProcessing,
		models.PayoutStatusSuccess,
		models.PayoutStatusFailed,
		models.PayoutStatusRetry,
		models.PayoutStatusInReview,
		models.PayoutStatusOnHold,
	}
	for _, status := range all {
		assert.Equal(t, status.Terminal(), len(transitions[status]) == 0, "%s", status)
	}
}
