package payout

import "paygate/internal/models"

// transitions enumerates every legal payout state change. SUCCESS and
// FAILED are terminal: they have no outgoing edges.
var transitions = map[models.PayoutStatus][]models.PayoutStatus{
	models.PayoutStatusPending: {
		models.PayoutStatusProcessing,
		models.PayoutStatusOnHold,
		models.PayoutStatusInReview,
	},
	models.PayoutStatusProcessing: {
		models.PayoutStatusSuccess,
		models.PayoutStatusFailed,
		models.PayoutStatusRetry,
		models.PayoutStatusOnHold,
		models.PayoutStatusInReview,
	},
	models.PayoutStatusRetry: {
		models.PayoutStatusProcessing,
		models.PayoutStatusOnHold,
		models.PayoutStatusInReview,
	},
	models.PayoutStatusOnHold: {
		models.PayoutStatusProcessing,
		models.PayoutStatusInReview,
	},
	models.PayoutStatusInReview: {
		models.PayoutStatusProcessing,
		models.PayoutStatusFailed,
		models.PayoutStatusOnHold,
	},
}

// CanTransition reports whether from -> to is a legal state change.
func CanTransition(from, to models.PayoutStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
